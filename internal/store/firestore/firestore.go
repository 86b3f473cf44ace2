package firestore

import (
	"context"
	"fmt"

	fs "cloud.google.com/go/firestore"
	storedomain "github.com/jakub-pelec/teacherspace-cf/internal/store/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store implements the document-store boundary on top of Cloud Firestore.
type Store struct {
	client *fs.Client
}

func New(ctx context.Context, projectID string) (*Store, error) {
	client, err := fs.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (s *Store) Get(ctx context.Context, path string) (map[string]any, error) {
	snap, err := s.client.Doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, storedomain.ErrNotFound
		}
		return nil, err
	}
	return snap.Data(), nil
}

func (s *Store) Set(ctx context.Context, path string, data map[string]any) error {
	_, err := s.client.Doc(path).Set(ctx, data)
	return err
}

func (s *Store) Merge(ctx context.Context, path string, data map[string]any) error {
	_, err := s.client.Doc(path).Set(ctx, data, fs.MergeAll)
	return err
}

func (s *Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.Doc(path).Delete(ctx)
	return err
}

func (s *Store) ListCollection(ctx context.Context, collection string) ([]storedomain.Doc, error) {
	snaps, err := s.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]storedomain.Doc, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, storedomain.Doc{
			ID:   snap.Ref.ID,
			Path: snap.Ref.Path,
			Data: snap.Data(),
		})
	}
	return docs, nil
}

func (s *Store) DeleteTree(ctx context.Context, path string, subcollections []string) error {
	batch := s.client.Batch()
	for _, sub := range subcollections {
		snaps, err := s.client.Collection(storedomain.Join(path, sub)).Documents(ctx).GetAll()
		if err != nil {
			return err
		}
		for _, snap := range snaps {
			batch.Delete(snap.Ref)
		}
	}
	batch.Delete(s.client.Doc(path))
	_, err := batch.Commit(ctx)
	return err
}
