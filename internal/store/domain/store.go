package domain

import (
	"context"
	"errors"
	"strings"
)

// Doc is a stored document with its id and fields.
type Doc struct {
	ID   string
	Path string
	Data map[string]any
}

// Store is the document-store boundary. All durable state lives behind it;
// implementations must be safe for concurrent use from independent
// invocations.
type Store interface {
	// Add creates a document with a store-generated id and returns the id.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	Get(ctx context.Context, path string) (map[string]any, error)
	// Set overwrites the document at path with data.
	Set(ctx context.Context, path string, data map[string]any) error
	// Merge writes only the given fields, preserving all others.
	Merge(ctx context.Context, path string, data map[string]any) error
	Delete(ctx context.Context, path string) error
	ListCollection(ctx context.Context, collection string) ([]Doc, error)
	// DeleteTree deletes the document at path together with every document
	// in the named subcollections as a single atomic batch. Either all
	// deletions apply or none do.
	DeleteTree(ctx context.Context, path string, subcollections []string) error
}

var ErrNotFound = errors.New("document not found")

// Join builds a document or collection path from segments.
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}
