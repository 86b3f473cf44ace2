package firebase

import (
	"context"
	"fmt"

	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	identitydomain "github.com/jakub-pelec/teacherspace-cf/internal/identity/domain"
)

// Provider implements the identity boundary on top of Firebase Auth.
type Provider struct {
	auth *auth.Client
}

func New(ctx context.Context, projectID string) (*Provider, error) {
	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase auth: %w", err)
	}
	return &Provider{auth: client}, nil
}

func (p *Provider) CreateUser(ctx context.Context, req identitydomain.CreateUserRequest) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(req.Email).
		Password(req.Password).
		Disabled(false)
	if req.UID != "" {
		params = params.UID(req.UID)
	}

	record, err := p.auth.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", identitydomain.ErrUserExists
		}
		return "", err
	}
	return record.UID, nil
}

func (p *Provider) SetUserClaims(ctx context.Context, uid string, claims map[string]any) error {
	return p.auth.SetCustomUserClaims(ctx, uid, claims)
}

func (p *Provider) DeleteUser(ctx context.Context, uid string) error {
	if err := p.auth.DeleteUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return identitydomain.ErrUserNotFound
		}
		return err
	}
	return nil
}
