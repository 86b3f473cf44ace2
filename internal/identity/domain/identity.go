package domain

import (
	"context"
	"errors"
)

// CreateUserRequest carries the credentials for a new identity-provider
// account. Accounts are always created enabled. UID pins the account id to
// the user document id so deletion events resolve the record directly.
type CreateUserRequest struct {
	UID      string
	Email    string
	Password string
}

// Provider is the identity-provider boundary. The provider owns only the
// credential record and a weak back-reference to the user document via
// custom claims; it is never traversed for cleanup.
type Provider interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (uid string, err error)
	SetUserClaims(ctx context.Context, uid string, claims map[string]any) error
	DeleteUser(ctx context.Context, uid string) error
}

var (
	ErrUserExists   = errors.New("user_exists")
	ErrUserNotFound = errors.New("user_not_found")
)
