package domain

import (
	"context"
	"errors"
)

type CreateAccountRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Subjects  []string
	Classes   []string
}

type CreateAccountResult struct {
	// FirestoreID is the user document id, also used as the identity
	// account uid and stored on the account as a custom claim.
	FirestoreID string
	// SetupSecret is set in the payments profile so the client can collect
	// a card right away.
	SetupSecret string
}

// Service provisions accounts across the document store, the identity
// provider and, in the payments profile, the payment processor. Provisioning
// is not transactional: a failure partway through leaves earlier side
// effects in place.
type Service interface {
	Create(ctx context.Context, req CreateAccountRequest) (CreateAccountResult, error)
}

var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	ErrMissingName  = errors.New("first and last name are required")
)
