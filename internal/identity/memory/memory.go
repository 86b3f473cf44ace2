package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	identitydomain "github.com/jakub-pelec/teacherspace-cf/internal/identity/domain"
)

type account struct {
	email  string
	claims map[string]any
}

// Provider is an in-memory identity provider used as the local-development
// backend and as the substitute in tests.
type Provider struct {
	mu       sync.Mutex
	accounts map[string]*account
	byEmail  map[string]string
}

func New() *Provider {
	return &Provider{
		accounts: make(map[string]*account),
		byEmail:  make(map[string]string),
	}
}

func (p *Provider) CreateUser(_ context.Context, req identitydomain.CreateUserRequest) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.byEmail[req.Email]; ok {
		return "", identitydomain.ErrUserExists
	}
	uid := req.UID
	if uid == "" {
		uid = uuid.NewString()
	}
	if _, ok := p.accounts[uid]; ok {
		return "", identitydomain.ErrUserExists
	}
	p.accounts[uid] = &account{email: req.Email}
	p.byEmail[req.Email] = uid
	return uid, nil
}

func (p *Provider) SetUserClaims(_ context.Context, uid string, claims map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[uid]
	if !ok {
		return identitydomain.ErrUserNotFound
	}
	acc.claims = claims
	return nil
}

func (p *Provider) DeleteUser(_ context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[uid]
	if !ok {
		return identitydomain.ErrUserNotFound
	}
	delete(p.byEmail, acc.email)
	delete(p.accounts, uid)
	return nil
}

// Claims returns the custom claims attached to uid.
func (p *Provider) Claims(uid string) map[string]any {
	p.mu.Lock()
	defer p.mu.Unlock()

	if acc, ok := p.accounts[uid]; ok {
		return acc.claims
	}
	return nil
}
