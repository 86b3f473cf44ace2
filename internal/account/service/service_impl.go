package service

import (
	"context"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jakub-pelec/teacherspace-cf/internal/account/domain"
	"github.com/jakub-pelec/teacherspace-cf/internal/config"
	identitydomain "github.com/jakub-pelec/teacherspace-cf/internal/identity/domain"
	paymentdomain "github.com/jakub-pelec/teacherspace-cf/internal/payment/domain"
	storedomain "github.com/jakub-pelec/teacherspace-cf/internal/store/domain"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Cfg       config.Config
	Store     storedomain.Store
	Identity  identitydomain.Provider
	Processor paymentdomain.Processor
}

type Service struct {
	log             *zap.Logger
	store           storedomain.Store
	identity        identitydomain.Provider
	processor       paymentdomain.Processor
	paymentsEnabled bool
}

func New(p Params) domain.Service {
	return &Service{
		log:             p.Log.Named("account.service"),
		store:           p.Store,
		identity:        p.Identity,
		processor:       p.Processor,
		paymentsEnabled: p.Cfg.PaymentsEnabled,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAccountRequest) (domain.CreateAccountResult, error) {
	if err := validate(req); err != nil {
		return domain.CreateAccountResult{}, err
	}

	doc := map[string]any{
		"firstName": strings.TrimSpace(req.FirstName),
		"lastName":  strings.TrimSpace(req.LastName),
		"email":     req.Email,
	}
	if len(req.Subjects) > 0 {
		doc["subjects"] = req.Subjects
	}
	if len(req.Classes) > 0 {
		doc["classes"] = req.Classes
	}

	setupSecret := ""
	if s.paymentsEnabled {
		customerID, err := s.processor.CreateCustomer(ctx, req.Email)
		if err != nil {
			return domain.CreateAccountResult{}, err
		}
		intent, err := s.processor.CreateSetupIntent(ctx, customerID)
		if err != nil {
			return domain.CreateAccountResult{}, err
		}
		setupSecret = intent.ClientSecret
		doc[paymentdomain.FieldCustomerID] = customerID
		doc[paymentdomain.FieldSetupSecret] = setupSecret
	}

	firestoreID, err := s.store.Add(ctx, paymentdomain.CollectionUsers, doc)
	if err != nil {
		return domain.CreateAccountResult{}, err
	}

	// The identity account is pinned to the document id so that a deletion
	// event resolves the user record without a lookup.
	uid, err := s.identity.CreateUser(ctx, identitydomain.CreateUserRequest{
		UID:      firestoreID,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return domain.CreateAccountResult{}, err
	}

	if err := s.identity.SetUserClaims(ctx, uid, map[string]any{"firestoreID": firestoreID}); err != nil {
		return domain.CreateAccountResult{}, err
	}

	s.log.Info("account created",
		zap.String("firestore_id", firestoreID),
		zap.Bool("payments", s.paymentsEnabled),
	)
	return domain.CreateAccountResult{FirestoreID: firestoreID, SetupSecret: setupSecret}, nil
}

func validate(req domain.CreateAccountRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.ErrInvalidEmail
	}
	if len(req.Password) < 6 {
		return domain.ErrWeakPassword
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return domain.ErrMissingName
	}
	return nil
}
