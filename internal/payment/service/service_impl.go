package service

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jakub-pelec/teacherspace-cf/internal/errreport"
	"github.com/jakub-pelec/teacherspace-cf/internal/payment/domain"
	storedomain "github.com/jakub-pelec/teacherspace-cf/internal/store/domain"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Store     storedomain.Store
	Processor domain.Processor
	Reporter  errreport.Reporter
}

type Service struct {
	log       *zap.Logger
	store     storedomain.Store
	processor domain.Processor
	reporter  errreport.Reporter
}

func New(p Params) domain.Service {
	return &Service{
		log:       p.Log.Named("payment.service"),
		store:     p.Store,
		processor: p.Processor,
		reporter:  p.Reporter,
	}
}

func (s *Service) CapturePaymentMethod(ctx context.Context, userID, methodID string) error {
	path := methodPath(userID, methodID)

	stub, err := s.store.Get(ctx, path)
	if err != nil {
		return s.report(ctx, userID, fmt.Errorf("read payment method stub: %w", err))
	}

	processorID := getString(stub, domain.FieldID)
	if processorID == "" {
		return s.fail(ctx, path, userID, domain.NewInternalError(domain.ErrMissingMethodID))
	}

	method, err := s.processor.GetPaymentMethod(ctx, processorID)
	if err != nil {
		return s.fail(ctx, path, userID, err)
	}
	if err := s.store.Set(ctx, path, method.Payload); err != nil {
		return s.fail(ctx, path, userID, domain.NewInternalError(err))
	}

	// Rotate the setup secret so the client can add another method later.
	intent, err := s.processor.CreateSetupIntent(ctx, method.CustomerID)
	if err != nil {
		return s.fail(ctx, path, userID, err)
	}
	if err := s.store.Merge(ctx, userPath(userID), map[string]any{
		domain.FieldSetupSecret: intent.ClientSecret,
	}); err != nil {
		return s.fail(ctx, path, userID, domain.NewInternalError(err))
	}

	s.log.Info("captured payment method",
		zap.String("user_id", userID),
		zap.String("method_id", methodID),
	)
	return nil
}

func (s *Service) CreatePayment(ctx context.Context, userID, paymentID string) error {
	path := paymentPath(userID, paymentID)

	stub, err := s.store.Get(ctx, path)
	if err != nil {
		return s.report(ctx, userID, fmt.Errorf("read payment stub: %w", err))
	}

	amount, ok := toInt64(stub[domain.FieldAmount])
	currency := getString(stub, domain.FieldCurrency)
	method := getString(stub, domain.FieldPaymentMethod)
	if !ok || currency == "" || method == "" {
		return s.fail(ctx, path, userID, domain.NewInternalError(domain.ErrMalformedPayment))
	}

	user, err := s.store.Get(ctx, userPath(userID))
	if err != nil {
		return s.fail(ctx, path, userID, domain.NewInternalError(err))
	}
	customerID := getString(user, domain.FieldCustomerID)
	if customerID == "" {
		return s.fail(ctx, path, userID, domain.NewInternalError(domain.ErrMissingCustomer))
	}

	// The record id doubles as the idempotency key: redelivery of this
	// event returns the original charge instead of creating a second one.
	payload, err := s.processor.CreatePaymentIntent(ctx, domain.IntentRequest{
		Amount:        amount,
		Currency:      currency,
		Customer:      customerID,
		PaymentMethod: method,
	}, paymentID)
	if err != nil {
		return s.fail(ctx, path, userID, err)
	}
	if err := s.store.Set(ctx, path, payload); err != nil {
		return s.fail(ctx, path, userID, domain.NewInternalError(err))
	}

	s.log.Info("created payment intent",
		zap.String("user_id", userID),
		zap.String("payment_id", paymentID),
		zap.String("status", getString(payload, domain.FieldStatus)),
	)
	return nil
}

func (s *Service) ConfirmPayment(ctx context.Context, userID, paymentID string) error {
	path := paymentPath(userID, paymentID)

	record, err := s.store.Get(ctx, path)
	if err != nil {
		return s.report(ctx, userID, fmt.Errorf("read payment record: %w", err))
	}

	if domain.Status(getString(record, domain.FieldStatus)) != domain.StatusRequiresConfirmation {
		return nil
	}

	intentID := getString(record, domain.FieldID)
	if intentID == "" {
		return s.fail(ctx, path, userID, domain.NewInternalError(domain.ErrMissingIntentID))
	}

	payload, err := s.processor.ConfirmPaymentIntent(ctx, intentID)
	if err != nil {
		return s.fail(ctx, path, userID, err)
	}
	if err := s.store.Set(ctx, path, payload); err != nil {
		return s.fail(ctx, path, userID, domain.NewInternalError(err))
	}

	s.log.Info("confirmed payment intent",
		zap.String("user_id", userID),
		zap.String("payment_id", paymentID),
		zap.String("status", getString(payload, domain.FieldStatus)),
	)
	return nil
}

func (s *Service) CleanupUser(ctx context.Context, userID string) error {
	user, err := s.store.Get(ctx, userPath(userID))
	if err != nil {
		return s.report(ctx, userID, fmt.Errorf("read user record: %w", err))
	}

	// The processor customer is deleted before the batch and is not part of
	// it; a batch failure afterwards leaves no customer to charge against.
	if customerID := getString(user, domain.FieldCustomerID); customerID != "" {
		if err := s.processor.DeleteCustomer(ctx, customerID); err != nil {
			return s.report(ctx, userID, err)
		}
	}

	if err := s.store.DeleteTree(ctx, userPath(userID), []string{
		domain.CollectionPaymentMethods,
		domain.CollectionPayments,
	}); err != nil {
		return s.report(ctx, userID, fmt.Errorf("delete user tree: %w", err))
	}

	s.log.Info("cleaned up user", zap.String("user_id", userID))
	return nil
}

// fail merges the user-facing message into the affected record and reports
// the underlying error out of band. The returned error is for logging only.
func (s *Service) fail(ctx context.Context, recordPath, userID string, err error) error {
	if mergeErr := s.store.Merge(ctx, recordPath, map[string]any{
		domain.FieldError: domain.UserMessage(err),
	}); mergeErr != nil {
		s.log.Error("write error field", zap.String("path", recordPath), zap.Error(mergeErr))
	}
	return s.report(ctx, userID, err)
}

func (s *Service) report(ctx context.Context, userID string, err error) error {
	s.reporter.Report(ctx, err, map[string]string{"user": userID})
	return err
}

func userPath(userID string) string {
	return storedomain.Join(domain.CollectionUsers, userID)
}

func methodPath(userID, methodID string) string {
	return storedomain.Join(domain.CollectionUsers, userID, domain.CollectionPaymentMethods, methodID)
}

func paymentPath(userID, paymentID string) string {
	return storedomain.Join(domain.CollectionUsers, userID, domain.CollectionPayments, paymentID)
}

func getString(doc map[string]any, key string) string {
	v, _ := doc[key].(string)
	return v
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
