package service_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jakub-pelec/teacherspace-cf/internal/payment/domain"
	paymentservice "github.com/jakub-pelec/teacherspace-cf/internal/payment/service"
	storedomain "github.com/jakub-pelec/teacherspace-cf/internal/store/domain"
	memstore "github.com/jakub-pelec/teacherspace-cf/internal/store/memory"
)

type fakeProcessor struct {
	charges          map[string]map[string]any
	createIntentErr  error
	confirmErr       error
	setupIntentCalls int
	confirmCalls     int
	deletedCustomers []string

	methodPayload map[string]any
	methodErr     error
}

func newFakeProcessor() *fakeProcessor {
	return &fakeProcessor{charges: make(map[string]map[string]any)}
}

func (f *fakeProcessor) CreateCustomer(_ context.Context, email string) (string, error) {
	return "cus_" + email, nil
}

func (f *fakeProcessor) CreateSetupIntent(_ context.Context, customerID string) (domain.SetupIntent, error) {
	f.setupIntentCalls++
	return domain.SetupIntent{ID: "seti_1", ClientSecret: "seti_secret_" + customerID}, nil
}

func (f *fakeProcessor) GetPaymentMethod(_ context.Context, id string) (domain.PaymentMethod, error) {
	if f.methodErr != nil {
		return domain.PaymentMethod{}, f.methodErr
	}
	payload := f.methodPayload
	if payload == nil {
		payload = map[string]any{"id": id, "type": "card"}
	}
	return domain.PaymentMethod{CustomerID: "cus_owner", Payload: payload}, nil
}

func (f *fakeProcessor) CreatePaymentIntent(_ context.Context, req domain.IntentRequest, idempotencyKey string) (map[string]any, error) {
	if f.createIntentErr != nil {
		return nil, f.createIntentErr
	}
	// Same idempotency key returns the original charge.
	if existing, ok := f.charges[idempotencyKey]; ok {
		return existing, nil
	}
	payload := map[string]any{
		"id":       "pi_" + idempotencyKey,
		"amount":   req.Amount,
		"currency": req.Currency,
		"customer": req.Customer,
		"status":   string(domain.StatusRequiresConfirmation),
	}
	f.charges[idempotencyKey] = payload
	return payload, nil
}

func (f *fakeProcessor) ConfirmPaymentIntent(_ context.Context, intentID string) (map[string]any, error) {
	f.confirmCalls++
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return map[string]any{"id": intentID, "status": string(domain.StatusSucceeded)}, nil
}

func (f *fakeProcessor) DeleteCustomer(_ context.Context, customerID string) error {
	f.deletedCustomers = append(f.deletedCustomers, customerID)
	return nil
}

type fakeReporter struct {
	reports []map[string]string
}

func (f *fakeReporter) Report(_ context.Context, _ error, labels map[string]string) {
	f.reports = append(f.reports, labels)
}

func newService(st storedomain.Store, proc domain.Processor, rep *fakeReporter) domain.Service {
	return paymentservice.New(paymentservice.Params{
		Log:       zap.NewNop(),
		Store:     st,
		Processor: proc,
		Reporter:  rep,
	})
}

func seedUser(t *testing.T, st storedomain.Store, userID string, data map[string]any) {
	t.Helper()
	if err := st.Set(context.Background(), "users/"+userID, data); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestCreatePaymentIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	proc := newFakeProcessor()
	rep := &fakeReporter{}
	svc := newService(st, proc, rep)

	seedUser(t, st, "u1", map[string]any{"customer_id": "cus_1"})
	stub := map[string]any{"amount": int64(500), "currency": "usd", "payment_method": "pm_1"}
	if err := st.Set(ctx, "users/u1/payments/p1", stub); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	if err := svc.CreatePayment(ctx, "u1", "p1"); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	first, err := st.Get(ctx, "users/u1/payments/p1")
	if err != nil {
		t.Fatalf("read after first delivery: %v", err)
	}

	// Redelivery of the same create event: stub content was already
	// overwritten, but the processor must not be charged again.
	if err := st.Set(ctx, "users/u1/payments/p1", stub); err != nil {
		t.Fatalf("reset stub: %v", err)
	}
	if err := svc.CreatePayment(ctx, "u1", "p1"); err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	second, err := st.Get(ctx, "users/u1/payments/p1")
	if err != nil {
		t.Fatalf("read after second delivery: %v", err)
	}

	if len(proc.charges) != 1 {
		t.Fatalf("expected exactly one charge, got %d", len(proc.charges))
	}
	if first["id"] != second["id"] || first["status"] != second["status"] {
		t.Fatalf("deliveries diverged: %v vs %v", first, second)
	}
	if second["status"] != string(domain.StatusRequiresConfirmation) {
		t.Fatalf("unexpected status %v", second["status"])
	}
}

func TestCreatePaymentMissingCustomer(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	proc := newFakeProcessor()
	rep := &fakeReporter{}
	svc := newService(st, proc, rep)

	seedUser(t, st, "u1", map[string]any{"email": "a@b.com"})
	if err := st.Set(ctx, "users/u1/payments/p1", map[string]any{
		"amount": int64(500), "currency": "usd", "payment_method": "pm_1",
	}); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	if err := svc.CreatePayment(ctx, "u1", "p1"); err == nil {
		t.Fatal("expected error for user without customer")
	}

	record, err := st.Get(ctx, "users/u1/payments/p1")
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	if record["error"] != domain.GenericUserMessage {
		t.Fatalf("expected generic user message, got %v", record["error"])
	}
	if len(proc.charges) != 0 {
		t.Fatalf("no charge should have been attempted, got %d", len(proc.charges))
	}
	if len(rep.reports) != 1 || rep.reports[0]["user"] != "u1" {
		t.Fatalf("expected one report tagged with user id, got %v", rep.reports)
	}
}

func TestCreatePaymentProcessorRejection(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	proc := newFakeProcessor()
	proc.createIntentErr = domain.NewProcessorError("Your card was declined.", errors.New("card_declined"))
	rep := &fakeReporter{}
	svc := newService(st, proc, rep)

	seedUser(t, st, "u1", map[string]any{"customer_id": "cus_1"})
	if err := st.Set(ctx, "users/u1/payments/p1", map[string]any{
		"amount": int64(500), "currency": "usd", "payment_method": "pm_1",
	}); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	if err := svc.CreatePayment(ctx, "u1", "p1"); err == nil {
		t.Fatal("expected error")
	}

	record, _ := st.Get(ctx, "users/u1/payments/p1")
	if record["error"] != "Your card was declined." {
		t.Fatalf("processor rejection should surface its own message, got %v", record["error"])
	}
	// The stub fields survive because the failure is merged, not overwritten.
	if record["payment_method"] != "pm_1" {
		t.Fatalf("stub fields should be preserved, got %v", record)
	}
}

func TestConfirmPaymentRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	proc := newFakeProcessor()
	rep := &fakeReporter{}
	svc := newService(st, proc, rep)

	if err := st.Set(ctx, "users/u1/payments/p1", map[string]any{
		"id": "pi_1", "status": string(domain.StatusRequiresConfirmation),
	}); err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	if err := svc.ConfirmPayment(ctx, "u1", "p1"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if proc.confirmCalls != 1 {
		t.Fatalf("expected exactly one confirm call, got %d", proc.confirmCalls)
	}
	record, _ := st.Get(ctx, "users/u1/payments/p1")
	if record["status"] != string(domain.StatusSucceeded) {
		t.Fatalf("expected succeeded, got %v", record["status"])
	}
}

func TestConfirmPaymentOtherStatusNoop(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	proc := newFakeProcessor()
	rep := &fakeReporter{}
	svc := newService(st, proc, rep)

	for _, status := range []domain.Status{domain.StatusPending, domain.StatusSucceeded, domain.StatusFailed} {
		original := map[string]any{"id": "pi_1", "status": string(status)}
		if err := st.Set(ctx, "users/u1/payments/p1", original); err != nil {
			t.Fatalf("seed payment: %v", err)
		}

		if err := svc.ConfirmPayment(ctx, "u1", "p1"); err != nil {
			t.Fatalf("confirm with status %s: %v", status, err)
		}
		if proc.confirmCalls != 0 {
			t.Fatalf("no confirm call expected for status %s", status)
		}
		record, _ := st.Get(ctx, "users/u1/payments/p1")
		if record["status"] != string(status) {
			t.Fatalf("record mutated for status %s: %v", status, record)
		}
	}
}

func TestCapturePaymentMethod(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	proc := newFakeProcessor()
	proc.methodPayload = map[string]any{"id": "pm_1", "type": "card", "brand": "visa"}
	rep := &fakeReporter{}
	svc := newService(st, proc, rep)

	seedUser(t, st, "u1", map[string]any{"customer_id": "cus_owner", "setup_secret": "old_secret", "email": "a@b.com"})
	if err := st.Set(ctx, "users/u1/payment_methods/m1", map[string]any{"id": "pm_1"}); err != nil {
		t.Fatalf("seed stub: %v", err)
	}

	if err := svc.CapturePaymentMethod(ctx, "u1", "m1"); err != nil {
		t.Fatalf("capture: %v", err)
	}

	method, _ := st.Get(ctx, "users/u1/payment_methods/m1")
	if method["brand"] != "visa" {
		t.Fatalf("stub should be overwritten with full details, got %v", method)
	}
	user, _ := st.Get(ctx, "users/u1")
	if user["setup_secret"] != "seti_secret_cus_owner" {
		t.Fatalf("setup secret should be rotated, got %v", user["setup_secret"])
	}
	if user["email"] != "a@b.com" {
		t.Fatalf("merge must preserve other user fields, got %v", user)
	}
	if proc.setupIntentCalls != 1 {
		t.Fatalf("expected one setup intent, got %d", proc.setupIntentCalls)
	}
}

func TestCapturePaymentMethodFailureWritesError(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	proc := newFakeProcessor()
	proc.methodErr = domain.NewInternalError(errors.New("network down"))
	rep := &fakeReporter{}
	svc := newService(st, proc, rep)

	if err := st.Set(ctx, "users/u1/payment_methods/m1", map[string]any{"id": "pm_1"}); err != nil {
		t.Fatalf("seed stub: %v", err)
	}

	if err := svc.CapturePaymentMethod(ctx, "u1", "m1"); err == nil {
		t.Fatal("expected error")
	}

	method, _ := st.Get(ctx, "users/u1/payment_methods/m1")
	if method["error"] != domain.GenericUserMessage {
		t.Fatalf("expected generic message, got %v", method["error"])
	}
	if len(rep.reports) != 1 {
		t.Fatalf("expected one report, got %d", len(rep.reports))
	}
}

func TestCleanupUserDeletesEverything(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	proc := newFakeProcessor()
	rep := &fakeReporter{}
	svc := newService(st, proc, rep)

	seedUser(t, st, "u1", map[string]any{"customer_id": "cus_1"})
	_ = st.Set(ctx, "users/u1/payment_methods/m1", map[string]any{"id": "pm_1"})
	_ = st.Set(ctx, "users/u1/payments/p1", map[string]any{"id": "pi_1"})
	_ = st.Set(ctx, "users/u1/payments/p2", map[string]any{"id": "pi_2"})

	if err := svc.CleanupUser(ctx, "u1"); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if len(proc.deletedCustomers) != 1 || proc.deletedCustomers[0] != "cus_1" {
		t.Fatalf("expected customer deletion, got %v", proc.deletedCustomers)
	}
	for _, path := range []string{"users/u1", "users/u1/payment_methods/m1", "users/u1/payments/p1", "users/u1/payments/p2"} {
		if _, err := st.Get(ctx, path); !errors.Is(err, storedomain.ErrNotFound) {
			t.Fatalf("expected %s to be deleted", path)
		}
	}
}

func TestCleanupUserBatchFailureIsAtomic(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	proc := newFakeProcessor()
	rep := &fakeReporter{}
	svc := newService(st, proc, rep)

	seedUser(t, st, "u1", map[string]any{"customer_id": "cus_1"})
	_ = st.Set(ctx, "users/u1/payment_methods/m1", map[string]any{"id": "pm_1"})
	_ = st.Set(ctx, "users/u1/payments/p1", map[string]any{"id": "pi_1"})

	st.FailNextBatch(errors.New("commit aborted"))
	if err := svc.CleanupUser(ctx, "u1"); err == nil {
		t.Fatal("expected batch failure")
	}

	// Batch failure must leave every record in place, never a mixed state.
	for _, path := range []string{"users/u1", "users/u1/payment_methods/m1", "users/u1/payments/p1"} {
		if _, err := st.Get(ctx, path); err != nil {
			t.Fatalf("expected %s to survive failed batch: %v", path, err)
		}
	}
	if len(rep.reports) != 1 {
		t.Fatalf("expected one report, got %d", len(rep.reports))
	}
}
