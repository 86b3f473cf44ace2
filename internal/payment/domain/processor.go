package domain

import "context"

// Processor is the payment-processor boundary. Implementations return
// *OpError so callers can distinguish processor rejections from internal
// failures.
type Processor interface {
	CreateCustomer(ctx context.Context, email string) (customerID string, err error)
	CreateSetupIntent(ctx context.Context, customerID string) (SetupIntent, error)
	GetPaymentMethod(ctx context.Context, id string) (PaymentMethod, error)
	// CreatePaymentIntent creates and manually confirms a one-off charge.
	// The idempotency key makes duplicate deliveries of the same payment
	// record return the original charge instead of a second one.
	CreatePaymentIntent(ctx context.Context, req IntentRequest, idempotencyKey string) (map[string]any, error)
	ConfirmPaymentIntent(ctx context.Context, intentID string) (map[string]any, error)
	DeleteCustomer(ctx context.Context, customerID string) error
}
