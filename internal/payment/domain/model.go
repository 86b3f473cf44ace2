package domain

// Collection and subcollection names in the document store.
const (
	CollectionUsers          = "users"
	CollectionPaymentMethods = "payment_methods"
	CollectionPayments       = "payments"
)

// Document field keys shared between the client, the store, and the
// processor payloads.
const (
	FieldID            = "id"
	FieldStatus        = "status"
	FieldError         = "error"
	FieldAmount        = "amount"
	FieldCurrency      = "currency"
	FieldPaymentMethod = "payment_method"
	FieldCustomerID    = "customer_id"
	FieldSetupSecret   = "setup_secret"
)

// Status is the processor-defined payment-intent status. Only
// StatusRequiresConfirmation drives a local action; the rest are settled by
// the processor's own transitions.
type Status string

const (
	StatusPending              Status = "pending"
	StatusRequiresConfirmation Status = "requires_confirmation"
	StatusSucceeded            Status = "succeeded"
	StatusFailed               Status = "failed"
)

// SetupIntent is the client-usable handle for collecting a payment method.
type SetupIntent struct {
	ID           string
	ClientSecret string
}

// PaymentMethod is a processor payment method with its owning customer and
// the full payload as stored.
type PaymentMethod struct {
	CustomerID string
	Payload    map[string]any
}

// IntentRequest describes a one-off charge. The idempotency key is supplied
// separately by the caller and is fixed to the payment sub-record id.
type IntentRequest struct {
	Amount        int64
	Currency      string
	Customer      string
	PaymentMethod string
}
