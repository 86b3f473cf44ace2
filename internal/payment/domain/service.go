package domain

import (
	"context"
	"errors"
)

// Service processes document-store and identity-provider events for the
// payment workflow. Every operation tolerates at-least-once delivery: the
// platform may invoke any of them more than once for the same record.
//
// Failures of the first three operations are written into the affected
// record as an "error" field and reported out of band; the returned error is
// for the caller's log only and must not trigger a retry.
type Service interface {
	// CapturePaymentMethod enriches a just-created payment-method stub with
	// full processor details and rotates the owner's setup secret.
	CapturePaymentMethod(ctx context.Context, userID, methodID string) error
	// CreatePayment charges a just-created payment record against the
	// owner's processor customer, idempotently keyed by the record id.
	CreatePayment(ctx context.Context, userID, paymentID string) error
	// ConfirmPayment confirms the stored intent if and only if the record's
	// status is requires_confirmation; any other status is a no-op.
	ConfirmPayment(ctx context.Context, userID, paymentID string) error
	// CleanupUser deletes the processor customer and then the user document
	// with all payment subcollections as one atomic batch.
	CleanupUser(ctx context.Context, userID string) error
}

var (
	ErrMissingMethodID  = errors.New("payment method stub has no processor id")
	ErrMissingCustomer  = errors.New("user has no processor customer")
	ErrMissingIntentID  = errors.New("payment record has no processor intent id")
	ErrMalformedPayment = errors.New("payment record is missing amount, currency or payment_method")
)
