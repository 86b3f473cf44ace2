package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"

	"github.com/jakub-pelec/teacherspace-cf/internal/payment/domain"
)

// Processor implements the payment-processor boundary with the Stripe API.
type Processor struct {
	api *client.API
}

func New(secretKey string) *Processor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Processor{api: api}
}

func (p *Processor) CreateCustomer(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerParams{Email: stripe.String(email)}
	params.Context = ctx

	customer, err := p.api.Customers.New(params)
	if err != nil {
		return "", asOpError("create customer", err)
	}
	return customer.ID, nil
}

func (p *Processor) CreateSetupIntent(ctx context.Context, customerID string) (domain.SetupIntent, error) {
	params := &stripe.SetupIntentParams{Customer: stripe.String(customerID)}
	params.Context = ctx

	intent, err := p.api.SetupIntents.New(params)
	if err != nil {
		return domain.SetupIntent{}, asOpError("create setup intent", err)
	}
	return domain.SetupIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (p *Processor) GetPaymentMethod(ctx context.Context, id string) (domain.PaymentMethod, error) {
	params := &stripe.PaymentMethodParams{}
	params.Context = ctx

	method, err := p.api.PaymentMethods.Get(id, params)
	if err != nil {
		return domain.PaymentMethod{}, asOpError("retrieve payment method", err)
	}

	payload, err := toDocument(method)
	if err != nil {
		return domain.PaymentMethod{}, domain.NewInternalError(err)
	}

	customerID := ""
	if method.Customer != nil {
		customerID = method.Customer.ID
	}
	return domain.PaymentMethod{CustomerID: customerID, Payload: payload}, nil
}

func (p *Processor) CreatePaymentIntent(ctx context.Context, req domain.IntentRequest, idempotencyKey string) (map[string]any, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		Customer:           stripe.String(req.Customer),
		PaymentMethod:      stripe.String(req.PaymentMethod),
		OffSession:         stripe.Bool(false),
		Confirm:            stripe.Bool(true),
		ConfirmationMethod: stripe.String(string(stripe.PaymentIntentConfirmationMethodManual)),
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, asOpError("create payment intent", err)
	}
	payload, err := toDocument(intent)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return payload, nil
}

func (p *Processor) ConfirmPaymentIntent(ctx context.Context, intentID string) (map[string]any, error) {
	params := &stripe.PaymentIntentConfirmParams{}
	params.Context = ctx

	intent, err := p.api.PaymentIntents.Confirm(intentID, params)
	if err != nil {
		return nil, asOpError("confirm payment intent", err)
	}
	payload, err := toDocument(intent)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return payload, nil
}

func (p *Processor) DeleteCustomer(ctx context.Context, customerID string) error {
	params := &stripe.CustomerParams{}
	params.Context = ctx

	if _, err := p.api.Customers.Del(customerID, params); err != nil {
		return asOpError("delete customer", err)
	}
	return nil
}

// toDocument flattens a Stripe value into the map form the document store
// expects, preserving the full payload the way the processor returned it.
func toDocument(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode stripe payload: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode stripe payload: %w", err)
	}
	return doc, nil
}

func asOpError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return domain.NewProcessorError(stripeErr.Msg, err)
	}
	return domain.NewInternalError(fmt.Errorf("%s: %w", op, err))
}
