package payment

import (
	"go.uber.org/fx"

	"github.com/jakub-pelec/teacherspace-cf/internal/config"
	stripeadapter "github.com/jakub-pelec/teacherspace-cf/internal/payment/adapters/stripe"
	"github.com/jakub-pelec/teacherspace-cf/internal/payment/domain"
	paymentservice "github.com/jakub-pelec/teacherspace-cf/internal/payment/service"
)

var Module = fx.Module("payment.service",
	fx.Provide(provideProcessor),
	fx.Provide(paymentservice.New),
)

func provideProcessor(cfg config.Config) domain.Processor {
	return stripeadapter.New(cfg.StripeSecretKey)
}
