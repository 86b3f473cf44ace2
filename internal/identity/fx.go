package identity

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jakub-pelec/teacherspace-cf/internal/config"
	"github.com/jakub-pelec/teacherspace-cf/internal/identity/domain"
	fbidentity "github.com/jakub-pelec/teacherspace-cf/internal/identity/firebase"
	memidentity "github.com/jakub-pelec/teacherspace-cf/internal/identity/memory"
)

var Module = fx.Module("identity",
	fx.Provide(provideProvider),
)

func provideProvider(cfg config.Config, log *zap.Logger) (domain.Provider, error) {
	if cfg.IdentityBackend == config.IdentityMemory {
		log.Info("using in-memory identity provider")
		return memidentity.New(), nil
	}
	return fbidentity.New(context.Background(), cfg.ProjectID)
}
