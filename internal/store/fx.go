package store

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jakub-pelec/teacherspace-cf/internal/config"
	"github.com/jakub-pelec/teacherspace-cf/internal/store/domain"
	fsstore "github.com/jakub-pelec/teacherspace-cf/internal/store/firestore"
	memstore "github.com/jakub-pelec/teacherspace-cf/internal/store/memory"
)

var Module = fx.Module("store",
	fx.Provide(provideStore),
)

func provideStore(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (domain.Store, error) {
	if cfg.StoreBackend == config.StoreMemory {
		log.Info("using in-memory document store")
		return memstore.New(), nil
	}

	st, err := fsstore.New(context.Background(), cfg.ProjectID)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return st.Close()
		},
	})
	return st, nil
}
