package errreport

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/jakub-pelec/teacherspace-cf/internal/config"
)

var Module = fx.Module("errreport",
	fx.Provide(provideReporter),
)

func provideReporter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Reporter, error) {
	if cfg.ErrorReporter == config.ReporterLog {
		return NewZapReporter(log), nil
	}

	reporter, err := NewCloudLoggingReporter(context.Background(), cfg.ProjectID, cfg.FunctionName)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return reporter.Close()
		},
	})
	return reporter, nil
}
