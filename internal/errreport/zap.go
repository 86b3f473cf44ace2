package errreport

import (
	"context"

	"go.uber.org/zap"
)

// ZapReporter reports errors to the process log. Used when no Cloud Logging
// sink is configured (local development, tests).
type ZapReporter struct {
	log *zap.Logger
}

func NewZapReporter(log *zap.Logger) *ZapReporter {
	return &ZapReporter{log: log.Named("errreport")}
}

func (r *ZapReporter) Report(_ context.Context, err error, labels map[string]string) {
	if err == nil {
		return
	}

	fields := make([]zap.Field, 0, len(labels)+1)
	fields = append(fields, zap.Error(err))
	for k, v := range labels {
		fields = append(fields, zap.String(k, v))
	}
	r.log.Error("reported error", fields...)
}
