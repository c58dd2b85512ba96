package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Reporter receives submission failures. Reporting never affects what the
// user sees.
type Reporter interface {
	ReportFailure(ctx context.Context, stage, leadRef string, err error)
}

type logReporter struct {
	logger *slog.Logger
}

// NewLogReporter reports failures as error logs and marks the active span.
func NewLogReporter(logger *slog.Logger) Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &logReporter{logger: logger}
}

func (r *logReporter) ReportFailure(ctx context.Context, stage, leadRef string, err error) {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err, trace.WithAttributes(attribute.String("submission.stage", stage)))
	span.SetStatus(codes.Error, stage+" failed")

	r.logger.ErrorContext(ctx, "lead submission failed", "stage", stage, "lead", leadRef, "error", err)
}
