package export

import (
	"context"

	"go.uber.org/zap"

	"ab-tracker/internal/events"
)

// LogSink logs batch contents instead of transmitting them. It preserves
// the stub behavior of draining without a configured analytics backend.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(_ context.Context, batch events.Batch) error {
	s.logger.Info("export batch (no endpoint configured, discarding)",
		zap.Int("assignments", len(batch.Assignments)),
		zap.Int("conversions", len(batch.Conversions)),
		zap.Time("sent_at", batch.SentAt))
	return nil
}
