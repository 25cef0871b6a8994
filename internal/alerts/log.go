package alerts

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogSender writes alerts to the structured log. It is the default channel
// and never fails.
type LogSender struct {
	logger *logrus.Logger
}

// NewLogSender creates a log-based sender.
func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the alert.
func (s *LogSender) Send(_ context.Context, payload *AlertPayload) error {
	s.logger.WithFields(logrus.Fields{
		"network": payload.Network,
		"symbol":  payload.Symbol,
		"pool_id": payload.PoolID,
		"score":   payload.Score,
		"risk":    payload.RiskLevel,
		"message": FormatText(payload),
	}).Info("ALERT")
	return nil
}

// Name returns the sender name.
func (s *LogSender) Name() string {
	return "log"
}
