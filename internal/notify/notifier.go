// Package notify publishes attempt outcomes: Prometheus metrics always,
// Slack alerts on failure when a webhook is configured. All delivery is
// best-effort and never affects the outcome of an attempt.
package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/flightwatch/internal/model"
)

// IngestionNotifier fans attempt outcomes out to metrics and Slack.
type IngestionNotifier struct {
	slack *SlackClient
	log   zerolog.Logger
}

func NewIngestionNotifier(slack *SlackClient, log zerolog.Logger) *IngestionNotifier {
	return &IngestionNotifier{slack: slack, log: log}
}

// OnSuccess records a completed attempt.
func (n *IngestionNotifier) OnSuccess(ctx context.Context, attemptID int64, recordCount int64, duration time.Duration) {
	AttemptsTotal.WithLabelValues(string(model.StatusSuccess)).Inc()
	RecordsTotal.Add(float64(recordCount))
	AttemptDuration.Observe(duration.Seconds())
}

// OnFailure records a failed attempt and alerts Slack if configured.
// Webhook delivery errors are logged, never propagated.
func (n *IngestionNotifier) OnFailure(ctx context.Context, attemptID int64, category model.ErrorCategory, message string, duration time.Duration) {
	AttemptsTotal.WithLabelValues(string(model.StatusFailed)).Inc()
	FailuresTotal.WithLabelValues(string(category)).Inc()
	AttemptDuration.Observe(duration.Seconds())

	if n.slack == nil || !n.slack.Enabled() {
		return
	}
	if err := n.slack.NotifyFailure(ctx, attemptID, category, message); err != nil {
		n.log.Warn().Err(err).Int64("attempt_id", attemptID).Msg("slack notification failed")
	}
}
