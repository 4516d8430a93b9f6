package service

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier writes scheduler notifications to the log. It stands in when
// no chat transport is attached, so sweeps keep working in headless runs.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the message instead of delivering it.
func (n *LogNotifier) Notify(_ context.Context, userID int64, text string) error {
	n.log.Info().Int64("user_id", userID).Str("text", text).Msg("Notification (no transport attached)")
	return nil
}
