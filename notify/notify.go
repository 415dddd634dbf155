// Package notify delivers cycle completion notices.
package notify

import (
	"context"
	"errors"

	"study_server_go/cycle"

	"github.com/rs/zerolog"
)

// Notifier is the sink the cycle engine hands notices to.
type Notifier = cycle.Notifier

// LogNotifier writes every notice to the application log.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier returns a notifier that logs at info level.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("component", "notifier").Logger()}
}

// Notify logs the notice. It never fails.
func (n *LogNotifier) Notify(_ context.Context, notice cycle.Notice) error {
	n.log.Info().
		Str("user_id", notice.UserID).
		Str("list_id", notice.ListID).
		Int("cycle_number", notice.CycleNumber).
		Int("total_time", notice.TotalTime).
		Msg(notice.Message)
	return nil
}

// Multi fans a notice out to several notifiers. Every notifier is called even
// when an earlier one fails; the failures are joined.
type Multi []Notifier

// Notify calls every notifier in order.
func (m Multi) Notify(ctx context.Context, notice cycle.Notice) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
