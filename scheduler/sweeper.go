// Package scheduler runs the periodic sweep over the completion intent log.
package scheduler

import (
	"context"
	"time"

	"study_server_go/models"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
)

// IntentSource lists the completion intents that have not been applied.
type IntentSource interface {
	GetOpenIntents(ctx context.Context) ([]models.CompletionIntent, error)
}

// Resumer finishes the open intents of a list.
type Resumer interface {
	Resume(ctx context.Context, listID string) ([]models.StudyCycle, error)
}

// Options configures a Sweeper.
type Options struct {
	Interval   time.Duration
	StaleAfter time.Duration
	AutoResume bool
}

// Report is the outcome of one sweep.
type Report struct {
	Stale   []models.CompletionIntent
	Resumed map[string]int
	Failed  map[string]error
}

// Sweeper looks for completion intents left open longer than StaleAfter. It
// only reports them unless AutoResume is set.
type Sweeper struct {
	source    IntentSource
	resumer   Resumer
	opts      Options
	log       zerolog.Logger
	now       func() time.Time
	scheduler *gocron.Scheduler
}

// NewSweeper builds a sweeper. resumer may be nil when AutoResume is off.
func NewSweeper(source IntentSource, resumer Resumer, opts Options, log zerolog.Logger) *Sweeper {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	return &Sweeper{
		source:    source,
		resumer:   resumer,
		opts:      opts,
		log:       log.With().Str("component", "intent_sweeper").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
		scheduler: gocron.NewScheduler(time.UTC),
	}
}

// Start schedules the sweep every Interval and returns immediately.
func (s *Sweeper) Start() error {
	_, err := s.scheduler.Every(s.opts.Interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.Interval)
		defer cancel()
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.log.Info().Dur("interval", s.opts.Interval).Bool("auto_resume", s.opts.AutoResume).Msg("intent sweeper started")
	return nil
}

// Stop halts the scheduler.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

// Sweep runs a single pass.
func (s *Sweeper) Sweep(ctx context.Context) Report {
	report := Report{Resumed: map[string]int{}, Failed: map[string]error{}}

	intents, err := s.source.GetOpenIntents(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list open completion intents")
		return report
	}

	cutoff := s.now().Add(-s.opts.StaleAfter)
	lists := []string{}
	seen := map[string]bool{}
	for _, intent := range intents {
		if intent.UpdatedAt.After(cutoff) {
			continue
		}
		report.Stale = append(report.Stale, intent)
		s.log.Warn().
			Str("intent_id", intent.ID).
			Str("list_id", intent.ListID).
			Int("cycle_number", intent.CycleNumber).
			Str("status", intent.Status).
			Time("updated_at", intent.UpdatedAt).
			Msg("completion intent left open")
		if !seen[intent.ListID] {
			seen[intent.ListID] = true
			lists = append(lists, intent.ListID)
		}
	}

	if !s.opts.AutoResume || s.resumer == nil {
		return report
	}

	for _, listID := range lists {
		cycles, err := s.resumer.Resume(ctx, listID)
		report.Resumed[listID] = len(cycles)
		if err != nil {
			report.Failed[listID] = err
			s.log.Error().Err(err).Str("list_id", listID).Msg("automatic resume failed")
		}
	}
	return report
}
