package cycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"study_server_go/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrResetFailed is returned when a cycle was recorded but the items of the
// list could not be reset. The cycle stays recorded, the items stay
// completed and the completion intent stays open.
var ErrResetFailed = errors.New("cycle recorded but items were not reset")

// ErrCycleNotRecorded is returned when the toggle was persisted but the
// completed cycle could not be archived.
var ErrCycleNotRecorded = errors.New("item updated but cycle was not recorded")

// Mode selects how a completion is written.
type Mode string

const (
	// ModeAtomic writes the cycle, the item reset and the intent status in one transaction.
	ModeAtomic Mode = "atomic"
	// ModeStepwise inserts the cycle and resets the items as two separate writes.
	ModeStepwise Mode = "stepwise"
)

// ParseMode converts a configuration value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAtomic, "":
		return ModeAtomic, nil
	case ModeStepwise:
		return ModeStepwise, nil
	}
	return "", fmt.Errorf("unknown completion mode %q", s)
}

// Repository is what the engine needs from the persistence layer.
type Repository interface {
	GetItemByID(ctx context.Context, id string) (*models.StudyItem, error)
	LoadSnapshot(ctx context.Context, listID string) (models.ListSnapshot, error)
	SetItemCompleted(ctx context.Context, itemID string, completed bool, at time.Time) error
	InsertCycle(ctx context.Context, cycle *models.StudyCycle) error
	CycleExists(ctx context.Context, listID string, cycleNumber int) (bool, error)
	ResetItems(ctx context.Context, listID string, at time.Time) error
	RecordIntent(ctx context.Context, intent *models.CompletionIntent) error
	UpdateIntentStatus(ctx context.Context, id, status string) error
	GetOpenIntentsForList(ctx context.Context, listID string) ([]models.CompletionIntent, error)
}

// AtomicRepository is a Repository that can apply a completion in one transaction.
type AtomicRepository interface {
	Repository
	ApplyCompletion(ctx context.Context, intentID string, cycle *models.StudyCycle, at time.Time) error
	// ResumeCompletion reports false when the intent was superseded and
	// closed without touching the items.
	ResumeCompletion(ctx context.Context, intentID string, cycle *models.StudyCycle, at time.Time) (bool, error)
}

// Notice describes a completed cycle to the user.
type Notice struct {
	UserID      string    `json:"user_id"`
	ListID      string    `json:"list_id"`
	ListTitle   string    `json:"list_title"`
	CycleNumber int       `json:"cycle_number"`
	TotalTime   int       `json:"total_time"`
	CycleCount  int       `json:"cycle_count"`
	CompletedAt time.Time `json:"completed_at"`
	Message     string    `json:"message"`
}

// Notifier delivers notices. Failures are logged by the engine and never
// fail the completion.
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}

// Result is what a toggle or completion leaves behind.
type Result struct {
	Snapshot models.ListSnapshot
	Cycle    *models.StudyCycle
	Notice   *Notice
}

// Engine runs the intents produced by Evaluate and PlanCompletion against a
// Repository.
type Engine struct {
	repo     Repository
	notifier Notifier
	log      zerolog.Logger
	mode     Mode
	now      func() time.Time
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithMode sets the completion mode. ModeAtomic needs an AtomicRepository and
// falls back to ModeStepwise otherwise.
func WithMode(mode Mode) Option {
	return func(e *Engine) { e.mode = mode }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine. notifier may be nil.
func NewEngine(repo Repository, notifier Notifier, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		repo:     repo,
		notifier: notifier,
		log:      log.With().Str("component", "cycle_engine").Logger(),
		mode:     ModeAtomic,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.mode == ModeAtomic {
		if _, ok := repo.(AtomicRepository); !ok {
			e.log.Warn().Msg("repository has no transactional completion, using stepwise mode")
			e.mode = ModeStepwise
		}
	}
	return e
}

// Mode returns the completion mode in effect.
func (e *Engine) Mode() Mode {
	return e.mode
}

// ToggleItemCompletion persists the completion flag of an item and, when that
// completes every item of its list, archives the cycle and resets the list
// before returning.
func (e *Engine) ToggleItemCompletion(ctx context.Context, itemID string, completed bool) (Result, error) {
	item, err := e.repo.GetItemByID(ctx, itemID)
	if err != nil {
		e.log.Error().Err(err).Str("item_id", itemID).Msg("failed to load item")
		return Result{}, err
	}
	if item == nil {
		return Result{}, ErrItemNotFound
	}

	snap, err := e.repo.LoadSnapshot(ctx, item.ListID)
	if err != nil {
		e.log.Error().Err(err).Str("list_id", item.ListID).Msg("failed to load list")
		return Result{}, err
	}

	plan, err := Evaluate(snap, Toggle{ItemID: itemID, Completed: completed}, e.now())
	if err != nil {
		return Result{Snapshot: snap}, err
	}
	return e.execute(ctx, snap, plan)
}

// CompleteCycle archives the current pass of a fully completed list and
// resets its items.
func (e *Engine) CompleteCycle(ctx context.Context, snap models.ListSnapshot) (Result, error) {
	plan, err := PlanCompletion(snap, e.now())
	if err != nil {
		return Result{Snapshot: snap}, err
	}
	return e.execute(ctx, snap, plan)
}

func (e *Engine) execute(ctx context.Context, before models.ListSnapshot, plan Plan) (Result, error) {
	log := e.log.With().Str("list_id", before.List.ID).Logger()
	res := Result{Snapshot: before}

	var (
		intent  *models.CompletionIntent
		applied bool
	)

	for _, in := range plan.Intents {
		switch in.Kind {
		case PersistItem:
			if err := e.repo.SetItemCompleted(ctx, in.ItemID, in.Completed, in.At); err != nil {
				log.Error().Err(err).Str("item_id", in.ItemID).Msg("error updating item")
				return res, fmt.Errorf("failed to update item %s: %w", in.ItemID, err)
			}
			res.Snapshot = plan.Toggled

		case InsertCycle:
			cycle := in.Cycle
			cycle.ID = e.newID()

			intent = &models.CompletionIntent{
				ID:          e.newID(),
				ListID:      cycle.ListID,
				CycleNumber: cycle.CycleNumber,
				TotalTime:   cycle.TotalTime,
				Status:      models.IntentPending,
			}
			if err := e.repo.RecordIntent(ctx, intent); err != nil {
				log.Error().Err(err).Int("cycle_number", cycle.CycleNumber).Msg("error completing cycle")
				return res, fmt.Errorf("%w: failed to record completion intent: %w", ErrCycleNotRecorded, err)
			}

			if atomic, ok := e.repo.(AtomicRepository); ok && e.mode == ModeAtomic {
				if err := atomic.ApplyCompletion(ctx, intent.ID, &cycle, in.At); err != nil {
					e.markIntent(ctx, intent.ID, models.IntentFailed)
					log.Error().Err(err).Int("cycle_number", cycle.CycleNumber).Msg("error completing cycle")
					return res, fmt.Errorf("%w: failed to complete cycle %d: %w", ErrCycleNotRecorded, cycle.CycleNumber, err)
				}
				applied = true
			} else {
				if err := e.repo.InsertCycle(ctx, &cycle); err != nil {
					e.markIntent(ctx, intent.ID, models.IntentFailed)
					log.Error().Err(err).Int("cycle_number", cycle.CycleNumber).Msg("error completing cycle")
					return res, fmt.Errorf("%w: failed to record cycle %d: %w", ErrCycleNotRecorded, cycle.CycleNumber, err)
				}
				e.markIntent(ctx, intent.ID, models.IntentCycleRecorded)
			}
			res.Cycle = &cycle

		case ResetItems:
			if applied {
				continue
			}
			if err := e.repo.ResetItems(ctx, in.ListID, in.At); err != nil {
				log.Error().Err(err).Int("cycle_number", res.Cycle.CycleNumber).
					Msg("cycle recorded but items were not reset; completion intent left open")
				return res, fmt.Errorf("%w: %w", ErrResetFailed, err)
			}
			e.markIntent(ctx, intent.ID, models.IntentApplied)

		case Notify:
			res.Snapshot = e.reload(ctx, plan.Next)
			notice := Notice{
				UserID:      before.List.UserID,
				ListID:      before.List.ID,
				ListTitle:   before.List.Title,
				CycleNumber: res.Cycle.CycleNumber,
				TotalTime:   res.Cycle.TotalTime,
				CycleCount:  res.Cycle.CycleNumber,
				CompletedAt: res.Cycle.CompletedAt,
				Message:     NoticeMessage(res.Cycle.CycleNumber, res.Cycle.TotalTime, res.Cycle.CycleNumber),
			}
			res.Notice = &notice
			e.notify(ctx, notice)
		}
	}

	if !plan.CompletesCycle() {
		res.Snapshot = plan.Next
	}
	return res, nil
}

// Resume finishes the open completion intents of a list, oldest first, and
// returns the cycles whose completion was finished. Intents whose pass was
// superseded are closed without resetting the items.
func (e *Engine) Resume(ctx context.Context, listID string) ([]models.StudyCycle, error) {
	intents, err := e.repo.GetOpenIntentsForList(ctx, listID)
	if err != nil {
		return nil, err
	}

	resumed := make([]models.StudyCycle, 0, len(intents))
	for _, intent := range intents {
		log := e.log.With().Str("intent_id", intent.ID).Str("list_id", listID).Int("cycle_number", intent.CycleNumber).Logger()
		cycle := models.StudyCycle{
			ID:          e.newID(),
			ListID:      intent.ListID,
			CycleNumber: intent.CycleNumber,
			TotalTime:   intent.TotalTime,
			CompletedAt: intent.CreatedAt,
		}
		ok, err := e.resumeOne(ctx, intent, &cycle)
		if err != nil {
			log.Error().Err(err).Msg("failed to resume completion")
			return resumed, err
		}
		if !ok {
			log.Info().Msg("completion intent superseded, items left untouched")
			continue
		}
		log.Info().Msg("completion resumed")
		resumed = append(resumed, cycle)
	}
	return resumed, nil
}

func (e *Engine) resumeOne(ctx context.Context, intent models.CompletionIntent, cycle *models.StudyCycle) (bool, error) {
	at := e.now()
	if atomic, ok := e.repo.(AtomicRepository); ok && e.mode == ModeAtomic {
		return atomic.ResumeCompletion(ctx, intent.ID, cycle, at)
	}

	snap, err := e.repo.LoadSnapshot(ctx, cycle.ListID)
	if err != nil {
		return false, err
	}
	exists, err := e.repo.CycleExists(ctx, cycle.ListID, cycle.CycleNumber)
	if err != nil {
		return false, err
	}
	if Superseded(snap, cycle.CycleNumber) {
		status := models.IntentFailed
		if exists {
			status = models.IntentApplied
		}
		return false, e.repo.UpdateIntentStatus(ctx, intent.ID, status)
	}

	if !exists {
		if err := e.repo.InsertCycle(ctx, cycle); err != nil {
			return false, err
		}
	}
	if err := e.repo.UpdateIntentStatus(ctx, intent.ID, models.IntentCycleRecorded); err != nil {
		return false, err
	}
	if err := e.repo.ResetItems(ctx, cycle.ListID, at); err != nil {
		return false, fmt.Errorf("%w: %w", ErrResetFailed, err)
	}
	return true, e.repo.UpdateIntentStatus(ctx, intent.ID, models.IntentApplied)
}

func (e *Engine) reload(ctx context.Context, planned models.ListSnapshot) models.ListSnapshot {
	snap, err := e.repo.LoadSnapshot(ctx, planned.List.ID)
	if err != nil {
		e.log.Warn().Err(err).Str("list_id", planned.List.ID).Msg("failed to reload list after cycle completion")
		return planned
	}
	return snap
}

func (e *Engine) markIntent(ctx context.Context, id, status string) {
	if err := e.repo.UpdateIntentStatus(ctx, id, status); err != nil {
		e.log.Warn().Err(err).Str("intent_id", id).Str("status", status).Msg("failed to update completion intent")
	}
}

func (e *Engine) notify(ctx context.Context, notice Notice) {
	if e.notifier == nil {
		return
	}
	if err := e.notifier.Notify(ctx, notice); err != nil {
		e.log.Warn().Err(err).Str("list_id", notice.ListID).Msg("failed to deliver cycle notice")
	}
}
