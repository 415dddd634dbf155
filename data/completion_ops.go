package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	studycycle "study_server_go/cycle"
	"study_server_go/models"

	"github.com/jmoiron/sqlx"
)

// LoadSnapshot reads a list with its items and cycles. sql.ErrNoRows is
// returned when the list does not exist.
func (s *Store) LoadSnapshot(ctx context.Context, listID string) (models.ListSnapshot, error) {
	list, err := s.GetListByID(ctx, listID)
	if err != nil {
		return models.ListSnapshot{}, err
	}
	if list == nil {
		return models.ListSnapshot{}, fmt.Errorf("LoadSnapshot: list %s: %w", listID, sql.ErrNoRows)
	}

	items, err := getItemsByListID(ctx, s.db, listID)
	if err != nil {
		return models.ListSnapshot{}, fmt.Errorf("LoadSnapshot: %w", err)
	}
	cycles, err := getCyclesByListID(ctx, s.db, listID)
	if err != nil {
		return models.ListSnapshot{}, fmt.Errorf("LoadSnapshot: %w", err)
	}

	return models.ListSnapshot{List: *list, Items: items, Cycles: cycles}, nil
}

// ApplyCompletion archives a cycle, resets the list's items and marks the
// intent applied in a single transaction. Either all three happen or none.
// An existing cycle with the same number makes the insert, and therefore the
// whole completion, fail.
func (s *Store) ApplyCompletion(ctx context.Context, intentID string, cycle *models.StudyCycle, at time.Time) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin completion transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertCycle(ctx, tx, cycle); err != nil {
		return err
	}
	if err := s.finishCompletion(ctx, tx, intentID, cycle, at); err != nil {
		return err
	}

	s.log.Debug().Str("list_id", cycle.ListID).Int("cycle_number", cycle.CycleNumber).Msg("cycle applied")
	return nil
}

// ResumeCompletion finishes an open intent in one transaction. When a later
// cycle was recorded or the items are no longer all completed, the intent is
// closed without touching the items and false is returned: applied if its
// cycle exists, failed otherwise. Otherwise the cycle is inserted if missing,
// the items are reset and the intent is marked applied.
func (s *Store) ResumeCompletion(ctx context.Context, intentID string, cycle *models.StudyCycle, at time.Time) (bool, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin completion transaction: %w", err)
	}
	defer tx.Rollback()

	items, err := getItemsByListID(ctx, tx, cycle.ListID)
	if err != nil {
		return false, err
	}
	cycles, err := getCyclesByListID(ctx, tx, cycle.ListID)
	if err != nil {
		return false, err
	}
	exists, err := cycleExists(ctx, tx, cycle.ListID, cycle.CycleNumber)
	if err != nil {
		return false, err
	}

	snap := models.ListSnapshot{Items: items, Cycles: cycles}
	if studycycle.Superseded(snap, cycle.CycleNumber) {
		status := models.IntentFailed
		if exists {
			status = models.IntentApplied
		}
		if err := updateIntentStatus(ctx, tx, intentID, status, at); err != nil {
			return false, err
		}
		if err := tx.Commit(); err != nil {
			return false, fmt.Errorf("failed to commit completion of list %s: %w", cycle.ListID, err)
		}
		s.log.Debug().Str("list_id", cycle.ListID).Int("cycle_number", cycle.CycleNumber).Str("status", status).Msg("superseded completion closed")
		return false, nil
	}

	if !exists {
		if err := insertCycle(ctx, tx, cycle); err != nil {
			return false, err
		}
	}
	if err := s.finishCompletion(ctx, tx, intentID, cycle, at); err != nil {
		return false, err
	}

	s.log.Debug().Str("list_id", cycle.ListID).Int("cycle_number", cycle.CycleNumber).Msg("cycle resumed")
	return true, nil
}

// finishCompletion resets the items, marks the intent applied and commits.
func (s *Store) finishCompletion(ctx context.Context, tx *sqlx.Tx, intentID string, cycle *models.StudyCycle, at time.Time) error {
	if err := resetItems(ctx, tx, cycle.ListID, at); err != nil {
		return err
	}
	if intentID != "" {
		err := updateIntentStatus(ctx, tx, intentID, models.IntentApplied, at)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit completion of list %s: %w", cycle.ListID, err)
	}
	return nil
}
