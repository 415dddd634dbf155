package data

import (
	"context"
	"fmt"

	"study_server_go/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const cycleColumns = `id, list_id, cycle_number, total_time, completed_at`

// InsertCycle archives a completed cycle. The (list_id, cycle_number) pair is
// unique, so a second completion with the same number fails here.
func (s *Store) InsertCycle(ctx context.Context, cycle *models.StudyCycle) error {
	return insertCycle(ctx, s.db, cycle)
}

func insertCycle(ctx context.Context, e sqlx.ExtContext, cycle *models.StudyCycle) error {
	if cycle.ID == "" {
		cycle.ID = uuid.NewString()
	}
	query := e.Rebind(`INSERT INTO study_cycles (` + cycleColumns + `) VALUES (?, ?, ?, ?, ?)`)
	_, err := e.ExecContext(ctx, query, cycle.ID, cycle.ListID, cycle.CycleNumber, cycle.TotalTime, cycle.CompletedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to insert cycle %d of list %s: %w: %w", cycle.CycleNumber, cycle.ListID, ErrDuplicate, err)
		}
		return fmt.Errorf("failed to insert cycle %d of list %s: %w", cycle.CycleNumber, cycle.ListID, err)
	}
	return nil
}

// GetCyclesByListID returns the cycles of a list, newest first.
func (s *Store) GetCyclesByListID(ctx context.Context, listID string) ([]models.StudyCycle, error) {
	return getCyclesByListID(ctx, s.db, listID)
}

func getCyclesByListID(ctx context.Context, e sqlx.ExtContext, listID string) ([]models.StudyCycle, error) {
	cycles := []models.StudyCycle{}
	query := e.Rebind(`SELECT ` + cycleColumns + ` FROM study_cycles
	          WHERE list_id = ? ORDER BY cycle_number DESC`)
	if err := sqlx.SelectContext(ctx, e, &cycles, query, listID); err != nil {
		return nil, fmt.Errorf("failed to get cycles of list %s: %w", listID, err)
	}
	return cycles, nil
}

// CycleExists reports whether listID already has a cycle with the given number.
func (s *Store) CycleExists(ctx context.Context, listID string, cycleNumber int) (bool, error) {
	return cycleExists(ctx, s.db, listID, cycleNumber)
}

func cycleExists(ctx context.Context, e sqlx.ExtContext, listID string, cycleNumber int) (bool, error) {
	var count int
	query := e.Rebind(`SELECT COUNT(*) FROM study_cycles WHERE list_id = ? AND cycle_number = ?`)
	if err := sqlx.GetContext(ctx, e, &count, query, listID, cycleNumber); err != nil {
		return false, fmt.Errorf("failed to look up cycle %d of list %s: %w", cycleNumber, listID, err)
	}
	return count > 0, nil
}
