package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"study_server_go/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const intentColumns = `id, list_id, cycle_number, total_time, status, created_at, updated_at`

// RecordIntent writes a new completion intent.
func (s *Store) RecordIntent(ctx context.Context, intent *models.CompletionIntent) error {
	now := s.now()
	if intent.ID == "" {
		intent.ID = uuid.NewString()
	}
	if intent.Status == "" {
		intent.Status = models.IntentPending
	}
	intent.CreatedAt = now
	intent.UpdatedAt = now

	query := s.db.Rebind(`INSERT INTO cycle_intents (` + intentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		intent.ID, intent.ListID, intent.CycleNumber, intent.TotalTime, intent.Status, intent.CreatedAt, intent.UpdatedAt)
	if err != nil {
		return fmt.Errorf("RecordIntent: failed to insert intent for list %s: %w", intent.ListID, err)
	}
	return nil
}

// UpdateIntentStatus moves an intent to a new status.
func (s *Store) UpdateIntentStatus(ctx context.Context, id, status string) error {
	return updateIntentStatus(ctx, s.db, id, status, s.now())
}

func updateIntentStatus(ctx context.Context, e sqlx.ExtContext, id, status string, at time.Time) error {
	query := e.Rebind(`UPDATE cycle_intents SET status = ?, updated_at = ? WHERE id = ?`)
	result, err := e.ExecContext(ctx, query, status, at, id)
	if err != nil {
		return fmt.Errorf("failed to set intent %s to %s: %w", id, status, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetOpenIntents returns every intent still pending or with only the cycle
// recorded, oldest first.
func (s *Store) GetOpenIntents(ctx context.Context) ([]models.CompletionIntent, error) {
	intents := []models.CompletionIntent{}
	query := s.db.Rebind(`SELECT ` + intentColumns + ` FROM cycle_intents
	          WHERE status IN (?, ?) ORDER BY created_at ASC`)
	if err := s.db.SelectContext(ctx, &intents, query, models.IntentPending, models.IntentCycleRecorded); err != nil {
		return nil, fmt.Errorf("GetOpenIntents: %w", err)
	}
	return intents, nil
}

// GetOpenIntentsForList is GetOpenIntents restricted to one list.
func (s *Store) GetOpenIntentsForList(ctx context.Context, listID string) ([]models.CompletionIntent, error) {
	intents := []models.CompletionIntent{}
	query := s.db.Rebind(`SELECT ` + intentColumns + ` FROM cycle_intents
	          WHERE list_id = ? AND status IN (?, ?) ORDER BY created_at ASC`)
	if err := s.db.SelectContext(ctx, &intents, query, listID, models.IntentPending, models.IntentCycleRecorded); err != nil {
		return nil, fmt.Errorf("GetOpenIntentsForList: list %s: %w", listID, err)
	}
	return intents, nil
}
