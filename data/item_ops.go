package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"study_server_go/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const itemColumns = `id, list_id, title, estimated_time, is_completed, order_index, created_at, updated_at`

// NextOrderIndex returns the order index a new item of listID gets: one past
// the current maximum, or 0 for an empty list.
func (s *Store) NextOrderIndex(ctx context.Context, listID string) (int, error) {
	return nextOrderIndex(ctx, s.db, listID)
}

func nextOrderIndex(ctx context.Context, e sqlx.ExtContext, listID string) (int, error) {
	var maxIndex sql.NullInt64
	query := e.Rebind(`SELECT MAX(order_index) FROM study_items WHERE list_id = ?`)
	if err := sqlx.GetContext(ctx, e, &maxIndex, query, listID); err != nil {
		return 0, fmt.Errorf("failed to read max order index of list %s: %w", listID, err)
	}
	if !maxIndex.Valid {
		return 0, nil
	}
	return int(maxIndex.Int64) + 1, nil
}

// CreateItem appends a new item to its list. The order index is assigned here
// and any value set by the caller is ignored.
func (s *Store) CreateItem(ctx context.Context, item *models.StudyItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("CreateItem: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.CreateItemWithTx(ctx, tx, item); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("CreateItem: failed to commit: %w", err)
	}

	s.log.Debug().Str("item_id", item.ID).Str("list_id", item.ListID).Int("order_index", item.OrderIndex).Msg("study item created")
	return nil
}

// CreateItemWithTx is CreateItem inside an existing transaction.
func (s *Store) CreateItemWithTx(ctx context.Context, tx *sqlx.Tx, item *models.StudyItem) error {
	orderIndex, err := nextOrderIndex(ctx, tx, item.ListID)
	if err != nil {
		return fmt.Errorf("CreateItemWithTx: %w", err)
	}

	now := s.now()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.OrderIndex = orderIndex
	item.IsCompleted = false
	item.CreatedAt = now
	item.UpdatedAt = now

	query := tx.Rebind(`INSERT INTO study_items (` + itemColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = tx.ExecContext(ctx, query,
		item.ID, item.ListID, item.Title, item.EstimatedTime, item.IsCompleted, item.OrderIndex, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("CreateItemWithTx: failed to insert item %q: %w", item.Title, err)
	}
	return nil
}

// GetItemByID returns the item with the given id, or nil if there is none.
func (s *Store) GetItemByID(ctx context.Context, id string) (*models.StudyItem, error) {
	item := &models.StudyItem{}
	query := s.db.Rebind(`SELECT ` + itemColumns + ` FROM study_items WHERE id = ?`)
	err := s.db.GetContext(ctx, item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetItemByID: failed to get item %s: %w", id, err)
	}
	return item, nil
}

// GetItemsByListID returns the items of a list in display order.
func (s *Store) GetItemsByListID(ctx context.Context, listID string) ([]models.StudyItem, error) {
	return getItemsByListID(ctx, s.db, listID)
}

func getItemsByListID(ctx context.Context, e sqlx.ExtContext, listID string) ([]models.StudyItem, error) {
	items := []models.StudyItem{}
	query := e.Rebind(`SELECT ` + itemColumns + ` FROM study_items
	          WHERE list_id = ? ORDER BY order_index ASC, created_at ASC`)
	if err := sqlx.SelectContext(ctx, e, &items, query, listID); err != nil {
		return nil, fmt.Errorf("failed to get items of list %s: %w", listID, err)
	}
	return items, nil
}

// SetItemCompleted persists the completion flag of a single item.
// sql.ErrNoRows is returned when the item does not exist.
func (s *Store) SetItemCompleted(ctx context.Context, itemID string, completed bool, at time.Time) error {
	query := s.db.Rebind(`UPDATE study_items SET is_completed = ?, updated_at = ? WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, completed, at, itemID)
	if err != nil {
		return fmt.Errorf("SetItemCompleted: failed to update item %s: %w", itemID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ResetItems marks every item of a list as not completed.
func (s *Store) ResetItems(ctx context.Context, listID string, at time.Time) error {
	return resetItems(ctx, s.db, listID, at)
}

func resetItems(ctx context.Context, e sqlx.ExtContext, listID string, at time.Time) error {
	query := e.Rebind(`UPDATE study_items SET is_completed = ?, updated_at = ? WHERE list_id = ?`)
	if _, err := e.ExecContext(ctx, query, false, at, listID); err != nil {
		return fmt.Errorf("failed to reset items of list %s: %w", listID, err)
	}
	return nil
}
