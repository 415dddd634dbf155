package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"study_server_go/models"

	"github.com/google/uuid"
)

const listColumns = `id, user_id, title, description, cycle_duration, created_at, updated_at`

// CreateList inserts a new study list and fills in its id and timestamps.
func (s *Store) CreateList(ctx context.Context, list *models.StudyList) error {
	now := s.now()
	if list.ID == "" {
		list.ID = uuid.NewString()
	}
	list.CreatedAt = now
	list.UpdatedAt = now

	query := s.db.Rebind(`INSERT INTO study_lists (` + listColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		list.ID, list.UserID, list.Title, list.Description, list.CycleDuration, list.CreatedAt, list.UpdatedAt)
	if err != nil {
		return fmt.Errorf("CreateList: failed to insert list %q: %w", list.Title, err)
	}

	s.log.Debug().Str("list_id", list.ID).Str("user_id", list.UserID).Msg("study list created")
	return nil
}

// GetListByID returns the list with the given id, or nil if there is none.
func (s *Store) GetListByID(ctx context.Context, id string) (*models.StudyList, error) {
	list := &models.StudyList{}
	query := s.db.Rebind(`SELECT ` + listColumns + ` FROM study_lists WHERE id = ?`)
	err := s.db.GetContext(ctx, list, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("GetListByID: failed to get list %s: %w", id, err)
	}
	return list, nil
}

// GetListsForUser returns the lists owned by userID, newest first.
func (s *Store) GetListsForUser(ctx context.Context, userID string) ([]models.StudyList, error) {
	lists := []models.StudyList{}
	query := s.db.Rebind(`SELECT ` + listColumns + ` FROM study_lists
	          WHERE user_id = ? ORDER BY created_at DESC, id DESC`)
	if err := s.db.SelectContext(ctx, &lists, query, userID); err != nil {
		return nil, fmt.Errorf("GetListsForUser: failed to get lists for user %s: %w", userID, err)
	}
	return lists, nil
}

// DeleteList removes a list. Items, cycles and intents go with it through the
// foreign keys. sql.ErrNoRows is returned when the list does not exist.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	query := s.db.Rebind(`DELETE FROM study_lists WHERE id = ?`)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("DeleteList: failed to delete list %s: %w", id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	s.log.Debug().Str("list_id", id).Msg("study list deleted")
	return nil
}
