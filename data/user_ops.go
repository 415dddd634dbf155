package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"study_server_go/models"

	"github.com/google/uuid"
)

// CreateUser inserts a new user. PasswordHash must already be hashed.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	now := s.now()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	query := s.db.Rebind(`INSERT INTO users (id, email, display_name, password_hash, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query, user.ID, user.Email, user.DisplayName, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to insert user %s: %w: %w", user.Email, ErrDuplicate, err)
		}
		return fmt.Errorf("failed to insert user %s: %w", user.Email, err)
	}

	s.log.Debug().Str("user_id", user.ID).Msg("user created")
	return nil
}

// GetUserByEmail returns the user with the given email, or nil if there is none.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := s.db.Rebind(`SELECT id, email, display_name, password_hash, created_at, updated_at
	          FROM users WHERE email = ?`)
	err := s.db.GetContext(ctx, user, query, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return user, nil
}

// GetUserByID returns the user with the given id, or nil if there is none.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	query := s.db.Rebind(`SELECT id, email, display_name, password_hash, created_at, updated_at
	          FROM users WHERE id = ?`)
	err := s.db.GetContext(ctx, user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return user, nil
}
