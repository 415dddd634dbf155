package controllers

import (
	"context"
	"time"

	"study_server_go/cycle"
	"study_server_go/models"

	"github.com/rs/zerolog"
)

// Store is the persistence the handlers read from and write to.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	CreateList(ctx context.Context, list *models.StudyList) error
	GetListByID(ctx context.Context, id string) (*models.StudyList, error)
	GetListsForUser(ctx context.Context, userID string) ([]models.StudyList, error)
	DeleteList(ctx context.Context, id string) error

	CreateItem(ctx context.Context, item *models.StudyItem) error
	GetItemByID(ctx context.Context, id string) (*models.StudyItem, error)

	LoadSnapshot(ctx context.Context, listID string) (models.ListSnapshot, error)
}

// CycleEngine toggles items and resumes interrupted completions.
type CycleEngine interface {
	ToggleItemCompletion(ctx context.Context, itemID string, completed bool) (cycle.Result, error)
	Resume(ctx context.Context, listID string) ([]models.StudyCycle, error)
}

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID, email string) (string, time.Time, error)
}

// Handler holds the dependencies of every HTTP handler.
type Handler struct {
	store  Store
	engine CycleEngine
	tokens TokenIssuer
	log    zerolog.Logger
	now    func() time.Time
}

// NewHandler builds a Handler.
func NewHandler(store Store, engine CycleEngine, tokens TokenIssuer, log zerolog.Logger) *Handler {
	return &Handler{
		store:  store,
		engine: engine,
		tokens: tokens,
		log:    log.With().Str("component", "http").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}
