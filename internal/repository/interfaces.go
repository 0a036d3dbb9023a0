package repository

import (
	"context"
	"time"

	"github.com/hugompham/marginalia/internal/models"
)

// CollectionRepository manages collections of highlights.
type CollectionRepository interface {
	Insert(ctx context.Context, c models.Collection) error
	Get(ctx context.Context, id, userID string) (*models.Collection, error)
	List(ctx context.Context, userID string) ([]models.Collection, error)
}

// HighlightRepository manages highlighted passages.
type HighlightRepository interface {
	Insert(ctx context.Context, h models.Highlight) error
	Get(ctx context.Context, id, userID string) (*models.Highlight, error)
	ListByCollection(ctx context.Context, collectionID, userID string) ([]models.Highlight, error)
}

// CardFilter narrows a card listing. Zero values mean "no constraint".
type CardFilter struct {
	UserID       string
	CollectionID string
	State        models.CardState
	DueBefore    *time.Time
	Limit        int
}

// CardRepository manages flashcards, their memory-state writebacks, and
// the review audit rows produced by sessions.
type CardRepository interface {
	Insert(ctx context.Context, c models.Card) error
	Get(ctx context.Context, id, userID string) (*models.Card, error)
	List(ctx context.Context, filter CardFilter) ([]models.Card, error)
	Due(ctx context.Context, userID string, now time.Time, limit int) ([]models.Card, error)
	UpdateMemory(ctx context.Context, id string, m models.Memory, updatedAt time.Time) error
	InsertReview(ctx context.Context, r models.Review) error
}

// QuizRepository persists completed quiz results.
type QuizRepository interface {
	InsertResult(ctx context.Context, r models.QuizResult) error
	ListResults(ctx context.Context, userID, collectionID string) ([]models.QuizResult, error)
}
