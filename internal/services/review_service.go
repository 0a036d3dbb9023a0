package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hugompham/marginalia/internal/errors"
	"github.com/hugompham/marginalia/internal/fsrs"
	"github.com/hugompham/marginalia/internal/logger"
	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/repository"
	"github.com/hugompham/marginalia/internal/review"
)

// ReviewState is the session snapshot returned to the caller after each
// operation.
type ReviewState struct {
	Card     *models.Card    `json:"card,omitempty"`
	Progress review.Progress `json:"progress"`
	Complete bool            `json:"complete"`
}

// ReviewService drives review sessions over due cards. Sessions live in
// memory, one per user. Ending a session keeps its results until the
// session is cleared or a new one starts.
type ReviewService interface {
	Start(ctx context.Context, userID string) (*ReviewState, error)
	Current(ctx context.Context, userID string) (*ReviewState, error)
	Answer(ctx context.Context, userID string, rating models.Rating) (*ReviewState, error)
	Skip(ctx context.Context, userID string) (*ReviewState, error)
	Preview(ctx context.Context, userID string) (*fsrs.Preview, error)
	End(ctx context.Context, userID string) (*review.Stats, error)
	Clear(ctx context.Context, userID string) error
	Stats(ctx context.Context, userID string) (*review.Stats, error)
}

type reviewService struct {
	cards     repository.CardRepository
	scheduler *fsrs.Scheduler
	batchSize int
	now       func() time.Time

	// mu guards the registry and every session in it. Sessions are not
	// safe for concurrent use, so each operation holds the lock from
	// lookup through the snapshot it returns.
	mu       sync.Mutex
	sessions map[string]*review.Session
}

// NewReviewService creates a new ReviewService
func NewReviewService(cards repository.CardRepository, scheduler *fsrs.Scheduler, batchSize int) ReviewService {
	return &reviewService{
		cards:     cards,
		scheduler: scheduler,
		batchSize: batchSize,
		now:       func() time.Time { return time.Now().UTC() },
		sessions:  make(map[string]*review.Session),
	}
}

func (s *reviewService) Start(ctx context.Context, userID string) (*ReviewState, error) {
	log := logger.FromContext(ctx)
	now := s.now()

	due, err := s.cards.Due(ctx, userID, now, s.batchSize)
	if err != nil {
		log.Error("failed to load due cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	queue := s.scheduler.SortByUrgency(due, now)

	log.Info("starting review session: user_id=%s, cards=%d", userID, len(queue))
	session := review.Start(s.scheduler, queue, now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
	return stateOf(session), nil
}

func (s *reviewService) Current(ctx context.Context, userID string) (*ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.sessions[userID]
	if session == nil {
		return nil, errors.NewPreconditionError(errNoActiveSession)
	}
	return stateOf(session), nil
}

func (s *reviewService) Answer(ctx context.Context, userID string, rating models.Rating) (*ReviewState, error) {
	log := logger.FromContext(ctx)

	if !rating.IsValid() {
		return nil, errors.NewValidationError("rating", "must be again, hard, good or easy")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.sessions[userID]
	if session == nil {
		return nil, errors.NewPreconditionError(errNoActiveSession)
	}

	now := s.now()
	answered, err := session.Answer(rating, now)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if answered == nil {
		return stateOf(session), nil
	}

	rev := models.Review{
		ID:               uuid.NewString(),
		CardID:           answered.Result.CardID,
		UserID:           userID,
		Rating:           answered.Result.Rating,
		StabilityBefore:  answered.Result.StabilityBefore,
		DifficultyBefore: answered.Result.DifficultyBefore,
		StateBefore:      answered.Result.StateBefore,
		DurationMs:       answered.Result.DurationMs,
		ReviewedAt:       now,
	}
	if err := s.cards.InsertReview(ctx, rev); err != nil {
		log.Warn("failed to store review history: %v", err)
		// Don't fail the review if history storage fails
	}

	if err := s.cards.UpdateMemory(ctx, answered.Card.ID, answered.Card.Memory, now); err != nil {
		log.Error("failed to persist card memory: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return stateOf(session), nil
}

func (s *reviewService) Skip(ctx context.Context, userID string) (*ReviewState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.sessions[userID]
	if session == nil {
		return nil, errors.NewPreconditionError(errNoActiveSession)
	}

	session.Skip(s.now())
	return stateOf(session), nil
}

func (s *reviewService) Preview(ctx context.Context, userID string) (*fsrs.Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.sessions[userID]
	if session == nil {
		return nil, errors.NewPreconditionError(errNoActiveSession)
	}

	preview, err := session.SchedulingPreview(s.now())
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if preview == nil {
		return nil, errors.NewPreconditionError(errSessionComplete)
	}
	return preview, nil
}

// End completes the session but keeps it, so Stats remains available
// until Clear or the next Start.
func (s *reviewService) End(ctx context.Context, userID string) (*review.Stats, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.sessions[userID]
	if session == nil {
		return nil, errors.NewPreconditionError(errNoActiveSession)
	}

	session.End()
	stats := session.Stats()
	log.Info("review session ended: user_id=%s, cards=%d, retention=%d", userID, stats.TotalCards, stats.Retention)
	return &stats, nil
}

// Clear discards the session, active or ended. Clearing when no session
// exists is a no-op.
func (s *reviewService) Clear(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID]; ok {
		log.Debug("clearing review session: user_id=%s", userID)
		delete(s.sessions, userID)
	}
	return nil
}

func (s *reviewService) Stats(ctx context.Context, userID string) (*review.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.sessions[userID]
	if session == nil {
		return nil, errors.NewPreconditionError(errNoActiveSession)
	}
	stats := session.Stats()
	return &stats, nil
}

func stateOf(session *review.Session) *ReviewState {
	return &ReviewState{
		Card:     session.Current(),
		Progress: session.Progress(),
		Complete: session.IsComplete(),
	}
}
