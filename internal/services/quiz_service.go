package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hugompham/marginalia/internal/errors"
	"github.com/hugompham/marginalia/internal/logger"
	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/quiz"
	"github.com/hugompham/marginalia/internal/repository"
)

// QuizState is the session snapshot returned to the caller after each
// operation.
type QuizState struct {
	Question *models.QuizQuestion `json:"question,omitempty"`
	Progress quiz.Progress        `json:"progress"`
	Complete bool                 `json:"complete"`
}

// QuizService drives quiz sessions built from a collection's cards.
// Sessions live in memory, one per user. Ending a session persists its
// results and keeps them available until the session is cleared or a
// new one starts.
type QuizService interface {
	Start(ctx context.Context, userID, collectionID string) (*QuizState, error)
	Current(ctx context.Context, userID string) (*QuizState, error)
	Answer(ctx context.Context, userID, userAnswer string, isCorrect bool) (*QuizState, error)
	Skip(ctx context.Context, userID string) (*QuizState, error)
	End(ctx context.Context, userID string) (*quiz.Results, error)
	Clear(ctx context.Context, userID string) error
	History(ctx context.Context, userID, collectionID string) ([]models.QuizResult, error)
}

// quizEntry pairs a session with its computed results. results is set
// once at End, so repeated End calls return the same snapshot and the
// history row is inserted exactly once.
type quizEntry struct {
	session *quiz.Session
	results *quiz.Results
}

type quizService struct {
	cards       repository.CardRepository
	collections repository.CollectionRepository
	results     repository.QuizRepository
	quizSize    int
	now         func() time.Time

	// mu guards the registry and every session in it. Sessions are not
	// safe for concurrent use, so each operation holds the lock from
	// lookup through the snapshot it returns.
	mu       sync.Mutex
	sessions map[string]*quizEntry
}

// NewQuizService creates a new QuizService
func NewQuizService(cards repository.CardRepository, collections repository.CollectionRepository, results repository.QuizRepository, quizSize int) QuizService {
	return &quizService{
		cards:       cards,
		collections: collections,
		results:     results,
		quizSize:    quizSize,
		now:         func() time.Time { return time.Now().UTC() },
		sessions:    make(map[string]*quizEntry),
	}
}

func (s *quizService) Start(ctx context.Context, userID, collectionID string) (*QuizState, error) {
	log := logger.FromContext(ctx)

	collection, err := s.collections.Get(ctx, collectionID, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if collection == nil {
		return nil, errors.NewNotFoundError("collection", collectionID)
	}

	cards, err := s.cards.List(ctx, repository.CardFilter{
		UserID:       userID,
		CollectionID: collectionID,
		Limit:        s.quizSize,
	})
	if err != nil {
		log.Error("failed to load cards for quiz: %v", err)
		return nil, errors.NewInternalError(err)
	}

	questions := make([]models.QuizQuestion, 0, len(cards))
	for _, c := range cards {
		if c.IsSuspended {
			continue
		}
		// Cards become short-answer questions; the caller grades the
		// free-form response.
		questions = append(questions, models.QuizQuestion{
			HighlightID:   c.HighlightID,
			Type:          "short_answer",
			Question:      c.Question,
			CorrectAnswer: c.Answer,
		})
	}

	log.Info("starting quiz: user_id=%s, collection_id=%s, questions=%d", userID, collectionID, len(questions))
	session := quiz.Start(questions, collection.ID, collection.Title, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = &quizEntry{session: session}
	return quizStateOf(session), nil
}

func (s *quizService) Current(ctx context.Context, userID string) (*QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.sessions[userID]
	if entry == nil {
		return nil, errors.NewPreconditionError(errNoActiveSession)
	}
	return quizStateOf(entry.session), nil
}

func (s *quizService) Answer(ctx context.Context, userID, userAnswer string, isCorrect bool) (*QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.sessions[userID]
	if entry == nil {
		return nil, errors.NewPreconditionError(errNoActiveSession)
	}

	entry.session.Answer(userAnswer, isCorrect, s.now())
	return quizStateOf(entry.session), nil
}

func (s *quizService) Skip(ctx context.Context, userID string) (*QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.sessions[userID]
	if entry == nil {
		return nil, errors.NewPreconditionError(errNoActiveSession)
	}

	entry.session.Skip(s.now())
	return quizStateOf(entry.session), nil
}

// End completes the session, persists the result and keeps the session
// around, so the results stay readable until Clear or the next Start.
// Ending an already-ended session returns the original results without
// persisting again.
func (s *quizService) End(ctx context.Context, userID string) (*quiz.Results, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.sessions[userID]
	if entry == nil {
		return nil, errors.NewPreconditionError(errNoActiveSession)
	}
	if entry.results != nil {
		return entry.results, nil
	}

	now := s.now()
	entry.session.End()
	results := entry.session.Results(now)
	entry.results = results
	log.Info("quiz ended: user_id=%s, score=%d", userID, results.ScorePercent)

	record := models.QuizResult{
		ID:             uuid.NewString(),
		UserID:         userID,
		CollectionID:   entry.session.CollectionID(),
		TotalQuestions: results.TotalQuestions,
		CorrectCount:   results.CorrectCount,
		ScorePercent:   results.ScorePercent,
		TotalTimeMs:    results.TotalTimeMs,
		Answers:        results.Answers,
		CompletedAt:    now,
	}
	if err := s.results.InsertResult(ctx, record); err != nil {
		log.Warn("failed to store quiz result: %v", err)
		// Don't fail the quiz if history storage fails
	}

	return results, nil
}

// Clear discards the session, active or ended. Clearing when no session
// exists is a no-op.
func (s *quizService) Clear(ctx context.Context, userID string) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID]; ok {
		log.Debug("clearing quiz session: user_id=%s", userID)
		delete(s.sessions, userID)
	}
	return nil
}

func (s *quizService) History(ctx context.Context, userID, collectionID string) ([]models.QuizResult, error) {
	results, err := s.results.ListResults(ctx, userID, collectionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return results, nil
}

func quizStateOf(session *quiz.Session) *QuizState {
	return &QuizState{
		Question: session.Current(),
		Progress: session.Progress(),
		Complete: session.IsComplete(),
	}
}
