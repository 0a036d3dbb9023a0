package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/repository"
	"github.com/hugompham/marginalia/internal/repository/sqlite"
	"github.com/hugompham/marginalia/internal/testutil"
)

type QuizRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.QuizRepository
	now  time.Time
}

func (s *QuizRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewQuizRepository(s.db)
	s.now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO collections (id, user_id, title, author, source_type, created_at, updated_at)
		VALUES ('col-1', 'user-1', 'Test Book', 'Author', 'manual', ?, ?)
	`, s.now, s.now)
	s.Require().NoError(err)
}

func (s *QuizRepositorySuite) TestInsertAndList() {
	ctx := context.Background()

	result := models.QuizResult{
		ID:             "quiz-1",
		UserID:         "user-1",
		CollectionID:   "col-1",
		TotalQuestions: 2,
		CorrectCount:   1,
		ScorePercent:   50,
		TotalTimeMs:    9000,
		Answers: []models.QuizAnswer{
			{QuestionIndex: 0, UserAnswer: "right", IsCorrect: true, TimeMs: 4000},
			{QuestionIndex: 1, UserAnswer: "", IsCorrect: false, TimeMs: 5000},
		},
		CompletedAt: s.now,
	}
	s.Require().NoError(s.repo.InsertResult(ctx, result))

	results, err := s.repo.ListResults(ctx, "user-1", "col-1")
	s.Require().NoError(err)
	s.Require().Len(results, 1)

	got := results[0]
	s.Equal("quiz-1", got.ID)
	s.Equal(50, got.ScorePercent)
	s.Require().Len(got.Answers, 2)
	s.True(got.Answers[0].IsCorrect)
	s.False(got.Answers[1].IsCorrect)
	s.Equal(int64(5000), got.Answers[1].TimeMs)
}

func (s *QuizRepositorySuite) TestList_NewestFirst() {
	ctx := context.Background()

	for i, id := range []string{"quiz-old", "quiz-new"} {
		s.Require().NoError(s.repo.InsertResult(ctx, models.QuizResult{
			ID:           id,
			UserID:       "user-1",
			CollectionID: "col-1",
			CompletedAt:  s.now.Add(time.Duration(i) * time.Hour),
		}))
	}

	results, err := s.repo.ListResults(ctx, "user-1", "col-1")
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal("quiz-new", results[0].ID)
	s.Equal("quiz-old", results[1].ID)
}

func (s *QuizRepositorySuite) TestList_Empty() {
	results, err := s.repo.ListResults(context.Background(), "user-1", "col-1")
	s.Require().NoError(err)
	s.Empty(results)
}

func TestQuizRepositorySuite(t *testing.T) {
	suite.Run(t, new(QuizRepositorySuite))
}
