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

type CardRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.CardRepository
	now  time.Time
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db)
	s.now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
}

func (s *CardRepositorySuite) setupCollectionAndHighlight() (string, string) {
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (id, user_id, title, author, source_type, created_at, updated_at)
		VALUES ('col-1', 'user-1', 'Test Book', 'Author', 'manual', ?, ?)
	`, s.now, s.now)
	s.Require().NoError(err)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO highlights (id, collection_id, user_id, text, created_at, updated_at)
		VALUES ('hl-1', 'col-1', 'user-1', 'a highlight', ?, ?)
	`, s.now, s.now)
	s.Require().NoError(err)

	return "col-1", "hl-1"
}

func (s *CardRepositorySuite) newCard(id string, due time.Time) models.Card {
	return models.Card{
		ID:           id,
		HighlightID:  "hl-1",
		CollectionID: "col-1",
		UserID:       "user-1",
		QuestionType: "definition",
		Question:     "What is the capital of France?",
		Answer:       "Paris",
		Memory: models.Memory{
			State: models.StateNew,
			Due:   due,
		},
		CreatedAt: s.now,
		UpdatedAt: s.now,
	}
}

func (s *CardRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()
	s.setupCollectionAndHighlight()

	card := s.newCard("card-1", s.now)
	s.Require().NoError(s.repo.Insert(ctx, card))

	got, err := s.repo.Get(ctx, "card-1", "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal("card-1", got.ID)
	s.Equal("hl-1", got.HighlightID)
	s.Equal("Paris", got.Answer)
	s.Equal(models.StateNew, got.State)
	s.Nil(got.LastReview)
	s.Nil(got.ClozeText)
	s.False(got.IsSuspended)
}

func (s *CardRepositorySuite) TestGet_WrongUser() {
	ctx := context.Background()
	s.setupCollectionAndHighlight()
	s.Require().NoError(s.repo.Insert(ctx, s.newCard("card-1", s.now)))

	got, err := s.repo.Get(ctx, "card-1", "someone-else")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *CardRepositorySuite) TestList_Filters() {
	ctx := context.Background()
	s.setupCollectionAndHighlight()

	newCard := s.newCard("card-new", s.now)
	s.Require().NoError(s.repo.Insert(ctx, newCard))

	reviewCard := s.newCard("card-review", s.now.Add(72*time.Hour))
	lastReview := s.now.Add(-24 * time.Hour)
	reviewCard.Memory = models.Memory{
		Stability:  5.5,
		Difficulty: 4.2,
		Reps:       3,
		State:      models.StateReview,
		LastReview: &lastReview,
		Due:        s.now.Add(72 * time.Hour),
	}
	s.Require().NoError(s.repo.Insert(ctx, reviewCard))

	all, err := s.repo.List(ctx, repository.CardFilter{UserID: "user-1"})
	s.Require().NoError(err)
	s.Len(all, 2)

	inReview, err := s.repo.List(ctx, repository.CardFilter{UserID: "user-1", State: models.StateReview})
	s.Require().NoError(err)
	s.Require().Len(inReview, 1)
	s.Equal("card-review", inReview[0].ID)
	s.Require().NotNil(inReview[0].LastReview)
	s.Equal(lastReview.Unix(), inReview[0].LastReview.Unix())

	cutoff := s.now.Add(time.Hour)
	dueSoon, err := s.repo.List(ctx, repository.CardFilter{UserID: "user-1", DueBefore: &cutoff})
	s.Require().NoError(err)
	s.Require().Len(dueSoon, 1)
	s.Equal("card-new", dueSoon[0].ID)

	limited, err := s.repo.List(ctx, repository.CardFilter{UserID: "user-1", Limit: 1})
	s.Require().NoError(err)
	s.Len(limited, 1)
}

func (s *CardRepositorySuite) TestDue_SkipsSuspendedAndFuture() {
	ctx := context.Background()
	s.setupCollectionAndHighlight()

	s.Require().NoError(s.repo.Insert(ctx, s.newCard("card-due", s.now.Add(-time.Hour))))

	future := s.newCard("card-future", s.now.Add(48*time.Hour))
	s.Require().NoError(s.repo.Insert(ctx, future))

	suspended := s.newCard("card-suspended", s.now.Add(-time.Hour))
	suspended.IsSuspended = true
	s.Require().NoError(s.repo.Insert(ctx, suspended))

	due, err := s.repo.Due(ctx, "user-1", s.now, 10)
	s.Require().NoError(err)
	s.Require().Len(due, 1)
	s.Equal("card-due", due[0].ID)
}

func (s *CardRepositorySuite) TestUpdateMemory() {
	ctx := context.Background()
	s.setupCollectionAndHighlight()
	s.Require().NoError(s.repo.Insert(ctx, s.newCard("card-1", s.now)))

	reviewedAt := s.now.Add(10 * time.Second)
	updated := models.Memory{
		Stability:     2.3,
		Difficulty:    5.1,
		ElapsedDays:   0,
		ScheduledDays: 0,
		Reps:          1,
		Lapses:        0,
		State:         models.StateLearning,
		LastReview:    &reviewedAt,
		Due:           reviewedAt.Add(10 * time.Minute),
	}
	s.Require().NoError(s.repo.UpdateMemory(ctx, "card-1", updated, reviewedAt))

	got, err := s.repo.Get(ctx, "card-1", "user-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.InDelta(2.3, got.Stability, 1e-9)
	s.InDelta(5.1, got.Difficulty, 1e-9)
	s.Equal(1, got.Reps)
	s.Equal(models.StateLearning, got.State)
	s.Require().NotNil(got.LastReview)
	s.Equal(reviewedAt.Unix(), got.LastReview.Unix())
	s.Equal(updated.Due.Unix(), got.Due.Unix())
}

func (s *CardRepositorySuite) TestInsertReview() {
	ctx := context.Background()
	s.setupCollectionAndHighlight()
	s.Require().NoError(s.repo.Insert(ctx, s.newCard("card-1", s.now)))

	rev := models.Review{
		ID:               "rev-1",
		CardID:           "card-1",
		UserID:           "user-1",
		Rating:           models.RatingGood,
		StabilityBefore:  0,
		DifficultyBefore: 0,
		StateBefore:      models.StateNew,
		DurationMs:       4200,
		ReviewedAt:       s.now,
	}
	s.Require().NoError(s.repo.InsertReview(ctx, rev))

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews WHERE card_id = 'card-1'`).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
