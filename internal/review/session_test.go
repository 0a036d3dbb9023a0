package review_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugompham/marginalia/internal/fsrs"
	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/review"
)

var sessionStart = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newScheduler(t *testing.T) *fsrs.Scheduler {
	t.Helper()
	s, err := fsrs.New(fsrs.Config{})
	require.NoError(t, err)
	return s
}

func newCards(n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{
			ID:       string(rune('a' + i)),
			Question: "q",
			Answer:   "a",
			Memory:   fsrs.NewMemory(sessionStart),
		}
	}
	return cards
}

func TestStart(t *testing.T) {
	s := review.Start(newScheduler(t), newCards(3), sessionStart)

	assert.False(t, s.IsComplete())
	require.NotNil(t, s.Current())
	assert.Equal(t, "a", s.Current().ID)

	p := s.Progress()
	assert.Equal(t, 1, p.Current)
	assert.Equal(t, 3, p.Total)
	assert.Zero(t, p.Percent)
}

func TestStart_EmptyQueue(t *testing.T) {
	s := review.Start(newScheduler(t), nil, sessionStart)

	assert.True(t, s.IsComplete())
	assert.Nil(t, s.Current())
	assert.Equal(t, review.Progress{}, s.Progress())
}

func TestStart_CopiesInput(t *testing.T) {
	cards := newCards(2)
	s := review.Start(newScheduler(t), cards, sessionStart)

	cards[0].ID = "mutated"
	assert.Equal(t, "a", s.Current().ID)
}

func TestNilSessionIsIdle(t *testing.T) {
	var s *review.Session

	assert.True(t, s.IsComplete())
	assert.Nil(t, s.Current())
	assert.Equal(t, review.Progress{}, s.Progress())
	assert.Equal(t, review.Stats{}, s.Stats())
	assert.Nil(t, s.Results())

	answered, err := s.Answer(models.RatingGood, sessionStart)
	require.NoError(t, err)
	assert.Nil(t, answered)
	s.Skip(sessionStart)
	s.End()
}

func TestAnswer_AdvancesAndRecords(t *testing.T) {
	s := review.Start(newScheduler(t), newCards(2), sessionStart)
	answerAt := sessionStart.Add(7 * time.Second)

	answered, err := s.Answer(models.RatingGood, answerAt)
	require.NoError(t, err)
	require.NotNil(t, answered)

	assert.Equal(t, "a", answered.Result.CardID)
	assert.Equal(t, models.RatingGood, answered.Result.Rating)
	assert.Equal(t, int64(7000), answered.Result.DurationMs)
	assert.Equal(t, models.StateNew, answered.Result.StateBefore)
	assert.Zero(t, answered.Result.StabilityBefore)

	assert.Equal(t, 1, answered.Card.Reps)
	assert.Equal(t, models.StateLearning, answered.Card.State)

	assert.False(t, s.IsComplete())
	assert.Equal(t, "b", s.Current().ID)

	p := s.Progress()
	assert.Equal(t, 2, p.Current)
	assert.InDelta(t, 50.0, p.Percent, 1e-9)
}

func TestAnswer_LastCardCompletes(t *testing.T) {
	s := review.Start(newScheduler(t), newCards(1), sessionStart)

	_, err := s.Answer(models.RatingEasy, sessionStart)
	require.NoError(t, err)

	assert.True(t, s.IsComplete())
	assert.Nil(t, s.Current())

	answered, err := s.Answer(models.RatingGood, sessionStart)
	require.NoError(t, err)
	assert.Nil(t, answered, "answering a complete session is a no-op")
	assert.Len(t, s.Results(), 1)
}

func TestAnswer_InvalidRating(t *testing.T) {
	s := review.Start(newScheduler(t), newCards(1), sessionStart)

	_, err := s.Answer(models.Rating("meh"), sessionStart)
	assert.ErrorIs(t, err, fsrs.ErrInvalidRating)
	assert.False(t, s.IsComplete())
	assert.Empty(t, s.Results())
}

func TestSkip_RotatesToEnd(t *testing.T) {
	s := review.Start(newScheduler(t), newCards(3), sessionStart)

	s.Skip(sessionStart)
	assert.Equal(t, "b", s.Current().ID)
	assert.False(t, s.IsComplete())

	// The skipped card comes back after the rest of the queue.
	_, err := s.Answer(models.RatingGood, sessionStart)
	require.NoError(t, err)
	_, err = s.Answer(models.RatingGood, sessionStart)
	require.NoError(t, err)
	assert.Equal(t, "a", s.Current().ID)
}

func TestSkip_AllRemainingCompletes(t *testing.T) {
	s := review.Start(newScheduler(t), newCards(2), sessionStart)

	s.Skip(sessionStart)
	assert.False(t, s.IsComplete())
	s.Skip(sessionStart)
	assert.True(t, s.IsComplete(), "skipping every remaining card ends the session")
}

func TestSkip_AnswerResetsSkipCount(t *testing.T) {
	s := review.Start(newScheduler(t), newCards(3), sessionStart)

	s.Skip(sessionStart)
	s.Skip(sessionStart)
	_, err := s.Answer(models.RatingGood, sessionStart)
	require.NoError(t, err)

	// Two more skips are needed again before the session can complete.
	s.Skip(sessionStart)
	assert.False(t, s.IsComplete())
	s.Skip(sessionStart)
	assert.True(t, s.IsComplete())
}

func TestEnd(t *testing.T) {
	s := review.Start(newScheduler(t), newCards(3), sessionStart)

	_, err := s.Answer(models.RatingGood, sessionStart)
	require.NoError(t, err)
	s.End()

	assert.True(t, s.IsComplete())
	assert.Nil(t, s.Current())
	assert.Len(t, s.Results(), 1, "ending keeps recorded results")
}

func TestSchedulingPreview_DoesNotMutate(t *testing.T) {
	s := review.Start(newScheduler(t), newCards(1), sessionStart)

	before := *s.Current()
	preview, err := s.SchedulingPreview(sessionStart)
	require.NoError(t, err)
	require.NotNil(t, preview)

	assert.NotEmpty(t, preview.Good.Interval)
	assert.Equal(t, before, *s.Current())

	s.End()
	preview, err = s.SchedulingPreview(sessionStart)
	require.NoError(t, err)
	assert.Nil(t, preview, "no preview once the session is complete")
}

func TestStats(t *testing.T) {
	s := review.Start(newScheduler(t), newCards(3), sessionStart)

	now := sessionStart
	for _, r := range []models.Rating{models.RatingGood, models.RatingAgain, models.RatingEasy} {
		now = now.Add(4 * time.Second)
		_, err := s.Answer(r, now)
		require.NoError(t, err)
	}

	stats := s.Stats()
	assert.Equal(t, 3, stats.TotalCards)
	assert.Equal(t, int64(12000), stats.TotalDurationMs)
	assert.Equal(t, int64(4000), stats.AvgDurationMs)
	assert.Equal(t, review.RatingCounts{Again: 1, Good: 1, Easy: 1}, stats.RatingCounts)
	assert.Equal(t, 67, stats.Retention, "2 of 3 rated good or easy rounds to 67%")
}

func TestStats_Empty(t *testing.T) {
	s := review.Start(newScheduler(t), newCards(2), sessionStart)
	assert.Equal(t, review.Stats{}, s.Stats())
}
