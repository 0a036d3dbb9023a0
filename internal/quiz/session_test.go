package quiz_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugompham/marginalia/internal/models"
	"github.com/hugompham/marginalia/internal/quiz"
)

var quizStart = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func newQuestions(n int) []models.QuizQuestion {
	qs := make([]models.QuizQuestion, n)
	for i := range qs {
		qs[i] = models.QuizQuestion{
			HighlightID:   fmt.Sprintf("h%d", i),
			Type:          "short_answer",
			Question:      fmt.Sprintf("question %d", i),
			CorrectAnswer: fmt.Sprintf("answer %d", i),
		}
	}
	return qs
}

func TestStart(t *testing.T) {
	s := quiz.Start(newQuestions(3), "col-1", "My Book", quizStart)

	assert.False(t, s.IsComplete())
	assert.Equal(t, "col-1", s.CollectionID())
	assert.Equal(t, "My Book", s.CollectionTitle())

	require.NotNil(t, s.Current())
	assert.Equal(t, "question 0", s.Current().Question)

	p := s.Progress()
	assert.Equal(t, 1, p.Current)
	assert.Equal(t, 3, p.Total)
	assert.Zero(t, p.Percent)
}

func TestStart_NoQuestions(t *testing.T) {
	s := quiz.Start(nil, "col-1", "My Book", quizStart)

	assert.True(t, s.IsComplete())
	assert.Nil(t, s.Current())

	results := s.Results(quizStart)
	require.NotNil(t, results)
	assert.Zero(t, results.TotalQuestions)
	assert.Zero(t, results.ScorePercent, "a zero-question quiz scores zero, not NaN")
	assert.Empty(t, results.Answers)
}

func TestNilSessionIsIdle(t *testing.T) {
	var s *quiz.Session

	assert.True(t, s.IsComplete())
	assert.Nil(t, s.Current())
	assert.Equal(t, quiz.Progress{}, s.Progress())
	assert.Nil(t, s.Answer("x", true, quizStart))
	assert.Nil(t, s.Results(quizStart))
	s.End()
}

func TestAnswer_AdvancesAndRecords(t *testing.T) {
	s := quiz.Start(newQuestions(2), "col-1", "My Book", quizStart)
	answerAt := quizStart.Add(3 * time.Second)

	answer := s.Answer("answer 0", true, answerAt)
	require.NotNil(t, answer)

	assert.Equal(t, 0, answer.QuestionIndex)
	assert.Equal(t, "answer 0", answer.UserAnswer)
	assert.True(t, answer.IsCorrect)
	assert.Equal(t, int64(3000), answer.TimeMs)

	assert.False(t, s.IsComplete())
	assert.Equal(t, "question 1", s.Current().Question)

	p := s.Progress()
	assert.Equal(t, 2, p.Current)
	assert.Equal(t, 50, p.Percent)
}

func TestAnswer_LastQuestionCompletes(t *testing.T) {
	s := quiz.Start(newQuestions(1), "col-1", "My Book", quizStart)

	require.NotNil(t, s.Answer("x", false, quizStart))
	assert.True(t, s.IsComplete())
	assert.Nil(t, s.Current())

	assert.Nil(t, s.Answer("y", true, quizStart), "answering a complete quiz is a no-op")
}

func TestSkip_CountsAsIncorrect(t *testing.T) {
	s := quiz.Start(newQuestions(2), "col-1", "My Book", quizStart)

	answer := s.Skip(quizStart)
	require.NotNil(t, answer)
	assert.False(t, answer.IsCorrect)
	assert.Empty(t, answer.UserAnswer)

	// Skipped questions do not come back.
	assert.Equal(t, "question 1", s.Current().Question)
}

func TestResults(t *testing.T) {
	s := quiz.Start(newQuestions(3), "col-1", "My Book", quizStart)

	now := quizStart
	assert.Nil(t, s.Results(now), "no results until the quiz completes")

	now = now.Add(2 * time.Second)
	s.Answer("answer 0", true, now)
	now = now.Add(2 * time.Second)
	s.Skip(now)
	now = now.Add(2 * time.Second)
	s.Answer("answer 2", true, now)

	results := s.Results(now)
	require.NotNil(t, results)
	assert.Equal(t, 3, results.TotalQuestions)
	assert.Equal(t, 2, results.CorrectCount)
	assert.Equal(t, 67, results.ScorePercent)
	assert.Equal(t, int64(6000), results.TotalTimeMs)
	require.Len(t, results.Answers, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{
		results.Answers[0].QuestionIndex,
		results.Answers[1].QuestionIndex,
		results.Answers[2].QuestionIndex,
	})
}

func TestEnd_PartialQuiz(t *testing.T) {
	s := quiz.Start(newQuestions(4), "col-1", "My Book", quizStart)

	s.Answer("answer 0", true, quizStart)
	s.End()

	assert.True(t, s.IsComplete())
	results := s.Results(quizStart)
	require.NotNil(t, results)
	assert.Equal(t, 4, results.TotalQuestions)
	assert.Equal(t, 1, results.CorrectCount)
	assert.Equal(t, 25, results.ScorePercent, "unanswered questions count against the score")
	assert.Len(t, results.Answers, 1)
}
