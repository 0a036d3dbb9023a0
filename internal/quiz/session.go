// Package quiz implements the one-shot quiz session: a sequencer over a
// fixed list of questions that tracks correctness and elapsed time. It
// has no scheduler dependency; questions are static and never re-queued.
package quiz

import (
	"time"

	"github.com/hugompham/marginalia/internal/models"
)

// Progress is the position within the quiz.
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// Results is the score summary, defined only once the quiz completes.
type Results struct {
	TotalQuestions int                 `json:"total_questions"`
	CorrectCount   int                 `json:"correct_count"`
	ScorePercent   int                 `json:"score_percent"`
	TotalTimeMs    int64               `json:"total_time_ms"`
	Answers        []models.QuizAnswer `json:"answers"`
}

// Session is an active quiz. A nil *Session is the idle state. Not safe
// for concurrent use; the host serializes access.
type Session struct {
	collectionID      string
	collectionTitle   string
	questions         []models.QuizQuestion
	currentIndex      int
	answers           []models.QuizAnswer
	startedAt         time.Time
	questionStartedAt time.Time
	complete          bool
}

// Start creates a session over the given questions. The collection id
// and title are opaque display context. An empty list starts complete.
func Start(questions []models.QuizQuestion, collectionID, collectionTitle string, now time.Time) *Session {
	qs := make([]models.QuizQuestion, len(questions))
	copy(qs, questions)
	return &Session{
		collectionID:      collectionID,
		collectionTitle:   collectionTitle,
		questions:         qs,
		startedAt:         now,
		questionStartedAt: now,
		complete:          len(qs) == 0,
	}
}

// Answer records the user's answer for the current question and
// advances. Returns nil when the session is idle or complete; that is a
// benign no-op (e.g. a double-submitted form), not an error.
func (s *Session) Answer(userAnswer string, isCorrect bool, now time.Time) *models.QuizAnswer {
	if s == nil || s.complete {
		return nil
	}

	answer := models.QuizAnswer{
		QuestionIndex: s.currentIndex,
		UserAnswer:    userAnswer,
		IsCorrect:     isCorrect,
		TimeMs:        now.Sub(s.questionStartedAt).Milliseconds(),
	}
	s.answers = append(s.answers, answer)
	s.currentIndex++
	s.questionStartedAt = now
	if s.currentIndex >= len(s.questions) {
		s.complete = true
	}
	return &answer
}

// Skip records the current question as incorrect with an empty answer.
// Quizzes are one-shot, so a skipped question is simply wrong.
func (s *Session) Skip(now time.Time) *models.QuizAnswer {
	return s.Answer("", false, now)
}

// End forces the session to complete without altering recorded answers.
func (s *Session) End() {
	if s == nil {
		return
	}
	s.complete = true
}

// IsComplete reports whether the quiz has finished.
func (s *Session) IsComplete() bool {
	return s == nil || s.complete
}

// CollectionID returns the display-context collection id.
func (s *Session) CollectionID() string {
	if s == nil {
		return ""
	}
	return s.collectionID
}

// CollectionTitle returns the display-context collection title.
func (s *Session) CollectionTitle() string {
	if s == nil {
		return ""
	}
	return s.collectionTitle
}

// Current returns a copy of the question being presented, or nil when
// the session is idle or complete.
func (s *Session) Current() *models.QuizQuestion {
	if s == nil || s.complete {
		return nil
	}
	q := s.questions[s.currentIndex]
	return &q
}

// Progress reports the 1-indexed position, total, and the rounded
// percentage of questions answered.
func (s *Session) Progress() Progress {
	if s == nil || len(s.questions) == 0 {
		return Progress{}
	}
	total := len(s.questions)
	percent := float64(len(s.answers)) / float64(total) * 100
	return Progress{
		Current: min(s.currentIndex+1, total),
		Total:   total,
		Percent: int(percent + 0.5),
	}
}

// Results computes the score summary. Nil until the session completes.
// A zero-question quiz reports a zero score rather than dividing by
// zero.
func (s *Session) Results(now time.Time) *Results {
	if s == nil || !s.complete {
		return nil
	}

	correct := 0
	for _, a := range s.answers {
		if a.IsCorrect {
			correct++
		}
	}

	total := len(s.questions)
	score := 0
	if total > 0 {
		score = int(float64(correct)/float64(total)*100 + 0.5)
	}

	answers := make([]models.QuizAnswer, len(s.answers))
	copy(answers, s.answers)

	return &Results{
		TotalQuestions: total,
		CorrectCount:   correct,
		ScorePercent:   score,
		TotalTimeMs:    now.Sub(s.startedAt).Milliseconds(),
		Answers:        answers,
	}
}
