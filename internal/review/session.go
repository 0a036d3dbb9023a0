// Package review implements the in-memory review session: a sequencer
// over a queue of cards that applies the scheduler on each rating and
// tracks timing, skips and per-session statistics. Sessions are plain
// state objects; the host owns sharing and notification.
package review

import (
	"time"

	"github.com/hugompham/marginalia/internal/fsrs"
	"github.com/hugompham/marginalia/internal/models"
)

// Result records one completed card review. The before-state snapshot
// preserves what the scheduler saw; the caller persists it as an audit
// row.
type Result struct {
	CardID           string           `json:"card_id"`
	Rating           models.Rating    `json:"rating"`
	DurationMs       int64            `json:"duration_ms"`
	StabilityBefore  float64          `json:"stability_before"`
	DifficultyBefore float64          `json:"difficulty_before"`
	StateBefore      models.CardState `json:"state_before"`
}

// Answered bundles the review result with the updated card the caller
// must write back to storage.
type Answered struct {
	Result Result      `json:"result"`
	Card   models.Card `json:"card"`
}

// Progress is the position within the session.
type Progress struct {
	Current int     `json:"current"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// RatingCounts tallies results per rating.
type RatingCounts struct {
	Again int `json:"again"`
	Hard  int `json:"hard"`
	Good  int `json:"good"`
	Easy  int `json:"easy"`
}

// Stats summarizes a session. Retention is the percentage of reviews
// rated good or easy, rounded to the nearest integer.
type Stats struct {
	TotalCards      int          `json:"total_cards"`
	TotalDurationMs int64        `json:"total_duration_ms"`
	AvgDurationMs   int64        `json:"avg_duration_ms"`
	RatingCounts    RatingCounts `json:"rating_counts"`
	Retention       int          `json:"retention"`
}

// Session is an active review session. A nil *Session is the idle
// state. Sessions are not safe for concurrent use; the host serializes
// access.
type Session struct {
	scheduler     *fsrs.Scheduler
	cards         []models.Card
	currentIndex  int
	skipCount     int
	startedAt     time.Time
	cardStartedAt time.Time
	results       []Result
	complete      bool
}

// Start creates a session over the given cards. The slice is copied, so
// later mutations by the caller do not leak in. An empty queue starts
// complete.
func Start(scheduler *fsrs.Scheduler, cards []models.Card, now time.Time) *Session {
	queue := make([]models.Card, len(cards))
	copy(queue, cards)
	return &Session{
		scheduler:     scheduler,
		cards:         queue,
		startedAt:     now,
		cardStartedAt: now,
		complete:      len(queue) == 0,
	}
}

// Answer rates the current card. It applies the scheduler, records a
// Result, replaces the in-session card with its updated state, and
// advances the queue. Returns (nil, nil) when the session is already
// complete; that is a benign no-op, not an error.
func (s *Session) Answer(rating models.Rating, now time.Time) (*Answered, error) {
	if s == nil || s.complete {
		return nil, nil
	}

	card := s.cards[s.currentIndex]
	updated, err := s.scheduler.ApplyRating(card.Memory, rating, now)
	if err != nil {
		return nil, err
	}

	result := Result{
		CardID:           card.ID,
		Rating:           rating,
		DurationMs:       now.Sub(s.cardStartedAt).Milliseconds(),
		StabilityBefore:  card.Stability,
		DifficultyBefore: card.Difficulty,
		StateBefore:      card.State,
	}

	card.Memory = updated
	card.UpdatedAt = now
	s.cards[s.currentIndex] = card

	s.results = append(s.results, result)
	s.skipCount = 0
	s.currentIndex++
	s.cardStartedAt = now
	if s.currentIndex >= len(s.cards) {
		s.complete = true
	}

	return &Answered{Result: result, Card: card}, nil
}

// Skip moves the current card to the end of the queue without rating
// it. If every remaining card has been skipped consecutively, the
// session completes instead of looping forever. No-op when complete.
func (s *Session) Skip(now time.Time) {
	if s == nil || s.complete {
		return
	}

	card := s.cards[s.currentIndex]
	s.cards = append(s.cards[:s.currentIndex], s.cards[s.currentIndex+1:]...)
	s.cards = append(s.cards, card)

	s.skipCount++
	s.cardStartedAt = now
	if s.skipCount >= len(s.cards)-s.currentIndex {
		s.complete = true
	}
}

// End forces the session to complete without altering recorded results.
func (s *Session) End() {
	if s == nil {
		return
	}
	s.complete = true
}

// IsComplete reports whether the session has finished.
func (s *Session) IsComplete() bool {
	return s == nil || s.complete
}

// Current returns a copy of the card up for review, or nil when the
// session is idle or complete.
func (s *Session) Current() *models.Card {
	if s == nil || s.complete {
		return nil
	}
	card := s.cards[s.currentIndex]
	return &card
}

// Progress reports the 1-indexed position, total queue size, and the
// percentage of cards answered so far.
func (s *Session) Progress() Progress {
	if s == nil || len(s.cards) == 0 {
		return Progress{}
	}
	total := len(s.cards)
	return Progress{
		Current: min(s.currentIndex+1, total),
		Total:   total,
		Percent: float64(len(s.results)) / float64(total) * 100,
	}
}

// SchedulingPreview returns the scheduler's per-rating outcomes for the
// current card, for interval previews on rating buttons. The card is
// not mutated. Nil when there is no current card.
func (s *Session) SchedulingPreview(now time.Time) (*fsrs.Preview, error) {
	card := s.Current()
	if card == nil {
		return nil, nil
	}
	preview, err := s.scheduler.Preview(card.Memory, now)
	if err != nil {
		return nil, err
	}
	return &preview, nil
}

// Results returns a copy of the recorded results.
func (s *Session) Results() []Result {
	if s == nil {
		return nil
	}
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

// Stats computes aggregate statistics over the recorded results. With
// no reviews yet, every field is zero.
func (s *Session) Stats() Stats {
	if s == nil || len(s.results) == 0 {
		return Stats{}
	}

	var stats Stats
	var totalMs int64
	for _, r := range s.results {
		totalMs += r.DurationMs
		switch r.Rating {
		case models.RatingAgain:
			stats.RatingCounts.Again++
		case models.RatingHard:
			stats.RatingCounts.Hard++
		case models.RatingGood:
			stats.RatingCounts.Good++
		case models.RatingEasy:
			stats.RatingCounts.Easy++
		}
	}

	n := len(s.results)
	stats.TotalCards = n
	stats.TotalDurationMs = totalMs
	stats.AvgDurationMs = totalMs / int64(n)

	successful := stats.RatingCounts.Good + stats.RatingCounts.Easy
	retention := float64(successful) / float64(n) * 100
	stats.Retention = int(retention + 0.5)
	return stats
}
