package models

import "time"

// CardState is the learning phase of a card.
type CardState string

const (
	StateNew        CardState = "new"
	StateLearning   CardState = "learning"
	StateReview     CardState = "review"
	StateRelearning CardState = "relearning"
)

// IsValid reports whether s is one of the four known states.
func (s CardState) IsValid() bool {
	switch s {
	case StateNew, StateLearning, StateReview, StateRelearning:
		return true
	}
	return false
}

// Rating is the user's assessment of recall quality, ordered from
// complete failure (again) to effortless recall (easy).
type Rating string

const (
	RatingAgain Rating = "again"
	RatingHard  Rating = "hard"
	RatingGood  Rating = "good"
	RatingEasy  Rating = "easy"
)

// IsValid reports whether r is one of the four known ratings.
func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	}
	return false
}

// Memory is the scheduling state of a card: everything the algorithm
// needs to compute the next review. A never-reviewed card has zero
// stability and difficulty, zero reps, and a nil LastReview.
type Memory struct {
	Stability     float64    `json:"stability"`
	Difficulty    float64    `json:"difficulty"`
	ElapsedDays   int        `json:"elapsed_days"`
	ScheduledDays int        `json:"scheduled_days"`
	Reps          int        `json:"reps"`
	Lapses        int        `json:"lapses"`
	State         CardState  `json:"state"`
	LastReview    *time.Time `json:"last_review"`
	Due           time.Time  `json:"due"`
}

// Card is a flashcard generated from a highlight, carrying both its
// content and its scheduling state.
type Card struct {
	ID           string  `json:"id"`
	HighlightID  string  `json:"highlight_id"`
	CollectionID string  `json:"collection_id"`
	UserID       string  `json:"user_id"`
	QuestionType string  `json:"question_type"` // cloze, definition, conceptual
	Question     string  `json:"question"`
	Answer       string  `json:"answer"`
	ClozeText    *string `json:"cloze_text"`
	IsSuspended  bool    `json:"is_suspended"`

	Memory

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Review is the durable audit record of a single review event. The
// before-state snapshots preserve what the scheduler saw.
type Review struct {
	ID               string    `json:"id"`
	CardID           string    `json:"card_id"`
	UserID           string    `json:"user_id"`
	Rating           Rating    `json:"rating"`
	StabilityBefore  float64   `json:"stability_before"`
	DifficultyBefore float64   `json:"difficulty_before"`
	StateBefore      CardState `json:"state_before"`
	DurationMs       int64     `json:"duration_ms"`
	ReviewedAt       time.Time `json:"reviewed_at"`
}
