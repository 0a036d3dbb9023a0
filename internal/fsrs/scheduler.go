// Package fsrs implements the forgetting-curve scheduling algorithm used
// for card reviews, along with the retrievability estimator and the
// urgency ordering built on the same curve.
package fsrs

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/hugompham/marginalia/internal/models"
)

// Learning step intervals for sub-day scheduling. Easy graduates a card
// straight to review, so it has no step here.
const (
	stepAgain      = time.Minute
	stepHard       = 5 * time.Minute
	stepGood       = 10 * time.Minute
	stepRelearning = 10 * time.Minute
)

// Config configures a Scheduler. Zero values produce the published
// defaults: FSRS v6 parameters, 90% desired retention, 100-year interval
// cap, fuzz enabled.
type Config struct {
	Parameters       [21]float64
	DesiredRetention float64
	MaximumInterval  int
	DisableFuzz      bool
	FuzzSeed         int64
}

// Scheduler computes review outcomes. It holds no mutable state, so a
// single instance is safe to share across sessions.
type Scheduler struct {
	curve            curve
	desiredRetention float64
	maximumInterval  int
	disableFuzz      bool
	fuzzSeed         int64
}

// New creates a Scheduler, filling zero-value config fields with
// defaults and rejecting out-of-range values.
func New(cfg Config) (*Scheduler, error) {
	params := cfg.Parameters
	if params == [21]float64{} {
		params = DefaultParameters
	}
	if err := ValidateParameters(params); err != nil {
		return nil, err
	}

	retention := cfg.DesiredRetention
	if retention == 0 {
		retention = 0.9
	}
	if retention < 0 || retention > 1 {
		return nil, fmt.Errorf("fsrs: desired retention %v out of range (0, 1]", retention)
	}

	maxDays := cfg.MaximumInterval
	if maxDays == 0 {
		maxDays = 36500
	}
	if maxDays < 0 {
		return nil, fmt.Errorf("fsrs: maximum interval %d must be positive", maxDays)
	}

	return &Scheduler{
		curve:            newCurve(params),
		desiredRetention: retention,
		maximumInterval:  maxDays,
		disableFuzz:      cfg.DisableFuzz,
		fuzzSeed:         cfg.FuzzSeed,
	}, nil
}

// NewMemory returns the scheduling state of a brand-new card: state new,
// zero stability and difficulty, due immediately.
func NewMemory(now time.Time) models.Memory {
	return models.Memory{State: models.StateNew, Due: now}
}

// Outcome is one branch of a scheduling decision.
type Outcome struct {
	Memory   models.Memory `json:"memory"`
	Interval string        `json:"interval"` // display form, e.g. "10m", "3d"
}

// Preview holds the outcome of every possible rating, for showing
// interval previews on rating buttons.
type Preview struct {
	Again Outcome `json:"again"`
	Hard  Outcome `json:"hard"`
	Good  Outcome `json:"good"`
	Easy  Outcome `json:"easy"`
}

// ApplyRating computes the updated memory state and due date for one
// review. The input is not mutated. Invalid ratings and corrupt memory
// states are precondition violations and return an error rather than
// being clamped.
func (s *Scheduler) ApplyRating(m models.Memory, r models.Rating, now time.Time) (models.Memory, error) {
	if !r.IsValid() {
		return models.Memory{}, fmt.Errorf("%w: %q", ErrInvalidRating, r)
	}
	if err := validateMemory(m); err != nil {
		return models.Memory{}, err
	}

	var elapsed float64
	if m.LastReview != nil {
		elapsed = now.Sub(*m.LastReview).Hours() / 24
		if elapsed < 0 {
			elapsed = 0
		}
	}

	next := m
	var interval time.Duration

	switch {
	case m.Reps == 0:
		next.Stability = s.curve.initStability(r)
		next.Difficulty = s.curve.initDifficulty(r, true)
		if r == models.RatingEasy {
			interval = s.graduate(&next, m, now)
		} else {
			next.State = models.StateLearning
			next.ScheduledDays = 0
			switch r {
			case models.RatingAgain:
				interval = stepAgain
			case models.RatingHard:
				interval = stepHard
			default:
				interval = stepGood
			}
		}

	case m.State == models.StateLearning || m.State == models.StateRelearning:
		s.updateMemory(&next, r, elapsed)
		switch r {
		case models.RatingAgain:
			next.ScheduledDays = 0
			if m.State == models.StateRelearning {
				interval = stepRelearning
			} else {
				interval = stepAgain
			}
		case models.RatingHard:
			next.ScheduledDays = 0
			interval = stepGood
		default:
			interval = s.graduate(&next, m, now)
		}

	default: // review
		s.updateMemory(&next, r, elapsed)
		if r == models.RatingAgain {
			next.Lapses = m.Lapses + 1
			next.State = models.StateRelearning
			next.ScheduledDays = 0
			interval = stepRelearning
		} else {
			interval = s.reviewInterval(&next, m, now)
		}
	}

	next.ElapsedDays = int(elapsed)
	next.Reps = m.Reps + 1
	reviewedAt := now
	next.LastReview = &reviewedAt
	next.Due = now.Add(interval)
	return next, nil
}

// Preview computes the outcome of every rating without committing any.
// Fuzz is seeded from the inputs, so each branch matches what
// ApplyRating would produce for the same state and time.
func (s *Scheduler) Preview(m models.Memory, now time.Time) (Preview, error) {
	var p Preview
	for _, r := range []models.Rating{models.RatingAgain, models.RatingHard, models.RatingGood, models.RatingEasy} {
		next, err := s.ApplyRating(m, r, now)
		if err != nil {
			return Preview{}, err
		}
		o := Outcome{Memory: next, Interval: FormatInterval(next.Due, now)}
		switch r {
		case models.RatingAgain:
			p.Again = o
		case models.RatingHard:
			p.Hard = o
		case models.RatingGood:
			p.Good = o
		case models.RatingEasy:
			p.Easy = o
		}
	}
	return p, nil
}

// Retrievability is the probability of successful recall right now.
// New cards and cards with no stability are defined as 1.0: there is no
// memory yet to decay.
func (s *Scheduler) Retrievability(m models.Memory, now time.Time) float64 {
	if m.State == models.StateNew || m.Stability == 0 || m.LastReview == nil {
		return 1
	}
	elapsed := now.Sub(*m.LastReview).Hours() / 24
	if elapsed < 0 {
		elapsed = 0
	}
	return s.curve.retrievability(elapsed, m.Stability)
}

// SortByUrgency returns a new slice ordered most-urgent first: due cards
// before not-yet-due cards, due cards by ascending retrievability,
// not-yet-due cards by due date. The sort is stable and the input is
// not mutated.
func (s *Scheduler) SortByUrgency(cards []models.Card, now time.Time) []models.Card {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		aDue := !a.Due.After(now)
		bDue := !b.Due.After(now)
		if aDue != bDue {
			return aDue
		}
		if aDue {
			return s.Retrievability(a.Memory, now) < s.Retrievability(b.Memory, now)
		}
		return a.Due.Before(b.Due)
	})
	return out
}

// FormatInterval renders the gap between now and due for display on
// rating buttons: "1m", "2h", "3d", "2w", "1mo".
func FormatInterval(due, now time.Time) string {
	diff := due.Sub(now)
	minutes := int(math.Round(diff.Minutes()))
	hours := int(math.Round(diff.Hours()))
	days := int(math.Round(diff.Hours() / 24))
	weeks := int(math.Round(float64(days) / 7))
	months := int(math.Round(float64(days) / 30))

	switch {
	case minutes < 60:
		return fmt.Sprintf("%dm", max(1, minutes))
	case hours < 24:
		return fmt.Sprintf("%dh", hours)
	case days < 7:
		return fmt.Sprintf("%dd", days)
	case weeks < 4:
		return fmt.Sprintf("%dw", weeks)
	default:
		return fmt.Sprintf("%dmo", months)
	}
}

// updateMemory recomputes stability and difficulty for a card that has
// been reviewed before. Same-day reviews use the short-term formula.
func (s *Scheduler) updateMemory(m *models.Memory, r models.Rating, elapsed float64) {
	stability := m.Stability
	if stability == 0 {
		stability = 0.001
	}
	if elapsed < 1 {
		m.Stability = s.curve.shortTermStability(stability, r)
	} else {
		retr := s.curve.retrievability(elapsed, stability)
		m.Stability = s.curve.nextStability(m.Difficulty, stability, retr, r)
	}
	m.Difficulty = s.curve.nextDifficulty(m.Difficulty, r)
}

// graduate promotes a card to the review state with a whole-day interval.
func (s *Scheduler) graduate(next *models.Memory, prev models.Memory, now time.Time) time.Duration {
	next.State = models.StateReview
	return s.reviewInterval(next, prev, now)
}

// reviewInterval derives the next whole-day interval from the updated
// stability, applying fuzz when enabled.
func (s *Scheduler) reviewInterval(next *models.Memory, prev models.Memory, now time.Time) time.Duration {
	days := s.curve.nextInterval(next.Stability, s.desiredRetention, s.maximumInterval)
	if !s.disableFuzz {
		rng := rand.New(rand.NewSource(s.seedFor(prev, now)))
		days = applyFuzz(days, s.maximumInterval, rng)
	}
	next.ScheduledDays = days
	return time.Duration(days) * 24 * time.Hour
}

// seedFor derives a deterministic fuzz seed from the review inputs, so
// repeated calls with identical state and time agree, and Preview
// matches ApplyRating.
func (s *Scheduler) seedFor(m models.Memory, now time.Time) int64 {
	seed := uint64(s.fuzzSeed) ^ uint64(now.UnixNano())
	seed ^= uint64(m.Reps+1) * 0x9e3779b97f4a7c15
	seed ^= math.Float64bits(m.Stability)
	return int64(seed)
}

func validateMemory(m models.Memory) error {
	if m.Stability < 0 {
		return fmt.Errorf("%w: negative stability %v", ErrInvalidMemory, m.Stability)
	}
	if m.Difficulty < 0 {
		return fmt.Errorf("%w: negative difficulty %v", ErrInvalidMemory, m.Difficulty)
	}
	if !m.State.IsValid() {
		return fmt.Errorf("%w: unknown state %q", ErrInvalidMemory, m.State)
	}
	return nil
}
