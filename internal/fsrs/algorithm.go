package fsrs

import (
	"math"

	"github.com/hugompham/marginalia/internal/models"
)

// grade maps a rating to its numeric grade (again=1 .. easy=4) used by
// the FSRS formulas.
func grade(r models.Rating) float64 {
	switch r {
	case models.RatingAgain:
		return 1
	case models.RatingHard:
		return 2
	case models.RatingGood:
		return 3
	default:
		return 4
	}
}

// curve holds the precomputed forgetting-curve constants derived from
// the weights. Both the scheduler and the retrievability estimator go
// through it, so the two always share the same math.
type curve struct {
	w      [21]float64
	decay  float64 // -w[20]
	factor float64 // 0.9^(1/decay) - 1
}

func newCurve(w [21]float64) curve {
	decay := -w[20]
	return curve{w: w, decay: decay, factor: math.Pow(0.9, 1.0/decay) - 1.0}
}

// retrievability computes R(t, S) = (1 + FACTOR * t / S) ^ DECAY.
func (c *curve) retrievability(elapsedDays, stability float64) float64 {
	return math.Pow(1+c.factor*elapsedDays/stability, c.decay)
}

// initStability returns the initial stability for a first review.
func (c *curve) initStability(r models.Rating) float64 {
	return clampStability(c.w[int(grade(r))-1])
}

// initDifficulty returns the initial difficulty for a first review:
// D0(G) = w[4] - e^(w[5]*(G-1)) + 1.
func (c *curve) initDifficulty(r models.Rating, clamp bool) float64 {
	d := c.w[4] - math.Exp(c.w[5]*(grade(r)-1)) + 1
	if clamp {
		return clampDifficulty(d)
	}
	return d
}

// nextInterval derives the whole-day review interval from stability and
// the desired retention, clamped to [1, maxDays].
func (c *curve) nextInterval(stability, desiredRetention float64, maxDays int) int {
	ivl := stability / c.factor * (math.Pow(desiredRetention, 1.0/c.decay) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	if days > maxDays {
		days = maxDays
	}
	return days
}

// shortTermStability handles same-day reviews, where the full curve has
// not had time to act.
func (c *curve) shortTermStability(stability float64, r models.Rating) float64 {
	inc := math.Exp(c.w[17]*(grade(r)-3+c.w[18])) * math.Pow(stability, -c.w[19])
	if r == models.RatingGood || r == models.RatingEasy {
		inc = math.Max(inc, 1.0)
	}
	return clampStability(stability * inc)
}

// nextDifficulty applies the linearly damped delta followed by mean
// reversion toward D0(easy), clamped to [1, 10].
func (c *curve) nextDifficulty(difficulty float64, r models.Rating) float64 {
	deltaD := -c.w[6] * (grade(r) - 3)
	dPrime := difficulty + (10-difficulty)*deltaD/9
	d0Easy := c.initDifficulty(models.RatingEasy, false)
	return clampDifficulty(c.w[7]*d0Easy + (1-c.w[7])*dPrime)
}

// nextStability dispatches on recall success.
func (c *curve) nextStability(d, s, r float64, rating models.Rating) float64 {
	if rating == models.RatingAgain {
		return c.nextForgetStability(d, s, r)
	}
	return c.nextRecallStability(d, s, r, rating)
}

// nextRecallStability grows stability after a successful recall, with a
// penalty for hard and a bonus for easy.
func (c *curve) nextRecallStability(d, s, r float64, rating models.Rating) float64 {
	hardPenalty := 1.0
	if rating == models.RatingHard {
		hardPenalty = c.w[15]
	}
	easyBonus := 1.0
	if rating == models.RatingEasy {
		easyBonus = c.w[16]
	}
	return clampStability(s * (1 + math.Exp(c.w[8])*
		(11-d)*
		math.Pow(s, -c.w[9])*
		(math.Exp((1-r)*c.w[10])-1)*
		hardPenalty*easyBonus))
}

// nextForgetStability shrinks stability after a lapse.
func (c *curve) nextForgetStability(d, s, r float64) float64 {
	long := c.w[11] *
		math.Pow(d, -c.w[12]) *
		(math.Pow(s+1, c.w[13]) - 1) *
		math.Exp((1-r)*c.w[14])
	short := s / math.Exp(c.w[17]*c.w[18])
	return clampStability(math.Min(long, short))
}

func clampStability(s float64) float64 {
	return math.Max(s, 0.001)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, 1), 10)
}
