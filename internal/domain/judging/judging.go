// Package judging turns a self-reported performance into scripted judge feedback.
package judging

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/debut/internal/domain/game"
)

// Scoring bounds and spreads.
const (
	minOverall       = 40
	maxOverall       = 95
	minCategory      = 40
	maxCategory      = 100
	overallSpread    = 15 // base perturbation is uniform in [-7.5, +7.5]
	categorySpread   = 10 // category perturbation is uniform in [-5, +5]
	minTips          = 4
	tipCountVariants = 3 // 4, 5 or 6 tips
)

// Source is the randomness the engine consumes. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Scorer produces feedback for a performance.
type Scorer interface {
	Score(performanceType game.PerformanceType, difficulty game.Difficulty, selfRating int) game.JudgeFeedback
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSource sets the random source. Tests pass a scripted source to get
// exact outputs.
func WithSource(src Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.src = src
		}
	}
}

// WithSeed seeds a math/rand source. A zero seed is ignored.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.src = rand.New(rand.NewSource(seed)) //nolint:gosec // gameplay randomness, not security sensitive
		}
	}
}

// Engine implements Scorer.
type Engine struct {
	mu  sync.Mutex
	src Source
}

// NewEngine creates a scoring engine seeded from the clock unless an
// option overrides the source.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		src: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // gameplay randomness
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score computes overall and category scores, picks coaching tips and
// returns the fixed judge panel. Inputs are expected to be validated.
func (e *Engine) Score(performanceType game.PerformanceType, difficulty game.Difficulty, selfRating int) game.JudgeFeedback {
	e.mu.Lock()
	defer e.mu.Unlock()

	base := e.baseScore(difficulty, selfRating)

	// Categories are clamped and rounded independently of the overall score,
	// so overall and the category mean may disagree by one point.
	scores := game.CategoryScores{
		Technique:     e.category(base),
		Expression:    e.category(base),
		StagePresence: e.category(base),
		Creativity:    e.category(base),
	}

	return game.JudgeFeedback{
		OverallScore:   int(math.Round(base)),
		CategoryScores: scores,
		Tips:           e.pickTips(performanceType),
		JudgePersonas:  Judges(),
	}
}

func (e *Engine) baseScore(difficulty game.Difficulty, selfRating int) float64 {
	fromRating := float64(selfRating) / 10 * 100
	variation := (e.src.Float64() - 0.5) * overallSpread
	return clamp(fromRating*Multiplier(difficulty)+variation, minOverall, maxOverall)
}

func (e *Engine) category(base float64) int {
	variance := (e.src.Float64() - 0.5) * categorySpread
	return int(math.Round(clamp(base+variance, minCategory, maxCategory)))
}

func (e *Engine) pickTips(performanceType game.PerformanceType) []string {
	pool := TipsFor(performanceType)
	e.src.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	n := minTips + e.src.Intn(tipCountVariants)
	if n > len(pool) {
		n = len(pool)
	}
	return pool[:n]
}

// Multiplier returns the difficulty multiplier applied to the self-rating.
func Multiplier(difficulty game.Difficulty) float64 {
	switch difficulty {
	case game.DifficultyIntermediate:
		return 0.85
	case game.DifficultyAdvanced:
		return 1.0
	default:
		return 0.7
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
