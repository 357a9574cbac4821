package judging_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/okian/debut/internal/domain/game"
	"github.com/okian/debut/internal/domain/judging"
	. "github.com/smartystreets/goconvey/convey"
)

// scriptedSource replays fixed values. Shuffle reverses when reverse is set
// and otherwise leaves the order untouched.
type scriptedSource struct {
	floats  []float64
	intn    int
	reverse bool
}

func (s *scriptedSource) Float64() float64 {
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedSource) Intn(n int) int {
	if s.intn >= n {
		return n - 1
	}
	return s.intn
}

func (s *scriptedSource) Shuffle(n int, swap func(i, j int)) {
	if !s.reverse {
		return
	}
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func TestEngine_ScoreScripted(t *testing.T) {
	Convey("Given an engine with a scripted source", t, func() {
		Convey("When scoring an advanced vocal rated 8 with no base perturbation", func() {
			src := &scriptedSource{floats: []float64{0.5, 0.0, 1.0, 0.5, 0.25}, intn: 1}
			engine := judging.NewEngine(judging.WithSource(src))
			fb := engine.Score(game.PerformanceVocal, game.DifficultyAdvanced, 8)

			Convey("Then the overall score should equal the rating-derived base", func() {
				So(fb.OverallScore, ShouldEqual, 80)
			})

			Convey("And each category should apply its own perturbation", func() {
				So(fb.CategoryScores, ShouldResemble, game.CategoryScores{
					Technique:     75,
					Expression:    85,
					StagePresence: 80,
					Creativity:    78,
				})
			})

			Convey("And the tip count should follow the sampled variant", func() {
				So(fb.Tips, ShouldHaveLength, 5)
				So(fb.Tips, ShouldResemble, judging.TipsFor(game.PerformanceVocal)[:5])
			})

			Convey("And the judge panel should be the fixed triple", func() {
				So(fb.JudgePersonas, ShouldResemble, []string{"Judge Luna", "Judge Phoenix", "Judge Blaze"})
			})
		})

		Convey("When scoring the lowest rating at beginner with the lowest perturbation", func() {
			src := &scriptedSource{floats: []float64{0, 0, 0, 0, 0}, intn: 0}
			fb := judging.NewEngine(judging.WithSource(src)).Score(game.PerformanceDance, game.DifficultyBeginner, 1)

			Convey("Then every score should clamp to the floor", func() {
				So(fb.OverallScore, ShouldEqual, 40)
				So(fb.CategoryScores, ShouldResemble, game.CategoryScores{
					Technique: 40, Expression: 40, StagePresence: 40, Creativity: 40,
				})
				So(fb.Tips, ShouldHaveLength, 4)
			})
		})

		Convey("When scoring the highest rating at advanced with the highest perturbation", func() {
			src := &scriptedSource{floats: []float64{1, 1, 1, 1, 1}, intn: 2}
			fb := judging.NewEngine(judging.WithSource(src)).Score(game.PerformanceRap, game.DifficultyAdvanced, 10)

			Convey("Then overall should clamp at 95 while categories may reach 100", func() {
				So(fb.OverallScore, ShouldEqual, 95)
				So(fb.CategoryScores.Technique, ShouldEqual, 100)
				So(fb.CategoryScores.Creativity, ShouldEqual, 100)
				So(fb.Tips, ShouldHaveLength, 6)
			})
		})

		Convey("When the source reverses the tip pool", func() {
			src := &scriptedSource{floats: []float64{0.5, 0.5, 0.5, 0.5, 0.5}, intn: 0, reverse: true}
			fb := judging.NewEngine(judging.WithSource(src)).Score(game.PerformanceMixed, game.DifficultyAdvanced, 6)
			pool := judging.TipsFor(game.PerformanceMixed)

			Convey("Then tips should be taken from the shuffled order", func() {
				So(fb.Tips, ShouldResemble, []string{pool[5], pool[4], pool[3], pool[2]})
			})

			Convey("And the shared pool should not be reordered", func() {
				So(judging.TipsFor(game.PerformanceMixed), ShouldResemble, pool)
			})
		})
	})
}

func TestEngine_ScoreProperties(t *testing.T) {
	Convey("Given a seeded engine", t, func() {
		engine := judging.NewEngine(judging.WithSource(rand.New(rand.NewSource(7))))
		types := []game.PerformanceType{game.PerformanceVocal, game.PerformanceDance, game.PerformanceRap, game.PerformanceMixed}
		tiers := []game.Difficulty{game.DifficultyBeginner, game.DifficultyIntermediate, game.DifficultyAdvanced}

		Convey("When scoring every valid input combination repeatedly", func() {
			overallOK, categoryOK, tipsOK := true, true, true
			for _, pt := range types {
				pool := judging.TipsFor(pt)
				for _, d := range tiers {
					for rating := game.MinSelfRating; rating <= game.MaxSelfRating; rating++ {
						for i := 0; i < 20; i++ {
							fb := engine.Score(pt, d, rating)
							if fb.OverallScore < 40 || fb.OverallScore > 95 {
								overallOK = false
							}
							for _, c := range []int{fb.CategoryScores.Technique, fb.CategoryScores.Expression, fb.CategoryScores.StagePresence, fb.CategoryScores.Creativity} {
								if c < 40 || c > 100 {
									categoryOK = false
								}
							}
							if len(fb.Tips) < 4 || len(fb.Tips) > 6 {
								tipsOK = false
							}
							seen := map[string]bool{}
							for _, tip := range fb.Tips {
								if seen[tip] || !slices.Contains(pool, tip) {
									tipsOK = false
								}
								seen[tip] = true
							}
						}
					}
				}
			}

			Convey("Then overall scores should stay in [40,95]", func() {
				So(overallOK, ShouldBeTrue)
			})

			Convey("And category scores should stay in [40,100]", func() {
				So(categoryOK, ShouldBeTrue)
			})

			Convey("And tips should be 4 to 6 distinct entries from the matching pool", func() {
				So(tipsOK, ShouldBeTrue)
			})
		})

		Convey("When scoring an advanced vocal rated 10 a thousand times", func() {
			sum := 0
			inRange := true
			for i := 0; i < 1000; i++ {
				fb := engine.Score(game.PerformanceVocal, game.DifficultyAdvanced, 10)
				if fb.OverallScore < 40 || fb.OverallScore > 95 {
					inRange = false
				}
				sum += fb.OverallScore
			}

			Convey("Then every result should be in range and the mean in the upper half", func() {
				So(inRange, ShouldBeTrue)
				So(float64(sum)/1000, ShouldBeGreaterThan, 67.5)
			})
		})
	})
}

func TestMultiplier(t *testing.T) {
	Convey("Given the difficulty tiers", t, func() {
		So(judging.Multiplier(game.DifficultyBeginner), ShouldEqual, 0.7)
		So(judging.Multiplier(game.DifficultyIntermediate), ShouldEqual, 0.85)
		So(judging.Multiplier(game.DifficultyAdvanced), ShouldEqual, 1.0)
	})
}

func TestTipPools(t *testing.T) {
	Convey("Given every performance type", t, func() {
		for _, pt := range []game.PerformanceType{game.PerformanceVocal, game.PerformanceDance, game.PerformanceRap, game.PerformanceMixed} {
			So(judging.TipsFor(pt), ShouldHaveLength, 6)
		}
	})
}
