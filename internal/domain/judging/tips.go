package judging

import (
	"slices"

	"github.com/okian/debut/internal/domain/game"
)

var judgePanel = []string{"Judge Luna", "Judge Phoenix", "Judge Blaze"}

var tipPools = map[game.PerformanceType][]string{
	game.PerformanceVocal: {
		"Focus on breath control - take deeper breaths before long phrases",
		"Work on pitch accuracy by practicing with a piano or tuner",
		"Add more emotion to your delivery - connect with the lyrics",
		"Practice vocal warm-ups daily to improve range and tone",
		"Try varying your dynamics - don't sing everything at the same volume",
		"Work on your diction - make sure every word is clear",
	},
	game.PerformanceDance: {
		"Sharpen your movements - make each gesture deliberate and precise",
		"Work on your flexibility with daily stretching routines",
		"Practice in front of a mirror to check your form",
		"Focus on hitting the beat exactly - rhythm is everything",
		"Add more energy to your performance - commit fully to each move",
		"Work on your facial expressions while dancing",
	},
	game.PerformanceRap: {
		"Work on your flow - practice staying on beat consistently",
		"Enunciate clearly - every word should be understood",
		"Add more variation in your delivery - change up your cadence",
		"Practice breath control for longer verses",
		"Work on your stage presence - own the space",
		"Study different rap styles to expand your versatility",
	},
	game.PerformanceMixed: {
		"Balance your skills - don't neglect any aspect of the performance",
		"Work on smooth transitions between singing, rapping, and dancing",
		"Practice stamina - mixed performances are physically demanding",
		"Develop a signature style that showcases all your talents",
		"Focus on storytelling - tie all elements together cohesively",
		"Don't try to do too much - quality over quantity",
	},
}

// TipsFor returns a fresh copy of the tip pool for a performance type.
// Unknown types get the mixed pool.
func TipsFor(performanceType game.PerformanceType) []string {
	pool, ok := tipPools[performanceType]
	if !ok {
		pool = tipPools[game.PerformanceMixed]
	}
	return slices.Clone(pool)
}

// Judges returns the fixed judge panel in order.
func Judges() []string {
	return slices.Clone(judgePanel)
}
