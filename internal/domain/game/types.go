// Package game contains the game-state model and its snapshot transitions.
package game

// SchemaVersion tags persisted GameState records. Records carrying any
// other version are discarded on load.
const SchemaVersion = 1

// Profile age bounds, inclusive.
const (
	MinAge = 13
	MaxAge = 99
)

// Self-rating bounds, inclusive.
const (
	MinSelfRating = 1
	MaxSelfRating = 10
)

// CareerPath is the player's chosen game mode.
type CareerPath string

const (
	CareerSoloist  CareerPath = "soloist"
	CareerSurvival CareerPath = "survival"
)

// Valid reports whether p is one of the known career paths.
func (p CareerPath) Valid() bool {
	return p == CareerSoloist || p == CareerSurvival
}

// PerformanceType classifies a submission.
type PerformanceType string

const (
	PerformanceVocal PerformanceType = "vocal"
	PerformanceDance PerformanceType = "dance"
	PerformanceRap   PerformanceType = "rap"
	PerformanceMixed PerformanceType = "mixed"
)

// Valid reports whether t is one of the known performance types.
func (t PerformanceType) Valid() bool {
	switch t {
	case PerformanceVocal, PerformanceDance, PerformanceRap, PerformanceMixed:
		return true
	}
	return false
}

// Difficulty is the tier a performance was attempted at.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is one of the known difficulty tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// PlayerProfile describes the player's character.
type PlayerProfile struct {
	Gender               string `json:"gender"`
	Nationality          string `json:"nationality"`
	Age                  int    `json:"age"`
	PhotoMediaID         string `json:"photoMediaId,omitempty"`
	AuditionAudioMediaID string `json:"auditionAudioMediaId,omitempty"`
}

// AgencyInfo is the agency the player signed with.
type AgencyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsCustom    bool   `json:"isCustom"`
}

// CategoryScores holds the four judged categories.
type CategoryScores struct {
	Technique     int `json:"technique"`
	Expression    int `json:"expression"`
	StagePresence int `json:"stage_presence"`
	Creativity    int `json:"creativity"`
}

// JudgeFeedback is the scored result attached to a submission.
type JudgeFeedback struct {
	OverallScore   int            `json:"overallScore"`
	CategoryScores CategoryScores `json:"categoryScores"`
	Tips           []string       `json:"tips"`
	JudgePersonas  []string       `json:"judgePersonas"`
}

// SubmissionMetadata is one recorded performance and its feedback.
// Timestamp is Unix milliseconds.
type SubmissionMetadata struct {
	ID              string          `json:"id"`
	Timestamp       int64           `json:"timestamp"`
	PerformanceType PerformanceType `json:"performanceType"`
	Difficulty      Difficulty      `json:"difficulty"`
	SelfRating      int             `json:"selfRating"`
	VideoMediaID    string          `json:"videoMediaId"`
	AudioMediaID    string          `json:"audioMediaId,omitempty"`
	PhotoMediaID    string          `json:"photoMediaId,omitempty"`
	Feedback        *JudgeFeedback  `json:"feedback,omitempty"`
}

// GameState is the single persisted record. LastPlayed is Unix milliseconds.
type GameState struct {
	Version       int                  `json:"version"`
	CareerPath    CareerPath           `json:"careerPath,omitempty"`
	Profile       *PlayerProfile       `json:"profile,omitempty"`
	Agency        *AgencyInfo          `json:"agency,omitempty"`
	StoryProgress int                  `json:"storyProgress"`
	Submissions   []SubmissionMetadata `json:"submissions"`
	LastPlayed    int64                `json:"lastPlayed"`
}

// HasExistingGame reports whether a career has been started.
func (s GameState) HasExistingGame() bool {
	return s.CareerPath != ""
}
