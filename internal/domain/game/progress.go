package game

// ProfileSummary is the profile without media references.
type ProfileSummary struct {
	Gender      string `json:"gender"`
	Nationality string `json:"nationality"`
	Age         int    `json:"age"`
}

// Progress is a lightweight projection of GameState suitable for syncing
// to a remote profile without any media references.
type Progress struct {
	CareerPath      CareerPath      `json:"careerPath,omitempty"`
	Profile         *ProfileSummary `json:"profile,omitempty"`
	Agency          *AgencyInfo     `json:"agency,omitempty"`
	StoryProgress   int             `json:"storyProgress"`
	SubmissionCount int             `json:"submissionCount"`
	HasExistingGame bool            `json:"hasExistingGame"`
}

// ExportProgress projects s into a Progress.
func ExportProgress(s GameState) Progress {
	p := Progress{
		CareerPath:      s.CareerPath,
		StoryProgress:   s.StoryProgress,
		SubmissionCount: len(s.Submissions),
		HasExistingGame: s.HasExistingGame(),
	}
	if s.Profile != nil {
		p.Profile = &ProfileSummary{
			Gender:      s.Profile.Gender,
			Nationality: s.Profile.Nationality,
			Age:         s.Profile.Age,
		}
	}
	if s.Agency != nil {
		a := *s.Agency
		p.Agency = &a
	}
	return p
}
