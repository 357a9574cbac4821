package game

import (
	"fmt"
	"strings"
)

// Validate checks the profile fields captured at character creation.
func (p PlayerProfile) Validate() error {
	switch {
	case strings.TrimSpace(p.Gender) == "":
		return fmt.Errorf("%w: missing gender", ErrInvalidProfile)
	case strings.TrimSpace(p.Nationality) == "":
		return fmt.Errorf("%w: missing nationality", ErrInvalidProfile)
	case p.Age < MinAge || p.Age > MaxAge:
		return fmt.Errorf("%w: age %d outside [%d,%d]", ErrInvalidProfile, p.Age, MinAge, MaxAge)
	}
	return nil
}

// Validate checks that an agency has a name.
func (a AgencyInfo) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidAgency)
	}
	return nil
}

// Validate checks the fields a player supplies when submitting a
// performance. The id and timestamp are assigned by the caller.
func (m SubmissionMetadata) Validate() error {
	switch {
	case !m.PerformanceType.Valid():
		return fmt.Errorf("%w: unknown performance type %q", ErrInvalidSubmission, m.PerformanceType)
	case !m.Difficulty.Valid():
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSubmission, m.Difficulty)
	case m.SelfRating < MinSelfRating || m.SelfRating > MaxSelfRating:
		return fmt.Errorf("%w: self rating %d outside [%d,%d]", ErrInvalidSubmission, m.SelfRating, MinSelfRating, MaxSelfRating)
	case strings.TrimSpace(m.VideoMediaID) == "":
		return fmt.Errorf("%w: missing video media id", ErrInvalidSubmission)
	}
	return nil
}
