package game

import (
	"slices"
	"time"
)

// NewState returns a fresh record stamped with the current schema version.
func NewState(now time.Time) GameState {
	return GameState{
		Version:       SchemaVersion,
		StoryProgress: 0,
		Submissions:   []SubmissionMetadata{},
		LastPlayed:    now.UnixMilli(),
	}
}

// Clone returns a deep copy of s. Transitions never share nested records
// with their input.
func (s GameState) Clone() GameState {
	out := s
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	if s.Agency != nil {
		a := *s.Agency
		out.Agency = &a
	}
	out.Submissions = make([]SubmissionMetadata, len(s.Submissions))
	for i, sub := range s.Submissions {
		out.Submissions[i] = sub.clone()
	}
	return out
}

func (m SubmissionMetadata) clone() SubmissionMetadata {
	if m.Feedback != nil {
		fb := m.Feedback.Clone()
		m.Feedback = &fb
	}
	return m
}

// Clone returns a deep copy of f.
func (f JudgeFeedback) Clone() JudgeFeedback {
	f.Tips = slices.Clone(f.Tips)
	f.JudgePersonas = slices.Clone(f.JudgePersonas)
	return f
}

// StartCareer discards all progress and begins a new career on path.
func StartCareer(path CareerPath, now time.Time) GameState {
	s := NewState(now)
	s.CareerPath = path
	return s
}

// WithProfile returns a copy of s carrying profile.
func (s GameState) WithProfile(profile PlayerProfile) GameState {
	out := s.Clone()
	out.Profile = &profile
	return out
}

// WithAgency returns a copy of s carrying agency.
func (s GameState) WithAgency(agency AgencyInfo) GameState {
	out := s.Clone()
	out.Agency = &agency
	return out
}

// AddSubmission returns a copy of s with sub appended and story progress
// advanced by one.
func (s GameState) AddSubmission(sub SubmissionMetadata) GameState {
	out := s.Clone()
	out.Submissions = append(out.Submissions, sub.clone())
	out.StoryProgress++
	return out
}

// AttachFeedback returns a copy of s with fb attached to the submission
// with the given id. An unknown id leaves the submissions unchanged.
func (s GameState) AttachFeedback(id string, fb JudgeFeedback) GameState {
	out := s.Clone()
	for i := range out.Submissions {
		if out.Submissions[i].ID == id {
			c := fb.Clone()
			out.Submissions[i].Feedback = &c
			break
		}
	}
	return out
}

// FindSubmission returns the submission with the given id.
func (s GameState) FindSubmission(id string) (SubmissionMetadata, bool) {
	for _, sub := range s.Submissions {
		if sub.ID == id {
			return sub.clone(), true
		}
	}
	return SubmissionMetadata{}, false
}

// HasSubmission reports whether a submission with the given id exists.
func (s GameState) HasSubmission(id string) bool {
	_, ok := s.FindSubmission(id)
	return ok
}
