package game

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidProfile    = errors.New("invalid profile")
	ErrInvalidAgency     = errors.New("invalid agency")
	ErrInvalidSubmission = errors.New("invalid submission")
	ErrInvalidCareerPath = errors.New("invalid career path")
)
