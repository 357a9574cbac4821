package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNotStarted         = errors.New("service not started")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrMediaNotFound      = errors.New("media not found")
	ErrUnknownAgency      = errors.New("unknown agency")
	ErrRemoteDisabled     = errors.New("remote profile service not configured")
	ErrInvalidAccount     = errors.New("invalid account")
)
