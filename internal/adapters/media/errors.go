package media

import "errors"

// Sentinel kinds for media errors.
var (
	ErrInvalidKind = errors.New("invalid media kind")
	ErrDuplicateID = errors.New("media id already exists")
)
