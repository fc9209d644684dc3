package domain

import "errors"

// Rating validation errors
var (
	ErrInvalidWatchStatus = errors.New("invalid watch status")
	ErrInvalidRating      = errors.New("rating must be between 0 and 10")
)
