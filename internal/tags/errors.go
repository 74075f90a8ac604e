package tags

import "errors"

var (
	// ErrInvalidTags indicates a tags value that is neither a list nor a single string.
	ErrInvalidTags = errors.New("tags must be a list or a single string")

	// ErrInvalidYear indicates a year value that is not a whole number.
	ErrInvalidYear = errors.New("year must be a whole number")
)
