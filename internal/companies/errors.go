package companies

import "errors"

var (
	ErrNotFound      = errors.New("company not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)
