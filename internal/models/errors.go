package models

import "errors"

var (
	ErrInvalidRating         = errors.New("rating must be between 1 and 5")
	ErrIncompleteReview      = errors.New("feedback and overall assessment are required")
	ErrIncompleteQuestion    = errors.New("title and description are required")
	ErrIncompleteStarterCode = errors.New("starter code must cover every supported language")
)
