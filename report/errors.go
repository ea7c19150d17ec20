package report

import "errors"

// Sentinel errors for model decoding and validation.
var (
	ErrInvalidResultItem = errors.New("invalid result item")
	ErrInvalidModel      = errors.New("invalid report model")
	ErrUnknownIncludeKey = errors.New("unknown include key")
)
