package flow

import "errors"

// Validation errors signaled synchronously to callers before any state
// changes. Malformed content never raises: it degrades to end-of-flow or
// condition-false instead.
var (
	ErrUnknownQuestion = errors.New("unknown question id")
	ErrUnknownPage     = errors.New("unknown page id")
	ErrValueShape      = errors.New("answer value does not match question type")
)
