package pbp

import (
	"errors"
)

// Sentinel errors for event parsing.
var (
	ErrMalformedClock = errors.New("malformed game clock")
	ErrMalformedEvent = errors.New("malformed event")
)
