package lineup

import (
	"errors"
)

// Sentinel errors for lineup tracking.
var (
	ErrInvalidStarters  = errors.New("invalid period starters")
	ErrUnknownPeriod    = errors.New("no starters for period")
	ErrUnknownTeam      = errors.New("team not in period")
	ErrPlayerNotOnCourt = errors.New("player not on court")
	ErrDuplicatePlayer  = errors.New("player already on court")
)
