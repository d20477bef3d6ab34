package rapm

import (
	"errors"
)

// Sentinel errors for design construction and fitting.
var (
	ErrNoRows          = errors.New("no stint rows to fit")
	ErrZeroPossessions = errors.New("zero possessions in target")
	ErrRankDeficient   = errors.New("design matrix is rank deficient beyond regularization")
	ErrNonFinite       = errors.New("non-finite value in fit")
	ErrInvalidFolds    = errors.New("invalid fold count")
	ErrNoLambdas       = errors.New("no lambda candidates")
	ErrDuplicatePlayer = errors.New("player listed twice on one side")
)
