package service

import (
	"errors"
)

// Sentinel errors for pipeline runs.
var (
	ErrNothingProcessed = errors.New("no game could be processed")
	ErrInvalidWindow    = errors.New("season window length must be positive")
	ErrNotEnoughSeasons = errors.New("fewer seasons than the window length")
)

// Pipeline stages a game can fail in.
const (
	StageLoad      = "load"
	StageSegment   = "segment"
	StageAggregate = "aggregate"
	StageStore     = "store"
	StageTimeout   = "timeout"
)

// stageError tags a game failure with the stage that produced it.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.stage + ": " + e.err.Error() }

func (e *stageError) Unwrap() error { return e.err }

func inStage(stage string, err error) error {
	return &stageError{stage: stage, err: err}
}
