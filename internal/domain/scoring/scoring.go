// Package scoring defines the point value policies applied to shots and free throws.
package scoring

import (
	"fmt"

	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/pbp"
)

// Mode names accepted by New.
const (
	ModeStandard     = "standard"
	ModeLuckAdjusted = "luck_adjusted"
)

// Point values of made baskets.
const (
	freeThrowPoints = 1
	twoPoints       = 2
	threePoints     = 3
)

// Scorer values a single event. Callers only pass shots and free throws.
type Scorer interface {
	// Points returns the points the event is worth to the shooter's team.
	Points(e model.Event) float64
	// Name identifies the policy in logs and reports.
	Name() string
}

// Standard values made free throws at 1, made threes at 3 and other made
// shots at 2. Misses are worth nothing.
type Standard struct{}

// Points implements Scorer.
func (Standard) Points(e model.Event) float64 {
	switch pbp.TypeOf(e) {
	case pbp.FreeThrow:
		if !pbp.IsMiss(e) {
			return freeThrowPoints
		}
	case pbp.MadeShot:
		if pbp.IsThree(e) {
			return threePoints
		}
		return twoPoints
	}
	return 0
}

// Name implements Scorer.
func (Standard) Name() string { return ModeStandard }

// Option applies a configuration option to the Override scorer.
type Option func(*Override)

// WithFallback sets the scorer used for events without a points value.
func WithFallback(s Scorer) Option {
	return func(o *Override) {
		if s != nil {
			o.fallback = s
		}
	}
}

// Override reads the externally supplied points value of every attempt, made
// or missed, so that expected points can replace actual points.
type Override struct {
	fallback Scorer
}

// NewOverride creates an override scorer. Events without a points value fall
// back to the standard policy unless another fallback is supplied.
func NewOverride(opts ...Option) *Override {
	o := &Override{fallback: Standard{}}

	// Apply all options
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Points implements Scorer.
func (o *Override) Points(e model.Event) float64 {
	if e.HasPoints {
		return e.Points
	}
	return o.fallback.Points(e)
}

// Name implements Scorer.
func (o *Override) Name() string { return ModeLuckAdjusted }

// New returns the scorer for a mode name.
func New(mode string) (Scorer, error) {
	switch mode {
	case "", ModeStandard:
		return Standard{}, nil
	case ModeLuckAdjusted:
		return NewOverride(), nil
	default:
		return nil, fmt.Errorf("unknown scoring mode %q", mode)
	}
}
