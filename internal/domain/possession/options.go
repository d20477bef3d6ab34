package possession

import (
	"github.com/okian/rapm/internal/domain/pbp"
	"github.com/okian/rapm/internal/domain/scoring"
	"github.com/okian/rapm/pkg/logger"
)

// ClockMode selects how possession start times are derived.
type ClockMode string

const (
	// ClockEvent bounds a possession by its own first and last event times.
	ClockEvent ClockMode = "event"
	// ClockContinuous starts each possession where the previous one ended.
	ClockContinuous ClockMode = "continuous"
)

// Option applies a configuration option to the Segmenter.
type Option func(*Segmenter)

// WithWindows sets the lookup windows. Non-positive sizes keep the defaults.
func WithWindows(w pbp.Windows) Option {
	return func(s *Segmenter) {
		if w.Event > 0 {
			s.windows.Event = w.Event
		}
		if w.Rebound > 0 {
			s.windows.Rebound = w.Rebound
		}
		if w.Foul > 0 {
			s.windows.Foul = w.Foul
		}
		if w.And1Second >= 0 {
			s.windows.And1Second = w.And1Second
		}
	}
}

// WithScorer sets the point value policy.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Segmenter) {
		if sc != nil {
			s.scorer = sc
		}
	}
}

// WithClockMode sets the possession clock policy.
func WithClockMode(m ClockMode) Option {
	return func(s *Segmenter) {
		if m == ClockEvent || m == ClockContinuous {
			s.clock = m
		}
	}
}

// WithStrictAnomalies makes a possession in which both teams score fail the game.
func WithStrictAnomalies(strict bool) Option {
	return func(s *Segmenter) {
		s.strict = strict
	}
}

// WithLogger sets the logger used for soft warnings.
func WithLogger(l logger.Logger) Option {
	return func(s *Segmenter) {
		if l != nil {
			s.log = l
		}
	}
}
