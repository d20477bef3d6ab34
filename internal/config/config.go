// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over those defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"runtime"
)

// Mode values accepted by ScoringMode and ClockMode.
const (
	ScoringStandard      = "standard"
	ScoringLuckAdjusted  = "luck_adjusted"
	ClockEvent           = "event"
	ClockContinuous      = "continuous"
	defaultRegularSeason = "Regular Season"

	// maxDefaultFitConcurrency caps the default number of parallel fits.
	// Each fit holds dense 2N by 2N normal equations for N players.
	maxDefaultFitConcurrency = 4
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// MetricsAddr serves /healthz, /status and /metrics when non-empty, e.g. ":9090".
	MetricsAddr string `koanf:"metrics_addr"`

	// WorkerCount sets the number of game workers.
	WorkerCount int `koanf:"worker_count" validate:"gte=1"`

	// QueueSize bounds the in-memory game job queue.
	QueueSize int `koanf:"queue_size" validate:"gte=1"`

	// GameTimeoutMS caps the processing time of a single game. Zero disables it.
	GameTimeoutMS int `koanf:"game_timeout_ms" validate:"gte=0"`

	// DataDir is the root of every input and output table.
	DataDir string `koanf:"data_dir" validate:"required"`

	// PbpPattern, StartersPattern and PossessionsPattern are file names
	// relative to DataDir formatted with the game id.
	PbpPattern         string `koanf:"pbp_pattern" validate:"required"`
	StartersPattern    string `koanf:"starters_pattern" validate:"required"`
	PossessionsPattern string `koanf:"possessions_pattern" validate:"required"`

	// StorePath selects the badger possession store. Empty keeps possessions in memory.
	StorePath string `koanf:"store_path"`

	// Window sizes for the segmenter lookups.
	EventWindow       int `koanf:"event_window" validate:"gte=1"`
	ReboundWindow     int `koanf:"rebound_window" validate:"gte=1"`
	FoulWindow        int `koanf:"foul_window" validate:"gte=1"`
	And1TimeWindowSec int `koanf:"and1_time_window_sec" validate:"gte=0"`

	// ScoringMode picks the point policy: standard or luck_adjusted.
	ScoringMode string `koanf:"scoring_mode" validate:"oneof=standard luck_adjusted"`

	// ClockMode picks possession start/end times: event or continuous.
	ClockMode string `koanf:"clock_mode" validate:"oneof=event continuous"`

	// StrictAnomalies fails a game when both teams score in one possession.
	StrictAnomalies bool `koanf:"strict_anomalies"`

	// Lambdas are the ridge candidates searched by cross-validation.
	Lambdas []float64 `koanf:"lambdas" validate:"min=1,dive,gt=0"`

	// Folds is the k of k-fold cross-validation.
	Folds int `koanf:"folds" validate:"gte=2"`

	// MaxCondition bounds the condition number of the regularized system.
	MaxCondition float64 `koanf:"max_condition" validate:"gt=1"`

	// SeasonWindow is the number of consecutive seasons per windowed fit.
	SeasonWindow int `koanf:"season_window" validate:"gte=1"`

	// FitConcurrency bounds parallel season-window fits.
	FitConcurrency int `koanf:"fit_concurrency" validate:"gte=1"`

	// SeasonTypes filters stints before fitting, e.g. "Regular Season".
	// An empty list keeps every season type.
	SeasonTypes []string `koanf:"season_types" validate:"dive,required"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		WorkerCount:        runtime.NumCPU(),
		QueueSize:          1024,
		GameTimeoutMS:      30_000,
		DataDir:            "data",
		PbpPattern:         "pbp/%s.csv",
		StartersPattern:    "starters/%s.csv",
		PossessionsPattern: "possessions/%s.csv",
		EventWindow:        20,
		ReboundWindow:      10,
		FoulWindow:         20,
		And1TimeWindowSec:  10,
		ScoringMode:        ScoringStandard,
		ClockMode:          ClockEvent,
		Lambdas:            []float64{0.01, 0.05, 0.1},
		Folds:              5,
		MaxCondition:       1e12,
		SeasonWindow:       1,
		FitConcurrency:     min(runtime.NumCPU(), maxDefaultFitConcurrency),
		SeasonTypes:        []string{defaultRegularSeason},
	}
}
