package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/rapm/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.SeasonTypes, convey.ShouldResemble, []string{"Regular Season"})
				convey.So(cfg.FitConcurrency, convey.ShouldBeBetweenOrEqual, 1, 4)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("RAPM_WORKER_COUNT", "16")
			_ = os.Setenv("RAPM_CLOCK_MODE", "continuous")
			_ = os.Setenv("RAPM_LAMBDAS", "0.5, 1")
			_ = os.Setenv("RAPM_SEASON_TYPES", "Regular Season,Playoffs")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.ClockMode, convey.ShouldEqual, config.ClockContinuous)
				convey.So(cfg.Lambdas, convey.ShouldResemble, []float64{0.5, 1})
				convey.So(cfg.SeasonTypes, convey.ShouldResemble, []string{"Regular Season", "Playoffs"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
# comment
data_dir: "/tmp/nba"
folds: 3
lambdas: [0.2]
scoring_mode: luck_adjusted
rebound_window: 20
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RAPM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/tmp/nba")
				convey.So(cfg.Folds, convey.ShouldEqual, 3)
				convey.So(cfg.Lambdas, convey.ShouldResemble, []float64{0.2})
				convey.So(cfg.ScoringMode, convey.ShouldEqual, config.ScoringLuckAdjusted)
				convey.So(cfg.ReboundWindow, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile("folds: 3\nworker_count: 24\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RAPM_CONFIG", tmpFile)
			_ = os.Setenv("RAPM_WORKER_COUNT", "32")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Folds, convey.ShouldEqual, 3)        // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32) // Overridden by env
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RAPM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("RAPM_CONFIG", "/non/existent/rapm.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When values fail validation", func() {
			_ = os.Setenv("RAPM_SCORING_MODE", "vibes")
			_ = os.Setenv("RAPM_FOLDS", "1")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an invalid config error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the YAML file clears season_types", func() {
			tmpFile := createTempConfigFile("season_types: []\n")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("RAPM_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then every season type is kept", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.SeasonTypes, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When season_types is empty or holds a blank entry", func() {
			cfg := config.New()
			cfg.SeasonTypes = nil
			convey.So(config.Validate(cfg), convey.ShouldBeNil)

			cfg.SeasonTypes = []string{"Playoffs", ""}
			convey.So(errors.Is(config.Validate(cfg), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a lambda is not positive", func() {
			cfg := config.New()
			cfg.Lambdas = []float64{0.1, 0}

			convey.So(errors.Is(config.Validate(cfg), config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"RAPM_CONFIG",
		"RAPM_WORKER_COUNT",
		"RAPM_CLOCK_MODE",
		"RAPM_LAMBDAS",
		"RAPM_SEASON_TYPES",
		"RAPM_SCORING_MODE",
		"RAPM_FOLDS",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "rapm-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
