package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rapm/internal/adapters/export"
	"github.com/okian/rapm/internal/adapters/repository"
	"github.com/okian/rapm/internal/adapters/table"
	service "github.com/okian/rapm/internal/app"
	"github.com/okian/rapm/internal/config"
	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/pbp"
	"github.com/okian/rapm/internal/domain/possession"
	"github.com/okian/rapm/internal/domain/rapm"
	"github.com/okian/rapm/internal/domain/scoring"
	"github.com/okian/rapm/pkg/logger"
)

// Default file names under the data directory.
const (
	scheduleFile = "schedule.csv"
	stintsFile   = "stints.csv"
	countsFile   = "counts.csv"
	compareFile  = "compare.csv"
	ratingsDir   = "ratings"
	reportsDir   = "reports"
)

var (
	errUsage          = errors.New("usage")
	errUnknownCommand = errors.New("unknown command")
	errMissingFlag    = errors.New("missing required flag")
)

// app runs one subcommand against a loaded config.
type app struct {
	cfg   *config.Config
	out   io.Writer
	log   logger.Logger
	runID string
	phase func(string)
	now   func() time.Time
}

func newApp(cfg *config.Config, out io.Writer, log logger.Logger) *app {
	return &app{
		cfg:   cfg,
		out:   out,
		log:   log,
		runID: uuid.NewString(),
		phase: func(string) {},
		now:   time.Now,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	a.phase(cmd)
	switch cmd {
	case "possessions":
		return a.possessions(ctx, rest)
	case "combine":
		return a.combine(ctx, rest)
	case "fit":
		return a.fit(ctx, rest)
	case "counts":
		return a.counts(ctx, rest)
	case "compare":
		return a.compare(ctx, rest)
	case "help", "-h", "-help", "--help":
		showHelp(a.out)
		return nil
	default:
		return fmt.Errorf("%w: %q: %w", errUnknownCommand, cmd, errUsage)
	}
}

// dir returns the table directory of the configured data root.
func (a *app) dir() *table.Dir {
	return table.NewDir(a.cfg.DataDir,
		table.WithEventsPattern(a.cfg.PbpPattern),
		table.WithStartersPattern(a.cfg.StartersPattern),
		table.WithPossessionsPattern(a.cfg.PossessionsPattern),
	)
}

// service assembles the pipeline from config.
func (a *app) service() (*service.Service, error) {
	scorer, err := scoring.New(a.cfg.ScoringMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	seg := possession.New(
		possession.WithWindows(pbp.Windows{
			Event:      a.cfg.EventWindow,
			Rebound:    a.cfg.ReboundWindow,
			Foul:       a.cfg.FoulWindow,
			And1Second: a.cfg.And1TimeWindowSec,
		}),
		possession.WithScorer(scorer),
		possession.WithClockMode(possession.ClockMode(a.cfg.ClockMode)),
		possession.WithStrictAnomalies(a.cfg.StrictAnomalies),
		possession.WithLogger(a.log.Named("segmenter")),
	)
	ridge := rapm.NewRidge(
		rapm.WithLambdas(a.cfg.Lambdas),
		rapm.WithFolds(a.cfg.Folds),
		rapm.WithMaxCondition(a.cfg.MaxCondition),
		rapm.WithRidgeLogger(a.log.Named("ridge")),
	)

	opts := []service.Option{
		service.WithLogger(a.log),
		service.WithRunID(a.runID),
		service.WithDir(a.dir()),
		service.WithSegmenter(seg),
		service.WithRidge(ridge),
		service.WithWorkerCount(a.cfg.WorkerCount),
		service.WithQueueSize(a.cfg.QueueSize),
		service.WithGameTimeout(time.Duration(a.cfg.GameTimeoutMS) * time.Millisecond),
		service.WithFitConcurrency(a.cfg.FitConcurrency),
		service.WithSeasonTypes(a.cfg.SeasonTypes...),
	}
	if a.cfg.StorePath != "" {
		store, err := repository.OpenBadger(a.cfg.StorePath, repository.WithLogger(a.log.Named("badger")))
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithStore(store))
	}
	return service.New(opts...), nil
}

// scheduleFlags are shared by the commands that read a schedule.
type scheduleFlags struct {
	path       *string
	season     *string
	seasonType *string
}

func addScheduleFlags(fs *flag.FlagSet) scheduleFlags {
	return scheduleFlags{
		path:       fs.String("schedule", "", "schedule CSV (default <data_dir>/"+scheduleFile+")"),
		season:     fs.String("season", "", "season for schedules without a SEASON column"),
		seasonType: fs.String("season-type", "Regular Season", "season type for schedules without a SEASON_TYPE column"),
	}
}

func (a *app) readSchedule(f scheduleFlags) ([]model.GameRef, error) {
	path := *f.path
	if path == "" {
		path = a.dir().Path(scheduleFile)
	}
	var games []model.GameRef
	err := table.ReadFile(path, func(r io.Reader) error {
		var err error
		games, err = table.ReadSchedule(r, *f.season, *f.seasonType)
		return err
	})
	return games, err
}

func (a *app) readStints(path string) ([]model.Stint, error) {
	if path == "" {
		path = a.dir().Path(stintsFile)
	}
	var stints []model.Stint
	err := table.ReadFile(path, func(r io.Reader) error {
		var err error
		stints, err = table.ReadStints(r)
		return err
	})
	return stints, err
}

func readRatings(path string) (rapm.Table, error) {
	var t rapm.Table
	err := table.ReadFile(path, func(r io.Reader) error {
		var err error
		t, err = table.ReadRatings(r)
		return err
	})
	return t, err
}

func readRoster(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	var roster map[string]string
	err := table.ReadFile(path, func(r io.Reader) error {
		var err error
		roster, err = table.ReadRoster(r)
		return err
	})
	return roster, err
}

func (a *app) writeReport(ctx context.Context, path string, r export.Report) error {
	if path == "" {
		path = a.dir().Path(filepath.Join(reportsDir, a.runID+".json"))
	}
	r.RunID = a.runID
	r.FinishedAt = a.now().UTC()
	if err := table.WriteFile(path, func(w io.Writer) error { return export.WriteReport(w, r) }); err != nil {
		return err
	}
	a.log.Info(ctx, "report written", logger.String("path", path))
	return nil
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errUsage
		}
		return fmt.Errorf("%s: %w: %w", fs.Name(), err, errUsage)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%s: unexpected argument %q: %w", fs.Name(), fs.Arg(0), errUsage)
	}
	return nil
}

func closeService(ctx context.Context, svc *service.Service, log logger.Logger) {
	if err := svc.Close(); err != nil {
		log.Warn(ctx, "closing service", logger.Error(err))
	}
}
