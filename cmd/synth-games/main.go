package main

import (
	"context"
	"flag"
	"os"

	"github.com/okian/rapm/internal/adapters/table"
	"github.com/okian/rapm/internal/synth"
	"github.com/okian/rapm/pkg/logger"
)

// Default league shape.
const (
	defaultTeams      = 6
	defaultRosterSize = 8
	defaultRounds     = 2
	defaultSeed       = 1
)

func main() {
	var (
		outDir     = flag.String("out", "data", "Data directory to write the season under")
		teams      = flag.Int("teams", defaultTeams, "Number of teams in the league")
		roster     = flag.Int("roster", defaultRosterSize, "Players per team (5 disables substitutions)")
		rounds     = flag.Int("rounds", defaultRounds, "Times every pair of teams meets")
		seed       = flag.Uint64("seed", defaultSeed, "Seed of the simulation")
		season     = flag.String("season", "2018-19", "Season label stamped on every game")
		seasonType = flag.String("season-type", "Regular Season", "Season type stamped on every game")
		startDate  = flag.String("start", "2018-10-16", "Date of the first game day (YYYY-MM-DD)")
		expected   = flag.Bool("expected-points", false, "Write expected point values for luck-adjusted scoring")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}
	log := logger.Get().Named("synth")
	ctx := context.Background()

	gen := synth.New(
		synth.WithTeams(*teams),
		synth.WithRosterSize(*roster),
		synth.WithRounds(*rounds),
		synth.WithSeed(*seed),
		synth.WithSeason(*season, *seasonType),
		synth.WithStartDate(*startDate),
		synth.WithExpectedPoints(*expected),
	)
	games := gen.Season()

	possessions := 0
	for _, gm := range games {
		possessions += len(gm.Possessions)
		log.Debug(ctx, "game simulated",
			logger.String("game_id", gm.Ref.ID),
			logger.String("date", gm.Ref.Date),
			logger.Int("events", len(gm.Events)),
			logger.Int("possessions", len(gm.Possessions)),
		)
	}

	if err := synth.WriteSeason(table.NewDir(*outDir), games, gen.Roster()); err != nil {
		log.Error(ctx, "writing season failed", logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "season written",
		logger.String("dir", *outDir),
		logger.String("season", *season),
		logger.Int("games", len(games)),
		logger.Int("possessions", possessions),
	)
}
