package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"github.com/okian/rapm/internal/adapters/export"
	"github.com/okian/rapm/internal/adapters/table"
	service "github.com/okian/rapm/internal/app"
	"github.com/okian/rapm/internal/domain/rapm"
	"github.com/okian/rapm/pkg/logger"
)

// possessions segments every scheduled game and writes the failure log and run report.
func (a *app) possessions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("possessions", flag.ContinueOnError)
	fs.SetOutput(a.out)
	sched := addScheduleFlags(fs)
	report := fs.String("report", "", "run report JSON (default <data_dir>/reports/<run_id>.json)")
	failures := fs.String("failures", "", "failure log JSON (default <data_dir>/failures.json)")
	if err := parse(fs, args); err != nil {
		return err
	}

	started := a.now().UTC()
	games, err := a.readSchedule(sched)
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	defer closeService(ctx, svc, a.log)

	a.phase("segment")
	sum, buildErr := svc.BuildPossessions(ctx, games)
	a.phase("report")

	if *failures == "" {
		*failures = a.dir().Path("failures.json")
	}
	if err := table.WriteFile(*failures, func(w io.Writer) error { return export.WriteFailures(w, sum.Failures) }); err != nil {
		return err
	}
	if err := a.writeReport(ctx, *report, export.Report{
		Command:    "possessions",
		StartedAt:  started,
		Games:      sum.Games,
		Processed:  sum.Processed,
		Duplicates: sum.Duplicates,
		Failures:   sum.Failures.Entries(),
	}); err != nil {
		return err
	}
	if buildErr != nil {
		return buildErr
	}
	fmt.Fprintf(a.out, "processed %d of %d games, %d possessions, %d failed\n",
		sum.Processed, sum.Games, sum.Possessions, sum.Failures.Len())
	return nil
}

// combine concatenates the possessions of the scheduled games into one stint table.
func (a *app) combine(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("combine", flag.ContinueOnError)
	fs.SetOutput(a.out)
	sched := addScheduleFlags(fs)
	out := fs.String("out", "", "stint CSV (default <data_dir>/"+stintsFile+")")
	if err := parse(fs, args); err != nil {
		return err
	}

	games, err := a.readSchedule(sched)
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	defer closeService(ctx, svc, a.log)

	a.phase("combine")
	c, err := svc.CombineSeason(ctx, games)
	if err != nil {
		return err
	}
	if *out == "" {
		*out = a.dir().Path(stintsFile)
	}
	if err := table.WriteFile(*out, func(w io.Writer) error { return table.WriteStints(w, c.Stints) }); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "combined %d games into %d stints, %d missing\n", c.Games, len(c.Stints), len(c.Missing))
	return nil
}

// fit estimates ratings over a stint table, per season window or over one range.
func (a *app) fit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("fit", flag.ContinueOnError)
	fs.SetOutput(a.out)
	stints := fs.String("stints", "", "stint CSV (default <data_dir>/"+stintsFile+")")
	roster := fs.String("roster", "", "PLAYER_ID,PLAYER_NAME CSV; players missing from it are dropped")
	window := fs.Int("window", a.cfg.SeasonWindow, "consecutive seasons per fit")
	fromSeason := fs.String("from-season", "", "first season of a single range fit")
	toSeason := fs.String("to-season", "", "last season of a single range fit")
	fromDate := fs.String("from-date", "", "first date (YYYY-MM-DD) of a single range fit")
	toDate := fs.String("to-date", "", "last date (YYYY-MM-DD) of a single range fit")
	outDir := fs.String("out", "", "rating CSV directory (default <data_dir>/"+ratingsDir+")")
	workbook := fs.String("xlsx", "", "also write every fit to this workbook")
	ranks := fs.Bool("ranks", true, "write rank columns")
	intercept := fs.Bool("intercept", false, "write the intercept column")
	report := fs.String("report", "", "run report JSON (default <data_dir>/reports/<run_id>.json)")
	if err := parse(fs, args); err != nil {
		return err
	}
	if (*fromSeason != "" || *toSeason != "") && (*fromDate != "" || *toDate != "") {
		return fmt.Errorf("fit: season and date ranges are exclusive: %w", errUsage)
	}

	started := a.now().UTC()
	rows, err := a.readStints(*stints)
	if err != nil {
		return err
	}
	names, err := readRoster(*roster)
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	defer closeService(ctx, svc, a.log)

	a.phase("fit")
	var fits []service.FitResult
	switch {
	case *fromSeason != "" || *toSeason != "":
		fits = []service.FitResult{svc.FitSeasonRange(ctx, rows, *fromSeason, *toSeason)}
	case *fromDate != "" || *toDate != "":
		fits = []service.FitResult{svc.FitDateRange(ctx, rows, *fromDate, *toDate)}
	default:
		if fits, err = svc.FitSeasonWindows(ctx, rows, *window); err != nil {
			return err
		}
	}

	a.phase("write")
	if *outDir == "" {
		*outDir = a.dir().Path(ratingsDir)
	}
	opts := table.RatingOptions{Ranks: *ranks, Intercept: *intercept}
	summaries := make([]export.FitSummary, 0, len(fits))
	var sheets []export.Sheet
	for _, f := range fits {
		summaries = append(summaries, summarize(f))
		if f.Err != nil {
			continue
		}
		t := f.Table
		if names != nil {
			t = t.WithNames(names)
		}
		path := filepath.Join(*outDir, export.SheetName(f.Label)+".csv")
		if err := table.WriteFile(path, func(w io.Writer) error { return table.WriteRatings(w, t, opts) }); err != nil {
			return err
		}
		sheets = append(sheets, export.Sheet{Name: f.Label, Table: t})
		fmt.Fprintf(a.out, "%s: %d players over %d stints, lambda %g\n", f.Label, len(t.Ratings), f.Rows, f.Table.Lambda)
	}
	if *workbook != "" && len(sheets) > 0 {
		if err := table.WriteFile(*workbook, func(w io.Writer) error { return export.WriteRatingsWorkbook(w, sheets) }); err != nil {
			return err
		}
	}
	if err := a.writeReport(ctx, *report, export.Report{Command: "fit", StartedAt: started, Fits: summaries}); err != nil {
		return err
	}
	if len(sheets) == 0 {
		return fmt.Errorf("fit: every fit failed: %w", fits[0].Err)
	}
	return nil
}

func summarize(f service.FitResult) export.FitSummary {
	s := export.FitSummary{Label: f.Label, Rows: f.Rows}
	if f.Err != nil {
		s.Error = f.Err.Error()
		return s
	}
	s.Players = len(f.Table.Ratings)
	s.Lambda = f.Table.Lambda
	s.Intercept = f.Table.Intercept
	return s
}

// counts writes per-player offensive and defensive possession totals.
func (a *app) counts(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("counts", flag.ContinueOnError)
	fs.SetOutput(a.out)
	stints := fs.String("stints", "", "stint CSV (default <data_dir>/"+stintsFile+")")
	out := fs.String("out", "", "count CSV (default <data_dir>/"+countsFile+")")
	if err := parse(fs, args); err != nil {
		return err
	}

	rows, err := a.readStints(*stints)
	if err != nil {
		return err
	}
	counts := rapm.PossessionCounts(rows)
	if *out == "" {
		*out = a.dir().Path(countsFile)
	}
	if err := table.WriteFile(*out, func(w io.Writer) error { return table.WriteCounts(w, counts) }); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "counted possessions for %d players\n", len(counts))
	return nil
}

// compare joins a standard and a luck-adjusted rating table.
func (a *app) compare(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(a.out)
	basic := fs.String("basic", "", "standard rating CSV")
	adjusted := fs.String("adjusted", "", "luck-adjusted rating CSV")
	out := fs.String("out", "", "comparison CSV (default <data_dir>/"+compareFile+")")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *basic == "" || *adjusted == "" {
		return fmt.Errorf("compare: %w: -basic and -adjusted: %w", errMissingFlag, errUsage)
	}

	b, err := readRatings(*basic)
	if err != nil {
		return err
	}
	adj, err := readRatings(*adjusted)
	if err != nil {
		return err
	}
	cs := rapm.Compare(b, adj)
	if *out == "" {
		*out = a.dir().Path(compareFile)
	}
	if err := table.WriteFile(*out, func(w io.Writer) error { return table.WriteComparisons(w, cs) }); err != nil {
		return err
	}
	a.log.Info(ctx, "ratings compared", logger.Int("players", len(cs)))
	fmt.Fprintf(a.out, "compared %d players\n", len(cs))
	return nil
}
