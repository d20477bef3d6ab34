// Package service orchestrates the batch pipeline: building per-game
// possession tables on a worker pool, combining them into season stints and
// fitting RAPM over season and date ranges.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/rapm/internal/adapters/mq/queue"
	"github.com/okian/rapm/internal/adapters/mq/worker"
	"github.com/okian/rapm/internal/adapters/repository"
	"github.com/okian/rapm/internal/adapters/table"
	"github.com/okian/rapm/internal/domain/dedupe"
	"github.com/okian/rapm/internal/domain/model"
	"github.com/okian/rapm/internal/domain/possession"
	"github.com/okian/rapm/internal/domain/rapm"
	"github.com/okian/rapm/pkg/logger"
	"github.com/okian/rapm/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize   = 1024
	defaultDedupeSize  = 100_000
	defaultGameTimeout = 30 * time.Second
	defaultDataDir     = "data"

	// Each window fit holds dense normal equations in memory.
	maxDefaultFitConcurrency = 4
)

// Service runs the pipeline stages.
type Service struct {
	mu sync.Mutex

	// Core components
	store     repository.Store
	dir       *table.Dir
	segmenter *possession.Segmenter
	ridge     *rapm.Ridge

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	gameTimeout    time.Duration
	fitConcurrency int
	seasonTypes    []string
	writeTables    bool
	runID          string

	// State
	closed bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of game workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the game job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the number of game ids remembered per build.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the possession store. The service closes it in Close.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDir sets the data directory tables are read from and written to.
func WithDir(d *table.Dir) Option {
	return func(s *Service) {
		if d != nil {
			s.dir = d
		}
	}
}

// WithSegmenter sets the possession segmenter.
func WithSegmenter(seg *possession.Segmenter) Option {
	return func(s *Service) {
		if seg != nil {
			s.segmenter = seg
		}
	}
}

// WithRidge sets the RAPM estimator.
func WithRidge(r *rapm.Ridge) Option {
	return func(s *Service) {
		if r != nil {
			s.ridge = r
		}
	}
}

// WithGameTimeout caps the processing time of one game. Zero disables it.
func WithGameTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.gameTimeout = d
		}
	}
}

// WithFitConcurrency bounds parallel window fits.
func WithFitConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fitConcurrency = n
		}
	}
}

// WithSeasonTypes keeps only stints of these season types in fits. Empty keeps all.
func WithSeasonTypes(types ...string) Option {
	return func(s *Service) {
		s.seasonTypes = append([]string(nil), types...)
	}
}

// WithPossessionTables toggles writing each game's possession CSV.
func WithPossessionTables(enabled bool) Option {
	return func(s *Service) {
		s.writeTables = enabled
	}
}

// WithRunID sets the run id stamped on logs and reports.
func WithRunID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.runID = id
		}
	}
}

// New constructs a Service. Components not supplied by options get defaults:
// an in-memory store, the "data" directory, a standard segmenter and ridge.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU(),
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
		gameTimeout:    defaultGameTimeout,
		fitConcurrency: min(runtime.NumCPU(), maxDefaultFitConcurrency),
		writeTables:    true,
		runID:          uuid.NewString(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger = s.logger.Named("service").With(logger.String("run_id", s.runID))

	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.dir == nil {
		s.dir = table.NewDir(defaultDataDir)
	}
	if s.segmenter == nil {
		s.segmenter = possession.New(possession.WithLogger(s.logger.Named("segmenter")))
	}
	if s.ridge == nil {
		s.ridge = rapm.NewRidge(rapm.WithRidgeLogger(s.logger.Named("ridge")))
	}
	return s
}

// RunID returns the id of this run.
func (s *Service) RunID() string { return s.runID }

// Store returns the possession store.
func (s *Service) Store() repository.Store { return s.store }

// Close releases the store. It is safe to call more than once.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// BuildSummary reports a possession build.
type BuildSummary struct {
	Games       int // unique games scheduled
	Duplicates  int
	Processed   int
	Possessions int
	Failures    *model.FailureLog
}

// BuildPossessions segments every scheduled game on the worker pool. Each
// game's possessions are put in the store and, unless disabled, written to
// its possession table. Per-game failures are collected in the summary; the
// build fails only when no game succeeds or ctx ends.
func (s *Service) BuildPossessions(ctx context.Context, games []model.GameRef) (BuildSummary, error) {
	refs, dups := s.unique(ctx, games)
	sum := BuildSummary{Games: len(refs), Duplicates: dups, Failures: model.NewFailureLog()}
	if len(refs) == 0 {
		return sum, nil
	}

	s.logger.Info(ctx, "building possessions",
		logger.Int("games", len(refs)),
		logger.Int("duplicates", dups),
		logger.Int("workers", s.workerCount),
	)
	started := time.Now()

	var possessions atomic.Int64
	q := queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	proc := worker.ProcessorFunc(func(ctx context.Context, j worker.Job) error {
		n, err := s.processGame(ctx, j)
		possessions.Add(int64(n))
		return err
	})
	pool := worker.NewPool(s.workerCount, q, proc,
		worker.WithLogger(s.logger),
		worker.WithTimeout(s.gameTimeout),
		worker.WithErrorHandler(func(_ context.Context, j worker.Job, err error) {
			stage := stageOf(err)
			sum.Failures.Add(j.ID, stage, err)
			metrics.RecordGameFailed(stage)
		}),
	)
	pool.Start(ctx)

	var enqueueErr error
	for _, ref := range refs {
		if enqueueErr = q.EnqueueWait(ctx, ref); enqueueErr != nil {
			break
		}
	}
	if err := q.Close(); err != nil {
		s.logger.Warn(ctx, "closing game queue", logger.Error(err))
	}
	pool.Wait()

	sum.Processed = int(pool.Processed())
	sum.Possessions = int(possessions.Load())
	s.logger.Info(ctx, "possessions built",
		logger.Int("processed", sum.Processed),
		logger.Int("failed", sum.Failures.Len()),
		logger.Int("possessions", sum.Possessions),
		logger.Duration("elapsed", time.Since(started)),
	)

	if err := ctx.Err(); err != nil {
		return sum, fmt.Errorf("build possessions: %w", err)
	}
	if enqueueErr != nil {
		return sum, fmt.Errorf("build possessions: %w", enqueueErr)
	}
	if sum.Processed == 0 {
		return sum, fmt.Errorf("%w: %d games failed", ErrNothingProcessed, sum.Failures.Len())
	}
	return sum, nil
}

// unique drops repeated game ids, keeping the first reference of each.
func (s *Service) unique(ctx context.Context, games []model.GameRef) ([]model.GameRef, int) {
	d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	byID := make(map[string]model.GameRef, len(games))
	ids := make([]string, 0, len(games))
	for _, g := range games {
		if _, ok := byID[g.ID]; !ok {
			byID[g.ID] = g
		}
		ids = append(ids, g.ID)
	}
	dups := 0
	kept := dedupe.Unique(ctx, d, ids, func(id string) {
		dups++
		metrics.RecordDuplicateGame()
		s.logger.Debug(ctx, "duplicate game dropped", logger.String("game_id", id))
	})
	out := make([]model.GameRef, len(kept))
	for i, id := range kept {
		out[i] = byID[id]
	}
	return out, dups
}

// processGame loads, segments and stores one game, returning its possession count.
func (s *Service) processGame(ctx context.Context, j worker.Job) (int, error) {
	started := time.Now()
	events, err := s.dir.LoadEvents(j.ID)
	if err != nil {
		return 0, inStage(StageLoad, err)
	}
	starters, err := s.dir.LoadStarters(j.ID)
	if err != nil {
		return 0, inStage(StageLoad, err)
	}

	res, err := s.segmenter.Build(ctx, possession.Game{ID: j.ID, Events: events, Starters: starters})
	if err != nil {
		if isAggregateErr(err) {
			return 0, inStage(StageAggregate, err)
		}
		return 0, inStage(StageSegment, err)
	}

	if err := s.store.Put(ctx, j.ID, res.Possessions); err != nil {
		return 0, inStage(StageStore, err)
	}
	if s.writeTables {
		if err := s.dir.SavePossessions(j.ID, res.Possessions); err != nil {
			return 0, inStage(StageStore, err)
		}
	}

	metrics.RecordGameProcessed()
	metrics.RecordGameLatency(float64(time.Since(started).Microseconds()) / 1000)
	s.logger.Debug(ctx, "game processed",
		logger.String("game_id", j.ID),
		logger.Int("events", res.Events),
		logger.Int("possessions", len(res.Possessions)),
		logger.Int("trailing", res.Trailing),
	)
	return len(res.Possessions), nil
}

func isAggregateErr(err error) bool {
	return errors.Is(err, possession.ErrEmptyPossession) ||
		errors.Is(err, possession.ErrScoringAnomaly) ||
		errors.Is(err, possession.ErrNegativePoints)
}

// stageOf names the stage a game failed in. A deadline overrides the stage.
func stageOf(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return StageTimeout
	}
	var se *stageError
	if errors.As(err, &se) {
		return se.stage
	}
	return StageSegment
}

// Combined is the stint table of a set of games.
type Combined struct {
	Stints  []model.Stint
	Games   int      // games with possessions
	Missing []string // games with no possession table
}

// CombineSeason converts the possessions of every game into stints stamped
// with the game's season, season type and date. Possessions come from the
// store, falling back to the game's possession table. Games found in
// neither are reported as missing.
func (s *Service) CombineSeason(ctx context.Context, games []model.GameRef) (Combined, error) {
	refs, _ := s.unique(ctx, games)
	var out Combined
	for _, g := range refs {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("combine: %w", err)
		}
		ps, err := s.possessions(ctx, g.ID)
		if err != nil {
			s.logger.Warn(ctx, "game has no possessions", logger.String("game_id", g.ID), logger.Error(err))
			out.Missing = append(out.Missing, g.ID)
			continue
		}
		out.Games++
		for _, p := range ps {
			st := p.Stint()
			st.Season = g.Season
			st.SeasonType = g.SeasonType
			st.Date = g.Date
			out.Stints = append(out.Stints, st)
		}
	}
	s.logger.Info(ctx, "season combined",
		logger.Int("games", out.Games),
		logger.Int("missing", len(out.Missing)),
		logger.Int("stints", len(out.Stints)),
	)
	return out, nil
}

func (s *Service) possessions(ctx context.Context, gameID string) ([]model.Possession, error) {
	ps, err := s.store.Get(ctx, gameID)
	if err == nil {
		return ps, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.dir.LoadPossessions(gameID)
}
