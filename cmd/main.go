package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/rapm/internal/adapters/http/api"
	"github.com/okian/rapm/internal/config"
	"github.com/okian/rapm/pkg/logger"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

func realMain(args []string) int {
	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	runner := newApp(cfg, os.Stdout, loggerInstance)

	if cfg.MetricsAddr != "" {
		ops := api.NewServer(runner.runID, commandName(args), loggerInstance.Named("ops"))
		runner.phase = ops.SetPhase
		opsCtx, cancelOps := context.WithCancel(ctx)
		opsDone := make(chan struct{})
		go func() {
			defer close(opsDone)
			if err := ops.Serve(opsCtx, cfg.MetricsAddr); err != nil {
				loggerInstance.Error(ctx, "ops server failed", logger.Error(err))
			}
		}()
		defer func() {
			cancelOps()
			<-opsDone
		}()
	}

	if err := runner.run(ctx, args); err != nil {
		if errors.Is(err, errUsage) {
			if err != errUsage {
				os.Stderr.WriteString(err.Error() + "\n")
			}
			showHelp(os.Stderr)
			return 2
		}
		loggerInstance.Error(ctx, "run failed", logger.String("run_id", runner.runID), logger.Error(err))
		return 1
	}
	return 0
}

func commandName(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
