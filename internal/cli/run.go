package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/watch2give/streakd/internal/api"
	"github.com/watch2give/streakd/internal/config"
	"github.com/watch2give/streakd/internal/store"
	"github.com/watch2give/streakd/internal/token"
	"github.com/watch2give/streakd/internal/tracker"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the streak tracker daemon",
		Long: `Start the streak tracker and the dashboard HTTP API.

Loads the streak record, runs the session-start evaluation, arms the
daily midnight reset, and serves the API until interrupted.

Example:
  streakd run --config ./streakd.yaml
  streakd run --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config (optional)")

	return cmd
}

func runDaemon(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Verbose {
		cfg.Logging.Level = "debug"
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to resolve timezone", err)
	}

	// Open storage. An unavailable backing medium is not fatal: the
	// session runs memory-only and loses cross-session persistence.
	var (
		streakStore     store.StreakStore
		submissionStore interface {
			token.SubmissionStore
			api.SubmissionLister
		}
	)
	if st, err := store.Open(cfg.Database.Path); err != nil {
		logger.Warn("storage unavailable, running memory-only", "path", cfg.Database.Path, "error", err)
		ms := store.NewMemStore()
		streakStore, submissionStore = ms, ms
	} else {
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
		streakStore, submissionStore = st, st
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	tr := tracker.New(streakStore, tracker.WallClock{}, cfg.Vendor.Key,
		tracker.WithLogger(logger),
		tracker.WithLocation(loc),
	)
	tr.Start(ctx)
	logger.Info("tracker started", "vendor", cfg.Vendor.Key, "count", tr.Count())

	// Daily midnight reset, torn down with the session context.
	sched := tracker.NewScheduler(tr)
	go func() {
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler stopped", "error", err)
		}
	}()

	svc := token.NewService(submissionStore, tr, tracker.WallClock{}, cfg.Vendor.Key, logger)
	srv := api.NewServer(tr, svc, submissionStore, cfg.Vendor.Key, logger)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("http api listening", "addr", cfg.Server.HTTPAddr)
	fmt.Fprintln(cmd.OutOrStdout(), "streakd started. Press Ctrl-C to stop.")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return WrapExitError(ExitFailure, "http server error", err)
	}

	logger.Info("stopped gracefully")
	return nil
}
