package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/kronos/internal/config"
	"github.com/roach88/kronos/internal/observer"
	"github.com/roach88/kronos/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Settings string
	Database string // overrides the settings file when set
	BootWait int    // seconds; overrides the settings file when >= 0

	// Clock allows overriding the time source (for testing).
	// If nil, defaults to the system clock.
	Clock observer.TimeSource
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the background observer loop",
		Long: `Start the Kronos observer loop.

The loop polls the clock on the configured cadence, refreshes the
celestial state, and raises an alert when a full moon is reached or a
Saturn milestone passes. With a database configured, fired alerts are
journaled and the alert state survives restarts.

Example:
  kronos run
  kronos run --settings /etc/kronos/settings.yaml --db ./kronos.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runObserver(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Settings, "settings", "", "path to YAML settings file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides settings)")
	cmd.Flags().IntVar(&opts.BootWait, "boot-wait", -1, "seconds to wait before the first tick (overrides settings)")

	return cmd
}

func runObserver(opts *RunOptions, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	// Settings are read once at loop start, never polled.
	cfg, err := config.Load(opts.Settings)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load settings", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.BootWait >= 0 {
		cfg.BootWaitSeconds = opts.BootWait
	}
	slog.Info("settings loaded",
		"interval", cfg.PollInterval(),
		"database", cfg.Database,
		"full_moon_alerts", cfg.FullMoonAlerts,
		"saturn_alerts", cfg.SaturnAlerts,
	)

	clock := opts.Clock
	if clock == nil {
		clock = observer.SystemClock{}
	}

	evaluator := observer.NewEvaluator(observer.UUIDv7Generator{},
		observer.WithFullMoonAlerts(cfg.FullMoonAlerts),
		observer.WithSaturnAlerts(cfg.SaturnAlerts),
	)

	loopOpts := []observer.LoopOption{
		observer.WithInterval(cfg.PollInterval()),
		observer.WithGapFactor(cfg.GapFactor),
		observer.WithBootWait(cfg.BootWait()),
	}

	// Persistence is optional: without a database the loop still runs,
	// it just forgets fired alerts across restarts.
	if cfg.Database != "" {
		slog.Info("opening database", "path", cfg.Database)
		st, err := store.Open(cfg.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()

		state, found, err := st.LoadAlertState(cmd.Context())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load alert state", err)
		}
		if found {
			slog.Info("alert state rehydrated", "suppressed_until", state.SuppressedUntil)
			loopOpts = append(loopOpts, observer.WithInitialState(state))
		}
		loopOpts = append(loopOpts, observer.WithJournal(st))
	}

	sink := observer.NewBufferedSink(newLogSink(), cfg.SinkBuffer)
	defer sink.Close()

	loop, err := observer.NewLoop(clock, evaluator, sink, loopOpts...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to configure observer", err)
	}

	// Setup signal handling for graceful shutdown.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return WrapExitError(ExitFailure, "observer loop failed", err)
	}

	slog.Info("observer stopped")
	return nil
}

// logSink renders snapshots and alerts as structured log lines. It is the
// default presentation binding; a host shell would provide its own Sink.
type logSink struct{}

func newLogSink() observer.Sink {
	return logSink{}
}

func (logSink) Display(snap observer.Snapshot) error {
	slog.Info("celestial state",
		"observed_at", snap.ObservedAt.Format(time.RFC3339),
		"phase", snap.Lunar.Name,
		"phase_fraction", snap.Lunar.Fraction,
		"next_full_moon", snap.Lunar.NextFull.Format(time.RFC3339),
		"saturn_sign", snap.Saturn.Sign,
		"next_milestone", snap.Saturn.NextMilestone.Format(time.RFC3339),
	)
	return nil
}

func (logSink) Notify(alert observer.Alert) error {
	slog.Info("celestial alert",
		"alert_id", alert.ID,
		"kind", alert.Kind,
		"message", alert.Message,
		"fired_at", alert.FiredAt.Format(time.RFC3339),
	)
	return nil
}
