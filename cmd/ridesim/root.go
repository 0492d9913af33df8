package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ygrebnov/ridesim"
	"github.com/ygrebnov/ridesim/metrics"
)

const minDuration = 5

type args struct {
	drivers  uint
	duration time.Duration
}

func parseArgs(a []string) (args, error) {
	n, err := strconv.Atoi(a[0])
	if err != nil || n < 1 {
		return args{}, fmt.Errorf("N: 1 <= N - number of drivers, got %q", a[0])
	}
	t, err := strconv.Atoi(a[1])
	if err != nil || t < minDuration {
		return args{}, fmt.Errorf("T: %d <= T - simulation duration in seconds, got %q", minDuration, a[1])
	}
	return args{drivers: uint(n), duration: time.Duration(t) * time.Second}, nil
}

func newRootCmd() *cobra.Command {
	var (
		envFile string
		flags   settings
	)

	cmd := &cobra.Command{
		Use:   "ridesim N T",
		Short: "Simulate N drivers serving random rides for T seconds",
		Args: func(cmd *cobra.Command, a []string) error {
			if err := cobra.ExactArgs(2)(cmd, a); err != nil {
				return err
			}
			_, err := parseArgs(a)
			return err
		},
		RunE: func(cmd *cobra.Command, a []string) error {
			parsed, _ := parseArgs(a)

			s, err := loadSettings(envFile)
			if err != nil {
				return err
			}
			s = overrideSettings(cmd, s, flags)

			// past argument validation, failures are not usage errors
			cmd.SilenceUsage = true
			return run(cmd.Context(), parsed, s)
		},
	}

	f := cmd.Flags()
	f.StringVar(&envFile, "env-file", ".env", "file with RIDESIM_* variables")
	f.UintVar(&flags.Capacity, "capacity", 10, "tasks queue capacity")
	f.IntVar(&flags.Bound, "bound", 1000, "coordinates bound B; rides lie in [-B, B]^2")
	f.DurationVar(&flags.Grace, "grace", 0, "grace period of every shutdown phase (default: 5s or the longest ride)")
	f.Uint64Var(&flags.Seed, "seed", 0, "random seed (default: current time)")
	f.BoolVar(&flags.Drain, "drain", false, "let queued rides finish before stopping drivers")
	f.StringVar(&flags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

// overrideSettings applies the flags explicitly set on the command line.
func overrideSettings(cmd *cobra.Command, s, flags settings) settings {
	f := cmd.Flags()
	if f.Changed("capacity") {
		s.Capacity = flags.Capacity
	}
	if f.Changed("bound") {
		s.Bound = flags.Bound
	}
	if f.Changed("grace") {
		s.Grace = flags.Grace
	}
	if f.Changed("seed") {
		s.Seed = flags.Seed
	}
	if f.Changed("drain") {
		s.Drain = flags.Drain
	}
	if f.Changed("log-level") {
		s.LogLevel = flags.LogLevel
	}
	return s
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return cfg.Build()
}

func options(a args, s settings, logger *zap.Logger, p metrics.Provider) []ridesim.Option {
	opts := []ridesim.Option{
		ridesim.WithDrivers(a.drivers),
		ridesim.WithDuration(a.duration),
		ridesim.WithQueueCapacity(s.Capacity),
		ridesim.WithBound(s.Bound),
		ridesim.WithSeed(s.Seed),
		ridesim.WithLogger(logger),
		ridesim.WithMetrics(p),
	}
	if s.Grace > 0 {
		opts = append(opts, ridesim.WithGracePeriod(s.Grace))
	}
	if s.Drain {
		opts = append(opts, ridesim.WithDrainOnShutdown())
	}
	return opts
}

// interruptContext is canceled by the first of sigs. Signal handling is released
// right away, so a second signal during the shutdown handshake ends the process.
func interruptContext(parent context.Context, sigs ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, sigs...)
	context.AfterFunc(ctx, stop)
	return ctx, stop
}

func run(ctx context.Context, a args, s settings) error {
	logger, err := newLogger(s.LogLevel)
	if err != nil {
		return fmt.Errorf("config: log level %q: %w", s.LogLevel, err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("run", uuid.NewString()))

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := interruptContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := metrics.NewBasicProvider()
	c, err := ridesim.New(options(a, s, logger, p)...)
	if err != nil {
		logger.Error("cannot initialize simulation", zap.Error(err))
		return err
	}

	summary, err := c.Run(ctx)
	if err != nil {
		logger.Error("simulation failed", zap.Error(err))
		return err
	}

	fmt.Fprint(os.Stdout, renderSummary(summary, p.Distribution(metrics.RideDistance)))
	return nil
}
