package ridesim

import (
	"context"
	"time"

	"github.com/ygrebnov/errorc"
	"go.uber.org/zap"

	"github.com/ygrebnov/ridesim/metrics"
	"github.com/ygrebnov/ridesim/pool"
)

// DriveFunc simulates a ride lasting d. It must return early with ctx.Err()
// when ctx is done. A non-nil error terminates the calling worker.
type DriveFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default DriveFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// config holds Coordinator configuration.
type config struct {
	// Drivers is the number of workers. Must be >= 1.
	// Default: 1
	Drivers uint

	// Duration is the simulation deadline. Zero means no deadline: the simulation
	// runs until the parent context is done or Shutdown is called.
	// Default: 0
	Duration time.Duration

	// QueueCapacity bounds the number of rides waiting in the tasks queue.
	// Default: 10
	QueueCapacity uint

	// RepliesBuffer is the buffer size of every worker's private reply channel.
	// Default: 10
	RepliesBuffer uint

	// Bound limits ride coordinates to [-Bound, Bound].
	// Default: 1000
	Bound int

	// MinInterval and MaxInterval bound the randomized pause between two generated rides.
	// Default: 500ms and 2s
	MinInterval time.Duration
	MaxInterval time.Duration

	// DriveUnit is the simulated driving time per unit of distance.
	// Default: 1ms
	DriveUnit time.Duration

	// GracePeriod bounds each waiting phase of the shutdown handshake. A ride still
	// being driven when it elapses is interrupted.
	// Default: 5s, raised to the longest possible ride (8 * Bound * DriveUnit)
	GracePeriod time.Duration

	// PollInterval is the pause between collector polls while the handshake waits.
	// Default: 10ms
	PollInterval time.Duration

	// Seed seeds the default random generator. Ignored when Generator is set.
	// Default: current time
	Seed uint64

	// DrainOnShutdown lets workers finish rides still queued at the deadline
	// before the sentinels are sent.
	// Default: false (sentinels overtake queued rides)
	DrainOnShutdown bool

	// StrictProtocol makes workers panic on a protocol violation instead of
	// logging it and terminating.
	// Default: false
	StrictProtocol bool

	Generator Generator
	Drive     DriveFunc
	Pool      pool.Pool
	Logger    *zap.Logger
	Metrics   metrics.Provider
}

func defaultConfig() config {
	return config{
		Drivers:       1,
		Duration:      0, // no deadline
		QueueCapacity: 10,
		RepliesBuffer: 10,
		Bound:         1000,
		MinInterval:   500 * time.Millisecond,
		MaxInterval:   2 * time.Second,
		DriveUnit:     time.Millisecond,
		PollInterval:  10 * time.Millisecond,
		Seed:          uint64(time.Now().UnixNano()),
		Drive:         Sleep,
		Logger:        zap.NewNop(),
		Metrics:       metrics.NewNoopProvider(),
	}
}

const defaultGracePeriod = 5 * time.Second

// longestRide is the driving time of the longest ride within bound: an approach
// and a route, each crossing the square corner to corner.
func longestRide(bound int, unit time.Duration) time.Duration {
	return time.Duration(8*bound) * unit
}

// defaultGrace lets the default grace period outlast any ride.
func defaultGrace(cfg *config) time.Duration {
	return max(defaultGracePeriod, longestRide(cfg.Bound, cfg.DriveUnit))
}

// validateConfig checks cross-field invariants that single options cannot.
func validateConfig(cfg *config) error {
	if cfg.MinInterval > cfg.MaxInterval {
		return errorc.With(ErrInvalidConfig, errorc.String("interval", "min must not exceed max"))
	}
	return nil
}

// Option configures a Coordinator.
type Option func(*config) error

// WithDrivers sets the number of workers (must be > 0).
func WithDrivers(n uint) Option {
	return func(cfg *config) error {
		if n == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("drivers", "WithDrivers requires n > 0"))
		}
		cfg.Drivers = n
		return nil
	}
}

// WithDuration sets the simulation deadline (must be > 0).
func WithDuration(d time.Duration) Option {
	return func(cfg *config) error {
		if d <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("duration", "WithDuration requires d > 0"))
		}
		cfg.Duration = d
		return nil
	}
}

// WithQueueCapacity sets the tasks queue capacity (must be > 0).
func WithQueueCapacity(n uint) Option {
	return func(cfg *config) error {
		if n == 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("capacity", "WithQueueCapacity requires n > 0"))
		}
		cfg.QueueCapacity = n
		return nil
	}
}

// WithRepliesBuffer sets the buffer size of the private reply channels.
func WithRepliesBuffer(n uint) Option {
	return func(cfg *config) error { cfg.RepliesBuffer = n; return nil }
}

// WithBound sets the coordinate bound (must be > 0).
func WithBound(b int) Option {
	return func(cfg *config) error {
		if b <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("bound", "WithBound requires b > 0"))
		}
		cfg.Bound = b
		return nil
	}
}

// WithInterval sets the range of the pause between generated rides.
func WithInterval(lo, hi time.Duration) Option {
	return func(cfg *config) error {
		if lo < 0 || hi < lo {
			return errorc.With(ErrInvalidConfig, errorc.String("interval", "WithInterval requires 0 <= lo <= hi"))
		}
		cfg.MinInterval, cfg.MaxInterval = lo, hi
		return nil
	}
}

// WithDriveUnit sets the simulated driving time per unit of distance.
func WithDriveUnit(d time.Duration) Option {
	return func(cfg *config) error {
		if d < 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("drive unit", "WithDriveUnit requires d >= 0"))
		}
		cfg.DriveUnit = d
		return nil
	}
}

// WithGracePeriod bounds every waiting phase of the shutdown handshake (must be > 0).
func WithGracePeriod(d time.Duration) Option {
	return func(cfg *config) error {
		if d <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("grace", "WithGracePeriod requires d > 0"))
		}
		cfg.GracePeriod = d
		return nil
	}
}

// WithPollInterval sets the pause between collector polls during shutdown (must be > 0).
func WithPollInterval(d time.Duration) Option {
	return func(cfg *config) error {
		if d <= 0 {
			return errorc.With(ErrInvalidConfig, errorc.String("poll", "WithPollInterval requires d > 0"))
		}
		cfg.PollInterval = d
		return nil
	}
}

// WithSeed seeds the default random generator.
func WithSeed(seed uint64) Option {
	return func(cfg *config) error { cfg.Seed = seed; return nil }
}

// WithGenerator replaces the default random generator.
func WithGenerator(g Generator) Option {
	return func(cfg *config) error {
		if g == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("generator", "nil generator"))
		}
		cfg.Generator = g
		return nil
	}
}

// WithDriveFunc replaces the simulated drive (Sleep by default).
func WithDriveFunc(fn DriveFunc) Option {
	return func(cfg *config) error {
		if fn == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("drive", "nil drive func"))
		}
		cfg.Drive = fn
		return nil
	}
}

// WithPool replaces the pool workers are spawned into.
// By default a fixed pool sized to the number of drivers is used.
func WithPool(p pool.Pool) Option {
	return func(cfg *config) error {
		if p == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("pool", "nil pool"))
		}
		cfg.Pool = p
		return nil
	}
}

// WithLogger sets the logger. Nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) error {
		if l != nil {
			cfg.Logger = l
		}
		return nil
	}
}

// WithMetrics sets the metrics provider. Nil keeps the no-op default.
func WithMetrics(p metrics.Provider) Option {
	return func(cfg *config) error {
		if p != nil {
			cfg.Metrics = p
		}
		return nil
	}
}

// WithDrainOnShutdown lets queued rides finish before sentinels are sent.
func WithDrainOnShutdown() Option {
	return func(cfg *config) error { cfg.DrainOnShutdown = true; return nil }
}

// WithStrictProtocol makes workers panic on protocol violations.
func WithStrictProtocol() Option {
	return func(cfg *config) error { cfg.StrictProtocol = true; return nil }
}
