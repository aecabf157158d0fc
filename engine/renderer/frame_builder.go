package renderer

import (
	"time"

	"go.uber.org/zap"
)

// FrameDriverBuilderOption is a functional option for configuring a FrameDriver during construction.
type FrameDriverBuilderOption func(*frameDriver)

// WithLogger sets the logger used for per-frame diagnostics and stats output.
// Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - FrameDriverBuilderOption: functional option to set the logger
func WithLogger(log *zap.Logger) FrameDriverBuilderOption {
	return func(d *frameDriver) {
		if log != nil {
			d.log = log
		}
	}
}

// WithUploadWorkers sets the worker count for the parallel CPU packing phase.
// Defaults to NumCPU-1, minimum 1.
//
// Parameters:
//   - workers: the worker count, must be positive
//
// Returns:
//   - FrameDriverBuilderOption: functional option to set the worker count
func WithUploadWorkers(workers int) FrameDriverBuilderOption {
	return func(d *frameDriver) {
		if workers > 0 {
			d.prepWorkers = workers
		}
	}
}

// WithStatsInterval sets how often frame statistics are logged.
//
// Parameters:
//   - interval: the stats logging interval
//
// Returns:
//   - FrameDriverBuilderOption: functional option to set the stats interval
func WithStatsInterval(interval time.Duration) FrameDriverBuilderOption {
	return func(d *frameDriver) {
		if interval > 0 {
			d.statsInterval = interval
		}
	}
}
