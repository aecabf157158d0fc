package animator

import "go.uber.org/zap"

// ControllerBuilderOption is a functional option for configuring a Controller during construction.
type ControllerBuilderOption func(*controller)

// WithLogger sets the logger used for refresh diagnostics. Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - ControllerBuilderOption: functional option to set the logger
func WithLogger(log *zap.Logger) ControllerBuilderOption {
	return func(c *controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithThreadGroupSize sets the compute thread group width used to derive dispatch counts.
// Must match the compiled compute shader. Defaults to DefaultThreadGroupSize.
//
// Parameters:
//   - size: the thread group width, must be non-zero
//
// Returns:
//   - ControllerBuilderOption: functional option to set the thread group size
func WithThreadGroupSize(size uint32) ControllerBuilderOption {
	return func(c *controller) {
		if size > 0 {
			c.threadGroupSize = size
		}
	}
}
