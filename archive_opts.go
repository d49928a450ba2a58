package obby

import "log/slog"

// Option configures an Archive.
type Option func(*Archive)

// WithLogger configures the Archive to emit debug events to the given
// logger. Without it the Archive is silent.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Archive) {
		a.logger = logger
	}
}
