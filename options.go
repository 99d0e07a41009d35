package glrender

import "log/slog"

// Option configures a Context during creation.
//
// Example:
//
//	rc, err := glrender.New(view, renderer, assets, taps,
//	    glrender.WithLogger(slog.Default()),
//	    glrender.WithShaderCacheSize(64),
//	)
type Option func(*options)

// options holds optional configuration for Context creation.
type options struct {
	logger          *slog.Logger
	shaderCacheSize int
	initialWidth    int
	initialHeight   int
}

// Defaults applied before any Option runs.
const (
	defaultShaderCacheSize = 32
	defaultViewportSize    = 1
)

func defaultOptions() options {
	return options{
		shaderCacheSize: defaultShaderCacheSize,
		initialWidth:    defaultViewportSize,
		initialHeight:   defaultViewportSize,
	}
}

// WithLogger sets a logger used by this Context instead of the package
// logger configured with SetLogger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithShaderCacheSize sets how many translated shader sources the Context
// keeps. Values below 1 keep the default.
func WithShaderCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shaderCacheSize = n
		}
	}
}

// WithInitialViewport sets the default-target size used before the host
// reports the first surface change. Non-positive values keep 1x1.
func WithInitialViewport(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.initialWidth = width
			o.initialHeight = height
		}
	}
}
