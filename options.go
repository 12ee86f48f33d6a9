package pdfoutline

import (
	"io"
	"log/slog"
	"math/rand"
	"runtime"

	"github.com/tsawler/pdfoutline/layout"
	"github.com/tsawler/pdfoutline/tables"
)

// Option configures Open
type Option func(*options)

type options struct {
	workers  int
	analyzer layout.AnalyzerConfig
	logger   *slog.Logger
	rand     *rand.Rand
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		workers:  runtime.NumCPU(),
		analyzer: layout.DefaultAnalyzerConfig(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithWorkers sets how many pages are extracted concurrently. Values below
// one are ignored.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithTableConfig replaces the table detector thresholds
func WithTableConfig(cfg tables.Config) Option {
	return func(o *options) {
		o.analyzer.Table = cfg
	}
}

// WithLineConfig replaces the line grouping tolerances
func WithLineConfig(cfg layout.LineConfig) Option {
	return func(o *options) {
		o.analyzer.Line = cfg
	}
}

// WithLogger sets the logger for recoverable per-page failures. By default
// nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRand sets the source used for random peek positions
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}
