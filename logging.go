package storage

import (
	"time"

	"github.com/goliatone/go-projectstorage/pkg/fetch"
	"github.com/hashicorp/go-hclog"
)

// BootstrapEvent describes a default-project caching attempt.
type BootstrapEvent struct {
	Assets   int
	Refresh  bool
	Duration time.Duration
	Err      error
}

// Logger records fetch attempts and bootstrap runs. A Logger is also a
// fetch.Logger so the same sink serves the network client.
type Logger interface {
	fetch.Logger
	LogBootstrap(BootstrapEvent)
}

// LoggerFuncs adapts plain functions to Logger. Nil fields are ignored.
type LoggerFuncs struct {
	Fetch     func(fetch.LogEvent)
	Bootstrap func(BootstrapEvent)
}

// LogFetch implements fetch.Logger.
func (f LoggerFuncs) LogFetch(event fetch.LogEvent) {
	if f.Fetch != nil {
		f.Fetch(event)
	}
}

// LogBootstrap implements Logger.
func (f LoggerFuncs) LogBootstrap(event BootstrapEvent) {
	if f.Bootstrap != nil {
		f.Bootstrap(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogFetch(fetch.LogEvent) {}

func (noopLogger) LogBootstrap(BootstrapEvent) {}

// WithLogger attaches a logger to the Storage and its network client.
func WithLogger(logger Logger) Option {
	return func(cfg *storageConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

type hcLogger struct {
	logger hclog.Logger
}

// NewHCLogger returns a Logger writing through an hclog.Logger. Failures are
// logged at warn level, successful fetches at debug and bootstraps at info.
func NewHCLogger(logger hclog.Logger) Logger {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return hcLogger{logger: logger.Named("storage")}
}

func (l hcLogger) LogFetch(event fetch.LogEvent) {
	args := []any{
		"method", event.Method,
		"url", event.URL,
		"duration", event.Duration,
	}
	if event.StatusCode != 0 {
		args = append(args, "status", event.StatusCode)
	}
	if event.Err != nil {
		l.logger.Warn("fetch failed", append(args, "error", event.Err)...)
		return
	}
	l.logger.Debug("fetch", args...)
}

func (l hcLogger) LogBootstrap(event BootstrapEvent) {
	args := []any{
		"assets", event.Assets,
		"refresh", event.Refresh,
		"duration", event.Duration,
	}
	if event.Err != nil {
		l.logger.Error("bootstrap failed", append(args, "error", event.Err)...)
		return
	}
	l.logger.Info("default project cached", args...)
}
