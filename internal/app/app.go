package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/bnema/virtdock/internal/adapters/out/docker"
	"github.com/bnema/virtdock/internal/adapters/out/encoding"
	"github.com/bnema/virtdock/internal/adapters/out/envloader"
	"github.com/bnema/virtdock/internal/adapters/out/filesource"
	"github.com/bnema/virtdock/internal/adapters/out/ratelimit"
	"github.com/bnema/virtdock/internal/adapters/out/telemetry"
	"github.com/bnema/virtdock/internal/boundaries/in"
	"github.com/bnema/virtdock/internal/boundaries/out"
	"github.com/bnema/virtdock/internal/domain"
	"github.com/bnema/virtdock/internal/usecase/translate"
)

// ServiceName identifies the application in telemetry resources.
const ServiceName = "virtdock"

// Options control how the application is built.
type Options struct {
	ConfigPath string
	Version    string

	// LogOutput and MetricsOutput default to os.Stderr.
	LogOutput     io.Writer
	MetricsOutput io.Writer
}

// App holds the wired services and adapters.
type App struct {
	Config     Config
	Log        zerowrap.Logger
	Translator in.Translator
	EnvLoader  out.EnvLoader

	limiter *ratelimit.MemoryStore
	closers []func(context.Context) error
}

// New loads the configuration and wires the application.
func New(ctx context.Context, opts Options) (*App, error) {
	_, cfg, err := initConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, cfg, opts)
}

// NewWithConfig wires the application from an already loaded configuration.
func NewWithConfig(ctx context.Context, cfg Config, opts Options) (*App, error) {
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.MetricsOutput == nil {
		opts.MetricsOutput = os.Stderr
	}

	log, closeLog, err := initLogger(cfg, opts.LogOutput)
	if err != nil {
		return nil, err
	}
	closers := []func(context.Context) error{closeLog}

	mp, shutdownMetrics, err := telemetry.NewProvider(ctx, cfg.Telemetry, opts.MetricsOutput, ServiceName, opts.Version)
	if err != nil {
		_ = closeLog(ctx)
		return nil, log.WrapErr(err, "failed to create meter provider")
	}
	closers = append(closers, shutdownMetrics)

	metrics, err := telemetry.NewMetrics(mp.Meter(ServiceName))
	if err != nil {
		_ = shutdownMetrics(ctx)
		_ = closeLog(ctx)
		return nil, log.WrapErr(err, "failed to create metrics")
	}

	log.Debug().
		Str(zerowrap.FieldLayer, "app").
		Str("output_format", cfg.Output.Format).
		Bool("telemetry", cfg.Telemetry.Enabled).
		Bool("log_file", cfg.Logging.File.Enabled).
		Msg("application initialized")

	a := &App{
		Config:     cfg,
		Log:        log,
		Translator: translate.NewService(metrics),
		EnvLoader:  envloader.NewFileLoader(log),
		closers:    closers,
	}
	if rl := cfg.Server.RateLimit; rl.Enabled {
		a.limiter = ratelimit.NewMemoryStore(rl.RPS, rl.Burst, limiterIdleTTL, log)
	}
	return a, nil
}

// limiterIdleTTL is how long an unused client bucket is kept.
const limiterIdleTTL = 10 * time.Minute

// initLogger initializes the zerowrap logger, adding a rotated log file
// when file logging is enabled.
func initLogger(cfg Config, w io.Writer) (zerowrap.Logger, func(context.Context) error, error) {
	logConfig := zerowrap.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: w,
	}
	noop := func(context.Context) error { return nil }

	if !cfg.Logging.File.Enabled {
		return zerowrap.New(logConfig), noop, nil
	}

	log, cleanup, err := zerowrap.NewWithFile(logConfig, zerowrap.FileConfig{
		Enabled:    true,
		Path:       cfg.Logging.File.Path,
		MaxSize:    cfg.Logging.File.MaxSize,
		MaxBackups: cfg.Logging.File.MaxBackups,
		MaxAge:     cfg.Logging.File.MaxAge,
		Compress:   true,
	})
	if err != nil {
		return zerowrap.Default(), noop, fmt.Errorf("%w: failed to create logger with file: %w", domain.ErrInvalidConfig, err)
	}
	return log, func(context.Context) error {
		if cleanup != nil {
			cleanup()
		}
		return nil
	}, nil
}

// Context returns ctx carrying the application logger.
func (a *App) Context(ctx context.Context) context.Context {
	return zerowrap.WithCtx(ctx, a.Log)
}

// Encoder returns the encoder for format, or the configured default when empty.
func (a *App) Encoder(format string) (out.DefinitionEncoder, error) {
	if format == "" {
		format = a.Config.Output.Format
	}
	return encoding.New(format)
}

// FileSource returns a config source reading files, with "-" mapped to stdin.
func (a *App) FileSource(stdin io.Reader) *filesource.Source {
	return filesource.NewSource(stdin)
}

// DockerSource connects to the configured Docker daemon. The source is
// closed with the application.
func (a *App) DockerSource() (*docker.Source, error) {
	src, err := docker.NewSource(a.Config.Docker.Host)
	if err != nil {
		return nil, a.Log.WrapErr(err, "failed to create Docker client")
	}
	a.closers = append(a.closers, func(context.Context) error { return src.Close() })
	return src, nil
}

// Close releases the resources held by the application and flushes metrics.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
