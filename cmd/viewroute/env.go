package main

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"

	"github.com/vango-dev/viewroute/internal/config"
	"github.com/vango-dev/viewroute/internal/errors"
	"github.com/vango-dev/viewroute/internal/manifest"
	"github.com/vango-dev/viewroute/internal/scripting"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	config    string
	manifest  string
	logLevel  string
	logFormat string
	noColor   bool
}

// env is everything a command needs after flags are applied.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	manifest *manifest.Manifest
}

// loadConfig reads viewroute.json from --config or the project root. A
// missing project config falls back to defaults in the working directory.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.config != "" {
		cfg, err = config.LoadFile(f.config)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		var e *errors.Error
		if stderrors.As(err, &e) && e.Code == "E141" {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if f.manifest != "" {
		cfg.Manifest = f.manifest
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the slog logger described by cfg.Log.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// load resolves config, logger and manifest.
func (f *globalFlags) load(ctx context.Context) (*env, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}

	src, err := manifest.Open(ctx, cfg.ManifestPath(), nil, manifest.S3Options{
		Region:       cfg.S3.Region,
		Endpoint:     cfg.S3.Endpoint,
		UsePathStyle: cfg.S3.UsePathStyle,
		Anonymous:    cfg.S3.Anonymous,
	})
	if err != nil {
		return nil, err
	}
	m, err := manifest.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	logger.Debug("manifest loaded", "source", src.String(), "routes", m.RouteCount())

	return &env{cfg: cfg, logger: logger, manifest: m}, nil
}

// build creates a site with its own script runtime.
func (e *env) build(opts ...manifest.BuildOption) (*manifest.Site, error) {
	timeout, err := e.cfg.ScriptTimeout()
	if err != nil {
		return nil, err
	}
	base := []manifest.BuildOption{
		manifest.WithLogger(e.logger),
		manifest.WithScripts(scripting.New(
			scripting.WithLogger(e.logger),
			scripting.WithTimeout(timeout),
		)),
	}
	if e.cfg.BasePath != "" {
		base = append(base, manifest.WithBasePath(e.cfg.BasePath))
	}
	return e.manifest.Build(append(base, opts...)...)
}
