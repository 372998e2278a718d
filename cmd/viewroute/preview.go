package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/viewroute/internal/config"
	"github.com/vango-dev/viewroute/internal/manifest"
	"github.com/vango-dev/viewroute/pkg/live"
	"github.com/vango-dev/viewroute/pkg/middleware"
	"github.com/vango-dev/viewroute/pkg/router"
)

func previewCmd(flags *globalFlags) *cobra.Command {
	var (
		port    int
		host    string
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve a live preview of the site",
		Long: `Serve the site over HTTP. Every browser tab gets its own router and
view containers; link clicks and history navigation run on the server and
the resulting attribute changes are streamed back over a WebSocket.

Examples:
  viewroute preview
  viewroute preview --port=8080 --metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			if port > 0 {
				e.cfg.Preview.Port = port
			}
			if host != "" {
				e.cfg.Preview.Host = host
			}
			if metrics {
				e.cfg.Preview.Metrics = true
			}
			if err := e.cfg.Validate(); err != nil {
				return err
			}
			return runPreview(cmd, e)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from viewroute.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from viewroute.json)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics")

	return cmd
}

// previewFactory builds a fresh site per page load and per session.
func previewFactory(e *env, m *middleware.Metrics) live.Factory {
	global := []router.Middleware{
		middleware.Recover(e.logger),
		middleware.OpenTelemetry(),
	}
	if m != nil {
		global = append([]router.Middleware{m.Middleware()}, global...)
	}

	return func() (*live.Instance, error) {
		site, err := e.build(manifest.WithGlobalMiddleware(global...))
		if err != nil {
			return nil, err
		}
		return &live.Instance{
			Router:     site.Router,
			Document:   site.Document,
			Containers: site.Containers,
			Close:      site.Close,
		}, nil
	}
}

// previewHandler wires the hub, the shell and the metrics endpoint.
func previewHandler(e *env) (http.Handler, *live.Hub, error) {
	var m *middleware.Metrics
	extra := map[string]http.Handler{}
	if e.cfg.Preview.Metrics {
		m = middleware.Global(middleware.WithNamespace("viewroute"))
		extra[metricsPath(e.cfg)] = promhttp.Handler()
	}

	factory := previewFactory(e, m)

	// Fail at startup rather than on the first request.
	inst, err := factory()
	if err != nil {
		return nil, nil, err
	}
	inst.Close()

	hubCfg := live.DefaultConfig()
	hubCfg.Logger = e.logger
	hubCfg.Metrics = m
	if len(e.cfg.Preview.AllowedOrigins) > 0 {
		hubCfg.CheckOrigin = live.AllowOrigins(e.cfg.Preview.AllowedOrigins...)
	}
	hub := live.NewHub(factory, hubCfg)

	title := e.manifest.Title
	if title == "" {
		title = e.cfg.Name
	}
	handler := live.NewServer(hub, factory, live.ServerConfig{
		Shell: live.ShellConfig{Title: title, Logger: e.logger},
		Extra: extra,
	})
	return handler, hub, nil
}

func metricsPath(cfg *config.Config) string {
	if cfg.Preview.MetricsPath != "" {
		return cfg.Preview.MetricsPath
	}
	return config.DefaultMetricsPath
}

func runPreview(cmd *cobra.Command, e *env) error {
	handler, hub, err := previewHandler(e)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              e.cfg.PreviewAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	success(out, "Serving %s", e.manifest.Source)
	info(out, "Local:   %s", e.cfg.PreviewURL())
	if e.cfg.Preview.Metrics {
		info(out, "Metrics: %s%s", e.cfg.PreviewURL(), metricsPath(e.cfg))
	}
	fmt.Fprintln(out)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		hub.Close()
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	fmt.Fprintln(out, "\n  Shutting down...")
	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
