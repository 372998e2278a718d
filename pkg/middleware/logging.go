package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/vango-dev/viewroute/pkg/router"
)

// Logging logs one line per navigation at info level, or at warn level when
// the chain returned an error.
func Logging(logger *slog.Logger) router.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return router.MiddlewareFunc(func(ctx *router.Context, next func() error) error {
		start := time.Now()
		err := next()

		attrs := []any{
			"id", ctx.ID,
			"path", ctx.CanonicalPath,
			"route", routeLabel(ctx),
			"duration", time.Since(start),
		}
		if ctx.Replace {
			attrs = append(attrs, "replace", true)
		}
		if err != nil {
			logger.Warn("navigation", append(attrs, "error", err)...)
		} else {
			logger.Info("navigation", attrs...)
		}
		return err
	})
}

// Recover turns a panic in later middleware, hooks or components into an
// error returned from Navigate.
func Recover(logger *slog.Logger) router.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return router.MiddlewareFunc(func(ctx *router.Context, next func() error) (err error) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("navigation panic",
					"id", ctx.ID,
					"path", ctx.CanonicalPath,
					"panic", p,
					"stack", string(debug.Stack()),
				)
				err = fmt.Errorf("panic during navigation to %s: %v", ctx.CanonicalPath, p)
			}
		}()
		return next()
	})
}
