// Package middleware provides router middleware for observability.
//
// This package includes:
//   - Prometheus metrics for navigations and preview sessions
//   - OpenTelemetry tracing, one span per navigation
//   - Structured logging and panic recovery
//
// All constructors return router.Middleware values meant for Router.Use so
// they wrap every navigation, including unmatched ones:
//
//	r := router.New(routes)
//	r.Use(
//	    middleware.Recover(logger),
//	    middleware.Logging(logger),
//	    middleware.OpenTelemetry(middleware.WithTracerName("docs-site")),
//	    middleware.Prometheus(),
//	)
//
// # Prometheus Metrics
//
// Metrics collected (namespace "viewroute" by default):
//   - viewroute_navigations_total{route,status}
//   - viewroute_navigation_duration_seconds{route}
//   - viewroute_navigation_errors_total{route,error_type}
//   - viewroute_active_sessions
//   - viewroute_patches_sent_total
//
// Expose them with promhttp:
//
//	http.Handle("/metrics", promhttp.Handler())
package middleware
