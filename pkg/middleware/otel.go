package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/viewroute/pkg/router"
)

// Default tracer name for viewroute applications.
const defaultTracerName = "viewroute"

// spanContextKey is the Context value key holding the span's context.Context.
const spanContextKey = "middleware.otel.span"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "viewroute").
	TracerName string

	// IncludeQuery adds the raw query string to spans.
	// May contain sensitive information - disabled by default.
	IncludeQuery bool

	// Filter determines which navigations to trace.
	// If nil, all navigations are traced.
	Filter func(ctx *router.Context) bool

	// AttributeExtractor extracts custom attributes from the context.
	AttributeExtractor func(ctx *router.Context) []attribute.KeyValue

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithIncludeQuery enables including the query string in spans.
func WithIncludeQuery(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludeQuery = include
	}
}

// WithNavigationFilter sets a filter function for navigations.
func WithNavigationFilter(filter func(ctx *router.Context) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ctx *router.Context) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// WithTracerProvider uses provider instead of the global tracer provider.
func WithTracerProvider(provider trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = provider
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that traces every navigation.
//
// The middleware:
//   - Creates a span per navigation with path and navigation ID
//   - Injects the span into ctx.StdContext() for components and later middleware
//   - Records errors and sets span status
//   - Adds the matched route name once the chain returns
//
// The tracer comes from the global OpenTelemetry tracer provider unless
// WithTracerProvider is given. Configure it in main() before starting the
// router:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
func OpenTelemetry(opts ...OTelOption) router.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return router.MiddlewareFunc(func(ctx *router.Context, next func() error) error {
		if config.Filter != nil && !config.Filter(ctx) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("viewroute.path", ctx.CanonicalPath),
			attribute.String("viewroute.navigation_id", ctx.ID),
			attribute.Bool("viewroute.replace", ctx.Replace),
		}
		if ctx.Pattern != "" {
			attrs = append(attrs, attribute.String("viewroute.pattern", ctx.Pattern))
		}
		if config.IncludeQuery && ctx.Querystring != "" {
			attrs = append(attrs, attribute.String("viewroute.query", ctx.Querystring))
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ctx)...)
		}

		spanCtx, span := config.tracer.Start(
			ctx.StdContext(),
			formatSpanName(ctx),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
			trace.WithTimestamp(time.Now()),
		)
		defer span.End()

		ctx.SetValue(spanContextKey, spanCtx)
		ctx.WithStdContext(spanCtx)

		err := next()

		span.SetAttributes(attribute.String("viewroute.route", routeLabel(ctx)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	})
}

// SpanFromContext retrieves the navigation span from the context.
// Returns nil if no span is available.
//
// Example:
//
//	func(ctx *router.Context, next func() error) error {
//	    if span := middleware.SpanFromContext(ctx); span != nil {
//	        span.AddEvent("guard.checked")
//	    }
//	    return next()
//	}
func SpanFromContext(ctx *router.Context) trace.Span {
	if spanCtx, ok := ctx.Value(spanContextKey).(context.Context); ok {
		return trace.SpanFromContext(spanCtx)
	}
	return nil
}

// TraceContext returns the context carrying the navigation span, for
// propagation to outgoing calls.
func TraceContext(ctx *router.Context) context.Context {
	if spanCtx, ok := ctx.Value(spanContextKey).(context.Context); ok {
		return spanCtx
	}
	return ctx.StdContext()
}

func formatSpanName(ctx *router.Context) string {
	path := ctx.CanonicalPath
	if path == "" {
		path = "/"
	}
	return "viewroute.navigate " + path
}
