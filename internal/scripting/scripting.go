package scripting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 250 * time.Millisecond

// ErrInterrupted is returned when a script ran past its deadline.
var ErrInterrupted = errors.New("scripting: script interrupted")

// Script is a compiled script.
type Script struct {
	Name    string
	Source  string
	program *goja.Program
}

// Compile wraps src in a function so that it may use return, and compiles it
// in strict mode.
func Compile(name, src string) (*Script, error) {
	p, err := goja.Compile(name, wrapSrc(src), true)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return &Script{Name: name, Source: src, program: p}, nil
}

func wrapSrc(src string) string {
	return fmt.Sprintf("(function() {\n%s\n}());\n", src)
}

// RouteInfo describes the route a script is attached to.
type RouteInfo struct {
	Name string
	Path string
}

// PageInfo describes the navigation a script runs in.
type PageInfo struct {
	ID     string
	Path   string
	Params map[string]string
	Query  map[string][]string
	State  map[string]any
}

// Env is the environment of one script run.
type Env struct {
	Route RouteInfo
	Page  PageInfo
}

// Runtime executes scripts one at a time.
type Runtime struct {
	mu      sync.Mutex
	vm      *goja.Runtime
	logger  *slog.Logger
	timeout time.Duration
	runs    int
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger backing the script log function.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		rt.logger = logger
	}
}

// WithTimeout sets the per-run deadline. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(rt *Runtime) {
		rt.timeout = d
	}
}

// New creates a Runtime.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		vm:      goja.New(),
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(rt)
	}
	rt.logger = rt.logger.With("component", "scripting")
	rt.vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	return rt
}

// Run executes s and returns its exported result (nil when the script
// returned nothing).
func (rt *Runtime) Run(ctx context.Context, s *Script, env Env) (any, error) {
	if s == nil {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.runs++

	if err := rt.bind(s, env); err != nil {
		return nil, err
	}

	if rt.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.timeout)
		defer cancel()
	}

	ictx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ictx.Done()
		if ctx.Err() != nil {
			rt.vm.Interrupt(ErrInterrupted.Error())
		}
	}()

	v, err := rt.vm.RunProgram(s.program)
	cancel()
	<-done
	rt.vm.ClearInterrupt()

	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return nil, fmt.Errorf("%s: %w", s.Name, ErrInterrupted)
		}
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	return v.Export(), nil
}

// bind installs the globals for one run.
func (rt *Runtime) bind(s *Script, env Env) error {
	params := env.Page.Params
	if params == nil {
		params = map[string]string{}
	}
	query := env.Page.Query
	if query == nil {
		query = map[string][]string{}
	}
	state := env.Page.State
	if state == nil {
		state = map[string]any{}
	}

	globals := map[string]any{
		"route": map[string]any{
			"name": env.Route.Name,
			"path": env.Route.Path,
		},
		"page": map[string]any{
			"id":     env.Page.ID,
			"path":   env.Page.Path,
			"params": params,
			"query":  query,
			"state":  state,
		},
		"log": func(call goja.FunctionCall) goja.Value {
			args := make([]any, 0, len(call.Arguments))
			for _, a := range call.Arguments {
				args = append(args, a.Export())
			}
			rt.logger.Info("script log", "script", s.Name, "args", formatArgs(args))
			return goja.Undefined()
		},
	}
	for name, v := range globals {
		if err := rt.vm.Set(name, v); err != nil {
			return fmt.Errorf("bind %s: %w", name, err)
		}
	}
	return nil
}

func formatArgs(args []any) string {
	if len(args) == 1 {
		if s, ok := args[0].(string); ok {
			return s
		}
	}
	js, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprint(args...)
	}
	return string(js)
}

// Runs reports how many scripts have been run.
func (rt *Runtime) Runs() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.runs
}

// Truthy reports whether a script result lets a guarded navigation continue.
// nil (no return) and true continue; false, "" and 0 stop.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return x
	case string:
		return x != ""
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}
