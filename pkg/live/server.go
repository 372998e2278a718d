package live

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ServerConfig configures NewServer.
type ServerConfig struct {
	Shell ShellConfig

	// Extra handlers mounted before the catch-all shell, keyed by path
	// (e.g. "/metrics").
	Extra map[string]http.Handler
}

// NewServer returns a handler serving the hub at Shell.WSPath, the extra
// handlers, and the shell page for every other GET.
func NewServer(hub *Hub, factory Factory, cfg ServerConfig) http.Handler {
	if cfg.Shell.WSPath == "" {
		cfg.Shell.WSPath = DefaultWSPath
	}
	if cfg.Shell.Logger == nil {
		cfg.Shell.Logger = hub.logger
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Handle(cfg.Shell.WSPath, hub)
	for path, h := range cfg.Extra {
		r.Handle(path, h)
	}
	r.Get("/*", ShellHandler(factory, cfg.Shell))

	return r
}
