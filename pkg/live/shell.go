package live

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vango-dev/viewroute/pkg/render"
	"github.com/vango-dev/viewroute/pkg/router"
)

// DefaultWSPath is where Server mounts the hub.
const DefaultWSPath = "/_viewroute/ws"

// DefaultStyles hides inactive container children and runs the default
// enter animation.
const DefaultStyles = `view-container > :not([active]) { display: none; }
.page-enter { animation: viewroute-fade 150ms ease-out; }
@keyframes viewroute-fade { from { opacity: 0; } to { opacity: 1; } }`

// ShellConfig configures the HTML shell page.
type ShellConfig struct {
	Title  string
	Lang   string
	WSPath string

	// Styles replace DefaultStyles when set.
	Styles []string

	Logger *slog.Logger
}

// ShellHandler serves the preview page for any path. The document is
// rendered after navigating a fresh instance to the request path, so the
// first paint already shows the right page. Unknown paths render with 404.
func ShellHandler(factory Factory, cfg ShellConfig) http.HandlerFunc {
	if cfg.WSPath == "" {
		cfg.WSPath = DefaultWSPath
	}
	styles := cfg.Styles
	if len(styles) == 0 {
		styles = []string{DefaultStyles}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	renderer := render.NewRenderer(render.RendererConfig{})
	script := ClientScript(cfg.WSPath)

	return func(w http.ResponseWriter, r *http.Request) {
		inst, err := factory()
		if err != nil {
			logger.Error("shell instance failed", "error", err)
			http.Error(w, "preview unavailable", http.StatusInternalServerError)
			return
		}
		if inst.Close != nil {
			defer inst.Close()
		}

		status := http.StatusOK
		title := cfg.Title
		ctx, err := inst.Router.Navigate(r.Context(), r.URL.RequestURI())
		switch {
		case err == nil:
			if ctx.Name != "" && title != "" {
				title = ctx.Name + " · " + title
			}
		case errors.Is(err, router.ErrNoRoute), errors.Is(err, router.ErrOutsideBase):
			status = http.StatusNotFound
		default:
			logger.Warn("shell navigation failed", "path", r.URL.Path, "error", err)
		}

		var b strings.Builder
		if err := renderer.RenderPage(&b, render.PageData{
			Body:    inst.Document,
			Title:   title,
			Lang:    cfg.Lang,
			Styles:  styles,
			Scripts: []render.ScriptTag{{Inline: script}},
		}); err != nil {
			logger.Error("shell render failed", "error", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(b.String()))
	}
}

// ClientScript returns the browser side of the protocol, connecting to
// wsPath on the page's host.
func ClientScript(wsPath string) string {
	path, _ := json.Marshal(wsPath)
	return strings.Replace(clientScript, "__WS_PATH__", string(path), 1)
}

const clientScript = `
(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;
    var ws = null;

    function send(msg) {
        if (ws && ws.readyState === WebSocket.OPEN) {
            ws.send(JSON.stringify(msg));
        }
    }

    function navigate(path, replace) {
        send({type: 'navigate', path: path, replace: !!replace});
    }

    function applyPatch(p) {
        var el = document.querySelector('[data-hid="' + p.hid + '"]');
        if (!el) {
            return;
        }
        switch (p.op) {
            case 'SetAttr':
                el.setAttribute(p.key, p.value || '');
                break;
            case 'RemoveAttr':
                el.removeAttribute(p.key);
                break;
            case 'SetText':
                el.textContent = p.value || '';
                break;
        }
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + __WS_PATH__);

        ws.onopen = function() {
            reconnectDelay = 1000;
            navigate(location.pathname + location.search, true);
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.type) {
                case 'page-changed':
                    if (msg.path !== location.pathname + location.search) {
                        if (msg.replace) {
                            history.replaceState({}, '', msg.path);
                        } else {
                            history.pushState({}, '', msg.path);
                        }
                    }
                    document.dispatchEvent(new CustomEvent('page-changed', {detail: msg}));
                    break;

                case 'patch':
                    (msg.patches || []).forEach(applyPatch);
                    break;

                case 'error':
                    console.warn('[viewroute]', msg.path || '', msg.error);
                    break;
            }
        };

        ws.onclose = function() {
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    document.addEventListener('click', function(e) {
        var a = e.target.closest && e.target.closest('a[href]');
        if (!a || a.origin !== location.origin || a.target || e.metaKey || e.ctrlKey || e.shiftKey) {
            return;
        }
        e.preventDefault();
        navigate(a.pathname + a.search, false);
    });

    window.addEventListener('popstate', function() {
        navigate(location.pathname + location.search, true);
    });

    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
`
