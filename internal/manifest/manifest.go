package manifest

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/vango-dev/viewroute/internal/errors"
	"github.com/vango-dev/viewroute/pkg/router"
)

// Manifest is the parsed form of a route manifest.
type Manifest struct {
	// BasePath is the URL prefix all routes live under.
	BasePath string `yaml:"basePath"`

	// Title is the document title.
	Title string `yaml:"title"`

	Routes []RouteSpec `yaml:"routes"`
	Views  []ViewSpec  `yaml:"views"`

	// Source is where the manifest was read from.
	Source string `yaml:"-"`
}

// RouteSpec declares one route.
type RouteSpec struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`

	// Middlewares are names resolved against the build's middleware registry.
	Middlewares []string `yaml:"middlewares"`

	// Script runs as the route's component callback.
	Script string `yaml:"script"`

	// Guard runs before the route's middlewares. A string result redirects,
	// a falsy result stops the navigation.
	Guard string `yaml:"guard"`

	// Redirect sends every navigation of this route elsewhere.
	Redirect string `yaml:"redirect"`

	Children []RouteSpec `yaml:"children"`
}

// ViewSpec declares a view container.
type ViewSpec struct {
	Name string `yaml:"name"`

	// AttrForSelected is the page attribute compared with route names.
	AttrForSelected string `yaml:"attrForSelected"`

	// Animation is the container's default enter animation.
	Animation string `yaml:"animation"`

	Pages []PageSpec `yaml:"pages"`
}

// PageSpec declares a candidate child of a view container.
type PageSpec struct {
	// Name selects the route this page shows for.
	Name string `yaml:"name"`

	Title string `yaml:"title"`

	// Content is markdown.
	Content string `yaml:"content"`

	// Animation overrides the container's enter animation.
	Animation string `yaml:"animation"`

	Views []ViewSpec `yaml:"views"`
}

// Parse decodes a manifest. Unknown keys are rejected. source names the
// manifest in errors.
func Parse(data []byte, source string) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.UnmarshalStrict(data, m); err != nil {
		e := errors.New("E221").Wrap(err).WithDetail(err.Error())
		var line int
		if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr == nil && source != "" {
			e = e.WithSnippet(source, data, line, 0)
		}
		return nil, e
	}
	m.Source = source
	return m, nil
}

// Validate checks what the router's own validation cannot: that pages select
// existing routes and that guards and redirects are usable.
func (m *Manifest) Validate() error {
	names := map[string]bool{}
	var problems []string

	var walkRoutes func(routes []RouteSpec, label string)
	walkRoutes = func(routes []RouteSpec, label string) {
		for _, r := range routes {
			l := label + "/" + r.Name
			if r.Name == "" {
				problems = append(problems, fmt.Sprintf("route %q under %s has no name", r.Path, label))
			}
			if r.Redirect != "" && !strings.HasPrefix(r.Redirect, "/") {
				problems = append(problems, fmt.Sprintf("route %s redirect %q must start with /", l, r.Redirect))
			}
			if r.Redirect != "" && r.Guard != "" {
				problems = append(problems, fmt.Sprintf("route %s has both guard and redirect", l))
			}
			names[r.Name] = true
			walkRoutes(r.Children, l)
		}
	}
	walkRoutes(m.Routes, "")

	var walkViews func(views []ViewSpec)
	walkViews = func(views []ViewSpec) {
		for _, v := range views {
			byName := v.AttrForSelected == "" || v.AttrForSelected == router.DefaultAttrForSelected
			for _, p := range v.Pages {
				if byName && !names[p.Name] {
					problems = append(problems, fmt.Sprintf("view %q page %q selects no route", v.Name, p.Name))
				}
				walkViews(p.Views)
			}
		}
	}
	walkViews(m.Views)

	if len(problems) == 0 {
		return nil
	}
	code := "E225"
	for _, p := range problems {
		if !strings.Contains(p, "selects no route") {
			code = "E221"
			break
		}
	}
	detail := strings.Join(problems, "; ")
	if m.Source != "" {
		detail = m.Source + ": " + detail
	}
	return errors.New(code).WithDetail(detail)
}

// RouteCount returns the number of routes declared, nested ones included.
func (m *Manifest) RouteCount() int {
	var count func([]RouteSpec) int
	count = func(routes []RouteSpec) int {
		n := len(routes)
		for _, r := range routes {
			n += count(r.Children)
		}
		return n
	}
	return count(m.Routes)
}
