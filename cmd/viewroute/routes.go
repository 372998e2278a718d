package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/viewroute/internal/manifest"
	"github.com/vango-dev/viewroute/pkg/router"
)

func routesCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route tree",
		Long: `Print the manifest's route tree with each route's path and the
middleware, guard and redirect attached to it.

Examples:
  viewroute routes
  viewroute routes --manifest s3://site-config/routes.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			site, err := e.build()
			if err != nil {
				return err
			}
			defer site.Close()

			notes := routeNotes(e)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "ROUTE\tPATH\tNOTES\n")
			site.Router.Walk(func(route *router.Route, depth int) bool {
				fmt.Fprintf(tw, "%s%s\t%s\t%s\n",
					strings.Repeat("  ", depth), route.Name, route.Path, notes[route.Path])
				return true
			})
			return tw.Flush()
		},
	}
}

// routeNotes describes the extras of each route spec, keyed by path.
func routeNotes(e *env) map[string]string {
	notes := map[string]string{}
	var walk func(specs []manifest.RouteSpec)
	walk = func(specs []manifest.RouteSpec) {
		for _, spec := range specs {
			var parts []string
			if len(spec.Middlewares) > 0 {
				parts = append(parts, "middleware="+strings.Join(spec.Middlewares, ","))
			}
			if spec.Script != "" {
				parts = append(parts, "script")
			}
			if spec.Guard != "" {
				parts = append(parts, "guard")
			}
			if spec.Redirect != "" {
				parts = append(parts, "→ "+spec.Redirect)
			}
			notes[spec.Path] = strings.Join(parts, " ")
			walk(spec.Children)
		}
	}
	walk(e.manifest.Routes)
	return notes
}

func checkCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the config and manifest",
		Long: `Load viewroute.json and the manifest, build the route tree and the
view containers, and report the first problem found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := flags.load(cmd.Context())
			if err != nil {
				return err
			}
			site, err := e.build()
			if err != nil {
				return err
			}
			defer site.Close()

			out := cmd.OutOrStdout()
			success(out, "%s is valid", e.manifest.Source)
			info(out, "%d routes, %d view containers", e.manifest.RouteCount(), len(site.Containers))
			if site.Router.Base() != "" {
				info(out, "base path %s", site.Router.Base())
			}
			return nil
		},
	}
}
