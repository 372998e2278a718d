package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/viewroute/pkg/render"
)

func navigateCmd(flags *globalFlags) *cobra.Command {
	var (
		html      bool
		keepGoing bool
	)

	cmd := &cobra.Command{
		Use:   "navigate <path>...",
		Short: "Resolve paths and show what each view container displays",
		Long: `Navigate a freshly built site through each path in order and print the
matched route, its parameters and the page selected in every view container.
Guards, redirects and component scripts run as they would in the browser.

Examples:
  viewroute navigate /guide
  viewroute navigate /users/42 /guide/intro --html`,
		Args: cobra.MinimumNArgs(1),
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
			var failed int
			for _, path := range args {
				ctx, err := site.Navigate(cmd.Context(), path)
				if err != nil {
					warn(out, "%s: %v", path, err)
					failed++
					if !keepGoing {
						return err
					}
					continue
				}
				if ctx == nil || ctx.Name == "" {
					warn(out, "%s: navigation stopped by middleware", path)
					continue
				}

				success(out, "%s → %s", path, ctx.Name)
				if ctx.CanonicalPath != path {
					info(out, "resolved to %s", ctx.CanonicalPath)
				}
				if len(ctx.Params) > 0 {
					info(out, "params: %s", formatParams(ctx.Params))
				}
				for _, c := range site.Containers {
					selected := c.Selected()
					if selected == "" {
						selected = "-"
					}
					info(out, "%s: %s", c.Name, selected)
				}
			}

			if html {
				s, err := render.NewRenderer(render.RendererConfig{Pretty: true, OmitHIDs: true}).
					RenderToString(site.Document)
				if err != nil {
					return err
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, s)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d navigations failed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&html, "html", false, "Print the document after the last navigation")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Continue after a failed navigation")

	return cmd
}

func formatParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + params[k]
	}
	return strings.Join(parts, " ")
}
