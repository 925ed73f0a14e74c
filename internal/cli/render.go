package cli

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/youruser/topster/internal/links"
	"github.com/youruser/topster/internal/logging"
	"github.com/youruser/topster/internal/topster"
	"github.com/youruser/topster/internal/util"
)

type renderOptions struct {
	theme  string
	w, h   int
	cell   int
	gap    int
	bg     string
	links  []string
	output string
}

func newRenderCmd(root *rootOptions) *cobra.Command {
	return renderCmd(root, &renderOptions{})
}

func renderCmd(root *rootOptions, opts *renderOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [flags] [link...]",
		Short: "Render a poster to a PNG file",
		Long: `Render a poster with the same engine the server uses. Links fill cells in
order; an empty string leaves a cell blank. Each link is a video id,
optionally followed by ?t=seconds.`,
		Example: `  topster render -o mix.png --w 2 --h 1 dQw4w9WgXcQ 9bZkp7q19f0
  topster render -o classic.png --theme classic --cell 120 abc123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)

			opts.links = append(opts.links, args...)
			res, err := newRenderer(ctx, root.cfg).Render(ctx, topster.ParseParams(opts.query(cmd)))
			if err != nil {
				return err
			}
			if err := util.WriteFile(opts.output, res.PNG); err != nil {
				return fmt.Errorf("writing %s: %w", opts.output, err)
			}
			logger.Info("poster written",
				"path", opts.output,
				"width", res.Width,
				"height", res.Height,
				"placed", res.Placed,
				"failed", res.Failed,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.theme, "theme", "grid", "layout theme: grid or classic")
	cmd.Flags().IntVar(&opts.w, "w", 3, "grid columns")
	cmd.Flags().IntVar(&opts.h, "h", 3, "grid rows")
	cmd.Flags().IntVar(&opts.cell, "cell", 0, "base cell size in px (0 for the theme default)")
	cmd.Flags().IntVar(&opts.gap, "gap", 10, "gap between cells in px")
	cmd.Flags().StringVar(&opts.bg, "bg", "", "background hex color")
	cmd.Flags().StringArrayVarP(&opts.links, "link", "l", nil, "cell content, repeatable")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "topster.png", "output file")
	return cmd
}

// query builds the same query string the HTTP endpoint receives, so both
// paths share parsing and clamping.
func (o *renderOptions) query(cmd *cobra.Command) url.Values {
	q := url.Values{}
	if o.theme != "" {
		q.Set("theme", o.theme)
	}
	q.Set("w", strconv.Itoa(o.w))
	q.Set("h", strconv.Itoa(o.h))
	if cmd.Flags().Changed("cell") || o.cell > 0 {
		q.Set("cell", strconv.Itoa(o.cell))
	}
	q.Set("gap", strconv.Itoa(o.gap))
	if o.bg != "" {
		q.Set("bg", o.bg)
	}
	for i, l := range o.links {
		if l != "" {
			q.Set(links.Key(i), l)
		}
	}
	return q
}
