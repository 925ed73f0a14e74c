// Package cli implements the topster command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/youruser/topster/internal/config"
	imagepkg "github.com/youruser/topster/internal/image"
	"github.com/youruser/topster/internal/logging"
	"github.com/youruser/topster/internal/topster"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
// Values are injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version, commit, date = v, c, d
}

type rootOptions struct {
	configPath string
	verbose    bool

	cfg    config.Config
	closer io.Closer
}

// Execute runs the topster CLI.
func Execute() error {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "topster",
		Short:        "Render video thumbnail posters",
		Long:         `topster renders grid and classic-42 posters from video thumbnails, either over HTTP or straight to a file.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			logger, closer := logging.FromConfig(cfg.Log, opts.verbose)
			opts.cfg, opts.closer = cfg, closer
			cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.closer != nil {
				return opts.closer.Close()
			}
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("topster %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", envOr("TOPSTER_CONFIG", "topster.yaml"), "path to config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newRenderCmd(opts))

	return root.ExecuteContext(context.Background())
}

// newRenderer wires the engine from config. The footer asset is read here,
// once, rather than per request.
func newRenderer(ctx context.Context, cfg config.Config) *topster.Renderer {
	logger := logging.FromContext(ctx)

	footer, err := imagepkg.LoadFooter(cfg.Footer.Asset, cfg.Footer.Caption)
	if err != nil {
		logger.Warn("footer asset unusable, drawing caption", "path", cfg.Footer.Asset, "err", err)
	} else if footer.HasAsset() {
		logger.Debug("footer asset loaded", "path", cfg.Footer.Asset)
	}

	d := imagepkg.NewDownloader(nil, cfg.Thumbnails.Chain, cfg.Thumbnails.AttemptTimeout)
	return topster.NewRenderer(d, footer, cfg.Thumbnails.MaxConcurrency)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
