package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maxplotlib/maxplot/pkg/cache"
	"github.com/maxplotlib/maxplot/pkg/export"
	"github.com/maxplotlib/maxplot/pkg/pipeline"
	"github.com/maxplotlib/maxplot/pkg/render"

	// Backends register themselves on import.
	_ "github.com/maxplotlib/maxplot/pkg/render/raster"
	_ "github.com/maxplotlib/maxplot/pkg/render/tikz"
	_ "github.com/maxplotlib/maxplot/pkg/render/web"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	outputs    []string // output file paths, format derived from extension
	backend    string   // backend name: "raster", "web", "tikz"
	dpi        float64  // raster resolution
	fontMode   string   // vector text handling: "text" or "path"
	standalone bool     // wrap markup exports in a complete document
	static     bool     // omit scripts from interactive exports
	overwrite  bool     // replace existing output files
	noCache    bool     // disable artifact caching
}

// newRenderCmd creates the render command for exporting figure documents.
// A single document is rendered once and exported to every requested output;
// the formats are derived from the output file extensions.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{
		backend: pipeline.DefaultBackend,
	}

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Render a TOML figure document to one or more outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.outputs) == 0 {
				return fmt.Errorf("at least one --output is required")
			}
			if err := validateFontMode(opts.fontMode); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.outputs, "output", "o", nil, "output file(s); format follows the extension (.png, .svg, .html, .tex)")
	cmd.Flags().StringVarP(&opts.backend, "backend", "b", opts.backend, "rendering backend: "+strings.Join(render.Backends(), ", "))
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 0, "raster resolution (default 100)")
	cmd.Flags().StringVar(&opts.fontMode, "font-mode", "", "vector text handling: text (default), path")
	cmd.Flags().BoolVar(&opts.standalone, "standalone", false, "wrap markup exports in a compilable document")
	cmd.Flags().BoolVar(&opts.static, "static", false, "omit scripts from interactive exports")
	cmd.Flags().BoolVar(&opts.overwrite, "overwrite", false, "replace existing output files")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

// validateFontMode checks that the font mode is either "text" or "path".
func validateFontMode(s string) error {
	if s != "" && s != string(render.FontModeText) && s != string(render.FontModePath) {
		return fmt.Errorf("invalid font mode: %s (must be 'text' or 'path')", s)
	}
	return nil
}

func runRender(ctx context.Context, document string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	f, err := loadFigure(document)
	if err != nil {
		printError("Failed to load %s", document)
		return err
	}
	logger.Debug("loaded figure document", "path", document, "axes", len(f.Axes()))

	requests := make([]export.Request, 0, len(opts.outputs))
	for _, out := range opts.outputs {
		requests = append(requests, export.Request{
			Path:       out,
			Overwrite:  opts.overwrite,
			DPI:        opts.dpi,
			FontMode:   render.FontMode(opts.fontMode),
			Standalone: opts.standalone,
			Static:     opts.static,
		})
	}

	var c cache.Cache
	if !opts.noCache {
		c = cache.NewMemoryCache()
		defer c.Close()
	}
	runner := pipeline.NewRunner(c, nil, logger)

	result, err := runner.Execute(ctx, f, pipeline.Options{
		Backend: opts.backend,
		Exports: requests,
	})
	if err != nil {
		printError("Render failed")
		return err
	}

	prog.done(fmt.Sprintf("Exported %d artifact(s) via %s", len(result.Paths), result.Backend))
	printSuccess("Rendered %s", document)
	for _, path := range result.Paths {
		printFile(path)
	}
	return nil
}
