package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/maxplotlib/maxplot/pkg/cache"
	"github.com/maxplotlib/maxplot/pkg/errors"
	"github.com/maxplotlib/maxplot/pkg/export"
	"github.com/maxplotlib/maxplot/pkg/figure"
	"github.com/maxplotlib/maxplot/pkg/observability"
	"github.com/maxplotlib/maxplot/pkg/render"
	"github.com/maxplotlib/maxplot/pkg/validate"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// exportPlan is one export request with its resolved format and cache key.
type exportPlan struct {
	req    export.Request
	format export.Format
	key    string
	cached []byte
}

// Execute runs the complete validate → render → export pipeline with
// artifact caching. The figure is normalized once, rendered at most once,
// and every requested artifact is written from that single render.
func (r *Runner) Execute(ctx context.Context, f *figure.Figure, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errors.New(errors.ErrCodeInvalidSpec, "nil figure")
	}

	result := &Result{Backend: opts.Backend}

	// Stage 1: Validate
	axesCount := len(f.Axes())
	validateStart := time.Now()
	observability.Pipeline().OnValidateStart(ctx, axesCount)
	nf, err := validate.Normalize(f)
	result.Stats.ValidateTime = time.Since(validateStart)
	observability.Pipeline().OnValidateComplete(ctx, axesCount, result.Stats.ValidateTime, err)
	if err != nil {
		return nil, err
	}
	result.Figure = nf

	specData, err := figure.Marshal(f)
	if err != nil {
		return nil, err
	}
	result.FigureHash = cache.Hash(specData)

	r.Logger.Info("validated figure",
		"axes", axesCount,
		"hash", result.FigureHash[:12],
		"duration", result.Stats.ValidateTime)

	plans, err := r.planExports(ctx, result.FigureHash, opts)
	if err != nil {
		return nil, err
	}

	// Stage 2: Render, skipped when every artifact is already cached.
	var h render.Handle
	if missing(plans) {
		renderStart := time.Now()
		observability.Pipeline().OnRenderStart(ctx, opts.Backend)
		h, err = render.Render(opts.Backend, nf)
		result.Stats.RenderTime = time.Since(renderStart)
		observability.Pipeline().OnRenderComplete(ctx, opts.Backend, result.Stats.RenderTime, err)
		if err != nil {
			return nil, err
		}
		defer func() { _ = h.Close() }()
		result.HandleID = h.ID()

		r.Logger.Info("rendered figure",
			"backend", opts.Backend,
			"handle", h.ID(),
			"duration", result.Stats.RenderTime)
	} else {
		result.CacheInfo.RenderSkipped = true
		r.Logger.Info("render skipped, all artifacts cached", "backend", opts.Backend)
	}

	// Stage 3: Export
	exportStart := time.Now()
	for i := range plans {
		path, err := r.runExport(ctx, h, &plans[i], opts, result)
		if err != nil {
			result.Stats.ExportTime = time.Since(exportStart)
			return result, err
		}
		result.Paths = append(result.Paths, path)
	}
	result.Stats.ExportTime = time.Since(exportStart)

	r.Logger.Info("exported artifacts",
		"count", len(result.Paths),
		"cache_hits", result.CacheInfo.ArtifactHits,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// planExports resolves formats, rejects duplicate targets, and probes the
// artifact cache for every request.
func (r *Runner) planExports(ctx context.Context, figureHash string, opts Options) ([]exportPlan, error) {
	seen := make(map[string]bool, len(opts.Exports))
	plans := make([]exportPlan, 0, len(opts.Exports))

	for _, req := range opts.Exports {
		if err := errors.ValidateExportPath(req.Path); err != nil {
			return nil, err
		}
		target := filepath.Clean(req.Path)
		if seen[target] {
			return nil, errors.New(errors.ErrCodeExportConflict,
				"duplicate export target %q in one batch", target)
		}
		seen[target] = true

		format := req.Format
		if format == "" {
			var err error
			if format, err = export.FormatFromPath(req.Path); err != nil {
				return nil, err
			}
		}

		plan := exportPlan{
			req:    req,
			format: format,
			key: r.Keyer.ArtifactKey(figureHash, cache.ArtifactKeyOpts{
				Backend:    opts.Backend,
				Format:     string(format),
				DPI:        req.DPI,
				FontMode:   string(req.FontMode),
				Standalone: req.Standalone,
				Static:     req.Static,
			}),
		}

		data, found, err := r.Cache.Get(ctx, plan.key)
		if err != nil {
			r.Logger.Warn("artifact cache read failed", "error", err)
		} else if found {
			observability.Cache().OnCacheHit(ctx, "artifact")
			plan.cached = data
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}

		plans = append(plans, plan)
	}
	return plans, nil
}

func missing(plans []exportPlan) bool {
	for i := range plans {
		if plans[i].cached == nil {
			return true
		}
	}
	return false
}

// runExport writes one artifact, from cache when possible, otherwise from
// the handle, caching the fresh bytes for the next run.
func (r *Runner) runExport(ctx context.Context, h render.Handle, plan *exportPlan, opts Options, result *Result) (string, error) {
	start := time.Now()
	observability.Pipeline().OnExportStart(ctx, string(plan.format), plan.req.Path)

	data := plan.cached
	if data == nil {
		if !h.Capabilities().Has(capabilityFor(plan.format)) {
			err := render.ErrUnsupportedExport(h.Backend(), string(plan.format))
			observability.Pipeline().OnExportComplete(ctx, string(plan.format), plan.req.Path, 0, time.Since(start), err)
			return "", err
		}
		var err error
		data, err = export.Buffer(h, plan.req)
		if err != nil {
			observability.Pipeline().OnExportComplete(ctx, string(plan.format), plan.req.Path, 0, time.Since(start), err)
			return "", err
		}
		if err := r.Cache.Set(ctx, plan.key, data, opts.ArtifactTTL); err != nil {
			r.Logger.Warn("artifact cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	} else {
		result.CacheInfo.ArtifactHits++
	}

	path, err := export.Write(plan.req.Path, data, plan.req.Overwrite)
	observability.Pipeline().OnExportComplete(ctx, string(plan.format), plan.req.Path, len(data), time.Since(start), err)
	if err != nil {
		return "", err
	}

	r.Logger.Debug("wrote artifact",
		"format", plan.format,
		"path", path,
		"bytes", len(data),
		"cached", plan.cached != nil)
	return path, nil
}
