package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tactile/pkg/cache"
	"github.com/matzehuels/tactile/pkg/core/layout"
	tio "github.com/matzehuels/tactile/pkg/io"
	"github.com/matzehuels/tactile/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
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

// Execute runs the complete layout → render pipeline with caching.
// A job without an ID gets a fresh UUID.
func (r *Runner) Execute(ctx context.Context, job layout.Job, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	result := &Result{
		InputHash: HashJob(job),
		Stats: Stats{
			Sources: len(job.Sources),
			Regions: len(job.Regions),
		},
	}

	// Stage 1: Layout
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, job.ID, len(job.Sources))
	layoutStart := time.Now()
	l, layoutHit, err := r.layout(ctx, job, result.InputHash, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, job.ID, hookSummary(l), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.Pages = len(l.Pages)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"job", job.ID,
		"pages", len(l.Pages),
		"tiles", l.Summary.Tiles,
		"placed", l.Summary.Placed,
		"repositioned", l.Summary.Repositioned,
		"symbolized", l.Summary.Symbolized,
		"dropped", l.Summary.Dropped,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ExecuteBatch runs independent jobs concurrently, at most limit at a time
// (DefaultBatchLimit when limit <= 0). Results are returned in job order.
// The first failing job cancels the others and its error is returned.
func (r *Runner) ExecuteBatch(ctx context.Context, jobs []layout.Job, opts Options, limit int) ([]*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if limit <= 0 {
		limit = DefaultBatchLimit
	}

	results := make([]*Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := r.Execute(gctx, job, opts)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, job layout.Job, opts Options) (*layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	return r.layout(ctx, job, HashJob(job), opts)
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, job layout.Job, opts Options) (*layout.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, job, opts)
	return l, err
}

func (r *Runner) layout(ctx context.Context, job layout.Job, inputHash string, opts Options) (*layout.Layout, bool, error) {
	cacheKey := r.Keyer.LayoutKey(inputHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if l, err := decodeCachedLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				l.JobID = job.ID
				return l, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l, err := BuildLayout(ctx, job, opts)
	if err != nil {
		return nil, false, err
	}
	for _, d := range l.Summary.Density {
		observability.Pipeline().OnRegulate(ctx, d.Page, d.Initial, d.Achieved, d.Iterations)
	}

	if data, err := encodeCachedLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return l, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if opts.FontSize == 0 {
		opts.FontSize = DefaultFontSize
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// Compute cache key from layout data
	var buf bytes.Buffer
	if err := tio.WriteLayout(l, &buf); err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	parts := [][]byte{buf.Bytes()}
	for _, b := range l.Bitmaps {
		if b != nil {
			parts = append(parts, b.Pix)
		}
	}
	layoutHash := cache.HashParts(parts...)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, cacheKey)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := RenderLayout(l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// cachedLayout is the cache entry of a layout: the page model plus the
// regulated artwork, which the JSON model does not carry.
type cachedLayout struct {
	Layout  json.RawMessage `json:"layout"`
	Artwork [][]byte        `json:"artwork"`
}

func encodeCachedLayout(l *layout.Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := tio.WriteLayout(l, &buf); err != nil {
		return nil, err
	}
	entry := cachedLayout{Layout: buf.Bytes()}
	for _, b := range l.Bitmaps {
		var png bytes.Buffer
		if err := tio.WriteBitmap(b, &png); err != nil {
			return nil, err
		}
		entry.Artwork = append(entry.Artwork, png.Bytes())
	}
	return json.Marshal(entry)
}

func decodeCachedLayout(data []byte) (*layout.Layout, error) {
	var entry cachedLayout
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	l, err := tio.ReadLayout(bytes.NewReader(entry.Layout))
	if err != nil {
		return nil, err
	}
	for _, a := range entry.Artwork {
		b, _, err := tio.ReadBitmap(bytes.NewReader(a))
		if err != nil {
			return nil, err
		}
		l.Bitmaps = append(l.Bitmaps, b)
	}
	return l, nil
}

func hookSummary(l *layout.Layout) observability.LayoutSummary {
	if l == nil {
		return observability.LayoutSummary{}
	}
	return observability.LayoutSummary{
		Pages:        len(l.Pages),
		Tiles:        l.Summary.Tiles,
		Placed:       l.Summary.Placed,
		Repositioned: l.Summary.Repositioned,
		Symbolized:   l.Summary.Symbolized,
		Dropped:      l.Summary.Dropped,
		Warnings:     len(l.Warnings),
	}
}
