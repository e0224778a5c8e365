package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/scatterbox/pkg/board"
	"github.com/matzehuels/scatterbox/pkg/cache"
	"github.com/matzehuels/scatterbox/pkg/errors"
	"github.com/matzehuels/scatterbox/pkg/gallery"
	"github.com/matzehuels/scatterbox/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger; it doesn't
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

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Gallery = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ItemCount = g.Len()

	r.Logger.Info("loaded gallery",
		"source", g.Source,
		"projects", g.Len(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	b, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Board = b
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Radius = b.Radius
	result.Stats.SampleCount = b.SampleCount
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"tiles", len(b.Tiles),
		"samples", b.SampleCount,
		"radius", fmt.Sprintf("%.1f", b.Radius),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, b, opts)
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

// Load reads the gallery. Gallery documents are small and change often, so
// they are never cached; their hash keys the layout cache instead.
func (r *Runner) Load(ctx context.Context, opts Options) (*gallery.Gallery, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	return gallery.Load(ctx, opts.Gallery, &gallery.LoadOptions{
		Format: opts.GalleryFormat,
		Client: opts.Client,
	})
}

// LayoutWithCacheInfo lays out a gallery with caching and returns cache hit info.
// Only seeded layouts are cached; see [Options.Cacheable].
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *gallery.Gallery, opts Options) (*board.Board, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.LayoutKey(g.Hash, opts.LayoutKeyOpts())
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	if opts.Cacheable() {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := board.Unmarshal(data); err == nil {
				cacheHooks.OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// Undecodable entries fall through to recompute.
		}
		cacheHooks.OnCacheMiss(ctx, "layout")
	}

	hooks.OnLayoutStart(ctx, g.Len())
	start := time.Now()
	b, err := GenerateBoard(ctx, g, opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, g.Len(), 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnLayoutComplete(ctx, g.Len(), b.SampleCount, time.Since(start), nil)

	if opts.Seed != 0 {
		if data, err := board.Marshal(b); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL)
			cacheHooks.OnCacheSet(ctx, "layout", len(data))
		}
	}

	return b, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *gallery.Gallery, opts Options) (*board.Board, error) {
	b, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return b, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, b *board.Board, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	boardData, err := board.Marshal(b)
	if err != nil {
		return nil, false, fmt.Errorf("serialize board for cache key: %w", err)
	}
	boardHash := cache.Hash(boardData)
	cacheHooks := observability.Cache()

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(boardHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			cacheHooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		cacheHooks.OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, b, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(boardHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, key, data, cache.ArtifactTTL)
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, b *board.Board, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, b, opts)
	return artifacts, err
}

// SaveBoard stores a board under its ID so it can be fetched later.
func (r *Runner) SaveBoard(ctx context.Context, b *board.Board) error {
	data, err := board.Marshal(b)
	if err != nil {
		return fmt.Errorf("serialize board: %w", err)
	}
	if err := r.Cache.Set(ctx, r.Keyer.BoardKey(b.ID), data, cache.BoardTTL); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "store board %s", b.ID)
	}
	return nil
}

// LoadBoard fetches a board saved with SaveBoard.
func (r *Runner) LoadBoard(ctx context.Context, id string) (*board.Board, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	data, hit, err := r.Cache.Get(ctx, r.Keyer.BoardKey(id))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read board %s", id)
	}
	if !hit {
		return nil, errors.New(errors.ErrCodeNotFound, "layout %s not found", id)
	}
	return board.Unmarshal(data)
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
