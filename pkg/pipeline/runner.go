package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/plasmap/pkg/cache"
	"github.com/matzehuels/plasmap/pkg/feature"
	"github.com/matzehuels/plasmap/pkg/render/plasmid"
)

// Runner executes the pipeline with caching. It holds no per-run state and
// may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// means the default one.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: cache.Instrumented(c), Keyer: keyer, Logger: logger}
}

// Execute reads data, draws the map and renders every requested format.
// When the layout and all artifacts are cached the map is not drawn at all.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res := &Result{}
	start := time.Now()
	seq, hash, hit, err := r.Read(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	res.Sequence, res.SequenceHash = seq, hash
	res.Stats.FeatureCount = len(seq.Features)
	res.Stats.ParseTime = time.Since(start)
	res.CacheInfo.ParseHit = hit
	r.Logger.Info("read features", "source", opts.Source, "features", len(seq.Features), "length", seq.Length, "cached", hit)

	return r.complete(ctx, res, opts)
}

// ExecuteSequence runs layout and render for an already parsed sequence,
// such as one loaded from the store.
func (r *Runner) ExecuteSequence(ctx context.Context, seq *feature.Sequence, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	norm, err := json.Marshal(seq)
	if err != nil {
		return nil, fmt.Errorf("encode sequence: %w", err)
	}
	res := &Result{
		Sequence:     seq,
		SequenceHash: cache.Hash(norm),
		Stats:        Stats{FeatureCount: len(seq.Features)},
	}
	return r.complete(ctx, res, opts)
}

func (r *Runner) complete(ctx context.Context, res *Result, opts Options) (*Result, error) {
	layoutKey := r.Keyer.LayoutKey(res.SequenceHash, opts.LayoutKeyOpts())
	layoutHash := cache.Hash([]byte(layoutKey))
	cacheable := layoutKey != ""
	if !cacheable {
		r.Logger.Warn("options have no stable cache key, caching disabled for this run")
	}

	if cacheable && !opts.Refresh {
		if l, artifacts, ok := r.cached(ctx, layoutKey, layoutHash, opts); ok {
			res.Layout, res.Artifacts = l, artifacts
			res.CacheInfo.LayoutHit, res.CacheInfo.RenderHit = true, true
			r.Logger.Debug("served from cache", "formats", opts.Formats)
			return res, nil
		}
	}

	start := time.Now()
	m, scene, err := Layout(ctx, res.Sequence, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.Map, res.Scene, res.Layout = m, scene, m.Layout()
	res.Stats.LayoutTime = time.Since(start)
	r.Logger.Info("drew map", "topology", opts.Topology, "extent", m.MaxExtent(), "duration", res.Stats.LayoutTime)
	if data, err := json.Marshal(res.Layout); err == nil && cacheable {
		r.store(ctx, layoutKey, data, cache.TTLLayout)
	}

	start = time.Now()
	artifacts, err := Render(ctx, m, scene, opts)
	if err != nil {
		return nil, err
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(start)
	r.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", res.Stats.RenderTime)

	for format, data := range artifacts {
		if cacheable {
			r.store(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
		}
	}
	return res, nil
}

// Read decodes data, consulting the cache by content hash. The returned
// hash identifies the normalized feature list, so inputs differing only
// in formatting share layouts.
func (r *Runner) Read(ctx context.Context, data []byte, opts Options) (*feature.Sequence, string, bool, error) {
	key := r.Keyer.SequenceKey(cache.Hash(data))
	if !opts.Refresh {
		if norm, ok := r.load(ctx, key); ok {
			if seq, err := feature.Read(norm); err == nil {
				return seq, cache.Hash(norm), true, nil
			}
		}
	}

	seq, err := Read(ctx, data, opts.Source)
	if err != nil {
		return nil, "", false, err
	}
	norm, err := json.Marshal(seq)
	if err != nil {
		return nil, "", false, fmt.Errorf("encode sequence: %w", err)
	}
	r.store(ctx, key, norm, cache.TTLSequence)
	return seq, cache.Hash(norm), false, nil
}

// cached returns the layout and every requested artifact, or false if any
// of them is missing.
func (r *Runner) cached(ctx context.Context, layoutKey, layoutHash string, opts Options) (plasmid.Layout, map[string][]byte, bool) {
	var l plasmid.Layout
	data, ok := r.load(ctx, layoutKey)
	if !ok || json.Unmarshal(data, &l) != nil {
		return l, nil, false
	}
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, ok := r.load(ctx, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
		if !ok {
			return l, nil, false
		}
		artifacts[format] = data
	}
	return l, artifacts, true
}

// load reads from the cache; backend failures count as misses.
func (r *Runner) load(ctx context.Context, key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	return data, hit
}

// store writes to the cache, retrying transient failures. Errors are
// logged, never returned.
func (r *Runner) store(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if key == "" {
		return
	}
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}
