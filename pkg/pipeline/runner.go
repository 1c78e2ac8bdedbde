package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/apiview/pkg/cache"
	"github.com/matzehuels/apiview/pkg/render"
)

// Runner executes the pipeline with an artifact cache.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached artifacts. Zero means cache.TTLArtifact.
	TTL time.Duration
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

// Execute loads, renders, and encodes one document.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	data, err := ReadInput(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{DocHash: cache.Hash(data)}
	key := r.Keyer.ArtifactKey(result.DocHash, opts.ArtifactKeyOpts())

	if lines, ok := r.cachedLines(ctx, key, opts); ok {
		result.Lines = lines
		result.CacheInfo.RenderHit = true
		r.Logger.Debug("rendered lines from cache", "lines", len(lines))
	} else {
		loadStart := time.Now()
		f, err := r.open(ctx, data, opts)
		if err != nil {
			return nil, err
		}
		result.Stats.LoadTime = time.Since(loadStart)
		result.Document = f.Document()
		result.File = f
		result.Stats.TokenCount = len(f.Document().Tokens)
		result.Stats.LeafCount = len(f.Document().LeafSections)
		r.Logger.Info("loaded document",
			"name", f.Document().Name,
			"tokens", result.Stats.TokenCount,
			"leaves", result.Stats.LeafCount,
			"duration", result.Stats.LoadTime)

		renderStart := time.Now()
		result.Lines = RenderLines(ctx, f, opts)
		result.Stats.RenderTime = time.Since(renderStart)
		if last := f.LastResult(); last != nil {
			result.Stats.SectionCount = len(last.Sections)
		}
		r.Logger.Info("rendered document",
			"mode", opts.RenderMode(),
			"lines", len(result.Lines),
			"duration", result.Stats.RenderTime)

		if encoded, err := json.Marshal(result.Lines); err == nil {
			if err := r.Cache.Set(ctx, key, encoded, r.ttl()); err != nil {
				r.Logger.Warn("cache write failed", "error", err)
			}
		}
	}
	result.Stats.LineCount = len(result.Lines)

	name := sourceName(opts)
	if result.Document != nil && result.Document.Name != "" {
		name = result.Document.Name
	}
	artifact, err := Encode(result.Lines, opts.RenderMode(), opts.Format, name)
	if err != nil {
		return nil, err
	}
	result.Artifact = artifact
	return result, nil
}

func (r *Runner) cachedLines(ctx context.Context, key string, opts Options) ([]render.Line, bool) {
	if opts.Refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	var lines []render.Line
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, false
	}
	return lines, true
}

// Open loads the document named by opts and wraps it for rendering. Section
// lookups and interactive browsing start here.
func (r *Runner) Open(ctx context.Context, opts Options) (*cache.RenderedFile, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	data, err := ReadInput(opts)
	if err != nil {
		return nil, err
	}
	return r.open(ctx, data, opts)
}

func (r *Runner) open(ctx context.Context, data []byte, opts Options) (*cache.RenderedFile, error) {
	doc, err := Decode(ctx, sourceName(opts), data, opts.ReadOptions())
	if err != nil {
		return nil, err
	}
	return cache.New(doc,
		cache.WithTable(opts.Table),
		cache.WithLogger(opts.Logger),
		cache.WithKeyer(r.Keyer),
	), nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
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
