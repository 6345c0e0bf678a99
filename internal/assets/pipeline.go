package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/amrayach/house-of-letters/internal/engine/scene"
	"github.com/amrayach/house-of-letters/internal/logger"
	"github.com/amrayach/house-of-letters/pkg/math"
)

// Pipeline construction errors.
var (
	ErrNoPrimary       = errors.New("no primary asset")
	ErrMultiplePrimary = errors.New("more than one primary asset")
	ErrDuplicateAsset  = errors.New("duplicate asset name")
)

// LoadCounter tracks settlements. Loaded never exceeds Total.
type LoadCounter struct {
	Loaded int
	Total  int
}

// Done reports whether every asset has settled.
func (c LoadCounter) Done() bool {
	return c.Loaded >= c.Total
}

// Result is the outcome of one settled asset.
type Result struct {
	Asset    Asset
	Err      error
	Duration time.Duration
	Added    bool // the object joined the scene
}

// Pipeline loads a fixed asset list into a scene. The primary asset settles
// before any other load starts; its bounds center becomes the shared origin.
type Pipeline struct {
	assets  []Asset
	primary int
	loader  AssetLoader
	scene   *scene.Scene
	log     *zap.Logger
	metrics *metrics

	onComplete func()

	mu      sync.Mutex
	started bool
	closed  bool
	settled []bool
	loaded  int
	origin  math.Vec3
	results []Result
	errs    error

	done chan struct{}
	once sync.Once
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(log *zap.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithOnComplete registers a callback run once when every asset has settled,
// before Done is closed. It runs on the goroutine of the last settlement and
// is skipped after Close.
func WithOnComplete(fn func()) Option {
	return func(p *Pipeline) { p.onComplete = fn }
}

// NewPipeline validates the asset list. Exactly one asset must be primary and
// names must be unique.
func NewPipeline(assets []Asset, loader AssetLoader, sc *scene.Scene, opts ...Option) (*Pipeline, error) {
	primary := -1
	names := make(map[string]bool, len(assets))
	for i, a := range assets {
		if names[a.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAsset, a.Name)
		}
		names[a.Name] = true

		if !a.Primary {
			continue
		}
		if primary >= 0 {
			return nil, fmt.Errorf("%w: %s and %s", ErrMultiplePrimary, assets[primary].Name, a.Name)
		}
		primary = i
	}
	if primary < 0 {
		return nil, ErrNoPrimary
	}

	m, err := newMetrics()
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		assets:  append([]Asset(nil), assets...),
		primary: primary,
		loader:  loader,
		scene:   sc,
		metrics: m,
		settled: make([]bool, len(assets)),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Named("pipeline")
	}
	return p, nil
}

// Start begins loading. It returns immediately; later calls are no-ops.
func (p *Pipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.log.Info("loading assets",
		zap.Int("total", len(p.assets)),
		zap.String("primary", p.assets[p.primary].Name))

	go p.run(ctx)
}

func (p *Pipeline) run(ctx context.Context) {
	primary := p.assets[p.primary]
	obj, took, err := p.load(ctx, primary)

	// The origin must be fixed before the primary object is positioned.
	origin := math.Vec3{}
	if err == nil && obj.Mesh != nil {
		origin = obj.Mesh.Bounds.Center()
	}
	p.mu.Lock()
	p.origin = origin
	p.mu.Unlock()

	p.settle(p.primary, obj, err, took)

	for i, a := range p.assets {
		if i == p.primary {
			continue
		}
		go func() {
			obj, took, err := p.load(ctx, a)
			p.settle(i, obj, err, took)
		}()
	}
}

func (p *Pipeline) load(ctx context.Context, a Asset) (*scene.Object, time.Duration, error) {
	start := time.Now()
	obj, err := p.loader.Load(ctx, a)
	if err == nil && obj == nil {
		err = ErrEmptyGeometry
	}
	return obj, time.Since(start), err
}

// settle records one asset's outcome. Repeated settlements of the same asset
// are ignored, so the counter never double-counts.
func (p *Pipeline) settle(i int, obj *scene.Object, err error, took time.Duration) {
	a := p.assets[i]

	p.mu.Lock()
	if p.settled[i] {
		p.mu.Unlock()
		return
	}
	p.settled[i] = true
	p.loaded++

	res := Result{Asset: a, Err: err, Duration: took}
	outcome := outcomeLoaded
	switch {
	case err != nil:
		outcome = outcomeFailed
		p.errs = multierr.Append(p.errs, fmt.Errorf("asset %s: %w", a.Name, err))
	case p.closed:
		outcome = outcomeAbandoned
		if obj.Materials != nil {
			obj.Materials.Release()
		}
	default:
		obj.Name = a.Name
		obj.Position = p.origin.Negate()
		res.Added = p.scene.Add(obj)
	}
	p.results = append(p.results, res)
	loaded, total := p.loaded, len(p.assets)
	closed := p.closed
	p.mu.Unlock()

	p.metrics.record(a.Name, outcome, took)
	if err != nil {
		p.log.Warn("asset failed",
			zap.String("asset", a.Name),
			zap.Int("loaded", loaded),
			zap.Int("total", total),
			zap.Error(err))
	} else {
		p.log.Debug("asset settled",
			zap.String("asset", a.Name),
			zap.String("outcome", outcome),
			zap.Int("loaded", loaded),
			zap.Int("total", total),
			zap.Duration("took", took))
	}

	if loaded == total {
		p.complete(closed)
	}
}

// complete fires the completion signal exactly once.
func (p *Pipeline) complete(closed bool) {
	p.once.Do(func() {
		p.log.Info("assets settled",
			zap.Int("total", len(p.assets)),
			zap.Int("failed", len(multierr.Errors(p.Err()))))
		if p.onComplete != nil && !closed {
			p.onComplete()
		}
		close(p.done)
	})
}

// Done returns a channel closed once every asset has settled.
func (p *Pipeline) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until every asset has settled or ctx ends.
func (p *Pipeline) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Counter returns the current load counter.
func (p *Pipeline) Counter() LoadCounter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return LoadCounter{Loaded: p.loaded, Total: len(p.assets)}
}

// Origin returns the shared origin fixed by the primary asset. It is zero
// until the primary settles, and stays zero if the primary failed.
func (p *Pipeline) Origin() math.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.origin
}

// Err returns every load failure so far, combined.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errs
}

// Results returns per-asset outcomes in settlement order.
func (p *Pipeline) Results() []Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Result(nil), p.results...)
}

// Close abandons in-flight loads. Their settlements are still counted but
// add nothing to the scene. Close does not wait for them.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// Closed reports whether Close has been called.
func (p *Pipeline) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
