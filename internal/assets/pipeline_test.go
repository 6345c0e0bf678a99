package assets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/amrayach/house-of-letters/internal/engine/material"
	"github.com/amrayach/house-of-letters/internal/engine/model"
	"github.com/amrayach/house-of-letters/internal/engine/scene"
	"github.com/amrayach/house-of-letters/pkg/formats"
	"github.com/amrayach/house-of-letters/pkg/math"
)

var errOffline = errors.New("offline")

// testObject is a right triangle spanning (0,0,0)-(size,size,0).
func testObject(name string, size float32) *scene.Object {
	g := &formats.Geometry{
		Positions: []float32{0, 0, 0, size, 0, 0, 0, size, 0},
		Groups:    []formats.MaterialGroup{{Count: 1}},
	}
	return &scene.Object{
		Name:      name,
		Mesh:      model.BuildMesh(g),
		Materials: material.Resolve(nil, g.Groups),
	}
}

// stubLoader returns a fresh triangle for every asset not listed in fail.
type stubLoader struct {
	mu      sync.Mutex
	fail    map[string]bool
	started []string

	primaryEntered chan struct{} // closed when the primary load begins
	gate           chan struct{} // primary load blocks until closed
}

func (l *stubLoader) Load(ctx context.Context, a Asset) (*scene.Object, error) {
	l.mu.Lock()
	l.started = append(l.started, a.Name)
	l.mu.Unlock()

	if a.Primary && l.gate != nil {
		close(l.primaryEntered)
		<-l.gate
	}
	if l.fail[a.Name] {
		return nil, errOffline
	}
	return testObject(a.Name, 4), nil
}

func (l *stubLoader) startedNames() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.started...)
}

func sixAssets() []Asset {
	return []Asset{
		{Name: "house", Path: "house.json", Mode: ModeTextured, Primary: true},
		{Name: "letters", Path: "letters.json", Mode: ModeTextured},
		{Name: "desk", Path: "desk.json"},
		{Name: "lamp", Path: "lamp.json"},
		{Name: "shelf", Path: "shelf.json"},
		{Name: "window", Path: "window.json"},
	}
}

func waitDone(t *testing.T, p *Pipeline) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Wait(ctx))
}

func TestNewPipeline_Validation(t *testing.T) {
	sc := scene.New()
	loader := &stubLoader{}

	_, err := NewPipeline(nil, loader, sc)
	assert.ErrorIs(t, err, ErrNoPrimary)

	two := sixAssets()
	two[3].Primary = true
	_, err = NewPipeline(two, loader, sc)
	assert.ErrorIs(t, err, ErrMultiplePrimary)

	dup := sixAssets()
	dup[5].Name = "desk"
	_, err = NewPipeline(dup, loader, sc)
	assert.ErrorIs(t, err, ErrDuplicateAsset)
}

func TestPipeline_PrimaryFailsFallsBackToZeroOrigin(t *testing.T) {
	sc := scene.New()
	loader := &stubLoader{fail: map[string]bool{"house": true}}

	var completions atomic.Int32
	p, err := NewPipeline(sixAssets(), loader, sc, WithOnComplete(func() { completions.Add(1) }))
	require.NoError(t, err)

	p.Start(context.Background())
	waitDone(t, p)

	assert.Equal(t, LoadCounter{Loaded: 6, Total: 6}, p.Counter())
	assert.True(t, p.Counter().Done())
	assert.Equal(t, int32(1), completions.Load())
	assert.Equal(t, math.Vec3{}, p.Origin())

	require.Equal(t, 5, sc.Len())
	assert.Nil(t, sc.Find("house"))
	for _, o := range sc.Objects() {
		assert.Equal(t, math.Vec3{}, o.Position, o.Name)
	}

	require.Error(t, p.Err())
	assert.Len(t, multierr.Errors(p.Err()), 1)
	assert.ErrorIs(t, p.Err(), errOffline)
}

func TestPipeline_OffsetsByPrimaryCenter(t *testing.T) {
	sc := scene.New()
	loader := &stubLoader{fail: map[string]bool{"lamp": true, "shelf": true}}

	var completions atomic.Int32
	p, err := NewPipeline(sixAssets(), loader, sc, WithOnComplete(func() { completions.Add(1) }))
	require.NoError(t, err)

	p.Start(context.Background())
	waitDone(t, p)

	assert.Equal(t, 6, p.Counter().Loaded)
	assert.Equal(t, int32(1), completions.Load())
	assert.Len(t, multierr.Errors(p.Err()), 2)

	// The stub triangle spans (0,0,0)-(4,4,0).
	assert.Equal(t, math.Vec3{X: 2, Y: 2}, p.Origin())
	require.Equal(t, 4, sc.Len())
	for _, o := range sc.Objects() {
		assert.Equal(t, math.Vec3{X: -2, Y: -2}, o.Position, o.Name)
	}

	results := p.Results()
	require.Len(t, results, 6)
	assert.Equal(t, "house", results[0].Asset.Name)
	added := 0
	for _, r := range results {
		if r.Added {
			added++
		}
	}
	assert.Equal(t, 4, added)
}

func TestPipeline_PrimaryBarrier(t *testing.T) {
	loader := &stubLoader{
		primaryEntered: make(chan struct{}),
		gate:           make(chan struct{}),
	}
	p, err := NewPipeline(sixAssets(), loader, scene.New())
	require.NoError(t, err)

	p.Start(context.Background())
	<-loader.primaryEntered

	// Nothing else may start while the primary is in flight.
	assert.Equal(t, []string{"house"}, loader.startedNames())
	assert.Equal(t, 0, p.Counter().Loaded)

	select {
	case <-p.Done():
		t.Fatal("pipeline completed before the primary settled")
	default:
	}

	close(loader.gate)
	waitDone(t, p)
	assert.Len(t, loader.startedNames(), 6)
}

func TestPipeline_SettleIsIdempotent(t *testing.T) {
	sc := scene.New()
	var completions atomic.Int32
	p, err := NewPipeline(sixAssets(), &stubLoader{}, sc, WithOnComplete(func() { completions.Add(1) }))
	require.NoError(t, err)

	// Every asset settles several times from racing goroutines.
	var wg sync.WaitGroup
	for round := 0; round < 8; round++ {
		for i, a := range p.assets {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var err error
				var obj *scene.Object
				if round%2 == 0 {
					err = errOffline
				} else {
					obj = testObject(a.Name, 1)
				}
				p.settle(i, obj, err, time.Millisecond)
			}()
		}
	}
	wg.Wait()

	assert.Equal(t, LoadCounter{Loaded: 6, Total: 6}, p.Counter())
	assert.Equal(t, int32(1), completions.Load())
	assert.Len(t, p.Results(), 6)
	assert.LessOrEqual(t, sc.Len(), 6)
}

func TestPipeline_CloseAbandonsLateLoads(t *testing.T) {
	loader := &stubLoader{
		primaryEntered: make(chan struct{}),
		gate:           make(chan struct{}),
	}
	sc := scene.New()
	var completions atomic.Int32
	p, err := NewPipeline(sixAssets(), loader, sc, WithOnComplete(func() { completions.Add(1) }))
	require.NoError(t, err)

	p.Start(context.Background())
	<-loader.primaryEntered
	p.Close()
	close(loader.gate)

	waitDone(t, p)
	assert.True(t, p.Closed())
	assert.Equal(t, 6, p.Counter().Loaded)
	assert.Zero(t, sc.Len())
	assert.Zero(t, completions.Load())
	for _, r := range p.Results() {
		assert.False(t, r.Added, r.Asset.Name)
	}
}

func TestPipeline_StartTwiceLoadsOnce(t *testing.T) {
	loader := &stubLoader{}
	p, err := NewPipeline(sixAssets(), loader, scene.New())
	require.NoError(t, err)

	p.Start(context.Background())
	p.Start(context.Background())
	waitDone(t, p)

	assert.Len(t, loader.startedNames(), 6)
}

func TestPipeline_WaitHonorsContext(t *testing.T) {
	loader := &stubLoader{
		primaryEntered: make(chan struct{}),
		gate:           make(chan struct{}),
	}
	p, err := NewPipeline(sixAssets(), loader, scene.New())
	require.NoError(t, err)
	p.Start(context.Background())
	defer close(loader.gate)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.DeadlineExceeded)
}
