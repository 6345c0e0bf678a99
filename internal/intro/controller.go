// Package intro wires the asset pipeline, the camera flight and the effect
// curves into one per-frame tick.
package intro

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/amrayach/house-of-letters/internal/assets"
	"github.com/amrayach/house-of-letters/internal/engine/camera"
	"github.com/amrayach/house-of-letters/internal/engine/effects"
	"github.com/amrayach/house-of-letters/internal/engine/scene"
	"github.com/amrayach/house-of-letters/internal/logger"
	"github.com/amrayach/house-of-letters/pkg/math"
)

// ErrInvalidFPS is returned by Run for a non-positive frame rate.
var ErrInvalidFPS = errors.New("frame rate must be positive")

// Frame is everything the external render stage needs for one frame.
type Frame struct {
	Index       int
	Elapsed     time.Duration // since the first tick
	Phase       camera.Phase
	RawProgress float32
	Progress    float32 // eased
	Pose        camera.Pose
	View        math.Mat4
	Effects     effects.Bundle
	Objects     []*scene.Object
	Loading     assets.LoadCounter
}

// Renderer draws one frame. It is called exactly once per tick, with the
// controller locked, so it must not call back into the controller.
type Renderer interface {
	Render(f Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f Frame) error

// Render calls fn(f).
func (fn RendererFunc) Render(f Frame) error {
	return fn(f)
}

// Event is an input the controller listens for.
type Event int

const (
	// EventSkip asks to end the flight early.
	EventSkip Event = iota + 1
)

// EventSource delivers window-level input events. Subscribe returns a
// function that removes the listener.
type EventSource interface {
	Subscribe(fn func(Event)) (unsubscribe func())
}

// Pipeline is the asset-loading side the controller drives.
type Pipeline interface {
	Start(ctx context.Context)
	Done() <-chan struct{}
	Counter() assets.LoadCounter
	Close()
}

// Option configures a Controller.
type Option func(*Controller)

// WithEvents installs listeners on src when the controller starts.
func WithEvents(src EventSource) Option {
	return func(c *Controller) { c.events = src }
}

// WithLogger sets the controller logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// OnComplete registers fn to run once when the sequence completes or is
// skipped. It runs on the goroutine that ticked or skipped, after the
// controller lock is released.
func OnComplete(fn func()) Option {
	return func(c *Controller) { c.onComplete = append(c.onComplete, fn) }
}

// KeepScene leaves the scene alive on Dispose so a later stage can keep
// drawing it. The caller releases it.
func KeepScene() Option {
	return func(c *Controller) { c.keepScene = true }
}

// Controller starts the camera flight once every asset has settled, ticks
// it each frame and feeds the effect curves. Tick, Skip and Dispose may be
// called from different goroutines; ticks never overlap.
type Controller struct {
	effects  effects.Config
	pipeline Pipeline
	seq      *camera.Sequencer
	renderer Renderer
	scene    *scene.Scene
	events   EventSource
	log      *zap.Logger

	onComplete []func()
	keepScene  bool

	mu          sync.Mutex
	started     bool
	dead        bool
	unsubscribe func()
	firstTick   time.Time
	lastTick    time.Time
	frames      int
	finished    bool // sequencer reported completion, callbacks pending

	complete     chan struct{}
	completeOnce sync.Once
	disposed     chan struct{}
}

// New creates a controller. The sequencer must be idle.
func New(fx effects.Config, pipeline Pipeline, seq *camera.Sequencer, r Renderer, sc *scene.Scene, opts ...Option) *Controller {
	c := &Controller{
		effects:  fx,
		pipeline: pipeline,
		seq:      seq,
		renderer: r,
		scene:    sc,
		complete: make(chan struct{}),
		disposed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Named("intro")
	}

	// Runs inside Tick or Skip with mu held; callbacks fire after unlock.
	seq.OnComplete(func() { c.finished = true })
	return c
}

// Start begins loading and installs input listeners. Later calls, and calls
// after Dispose, are no-ops.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.dead {
		return
	}
	c.started = true

	c.pipeline.Start(ctx)
	if c.events != nil {
		c.unsubscribe = c.events.Subscribe(c.handleEvent)
	}
	c.log.Info("intro started")
}

func (c *Controller) handleEvent(ev Event) {
	if ev == EventSkip {
		c.Skip()
	}
}

// Tick advances one frame: it starts the flight once the pipeline has
// completed, ticks the sequencer, computes effects and renders exactly once.
// After Dispose it does nothing.
func (c *Controller) Tick(now time.Time) error {
	err := c.tick(now)
	c.fireComplete()
	return err
}

func (c *Controller) tick(now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dead {
		return nil
	}

	if c.frames == 0 {
		c.firstTick = now
		c.lastTick = now
	}
	dt := now.Sub(c.lastTick)
	if dt < 0 {
		dt = 0
	}
	c.lastTick = now

	if c.seq.Phase() == camera.PhaseIdle && c.pipelineDone() {
		c.seq.Start(now)
	}
	st := c.seq.Tick(now)

	elapsed := now.Sub(c.firstTick)
	pose := st.Pose()
	f := Frame{
		Index:       c.frames,
		Elapsed:     elapsed,
		Phase:       st.Phase,
		RawProgress: st.RawProgress,
		Progress:    st.AppliedProgress,
		Pose:        pose,
		View:        pose.ViewMatrix(),
		Effects:     effects.Compute(c.effects, st.AppliedProgress, float32(elapsed.Seconds()), float32(dt.Seconds())),
		Objects:     c.scene.Objects(),
		Loading:     c.pipeline.Counter(),
	}
	c.frames++

	return c.renderer.Render(f)
}

func (c *Controller) pipelineDone() bool {
	select {
	case <-c.pipeline.Done():
		return true
	default:
		return false
	}
}

// Skip ends an active flight. It is a no-op before the flight starts, after
// it ends and after Dispose.
func (c *Controller) Skip() bool {
	c.mu.Lock()
	skipped := !c.dead && c.seq.Skip()
	c.mu.Unlock()

	if skipped {
		c.log.Info("intro skipped")
	}
	c.fireComplete()
	return skipped
}

// fireComplete runs the completion callbacks once, outside the lock.
func (c *Controller) fireComplete() {
	c.mu.Lock()
	finished := c.finished
	phase := c.seq.Phase()
	c.mu.Unlock()
	if !finished {
		return
	}

	c.completeOnce.Do(func() {
		c.log.Info("intro complete", zap.Stringer("phase", phase))
		for _, fn := range c.onComplete {
			fn()
		}
		close(c.complete)
	})
}

// Done returns a channel closed once the sequence has completed or been
// skipped.
func (c *Controller) Done() <-chan struct{} {
	return c.complete
}

// Completed reports whether the sequence has completed or been skipped.
func (c *Controller) Completed() bool {
	select {
	case <-c.complete:
		return true
	default:
		return false
	}
}

// Frames returns the number of rendered frames.
func (c *Controller) Frames() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Pose returns the camera pose of the most recent tick.
func (c *Controller) Pose() camera.Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.State().Pose()
}

// Scene returns the scene the pipeline loads into.
func (c *Controller) Scene() *scene.Scene {
	return c.scene
}

// Dispose stops the controller: in-flight loads are abandoned, input
// listeners removed and, unless KeepScene was given, scene resources
// released. Subsequent ticks are no-ops. It is safe to call at any time,
// more than once.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.dead {
		c.mu.Unlock()
		return
	}
	c.dead = true

	c.pipeline.Close()
	released := 0
	if !c.keepScene {
		released = c.scene.Release()
	}
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	close(c.disposed)
	frames, phase := c.frames, c.seq.Phase()
	c.mu.Unlock()

	// Listeners may be mid-Skip, which needs the lock.
	if unsubscribe != nil {
		unsubscribe()
	}

	c.log.Info("intro disposed",
		zap.Int("frames", frames),
		zap.Int("released", released),
		zap.Stringer("phase", phase))
}

// Disposed reports whether Dispose has been called.
func (c *Controller) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dead
}

// Run ticks at fps until the sequence completes, the controller is
// disposed, a render fails or ctx ends.
func (c *Controller) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		return ErrInvalidFPS
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	if err := c.Tick(time.Now()); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.disposed:
			return nil
		case <-c.complete:
			return nil
		case now := <-ticker.C:
			if err := c.Tick(now); err != nil {
				return err
			}
		}
	}
}
