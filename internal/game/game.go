// Package game runs the frame loop: the intro flight followed by the title
// orbit.
package game

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/amrayach/house-of-letters/internal/assets"
	"github.com/amrayach/house-of-letters/internal/config"
	"github.com/amrayach/house-of-letters/internal/engine/scene"
	"github.com/amrayach/house-of-letters/internal/game/states"
	"github.com/amrayach/house-of-letters/internal/intro"
	"github.com/amrayach/house-of-letters/internal/logger"
)

// Game is the main loop instance.
type Game struct {
	fps           int
	titleDuration time.Duration

	manager *states.Manager
	input   *Input
	scene   *scene.Scene
	title   *states.TitleState
	log     *zap.Logger
}

// New assembles the intro from cfg and queues it as the first state.
func New(ctx context.Context, cfg *config.Config, src assets.Source, r intro.Renderer) (*Game, error) {
	g := &Game{
		fps:           cfg.Intro.FPS,
		titleDuration: cfg.Intro.TitleDuration,
		manager:       states.NewManager(),
		input:         NewInput(),
		log:           logger.Named("game"),
	}

	ctrl, err := intro.Build(cfg, src, r,
		intro.WithEvents(g.input),
		intro.WithLogger(logger.Named("intro")),
		intro.KeepScene())
	if err != nil {
		return nil, fmt.Errorf("failed to build intro: %w", err)
	}
	g.scene = ctrl.Scene()

	fx := intro.EffectsConfig(cfg.Effects)
	g.manager.Change(states.NewIntroState(ctx, ctrl, g.manager, func(end *intro.Controller) states.State {
		g.title = states.NewTitleState(end.Pose(), g.scene, fx, r)
		return g.title
	}))

	g.log.Info("game initialized",
		zap.Int("fps", g.fps),
		zap.Duration("title", g.titleDuration))
	return g, nil
}

// Input returns the event queue feeding the intro.
func (g *Game) Input() *Input {
	return g.input
}

// Run ticks the current state until the title has shown for its duration or
// ctx ends. Cancellation is a normal exit.
func (g *Game) Run(ctx context.Context) error {
	if g.fps <= 0 {
		return intro.ErrInvalidFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(g.fps))
	defer ticker.Stop()

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := lastTime
	var titleTime time.Duration

	g.log.Info("starting frame loop")

	for {
		// Calculate delta time; the first frame has none.
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		// 1. Deliver input
		g.input.Pump()

		// 2. Update state
		if err := g.manager.Update(dt.Seconds()); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render
		if err := g.manager.Render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		if g.title != nil && g.manager.Current() == states.State(g.title) {
			titleTime += dt
			if g.titleDuration > 0 && titleTime >= g.titleDuration {
				g.log.Info("title shown", zap.Int("frames", g.title.Frames()))
				return nil
			}
		}

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}

		select {
		case <-ctx.Done():
			g.log.Info("frame loop interrupted", zap.Error(ctx.Err()))
			return nil
		case <-ticker.C:
		}
	}
}

// Close exits the current state, disposing the intro if it is still live,
// and releases the scene.
func (g *Game) Close() error {
	err := g.manager.Close()
	released := g.scene.Release()
	g.log.Info("game closed", zap.Int("released", released))
	return err
}
