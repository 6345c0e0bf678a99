package states

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/amrayach/house-of-letters/internal/intro"
	"github.com/amrayach/house-of-letters/internal/logger"
)

// IntroState plays the intro flight and hands over to the next state once it
// completes or is skipped.
type IntroState struct {
	ctx     context.Context
	ctrl    *intro.Controller
	manager *Manager
	next    func(end *intro.Controller) State

	now time.Time
}

// NewIntroState creates the intro state. next builds the state that follows
// the flight; it receives the finished controller before it is disposed.
func NewIntroState(ctx context.Context, ctrl *intro.Controller, manager *Manager, next func(end *intro.Controller) State) *IntroState {
	return &IntroState{
		ctx:     ctx,
		ctrl:    ctrl,
		manager: manager,
		next:    next,
	}
}

// Enter starts loading. The state keeps its own clock, driven by Update.
func (s *IntroState) Enter() error {
	s.now = time.Now()
	logger.Info("entering IntroState")
	s.ctrl.Start(s.ctx)
	return nil
}

// Exit disposes the controller, abandoning any loads still in flight.
func (s *IntroState) Exit() error {
	s.ctrl.Dispose()
	return nil
}

// Update advances the clock and schedules the next state once the flight
// has ended.
func (s *IntroState) Update(dt float64) error {
	s.now = s.now.Add(time.Duration(dt * float64(time.Second)))

	if s.ctrl.Completed() && s.next != nil {
		logger.Debug("intro finished", zap.Int("frames", s.ctrl.Frames()))
		s.manager.Change(s.next(s.ctrl))
		s.next = nil
	}
	return nil
}

// Render ticks the controller, which draws exactly one frame.
func (s *IntroState) Render() error {
	return s.ctrl.Tick(s.now)
}

// HandleInput skips the flight on intro.EventSkip.
func (s *IntroState) HandleInput(event any) error {
	if ev, ok := event.(intro.Event); ok && ev == intro.EventSkip {
		s.ctrl.Skip()
	}
	return nil
}
