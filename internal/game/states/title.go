package states

import (
	"time"

	"github.com/amrayach/house-of-letters/internal/engine/camera"
	"github.com/amrayach/house-of-letters/internal/engine/effects"
	"github.com/amrayach/house-of-letters/internal/engine/scene"
	"github.com/amrayach/house-of-letters/internal/intro"
	"github.com/amrayach/house-of-letters/internal/logger"
)

// DefaultOrbitSpeed is the title camera yaw rate in radians per second.
const DefaultOrbitSpeed = 0.1

// TitleState slowly orbits the point the flight ended on, with the effects
// held at full progress.
type TitleState struct {
	orbit    *camera.Orbit
	scene    *scene.Scene
	effects  effects.Config
	renderer intro.Renderer

	frames  int
	elapsed float64
	dt      float64
}

// NewTitleState creates a title state that starts at pose and draws sc. The
// caller keeps ownership of sc.
func NewTitleState(pose camera.Pose, sc *scene.Scene, fx effects.Config, r intro.Renderer) *TitleState {
	return &TitleState{
		orbit:    camera.NewOrbit(pose, DefaultOrbitSpeed),
		scene:    sc,
		effects:  fx,
		renderer: r,
	}
}

// Enter is called when entering this state.
func (s *TitleState) Enter() error {
	logger.Info("entering TitleState")
	return nil
}

// Exit is called when leaving this state.
func (s *TitleState) Exit() error {
	return nil
}

// Update advances the orbit.
func (s *TitleState) Update(dt float64) error {
	s.elapsed += dt
	s.dt = dt
	s.orbit.Advance(float32(dt))
	return nil
}

// Render draws one frame from the orbiting camera.
func (s *TitleState) Render() error {
	pose := s.orbit.Pose()
	f := intro.Frame{
		Index:       s.frames,
		Elapsed:     time.Duration(s.elapsed * float64(time.Second)),
		Phase:       camera.PhaseComplete,
		RawProgress: 1,
		Progress:    1,
		Pose:        pose,
		View:        pose.ViewMatrix(),
		Objects:     s.scene.Objects(),
		Effects:     effects.Compute(s.effects, 1, float32(s.elapsed), float32(s.dt)),
	}
	s.frames++
	return s.renderer.Render(f)
}

// Frames returns the number of rendered frames.
func (s *TitleState) Frames() int {
	return s.frames
}

// HandleInput ignores input.
func (s *TitleState) HandleInput(event any) error {
	return nil
}
