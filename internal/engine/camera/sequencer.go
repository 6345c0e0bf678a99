// Package camera drives the intro camera flight and the idle orbit that
// follows it.
package camera

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/amrayach/house-of-letters/internal/logger"
	"github.com/amrayach/house-of-letters/pkg/math"
)

// Default damping constants, in 1/s.
const (
	DefaultPositionDamping = 4
	DefaultLookDamping     = 3
)

var up = math.Vec3{Y: 1}

// Phase is the sequencer lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseComplete
	PhaseSkipped
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseActive:
		return "Active"
	case PhaseComplete:
		return "Complete"
	case PhaseSkipped:
		return "Skipped"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Terminal reports whether the phase can no longer change.
func (p Phase) Terminal() bool {
	return p == PhaseComplete || p == PhaseSkipped
}

// Pose is a camera position and the point it looks at.
type Pose struct {
	Position math.Vec3
	LookAt   math.Vec3
}

// ViewMatrix returns the view matrix for the pose with +Y up.
func (p Pose) ViewMatrix() math.Mat4 {
	return math.LookAt(p.Position, p.LookAt, up)
}

// State is a snapshot of the flight.
type State struct {
	Phase           Phase
	RawProgress     float32 // elapsed / duration, clamped to [0, 1]
	AppliedProgress float32 // eased progress along the curve
	Position        math.Vec3
	LookAt          math.Vec3
	StartTime       time.Time
	Duration        time.Duration
}

// Pose returns the camera pose of the snapshot.
func (s State) Pose() Pose {
	return Pose{Position: s.Position, LookAt: s.LookAt}
}

// SequencerConfig describes one camera flight.
type SequencerConfig struct {
	Waypoints []math.Vec3
	Duration  time.Duration

	PositionDamping float32 // 1/s, DefaultPositionDamping when zero
	LookDamping     float32 // 1/s, DefaultLookDamping when zero

	LookAnchor math.Vec3
	LookSway   math.Vec3 // sway amplitude per axis
	SwayCycles float32   // sway periods over the whole flight

	ShakeStart     float32 // raw progress where shake begins
	ShakeAmplitude float32 // per-axis bound at raw progress 1, scaled by (raw - start)
	ShakeSeed      uint64
}

// SequencerOption configures a Sequencer.
type SequencerOption func(*Sequencer)

// WithRand sets the shake random source.
func WithRand(r *rand.Rand) SequencerOption {
	return func(s *Sequencer) { s.rng = r }
}

// WithSequencerLogger sets the logger for phase transitions.
func WithSequencerLogger(log *zap.Logger) SequencerOption {
	return func(s *Sequencer) { s.log = log }
}

// Sequencer flies the camera along a centripetal Catmull-Rom curve through
// the waypoints. It is not safe for concurrent use.
type Sequencer struct {
	cfg SequencerConfig
	rng *rand.Rand
	log *zap.Logger

	curve    *math.CatmullRom
	state    State
	smoothed math.Vec3 // damped position before shake
	lastTick time.Time

	onComplete []func()
	completed  bool
}

// NewSequencer creates an idle sequencer. It panics when the duration is not
// positive or there are fewer than two waypoints; config validation rejects
// both earlier.
func NewSequencer(cfg SequencerConfig, opts ...SequencerOption) *Sequencer {
	if cfg.Duration <= 0 {
		panic(fmt.Sprintf("camera: flight duration must be positive, got %v", cfg.Duration))
	}
	if len(cfg.Waypoints) < 2 {
		panic(fmt.Sprintf("camera: flight needs at least two waypoints, got %d", len(cfg.Waypoints)))
	}

	cfg.Waypoints = append([]math.Vec3(nil), cfg.Waypoints...)
	if cfg.PositionDamping <= 0 {
		cfg.PositionDamping = DefaultPositionDamping
	}
	if cfg.LookDamping <= 0 {
		cfg.LookDamping = DefaultLookDamping
	}

	s := &Sequencer{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(cfg.ShakeSeed, cfg.ShakeSeed^0x9e3779b97f4a7c15))
	}
	if s.log == nil {
		s.log = logger.Named("camera")
	}

	s.state = State{
		Phase:    PhaseIdle,
		Position: cfg.Waypoints[0],
		LookAt:   s.lookTarget(0),
		Duration: cfg.Duration,
	}
	s.smoothed = s.state.Position
	return s
}

// OnComplete registers fn to run once when the flight completes or is
// skipped.
func (s *Sequencer) OnComplete(fn func()) {
	s.onComplete = append(s.onComplete, fn)
}

// State returns the current snapshot.
func (s *Sequencer) State() State {
	return s.state
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase {
	return s.state.Phase
}

// Start moves an idle sequencer to Active and builds the flight curve. It
// returns false in any other phase.
func (s *Sequencer) Start(now time.Time) bool {
	if s.state.Phase != PhaseIdle {
		return false
	}

	s.curve = math.NewCentripetal(s.cfg.Waypoints)
	s.state.Phase = PhaseActive
	s.state.StartTime = now
	s.lastTick = now

	s.log.Info("camera flight started",
		zap.Int("waypoints", len(s.cfg.Waypoints)),
		zap.Duration("duration", s.cfg.Duration),
		zap.Float32("length", s.curve.Length()))
	return true
}

// Tick advances an active flight to now and returns the new snapshot. In
// other phases it returns the current snapshot unchanged.
func (s *Sequencer) Tick(now time.Time) State {
	if s.state.Phase != PhaseActive {
		return s.state
	}

	dt := float32(now.Sub(s.lastTick).Seconds())
	if dt < 0 {
		dt = 0
	}
	s.lastTick = now

	elapsed := now.Sub(s.state.StartTime)
	raw := math.Clamp(float32(elapsed.Seconds()/s.cfg.Duration.Seconds()), 0, 1)
	applied := math.IntroEase(raw)
	if raw >= 1 {
		applied = 1
	}

	target := s.curve.PointAt(applied)
	s.smoothed = math.DampVec3(s.smoothed, target, s.cfg.PositionDamping, dt)
	s.state.LookAt = math.DampVec3(s.state.LookAt, s.lookTarget(raw), s.cfg.LookDamping, dt)

	s.state.RawProgress = raw
	s.state.AppliedProgress = applied
	if raw >= 1 {
		// The last step is damped like any other and carries no shake.
		s.state.Position = s.smoothed
		s.finish(PhaseComplete)
		return s.state
	}
	s.state.Position = s.smoothed.Add(s.shake(raw))
	return s.state
}

// Skip ends an active flight immediately. It is a no-op when idle or
// already finished and reports whether it did anything.
func (s *Sequencer) Skip() bool {
	if s.state.Phase != PhaseActive {
		return false
	}
	end := s.curve.PointAt(1)
	s.state.RawProgress = 1
	s.state.AppliedProgress = 1
	s.state.Position = end
	s.state.LookAt = s.lookTarget(1)
	s.smoothed = end
	s.finish(PhaseSkipped)
	return true
}

// finish moves to a terminal phase and fires completion once.
func (s *Sequencer) finish(phase Phase) {
	s.state.Phase = phase
	s.log.Info("camera flight finished", zap.Stringer("phase", phase))

	if s.completed {
		return
	}
	s.completed = true
	for _, fn := range s.onComplete {
		fn()
	}
}

// lookTarget is the anchor plus a periodic sway.
func (s *Sequencer) lookTarget(raw float32) math.Vec3 {
	theta := 2 * math32.Pi * s.cfg.SwayCycles * raw
	sway := math.Vec3{
		X: s.cfg.LookSway.X * math32.Sin(theta),
		Y: s.cfg.LookSway.Y * math32.Sin(2*theta),
		Z: s.cfg.LookSway.Z * math32.Cos(theta),
	}
	return s.cfg.LookAnchor.Add(sway)
}

// shake is a random offset, bounded per axis by amplitude*(raw-start), once
// raw passes the shake start.
func (s *Sequencer) shake(raw float32) math.Vec3 {
	if raw <= s.cfg.ShakeStart || s.cfg.ShakeAmplitude == 0 {
		return math.Vec3{}
	}
	mag := s.cfg.ShakeAmplitude * (raw - s.cfg.ShakeStart)
	return math.Vec3{
		X: (s.rng.Float32()*2 - 1) * mag,
		Y: (s.rng.Float32()*2 - 1) * mag,
		Z: (s.rng.Float32()*2 - 1) * mag,
	}
}
