// Package effects maps intro progress and wall-clock time to post-processing
// parameters. Compute is a pure function: equal inputs give equal bundles.
package effects

import (
	"github.com/chewxy/math32"

	"github.com/amrayach/house-of-letters/pkg/math"
)

// MaxPointLights is the number of point-light slots the post stage accepts.
const MaxPointLights = 16

// Config holds the effect curves.
type Config struct {
	BloomBase, BloomGain       float32
	VignetteBase, VignetteGain float32

	ChromaticAmount float32 // offset magnitude in UV units
	ChromaticSpeed  float32 // radians per second

	PointLights     int
	LightBase       float32
	LightGain       float32
	LightPulseSpeed float32 // radians per second
	SpotPulseSpeed  float32 // radians per second

	BackgroundStart math.Vec3
	BackgroundWarm  math.Vec3

	FogBase, FogGain           float32
	ExposureBase, ExposureGain float32

	// TemporalBlendRate drives the afterimage blend weight, in 1/s.
	TemporalBlendRate float32
}

// Bundle is one frame of effect parameters.
type Bundle struct {
	Bloom         float32
	Vignette      float32
	Chromatic     math.Vec2
	PointLights   []float32 // intensity per light
	Spotlight     float32
	Background    math.Vec3 // linear RGB
	Fog           float32
	Exposure      float32
	TemporalBlend float32 // weight of the current frame against the history
}

// Compute derives the bundle for eased progress in [0, 1] (clamped), elapsed
// wall-clock seconds and the frame delta in seconds.
func Compute(cfg Config, progress, elapsed, dt float32) Bundle {
	p := math.Clamp(progress, 0, 1)

	chroma := elapsed * cfg.ChromaticSpeed
	b := Bundle{
		Bloom:    cfg.BloomBase + p*cfg.BloomGain,
		Vignette: cfg.VignetteBase + p*cfg.VignetteGain,
		Chromatic: math.Vec2{
			X: cfg.ChromaticAmount * math32.Cos(chroma),
			Y: cfg.ChromaticAmount * math32.Sin(chroma),
		},
		Spotlight:     p * pulse(elapsed*cfg.SpotPulseSpeed),
		Background:    cfg.BackgroundStart.Lerp(cfg.BackgroundWarm, p),
		Fog:           cfg.FogBase + p*cfg.FogGain,
		Exposure:      cfg.ExposureBase + p*cfg.ExposureGain,
		TemporalBlend: math.DampFactor(cfg.TemporalBlendRate, dt),
	}

	n := min(max(cfg.PointLights, 0), MaxPointLights)
	if n > 0 {
		gain := cfg.LightBase + p*cfg.LightGain
		b.PointLights = make([]float32, n)
		for i := range b.PointLights {
			phase := float32(i) * 2 * math32.Pi / float32(n)
			b.PointLights[i] = pulse(elapsed*cfg.LightPulseSpeed+phase) * gain
		}
	}
	return b
}

// pulse maps an angle to [0, 1].
func pulse(angle float32) float32 {
	return 0.5 + 0.5*math32.Sin(angle)
}
