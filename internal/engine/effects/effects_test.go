package effects

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrayach/house-of-letters/pkg/math"
)

func TestCompute_IsPure(t *testing.T) {
	cfg := testConfig()
	a := Compute(cfg, 0.42, 3.7, 1.0/60)
	b := Compute(cfg, 0.42, 3.7, 1.0/60)
	assert.Equal(t, a, b)

	// Mutating a result leaves later calls untouched.
	a.PointLights[0] = 99
	c := Compute(cfg, 0.42, 3.7, 1.0/60)
	assert.Equal(t, b, c)
}

func TestCompute_LinearInProgress(t *testing.T) {
	cfg := testConfig()
	start := Compute(cfg, 0, 0, 0)
	end := Compute(cfg, 1, 0, 0)

	assert.InDelta(t, cfg.BloomBase, start.Bloom, 1e-6)
	assert.InDelta(t, cfg.BloomBase+cfg.BloomGain, end.Bloom, 1e-6)
	assert.InDelta(t, cfg.VignetteBase+cfg.VignetteGain, end.Vignette, 1e-6)
	assert.InDelta(t, cfg.FogBase+cfg.FogGain, end.Fog, 1e-6)
	assert.InDelta(t, cfg.ExposureBase+cfg.ExposureGain, end.Exposure, 1e-6)

	assert.InDelta(t, cfg.BackgroundStart.X, start.Background.X, 1e-6)
	assert.InDelta(t, cfg.BackgroundWarm.X, end.Background.X, 1e-6)
	assert.InDelta(t, cfg.BackgroundWarm.Y, end.Background.Y, 1e-6)
	assert.InDelta(t, cfg.BackgroundWarm.Z, end.Background.Z, 1e-6)

	mid := Compute(cfg, 0.5, 0, 0)
	assert.InDelta(t, (start.Fog+end.Fog)/2, mid.Fog, 1e-6)
}

func TestCompute_ClampsProgress(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, Compute(cfg, 1, 2, 0.1), Compute(cfg, 7, 2, 0.1))
	assert.Equal(t, Compute(cfg, 0, 2, 0.1), Compute(cfg, -3, 2, 0.1))
}

func TestCompute_ChromaticIgnoresProgress(t *testing.T) {
	cfg := testConfig()
	a := Compute(cfg, 0.1, 5, 0)
	b := Compute(cfg, 0.9, 5, 0)
	assert.Equal(t, a.Chromatic, b.Chromatic)

	// Magnitude stays at the configured amount while the direction turns.
	mag := math32.Hypot(a.Chromatic.X, a.Chromatic.Y)
	assert.InDelta(t, cfg.ChromaticAmount, mag, 1e-7)
	assert.NotEqual(t, a.Chromatic, Compute(cfg, 0.1, 6, 0).Chromatic)
}

func TestCompute_PointLightsArePhaseOffset(t *testing.T) {
	cfg := testConfig()
	cfg.PointLights = 4
	cfg.LightBase = 1
	cfg.LightGain = 0

	b := Compute(cfg, 0.5, 0, 0)
	require.Len(t, b.PointLights, 4)

	// Quarter-turn offsets at time zero: sin of 0, pi/2, pi, 3pi/2.
	want := []float32{0.5, 1, 0.5, 0}
	for i, w := range want {
		assert.InDelta(t, w, b.PointLights[i], 1e-6, "light %d", i)
	}
}

func TestCompute_PointLightsScaleWithProgress(t *testing.T) {
	cfg := testConfig()
	low := Compute(cfg, 0, 1.3, 0)
	high := Compute(cfg, 1, 1.3, 0)
	for i := range low.PointLights {
		assert.GreaterOrEqual(t, high.PointLights[i], low.PointLights[i])
	}
}

func TestCompute_PointLightCount(t *testing.T) {
	cfg := testConfig()
	cfg.PointLights = 0
	assert.Nil(t, Compute(cfg, 1, 1, 0).PointLights)

	cfg.PointLights = 100
	assert.Len(t, Compute(cfg, 1, 1, 0).PointLights, MaxPointLights)
}

func TestCompute_SpotlightFollowsProgress(t *testing.T) {
	cfg := testConfig()
	assert.Zero(t, Compute(cfg, 0, 1, 0).Spotlight)

	b := Compute(cfg, 0.5, 1, 0)
	assert.InDelta(t, 0.5*pulse(cfg.SpotPulseSpeed), b.Spotlight, 1e-6)
	assert.LessOrEqual(t, b.Spotlight, float32(0.5))
}

func TestCompute_TemporalBlend(t *testing.T) {
	cfg := testConfig()
	assert.Zero(t, Compute(cfg, 0.5, 0, 0).TemporalBlend)

	short := Compute(cfg, 0.5, 0, 1.0/120).TemporalBlend
	long := Compute(cfg, 0.5, 0, 1.0/30).TemporalBlend
	assert.Less(t, short, long)
	assert.InDelta(t, 1-math32.Exp(-cfg.TemporalBlendRate/30), long, 1e-6)
}

// testConfig is a typical intro look.
func testConfig() Config {
	return Config{
		BloomBase:         0.4,
		BloomGain:         1.2,
		VignetteBase:      0.3,
		VignetteGain:      0.5,
		ChromaticAmount:   0.002,
		ChromaticSpeed:    0.8,
		PointLights:       4,
		LightBase:         0.2,
		LightGain:         1.5,
		LightPulseSpeed:   1.5,
		SpotPulseSpeed:    2,
		BackgroundStart:   math.Vec3{X: 0.02, Y: 0.02, Z: 0.05},
		BackgroundWarm:    math.Vec3{X: 0.35, Y: 0.18, Z: 0.08},
		FogBase:           0.01,
		FogGain:           0.03,
		ExposureBase:      0.8,
		ExposureGain:      0.6,
		TemporalBlendRate: 8,
	}
}
