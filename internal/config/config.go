// Package config handles intro configuration loading and management.
package config

import "time"

// Config holds all intro settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Intro   IntroConfig   `yaml:"intro"`
	Effects EffectsConfig `yaml:"effects"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" validate:"omitempty,oneof=console json"`
	LogFile string `yaml:"log_file"`
}

// IntroConfig holds the camera flight settings.
type IntroConfig struct {
	Duration        time.Duration `yaml:"duration" validate:"gt=0"`
	FPS             int           `yaml:"fps" validate:"gt=0,lte=240"`
	Waypoints       [][3]float32  `yaml:"waypoints" validate:"min=2"`
	PositionDamping float32       `yaml:"position_damping" validate:"gt=0"`
	LookDamping     float32       `yaml:"look_damping" validate:"gt=0"`
	LookAnchor      [3]float32    `yaml:"look_anchor"`
	LookSway        [3]float32    `yaml:"look_sway"` // amplitude per axis
	SwayCycles      float32       `yaml:"sway_cycles" validate:"gte=0"`
	ShakeStart      float32       `yaml:"shake_start" validate:"gte=0,lt=1"`
	ShakeAmplitude  float32       `yaml:"shake_amplitude" validate:"gte=0"`
	ShakeSeed       uint64        `yaml:"shake_seed"`
	TitleDuration   time.Duration `yaml:"title_duration" validate:"gte=0"` // zero orbits until interrupted
}

// EffectsConfig holds the post-processing curve parameters.
type EffectsConfig struct {
	BloomBase         float32    `yaml:"bloom_base"`
	BloomGain         float32    `yaml:"bloom_gain"`
	VignetteBase      float32    `yaml:"vignette_base"`
	VignetteGain      float32    `yaml:"vignette_gain"`
	ChromaticAmount   float32    `yaml:"chromatic_amount" validate:"gte=0"`
	ChromaticSpeed    float32    `yaml:"chromatic_speed"`
	PointLights       int        `yaml:"point_lights" validate:"gte=0,lte=16"`
	LightBase         float32    `yaml:"light_base"`
	LightGain         float32    `yaml:"light_gain"`
	LightPulseSpeed   float32    `yaml:"light_pulse_speed"`
	SpotPulseSpeed    float32    `yaml:"spot_pulse_speed"`
	BackgroundStart   [3]float32 `yaml:"background_start"`
	BackgroundWarm    [3]float32 `yaml:"background_warm"`
	FogBase           float32    `yaml:"fog_base" validate:"gte=0"`
	FogGain           float32    `yaml:"fog_gain"`
	ExposureBase      float32    `yaml:"exposure_base" validate:"gt=0"`
	ExposureGain      float32    `yaml:"exposure_gain"`
	TemporalBlendRate float32    `yaml:"temporal_blend_rate" validate:"gte=0"`
}

// AssetsConfig holds the fixed list of assets loaded before the flight.
type AssetsConfig struct {
	Root           string        `yaml:"root" validate:"required"`
	MaxTextureSize int           `yaml:"max_texture_size" validate:"gte=0"`
	Items          []AssetConfig `yaml:"items" validate:"min=1,dive"`
}

// AssetConfig names one asset. Exactly one item must be primary.
type AssetConfig struct {
	Name    string `yaml:"name" validate:"required"`
	Path    string `yaml:"path" validate:"required"`
	Mode    string `yaml:"mode" validate:"omitempty,oneof=geometry textured"`
	Primary bool   `yaml:"primary"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:   "info",
			Format:  "console",
			LogFile: "",
		},
		Intro: IntroConfig{
			Duration: 12 * time.Second,
			FPS:      60,
			Waypoints: [][3]float32{
				{0, 40, 120},
				{35, 22, 60},
				{-10, 12, 25},
				{0, 4, 8},
			},
			PositionDamping: 4,
			LookDamping:     3,
			LookAnchor:      [3]float32{0, 2, 0},
			LookSway:        [3]float32{1.5, 0.5, 0},
			SwayCycles:      2,
			ShakeStart:      0.7,
			ShakeAmplitude:  0.4,
			ShakeSeed:       1,
			TitleDuration:   3 * time.Second,
		},
		Effects: EffectsConfig{
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
			BackgroundStart:   [3]float32{0.02, 0.02, 0.05},
			BackgroundWarm:    [3]float32{0.35, 0.18, 0.08},
			FogBase:           0.01,
			FogGain:           0.03,
			ExposureBase:      0.8,
			ExposureGain:      0.6,
			TemporalBlendRate: 8,
		},
		Assets: AssetsConfig{
			Root:           "assets",
			MaxTextureSize: 2048,
			Items: []AssetConfig{
				{Name: "house", Path: "models/house.json", Mode: "textured", Primary: true},
				{Name: "letters", Path: "models/letters.json", Mode: "textured"},
				{Name: "desk", Path: "models/desk.json", Mode: "geometry"},
				{Name: "lamp", Path: "models/lamp.json", Mode: "geometry"},
				{Name: "shelf", Path: "models/shelf.json", Mode: "geometry"},
				{Name: "window", Path: "models/window.json", Mode: "geometry"},
			},
		},
	}
}
