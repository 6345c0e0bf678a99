package intro

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/amrayach/house-of-letters/internal/assets"
	"github.com/amrayach/house-of-letters/internal/config"
	"github.com/amrayach/house-of-letters/internal/engine/camera"
	"github.com/amrayach/house-of-letters/internal/engine/effects"
	"github.com/amrayach/house-of-letters/internal/engine/scene"
	"github.com/amrayach/house-of-letters/internal/logger"
	"github.com/amrayach/house-of-letters/pkg/math"
)

// Assets converts the configured asset list.
func Assets(cfg config.AssetsConfig) ([]assets.Asset, error) {
	list := make([]assets.Asset, 0, len(cfg.Items))
	for _, item := range cfg.Items {
		mode, err := assets.ParseMode(item.Mode)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", item.Name, err)
		}
		list = append(list, assets.Asset{
			Name:    item.Name,
			Path:    item.Path,
			Mode:    mode,
			Primary: item.Primary,
		})
	}
	return list, nil
}

// SequencerConfig converts the configured camera flight.
func SequencerConfig(cfg config.IntroConfig) camera.SequencerConfig {
	waypoints := make([]math.Vec3, len(cfg.Waypoints))
	for i, w := range cfg.Waypoints {
		waypoints[i] = math.V3(w)
	}
	return camera.SequencerConfig{
		Waypoints:       waypoints,
		Duration:        cfg.Duration,
		PositionDamping: cfg.PositionDamping,
		LookDamping:     cfg.LookDamping,
		LookAnchor:      math.V3(cfg.LookAnchor),
		LookSway:        math.V3(cfg.LookSway),
		SwayCycles:      cfg.SwayCycles,
		ShakeStart:      cfg.ShakeStart,
		ShakeAmplitude:  cfg.ShakeAmplitude,
		ShakeSeed:       cfg.ShakeSeed,
	}
}

// EffectsConfig converts the configured effect curves.
func EffectsConfig(cfg config.EffectsConfig) effects.Config {
	return effects.Config{
		BloomBase:         cfg.BloomBase,
		BloomGain:         cfg.BloomGain,
		VignetteBase:      cfg.VignetteBase,
		VignetteGain:      cfg.VignetteGain,
		ChromaticAmount:   cfg.ChromaticAmount,
		ChromaticSpeed:    cfg.ChromaticSpeed,
		PointLights:       cfg.PointLights,
		LightBase:         cfg.LightBase,
		LightGain:         cfg.LightGain,
		LightPulseSpeed:   cfg.LightPulseSpeed,
		SpotPulseSpeed:    cfg.SpotPulseSpeed,
		BackgroundStart:   math.V3(cfg.BackgroundStart),
		BackgroundWarm:    math.V3(cfg.BackgroundWarm),
		FogBase:           cfg.FogBase,
		FogGain:           cfg.FogGain,
		ExposureBase:      cfg.ExposureBase,
		ExposureGain:      cfg.ExposureGain,
		TemporalBlendRate: cfg.TemporalBlendRate,
	}
}

// Build assembles a controller from validated config, reading assets from
// src and drawing through r.
func Build(cfg *config.Config, src assets.Source, r Renderer, opts ...Option) (*Controller, error) {
	list, err := Assets(cfg.Assets)
	if err != nil {
		return nil, err
	}

	sc := scene.New()
	loader := assets.NewLoader(src,
		assets.WithMaxTextureSize(cfg.Assets.MaxTextureSize),
		assets.WithLoaderLogger(logger.Named("assets")))

	pipeline, err := assets.NewPipeline(list, loader, sc,
		assets.WithLogger(logger.Named("pipeline")))
	if err != nil {
		return nil, fmt.Errorf("creating asset pipeline: %w", err)
	}

	seq := camera.NewSequencer(SequencerConfig(cfg.Intro),
		camera.WithSequencerLogger(logger.Named("camera")))

	logger.Debug("intro assembled",
		zap.Int("assets", len(list)),
		zap.Int("waypoints", len(cfg.Intro.Waypoints)),
		zap.Duration("duration", cfg.Intro.Duration))

	return New(EffectsConfig(cfg.Effects), pipeline, seq, r, sc, opts...), nil
}
