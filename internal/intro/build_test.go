package intro

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amrayach/house-of-letters/internal/assets"
	"github.com/amrayach/house-of-letters/internal/config"
	"github.com/amrayach/house-of-letters/internal/engine/camera"
	"github.com/amrayach/house-of-letters/pkg/math"
)

const tetrahedron = `{
	"vertices": [0,0,0, 2,0,0, 0,2,0, 0,0,2],
	"faces": [0, 0,1,2, 0, 0,2,3, 0, 0,1,3],
	"materials": [{"DbgName":"plaster","colorDiffuse":[0.8,0.8,0.7]}]
}`

func TestAssets(t *testing.T) {
	list, err := Assets(config.Default().Assets)
	require.NoError(t, err)
	require.Len(t, list, 6)
	assert.Equal(t, assets.Asset{Name: "house", Path: "models/house.json", Mode: assets.ModeTextured, Primary: true}, list[0])
	assert.Equal(t, assets.ModeGeometry, list[2].Mode)

	bad := config.Default().Assets
	bad.Items[1].Mode = "voxels"
	_, err = Assets(bad)
	assert.ErrorContains(t, err, "letters")
}

func TestSequencerConfig(t *testing.T) {
	cfg := config.Default().Intro
	sc := SequencerConfig(cfg)

	require.Len(t, sc.Waypoints, 4)
	assert.Equal(t, math.Vec3{X: 0, Y: 40, Z: 120}, sc.Waypoints[0])
	assert.Equal(t, math.Vec3{Y: 2}, sc.LookAnchor)
	assert.Equal(t, cfg.Duration, sc.Duration)
	assert.Equal(t, cfg.ShakeSeed, sc.ShakeSeed)

	// The conversion copies, so the config can be reused.
	sc.Waypoints[0].X = 99
	assert.Equal(t, float32(0), cfg.Waypoints[0][0])
}

func TestEffectsConfig(t *testing.T) {
	fx := EffectsConfig(config.Default().Effects)
	assert.Equal(t, 4, fx.PointLights)
	assert.Equal(t, math.Vec3{X: 0.35, Y: 0.18, Z: 0.08}, fx.BackgroundWarm)
	assert.Equal(t, float32(8), fx.TemporalBlendRate)
}

func TestBuild_RunsAgainstDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "models"), 0755))

	cfg := config.Default()
	cfg.Assets.Root = root
	cfg.Intro.Duration = 50 * time.Millisecond
	for _, item := range cfg.Assets.Items {
		if item.Name == "shelf" {
			continue // missing assets still settle
		}
		require.NoError(t, os.WriteFile(filepath.Join(root, item.Path), []byte(tetrahedron), 0644))
	}
	require.NoError(t, cfg.Validate())

	rec := &recorder{}
	ctrl, err := Build(cfg, assets.NewDirSource(root), rec)
	require.NoError(t, err)
	defer ctrl.Dispose()

	ctrl.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ctrl.Run(ctx, 200))

	fr := rec.last()
	assert.Equal(t, camera.PhaseComplete, fr.Phase)
	assert.Equal(t, assets.LoadCounter{Loaded: 6, Total: 6}, fr.Loading)
	assert.Len(t, fr.Objects, 5)

	// Everything is offset by the house's bounds center.
	for _, o := range fr.Objects {
		assert.Equal(t, math.Vec3{X: -1, Y: -1, Z: -1}, o.Position, o.Name)
	}
}

func TestBuild_RejectsBadAssets(t *testing.T) {
	cfg := config.Default()
	cfg.Assets.Items[0].Primary = false

	_, err := Build(cfg, assets.NewDirSource(t.TempDir()), &recorder{})
	assert.ErrorIs(t, err, assets.ErrNoPrimary)
}
