package game

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/amrayach/house-of-letters/internal/assets"
	"github.com/amrayach/house-of-letters/internal/config"
	"github.com/amrayach/house-of-letters/internal/engine/camera"
	"github.com/amrayach/house-of-letters/internal/game/states"
	"github.com/amrayach/house-of-letters/internal/intro"
)

const tetrahedron = `{
	"vertices": [0,0,0, 2,0,0, 0,2,0, 0,0,2],
	"faces": [0, 0,1,2, 0, 0,2,3, 0, 0,1,3]
}`

type frames struct {
	mu  sync.Mutex
	all []intro.Frame
}

func (f *frames) Render(fr intro.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.all = append(f.all, fr)
	return nil
}

func (f *frames) phases() map[camera.Phase]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[camera.Phase]int)
	for _, fr := range f.all {
		seen[fr.Phase]++
	}
	return seen
}

func (f *frames) last() intro.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.all[len(f.all)-1]
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "models"), 0755))

	cfg := config.Default()
	cfg.Assets.Root = root
	cfg.Intro.FPS = 200
	cfg.Intro.Duration = 60 * time.Millisecond
	cfg.Intro.TitleDuration = 30 * time.Millisecond
	for _, item := range cfg.Assets.Items {
		require.NoError(t, os.WriteFile(filepath.Join(root, item.Path), []byte(tetrahedron), 0644))
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestGame_RunsIntroThenTitle(t *testing.T) {
	cfg := testConfig(t)
	rec := &frames{}

	g, err := New(context.Background(), cfg, assets.NewDirSource(cfg.Assets.Root), rec)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, g.Run(ctx))
	require.NoError(t, ctx.Err(), "loop should end on its own")

	seen := rec.phases()
	assert.Positive(t, seen[camera.PhaseActive])
	assert.Positive(t, seen[camera.PhaseComplete])
	require.NotNil(t, g.title)
	assert.Positive(t, g.title.Frames())

	// The loop stops right after a title frame, which still draws the
	// loaded scene.
	assert.Len(t, rec.last().Objects, len(cfg.Assets.Items))
	assert.False(t, g.scene.Released())

	require.NoError(t, g.Close())
	assert.True(t, g.scene.Released())
	assert.Zero(t, g.scene.Len())
}

func TestGame_SkipFromInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Intro.Duration = time.Hour
	rec := &frames{}

	g, err := New(context.Background(), cfg, assets.NewDirSource(cfg.Assets.Root), rec)
	require.NoError(t, err)

	// Keep pressing until the flight is active and the skip lands.
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			case <-time.After(2 * time.Millisecond):
				g.Input().Push(intro.EventSkip)
			}
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = g.Run(ctx)
	close(stop)
	require.NoError(t, err)
	require.NoError(t, ctx.Err())
	assert.Positive(t, rec.phases()[camera.PhaseSkipped])
}

func TestGame_InterruptDisposesIntro(t *testing.T) {
	cfg := testConfig(t)
	cfg.Intro.Duration = time.Hour

	g, err := New(context.Background(), cfg, assets.NewDirSource(cfg.Assets.Root), &frames{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, g.Run(ctx))

	_, ok := g.manager.Current().(*states.IntroState)
	require.True(t, ok, "still in the intro")
	require.NoError(t, g.Close())
	assert.Nil(t, g.manager.Current())
	assert.True(t, g.scene.Released())
}

func TestGame_RunRejectsZeroFPS(t *testing.T) {
	cfg := testConfig(t)
	g, err := New(context.Background(), cfg, assets.NewDirSource(cfg.Assets.Root), &frames{})
	require.NoError(t, err)
	defer g.Close()

	g.fps = 0
	assert.ErrorIs(t, g.Run(context.Background()), intro.ErrInvalidFPS)
}

func TestNew_RejectsBadAssets(t *testing.T) {
	cfg := config.Default()
	cfg.Assets.Items[2].Mode = "voxels"
	_, err := New(context.Background(), cfg, assets.NewDirSource(t.TempDir()), &frames{})
	assert.Error(t, err)
}

func TestInput_PumpAndUnsubscribe(t *testing.T) {
	in := NewInput()
	var a, b []intro.Event
	unsubA := in.Subscribe(func(ev intro.Event) { a = append(a, ev) })
	in.Subscribe(func(ev intro.Event) { b = append(b, ev) })

	assert.Zero(t, in.Pump())

	in.Push(intro.EventSkip)
	in.Push(intro.EventSkip)
	assert.Equal(t, 2, in.Pump())
	assert.Len(t, a, 2)
	assert.Len(t, b, 2)

	unsubA()
	in.Push(intro.EventSkip)
	assert.Equal(t, 1, in.Pump())
	assert.Len(t, a, 2)
	assert.Len(t, b, 3)
}

func TestInput_Scan(t *testing.T) {
	in := NewInput()
	require.NoError(t, in.Scan(strings.NewReader("\n\nq\n")))

	n := 0
	in.Subscribe(func(intro.Event) { n++ })
	assert.Equal(t, 3, in.Pump())
	assert.Equal(t, 3, n)
}

func TestInput_WatchLogsReadErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	in := NewInput()

	in.Watch(io.MultiReader(strings.NewReader("\n"), iotest.ErrReader(errors.New("tty gone"))), zap.New(core))

	assert.Equal(t, 1, in.Pump())
	entries := logs.FilterMessage("input stream failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "tty gone", entries[0].ContextMap()["error"])

	// A clean EOF logs nothing.
	in.Watch(strings.NewReader("\n"), zap.New(core))
	assert.Equal(t, 1, logs.Len())
}
