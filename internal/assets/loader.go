package assets

import (
	"context"
	"errors"
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/amrayach/house-of-letters/internal/engine/material"
	"github.com/amrayach/house-of-letters/internal/engine/model"
	"github.com/amrayach/house-of-letters/internal/engine/scene"
	"github.com/amrayach/house-of-letters/internal/engine/texture"
	"github.com/amrayach/house-of-letters/internal/logger"
	"github.com/amrayach/house-of-letters/pkg/formats"
)

// ErrEmptyGeometry is returned when an asset decodes to no triangles.
var ErrEmptyGeometry = errors.New("asset has no renderable geometry")

// Mode selects what a load decodes.
type Mode int

const (
	ModeGeometry Mode = iota // geometry and materials only
	ModeTextured             // also decode each material's diffuse map
)

// String returns the config name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeGeometry:
		return "geometry"
	case ModeTextured:
		return "textured"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a config mode name. The empty string means geometry.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "geometry":
		return ModeGeometry, nil
	case "textured":
		return ModeTextured, nil
	default:
		return ModeGeometry, fmt.Errorf("unknown asset mode %q", s)
	}
}

// Asset is one named entry of the fixed load list.
type Asset struct {
	Name    string
	Path    string
	Mode    Mode
	Primary bool
}

// AssetLoader turns one asset into an unpositioned scene object.
type AssetLoader interface {
	Load(ctx context.Context, a Asset) (*scene.Object, error)
}

// Loader loads packed models from a Source.
type Loader struct {
	src            Source
	maxTextureSize int
	log            *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithMaxTextureSize caps decoded texture dimensions. Zero disables the cap.
func WithMaxTextureSize(n int) LoaderOption {
	return func(l *Loader) { l.maxTextureSize = n }
}

// WithLoaderLogger sets the logger used for decode warnings.
func WithLoaderLogger(log *zap.Logger) LoaderOption {
	return func(l *Loader) { l.log = log }
}

// NewLoader creates a loader reading from src.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{src: src}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Named("assets")
	}
	return l
}

// Load fetches, decodes and resolves one asset. A malformed face stream is
// logged and the partial geometry kept; only fetch, parse and empty-geometry
// failures are returned.
func (l *Loader) Load(ctx context.Context, a Asset) (*scene.Object, error) {
	data, err := l.src.Fetch(ctx, a.Path)
	if err != nil {
		return nil, fmt.Errorf("fetching: %w", err)
	}

	pm, err := formats.ParsePackedModel(data)
	if err != nil {
		return nil, err
	}

	geom, derr := formats.DecodeGeometry(pm)
	if derr != nil {
		l.log.Warn("partial geometry",
			zap.String("asset", a.Name),
			zap.Int("triangles", geom.TriangleCount()),
			zap.Error(derr))
	}

	mesh := model.BuildMesh(geom)
	if mesh == nil {
		if derr != nil {
			return nil, fmt.Errorf("%w: %w", ErrEmptyGeometry, derr)
		}
		return nil, ErrEmptyGeometry
	}

	mats := material.Resolve(geom.Materials, geom.Groups)
	mats.Bind(mesh)

	if a.Mode == ModeTextured {
		l.loadTextures(ctx, a, mats)
	}

	l.log.Debug("asset decoded",
		zap.String("asset", a.Name),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Int("materials", len(mats.Materials)),
		zap.Bool("smoothed", mesh.SmoothedNormals))

	return &scene.Object{
		Name:      a.Name,
		Mesh:      mesh,
		Materials: mats,
	}, nil
}

// loadTextures decodes each material's diffuse map relative to the asset.
// A failed texture leaves its material untextured.
func (l *Loader) loadTextures(ctx context.Context, a Asset, mats *material.Set) {
	dir := path.Dir(a.Path)
	for i := range mats.Materials {
		m := &mats.Materials[i]
		if m.MapDiffuse == "" {
			continue
		}

		texPath := path.Join(dir, m.MapDiffuse)
		data, err := l.src.Fetch(ctx, texPath)
		if err != nil {
			l.log.Warn("texture fetch failed",
				zap.String("asset", a.Name),
				zap.String("texture", texPath),
				zap.Error(err))
			continue
		}

		img, err := texture.Decode(m.MapDiffuse, data)
		if err != nil {
			l.log.Warn("texture decode failed",
				zap.String("asset", a.Name),
				zap.String("texture", texPath),
				zap.Error(err))
			continue
		}
		m.Texture = texture.Fit(img, l.maxTextureSize)
	}
}
