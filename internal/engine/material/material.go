// Package material resolves packed material descriptors into renderable
// materials.
package material

import (
	"fmt"
	"image"

	"github.com/amrayach/house-of-letters/pkg/formats"
)

// Class is the render treatment chosen for a material at resolve time.
type Class int

const (
	ClassOpaque Class = iota
	ClassGlass
)

// String returns a human-readable class name.
func (c Class) String() string {
	switch c {
	case ClassOpaque:
		return "Opaque"
	case ClassGlass:
		return "Glass"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// NeutralDiffuse is used when a descriptor has no diffuse color.
var NeutralDiffuse = [3]float32{0.8, 0.8, 0.8}

// Material is a resolved, renderable material.
type Material struct {
	Name        string
	Diffuse     [3]float32
	Opacity     float32
	Transparent bool
	DoubleSided bool
	Class       Class

	// MapDiffuse is the texture file the descriptor names, if any.
	MapDiffuse string
	// Texture is filled by loaders that decode textures.
	Texture *image.NRGBA
}

// Default returns the neutral opaque material.
func Default() Material {
	return Material{
		Name:    "default",
		Diffuse: NeutralDiffuse,
		Opacity: 1,
		Class:   ClassOpaque,
	}
}

// FromDescriptor resolves one descriptor. Opacity below 1 classifies the
// material as glass, which renders transparent and double-sided.
func FromDescriptor(d formats.MaterialDescriptor) Material {
	m := Default()
	m.Name = d.Name
	m.MapDiffuse = d.MapDiffuse
	if d.DiffuseColor != nil {
		m.Diffuse = *d.DiffuseColor
	}
	if d.Opacity != nil {
		m.Opacity = *d.Opacity
	}
	if m.Opacity < 1 {
		m.Transparent = true
		m.DoubleSided = true
		m.Class = ClassGlass
	}
	return m
}
