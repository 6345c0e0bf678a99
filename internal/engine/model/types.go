// Package model assembles decoded packed geometry into render-ready meshes.
package model

import "github.com/amrayach/house-of-letters/pkg/math"

// Vertex is one interleaved mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
	Color    [3]float32
}

// DrawRange annotates a sub-range of the shared vertex buffer that binds one
// material. Start and Count are in vertices.
type DrawRange struct {
	Start         int
	Count         int
	MaterialIndex int
}

// Mesh holds the complete mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Ranges   []DrawRange
	Bounds   Bounds

	// SmoothedNormals is set when normals were synthesized rather than decoded.
	SmoothedNormals bool
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Vertices) / 3
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// emptyBounds is inverted so the first point sets both corners.
func emptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
}

// Empty reports whether no point was ever added.
func (b Bounds) Empty() bool {
	return b.Min[0] > b.Max[0]
}

// Center returns the box center, or the origin for empty bounds.
func (b Bounds) Center() math.Vec3 {
	if b.Empty() {
		return math.Vec3{}
	}
	return math.V3(b.Min).Lerp(math.V3(b.Max), 0.5)
}

// Size returns the box extent along each axis.
func (b Bounds) Size() math.Vec3 {
	if b.Empty() {
		return math.Vec3{}
	}
	return math.V3(b.Max).Sub(math.V3(b.Min))
}
