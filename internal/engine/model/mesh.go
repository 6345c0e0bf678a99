package model

import (
	"github.com/chewxy/math32"

	"github.com/amrayach/house-of-letters/pkg/formats"
)

// BuildMesh converts decoded geometry into an interleaved mesh. Material
// groups become draw ranges over the one shared vertex buffer. When the
// geometry carries no normals, smooth per-vertex normals are synthesized by
// averaging the normals of faces that share a vertex position.
// Returns nil for empty geometry.
func BuildMesh(g *formats.Geometry) *Mesh {
	if g == nil || g.TriangleCount() == 0 {
		return nil
	}

	count := g.TriangleCount() * 3
	vertices := make([]Vertex, count)
	bounds := emptyBounds()

	for i := range vertices {
		v := &vertices[i]
		v.Position = [3]float32{g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2]}
		updateBounds(&bounds, v.Position)

		if g.Normals != nil {
			v.Normal = [3]float32{g.Normals[i*3], g.Normals[i*3+1], g.Normals[i*3+2]}
		}
		if g.UVs != nil {
			v.TexCoord = [2]float32{g.UVs[i*2], g.UVs[i*2+1]}
		}
		if g.Colors != nil {
			v.Color = [3]float32{g.Colors[i*3], g.Colors[i*3+1], g.Colors[i*3+2]}
		} else {
			v.Color = formats.DefaultColor
		}
	}

	mesh := &Mesh{
		Vertices: vertices,
		Ranges:   make([]DrawRange, 0, len(g.Groups)),
		Bounds:   bounds,
	}

	for _, grp := range g.Groups {
		mesh.Ranges = append(mesh.Ranges, DrawRange{
			Start:         grp.Start * 3,
			Count:         grp.Count * 3,
			MaterialIndex: grp.MaterialIndex,
		})
	}

	if g.Normals == nil {
		assignFaceNormals(vertices)
		SmoothNormals(vertices)
		mesh.SmoothedNormals = true
	}

	return mesh
}

// assignFaceNormals gives every vertex its triangle's unit normal.
// Degenerate triangles get a zero normal so they add nothing when smoothed.
func assignFaceNormals(vertices []Vertex) {
	for t := 0; t+2 < len(vertices); t += 3 {
		n, mag := FaceNormal(vertices[t].Position, vertices[t+1].Position, vertices[t+2].Position)
		if mag < 1e-5 {
			n = [3]float32{}
		} else {
			n = [3]float32{n[0] / mag, n[1] / mag, n[2] / mag}
		}
		vertices[t].Normal = n
		vertices[t+1].Normal = n
		vertices[t+2].Normal = n
	}
}

// SmoothNormals averages normals at shared vertex positions.
// This reduces faceted appearance on models.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup. Keys stay in
	// float so coordinates beyond the int32 range get their own buckets.
	posMap := make(map[[3]float32][]int)
	for i := range vertices {
		p := vertices[i].Position
		key := [3]float32{
			math32.Round(p[0] / epsilon),
			math32.Round(p[1] / epsilon),
			math32.Round(p[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		var sum [3]float32
		for _, idx := range idxs {
			sum[0] += vertices[idx].Normal[0]
			sum[1] += vertices[idx].Normal[1]
			sum[2] += vertices[idx].Normal[2]
		}

		avg := Normalize(sum)

		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

func updateBounds(b *Bounds, p [3]float32) {
	for k := 0; k < 3; k++ {
		if p[k] < b.Min[k] {
			b.Min[k] = p[k]
		}
		if p[k] > b.Max[k] {
			b.Max[k] = p[k]
		}
	}
}
