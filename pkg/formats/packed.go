// Packed model format: the legacy JSON scene description with flat vertex
// pools and a bitflag-driven face stream.
package formats

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Packed model errors.
var (
	ErrEmptyPackedModel = errors.New("empty packed model data")
	ErrMissingVertices  = errors.New("packed model has no vertices")
	ErrMissingFaces     = errors.New("packed model has no faces")
	ErrTruncatedFace    = errors.New("truncated face record")
	ErrVertexIndexRange = errors.New("vertex index out of range")
	ErrInvalidFaceFlags = errors.New("face flags do not fit in a byte")
)

// FaceFlags is the leading bitfield of a face record. Each set bit adds
// entries to the record.
type FaceFlags uint8

const (
	FaceQuad         FaceFlags = 1 << 0 // 4 vertex indices instead of 3
	FaceMaterial     FaceFlags = 1 << 1 // + 1 material index
	FaceUV           FaceFlags = 1 << 2 // + 1 index per UV layer (unused by renderers)
	FaceVertexUV     FaceFlags = 1 << 3 // + N indices per UV layer
	FaceNormal       FaceFlags = 1 << 4 // + 1 normal index
	FaceVertexNormal FaceFlags = 1 << 5 // + N normal indices
	FaceColor        FaceFlags = 1 << 6 // + 1 color index
	FaceVertexColor  FaceFlags = 1 << 7 // + N color indices
)

// Has reports whether all bits of f2 are set.
func (f FaceFlags) Has(f2 FaceFlags) bool {
	return f&f2 == f2
}

// Corners returns the number of vertex indices the record carries.
func (f FaceFlags) Corners() int {
	if f.Has(FaceQuad) {
		return 4
	}
	return 3
}

// PackedMetadata is the optional metadata block of a packed model.
type PackedMetadata struct {
	FormatVersion float32 `json:"formatVersion"`
	GeneratedBy   string  `json:"generatedBy"`
	Vertices      int     `json:"vertices"`
	Faces         int     `json:"faces"`
	Materials     int     `json:"materials"`
}

// MaterialDescriptor is a raw material entry of a packed model.
type MaterialDescriptor struct {
	Name         string      `json:"DbgName"`
	DiffuseColor *[3]float32 `json:"colorDiffuse"`
	Opacity      *float32    `json:"opacity"`
	MapDiffuse   string      `json:"mapDiffuse"`
}

// PackedModel is a parsed legacy packed model payload.
type PackedModel struct {
	Metadata  PackedMetadata       `json:"metadata"`
	Scale     float32              `json:"scale"`
	Vertices  []float32            `json:"vertices"`
	Normals   []float32            `json:"normals"`
	Colors    []uint32             `json:"colors"`
	UVs       [][]float32          `json:"uvs"`
	Faces     []int                `json:"faces"`
	Materials []MaterialDescriptor `json:"materials"`
}

// ParsePackedModel parses a packed model from JSON data.
func ParsePackedModel(data []byte) (*PackedModel, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPackedModel
	}

	var m PackedModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing packed model: %w", err)
	}
	return &m, nil
}

// VertexCount returns the number of positions in the vertex pool.
func (m *PackedModel) VertexCount() int {
	return len(m.Vertices) / 3
}

// UVLayers returns the number of UV layers. Face records carry one UV index
// set per layer.
func (m *PackedModel) UVLayers() int {
	return len(m.UVs)
}
