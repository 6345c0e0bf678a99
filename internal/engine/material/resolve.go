package material

import (
	"github.com/amrayach/house-of-letters/internal/engine/model"
	"github.com/amrayach/house-of-letters/pkg/formats"
)

// Set is the materials of one mesh, one per distinct material index the
// groups reference, in first-reference order.
type Set struct {
	Materials []Material
	slots     map[int]int
}

// Resolve builds the material set for groups. Indices beyond descs resolve
// to the default material. With no groups a single default material is
// returned.
func Resolve(descs []formats.MaterialDescriptor, groups []formats.MaterialGroup) *Set {
	s := &Set{slots: make(map[int]int)}

	for _, g := range groups {
		if _, ok := s.slots[g.MaterialIndex]; ok {
			continue
		}
		m := Default()
		if g.MaterialIndex >= 0 && g.MaterialIndex < len(descs) {
			m = FromDescriptor(descs[g.MaterialIndex])
		}
		s.slots[g.MaterialIndex] = len(s.Materials)
		s.Materials = append(s.Materials, m)
	}

	if len(s.Materials) == 0 {
		s.Materials = append(s.Materials, Default())
	}
	return s
}

// Slot maps a raw material index to its position in Materials. Unknown
// indices map to slot 0.
func (s *Set) Slot(index int) int {
	if slot, ok := s.slots[index]; ok {
		return slot
	}
	return 0
}

// Bind rewrites the mesh's draw ranges from raw material indices to slots.
func (s *Set) Bind(mesh *model.Mesh) {
	if mesh == nil {
		return
	}
	for i := range mesh.Ranges {
		mesh.Ranges[i].MaterialIndex = s.Slot(mesh.Ranges[i].MaterialIndex)
	}
}

// Transparent reports whether any material needs blending.
func (s *Set) Transparent() bool {
	for _, m := range s.Materials {
		if m.Transparent {
			return true
		}
	}
	return false
}

// Release drops decoded textures so they can be collected.
func (s *Set) Release() {
	for i := range s.Materials {
		s.Materials[i].Texture = nil
	}
}
