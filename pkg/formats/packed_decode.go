package formats

import "fmt"

// Defaults substituted for attribute indices outside their pool.
var (
	DefaultNormal = [3]float32{0, 1, 0}
	DefaultUV     = [2]float32{0, 0}
	DefaultColor  = [3]float32{1, 1, 1}
)

// quadFan splits a quad into two triangles sharing corner 0.
var quadFan = [2][3]int{{0, 1, 2}, {0, 2, 3}}

// FaceRecord is one decoded entry of the face stream.
type FaceRecord struct {
	Flags         FaceFlags
	Vertices      [4]int
	Material      int
	UVs           [4]int // layer 0 only
	FaceNormal    int
	VertexNormals [4]int
	FaceColor     int
	VertexColors  [4]int
}

// Triangles returns how many triangles the record expands to.
func (r *FaceRecord) Triangles() int {
	return r.Flags.Corners() - 2
}

// MaterialGroup is a contiguous triangle range sharing one material.
type MaterialGroup struct {
	Start         int // first triangle
	Count         int // triangle count
	MaterialIndex int
}

// Geometry is the decoded, non-indexed triangle list of a packed model.
// Normals, UVs and Colors are nil when no face supplied them.
type Geometry struct {
	Positions []float32 // 9 per triangle
	Normals   []float32 // 9 per triangle
	UVs       []float32 // 6 per triangle
	Colors    []float32 // 9 per triangle
	Groups    []MaterialGroup
	Materials []MaterialDescriptor
}

// TriangleCount returns the number of decoded triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Positions) / 9
}

// DecodeError reports a malformed face stream. Decoding stops at the failing
// record; everything before it is kept.
type DecodeError struct {
	Face   int // index of the failing face record
	Offset int // position in the face array
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding face %d at offset %d: %v", e.Face, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// faceCursor walks the flat face array front to back.
type faceCursor struct {
	faces []int
	off   int
}

func (c *faceCursor) done() bool {
	return c.off >= len(c.faces)
}

func (c *faceCursor) next() (int, bool) {
	if c.off >= len(c.faces) {
		return 0, false
	}
	v := c.faces[c.off]
	c.off++
	return v, true
}

// fill reads len(dst) entries into dst.
func (c *faceCursor) fill(dst []int) bool {
	if c.off+len(dst) > len(c.faces) {
		c.off = len(c.faces)
		return false
	}
	copy(dst, c.faces[c.off:])
	c.off += len(dst)
	return true
}

func (c *faceCursor) skip(n int) bool {
	if c.off+n > len(c.faces) {
		c.off = len(c.faces)
		return false
	}
	c.off += n
	return true
}

// readRecord consumes exactly the entries dictated by the next flag byte.
func (c *faceCursor) readRecord(uvLayers int) (FaceRecord, error) {
	var rec FaceRecord

	raw, ok := c.next()
	if !ok {
		return rec, ErrTruncatedFace
	}
	if raw < 0 || raw > 0xFF {
		return rec, ErrInvalidFaceFlags
	}
	rec.Flags = FaceFlags(raw)
	n := rec.Flags.Corners()

	if !c.fill(rec.Vertices[:n]) {
		return rec, ErrTruncatedFace
	}
	if rec.Flags.Has(FaceMaterial) {
		if rec.Material, ok = c.next(); !ok {
			return rec, ErrTruncatedFace
		}
	}
	if rec.Flags.Has(FaceUV) && !c.skip(uvLayers) {
		return rec, ErrTruncatedFace
	}
	if rec.Flags.Has(FaceVertexUV) {
		for layer := 0; layer < uvLayers; layer++ {
			if layer == 0 {
				ok = c.fill(rec.UVs[:n])
			} else {
				ok = c.skip(n)
			}
			if !ok {
				return rec, ErrTruncatedFace
			}
		}
	}
	if rec.Flags.Has(FaceNormal) {
		if rec.FaceNormal, ok = c.next(); !ok {
			return rec, ErrTruncatedFace
		}
	}
	if rec.Flags.Has(FaceVertexNormal) && !c.fill(rec.VertexNormals[:n]) {
		return rec, ErrTruncatedFace
	}
	if rec.Flags.Has(FaceColor) {
		if rec.FaceColor, ok = c.next(); !ok {
			return rec, ErrTruncatedFace
		}
	}
	if rec.Flags.Has(FaceVertexColor) && !c.fill(rec.VertexColors[:n]) {
		return rec, ErrTruncatedFace
	}
	return rec, nil
}

// decodeState carries the open material group and which optional attributes
// any face has supplied so far.
type decodeState struct {
	model     *PackedModel
	geom      *Geometry
	scale     float32
	group     MaterialGroup
	groupOpen bool
	triangles int

	sawNormals bool
	sawUVs     bool
	sawColors  bool
}

// DecodeGeometry expands the face stream of m into a triangle list.
//
// The returned geometry is never nil. A non-nil error is a *DecodeError and
// is recoverable: the geometry then holds everything decoded before the
// malformed record (or nothing, when the vertex or face array is missing).
// Out-of-range UV, normal and color indices fall back to defaults silently.
func DecodeGeometry(m *PackedModel) (*Geometry, error) {
	g := &Geometry{}
	if m == nil || len(m.Vertices) < 3 {
		return g, &DecodeError{Err: ErrMissingVertices}
	}
	if len(m.Faces) == 0 {
		return g, &DecodeError{Err: ErrMissingFaces}
	}
	g.Materials = m.Materials

	s := &decodeState{model: m, geom: g, scale: 1}
	if m.Scale > 0 {
		s.scale = 1 / m.Scale
	}

	c := &faceCursor{faces: m.Faces}
	var err error
	for face := 0; !c.done(); face++ {
		start := c.off
		rec, rerr := c.readRecord(m.UVLayers())
		if rerr == nil {
			rerr = s.checkVertices(&rec)
		}
		if rerr != nil {
			err = &DecodeError{Face: face, Offset: start, Err: rerr}
			break
		}
		s.emit(&rec)
	}
	s.closeGroup()

	if !s.sawNormals {
		g.Normals = nil
	}
	if !s.sawUVs {
		g.UVs = nil
	}
	if !s.sawColors {
		g.Colors = nil
	}
	return g, err
}

func (s *decodeState) checkVertices(rec *FaceRecord) error {
	limit := s.model.VertexCount()
	for _, vi := range rec.Vertices[:rec.Flags.Corners()] {
		if vi < 0 || vi >= limit {
			return fmt.Errorf("%w: %d (pool has %d)", ErrVertexIndexRange, vi, limit)
		}
	}
	return nil
}

// emit appends the record's triangles and updates the material groups.
func (s *decodeState) emit(rec *FaceRecord) {
	material := 0
	if rec.Flags.Has(FaceMaterial) {
		material = rec.Material
	}
	if s.groupOpen && material != s.group.MaterialIndex {
		s.closeGroup()
	}
	if !s.groupOpen {
		s.group = MaterialGroup{Start: s.triangles, MaterialIndex: material}
		s.groupOpen = true
	}

	tris := rec.Triangles()
	for t := 0; t < tris; t++ {
		for _, corner := range quadFan[t] {
			s.emitCorner(rec, corner)
		}
	}
	s.group.Count += tris
	s.triangles += tris
}

func (s *decodeState) emitCorner(rec *FaceRecord, corner int) {
	m := s.model
	g := s.geom

	vi := rec.Vertices[corner] * 3
	g.Positions = append(g.Positions,
		m.Vertices[vi]*s.scale, m.Vertices[vi+1]*s.scale, m.Vertices[vi+2]*s.scale)

	normal := DefaultNormal
	switch {
	case rec.Flags.Has(FaceVertexNormal):
		normal = lookup3(m.Normals, rec.VertexNormals[corner], DefaultNormal)
		s.sawNormals = true
	case rec.Flags.Has(FaceNormal):
		normal = lookup3(m.Normals, rec.FaceNormal, DefaultNormal)
		s.sawNormals = true
	}
	g.Normals = append(g.Normals, normal[:]...)

	uv := DefaultUV
	if rec.Flags.Has(FaceVertexUV) && m.UVLayers() > 0 {
		uv = lookup2(m.UVs[0], rec.UVs[corner], DefaultUV)
		s.sawUVs = true
	}
	g.UVs = append(g.UVs, uv[:]...)

	color := DefaultColor
	switch {
	case rec.Flags.Has(FaceVertexColor):
		color = lookupColor(m.Colors, rec.VertexColors[corner])
		s.sawColors = true
	case rec.Flags.Has(FaceColor):
		color = lookupColor(m.Colors, rec.FaceColor)
		s.sawColors = true
	}
	g.Colors = append(g.Colors, color[:]...)
}

func (s *decodeState) closeGroup() {
	if s.groupOpen && s.group.Count > 0 {
		s.geom.Groups = append(s.geom.Groups, s.group)
	}
	s.groupOpen = false
}

func lookup3(pool []float32, idx int, def [3]float32) [3]float32 {
	if idx < 0 || idx >= len(pool)/3 {
		return def
	}
	return [3]float32{pool[idx*3], pool[idx*3+1], pool[idx*3+2]}
}

func lookup2(pool []float32, idx int, def [2]float32) [2]float32 {
	if idx < 0 || idx >= len(pool)/2 {
		return def
	}
	return [2]float32{pool[idx*2], pool[idx*2+1]}
}

// lookupColor unpacks a 0xRRGGBB pool entry.
func lookupColor(pool []uint32, idx int) [3]float32 {
	if idx < 0 || idx >= len(pool) {
		return DefaultColor
	}
	hex := pool[idx]
	return [3]float32{
		float32(hex>>16&0xFF) / 255,
		float32(hex>>8&0xFF) / 255,
		float32(hex&0xFF) / 255,
	}
}
