package math

import "github.com/chewxy/math32"

// CentripetalAlpha is the knot exponent for centripetal Catmull-Rom splines.
const CentripetalAlpha = 0.5

// arcDivisions is the number of samples in the arc-length table.
const arcDivisions = 200

// CatmullRom is an open Catmull-Rom spline through a fixed list of points.
// It is immutable once built.
type CatmullRom struct {
	points  []Vec3
	alpha   float32
	lengths []float32 // cumulative arc length at i/arcDivisions
}

// NewCatmullRom fits a spline through points using the given knot exponent
// (0 uniform, 0.5 centripetal, 1 chordal). It needs at least two points.
func NewCatmullRom(points []Vec3, alpha float32) *CatmullRom {
	if len(points) < 2 {
		panic("math: Catmull-Rom spline needs at least two points")
	}
	c := &CatmullRom{
		points: append([]Vec3(nil), points...),
		alpha:  alpha,
	}
	c.lengths = c.arcLengths()
	return c
}

// NewCentripetal fits a centripetal Catmull-Rom spline.
func NewCentripetal(points []Vec3) *CatmullRom {
	return NewCatmullRom(points, CentripetalAlpha)
}

// Points returns a copy of the control points.
func (c *CatmullRom) Points() []Vec3 {
	return append([]Vec3(nil), c.points...)
}

// Length returns the approximate arc length.
func (c *CatmullRom) Length() float32 {
	return c.lengths[len(c.lengths)-1]
}

// Point samples the curve at parameter t in [0, 1], where each segment
// between consecutive points takes an equal share of t.
func (c *CatmullRom) Point(t float32) Vec3 {
	t = Clamp(t, 0, 1)
	n := len(c.points)

	p := float32(n-1) * t
	seg := int(math32.Floor(p))
	w := p - float32(seg)
	if seg >= n-1 {
		seg = n - 2
		w = 1
	}

	p1 := c.points[seg]
	p2 := c.points[seg+1]

	var p0, p3 Vec3
	if seg > 0 {
		p0 = c.points[seg-1]
	} else {
		p0 = p1.Scale(2).Sub(p2)
	}
	if seg+2 < n {
		p3 = c.points[seg+2]
	} else {
		p3 = p2.Scale(2).Sub(p1)
	}

	dt0 := math32.Pow(p0.DistanceSquared(p1), c.alpha/2)
	dt1 := math32.Pow(p1.DistanceSquared(p2), c.alpha/2)
	dt2 := math32.Pow(p2.DistanceSquared(p3), c.alpha/2)

	// Coincident points would divide by zero.
	if dt1 < 1e-4 {
		dt1 = 1
	}
	if dt0 < 1e-4 {
		dt0 = dt1
	}
	if dt2 < 1e-4 {
		dt2 = dt1
	}

	return Vec3{
		nonUniformSegment(p0.X, p1.X, p2.X, p3.X, dt0, dt1, dt2, w),
		nonUniformSegment(p0.Y, p1.Y, p2.Y, p3.Y, dt0, dt1, dt2, w),
		nonUniformSegment(p0.Z, p1.Z, p2.Z, p3.Z, dt0, dt1, dt2, w),
	}
}

// PointAt samples the curve at fraction u in [0, 1] of its arc length, so
// equal steps in u cover equal distances.
func (c *CatmullRom) PointAt(u float32) Vec3 {
	return c.Point(c.arcToParam(Clamp(u, 0, 1)))
}

// nonUniformSegment evaluates one coordinate of the Hermite segment between
// x1 and x2 with tangents derived from the knot intervals dt0..dt2.
func nonUniformSegment(x0, x1, x2, x3, dt0, dt1, dt2, t float32) float32 {
	t1 := (x1-x0)/dt0 - (x2-x0)/(dt0+dt1) + (x2-x1)/dt1
	t2 := (x2-x1)/dt1 - (x3-x1)/(dt1+dt2) + (x3-x2)/dt2
	t1 *= dt1
	t2 *= dt1

	c0 := x1
	c1 := t1
	c2 := -3*x1 + 3*x2 - 2*t1 - t2
	c3 := 2*x1 - 2*x2 + t1 + t2

	return c0 + c1*t + c2*t*t + c3*t*t*t
}

func (c *CatmullRom) arcLengths() []float32 {
	lengths := make([]float32, arcDivisions+1)
	prev := c.Point(0)
	for i := 1; i <= arcDivisions; i++ {
		cur := c.Point(float32(i) / arcDivisions)
		lengths[i] = lengths[i-1] + cur.Distance(prev)
		prev = cur
	}
	return lengths
}

// arcToParam inverts the arc-length table with a binary search and linear
// interpolation inside the bracketing sample.
func (c *CatmullRom) arcToParam(u float32) float32 {
	total := c.Length()
	if total == 0 {
		return u
	}
	target := u * total

	lo, hi := 0, len(c.lengths)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if c.lengths[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return 0
	}

	before := c.lengths[lo-1]
	span := c.lengths[lo] - before
	frac := float32(0)
	if span > 0 {
		frac = (target - before) / span
	}
	return (float32(lo-1) + frac) / arcDivisions
}
