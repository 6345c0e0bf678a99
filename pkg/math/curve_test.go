package math

import (
	"testing"

	"github.com/chewxy/math32"
)

func approxVec3(a, b Vec3, eps float32) bool {
	return a.Distance(b) <= eps
}

func TestCatmullRomEndpoints(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {10, 2, 0}, {12, 5, -8}, {30, 5, -9}}
	c := NewCentripetal(pts)

	if got := c.Point(0); !approxVec3(got, pts[0], 1e-4) {
		t.Errorf("Point(0) = %v, want %v", got, pts[0])
	}
	if got := c.Point(1); !approxVec3(got, pts[3], 1e-4) {
		t.Errorf("Point(1) = %v, want %v", got, pts[3])
	}
	if got := c.PointAt(0); !approxVec3(got, pts[0], 1e-4) {
		t.Errorf("PointAt(0) = %v, want %v", got, pts[0])
	}
	if got := c.PointAt(1); !approxVec3(got, pts[3], 1e-3) {
		t.Errorf("PointAt(1) = %v, want %v", got, pts[3])
	}
}

func TestCatmullRomPassesThroughWaypoints(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {5, 1, 0}, {5, 9, 0}}
	c := NewCentripetal(pts)

	for i, p := range pts {
		got := c.Point(float32(i) / float32(len(pts)-1))
		if !approxVec3(got, p, 1e-4) {
			t.Errorf("waypoint %d: got %v, want %v", i, got, p)
		}
	}
}

func TestCatmullRomStraightLine(t *testing.T) {
	c := NewCentripetal([]Vec3{{0, 0, 0}, {10, 0, 0}})

	if got := c.Length(); got < 9.99 || got > 10.01 {
		t.Errorf("Length = %v, want 10", got)
	}
	mid := c.PointAt(0.5)
	if !approxVec3(mid, Vec3{5, 0, 0}, 0.05) {
		t.Errorf("PointAt(0.5) = %v, want ~{5 0 0}", mid)
	}
}

func TestCatmullRomCoincidentPoints(t *testing.T) {
	c := NewCentripetal([]Vec3{{1, 1, 1}, {1, 1, 1}, {4, 1, 1}})
	for i := 0; i <= 10; i++ {
		p := c.PointAt(float32(i) / 10)
		if math32.IsNaN(p.X) || math32.IsNaN(p.Y) || math32.IsNaN(p.Z) {
			t.Fatalf("NaN at %d: %v", i, p)
		}
	}
}

func TestNewCatmullRomPanicsOnSinglePoint(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for a single point")
		}
	}()
	NewCentripetal([]Vec3{{0, 0, 0}})
}
