// Package scene holds the shared scene graph the intro populates with
// loaded, positioned meshes.
package scene

import (
	"sync"

	"github.com/amrayach/house-of-letters/internal/engine/material"
	"github.com/amrayach/house-of-letters/internal/engine/model"
	"github.com/amrayach/house-of-letters/pkg/math"
)

// Object is one positioned mesh with its resolved materials.
type Object struct {
	Name      string
	Mesh      *model.Mesh
	Materials *material.Set
	Position  math.Vec3
}

// ModelMatrix returns the object's world transform.
func (o *Object) ModelMatrix() math.Mat4 {
	return math.Translate(o.Position)
}

// WorldCenter returns the mesh bounds center in world space.
func (o *Object) WorldCenter() math.Vec3 {
	if o.Mesh == nil {
		return o.Position
	}
	return o.Mesh.Bounds.Center().Add(o.Position)
}

// release drops the object's geometry and textures.
func (o *Object) release() {
	if o.Materials != nil {
		o.Materials.Release()
	}
	o.Mesh = nil
	o.Materials = nil
}

// Scene is safe for concurrent use: asset loads add objects from their own
// goroutines while the frame loop reads them.
type Scene struct {
	mu       sync.RWMutex
	objects  []*Object
	released bool
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends obj to the scene. After Release the object is released
// immediately and Add returns false.
func (s *Scene) Add(obj *Object) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		obj.release()
		return false
	}
	s.objects = append(s.objects, obj)
	return true
}

// Objects returns a snapshot of the scene's objects in insertion order.
func (s *Scene) Objects() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Object(nil), s.objects...)
}

// Find returns the object with the given name, or nil.
func (s *Scene) Find(name string) *Object {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// TriangleCount returns the total triangle count of all objects.
func (s *Scene) TriangleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, o := range s.objects {
		if o.Mesh != nil {
			total += o.Mesh.TriangleCount()
		}
	}
	return total
}

// Release frees every object's geometry and materials and empties the
// scene. It returns the number of objects released. Later calls are no-ops.
func (s *Scene) Release() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return 0
	}
	s.released = true

	n := len(s.objects)
	for _, o := range s.objects {
		o.release()
	}
	s.objects = nil
	return n
}

// Released reports whether Release has been called.
func (s *Scene) Released() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.released
}
