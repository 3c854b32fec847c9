// Package scene holds the renderable state of the demo: meshes with their
// physically based materials and the lights that illuminate them.
package scene

import "github.com/Faultbox/flakesphere/internal/engine/lighting"

// Scene is an unordered collection of meshes and lights. It owns whatever
// is added to it for its whole lifetime.
type Scene struct {
	meshes []*Mesh
	lights []*lighting.PointLight
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends a mesh. Adding the same mesh twice draws it twice.
func (s *Scene) Add(m *Mesh) {
	s.meshes = append(s.meshes, m)
}

// AddLight attaches a light so the renderer evaluates it.
func (s *Scene) AddLight(l *lighting.PointLight) {
	s.lights = append(s.lights, l)
}

// Meshes returns the meshes in insertion order.
func (s *Scene) Meshes() []*Mesh {
	return s.meshes
}

// Lights returns the attached lights.
func (s *Scene) Lights() []*lighting.PointLight {
	return s.lights
}

// Len returns the number of meshes.
func (s *Scene) Len() int {
	return len(s.meshes)
}
