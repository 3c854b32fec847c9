package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/flakesphere/internal/engine/geometry"
)

// Euler is a rotation in radians applied in X, Y, Z order.
type Euler struct {
	X, Y, Z float32
}

// Matrix returns the rotation matrix Rx * Ry * Rz.
func (e Euler) Matrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(e.X).
		Mul4(mgl32.HomogRotate3DY(e.Y)).
		Mul4(mgl32.HomogRotate3DZ(e.Z))
}

// Mesh places a geometry with a material in the world.
type Mesh struct {
	Geometry *geometry.Geometry
	Material *PhysicalMaterial

	Position mgl32.Vec3
	Rotation Euler
	Scale    mgl32.Vec3
}

// NewMesh creates a mesh at the origin with unit scale.
func NewMesh(g *geometry.Geometry, m *PhysicalMaterial) *Mesh {
	return &Mesh{
		Geometry: g,
		Material: m,
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// ModelMatrix returns T * R * S.
func (m *Mesh) ModelMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	s := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	return t.Mul4(m.Rotation.Matrix()).Mul4(s)
}

// NormalMatrix returns the inverse transpose of the model matrix' upper 3x3.
func (m *Mesh) NormalMatrix() mgl32.Mat3 {
	return m.ModelMatrix().Mat3().Inv().Transpose()
}
