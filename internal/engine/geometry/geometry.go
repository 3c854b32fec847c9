// Package geometry builds indexed triangle meshes on the CPU.
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Floats per vertex in Interleaved: position(3) normal(3) uv(2) tangent(4).
const Stride = 12

// Geometry is an indexed triangle list with per-vertex attributes.
type Geometry struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	Tangents  []mgl32.Vec4 // xyz tangent, w handedness
	Indices   []uint32
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions)
}

// TriangleCount returns the number of indexed triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Interleaved packs the attributes into one float buffer with Stride floats
// per vertex. Missing tangents are written as zero.
func (g *Geometry) Interleaved() []float32 {
	out := make([]float32, 0, len(g.Positions)*Stride)
	for i, p := range g.Positions {
		n := g.Normals[i]
		uv := g.UVs[i]
		var t mgl32.Vec4
		if i < len(g.Tangents) {
			t = g.Tangents[i]
		}
		out = append(out,
			p[0], p[1], p[2],
			n[0], n[1], n[2],
			uv[0], uv[1],
			t[0], t[1], t[2], t[3],
		)
	}
	return out
}

// ComputeTangents generates per-vertex tangents for tangent-space normal
// mapping. Triangles with zero UV area are skipped; vertices left without a
// tangent get an arbitrary one perpendicular to the normal.
func (g *Geometry) ComputeTangents() {
	n := len(g.Positions)
	tan := make([]mgl32.Vec3, n)
	bit := make([]mgl32.Vec3, n)

	for i := 0; i+2 < len(g.Indices); i += 3 {
		i0, i1, i2 := g.Indices[i], g.Indices[i+1], g.Indices[i+2]

		e1 := g.Positions[i1].Sub(g.Positions[i0])
		e2 := g.Positions[i2].Sub(g.Positions[i0])
		d1 := g.UVs[i1].Sub(g.UVs[i0])
		d2 := g.UVs[i2].Sub(g.UVs[i0])

		denom := d1[0]*d2[1] - d2[0]*d1[1]
		if denom == 0 {
			continue
		}
		r := 1 / denom
		t := e1.Mul(d2[1] * r).Sub(e2.Mul(d1[1] * r))
		b := e2.Mul(d1[0] * r).Sub(e1.Mul(d2[0] * r))

		for _, idx := range [3]uint32{i0, i1, i2} {
			tan[idx] = tan[idx].Add(t)
			bit[idx] = bit[idx].Add(b)
		}
	}

	g.Tangents = make([]mgl32.Vec4, n)
	for i := 0; i < n; i++ {
		nrm := g.Normals[i]
		t := tan[i].Sub(nrm.Mul(nrm.Dot(tan[i])))
		if t.LenSqr() < 1e-8 {
			if abs(nrm[0]) < 0.9 {
				t = mgl32.Vec3{1, 0, 0}.Sub(nrm.Mul(nrm[0]))
			} else {
				t = mgl32.Vec3{0, 1, 0}.Sub(nrm.Mul(nrm[1]))
			}
		}
		t = t.Normalize()

		w := float32(1)
		if nrm.Cross(t).Dot(bit[i]) < 0 {
			w = -1
		}
		g.Tangents[i] = t.Vec4(w)
	}
}

// Bounds returns the axis-aligned bounding box of the positions.
func (g *Geometry) Bounds() (min, max mgl32.Vec3) {
	if len(g.Positions) == 0 {
		return
	}
	min, max = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		for k := 0; k < 3; k++ {
			min[k] = float32(math.Min(float64(min[k]), float64(p[k])))
			max[k] = float32(math.Max(float64(max[k]), float64(p[k])))
		}
	}
	return
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
