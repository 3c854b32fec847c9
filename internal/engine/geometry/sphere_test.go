package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSphereCounts(t *testing.T) {
	tests := []struct {
		w, h      int
		vertices  int
		triangles int
	}{
		{64, 64, 65 * 65, 64 * 63 * 2},
		{8, 4, 9 * 5, 8 * 3 * 2},
		{3, 2, 4 * 3, 3 * 1 * 2},
		{1, 1, 4 * 3, 3 * 1 * 2}, // clamped to the minimum
	}

	for _, tt := range tests {
		g := NewSphere(100, tt.w, tt.h)
		if g.VertexCount() != tt.vertices {
			t.Errorf("%dx%d: expected %d vertices, got %d", tt.w, tt.h, tt.vertices, g.VertexCount())
		}
		if g.TriangleCount() != tt.triangles {
			t.Errorf("%dx%d: expected %d triangles, got %d", tt.w, tt.h, tt.triangles, g.TriangleCount())
		}
		if len(g.Normals) != g.VertexCount() || len(g.UVs) != g.VertexCount() || len(g.Tangents) != g.VertexCount() {
			t.Errorf("%dx%d: attribute lengths differ", tt.w, tt.h)
		}
	}
}

func TestSphereAttributes(t *testing.T) {
	const radius = 100
	const segments = 64
	g := NewSphere(radius, segments, segments)

	// Pole rows shift u by half a segment so their triangles sample the
	// middle of the seam column.
	const stride = segments + 1
	poleRow := func(i int) bool { return i < stride || i >= segments*stride }
	uMin := func(i int) float32 {
		if poleRow(i) {
			return -0.5 / segments
		}
		return 0
	}
	uMax := func(i int) float32 {
		if poleRow(i) {
			return 1 + 0.5/segments
		}
		return 1
	}

	for i, p := range g.Positions {
		if d := math.Abs(float64(p.Len()) - radius); d > 1e-3 {
			t.Fatalf("vertex %d off the surface by %f", i, d)
		}
		n := g.Normals[i]
		if math.Abs(float64(n.Len())-1) > 1e-5 {
			t.Fatalf("normal %d not unit length: %f", i, n.Len())
		}
		if n.Dot(p.Normalize()) < 0.9999 {
			t.Fatalf("normal %d does not point outward", i)
		}
		uv := g.UVs[i]
		if uv[0] < uMin(i) || uv[0] > uMax(i) || uv[1] < 0 || uv[1] > 1 {
			t.Fatalf("uv %d out of range: %v", i, uv)
		}
		tg := g.Tangents[i]
		if math.Abs(float64(tg.Vec3().Len())-1) > 1e-4 {
			t.Fatalf("tangent %d not unit length: %v", i, tg)
		}
		if math.Abs(float64(tg.Vec3().Dot(n))) > 1e-3 {
			t.Fatalf("tangent %d not perpendicular to normal", i)
		}
		if tg[3] != 1 && tg[3] != -1 {
			t.Fatalf("tangent %d handedness %f", i, tg[3])
		}
	}

	for i, idx := range g.Indices {
		if int(idx) >= g.VertexCount() {
			t.Fatalf("index %d out of range: %d", i, idx)
		}
	}

	min, max := g.Bounds()
	want := mgl32.Vec3{radius, radius, radius}
	if !max.ApproxEqualThreshold(want, 1e-2) || !min.ApproxEqualThreshold(want.Mul(-1), 1e-2) {
		t.Errorf("unexpected bounds %v %v", min, max)
	}
}

func TestSphereWindingFacesOutward(t *testing.T) {
	g := NewSphere(1, 16, 8)
	for i := 0; i+2 < len(g.Indices); i += 3 {
		a := g.Positions[g.Indices[i]]
		b := g.Positions[g.Indices[i+1]]
		c := g.Positions[g.Indices[i+2]]
		face := b.Sub(a).Cross(c.Sub(a))
		center := a.Add(b).Add(c).Mul(1.0 / 3)
		if face.Dot(center) <= 0 {
			t.Fatalf("triangle %d is wound inward", i/3)
		}
	}
}

func TestInterleaved(t *testing.T) {
	g := NewSphere(2, 4, 2)
	buf := g.Interleaved()
	if len(buf) != g.VertexCount()*Stride {
		t.Fatalf("expected %d floats, got %d", g.VertexCount()*Stride, len(buf))
	}

	// Second vertex: position, normal, uv then tangent.
	v := buf[Stride : 2*Stride]
	p, n, uv := g.Positions[1], g.Normals[1], g.UVs[1]
	if v[0] != p[0] || v[1] != p[1] || v[2] != p[2] {
		t.Errorf("position mismatch: %v vs %v", v[0:3], p)
	}
	if v[3] != n[0] || v[4] != n[1] || v[5] != n[2] {
		t.Errorf("normal mismatch: %v vs %v", v[3:6], n)
	}
	if v[6] != uv[0] || v[7] != uv[1] {
		t.Errorf("uv mismatch: %v vs %v", v[6:8], uv)
	}
	if v[11] != g.Tangents[1][3] {
		t.Errorf("handedness mismatch: %f vs %f", v[11], g.Tangents[1][3])
	}
}
