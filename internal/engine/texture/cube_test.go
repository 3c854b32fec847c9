package texture

import (
	"context"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFaceDirectionAxes(t *testing.T) {
	tests := []struct {
		face int
		want mgl32.Vec3
	}{
		{FacePosX, mgl32.Vec3{1, 0, 0}},
		{FaceNegX, mgl32.Vec3{-1, 0, 0}},
		{FacePosY, mgl32.Vec3{0, 1, 0}},
		{FaceNegY, mgl32.Vec3{0, -1, 0}},
		{FacePosZ, mgl32.Vec3{0, 0, 1}},
		{FaceNegZ, mgl32.Vec3{0, 0, -1}},
	}

	for _, tt := range tests {
		got := FaceDirection(tt.face, 0.5, 0.5)
		if !got.ApproxEqualThreshold(tt.want, 1e-6) {
			t.Errorf("face %s center: got %v want %v", FaceNames[tt.face], got, tt.want)
		}
	}

	// Top row of the side faces looks up.
	for _, f := range []int{FacePosX, FaceNegX, FacePosZ, FaceNegZ} {
		if d := FaceDirection(f, 0.5, 0.01); d.Y() <= 0 {
			t.Errorf("face %s: v=0 should point up, got %v", FaceNames[f], d)
		}
	}
}

func TestFaceUVRoundTrip(t *testing.T) {
	for f := 0; f < 6; f++ {
		for _, uv := range [][2]float32{{0.1, 0.2}, {0.5, 0.5}, {0.9, 0.75}, {0.33, 0.95}} {
			dir := FaceDirection(f, uv[0], uv[1])
			face, u, v := FaceUV(dir)
			if face != f {
				t.Fatalf("face %d uv %v: round trip landed on face %d", f, uv, face)
			}
			if math.Abs(float64(u-uv[0])) > 1e-5 || math.Abs(float64(v-uv[1])) > 1e-5 {
				t.Errorf("face %d: uv %v came back as (%f,%f)", f, uv, u, v)
			}
		}
	}
}

func TestEquirectUV(t *testing.T) {
	tests := []struct {
		dir  mgl32.Vec3
		u, v float64
	}{
		{mgl32.Vec3{0, 1, 0}, -1, 0},
		{mgl32.Vec3{0, -1, 0}, -1, 1},
		{mgl32.Vec3{1, 0, 0}, 0.5, 0.5},
		{mgl32.Vec3{0, 0, 1}, 0.75, 0.5},
		{mgl32.Vec3{-1, 0, 0}, 1, 0.5},
	}

	for _, tt := range tests {
		u, v := EquirectUV(tt.dir)
		if tt.u >= 0 && math.Abs(u-tt.u) > 1e-6 {
			t.Errorf("%v: expected u %f, got %f", tt.dir, tt.u, u)
		}
		if math.Abs(v-tt.v) > 1e-6 {
			t.Errorf("%v: expected v %f, got %f", tt.dir, tt.v, v)
		}
	}
}

// skyImage is bright in the upper half and dark in the lower half.
func skyImage(w, h int) *HDRImage {
	img := NewHDRImage(w, h)
	for y := 0; y < h; y++ {
		c := mgl32.Vec3{0.1, 0.1, 0.1}
		if y < h/2 {
			c = mgl32.Vec3{4, 4, 4}
		}
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestEquirectToCube(t *testing.T) {
	cube, err := EquirectToCube(context.Background(), skyImage(64, 32), 16)
	if err != nil {
		t.Fatalf("EquirectToCube: %v", err)
	}
	if cube.Size() != 16 || cube.MaxLOD() != 0 {
		t.Fatalf("expected one 16px level, got size %d levels %d", cube.Size(), len(cube.Levels))
	}

	l := &cube.Levels[0]
	if c := l.At(FacePosY, 8, 8); c[0] < 3.9 {
		t.Errorf("+Y face should see the bright sky, got %v", c)
	}
	if c := l.At(FaceNegY, 8, 8); c[0] > 0.2 {
		t.Errorf("-Y face should see the dark ground, got %v", c)
	}
	if c := l.At(FacePosX, 8, 1); c[0] < 3.9 {
		t.Errorf("top of +X face should be bright, got %v", c)
	}
	if c := l.At(FacePosX, 8, 14); c[0] > 0.2 {
		t.Errorf("bottom of +X face should be dark, got %v", c)
	}
}

func TestEquirectToCubeErrors(t *testing.T) {
	if _, err := EquirectToCube(context.Background(), skyImage(8, 4), 0); err == nil {
		t.Error("expected error for zero size")
	}
	if _, err := EquirectToCube(context.Background(), &HDRImage{}, 8); err == nil {
		t.Error("expected error for empty panorama")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := EquirectToCube(ctx, skyImage(8, 4), 8); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestCubeLevelSample(t *testing.T) {
	l := newCubeLevel(4, 0)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			l.set(FacePosZ, x, y, mgl32.Vec3{2, 2, 2})
		}
	}
	if c := l.Sample(mgl32.Vec3{0.1, -0.2, 1}); !c.ApproxEqualThreshold(mgl32.Vec3{2, 2, 2}, 1e-6) {
		t.Errorf("expected uniform face value, got %v", c)
	}
	if c := l.Sample(mgl32.Vec3{0, 0, -1}); c != (mgl32.Vec3{}) {
		t.Errorf("-Z face should be empty, got %v", c)
	}
}
