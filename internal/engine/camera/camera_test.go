package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestCamera() *Perspective {
	cam := NewPerspective(50, 16.0/9.0, 1, 1000)
	cam.Position = mgl32.Vec3{0, 0, 500}
	cam.LookAt(mgl32.Vec3{})
	return cam
}

func TestPerspectiveMatrices(t *testing.T) {
	cam := newTestCamera()

	// The target projects to the center of the screen.
	clip := cam.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())
	if math.Abs(float64(ndc.X())) > 1e-5 || math.Abs(float64(ndc.Y())) > 1e-5 {
		t.Errorf("origin should project to screen center, got %v", ndc)
	}
	if ndc.Z() <= -1 || ndc.Z() >= 1 {
		t.Errorf("origin should lie inside the depth range, got z=%f", ndc.Z())
	}

	// A point beyond the far plane is clipped.
	far := cam.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, -600, 1})
	if far.Z()/far.W() <= 1 {
		t.Errorf("point past far plane should have ndc z > 1, got %f", far.Z()/far.W())
	}
}

func TestSetAspect(t *testing.T) {
	cam := newTestCamera()

	cam.SetAspect(800, 400)
	if cam.Aspect != 2 {
		t.Errorf("expected aspect 2, got %f", cam.Aspect)
	}

	cam.SetAspect(0, 400)
	if cam.Aspect != 2 {
		t.Errorf("zero width must not change aspect, got %f", cam.Aspect)
	}
}

func TestOrbitAutoRotateMonotonic(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)
	c.AutoRotate = true
	c.AutoRotateSpeed = 0.5
	c.EnableDamping = true
	c.DampingFactor = 0.05

	prev := c.Azimuth()
	for i := 0; i < 120; i++ {
		if !c.Update() && i > 0 {
			t.Fatalf("step %d: expected camera to move", i)
		}
		az := c.Azimuth()
		if az >= prev {
			t.Fatalf("step %d: azimuth not decreasing: %f -> %f", i, prev, az)
		}
		prev = az
	}

	if d := c.Distance(); math.Abs(d-500) > 1e-2 {
		t.Errorf("auto-rotation must keep the orbit radius, got %f", d)
	}
	if p := c.Polar(); math.Abs(p-math.Pi/2) > 1e-4 {
		t.Errorf("auto-rotation must not change elevation, got %f", p)
	}
}

func TestOrbitDampingDecays(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)
	c.EnableDamping = true
	c.DampingFactor = 0.05

	c.BeginDrag()
	c.Drag(100, 0, 720)
	c.EndDrag()

	var steps []float64
	prev := c.Azimuth()
	for i := 0; i < 200; i++ {
		c.Update()
		az := c.Azimuth()
		steps = append(steps, math.Abs(az-prev))
		prev = az
	}

	if steps[0] == 0 {
		t.Fatal("expected drag to rotate the camera")
	}
	// Late steps approach float32 resolution, so only the early decay is
	// checked step by step.
	for i := 1; i < 60; i++ {
		if steps[i] > steps[i-1]+1e-6 {
			t.Fatalf("step %d: damped motion grew %g -> %g", i, steps[i-1], steps[i])
		}
	}
	if steps[len(steps)-1] > steps[0]*0.01 {
		t.Errorf("motion should have mostly decayed, first %g last %g", steps[0], steps[len(steps)-1])
	}
}

func TestOrbitDragWithoutDamping(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)

	c.BeginDrag()
	// A drag of a quarter viewport height turns the camera a quarter turn.
	c.Drag(180, 0, 720)
	c.Update()
	c.EndDrag()

	if az := c.Azimuth(); math.Abs(az+math.Pi/2) > 1e-4 {
		t.Errorf("expected azimuth -pi/2, got %f", az)
	}
	if c.Update() {
		t.Error("undamped controls should settle after one step")
	}
}

func TestOrbitDragIgnoredWhenNotDragging(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)

	c.Drag(180, 0, 720)
	if c.Update() {
		t.Error("drag deltas outside BeginDrag/EndDrag must be ignored")
	}
}

func TestOrbitPolarClamped(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)

	c.BeginDrag()
	c.Drag(0, -10000, 720)
	c.Update()

	p := c.Polar()
	if p <= 0 || p > math.Pi {
		t.Errorf("polar angle out of range: %f", p)
	}
	pos := cam.Position
	if math.IsNaN(float64(pos.X())) || math.IsNaN(float64(pos.Y())) || math.IsNaN(float64(pos.Z())) {
		t.Errorf("camera position became NaN: %v", pos)
	}
}

func TestOrbitZoom(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		wheel   float64
		closer  bool
		same    bool
	}{
		{"disabled", false, 1, false, true},
		{"zoom in", true, 1, true, false},
		{"zoom out", true, -1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := newTestCamera()
			c := NewOrbitControls(cam)
			c.EnableZoom = tt.enabled

			c.Zoom(tt.wheel)
			c.Update()

			d := c.Distance()
			switch {
			case tt.same && math.Abs(d-500) > 1e-3:
				t.Errorf("distance changed to %f", d)
			case !tt.same && tt.closer && d >= 500:
				t.Errorf("expected distance < 500, got %f", d)
			case !tt.same && !tt.closer && d <= 500:
				t.Errorf("expected distance > 500, got %f", d)
			}
		})
	}
}

func TestAutoRotatePausedWhileDragging(t *testing.T) {
	cam := newTestCamera()
	c := NewOrbitControls(cam)
	c.AutoRotate = true

	c.BeginDrag()
	if c.Update() {
		t.Error("auto-rotation should pause during a drag")
	}
	c.EndDrag()
	if !c.Update() {
		t.Error("auto-rotation should resume after the drag")
	}
}
