package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-6

// spherical is a point in Y-up spherical coordinates.
// Theta is the azimuth around +Y measured from +Z, Phi the polar angle from +Y.
type spherical struct {
	Radius float64
	Theta  float64
	Phi    float64
}

func sphericalFromVec(v mgl32.Vec3) spherical {
	x, y, z := float64(v[0]), float64(v[1]), float64(v[2])
	r := math.Sqrt(x*x + y*y + z*z)
	if r == 0 {
		return spherical{}
	}
	return spherical{
		Radius: r,
		Theta:  math.Atan2(x, z),
		Phi:    math.Acos(clamp(y/r, -1, 1)),
	}
}

func (s spherical) vec() mgl32.Vec3 {
	sinPhiR := math.Sin(s.Phi) * s.Radius
	return mgl32.Vec3{
		float32(sinPhiR * math.Sin(s.Theta)),
		float32(math.Cos(s.Phi) * s.Radius),
		float32(sinPhiR * math.Cos(s.Theta)),
	}
}

// makeSafe keeps phi off the poles where the view basis degenerates.
func (s *spherical) makeSafe() {
	s.Phi = clamp(s.Phi, eps, math.Pi-eps)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// OrbitControls orbits a Perspective camera around Target.
//
// Rotation deltas are accumulated by input and by auto-rotation and are
// applied in Update, one step per frame. With damping enabled a fraction of
// the remaining delta is applied each step, so motion eases out.
type OrbitControls struct {
	Camera *Perspective
	Target mgl32.Vec3

	EnableRotate  bool
	RotateSpeed   float64
	EnableZoom    bool
	ZoomSpeed     float64
	EnableDamping bool
	DampingFactor float64

	// AutoRotateSpeed of 2.0 is one orbit every 30 seconds at 60 fps.
	AutoRotate      bool
	AutoRotateSpeed float64

	MinDistance     float64
	MaxDistance     float64
	MinPolarAngle   float64
	MaxPolarAngle   float64
	MinAzimuthAngle float64
	MaxAzimuthAngle float64

	delta    spherical
	scale    float64
	dragging bool
	lastPos  mgl32.Vec3
}

// NewOrbitControls attaches controls to cam with the usual defaults:
// rotate and zoom enabled, no damping, no auto-rotation.
func NewOrbitControls(cam *Perspective) *OrbitControls {
	c := &OrbitControls{
		Camera:          cam,
		Target:          cam.Target,
		EnableRotate:    true,
		RotateSpeed:     1.0,
		EnableZoom:      true,
		ZoomSpeed:       1.0,
		DampingFactor:   0.05,
		AutoRotateSpeed: 2.0,
		MinDistance:     0,
		MaxDistance:     math.Inf(1),
		MinPolarAngle:   0,
		MaxPolarAngle:   math.Pi,
		MinAzimuthAngle: math.Inf(-1),
		MaxAzimuthAngle: math.Inf(1),
		scale:           1,
	}
	c.lastPos = cam.Position
	c.Update()
	return c
}

// Azimuth returns the current horizontal angle of the camera in radians.
func (c *OrbitControls) Azimuth() float64 {
	return sphericalFromVec(c.Camera.Position.Sub(c.Target)).Theta
}

// Polar returns the current vertical angle of the camera in radians.
func (c *OrbitControls) Polar() float64 {
	return sphericalFromVec(c.Camera.Position.Sub(c.Target)).Phi
}

// Distance returns the camera distance from the target.
func (c *OrbitControls) Distance() float64 {
	return float64(c.Camera.Position.Sub(c.Target).Len())
}

func (c *OrbitControls) autoRotationAngle() float64 {
	return 2 * math.Pi / 60 / 60 * c.AutoRotateSpeed
}

func (c *OrbitControls) rotateLeft(angle float64) { c.delta.Theta -= angle }
func (c *OrbitControls) rotateUp(angle float64)   { c.delta.Phi -= angle }

// BeginDrag marks a user rotation in progress. Auto-rotation pauses until
// EndDrag.
func (c *OrbitControls) BeginDrag() {
	if c.EnableRotate {
		c.dragging = true
	}
}

// EndDrag ends a user rotation.
func (c *OrbitControls) EndDrag() {
	c.dragging = false
}

// Dragging reports whether a drag is in progress.
func (c *OrbitControls) Dragging() bool {
	return c.dragging
}

// Drag queues a rotation for a pointer delta in pixels. A drag across the
// full viewport height turns the camera once around.
func (c *OrbitControls) Drag(dx, dy float64, viewportHeight int) {
	if !c.EnableRotate || !c.dragging || viewportHeight <= 0 {
		return
	}
	h := float64(viewportHeight)
	c.rotateLeft(2 * math.Pi * dx / h * c.RotateSpeed)
	c.rotateUp(2 * math.Pi * dy / h * c.RotateSpeed)
}

// Zoom queues a dolly step; positive wheel values move closer.
// It is a no-op when zoom is disabled.
func (c *OrbitControls) Zoom(wheel float64) {
	if !c.EnableZoom || wheel == 0 {
		return
	}
	f := math.Pow(0.95, c.ZoomSpeed)
	if wheel > 0 {
		c.scale *= f
	} else {
		c.scale /= f
	}
}

// Update advances the controller by one step and moves the camera.
// It returns true when the camera moved.
func (c *OrbitControls) Update() bool {
	offset := c.Camera.Position.Sub(c.Target)
	s := sphericalFromVec(offset)

	if c.AutoRotate && !c.dragging {
		c.rotateLeft(c.autoRotationAngle())
	}

	if c.EnableDamping {
		s.Theta += c.delta.Theta * c.DampingFactor
		s.Phi += c.delta.Phi * c.DampingFactor
	} else {
		s.Theta += c.delta.Theta
		s.Phi += c.delta.Phi
	}

	if !math.IsInf(c.MinAzimuthAngle, 0) && !math.IsInf(c.MaxAzimuthAngle, 0) {
		s.Theta = clamp(s.Theta, c.MinAzimuthAngle, c.MaxAzimuthAngle)
	}
	s.Phi = clamp(s.Phi, c.MinPolarAngle, c.MaxPolarAngle)
	s.makeSafe()
	s.Radius = clamp(s.Radius*c.scale, c.MinDistance, c.MaxDistance)

	c.Camera.Position = c.Target.Add(s.vec())
	c.Camera.LookAt(c.Target)

	if c.EnableDamping {
		c.delta.Theta *= 1 - c.DampingFactor
		c.delta.Phi *= 1 - c.DampingFactor
	} else {
		c.delta = spherical{}
	}
	c.scale = 1

	moved := c.Camera.Position.Sub(c.lastPos).LenSqr() > eps
	c.lastPos = c.Camera.Position
	return moved
}
