// Package app wires the scene, camera, controls and asset loading into the
// interactive flakes sphere and drives its frame loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/flakesphere/internal/assets"
	"github.com/Faultbox/flakesphere/internal/config"
	"github.com/Faultbox/flakesphere/internal/engine/camera"
	"github.com/Faultbox/flakesphere/internal/engine/debug"
	"github.com/Faultbox/flakesphere/internal/engine/geometry"
	"github.com/Faultbox/flakesphere/internal/engine/input"
	"github.com/Faultbox/flakesphere/internal/engine/lighting"
	"github.com/Faultbox/flakesphere/internal/engine/scene"
	"github.com/Faultbox/flakesphere/internal/logger"
	"github.com/Faultbox/flakesphere/internal/style"
)

// Scene constants.
const (
	CameraFOV    = 50
	CameraNear   = 1
	CameraFar    = 1000
	CameraDist   = 500
	SphereRadius = 100
	SphereSegs   = 64

	// RotationPerPixel converts pointer x to mesh rotation in radians.
	RotationPerPixel = 0.005

	idleFrame = 16 * time.Millisecond
)

// Phase is the lifecycle stage of the app.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhasePending             // environment loading
	PhaseInteractive         // mesh on screen, handler registered
	PhaseStalled             // environment failed, nothing to show
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhasePending:
		return "pending"
	case PhaseInteractive:
		return "interactive"
	case PhaseStalled:
		return "stalled"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Surface is the window the app presents to.
type Surface interface {
	PollEvents() []input.Event
	SwapBuffers()
	Size() (int, int)
	DrawableSize() (int, int)
	SetTitle(title string)
	SetCursorVisible(visible bool)
}

// Renderer draws the scene into the current surface.
type Renderer interface {
	Upload(m *scene.Mesh) error
	Render(s *scene.Scene, cam *camera.Perspective)
	SetClearColor(c [4]float32)
	Resize(width, height int)
	Snapshot(s *scene.Scene, cam *camera.Perspective) ([]byte, int, int, error)
}

// AssetSource delivers the environment once, asynchronously.
type AssetSource interface {
	Start(ctx context.Context) <-chan assets.Result
}

// App owns every piece of scene state.
type App struct {
	cfg      *config.Config
	surface  Surface
	renderer Renderer
	source   AssetSource

	scene    *scene.Scene
	camera   *camera.Perspective
	controls *camera.OrbitControls
	light    *lighting.PointLight
	mesh     *scene.Mesh

	dispatcher *input.Dispatcher
	input      *input.State
	screenshot *debug.ScreenshotCapture
	capture    bool

	phase   Phase
	pending <-chan assets.Result
	running bool
	idle    func(time.Duration)

	log *zap.Logger
}

// New builds the scene, camera and controls for the surface's current size.
func New(cfg *config.Config, surface Surface, r Renderer, source AssetSource) *App {
	a := &App{
		cfg:        cfg,
		surface:    surface,
		renderer:   r,
		source:     source,
		scene:      scene.New(),
		dispatcher: input.NewDispatcher(),
		input:      input.NewState(),
		screenshot: debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "flakesphere"),
		idle:       time.Sleep,
		log:        logger.Named("app"),
	}

	w, h := surface.Size()
	aspect := float32(1)
	if w > 0 && h > 0 {
		aspect = float32(w) / float32(h)
	}
	a.camera = camera.NewPerspective(CameraFOV, aspect, CameraNear, CameraFar)
	a.camera.Position = mgl32.Vec3{0, 0, CameraDist}
	a.camera.LookAt(mgl32.Vec3{})

	a.controls = camera.NewOrbitControls(a.camera)
	a.controls.AutoRotate = true
	a.controls.AutoRotateSpeed = 0.5
	a.controls.EnableDamping = true
	a.controls.DampingFactor = 0.05
	a.controls.EnableZoom = false

	a.light = lighting.NewPointLight(mgl32.Vec3{1, 1, 1}, 1)
	a.light.SetPosition(200, 200, 200)
	if cfg.Scene.AttachPointLight {
		a.scene.AddLight(a.light)
	}
	a.log.Debug("point light",
		zap.Bool("attached", cfg.Scene.AttachPointLight),
		zap.Float32("intensity", a.light.Intensity))

	a.dispatcher.On(input.EventMouseDown, a.onMouseDown)
	a.dispatcher.On(input.EventMouseUp, a.onMouseUp)
	a.dispatcher.On(input.EventMouseMove, a.onDrag)
	a.dispatcher.On(input.EventMouseWheel, func(e input.Event) {
		a.controls.Zoom(float64(e.Wheel))
	})

	a.log.Info("scene bootstrapped",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Float32("aspect", aspect))
	return a
}

// ApplyStyle applies the window style.
func (a *App) ApplyStyle(st *style.Style) {
	a.surface.SetTitle(st.Title)
	a.surface.SetCursorVisible(st.CursorVisible())
	a.renderer.SetClearColor(st.ClearColor())
}

// Phase returns the current lifecycle phase.
func (a *App) Phase() Phase { return a.phase }

// Scene returns the owned scene.
func (a *App) Scene() *scene.Scene { return a.scene }

// Camera returns the owned camera.
func (a *App) Camera() *camera.Perspective { return a.camera }

// Controls returns the orbit controller.
func (a *App) Controls() *camera.OrbitControls { return a.controls }

// Mesh returns the sphere, or nil before a successful load.
func (a *App) Mesh() *scene.Mesh { return a.mesh }

// Running reports whether the loop should continue.
func (a *App) Running() bool { return a.running }

// Start kicks off the asynchronous asset load.
func (a *App) Start(ctx context.Context) {
	a.pending = a.source.Start(ctx)
	a.phase = PhasePending
	a.running = true
	a.log.Info("loading environment")
}

// Run steps the loop until the window closes or ctx is done.
func (a *App) Run(ctx context.Context) error {
	if a.phase == PhaseUninitialized {
		a.Start(ctx)
	}
	for a.running {
		if ctx.Err() != nil {
			a.log.Info("shutting down", zap.Error(ctx.Err()))
			return nil
		}
		a.Step()
	}
	a.log.Info("window closed", zap.Stringer("phase", a.phase))
	return nil
}

// Step runs one loop iteration.
func (a *App) Step() {
	a.pumpEvents()
	if !a.running {
		return
	}
	a.poll()

	if a.phase == PhaseInteractive {
		a.controls.Update()
		a.present()
		return
	}
	a.idle(idleFrame)
}

func (a *App) pumpEvents() {
	for _, e := range a.surface.PollEvents() {
		a.input.Apply(e)
		switch e.Type {
		case input.EventQuit:
			a.running = false
			return
		case input.EventKeyDown:
			switch e.Key {
			case input.KeyEscape:
				a.running = false
				return
			case input.KeyF12:
				a.capture = true
			}
		case input.EventWindowResize:
			if a.cfg.Graphics.Responsive {
				a.resize(e.Width, e.Height)
			}
		}
		a.dispatcher.Dispatch(e)
	}
}

func (a *App) resize(width, height int) {
	a.camera.SetAspect(width, height)
	a.renderer.Resize(a.surface.DrawableSize())
	a.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// poll consumes the load result without blocking.
func (a *App) poll() {
	if a.pending == nil {
		return
	}
	select {
	case res, ok := <-a.pending:
		a.pending = nil
		if !ok {
			res.Err = errors.New("asset loader finished without a result")
		}
		a.complete(res)
	default:
	}
}

func (a *App) complete(res assets.Result) {
	if res.Err != nil {
		a.log.Warn("environment failed to load", zap.Error(res.Err))
		a.phase = PhaseStalled
		return
	}
	mesh, err := a.assemble(res.Env)
	if err != nil {
		a.log.Warn("mesh upload failed", zap.Error(err))
		a.phase = PhaseStalled
		return
	}
	a.mesh = mesh
	a.dispatcher.OnPointerMove(a.onPointerMove)
	a.phase = PhaseInteractive
	a.log.Info("sphere ready",
		zap.Int("triangles", mesh.Geometry.TriangleCount()),
		zap.Int("env_levels", len(res.Env.EnvMap.Levels)))
}

// assemble builds the clear coated paint material and adds the sphere to
// the scene. Each call adds another mesh.
func (a *App) assemble(env *assets.Environment) (*scene.Mesh, error) {
	mat := scene.NewPhysicalMaterial()
	mat.Clearcoat = 1.0
	mat.ClearcoatRoughness = 0.1
	mat.Metalness = 0.9
	mat.Roughness = 0.5
	mat.Color = scene.HexColor(0xdc3535)
	mat.NormalMap = env.NormalMap
	mat.NormalScale = mgl32.Vec2{0.15, 0.15}
	mat.EnvMap = env.EnvMap

	mesh := scene.NewMesh(geometry.NewSphere(SphereRadius, SphereSegs, SphereSegs), mat)
	if err := a.renderer.Upload(mesh); err != nil {
		return nil, err
	}
	a.scene.Add(mesh)
	return mesh, nil
}

func (a *App) onPointerMove(e input.Event) {
	x := float32(e.MouseX)
	a.mesh.Rotation.X = x * RotationPerPixel
	a.mesh.Rotation.Y = -x * RotationPerPixel
	a.present()
}

func (a *App) onMouseDown(e input.Event) {
	if e.Button == input.ButtonLeft {
		a.controls.BeginDrag()
	}
}

func (a *App) onMouseUp(e input.Event) {
	if e.Button == input.ButtonLeft {
		a.controls.EndDrag()
	}
}

func (a *App) onDrag(e input.Event) {
	if !a.input.ButtonDown(input.ButtonLeft) {
		return
	}
	_, h := a.surface.Size()
	a.controls.Drag(float64(e.RelX), float64(e.RelY), h)
}

// present renders a frame and swaps it to the screen.
func (a *App) present() {
	a.renderer.Render(a.scene, a.camera)
	if a.capture {
		a.capture = false
		a.saveScreenshot()
	}
	a.surface.SwapBuffers()
}

func (a *App) saveScreenshot() {
	pixels, w, h, err := a.renderer.Snapshot(a.scene, a.camera)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	path, err := a.screenshot.CaptureFromPixels(pixels, w, h)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}
