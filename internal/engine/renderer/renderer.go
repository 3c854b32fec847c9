// Package renderer draws a scene of physically based meshes with OpenGL.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/flakesphere/internal/engine/camera"
	"github.com/Faultbox/flakesphere/internal/engine/framebuffer"
	"github.com/Faultbox/flakesphere/internal/engine/geometry"
	"github.com/Faultbox/flakesphere/internal/engine/lighting"
	"github.com/Faultbox/flakesphere/internal/engine/scene"
	"github.com/Faultbox/flakesphere/internal/engine/shader"
	"github.com/Faultbox/flakesphere/internal/engine/texture"
	"github.com/Faultbox/flakesphere/internal/logger"
)

// DefaultExposure is the tone mapping exposure of the demo.
const DefaultExposure = 1.25

// Texture units.
const (
	unitNormalMap = 0
	unitEnvMap    = 1
)

// Config holds renderer configuration.
type Config struct {
	Width    int // Drawable size in pixels
	Height   int
	MSAA     int
	Exposure float32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config     Config
	clearColor [4]float32

	program *shader.Program
	lights  *lighting.PointLightBuffer

	meshes   map[*geometry.Geometry]*gpuMesh
	textures map[*texture.Texture2D]uint32
	cubes    map[*texture.CubeMap]uint32

	capture *framebuffer.Framebuffer

	log *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	if cfg.Exposure == 0 {
		cfg.Exposure = DefaultExposure
	}
	r := &Renderer{
		config:     cfg,
		clearColor: [4]float32{0, 0, 0, 1},
		lights:     lighting.NewPointLightBuffer(),
		meshes:     make(map[*geometry.Geometry]*gpuMesh),
		textures:   make(map[*texture.Texture2D]uint32),
		cubes:      make(map[*texture.CubeMap]uint32),
		log:        logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)
	if cfg.MSAA > 0 {
		gl.Enable(gl.MULTISAMPLE)
	}

	var err error
	r.program, err = shader.New(vertexShader, fragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.program.Use()
	r.program.SetInt("uNormalMap", unitNormalMap)
	r.program.SetInt("uEnvMap", unitEnvMap)

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close releases every GPU resource.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for g, m := range r.meshes {
		m.delete()
		delete(r.meshes, g)
	}
	for t, id := range r.textures {
		gl.DeleteTextures(1, &id)
		delete(r.textures, t)
	}
	for c, id := range r.cubes {
		gl.DeleteTextures(1, &id)
		delete(r.cubes, c)
	}
	if r.capture != nil {
		r.capture.Destroy()
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// SetClearColor sets the background color used by Render.
func (r *Renderer) SetClearColor(c [4]float32) {
	r.clearColor = c
}

// Resize sets the viewport to the drawable size.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Upload creates the GPU resources of a mesh and its material. Resources are
// shared between meshes using the same geometry or textures.
func (r *Renderer) Upload(m *scene.Mesh) error {
	if _, ok := r.meshes[m.Geometry]; !ok {
		gm, err := uploadGeometry(m.Geometry)
		if err != nil {
			return fmt.Errorf("uploading geometry: %w", err)
		}
		r.meshes[m.Geometry] = gm
		r.log.Debug("geometry uploaded",
			zap.Int("vertices", m.Geometry.VertexCount()),
			zap.Int("triangles", m.Geometry.TriangleCount()))
	}

	mat := m.Material
	if mat == nil {
		return nil
	}
	if t := mat.NormalMap; t != nil {
		if _, ok := r.textures[t]; !ok {
			r.textures[t] = uploadTexture2D(t)
		}
	}
	if c := mat.EnvMap; c != nil {
		if len(c.Levels) == 0 {
			return fmt.Errorf("uploading environment: empty cube map")
		}
		if _, ok := r.cubes[c]; !ok {
			r.cubes[c] = uploadCubeMap(c)
			r.log.Debug("environment uploaded",
				zap.Int("size", c.Size()),
				zap.Int("levels", len(c.Levels)))
		}
	}
	return nil
}

// Render clears the frame and draws every uploaded mesh of s. Meshes that
// were never uploaded are skipped.
func (r *Renderer) Render(s *scene.Scene, cam *camera.Perspective) {
	r.draw(s, cam)
}

func (r *Renderer) draw(s *scene.Scene, cam *camera.Perspective) {
	c := r.clearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.program
	p.Use()
	p.SetMat4("uView", cam.ViewMatrix())
	p.SetMat4("uProjection", cam.ProjectionMatrix())
	p.SetVec3("uCameraPosition", cam.Position)
	p.SetFloat("uExposure", r.config.Exposure)

	r.lights.SetLights(s.Lights())
	p.SetInt("uPointLightCount", int32(r.lights.Count()))
	p.SetVec3Array("uPointLightPosition", r.lights.Positions())
	p.SetVec3Array("uPointLightRadiance", r.lights.Radiance())
	p.SetVec2Array("uPointLightFalloff", r.lights.Falloff())

	for _, m := range s.Meshes() {
		gm, ok := r.meshes[m.Geometry]
		if !ok {
			continue
		}
		p.SetMat4("uModel", m.ModelMatrix())
		p.SetMat3("uNormalMatrix", m.NormalMatrix())
		r.bindMaterial(m.Material)
		gm.draw()
	}
}

func (r *Renderer) bindMaterial(mat *scene.PhysicalMaterial) {
	if mat == nil {
		mat = scene.NewPhysicalMaterial()
	}
	p := r.program
	p.SetVec3("uColor", mat.Color)
	p.SetFloat("uMetalness", mat.Metalness)
	p.SetFloat("uRoughness", mat.Roughness)
	p.SetFloat("uClearcoat", mat.Clearcoat)
	p.SetFloat("uClearcoatRoughness", mat.ClearcoatRoughness)

	normalID, hasNormal := r.textures[mat.NormalMap]
	p.SetInt("uHasNormalMap", boolInt(hasNormal))
	if hasNormal {
		gl.ActiveTexture(gl.TEXTURE0 + unitNormalMap)
		gl.BindTexture(gl.TEXTURE_2D, normalID)
		p.SetVec2("uNormalScale", mat.NormalScale)
		p.SetVec2("uNormalRepeat", mat.NormalMap.Repeat)
	}

	envID, hasEnv := r.cubes[mat.EnvMap]
	p.SetInt("uHasEnvMap", boolInt(hasEnv))
	if hasEnv {
		gl.ActiveTexture(gl.TEXTURE0 + unitEnvMap)
		gl.BindTexture(gl.TEXTURE_CUBE_MAP, envID)
		p.SetFloat("uEnvMaxLod", float32(mat.EnvMap.MaxLOD()))
		p.SetFloat("uEnvIntensity", mat.EnvMapIntensity)
	}
}

// Snapshot draws the scene once more into an offscreen target at the
// drawable size and returns the result as bottom-up RGBA rows.
func (r *Renderer) Snapshot(s *scene.Scene, cam *camera.Perspective) ([]byte, int, int, error) {
	w, h, samples := int32(r.config.Width), int32(r.config.Height), int32(r.config.MSAA)
	if r.capture == nil || !r.capture.Matches(w, h, samples) {
		if r.capture != nil {
			r.capture.Destroy()
		}
		fb, err := framebuffer.New(w, h, samples)
		if err != nil {
			r.capture = nil
			return nil, 0, 0, err
		}
		r.capture = fb
	}

	restore := r.capture.BindWithViewport()
	r.draw(s, cam)
	restore()

	fw, fh := r.capture.Size()
	return r.capture.ReadPixels(), int(fw), int(fh), nil
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
