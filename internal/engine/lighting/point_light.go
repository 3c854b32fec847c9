// Package lighting provides punctual light sources for the PBR shader.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 4

// PointLight emits in all directions from Position.
type PointLight struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3 // Linear RGB, 0-1
	Intensity float32
	Distance  float32 // Cutoff range, 0 means unlimited
	Decay     float32 // Falloff exponent inside Distance
}

// NewPointLight creates an unlimited range light at the origin.
func NewPointLight(color mgl32.Vec3, intensity float32) *PointLight {
	return &PointLight{
		Color:     color,
		Intensity: intensity,
		Decay:     1,
	}
}

// SetPosition moves the light.
func (l *PointLight) SetPosition(x, y, z float32) {
	l.Position = mgl32.Vec3{x, y, z}
}

// Attenuation returns the light falloff at distance d. It is the CPU
// mirror of the fragment shader's attenuation() and must stay in step with it.
func (l *PointLight) Attenuation(d float32) float32 {
	if l.Distance <= 0 {
		return 1
	}
	f := 1 - d/l.Distance
	if f <= 0 {
		return 0
	}
	return float32(pow(f, l.Decay))
}

// PointLightBuffer packs lights into flat arrays for uniform upload.
type PointLightBuffer struct {
	Lights []PointLight
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Count returns the number of lights in the buffer.
func (b *PointLightBuffer) Count() int {
	return len(b.Lights)
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
}

// SetLights replaces the buffer contents, dropping lights past
// MaxPointLights. Nil entries are skipped.
func (b *PointLightBuffer) SetLights(lights []*PointLight) {
	b.Clear()
	for _, l := range lights {
		if l == nil || len(b.Lights) == MaxPointLights {
			continue
		}
		b.Lights = append(b.Lights, *l)
	}
}

// Positions returns positions as [x0, y0, z0, x1, ...] padded to
// MaxPointLights entries.
func (b *PointLightBuffer) Positions() []float32 {
	out := make([]float32, MaxPointLights*3)
	for i, l := range b.Lights {
		copy(out[i*3:], l.Position[:])
	}
	return out
}

// Radiance returns color*intensity per light, padded like Positions.
func (b *PointLightBuffer) Radiance() []float32 {
	out := make([]float32, MaxPointLights*3)
	for i, l := range b.Lights {
		c := l.Color.Mul(l.Intensity)
		copy(out[i*3:], c[:])
	}
	return out
}

// Falloff returns (distance, decay) pairs per light.
func (b *PointLightBuffer) Falloff() []float32 {
	out := make([]float32, MaxPointLights*2)
	for i, l := range b.Lights {
		out[i*2] = l.Distance
		out[i*2+1] = l.Decay
	}
	return out
}

func pow(base, exp float32) float64 {
	return math.Pow(float64(base), float64(exp))
}
