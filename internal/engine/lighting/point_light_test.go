package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewPointLight(t *testing.T) {
	l := NewPointLight(mgl32.Vec3{1, 1, 1}, 1)
	l.SetPosition(200, 200, 200)

	if l.Position != (mgl32.Vec3{200, 200, 200}) {
		t.Errorf("unexpected position %v", l.Position)
	}
	if l.Distance != 0 {
		t.Errorf("expected unlimited range, got %f", l.Distance)
	}
}

func TestAttenuation(t *testing.T) {
	tests := []struct {
		name     string
		distance float32
		decay    float32
		d        float32
		want     float32
	}{
		{"unlimited", 0, 2, 1e6, 1},
		{"at source", 100, 1, 0, 1},
		{"linear half", 100, 1, 50, 0.5},
		{"quadratic half", 100, 2, 50, 0.25},
		{"beyond range", 100, 1, 150, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &PointLight{Distance: tt.distance, Decay: tt.decay}
			if got := l.Attenuation(tt.d); got != tt.want {
				t.Errorf("Attenuation(%f) = %f, want %f", tt.d, got, tt.want)
			}
		})
	}
}

func TestPointLightBuffer(t *testing.T) {
	b := NewPointLightBuffer()

	lights := make([]*PointLight, 0, MaxPointLights+2)
	for i := 0; i < MaxPointLights+1; i++ {
		l := NewPointLight(mgl32.Vec3{1, 0.5, 0}, 2)
		l.SetPosition(float32(i), 0, 0)
		lights = append(lights, l)
	}
	lights = append(lights, nil)

	b.SetLights(lights)
	if b.Count() != MaxPointLights {
		t.Fatalf("expected %d lights, got %d", MaxPointLights, b.Count())
	}

	pos := b.Positions()
	if len(pos) != MaxPointLights*3 || pos[3] != 1 {
		t.Errorf("unexpected positions %v", pos)
	}
	rad := b.Radiance()
	if rad[0] != 2 || rad[1] != 1 || rad[2] != 0 {
		t.Errorf("radiance should be color*intensity, got %v", rad[:3])
	}
	fall := b.Falloff()
	if len(fall) != MaxPointLights*2 || fall[1] != 1 {
		t.Errorf("unexpected falloff %v", fall)
	}

	b.SetLights(nil)
	if b.Count() != 0 {
		t.Errorf("expected empty buffer, got %d", b.Count())
	}
	if p := b.Positions(); p[0] != 0 {
		t.Errorf("empty buffer should pad with zeros, got %v", p[:3])
	}
}
