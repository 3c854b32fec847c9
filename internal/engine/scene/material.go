package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/flakesphere/internal/engine/texture"
)

// PhysicalMaterial is a metallic-roughness material with a clear coat layer.
type PhysicalMaterial struct {
	Color              mgl32.Vec3
	Metalness          float32
	Roughness          float32
	Clearcoat          float32
	ClearcoatRoughness float32

	NormalMap   *texture.Texture2D
	NormalScale mgl32.Vec2

	// EnvMap is a prefiltered cube map; roughness selects the mip level.
	EnvMap          *texture.CubeMap
	EnvMapIntensity float32
}

// NewPhysicalMaterial returns a white dielectric with no clear coat.
func NewPhysicalMaterial() *PhysicalMaterial {
	return &PhysicalMaterial{
		Color:           mgl32.Vec3{1, 1, 1},
		Roughness:       1,
		NormalScale:     mgl32.Vec2{1, 1},
		EnvMapIntensity: 1,
	}
}

// HexColor converts 0xRRGGBB to an RGB vector in [0,1]. No transfer
// function is applied.
func HexColor(hex uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(hex>>16&0xff) / 255,
		float32(hex>>8&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}
