package texture

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Wrap selects how texture coordinates outside [0,1] are resolved.
type Wrap int

const (
	WrapClamp Wrap = iota
	WrapRepeat
	WrapMirror
)

// Texture2D is an 8-bit RGBA image plus its sampling parameters.
type Texture2D struct {
	Image   *image.RGBA
	WrapS   Wrap
	WrapT   Wrap
	Repeat  mgl32.Vec2 // UV scale applied before sampling
	Mipmaps bool
}

// NewTexture2D wraps img with clamp addressing and no UV scaling.
func NewTexture2D(img *image.RGBA) *Texture2D {
	return &Texture2D{
		Image:   img,
		Repeat:  mgl32.Vec2{1, 1},
		Mipmaps: true,
	}
}

// Size returns the image dimensions.
func (t *Texture2D) Size() (int, int) {
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}
