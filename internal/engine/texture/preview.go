package texture

import (
	"image"
	"image/color"
	"math"
)

// FaceImage converts face f of the level to an 8-bit sRGB image using
// Reinhard tone mapping at the given exposure.
func (l *CubeLevel) FaceImage(f int, exposure float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, l.Size, l.Size))
	for y := 0; y < l.Size; y++ {
		for x := 0; x < l.Size; x++ {
			c := l.At(f, x, y).Mul(exposure)
			img.SetRGBA(x, y, color.RGBA{
				R: toneByte(c[0]),
				G: toneByte(c[1]),
				B: toneByte(c[2]),
				A: 255,
			})
		}
	}
	return img
}

// PanoramaImage converts the panorama to an 8-bit sRGB image.
func (m *HDRImage) PanoramaImage(exposure float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := m.At(x, y).Mul(exposure)
			img.SetRGBA(x, y, color.RGBA{R: toneByte(c[0]), G: toneByte(c[1]), B: toneByte(c[2]), A: 255})
		}
	}
	return img
}

func toneByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	t := float64(v) / (1 + float64(v))
	if t <= 0.0031308 {
		t *= 12.92
	} else {
		t = 1.055*math.Pow(t, 1/2.4) - 0.055
	}
	return uint8(math.Round(math.Min(t, 1) * 255))
}
