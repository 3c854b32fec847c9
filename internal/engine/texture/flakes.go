package texture

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

// FlakesOptions configures NewFlakes.
type FlakesOptions struct {
	Size      int     // Edge length of the square image
	Count     int     // Number of flakes
	MinRadius float64 // Radius is uniform in [MinRadius, MaxRadius)
	MaxRadius float64
	Tilt      float64 // Z component of the unnormalized flake normal
	Seed      int64

	// OrangePeel is the strength of a low frequency Perlin ripple applied
	// to the background normal. Zero leaves the background flat.
	OrangePeel float64
}

// DefaultFlakesOptions returns the metallic paint settings.
func DefaultFlakesOptions() FlakesOptions {
	return FlakesOptions{
		Size:       512,
		Count:      4000,
		MinRadius:  3,
		MaxRadius:  6,
		Tilt:       1.5,
		Seed:       1,
		OrangePeel: 0.03,
	}
}

// FlatNormal is the encoded tangent space normal (0,0,1).
var FlatNormal = color.RGBA{R: 127, G: 127, B: 255, A: 255}

// EncodeNormal maps a unit normal to the 8-bit normal map convention:
// x and y to [0,254], z to [0,255].
func EncodeNormal(n mgl32.Vec3) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(float64(n[0])*127 + 127)),
		G: uint8(math.Round(float64(n[1])*127 + 127)),
		B: uint8(math.Round(math.Max(0, float64(n[2])) * 255)),
		A: 255,
	}
}

// DecodeNormal is the approximate inverse of EncodeNormal.
func DecodeNormal(c color.RGBA) mgl32.Vec3 {
	return mgl32.Vec3{
		(float32(c.R) - 127) / 127,
		(float32(c.G) - 127) / 127,
		float32(c.B) / 255,
	}
}

// NewFlakes paints a tileable tangent space normal map of randomly tilted
// circular flakes, as used for metallic car paint.
func NewFlakes(opts FlakesOptions) *image.RGBA {
	size := opts.Size
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fillBackground(img, opts)

	rng := rand.New(rand.NewSource(opts.Seed))
	for i := 0; i < opts.Count; i++ {
		x := rng.Float64() * float64(size)
		y := rng.Float64() * float64(size)
		r := rng.Float64()*(opts.MaxRadius-opts.MinRadius) + opts.MinRadius

		n := mgl32.Vec3{
			float32(rng.Float64()*2 - 1),
			float32(rng.Float64()*2 - 1),
			float32(opts.Tilt),
		}.Normalize()

		drawDiscWrapped(img, x, y, r, EncodeNormal(n))
	}
	return img
}

// NewFlakesTexture wraps NewFlakes in a repeating, mipmapped texture.
func NewFlakesTexture(opts FlakesOptions, repeat mgl32.Vec2) *Texture2D {
	return &Texture2D{
		Image:   NewFlakes(opts),
		WrapS:   WrapRepeat,
		WrapT:   WrapRepeat,
		Repeat:  repeat,
		Mipmaps: true,
	}
}

func fillBackground(img *image.RGBA, opts FlakesOptions) {
	size := img.Bounds().Dx()
	if opts.OrangePeel == 0 {
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = FlatNormal.R, FlatNormal.G, FlatNormal.B, FlatNormal.A
		}
		return
	}

	// Two decorrelated fields drive the x and y tilt.
	px := perlin.NewPerlin(2, 2, 3, opts.Seed)
	py := perlin.NewPerlin(2, 2, 3, opts.Seed+7919)
	const freq = 1.0 / 48
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			nx := tileableNoise(px, float64(x), float64(y), float64(size), freq)
			ny := tileableNoise(py, float64(x), float64(y), float64(size), freq)
			n := mgl32.Vec3{
				float32(nx * opts.OrangePeel),
				float32(ny * opts.OrangePeel),
				1,
			}.Normalize()
			img.SetRGBA(x, y, EncodeNormal(n))
		}
	}
}

// tileableNoise blends four shifted noise samples so the result repeats
// with the given period in both axes.
func tileableNoise(p *perlin.Perlin, x, y, period, freq float64) float64 {
	wx := (period - x) / period
	wy := (period - y) / period
	a := p.Noise2D(x*freq, y*freq)
	b := p.Noise2D((x-period)*freq, y*freq)
	c := p.Noise2D(x*freq, (y-period)*freq)
	d := p.Noise2D((x-period)*freq, (y-period)*freq)
	return a*wx*wy + b*(1-wx)*wy + c*wx*(1-wy) + d*(1-wx)*(1-wy)
}

// drawDiscWrapped draws the disc plus its copies across the image edges.
func drawDiscWrapped(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	size := float64(img.Bounds().Dx())
	for _, ox := range [3]float64{-size, 0, size} {
		for _, oy := range [3]float64{-size, 0, size} {
			x, y := cx+ox, cy+oy
			if x+r < 0 || y+r < 0 || x-r > size || y-r > size {
				continue
			}
			drawDisc(img, x, y, r, c)
		}
	}
}

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498

// drawDisc rasterizes an anti-aliased filled circle over img. The rasterizer
// only covers the clipped bounding box of the disc.
func drawDisc(img *image.RGBA, cx, cy, r float64, c color.RGBA) {
	box := image.Rect(
		int(math.Floor(cx-r)), int(math.Floor(cy-r)),
		int(math.Ceil(cx+r)), int(math.Ceil(cy+r)),
	).Intersect(img.Bounds())
	if box.Empty() {
		return
	}

	z := vector.NewRasterizer(box.Dx(), box.Dy())
	x := float32(cx - float64(box.Min.X))
	y := float32(cy - float64(box.Min.Y))
	rr := float32(r)
	k := rr * kappa

	z.MoveTo(x+rr, y)
	z.CubeTo(x+rr, y+k, x+k, y+rr, x, y+rr)
	z.CubeTo(x-k, y+rr, x-rr, y+k, x-rr, y)
	z.CubeTo(x-rr, y-k, x-k, y-rr, x, y-rr)
	z.CubeTo(x+k, y-rr, x+rr, y-k, x+rr, y)
	z.ClosePath()

	z.Draw(img, box, image.NewUniform(c), image.Point{})
}
