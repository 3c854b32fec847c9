package texture

import (
	"context"
	"fmt"
	"math"
	"math/bits"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// PrefilterOptions controls the specular convolution.
type PrefilterOptions struct {
	Samples int // GGX importance samples per texel
	MinSize int // Smallest mip edge length
}

// DefaultPrefilterOptions returns the settings used by the demo.
func DefaultPrefilterOptions() PrefilterOptions {
	return PrefilterOptions{Samples: 64, MinSize: 8}
}

// MipCount returns the number of levels from size down to minSize, halving
// each step. It is at least 1.
func MipCount(size, minSize int) int {
	n := 1
	for size > minSize && size/2 >= minSize {
		size /= 2
		n++
	}
	return n
}

// Prefilter builds the GGX specular mip chain for the base level of src.
// Level i has roughness i/(n-1), level 0 is the unfiltered radiance.
// Faces of each level are convolved concurrently.
func Prefilter(ctx context.Context, src *CubeMap, opts PrefilterOptions) (*CubeMap, error) {
	if len(src.Levels) == 0 {
		return nil, fmt.Errorf("prefilter: empty cube map")
	}
	if opts.Samples <= 0 {
		opts.Samples = DefaultPrefilterOptions().Samples
	}
	if opts.MinSize <= 0 {
		opts.MinSize = DefaultPrefilterOptions().MinSize
	}

	base := src.Levels[0]
	n := MipCount(base.Size, opts.MinSize)

	// Box filtered radiance per level size. Level i is convolved from the
	// chain entry one step finer so coarse levels do not alias.
	chain := make([]CubeLevel, n)
	chain[0] = base
	for i := 1; i < n; i++ {
		chain[i] = downsample(chain[i-1])
	}

	out := &CubeMap{Levels: make([]CubeLevel, n)}
	out.Levels[0] = base
	out.Levels[0].Roughness = 0

	samples := hammersleySet(opts.Samples)
	for i := 1; i < n; i++ {
		roughness := float32(i) / float32(n-1)
		dst := newCubeLevel(chain[i].Size, roughness)
		from := &chain[i-1]

		g, gctx := errgroup.WithContext(ctx)
		for f := 0; f < 6; f++ {
			f := f
			g.Go(func() error {
				return convolveFace(gctx, from, &dst, f, roughness, samples)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		out.Levels[i] = dst
	}
	return out, nil
}

func convolveFace(ctx context.Context, src *CubeLevel, dst *CubeLevel, face int, roughness float32, xi []mgl32.Vec2) error {
	size := dst.Size
	alpha := roughness * roughness
	for y := 0; y < size; y++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for x := 0; x < size; x++ {
			n := FaceDirection(face, (float32(x)+0.5)/float32(size), (float32(y)+0.5)/float32(size))
			tx, ty := tangentBasis(n)

			var sum mgl32.Vec3
			var weight float32
			for _, s := range xi {
				h := importanceSampleGGX(s, alpha, n, tx, ty)
				// N = V = R
				l := h.Mul(2 * n.Dot(h)).Sub(n)
				nDotL := n.Dot(l)
				if nDotL <= 0 {
					continue
				}
				sum = sum.Add(src.Sample(l).Mul(nDotL))
				weight += nDotL
			}
			if weight > 0 {
				sum = sum.Mul(1 / weight)
			} else {
				sum = src.Sample(n)
			}
			dst.set(face, x, y, sum)
		}
	}
	return nil
}

func tangentBasis(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	up := mgl32.Vec3{0, 0, 1}
	if abs32(n[2]) >= 0.999 {
		up = mgl32.Vec3{1, 0, 0}
	}
	tx := up.Cross(n).Normalize()
	return tx, n.Cross(tx)
}

func importanceSampleGGX(xi mgl32.Vec2, alpha float32, n, tx, ty mgl32.Vec3) mgl32.Vec3 {
	a2 := float64(alpha * alpha)
	phi := 2 * math.Pi * float64(xi[0])
	cosTheta := math.Sqrt((1 - float64(xi[1])) / (1 + (a2-1)*float64(xi[1])))
	sinTheta := math.Sqrt(1 - cosTheta*cosTheta)

	hx := float32(math.Cos(phi) * sinTheta)
	hy := float32(math.Sin(phi) * sinTheta)
	hz := float32(cosTheta)
	return tx.Mul(hx).Add(ty.Mul(hy)).Add(n.Mul(hz)).Normalize()
}

// hammersleySet returns a low discrepancy 2D point set of size n.
func hammersleySet(n int) []mgl32.Vec2 {
	pts := make([]mgl32.Vec2, n)
	for i := range pts {
		radical := float32(bits.Reverse32(uint32(i))) * 2.3283064365386963e-10
		pts[i] = mgl32.Vec2{float32(i) / float32(n), radical}
	}
	return pts
}

// downsample halves a level with a 2x2 box filter.
func downsample(src CubeLevel) CubeLevel {
	size := src.Size / 2
	if size < 1 {
		size = 1
	}
	dst := newCubeLevel(size, 0)
	for f := 0; f < 6; f++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				sx, sy := x*2, y*2
				c := src.At(f, sx, sy).
					Add(src.At(f, min(sx+1, src.Size-1), sy)).
					Add(src.At(f, sx, min(sy+1, src.Size-1))).
					Add(src.At(f, min(sx+1, src.Size-1), min(sy+1, src.Size-1)))
				dst.set(f, x, y, c.Mul(0.25))
			}
		}
	}
	return dst
}
