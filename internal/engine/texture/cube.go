package texture

import (
	"context"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// Cube faces in GL upload order.
const (
	FacePosX = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// FaceNames matches the face constants, used for file names.
var FaceNames = [6]string{"px", "nx", "py", "ny", "pz", "nz"}

// CubeLevel is one mip level of a float RGB cube map.
type CubeLevel struct {
	Size      int
	Roughness float32
	Faces     [6][]float32 // Size*Size*3 floats per face, top row first
}

func newCubeLevel(size int, roughness float32) CubeLevel {
	l := CubeLevel{Size: size, Roughness: roughness}
	for f := range l.Faces {
		l.Faces[f] = make([]float32, size*size*3)
	}
	return l
}

// At returns a texel of face f.
func (l *CubeLevel) At(f, x, y int) mgl32.Vec3 {
	i := (y*l.Size + x) * 3
	p := l.Faces[f]
	return mgl32.Vec3{p[i], p[i+1], p[i+2]}
}

func (l *CubeLevel) set(f, x, y int, c mgl32.Vec3) {
	i := (y*l.Size + x) * 3
	p := l.Faces[f]
	p[i], p[i+1], p[i+2] = c[0], c[1], c[2]
}

// Sample bilinearly filters the level along direction dir. Filtering does
// not cross face edges.
func (l *CubeLevel) Sample(dir mgl32.Vec3) mgl32.Vec3 {
	f, u, v := FaceUV(dir)
	fx := float64(u)*float64(l.Size) - 0.5
	fy := float64(v)*float64(l.Size) - 0.5
	x0 := math.Floor(fx)
	y0 := math.Floor(fy)
	tx := float32(fx - x0)
	ty := float32(fy - y0)

	max := l.Size - 1
	ix0, ix1 := clampInt(int(x0), 0, max), clampInt(int(x0)+1, 0, max)
	iy0, iy1 := clampInt(int(y0), 0, max), clampInt(int(y0)+1, 0, max)

	top := lerp3(l.At(f, ix0, iy0), l.At(f, ix1, iy0), tx)
	bottom := lerp3(l.At(f, ix0, iy1), l.At(f, ix1, iy1), tx)
	return lerp3(top, bottom, ty)
}

// CubeMap is a float RGB cube map. Levels[0] is the full resolution radiance;
// later levels, when present, hold the prefiltered chain.
type CubeMap struct {
	Levels []CubeLevel
}

// Size returns the edge length of the base level.
func (c *CubeMap) Size() int {
	if len(c.Levels) == 0 {
		return 0
	}
	return c.Levels[0].Size
}

// MaxLOD returns the index of the last mip level.
func (c *CubeMap) MaxLOD() int {
	return len(c.Levels) - 1
}

// FaceDirection maps face texel coordinates in [0,1] to a unit direction,
// following the GL cube map convention (v grows downward on every face).
func FaceDirection(face int, u, v float32) mgl32.Vec3 {
	s := 2*u - 1
	t := 2*v - 1
	var d mgl32.Vec3
	switch face {
	case FacePosX:
		d = mgl32.Vec3{1, -t, -s}
	case FaceNegX:
		d = mgl32.Vec3{-1, -t, s}
	case FacePosY:
		d = mgl32.Vec3{s, 1, t}
	case FaceNegY:
		d = mgl32.Vec3{s, -1, -t}
	case FacePosZ:
		d = mgl32.Vec3{s, -t, 1}
	default:
		d = mgl32.Vec3{-s, -t, -1}
	}
	return d.Normalize()
}

// FaceUV is the inverse of FaceDirection.
func FaceUV(dir mgl32.Vec3) (face int, u, v float32) {
	ax, ay, az := abs32(dir[0]), abs32(dir[1]), abs32(dir[2])
	var sc, tc, ma float32
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		if dir[0] > 0 {
			face, sc, tc = FacePosX, -dir[2], -dir[1]
		} else {
			face, sc, tc = FaceNegX, dir[2], -dir[1]
		}
	case ay >= az:
		ma = ay
		if dir[1] > 0 {
			face, sc, tc = FacePosY, dir[0], dir[2]
		} else {
			face, sc, tc = FaceNegY, dir[0], -dir[2]
		}
	default:
		ma = az
		if dir[2] > 0 {
			face, sc, tc = FacePosZ, dir[0], -dir[1]
		} else {
			face, sc, tc = FaceNegZ, -dir[0], -dir[1]
		}
	}
	if ma == 0 {
		return FacePosZ, 0.5, 0.5
	}
	return face, (sc/ma + 1) / 2, (tc/ma + 1) / 2
}

// EquirectUV maps a direction to equirectangular image coordinates in [0,1],
// with v=0 at the top row (+Y).
func EquirectUV(dir mgl32.Vec3) (u, v float64) {
	d := dir.Normalize()
	u = math.Atan2(float64(d[2]), float64(d[0]))/(2*math.Pi) + 0.5
	v = 0.5 - math.Asin(math.Max(-1, math.Min(1, float64(d[1]))))/math.Pi
	return u, v
}

// EquirectToCube resamples an equirectangular panorama into a cube map with
// a single level of the given face size. Faces are converted concurrently.
func EquirectToCube(ctx context.Context, src *HDRImage, size int) (*CubeMap, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid cube size %d", size)
	}
	if src.Width == 0 || src.Height == 0 {
		return nil, fmt.Errorf("empty panorama")
	}

	level := newCubeLevel(size, 0)
	g, ctx := errgroup.WithContext(ctx)
	for f := 0; f < 6; f++ {
		f := f
		g.Go(func() error {
			for y := 0; y < size; y++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				for x := 0; x < size; x++ {
					dir := FaceDirection(f, (float32(x)+0.5)/float32(size), (float32(y)+0.5)/float32(size))
					u, v := EquirectUV(dir)
					level.set(f, x, y, src.Bilinear(u*float64(src.Width), v*float64(src.Height)))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &CubeMap{Levels: []CubeLevel{level}}, nil
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
