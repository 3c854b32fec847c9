package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// NewSphere builds a UV sphere centered at the origin.
//
// Vertices are laid out row by row from the north pole (v=0) to the south
// pole, widthSegments+1 per row so the seam column is duplicated. Pole rows
// shift their u by half a segment and contribute a single triangle per
// segment. Tangents are computed.
func NewSphere(radius float32, widthSegments, heightSegments int) *Geometry {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	g := &Geometry{}
	grid := make([][]uint32, heightSegments+1)
	var index uint32

	for iy := 0; iy <= heightSegments; iy++ {
		v := float64(iy) / float64(heightSegments)

		uOffset := 0.0
		switch iy {
		case 0:
			uOffset = 0.5 / float64(widthSegments)
		case heightSegments:
			uOffset = -0.5 / float64(widthSegments)
		}

		row := make([]uint32, widthSegments+1)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float64(ix) / float64(widthSegments)
			phi := u * 2 * math.Pi
			theta := v * math.Pi

			p := mgl32.Vec3{
				float32(-float64(radius) * math.Cos(phi) * math.Sin(theta)),
				float32(float64(radius) * math.Cos(theta)),
				float32(float64(radius) * math.Sin(phi) * math.Sin(theta)),
			}
			g.Positions = append(g.Positions, p)
			g.Normals = append(g.Normals, p.Normalize())
			g.UVs = append(g.UVs, mgl32.Vec2{float32(u + uOffset), float32(1 - v)})

			row[ix] = index
			index++
		}
		grid[iy] = row
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := grid[iy][ix+1]
			b := grid[iy][ix]
			c := grid[iy+1][ix]
			d := grid[iy+1][ix+1]

			if iy != 0 {
				g.Indices = append(g.Indices, a, b, d)
			}
			if iy != heightSegments-1 {
				g.Indices = append(g.Indices, b, c, d)
			}
		}
	}

	g.ComputeTangents()
	return g
}
