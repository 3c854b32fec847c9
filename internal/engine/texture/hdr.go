// Package texture provides CPU side image decoding and texture generation:
// Radiance HDR panoramas, cube maps with a prefiltered mip chain, and the
// procedural flakes normal map.
package texture

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// HDRImage is a linear float RGB image stored top row first.
type HDRImage struct {
	Width    int
	Height   int
	Exposure float64 // EXPOSURE header value, 1 when absent
	Gamma    float64 // GAMMA header value, 1 when absent
	Pix      []float32
}

// NewHDRImage allocates a black image.
func NewHDRImage(width, height int) *HDRImage {
	return &HDRImage{
		Width:    width,
		Height:   height,
		Exposure: 1,
		Gamma:    1,
		Pix:      make([]float32, width*height*3),
	}
}

// At returns the pixel at (x, y).
func (m *HDRImage) At(x, y int) mgl32.Vec3 {
	i := (y*m.Width + x) * 3
	return mgl32.Vec3{m.Pix[i], m.Pix[i+1], m.Pix[i+2]}
}

// Set writes the pixel at (x, y).
func (m *HDRImage) Set(x, y int, c mgl32.Vec3) {
	i := (y*m.Width + x) * 3
	m.Pix[i], m.Pix[i+1], m.Pix[i+2] = c[0], c[1], c[2]
}

// Bilinear samples at continuous pixel coordinates. x wraps around, y clamps.
func (m *HDRImage) Bilinear(fx, fy float64) mgl32.Vec3 {
	fx -= 0.5
	fy -= 0.5
	x0 := math.Floor(fx)
	y0 := math.Floor(fy)
	tx := float32(fx - x0)
	ty := float32(fy - y0)

	ix0 := wrap(int(x0), m.Width)
	ix1 := wrap(int(x0)+1, m.Width)
	iy0 := clampInt(int(y0), 0, m.Height-1)
	iy1 := clampInt(int(y0)+1, 0, m.Height-1)

	top := lerp3(m.At(ix0, iy0), m.At(ix1, iy0), tx)
	bottom := lerp3(m.At(ix0, iy1), m.At(ix1, iy1), tx)
	return lerp3(top, bottom, ty)
}

// Stats returns the maximum and mean luminance, handy for sanity checks.
func (m *HDRImage) Stats() (maxLum, meanLum float64) {
	n := m.Width * m.Height
	if n == 0 {
		return 0, 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		l := luminance(m.Pix[i*3], m.Pix[i*3+1], m.Pix[i*3+2])
		sum += l
		maxLum = math.Max(maxLum, l)
	}
	return maxLum, sum / float64(n)
}

func luminance(r, g, b float32) float64 {
	return 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
}

// DecodeHDR decodes a Radiance RGBE (.hdr / .pic) file.
// Only the standard "-Y h +X w" orientation is supported. Both flat and
// new-style run-length encoded scanlines are accepted.
func DecodeHDR(data []byte) (*HDRImage, error) {
	r := bufio.NewReader(bytes.NewReader(data))

	magic, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("reading HDR header: %w", err)
	}
	if !strings.HasPrefix(magic, "#?") {
		return nil, fmt.Errorf("not a Radiance HDR file")
	}

	img := &HDRImage{Exposure: 1, Gamma: 1}
	format := ""
	for {
		line, err := readLine(r)
		if err != nil {
			return nil, fmt.Errorf("HDR header truncated: %w", err)
		}
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue // comments and program names
		}
		switch key {
		case "FORMAT":
			format = value
		case "EXPOSURE":
			if v, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				img.Exposure *= v
			}
		case "GAMMA":
			if v, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				img.Gamma = v
			}
		}
	}
	if format != "" && format != "32-bit_rle_rgbe" {
		return nil, fmt.Errorf("unsupported HDR format %q", format)
	}

	res, err := readLine(r)
	if err != nil {
		return nil, fmt.Errorf("reading HDR resolution: %w", err)
	}
	var w, h int
	if _, err := fmt.Sscanf(res, "-Y %d +X %d", &h, &w); err != nil {
		return nil, fmt.Errorf("unsupported HDR resolution line %q", res)
	}
	if w <= 0 || h <= 0 || w > 1<<15 || h > 1<<15 {
		return nil, fmt.Errorf("invalid HDR size %dx%d", w, h)
	}
	img.Width, img.Height = w, h
	img.Pix = make([]float32, w*h*3)

	rgbe, err := readPixels(r, w, h)
	if err != nil {
		return nil, err
	}
	for i := 0; i < w*h; i++ {
		rgbeToFloat(rgbe[i*4:i*4+4], img.Pix[i*3:i*3+3])
	}
	return img, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPixels returns w*h RGBE quadruplets.
func readPixels(r *bufio.Reader, w, h int) ([]byte, error) {
	out := make([]byte, w*h*4)

	// Old style files and widths outside the RLE range are stored flat.
	if w < 8 || w > 0x7fff {
		if _, err := io.ReadFull(r, out); err != nil {
			return nil, fmt.Errorf("HDR pixel data truncated: %w", err)
		}
		return out, nil
	}

	head, err := r.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("HDR pixel data truncated: %w", err)
	}
	if head[0] != 2 || head[1] != 2 || head[2]&0x80 != 0 {
		if _, err := io.ReadFull(r, out); err != nil {
			return nil, fmt.Errorf("HDR pixel data truncated: %w", err)
		}
		return out, nil
	}

	line := make([]byte, w*4)
	var hdr [4]byte
	for y := 0; y < h; y++ {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("HDR scanline %d truncated: %w", y, err)
		}
		if hdr[0] != 2 || hdr[1] != 2 || int(hdr[2])<<8|int(hdr[3]) != w {
			return nil, fmt.Errorf("HDR scanline %d: bad RLE header", y)
		}

		// Channels are stored planar: all R, then G, B, E.
		for ch := 0; ch < 4; ch++ {
			plane := line[ch*w : (ch+1)*w]
			for x := 0; x < w; {
				count, err := r.ReadByte()
				if err != nil {
					return nil, fmt.Errorf("HDR scanline %d truncated: %w", y, err)
				}
				if count > 128 {
					n := int(count) - 128
					if x+n > w {
						return nil, fmt.Errorf("HDR scanline %d: run overflows line", y)
					}
					v, err := r.ReadByte()
					if err != nil {
						return nil, fmt.Errorf("HDR scanline %d truncated: %w", y, err)
					}
					for i := 0; i < n; i++ {
						plane[x+i] = v
					}
					x += n
				} else {
					n := int(count)
					if n == 0 || x+n > w {
						return nil, fmt.Errorf("HDR scanline %d: bad literal length %d", y, n)
					}
					if _, err := io.ReadFull(r, plane[x:x+n]); err != nil {
						return nil, fmt.Errorf("HDR scanline %d truncated: %w", y, err)
					}
					x += n
				}
			}
		}

		dst := out[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			dst[x*4+0] = line[x]
			dst[x*4+1] = line[w+x]
			dst[x*4+2] = line[2*w+x]
			dst[x*4+3] = line[3*w+x]
		}
	}
	return out, nil
}

func rgbeToFloat(in []byte, out []float32) {
	if in[3] == 0 {
		out[0], out[1], out[2] = 0, 0, 0
		return
	}
	f := float32(math.Ldexp(1, int(in[3])-128) / 255)
	out[0] = float32(in[0]) * f
	out[1] = float32(in[1]) * f
	out[2] = float32(in[2]) * f
}

// floatToRGBE is the inverse of rgbeToFloat, used by EncodeHDR.
func floatToRGBE(r, g, b float32) [4]byte {
	v := math.Max(float64(r), math.Max(float64(g), float64(b)))
	if v < 1e-32 {
		return [4]byte{}
	}
	frac, exp := math.Frexp(v)
	scale := frac * 255 / v
	return [4]byte{
		byte(math.Min(255, float64(r)*scale)),
		byte(math.Min(255, float64(g)*scale)),
		byte(math.Min(255, float64(b)*scale)),
		byte(exp + 128),
	}
}

// EncodeHDR writes img as a flat (uncompressed) Radiance file.
func EncodeHDR(w io.Writer, img *HDRImage) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y %d +X %d\n", img.Height, img.Width)
	for i := 0; i < img.Width*img.Height; i++ {
		q := floatToRGBE(img.Pix[i*3], img.Pix[i*3+1], img.Pix[i*3+2])
		if _, err := bw.Write(q[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
