// Package framebuffer provides offscreen render targets used for frame
// capture.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Framebuffer is an offscreen color+depth target. With samples > 0 it
// renders multisampled and Resolve blits into a single sampled texture
// that ReadPixels reads from.
type Framebuffer struct {
	width   int32
	height  int32
	samples int32

	// Draw target. Equal to the resolve target when not multisampled.
	drawFBO  uint32
	colorRBO uint32
	depthRBO uint32

	resolveFBO   uint32
	colorTexture uint32
	resolveDepth uint32
}

// New creates a framebuffer of the given size and sample count.
func New(width, height, samples int32) (*Framebuffer, error) {
	fb := &Framebuffer{
		width:   max(width, 1),
		height:  max(height, 1),
		samples: max(samples, 0),
	}
	if err := fb.create(); err != nil {
		fb.Destroy()
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return fb, nil
}

func (fb *Framebuffer) multisampled() bool {
	return fb.samples > 0
}

func (fb *Framebuffer) create() error {
	// Single sampled target: color texture plus depth.
	gl.GenFramebuffers(1, &fb.resolveFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.resolveFBO)

	gl.GenTextures(1, &fb.colorTexture)
	gl.BindTexture(gl.TEXTURE_2D, fb.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, fb.width, fb.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.colorTexture, 0)

	gl.GenRenderbuffers(1, &fb.resolveDepth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.resolveDepth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, fb.width, fb.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.resolveDepth)

	if err := checkStatus("resolve"); err != nil {
		return err
	}

	if !fb.multisampled() {
		fb.drawFBO = fb.resolveFBO
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return nil
	}

	gl.GenFramebuffers(1, &fb.drawFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.drawFBO)

	gl.GenRenderbuffers(1, &fb.colorRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.colorRBO)
	gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, fb.samples, gl.RGBA8, fb.width, fb.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, fb.colorRBO)

	gl.GenRenderbuffers(1, &fb.depthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
	gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, fb.samples, gl.DEPTH_COMPONENT24, fb.width, fb.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)

	if err := checkStatus("multisample"); err != nil {
		return err
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return nil
}

func checkStatus(name string) error {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		return fmt.Errorf("%s framebuffer incomplete: 0x%x", name, status)
	}
	return nil
}

// BindWithViewport makes this framebuffer the render target.
// Returns a function restoring the previous framebuffer and viewport.
func (fb *Framebuffer) BindWithViewport() func() {
	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.drawFBO)
	gl.Viewport(0, 0, fb.width, fb.height)

	return func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
		gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
	}
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// Matches reports whether the framebuffer already has the given shape.
func (fb *Framebuffer) Matches(width, height, samples int32) bool {
	return fb.width == max(width, 1) && fb.height == max(height, 1) && fb.samples == max(samples, 0)
}

// Resolve copies the multisampled color into the readable texture.
func (fb *Framebuffer) Resolve() {
	if !fb.multisampled() {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.drawFBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb.resolveFBO)
	gl.BlitFramebuffer(0, 0, fb.width, fb.height, 0, 0, fb.width, fb.height, gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadPixels resolves and returns the color attachment as bottom-up RGBA
// rows.
func (fb *Framebuffer) ReadPixels() []byte {
	fb.Resolve()
	pixels := make([]byte, fb.width*fb.height*4)

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.resolveFBO)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, fb.width, fb.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))

	return pixels
}

// Destroy releases all OpenGL resources.
func (fb *Framebuffer) Destroy() {
	if fb.drawFBO != 0 && fb.drawFBO != fb.resolveFBO {
		gl.DeleteFramebuffers(1, &fb.drawFBO)
	}
	fb.drawFBO = 0
	for _, rb := range []*uint32{&fb.colorRBO, &fb.depthRBO, &fb.resolveDepth} {
		if *rb != 0 {
			gl.DeleteRenderbuffers(1, rb)
			*rb = 0
		}
	}
	if fb.resolveFBO != 0 {
		gl.DeleteFramebuffers(1, &fb.resolveFBO)
		fb.resolveFBO = 0
	}
	if fb.colorTexture != 0 {
		gl.DeleteTextures(1, &fb.colorTexture)
		fb.colorTexture = 0
	}
}
