package framebuffer

import (
	"errors"
	"fmt"

	"hdr-scene/internal/gpu"
)

var (
	// ErrIncomplete is returned when the driver rejects a framebuffer
	ErrIncomplete = errors.New("framebuffer incomplete")
	// ErrAttachmentSize is returned when attachments don't match the target size
	ErrAttachmentSize = errors.New("framebuffer attachment size mismatch")
)

// ColorSpec describes one color attachment. Zero width/height means "target size".
type ColorSpec struct {
	Format gpu.Format
	Width  int32
	Height int32
}

// Spec describes a render target to build
type Spec struct {
	Name   string
	Width  int32
	Height int32
	Colors []ColorSpec
	// Depth adds a depth renderbuffer of the target size
	Depth bool
}

// Attachment is an allocated color texture
type Attachment struct {
	Texture uint32
	Format  gpu.Format
	Width   int32
	Height  int32
}

// RenderTarget is an offscreen framebuffer and its attachments
type RenderTarget struct {
	Name   string
	FBO    uint32
	Width  int32
	Height int32
	Colors []Attachment
	Depth  uint32
}

// Color returns the texture of color attachment i
func (t *RenderTarget) Color(i int) uint32 {
	return t.Colors[i].Texture
}

// Bind makes the target the draw framebuffer and sets the viewport to its size
func (t *RenderTarget) Bind(dev gpu.Device) {
	dev.BindFramebuffer(t.FBO)
	dev.Viewport(0, 0, t.Width, t.Height)
}

// Release deletes the framebuffer, its textures and its renderbuffer
func (t *RenderTarget) Release(dev gpu.Device) {
	for _, c := range t.Colors {
		dev.DeleteTexture(c.Texture)
	}
	if t.Depth != 0 {
		dev.DeleteRenderbuffer(t.Depth)
	}
	dev.DeleteFramebuffer(t.FBO)
}

// BindDefault switches back to the window framebuffer
func BindDefault(dev gpu.Device, width, height int32) {
	dev.BindFramebuffer(0)
	dev.Viewport(0, 0, width, height)
}

func (s Spec) validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%s: %w: target is %dx%d", s.Name, ErrAttachmentSize, s.Width, s.Height)
	}
	for i, c := range s.Colors {
		w, h := c.size(s)
		if w != s.Width || h != s.Height {
			return fmt.Errorf("%s: %w: color %d is %dx%d, target is %dx%d",
				s.Name, ErrAttachmentSize, i, w, h, s.Width, s.Height)
		}
	}
	return nil
}

func (c ColorSpec) size(s Spec) (int32, int32) {
	w, h := c.Width, c.Height
	if w == 0 {
		w = s.Width
	}
	if h == 0 {
		h = s.Height
	}
	return w, h
}

// Build allocates the target described by s and verifies it once.
// Attachment sizes are checked before anything is allocated; the driver's
// completeness check runs after all attachments are in place. On error every
// object created so far is released and the default framebuffer is bound.
func Build(dev gpu.Device, s Spec) (*RenderTarget, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	t := &RenderTarget{Name: s.Name, Width: s.Width, Height: s.Height}
	t.FBO = dev.NewFramebuffer()
	dev.BindFramebuffer(t.FBO)

	for i, c := range s.Colors {
		w, h := c.size(s)
		tex := dev.NewTexture(gpu.Texture2D)
		dev.TexImage(gpu.Texture2D, 0, c.Format, w, h, nil)
		// clamp so the blur kernel doesn't sample across the opposite edge
		dev.SetSampling(gpu.Texture2D, gpu.Sampling{Min: gpu.Linear, Mag: gpu.Linear, Wrap: gpu.ClampToEdge})
		dev.AttachColor(i, tex)
		t.Colors = append(t.Colors, Attachment{Texture: tex, Format: c.Format, Width: w, Height: h})
	}

	if s.Depth {
		t.Depth = dev.NewDepthBuffer(s.Width, s.Height)
		dev.AttachDepth(t.Depth)
	}

	if len(s.Colors) > 1 {
		dev.DrawBuffers(len(s.Colors))
	}

	if status := dev.CheckFramebuffer(); status != gpu.StatusComplete {
		t.Release(dev)
		dev.BindFramebuffer(0)
		return nil, fmt.Errorf("%s: %w: %s", s.Name, ErrIncomplete, status)
	}

	dev.BindFramebuffer(0)
	return t, nil
}
