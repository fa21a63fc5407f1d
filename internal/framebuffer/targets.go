package framebuffer

import (
	"fmt"

	"hdr-scene/internal/gpu"
)

const (
	// SceneColor holds the lit color of the main pass
	SceneColor = 0
	// BrightColor holds the thresholded color the bloom pass reads
	BrightColor = 1
)

// HDRSpec describes the scene target: two float color attachments plus depth
func HDRSpec(width, height int32) Spec {
	return Spec{
		Name:   "hdr",
		Width:  width,
		Height: height,
		Colors: []ColorSpec{{Format: gpu.RGBA16F}, {Format: gpu.RGBA16F}},
		Depth:  true,
	}
}

// NewHDRTarget creates the scene target the lighting passes write into
func NewHDRTarget(dev gpu.Device, width, height int32) (*RenderTarget, error) {
	return Build(dev, HDRSpec(width, height))
}

// PingPongPair is two color-only targets that alternate as blur source and destination
type PingPongPair struct {
	Targets [2]*RenderTarget
}

// NewPingPongPair creates both blur targets, each checked on its own
func NewPingPongPair(dev gpu.Device, width, height int32) (*PingPongPair, error) {
	var p PingPongPair
	for i := range p.Targets {
		t, err := Build(dev, Spec{
			Name:   fmt.Sprintf("pingpong[%d]", i),
			Width:  width,
			Height: height,
			Colors: []ColorSpec{{Format: gpu.RGBA16F}},
		})
		if err != nil {
			p.Release(dev)
			return nil, err
		}
		p.Targets[i] = t
	}
	return &p, nil
}

// Color returns the color texture of target i
func (p *PingPongPair) Color(i int) uint32 {
	return p.Targets[i].Color(0)
}

// Release frees whichever targets were created
func (p *PingPongPair) Release(dev gpu.Device) {
	for i, t := range p.Targets {
		if t != nil {
			t.Release(dev)
			p.Targets[i] = nil
		}
	}
}
