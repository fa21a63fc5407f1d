package bloom

import (
	"math"

	"hdr-scene/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// DisplayGamma is the power the composite pass encodes with when gamma correction is on
const DisplayGamma = 2.2

// Settings are the runtime toggles the composite pass reads
type Settings struct {
	Bloom    bool
	HDR      bool
	Gamma    bool
	Exposure float32
}

// CompositeUniforms are the uniforms of the composite program
var CompositeUniforms = []graphics.Uniform{
	{Name: "scene", Type: graphics.Int},
	{Name: "bloomBlur", Type: graphics.Int},
	{Name: "bloom", Type: graphics.Bool},
	{Name: "hdr", Type: graphics.Bool},
	{Name: "gamma", Type: graphics.Bool},
	{Name: "exposure", Type: graphics.Float},
}

// Upload writes the settings and sampler units into the composite program.
// The scene color is sampled on unit 0 and the blurred bloom on unit 1.
func (s Settings) Upload(p *graphics.Program) {
	p.SetInt("scene", 0)
	p.SetInt("bloomBlur", 1)
	p.SetBool("bloom", s.Bloom)
	p.SetBool("hdr", s.HDR)
	p.SetBool("gamma", s.Gamma)
	p.SetFloat("exposure", s.Exposure)
}

// Composite computes on the CPU what composite.frag outputs for one pixel
func Composite(scene, blurred mgl32.Vec3, s Settings) mgl32.Vec3 {
	c := scene
	if s.Bloom {
		c = c.Add(blurred)
	}
	for i := range c {
		v := float64(c[i])
		if s.HDR {
			v = 1 - math.Exp(-v*float64(s.Exposure))
		}
		if s.Gamma {
			v = math.Pow(v, 1/DisplayGamma)
		}
		c[i] = float32(v)
	}
	return c
}
