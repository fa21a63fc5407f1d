package bloom

import (
	"hdr-scene/internal/framebuffer"
	"hdr-scene/internal/gpu"
	"hdr-scene/internal/graphics"
)

// BlurUniforms are the uniforms of the separable blur program
var BlurUniforms = []graphics.Uniform{
	{Name: "image", Type: graphics.Int},
	{Name: "horizontal", Type: graphics.Bool},
}

// Processor runs the ping-pong blur. The pair is created once and reused every frame.
type Processor struct {
	dev     gpu.Device
	pair    *framebuffer.PingPongPair
	program *graphics.Program
	prims   *graphics.Primitives

	Iterations      int
	StartHorizontal bool
}

// NewProcessor returns a processor running DefaultIterations passes, horizontal first
func NewProcessor(dev gpu.Device, pair *framebuffer.PingPongPair, program *graphics.Program, prims *graphics.Primitives) *Processor {
	return &Processor{
		dev:             dev,
		pair:            pair,
		program:         program,
		prims:           prims,
		Iterations:      DefaultIterations,
		StartHorizontal: true,
	}
}

// Blur blurs the bright texture and returns the texture holding the result.
// The last ping-pong target stays bound; the caller rebinds what it draws into next.
func (p *Processor) Blur(bright uint32) uint32 {
	steps, final := Schedule(p.Iterations, p.StartHorizontal)
	if len(steps) == 0 {
		return bright
	}
	quad := p.prims.Quad()

	p.program.Use()
	p.program.SetInt("image", 0)
	for _, s := range steps {
		p.pair.Targets[s.Write].Bind(p.dev)
		p.program.SetBool("horizontal", s.Horizontal)
		src := bright
		if s.Read != FromBright {
			src = p.pair.Color(s.Read)
		}
		p.dev.BindTexture(0, gpu.Texture2D, src)
		p.dev.DrawMesh(quad)
	}
	return p.pair.Color(ResultIndex(final))
}
