package renderer

import (
	"fmt"
	"time"

	"hdr-scene/internal/bloom"
	"hdr-scene/internal/framebuffer"
	"hdr-scene/internal/gpu"
	"hdr-scene/internal/graphics"
	"hdr-scene/internal/model"
	"hdr-scene/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Resources is everything the passes draw with, loaded before the renderer is built
type Resources struct {
	Programs *Programs
	// Models maps a placement's model path to its uploaded model
	Models map[string]*model.Model
	Floor  FloorTextures
	Skybox uint32
	// Font draws the overlay; nil leaves the overlay out
	Font *graphics.FontRenderer
}

// Options size the offscreen targets and the window
type Options struct {
	// Width and Height size the offscreen targets; they are never resized
	Width  int32
	Height int32
	// ViewportWidth and ViewportHeight are the window framebuffer size
	ViewportWidth  int32
	ViewportHeight int32

	BlurIterations int
	OverlayColor   mgl32.Vec3
}

// Renderer runs its passes in order every frame
type Renderer struct {
	passes []Pass
	shared *shared
	prof   *profiling.Frame
	font   *graphics.FontRenderer
}

// New creates the offscreen targets and the standard pass sequence.
// Any target that fails its completeness check is an error; nothing is drawn.
func New(dev gpu.Device, res Resources, opts Options, prof *profiling.Frame) (*Renderer, error) {
	hdr, err := framebuffer.NewHDRTarget(dev, opts.Width, opts.Height)
	if err != nil {
		return nil, fmt.Errorf("hdr target: %w", err)
	}
	pingpong, err := framebuffer.NewPingPongPair(dev, opts.Width, opts.Height)
	if err != nil {
		hdr.Release(dev)
		return nil, fmt.Errorf("bloom targets: %w", err)
	}
	framebuffer.BindDefault(dev, opts.ViewportWidth, opts.ViewportHeight)

	sh := &shared{
		dev:      dev,
		prims:    graphics.NewPrimitives(dev),
		hdr:      hdr,
		pingpong: pingpong,
		width:    opts.ViewportWidth,
		height:   opts.ViewportHeight,
	}
	processor := bloom.NewProcessor(dev, pingpong, res.Programs.Blur, sh.prims)
	if opts.BlurIterations > 0 {
		processor.Iterations = opts.BlurIterations
	}

	passes := []Pass{
		&clearPass{shared: sh},
		&scenePass{shared: sh, program: res.Programs.Lighting, models: res.Models},
		&lightCubePass{shared: sh, program: res.Programs.LightCube},
		&floorPass{shared: sh, program: res.Programs.Floor, textures: res.Floor},
		&skyboxPass{shared: sh, program: res.Programs.Skybox, cubemap: res.Skybox},
		&unbindPass{shared: sh},
		&blurPass{shared: sh, processor: processor},
		&compositePass{shared: sh, program: res.Programs.Composite},
	}
	if res.Font != nil {
		passes = append(passes, &overlayPass{shared: sh, font: res.Font, color: opts.OverlayColor})
	}

	r, err := NewWithPasses(prof, passes...)
	if err != nil {
		sh.release()
		return nil, err
	}
	r.shared = sh
	r.font = res.Font
	return r, nil
}

// NewWithPasses builds a renderer around an explicit pass list
func NewWithPasses(prof *profiling.Frame, passes ...Pass) (*Renderer, error) {
	if prof == nil {
		prof = profiling.NewFrame()
	}
	for i, p := range passes {
		if err := p.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				passes[j].Dispose()
			}
			return nil, fmt.Errorf("pass %s: %w", p.Name(), err)
		}
	}
	return &Renderer{passes: passes, prof: prof}, nil
}

// Render runs every pass for one frame, timing each under "renderer.<Name>"
func (r *Renderer) Render(f *Frame) {
	for _, p := range r.passes {
		done := r.prof.Track("renderer." + p.Name())
		p.Render(f)
		done()
	}
}

// Passes returns the pass names in execution order
func (r *Renderer) Passes() []string {
	names := make([]string, len(r.passes))
	for i, p := range r.passes {
		names[i] = p.Name()
	}
	return names
}

// SetViewport follows the window framebuffer size. Offscreen targets keep their size.
// The overlay text is re-fitted too. A minimized window reports 0x0; that size is ignored.
func (r *Renderer) SetViewport(width, height int) {
	if r.shared == nil || width <= 0 || height <= 0 {
		return
	}
	r.shared.width, r.shared.height = int32(width), int32(height)
	r.shared.dev.Viewport(0, 0, int32(width), int32(height))
	if r.font != nil {
		r.font.SetViewport(width, height)
	}
}

// HDR returns the scene target
func (r *Renderer) HDR() *framebuffer.RenderTarget {
	return r.shared.hdr
}

// Blurred returns the texture the last frame's blur wrote
func (r *Renderer) Blurred() uint32 {
	return r.shared.blurred
}

// Screenshot writes the current window contents into dir and returns the file path.
// Call it after Render and before the buffers are swapped.
func (r *Renderer) Screenshot(dir string, now time.Time) (string, error) {
	sh := r.shared
	return graphics.SaveScreenshot(sh.dev, dir, int(sh.width), int(sh.height), now)
}

// Dispose releases the passes in reverse order, then the targets and meshes
func (r *Renderer) Dispose() {
	for i := len(r.passes) - 1; i >= 0; i-- {
		r.passes[i].Dispose()
	}
	if r.shared != nil {
		r.shared.release()
	}
}

func (sh *shared) release() {
	sh.prims.Release()
	sh.pingpong.Release(sh.dev)
	sh.hdr.Release(sh.dev)
}
