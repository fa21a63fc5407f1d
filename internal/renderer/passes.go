package renderer

import (
	"hdr-scene/internal/bloom"
	"hdr-scene/internal/framebuffer"
	"hdr-scene/internal/gpu"
	"hdr-scene/internal/graphics"
	"hdr-scene/internal/model"

	"github.com/go-gl/mathgl/mgl32"
)

// lightCubeScale sizes the marker drawn at each point light
const lightCubeScale = 0.2

// shared is what passes hand to each other within a frame
type shared struct {
	dev      gpu.Device
	prims    *graphics.Primitives
	hdr      *framebuffer.RenderTarget
	pingpong *framebuffer.PingPongPair
	// blurred is the texture the last blur left its result in
	blurred uint32
	// default framebuffer size
	width, height int32
}

type noInit struct{}

func (noInit) Init() error { return nil }
func (noInit) Dispose()    {}

// clearPass clears the window to the state's clear color
type clearPass struct {
	noInit
	*shared
}

func (*clearPass) Name() string { return "Clear" }

func (p *clearPass) Render(f *Frame) {
	framebuffer.BindDefault(p.dev, p.width, p.height)
	c := f.ClearColor
	p.dev.ClearColor(c.X(), c.Y(), c.Z(), 1)
	p.dev.Clear(gpu.ColorBuffer | gpu.DepthBuffer)
}

// scenePass draws the lit placements into the HDR target
type scenePass struct {
	noInit
	*shared
	program *graphics.Program
	models  map[string]*model.Model
}

func (*scenePass) Name() string { return "Scene" }

func (p *scenePass) Render(f *Frame) {
	p.hdr.Bind(p.dev)
	// black keeps the bright attachment empty where nothing is drawn
	p.dev.ClearColor(0, 0, 0, 1)
	p.dev.Clear(gpu.ColorBuffer | gpu.DepthBuffer)
	p.dev.Enable(gpu.DepthTest)
	p.dev.DepthFunc(gpu.Less)
	p.dev.Enable(gpu.CullFace)

	prog := p.program
	prog.Use()
	prog.SetMat4("projection", f.Projection)
	prog.SetMat4("view", f.View)
	prog.SetVec3("viewPosition", f.ViewPosition)
	prog.SetBool("blinn", f.Features.Blinn)

	pl := f.Lights.Point
	prog.SetVec3("pointLight.position", pl.Position)
	prog.SetVec3("pointLight.ambient", pl.Ambient)
	prog.SetVec3("pointLight.diffuse", pl.Diffuse)
	prog.SetVec3("pointLight.specular", pl.Specular)
	prog.SetFloat("pointLight.constant", pl.Constant)
	prog.SetFloat("pointLight.linear", pl.Linear)
	prog.SetFloat("pointLight.quadratic", pl.Quadratic)

	dl := f.Lights.Dir
	prog.SetVec3("dirLight.direction", dl.Direction)
	prog.SetVec3("dirLight.ambient", dl.Ambient)
	prog.SetVec3("dirLight.diffuse", dl.Diffuse)
	prog.SetVec3("dirLight.specular", dl.Specular)
	prog.SetFloat("material.shininess", f.Lights.Shininess)

	for _, d := range f.Draws {
		m, ok := p.models[d.Model]
		if !ok {
			// failed to load at startup; already logged
			continue
		}
		prog.SetMat4("model", d.Matrix)
		m.Draw(prog)
	}
}

// lightCubePass marks the point light with a small flat-colored cube
type lightCubePass struct {
	noInit
	*shared
	program *graphics.Program
}

func (*lightCubePass) Name() string { return "LightCube" }

func (p *lightCubePass) Render(f *Frame) {
	prog := p.program
	prog.Use()
	prog.SetMat4("projection", f.Projection)
	prog.SetMat4("view", f.View)

	pl := f.Lights.Point
	marker := mgl32.Translate3D(pl.Position.X(), pl.Position.Y(), pl.Position.Z()).
		Mul4(mgl32.Scale3D(lightCubeScale, lightCubeScale, lightCubeScale))
	prog.SetMat4("model", marker)
	prog.SetVec3("lightColor", pl.Color)
	p.dev.DrawMesh(p.prims.Cube())
}

// FloorTextures are the three maps of the floor quad
type FloorTextures struct {
	Diffuse uint32
	Normal  uint32
	Height  uint32
}

// floorPass draws the parallax-mapped floor. The quad is seen from both sides, so culling is off.
type floorPass struct {
	noInit
	*shared
	program  *graphics.Program
	textures FloorTextures
}

func (*floorPass) Name() string { return "Floor" }

func (p *floorPass) Render(f *Frame) {
	p.dev.Disable(gpu.CullFace)

	prog := p.program
	prog.Use()
	prog.SetMat4("projection", f.Projection)
	prog.SetMat4("view", f.View)
	prog.SetMat4("model", f.Floor)
	prog.SetVec3("viewPos", f.ViewPosition)
	prog.SetVec3("lightPos", f.Lights.Point.Position)
	prog.SetFloat("heightScale", f.HeightScale)
	prog.SetInt("diffuseMap", 0)
	prog.SetInt("normalMap", 1)
	prog.SetInt("depthMap", 2)
	p.dev.BindTexture(0, gpu.Texture2D, p.textures.Diffuse)
	p.dev.BindTexture(1, gpu.Texture2D, p.textures.Normal)
	p.dev.BindTexture(2, gpu.Texture2D, p.textures.Height)
	p.dev.DrawMesh(p.prims.FloorQuad())

	p.dev.Enable(gpu.CullFace)
}

// skyboxPass draws the cubemap behind everything already in the depth buffer
type skyboxPass struct {
	noInit
	*shared
	program *graphics.Program
	cubemap uint32
}

func (*skyboxPass) Name() string { return "Skybox" }

func (p *skyboxPass) Render(f *Frame) {
	// the skybox sits at depth 1.0, which only passes with LessEqual
	p.dev.DepthFunc(gpu.LessEqual)

	prog := p.program
	prog.Use()
	prog.SetMat4("view", f.SkyView)
	prog.SetMat4("projection", f.Projection)
	prog.SetInt("skybox", 0)
	p.dev.BindTexture(0, gpu.TextureCube, p.cubemap)
	p.dev.DrawMesh(p.prims.SkyboxCube())

	p.dev.DepthFunc(gpu.Less)
}

// unbindPass leaves the HDR target
type unbindPass struct {
	noInit
	*shared
}

func (*unbindPass) Name() string { return "Unbind" }

func (p *unbindPass) Render(*Frame) {
	p.dev.BindFramebuffer(0)
}

// blurPass blurs the bright attachment
type blurPass struct {
	noInit
	*shared
	processor *bloom.Processor
}

func (*blurPass) Name() string { return "Blur" }

func (p *blurPass) Render(*Frame) {
	p.blurred = p.processor.Blur(p.hdr.Color(framebuffer.BrightColor))
}

// compositePass tone-maps the scene and the blurred highlights onto the window
type compositePass struct {
	noInit
	*shared
	program *graphics.Program
}

func (*compositePass) Name() string { return "Composite" }

func (p *compositePass) Render(f *Frame) {
	framebuffer.BindDefault(p.dev, p.width, p.height)
	p.dev.Clear(gpu.ColorBuffer | gpu.DepthBuffer)

	p.program.Use()
	f.Features.Composite().Upload(p.program)
	p.dev.BindTexture(0, gpu.Texture2D, p.hdr.Color(framebuffer.SceneColor))
	p.dev.BindTexture(1, gpu.Texture2D, p.blurred)
	p.dev.DrawMesh(p.prims.Quad())
}

// overlayPass draws the text lines of the frame on top of the composite
type overlayPass struct {
	*shared
	font  *graphics.FontRenderer
	color mgl32.Vec3
}

func (*overlayPass) Name() string { return "Overlay" }

func (*overlayPass) Init() error { return nil }

func (p *overlayPass) Render(f *Frame) {
	if f.Overlay == nil {
		return
	}
	p.font.RenderLines(f.Overlay, overlayMargin, overlayMargin+overlayLineStep, overlayLineStep, 1, p.color)
}

func (p *overlayPass) Dispose() {
	p.font.Release()
}
