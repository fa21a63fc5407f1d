// Package gputest provides an in-memory gpu.Device that records every call
// and tracks enough pipeline state to assert on what each draw would see.
package gputest

import (
	"fmt"
	"strings"

	"hdr-scene/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Draw is a snapshot of the pipeline state at a DrawMesh call
type Draw struct {
	Mesh        gpu.Mesh
	Framebuffer uint32
	Program     uint32
	Textures    map[uint32]uint32 // unit -> texture
	DepthFunc   gpu.DepthFunc
	CullFace    bool
	DepthTest   bool
	Blend       bool
}

// Texture records what was allocated for a texture object
type Texture struct {
	Kind   gpu.TextureKind
	Format gpu.Format
	Width  int32
	Height int32
	Faces  int
}

// Recorder implements gpu.Device without a GPU
type Recorder struct {
	Calls []string
	Draws []Draw

	// Status is returned by CheckFramebuffer; zero value is complete
	Status gpu.Status
	// MissingUniforms names uniforms reported inactive (location -1)
	MissingUniforms map[string]bool
	// ProgramErr, when set, is returned by NewProgram
	ProgramErr error
	// Pixels, when set, is returned by ReadPixels
	Pixels []byte

	Textures  map[uint32]Texture
	Meshes    []gpu.Mesh
	ClearedTo mgl32.Vec4

	nextID      uint32
	framebuffer uint32
	program     uint32
	bound       map[uint32]uint32
	caps        map[gpu.Capability]bool
	depthFunc   gpu.DepthFunc

	locations map[uint32]map[string]int32
	names     map[uint32]map[int32]string
	uniforms  map[uint32]map[string]any
}

// NewRecorder returns an empty recorder with every capability off
func NewRecorder() *Recorder {
	return &Recorder{
		MissingUniforms: make(map[string]bool),
		Textures:        make(map[uint32]Texture),
		bound:           make(map[uint32]uint32),
		caps:            make(map[gpu.Capability]bool),
		locations:       make(map[uint32]map[string]int32),
		names:           make(map[uint32]map[int32]string),
		uniforms:        make(map[uint32]map[string]any),
	}
}

func (r *Recorder) id() uint32 {
	r.nextID++
	return r.nextID
}

func (r *Recorder) record(format string, args ...any) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

// Reset drops recorded calls and draws but keeps allocated objects and state
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
}

// Count returns how many recorded calls start with prefix
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, c := range r.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Index returns the position of the first call equal to call, or -1
func (r *Recorder) Index(call string) int {
	for i, c := range r.Calls {
		if c == call {
			return i
		}
	}
	return -1
}

// Uniform returns the last value written to a program's uniform
func (r *Recorder) Uniform(program uint32, name string) (any, bool) {
	v, ok := r.uniforms[program][name]
	return v, ok
}

// Framebuffer returns the currently bound framebuffer
func (r *Recorder) Framebuffer() uint32 { return r.framebuffer }

// Enabled reports whether a capability is currently on
func (r *Recorder) Enabled(c gpu.Capability) bool { return r.caps[c] }

// CurrentDepthFunc returns the active depth comparison
func (r *Recorder) CurrentDepthFunc() gpu.DepthFunc { return r.depthFunc }

func (r *Recorder) ClearColor(red, g, b, a float32) {
	r.ClearedTo = mgl32.Vec4{red, g, b, a}
	r.record("ClearColor %g %g %g %g", red, g, b, a)
}

func (r *Recorder) Clear(mask gpu.ClearMask) {
	r.record("Clear fb=%d mask=%d", r.framebuffer, mask)
}

func (r *Recorder) Enable(c gpu.Capability) {
	r.caps[c] = true
	r.record("Enable %d", c)
}

func (r *Recorder) Disable(c gpu.Capability) {
	r.caps[c] = false
	r.record("Disable %d", c)
}

func (r *Recorder) DepthFunc(f gpu.DepthFunc) {
	r.depthFunc = f
	r.record("DepthFunc %d", f)
}

func (r *Recorder) BlendAlpha() { r.record("BlendAlpha") }

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport %d %d %d %d", x, y, width, height)
}

func (r *Recorder) NewTexture(kind gpu.TextureKind) uint32 {
	id := r.id()
	r.Textures[id] = Texture{Kind: kind}
	r.bound[0] = id
	r.record("NewTexture %d", id)
	return id
}

func (r *Recorder) TexImage(kind gpu.TextureKind, face int, format gpu.Format, width, height int32, pixels []byte) {
	id := r.bound[0]
	t := r.Textures[id]
	t.Kind, t.Format, t.Width, t.Height = kind, format, width, height
	t.Faces++
	r.Textures[id] = t
	r.record("TexImage %d face=%d %s %dx%d", id, face, format, width, height)
}

func (r *Recorder) SetSampling(kind gpu.TextureKind, s gpu.Sampling) {
	r.record("SetSampling %d min=%d mag=%d wrap=%d", r.bound[0], s.Min, s.Mag, s.Wrap)
}

func (r *Recorder) GenerateMipmap(kind gpu.TextureKind) {
	r.record("GenerateMipmap %d", r.bound[0])
}

func (r *Recorder) BindTexture(unit uint32, kind gpu.TextureKind, id uint32) {
	r.bound[unit] = id
	r.record("BindTexture unit=%d tex=%d", unit, id)
}

func (r *Recorder) DeleteTexture(id uint32) {
	delete(r.Textures, id)
	r.record("DeleteTexture %d", id)
}

func (r *Recorder) NewFramebuffer() uint32 {
	id := r.id()
	r.framebuffer = id
	r.record("NewFramebuffer %d", id)
	return id
}

func (r *Recorder) BindFramebuffer(id uint32) {
	r.framebuffer = id
	r.record("BindFramebuffer %d", id)
}

func (r *Recorder) AttachColor(index int, texture uint32) {
	r.record("AttachColor fb=%d %d tex=%d", r.framebuffer, index, texture)
}

func (r *Recorder) NewDepthBuffer(width, height int32) uint32 {
	id := r.id()
	r.record("NewDepthBuffer %d %dx%d", id, width, height)
	return id
}

func (r *Recorder) AttachDepth(renderbuffer uint32) {
	r.record("AttachDepth fb=%d rbo=%d", r.framebuffer, renderbuffer)
}

func (r *Recorder) DrawBuffers(count int) {
	r.record("DrawBuffers fb=%d %d", r.framebuffer, count)
}

func (r *Recorder) CheckFramebuffer() gpu.Status {
	r.record("CheckFramebuffer %d", r.framebuffer)
	return r.Status
}

func (r *Recorder) DeleteFramebuffer(id uint32) { r.record("DeleteFramebuffer %d", id) }
func (r *Recorder) DeleteRenderbuffer(id uint32) { r.record("DeleteRenderbuffer %d", id) }

func (r *Recorder) NewMesh(vertices []float32, indices []uint32, layout gpu.Layout, dynamic bool) gpu.Mesh {
	m := gpu.Mesh{VAO: r.id(), VBO: r.id(), Layout: layout}
	if len(indices) > 0 {
		m.EBO = r.id()
		m.Indexed = true
		m.Count = int32(len(indices))
	} else if stride := layout.Stride(); stride > 0 {
		m.Count = int32(len(vertices)) / stride
	}
	r.Meshes = append(r.Meshes, m)
	r.record("NewMesh vao=%d count=%d", m.VAO, m.Count)
	return m
}

func (r *Recorder) UpdateMesh(m *gpu.Mesh, vertices []float32) {
	if stride := m.Layout.Stride(); stride > 0 {
		m.Count = int32(len(vertices)) / stride
	}
	r.record("UpdateMesh vao=%d count=%d", m.VAO, m.Count)
}

func (r *Recorder) DrawMesh(m gpu.Mesh) {
	tex := make(map[uint32]uint32, len(r.bound))
	for u, id := range r.bound {
		tex[u] = id
	}
	r.Draws = append(r.Draws, Draw{
		Mesh:        m,
		Framebuffer: r.framebuffer,
		Program:     r.program,
		Textures:    tex,
		DepthFunc:   r.depthFunc,
		CullFace:    r.caps[gpu.CullFace],
		DepthTest:   r.caps[gpu.DepthTest],
		Blend:       r.caps[gpu.Blend],
	})
	r.record("DrawMesh vao=%d fb=%d program=%d", m.VAO, r.framebuffer, r.program)
}

func (r *Recorder) DeleteMesh(m gpu.Mesh) { r.record("DeleteMesh vao=%d", m.VAO) }

func (r *Recorder) NewProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if r.ProgramErr != nil {
		return 0, r.ProgramErr
	}
	id := r.id()
	r.locations[id] = make(map[string]int32)
	r.names[id] = make(map[int32]string)
	r.uniforms[id] = make(map[string]any)
	r.record("NewProgram %d", id)
	return id, nil
}

func (r *Recorder) UseProgram(id uint32) {
	r.program = id
	r.record("UseProgram %d", id)
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	if r.MissingUniforms[name] {
		return -1
	}
	locs := r.locations[program]
	if loc, ok := locs[name]; ok {
		return loc
	}
	loc := int32(len(locs))
	locs[name] = loc
	r.names[program][loc] = name
	return loc
}

func (r *Recorder) setUniform(location int32, v any) {
	name, ok := r.names[r.program][location]
	if !ok {
		name = fmt.Sprintf("#%d", location)
	}
	if r.uniforms[r.program] == nil {
		r.uniforms[r.program] = make(map[string]any)
	}
	r.uniforms[r.program][name] = v
	r.record("Uniform program=%d %s=%v", r.program, name, v)
}

func (r *Recorder) Uniform1i(location int32, v int32) { r.setUniform(location, v) }
func (r *Recorder) Uniform1f(location int32, v float32) { r.setUniform(location, v) }
func (r *Recorder) Uniform3f(location int32, v mgl32.Vec3) { r.setUniform(location, v) }
func (r *Recorder) UniformMatrix4(location int32, m mgl32.Mat4) { r.setUniform(location, m) }

func (r *Recorder) DeleteProgram(id uint32) { r.record("DeleteProgram %d", id) }

func (r *Recorder) ReadPixels(x, y, width, height int32) []byte {
	r.record("ReadPixels %d %d %d %d", x, y, width, height)
	if r.Pixels != nil {
		return r.Pixels
	}
	return make([]byte, int(width)*int(height)*4)
}

var _ gpu.Device = (*Recorder)(nil)
