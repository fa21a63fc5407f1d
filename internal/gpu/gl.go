package gpu

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GL implements Device on an OpenGL 4.1 core context.
// The context must be current on the calling thread.
type GL struct{}

// NewGL loads the GL function pointers for the current context
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init gl: %w", err)
	}
	return &GL{}, nil
}

// Version reports the driver's GL version string
func (*GL) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func glCap(c Capability) uint32 {
	switch c {
	case CullFace:
		return gl.CULL_FACE
	case Blend:
		return gl.BLEND
	}
	return gl.DEPTH_TEST
}

func glTarget(k TextureKind) uint32 {
	if k == TextureCube {
		return gl.TEXTURE_CUBE_MAP
	}
	return gl.TEXTURE_2D
}

func glFilter(f Filter) int32 {
	switch f {
	case Nearest:
		return gl.NEAREST
	case LinearMipmap:
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return gl.LINEAR
}

func glWrap(w Wrap) int32 {
	if w == ClampToEdge {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

// glFormat returns internal format, pixel format and pixel type
func glFormat(f Format) (int32, uint32, uint32) {
	switch f {
	case SRGBA8:
		return gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE
	case RGBA16F:
		return gl.RGBA16F, gl.RGBA, gl.FLOAT
	case R8:
		return gl.R8, gl.RED, gl.UNSIGNED_BYTE
	}
	return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE
}

func (*GL) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (*GL) Clear(mask ClearMask) {
	var bits uint32
	if mask&ColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&DepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (*GL) Enable(c Capability)  { gl.Enable(glCap(c)) }
func (*GL) Disable(c Capability) { gl.Disable(glCap(c)) }

func (*GL) DepthFunc(f DepthFunc) {
	if f == LessEqual {
		gl.DepthFunc(gl.LEQUAL)
		return
	}
	gl.DepthFunc(gl.LESS)
}

func (*GL) BlendAlpha() { gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA) }

func (*GL) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (*GL) NewTexture(kind TextureKind) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(glTarget(kind), id)
	return id
}

func (*GL) TexImage(kind TextureKind, face int, format Format, width, height int32, pixels []byte) {
	target := uint32(gl.TEXTURE_2D)
	if kind == TextureCube {
		target = gl.TEXTURE_CUBE_MAP_POSITIVE_X + uint32(face)
	}
	internal, pf, pt := glFormat(format)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	var ptr = gl.Ptr(nil)
	if len(pixels) > 0 {
		ptr = gl.Ptr(pixels)
	}
	gl.TexImage2D(target, 0, internal, width, height, 0, pf, pt, ptr)
}

func (*GL) SetSampling(kind TextureKind, s Sampling) {
	t := glTarget(kind)
	gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, glFilter(s.Min))
	gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, glFilter(s.Mag))
	gl.TexParameteri(t, gl.TEXTURE_WRAP_S, glWrap(s.Wrap))
	gl.TexParameteri(t, gl.TEXTURE_WRAP_T, glWrap(s.Wrap))
	if kind == TextureCube {
		gl.TexParameteri(t, gl.TEXTURE_WRAP_R, glWrap(s.Wrap))
	}
}

func (*GL) GenerateMipmap(kind TextureKind) { gl.GenerateMipmap(glTarget(kind)) }

func (*GL) BindTexture(unit uint32, kind TextureKind, id uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(glTarget(kind), id)
}

func (*GL) DeleteTexture(id uint32) { gl.DeleteTextures(1, &id) }

func (*GL) NewFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	gl.BindFramebuffer(gl.FRAMEBUFFER, id)
	return id
}

func (*GL) BindFramebuffer(id uint32) { gl.BindFramebuffer(gl.FRAMEBUFFER, id) }

func (*GL) AttachColor(index int, texture uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+uint32(index), gl.TEXTURE_2D, texture, 0)
}

func (*GL) NewDepthBuffer(width, height int32) uint32 {
	var rbo uint32
	gl.GenRenderbuffers(1, &rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	return rbo
}

func (*GL) AttachDepth(renderbuffer uint32) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, renderbuffer)
}

func (*GL) DrawBuffers(count int) {
	bufs := make([]uint32, count)
	for i := range bufs {
		bufs[i] = gl.COLOR_ATTACHMENT0 + uint32(i)
	}
	gl.DrawBuffers(int32(count), &bufs[0])
}

func (*GL) CheckFramebuffer() Status {
	switch gl.CheckFramebufferStatus(gl.FRAMEBUFFER) {
	case gl.FRAMEBUFFER_COMPLETE:
		return StatusComplete
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return StatusIncompleteAttachment
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return StatusMissingAttachment
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return StatusUnsupported
	}
	return StatusUnknown
}

func (*GL) DeleteFramebuffer(id uint32)  { gl.DeleteFramebuffers(1, &id) }
func (*GL) DeleteRenderbuffer(id uint32) { gl.DeleteRenderbuffers(1, &id) }

func (*GL) NewMesh(vertices []float32, indices []uint32, layout Layout, dynamic bool) Mesh {
	m := Mesh{Layout: layout}
	usage := uint32(gl.STATIC_DRAW)
	if dynamic {
		usage = gl.DYNAMIC_DRAW
	}

	gl.GenVertexArrays(1, &m.VAO)
	gl.GenBuffers(1, &m.VBO)
	gl.BindVertexArray(m.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), usage)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, usage)
	}

	if len(indices) > 0 {
		gl.GenBuffers(1, &m.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
		m.Indexed = true
		m.Count = int32(len(indices))
	}

	stride := layout.Stride()
	var offset int32
	for i, n := range layout {
		gl.EnableVertexAttribArray(uint32(i))
		gl.VertexAttribPointerWithOffset(uint32(i), n, gl.FLOAT, false, stride*4, uintptr(offset*4))
		offset += n
	}
	if !m.Indexed && stride > 0 {
		m.Count = int32(len(vertices)) / stride
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return m
}

func (*GL) UpdateMesh(m *Mesh, vertices []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	size := len(vertices) * 4
	// orphan before upload so the driver doesn't stall on the previous frame's draw
	gl.BufferData(gl.ARRAY_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	if size > 0 {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, gl.Ptr(vertices))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	if stride := m.Layout.Stride(); stride > 0 {
		m.Count = int32(len(vertices)) / stride
	}
}

func (*GL) DrawMesh(m Mesh) {
	if m.Count == 0 {
		return
	}
	gl.BindVertexArray(m.VAO)
	if m.Indexed {
		gl.DrawElements(gl.TRIANGLES, m.Count, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, m.Count)
	}
	gl.BindVertexArray(0)
}

func (*GL) DeleteMesh(m Mesh) {
	gl.DeleteVertexArrays(1, &m.VAO)
	gl.DeleteBuffers(1, &m.VBO)
	if m.EBO != 0 {
		gl.DeleteBuffers(1, &m.EBO)
	}
}

func (*GL) NewProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex shader: %w", err)
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, fmt.Errorf("fragment shader: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}

func (*GL) UseProgram(id uint32) { gl.UseProgram(id) }

func (*GL) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (*GL) Uniform1i(location int32, v int32)   { gl.Uniform1i(location, v) }
func (*GL) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (*GL) Uniform3f(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (*GL) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (*GL) DeleteProgram(id uint32) { gl.DeleteProgram(id) }

func (*GL) ReadPixels(x, y, width, height int32) []byte {
	pix := make([]byte, int(width)*int(height)*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	return pix
}
