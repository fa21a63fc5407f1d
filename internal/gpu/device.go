package gpu

import "github.com/go-gl/mathgl/mgl32"

// Capability is a global pipeline switch toggled with Enable/Disable
type Capability uint8

const (
	DepthTest Capability = iota
	CullFace
	Blend
)

// DepthFunc selects the depth comparison
type DepthFunc uint8

const (
	Less DepthFunc = iota
	LessEqual
)

// ClearMask selects which buffers Clear resets
type ClearMask uint8

const (
	ColorBuffer ClearMask = 1 << iota
	DepthBuffer
)

// TextureKind is the bind target of a texture object
type TextureKind uint8

const (
	Texture2D TextureKind = iota
	TextureCube
)

// Format is the internal storage format of a texture
type Format uint8

const (
	RGBA8 Format = iota
	SRGBA8
	RGBA16F
	R8
)

func (f Format) String() string {
	switch f {
	case RGBA8:
		return "RGBA8"
	case SRGBA8:
		return "SRGB8_ALPHA8"
	case RGBA16F:
		return "RGBA16F"
	case R8:
		return "R8"
	}
	return "unknown"
}

// Filter is a texture minification/magnification filter
type Filter uint8

const (
	Nearest Filter = iota
	Linear
	LinearMipmap
)

// Wrap is a texture coordinate wrap mode
type Wrap uint8

const (
	Repeat Wrap = iota
	ClampToEdge
)

// Sampling groups the sampler parameters applied to a texture
type Sampling struct {
	Min  Filter
	Mag  Filter
	Wrap Wrap
}

// Status is the result of a framebuffer completeness check
type Status uint32

const (
	StatusComplete Status = iota
	StatusIncompleteAttachment
	StatusMissingAttachment
	StatusUnsupported
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusIncompleteAttachment:
		return "incomplete attachment"
	case StatusMissingAttachment:
		return "missing attachment"
	case StatusUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// Layout lists the component count of each vertex attribute, in location order
type Layout []int32

// Stride returns the number of floats per vertex
func (l Layout) Stride() int32 {
	var n int32
	for _, c := range l {
		n += c
	}
	return n
}

// Mesh is a vertex array with its buffers
type Mesh struct {
	VAO     uint32
	VBO     uint32
	EBO     uint32
	Count   int32
	Indexed bool
	Layout  Layout
}

// Device is the set of GPU operations the renderer issues.
// Texture, framebuffer and program handles are plain GL object names.
type Device interface {
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	Enable(c Capability)
	Disable(c Capability)
	DepthFunc(f DepthFunc)
	BlendAlpha()
	Viewport(x, y, width, height int32)

	NewTexture(kind TextureKind) uint32
	// TexImage uploads one image; face selects the cubemap face (+X, -X, +Y, -Y, +Z, -Z)
	// and is ignored for 2D textures. A nil pixel slice allocates storage only.
	TexImage(kind TextureKind, face int, format Format, width, height int32, pixels []byte)
	SetSampling(kind TextureKind, s Sampling)
	GenerateMipmap(kind TextureKind)
	BindTexture(unit uint32, kind TextureKind, id uint32)
	DeleteTexture(id uint32)

	NewFramebuffer() uint32
	BindFramebuffer(id uint32)
	AttachColor(index int, texture uint32)
	NewDepthBuffer(width, height int32) uint32
	AttachDepth(renderbuffer uint32)
	DrawBuffers(count int)
	CheckFramebuffer() Status
	DeleteFramebuffer(id uint32)
	DeleteRenderbuffer(id uint32)

	NewMesh(vertices []float32, indices []uint32, layout Layout, dynamic bool) Mesh
	UpdateMesh(m *Mesh, vertices []float32)
	DrawMesh(m Mesh)
	DeleteMesh(m Mesh)

	NewProgram(vertexSrc, fragmentSrc string) (uint32, error)
	UseProgram(id uint32)
	UniformLocation(program uint32, name string) int32
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, v mgl32.Vec3)
	UniformMatrix4(location int32, m mgl32.Mat4)
	DeleteProgram(id uint32)

	// ReadPixels returns tightly packed RGBA8 rows, bottom row first
	ReadPixels(x, y, width, height int32) []byte
}
