package graphics

import (
	"hdr-scene/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex layouts of the cached primitives
var (
	QuadLayout   = gpu.Layout{3, 2}          // position, uv
	CubeLayout   = gpu.Layout{3, 3, 2}       // position, normal, uv
	SkyboxLayout = gpu.Layout{3}             // position
	FloorLayout  = gpu.Layout{3, 3, 2, 3, 3} // position, normal, uv, tangent, bitangent
)

// Primitives lazily uploads the shared meshes used by the render passes.
// Each mesh is created on first request and reused until Release.
type Primitives struct {
	dev    gpu.Device
	quad   *gpu.Mesh
	cube   *gpu.Mesh
	skybox *gpu.Mesh
	floor  *gpu.Mesh
}

// NewPrimitives returns an empty cache; nothing is uploaded until first use
func NewPrimitives(dev gpu.Device) *Primitives {
	return &Primitives{dev: dev}
}

func (p *Primitives) get(slot **gpu.Mesh, build func() []float32, layout gpu.Layout) gpu.Mesh {
	if *slot == nil {
		m := p.dev.NewMesh(build(), nil, layout, false)
		*slot = &m
	}
	return **slot
}

// Quad returns the full-screen quad in normalized device coordinates
func (p *Primitives) Quad() gpu.Mesh {
	return p.get(&p.quad, QuadVertices, QuadLayout)
}

// Cube returns a 2x2x2 cube with outward normals, wound counter-clockwise from outside
func (p *Primitives) Cube() gpu.Mesh {
	return p.get(&p.cube, CubeVertices, CubeLayout)
}

// SkyboxCube returns a position-only cube wound to be visible from inside with back-face culling on
func (p *Primitives) SkyboxCube() gpu.Mesh {
	return p.get(&p.skybox, SkyboxVertices, SkyboxLayout)
}

// FloorQuad returns a unit quad in the XY plane facing +Z with tangent-space basis for normal mapping
func (p *Primitives) FloorQuad() gpu.Mesh {
	return p.get(&p.floor, FloorVertices, FloorLayout)
}

// Release deletes every mesh created so far
func (p *Primitives) Release() {
	for _, slot := range []**gpu.Mesh{&p.quad, &p.cube, &p.skybox, &p.floor} {
		if *slot != nil {
			p.dev.DeleteMesh(**slot)
			*slot = nil
		}
	}
}

// QuadVertices covers clip space with two triangles
func QuadVertices() []float32 {
	return []float32{
		-1, 1, 0, 0, 1,
		-1, -1, 0, 0, 0,
		1, -1, 0, 1, 0,

		-1, 1, 0, 0, 1,
		1, -1, 0, 1, 0,
		1, 1, 0, 1, 1,
	}
}

type cubeFace struct {
	normal, u, v mgl32.Vec3 // u x v == normal
}

var cubeFaces = [6]cubeFace{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

// corner order of the two triangles per face, as (s, t) signs along u and v
var faceCorners = [6][2]float32{{-1, -1}, {1, -1}, {1, 1}, {1, 1}, {-1, 1}, {-1, -1}}

// CubeVertices builds the lit cube used for light-source markers
func CubeVertices() []float32 {
	out := make([]float32, 0, 36*8)
	for _, f := range cubeFaces {
		for _, c := range faceCorners {
			pos := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			out = append(out,
				pos[0], pos[1], pos[2],
				f.normal[0], f.normal[1], f.normal[2],
				(c[0]+1)/2, (c[1]+1)/2,
			)
		}
	}
	return out
}

// SkyboxVertices builds the cube with each triangle's winding reversed
func SkyboxVertices() []float32 {
	out := make([]float32, 0, 36*3)
	for _, f := range cubeFaces {
		for i := len(faceCorners) - 1; i >= 0; i-- {
			c := faceCorners[i]
			pos := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1]))
			out = append(out, pos[0], pos[1], pos[2])
		}
	}
	return out
}

// TangentBasis derives the tangent and bitangent of a triangle from its UV-space edge deltas
func TangentBasis(p1, p2, p3 mgl32.Vec3, uv1, uv2, uv3 mgl32.Vec2) (tangent, bitangent mgl32.Vec3) {
	edge1 := p2.Sub(p1)
	edge2 := p3.Sub(p1)
	duv1 := uv2.Sub(uv1)
	duv2 := uv3.Sub(uv1)

	det := duv1.X()*duv2.Y() - duv2.X()*duv1.Y()
	if det == 0 {
		// degenerate UVs; fall back to the first edge so the basis stays finite
		t := edge1.Normalize()
		return t, edge2.Normalize()
	}
	f := 1 / det

	tangent = edge1.Mul(duv2.Y()).Sub(edge2.Mul(duv1.Y())).Mul(f).Normalize()
	bitangent = edge2.Mul(duv1.X()).Sub(edge1.Mul(duv2.X())).Mul(f).Normalize()
	return tangent, bitangent
}

// FloorVertices builds the normal-mapped quad, computing the tangent basis once per triangle
func FloorVertices() []float32 {
	pos := [4]mgl32.Vec3{{-1, 1, 0}, {-1, -1, 0}, {1, -1, 0}, {1, 1, 0}}
	uv := [4]mgl32.Vec2{{0, 1}, {0, 0}, {1, 0}, {1, 1}}
	normal := mgl32.Vec3{0, 0, 1}

	out := make([]float32, 0, 6*14)
	for _, tri := range [2][3]int{{0, 1, 2}, {0, 2, 3}} {
		a, b, c := tri[0], tri[1], tri[2]
		tangent, bitangent := TangentBasis(pos[a], pos[b], pos[c], uv[a], uv[b], uv[c])
		for _, i := range tri {
			out = append(out,
				pos[i][0], pos[i][1], pos[i][2],
				normal[0], normal[1], normal[2],
				uv[i][0], uv[i][1],
				tangent[0], tangent[1], tangent[2],
				bitangent[0], bitangent[1], bitangent[2],
			)
		}
	}
	return out
}
