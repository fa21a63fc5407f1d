package graphics

import (
	"testing"

	"hdr-scene/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
)

func TestPrimitivesUploadOnce(t *testing.T) {
	rec := gputest.NewRecorder()
	p := NewPrimitives(rec)
	if rec.Count("NewMesh") != 0 {
		t.Fatalf("nothing should be uploaded before first use")
	}

	q1 := p.Quad()
	q2 := p.Quad()
	c := p.Cube()
	f := p.FloorQuad()
	p.FloorQuad()
	s := p.SkyboxCube()

	if q1.VAO != q2.VAO {
		t.Errorf("second Quad() returned a new mesh")
	}
	if rec.Count("NewMesh") != 4 {
		t.Errorf("expected 4 uploads, got %d", rec.Count("NewMesh"))
	}
	if q1.Count != 6 || c.Count != 36 || f.Count != 6 || s.Count != 36 {
		t.Errorf("vertex counts quad=%d cube=%d floor=%d sky=%d", q1.Count, c.Count, f.Count, s.Count)
	}

	p.Release()
	if rec.Count("DeleteMesh") != 4 {
		t.Errorf("release should delete 4 meshes")
	}
	p.Quad()
	if rec.Count("NewMesh") != 5 {
		t.Errorf("quad should be rebuilt after release")
	}
}

func triangleNormal(v []float32, stride, tri int) (mgl32.Vec3, mgl32.Vec3) {
	at := func(i int) mgl32.Vec3 {
		o := (tri*3 + i) * stride
		return mgl32.Vec3{v[o], v[o+1], v[o+2]}
	}
	a, b, c := at(0), at(1), at(2)
	center := a.Add(b).Add(c).Mul(1.0 / 3)
	return b.Sub(a).Cross(c.Sub(a)), center
}

func TestCubeFacesOutwardAndSkyboxInward(t *testing.T) {
	cube := CubeVertices()
	for tri := 0; tri < 12; tri++ {
		n, center := triangleNormal(cube, 8, tri)
		if n.Dot(center) <= 0 {
			t.Errorf("cube triangle %d faces inward", tri)
		}
		o := tri * 3 * 8
		declared := mgl32.Vec3{cube[o+3], cube[o+4], cube[o+5]}
		if n.Normalize().Dot(declared) < 0.999 {
			t.Errorf("cube triangle %d normal %v disagrees with winding %v", tri, declared, n)
		}
	}

	sky := SkyboxVertices()
	for tri := 0; tri < 12; tri++ {
		n, center := triangleNormal(sky, 3, tri)
		if n.Dot(center) >= 0 {
			t.Errorf("skybox triangle %d faces outward", tri)
		}
	}
}

func TestFloorTangentBasis(t *testing.T) {
	v := FloorVertices()
	for i := 0; i < 6; i++ {
		o := i * 14
		tangent := mgl32.Vec3{v[o+8], v[o+9], v[o+10]}
		bitangent := mgl32.Vec3{v[o+11], v[o+12], v[o+13]}
		if tangent.Sub(mgl32.Vec3{1, 0, 0}).Len() > 1e-5 {
			t.Errorf("vertex %d tangent = %v, want +X", i, tangent)
		}
		if bitangent.Sub(mgl32.Vec3{0, 1, 0}).Len() > 1e-5 {
			t.Errorf("vertex %d bitangent = %v, want +Y", i, bitangent)
		}
	}
}

func TestTangentBasisFollowsUVRotation(t *testing.T) {
	// UVs rotated 90 degrees: u grows along +Y
	tangent, bitangent := TangentBasis(
		mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{-1, 0, 0},
		mgl32.Vec2{0, 0}, mgl32.Vec2{1, 0}, mgl32.Vec2{0, 1},
	)
	if tangent.Sub(mgl32.Vec3{0, 1, 0}).Len() > 1e-5 {
		t.Errorf("tangent = %v, want +Y", tangent)
	}
	if bitangent.Sub(mgl32.Vec3{-1, 0, 0}).Len() > 1e-5 {
		t.Errorf("bitangent = %v, want -X", bitangent)
	}
}
