// Package scene describes what the main pass draws: placement records with
// ordered transform recipes, their per-frame animations, and the lights.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// OpKind names a transform operation
type OpKind string

const (
	OpTranslate OpKind = "translate"
	OpScale     OpKind = "scale"
	OpRotate    OpKind = "rotate"
)

// Op is one step of a transform recipe.
// V is the offset for translate, the per-axis factor for scale and the axis for rotate.
type Op struct {
	Kind  OpKind     `json:"op"`
	V     mgl32.Vec3 `json:"v"`
	Angle float32    `json:"angle,omitempty"` // degrees, rotate only
}

// Translate moves by (x, y, z)
func Translate(x, y, z float32) Op {
	return Op{Kind: OpTranslate, V: mgl32.Vec3{x, y, z}}
}

// Scale scales uniformly
func Scale(s float32) Op {
	return Op{Kind: OpScale, V: mgl32.Vec3{s, s, s}}
}

// Rotate turns by degrees around axis
func Rotate(degrees float32, axis mgl32.Vec3) Op {
	return Op{Kind: OpRotate, V: axis, Angle: degrees}
}

// Matrix returns the op as a 4x4 matrix
func (o Op) Matrix() mgl32.Mat4 {
	switch o.Kind {
	case OpTranslate:
		return mgl32.Translate3D(o.V.X(), o.V.Y(), o.V.Z())
	case OpScale:
		return mgl32.Scale3D(o.V.X(), o.V.Y(), o.V.Z())
	case OpRotate:
		if o.V.Len() == 0 {
			return mgl32.Ident4()
		}
		return mgl32.HomogRotate3D(mgl32.DegToRad(o.Angle), o.V.Normalize())
	}
	return mgl32.Ident4()
}

func (o Op) validate() error {
	switch o.Kind {
	case OpTranslate:
		return nil
	case OpScale:
		if o.V.X() == 0 || o.V.Y() == 0 || o.V.Z() == 0 {
			return fmt.Errorf("scale %v has a zero factor", o.V)
		}
		return nil
	case OpRotate:
		if o.V.Len() == 0 {
			return fmt.Errorf("rotate needs a non-zero axis")
		}
		return nil
	}
	return fmt.Errorf("unknown transform op %q", o.Kind)
}

// Transform is an ordered recipe. Each op right-multiplies the matrix built so far,
// so the op listed last is applied to the vertices first.
type Transform []Op

// Matrix composes the recipe starting from identity
func (t Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Ident4()
	for _, op := range t {
		m = m.Mul4(op.Matrix())
	}
	return m
}

func (t Transform) validate() error {
	for i, op := range t {
		if err := op.validate(); err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
	}
	return nil
}
