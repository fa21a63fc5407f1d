// Package renderer sequences the render passes of a frame: the HDR scene passes,
// the bloom blur, the tone-mapping composite and the text overlay.
package renderer

import (
	"hdr-scene/internal/app"
	"hdr-scene/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// Draw is one placement resolved for this frame
type Draw struct {
	Name   string
	Model  string
	Matrix mgl32.Mat4
}

// Frame provides the values every pass shares. It is built once per frame so
// the matrices and the animated light are never recomputed between passes.
type Frame struct {
	View       mgl32.Mat4
	Projection mgl32.Mat4
	// SkyView is View with its translation removed
	SkyView      mgl32.Mat4
	ViewPosition mgl32.Vec3

	Lights      scene.Lights
	Draws       []Draw
	Floor       mgl32.Mat4
	HeightScale float32

	Features   app.Features
	ClearColor mgl32.Vec3

	// Overlay lists the text lines to draw; nil hides the overlay
	Overlay []string
}

// NewFrame resolves the context at its current elapsed time
func NewFrame(ctx *app.Context) *Frame {
	t := ctx.Clock.Elapsed
	view := ctx.Camera.ViewMatrix()
	f := &Frame{
		View:         view,
		Projection:   ctx.Camera.ProjectionMatrix(),
		SkyView:      view.Mat3().Mat4(),
		ViewPosition: ctx.Camera.Position,
		Lights:       ctx.Scene.Lights.At(t),
		Floor:        ctx.Scene.Floor.Transform.Matrix(),
		HeightScale:  ctx.Scene.Floor.HeightScale,
		Features:     ctx.Features,
		ClearColor:   ctx.ClearColor(),
	}
	for _, p := range ctx.Scene.Enabled() {
		f.Draws = append(f.Draws, Draw{Name: p.Name, Model: p.Model, Matrix: p.ModelMatrix(t)})
	}
	return f
}

// Pass is one stage of the frame. Passes run in the order they were given to New.
type Pass interface {
	Name() string
	Init() error
	Render(f *Frame)
	Dispose()
}
