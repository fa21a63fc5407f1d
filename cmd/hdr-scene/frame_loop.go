package main

import (
	"log"
	"time"

	"hdr-scene/internal/app"
	"hdr-scene/internal/input"
	"hdr-scene/internal/profiling"
	"hdr-scene/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// FrameLoop drives input, rendering and presentation until the window closes
type FrameLoop struct {
	window       *glfw.Window
	ctx          *app.Context
	renderer     *renderer.Renderer
	inputManager *input.InputManager
	prof         *profiling.Frame
	saver        *stateSaver
}

// NewFrameLoop wires the loop to its collaborators
func NewFrameLoop(window *glfw.Window, ctx *app.Context, r *renderer.Renderer, im *input.InputManager, prof *profiling.Frame, saver *stateSaver) *FrameLoop {
	return &FrameLoop{
		window:       window,
		ctx:          ctx,
		renderer:     r,
		inputManager: im,
		prof:         prof,
		saver:        saver,
	}
}

// Run ticks until the window is asked to close
func (l *FrameLoop) Run() {
	for !l.window.ShouldClose() {
		l.tick()
	}
}

func (l *FrameLoop) tick() {
	l.ctx.Clock.Tick(glfw.GetTime())
	glfw.PollEvents()

	ev := l.ctx.Update(l.inputManager, l.ctx.Clock.Delta)
	if ev.Quit {
		l.window.SetShouldClose(true)
	}
	if ev.OverlayToggled {
		applyCursorMode(l.window, l.ctx)
	}

	f := renderer.NewFrame(l.ctx)
	if l.ctx.State.OverlayVisible {
		// timings are the previous frame's
		f.Overlay = renderer.OverlayLines(l.ctx, l.prof)
	}
	l.prof.ResetFrame()
	l.renderer.Render(f)

	if ev.Screenshot {
		path, err := l.renderer.Screenshot(l.ctx.Settings.ScreenshotDir, time.Now())
		if err != nil {
			log.Printf("screenshot: %v", err)
		} else {
			log.Printf("screenshot saved to %s", path)
		}
	}

	l.saver.update(l.ctx.Snapshot())
	l.window.SwapBuffers()

	// Clear edge flags at end of frame
	l.inputManager.PostUpdate()
}
