package main

import (
	"hdr-scene/internal/app"
	"hdr-scene/internal/input"
	"hdr-scene/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupInputHandlers(window *glfw.Window, ctx *app.Context, r *renderer.Renderer, im *input.InputManager) {
	im.SetKeyCallback(window)

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		ctx.OnCursor(xpos, ypos)
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		ctx.OnScroll(yoff)
	})

	// The viewport and aspect follow the window; the offscreen targets keep their size
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		r.SetViewport(fbWidth, fbHeight)
		ctx.Camera.SetViewport(fbWidth, fbHeight)
	})
}

// applyCursorMode captures the cursor for mouse-look and frees it while the overlay is up
func applyCursorMode(window *glfw.Window, ctx *app.Context) {
	if ctx.MouseLook() {
		window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}
