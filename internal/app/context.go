// Package app holds the per-process rendering context: toggles, camera,
// clock and persisted state, passed explicitly to the frame loop and renderer.
package app

import (
	"hdr-scene/internal/bloom"
	"hdr-scene/internal/config"
	"hdr-scene/internal/graphics"
	"hdr-scene/internal/input"
	"hdr-scene/internal/scene"
	"hdr-scene/internal/state"

	"github.com/go-gl/mathgl/mgl32"
)

// Features are the runtime toggles
type Features struct {
	Blinn    bool
	Bloom    bool
	HDR      bool
	Gamma    bool
	Exposure float32
}

// DefaultFeatures starts with every effect on
func DefaultFeatures(exposure float32) Features {
	return Features{Blinn: true, Bloom: true, HDR: true, Gamma: true, Exposure: max(exposure, 0)}
}

// AdjustExposure changes exposure by delta, never going below zero
func (f *Features) AdjustExposure(delta float32) {
	f.Exposure = max(f.Exposure+delta, 0)
}

// Composite returns the settings the composite pass reads
func (f Features) Composite() bloom.Settings {
	return bloom.Settings{Bloom: f.Bloom, HDR: f.HDR, Gamma: f.Gamma, Exposure: f.Exposure}
}

// Clock tracks frame timing
type Clock struct {
	started bool
	start   float64
	last    float64

	// Elapsed is seconds since the first tick
	Elapsed float64
	// Delta is seconds since the previous tick
	Delta float32

	FPS        int
	frames     int
	fpsCounted float64
}

// Tick advances the clock to now (seconds on any monotonic scale)
func (c *Clock) Tick(now float64) {
	if !c.started {
		c.started = true
		c.start, c.last, c.fpsCounted = now, now, now
	}
	c.Delta = float32(now - c.last)
	c.last = now
	c.Elapsed = now - c.start

	c.frames++
	if now-c.fpsCounted >= 1 {
		c.FPS = c.frames
		c.frames = 0
		c.fpsCounted = now
	}
}

// Events reports what a frame's input asked of the window layer
type Events struct {
	Quit           bool
	OverlayToggled bool
	Screenshot     bool
}

// Context is everything the frame loop mutates
type Context struct {
	Settings config.Settings
	State    state.State
	Scene    *scene.Table
	Camera   *graphics.Camera
	Mouse    graphics.MouseLook
	Features Features
	Clock    Clock
}

// New builds a context from startup settings, a restored state and the scene table
func New(settings config.Settings, st state.State, table *scene.Table) *Context {
	cam := graphics.NewCamera(st.CameraPosition, settings.Width, settings.Height)
	cam.SetFront(st.CameraFront)
	cam.MovementSpeed = settings.CameraSpeed
	cam.MouseSensitivity = settings.MouseSensitivity
	return &Context{
		Settings: settings,
		State:    st,
		Scene:    table,
		Camera:   cam,
		Features: DefaultFeatures(settings.Exposure),
	}
}

// MouseLook reports whether cursor movement turns the camera; the overlay frees the cursor
func (c *Context) MouseLook() bool {
	return !c.State.OverlayVisible
}

// Update applies one frame of input
func (c *Context) Update(in input.ActionState, dt float32) Events {
	var ev Events
	if in.JustPressed(input.ActionQuit) {
		ev.Quit = true
	}

	for action, dir := range map[input.Action]graphics.Direction{
		input.ActionMoveForward:  graphics.Forward,
		input.ActionMoveBackward: graphics.Backward,
		input.ActionMoveLeft:     graphics.Left,
		input.ActionMoveRight:    graphics.Right,
	} {
		if in.IsActive(action) {
			c.Camera.ProcessKeyboard(dir, dt)
		}
	}

	toggles := []struct {
		action input.Action
		flag   *bool
	}{
		{input.ActionToggleBlinn, &c.Features.Blinn},
		{input.ActionToggleBloom, &c.Features.Bloom},
		{input.ActionToggleHDR, &c.Features.HDR},
		{input.ActionToggleGamma, &c.Features.Gamma},
		{input.ActionToggleOverlay, &c.State.OverlayVisible},
	}
	for _, t := range toggles {
		if in.JustPressed(t.action) {
			*t.flag = !*t.flag
		}
	}
	if in.JustPressed(input.ActionToggleOverlay) {
		ev.OverlayToggled = true
		c.Mouse.Reset()
	}

	step := c.Settings.ExposureStep * dt
	if in.IsActive(input.ActionExposureDown) {
		c.Features.AdjustExposure(-step)
	}
	if in.IsActive(input.ActionExposureUp) {
		c.Features.AdjustExposure(step)
	}

	if in.JustPressed(input.ActionScreenshot) {
		ev.Screenshot = true
	}
	return ev
}

// OnCursor turns the camera while mouse-look is active
func (c *Context) OnCursor(x, y float64) {
	if !c.MouseLook() {
		return
	}
	dx, dy := c.Mouse.Delta(x, y)
	c.Camera.ProcessMouseMovement(dx, dy, true)
}

// OnScroll zooms the camera
func (c *Context) OnScroll(yOffset float64) {
	c.Camera.ProcessMouseScroll(float32(yOffset))
}

// ClearColor returns the default framebuffer clear color
func (c *Context) ClearColor() mgl32.Vec3 {
	return c.State.ClearColor
}

// Snapshot returns the state to persist, with the camera where it is now
func (c *Context) Snapshot() state.State {
	st := c.State
	st.CameraPosition = c.Camera.Position
	st.CameraFront = c.Camera.Front
	return st
}
