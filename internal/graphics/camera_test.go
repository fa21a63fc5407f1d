package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewCameraLooksDownNegativeZ(t *testing.T) {
	c := NewCamera(mgl32.Vec3{0, 0, 3}, 800, 600)
	if c.Front.Sub(mgl32.Vec3{0, 0, -1}).Len() > 1e-5 {
		t.Errorf("front = %v, want -Z", c.Front)
	}
	if c.Right.Sub(mgl32.Vec3{1, 0, 0}).Len() > 1e-5 {
		t.Errorf("right = %v, want +X", c.Right)
	}
}

func TestSetFrontRoundTrip(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 800, 600)
	want := mgl32.Vec3{0.3, -0.4, 0.5}.Normalize()
	c.SetFront(want)
	if c.Front.Sub(want).Len() > 1e-5 {
		t.Errorf("front = %v, want %v", c.Front, want)
	}

	// orientation continues from the restored yaw, not from the default
	c.ProcessMouseMovement(0, 0, true)
	if c.Front.Sub(want).Len() > 1e-5 {
		t.Errorf("front drifted to %v after zero mouse movement", c.Front)
	}
}

func TestPitchIsConstrained(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 800, 600)
	c.ProcessMouseMovement(0, 10000, true)
	if c.Pitch != maxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, maxPitch)
	}
}

func TestScrollClampsZoom(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 800, 600)
	c.ProcessMouseScroll(100)
	if c.Zoom != minZoom {
		t.Errorf("zoom = %v, want %v", c.Zoom, minZoom)
	}
	c.ProcessMouseScroll(-100)
	if c.Zoom != maxZoom {
		t.Errorf("zoom = %v, want %v", c.Zoom, maxZoom)
	}
}

func TestProcessKeyboardMovesAlongFront(t *testing.T) {
	c := NewCamera(mgl32.Vec3{0, 0, 3}, 800, 600)
	c.ProcessKeyboard(Forward, 1)
	if c.Position.Sub(mgl32.Vec3{0, 0, 3 - defaultSpeed}).Len() > 1e-5 {
		t.Errorf("position = %v", c.Position)
	}
	c.ProcessKeyboard(Right, 1)
	if c.Position.X() <= 0 {
		t.Errorf("moving right should increase X, got %v", c.Position)
	}
}

func TestMouseLookInvertsY(t *testing.T) {
	var m MouseLook
	if dx, dy := m.Delta(400, 300); dx != 0 || dy != 0 {
		t.Fatalf("first event should not move the camera, got %v %v", dx, dy)
	}
	dx, dy := m.Delta(410, 290)
	if dx != 10 || dy != 10 {
		t.Errorf("delta = %v %v, want 10 10 (cursor up is look up)", dx, dy)
	}
	m.Reset()
	if dx, dy := m.Delta(0, 0); dx != 0 || dy != 0 {
		t.Errorf("after reset the first event should not move, got %v %v", dx, dy)
	}
}

func TestSetViewportIgnoresZeroHeight(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 800, 600)
	c.SetViewport(1000, 500)
	if c.AspectRatio != 2 {
		t.Fatalf("aspect = %v, want 2", c.AspectRatio)
	}
	// minimized windows report 0x0
	c.SetViewport(0, 0)
	if c.AspectRatio != 2 {
		t.Errorf("aspect changed to %v on a zero-height viewport", c.AspectRatio)
	}
}
