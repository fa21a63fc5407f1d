package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestHeldKeyPressesOnce(t *testing.T) {
	im := NewInputManager()
	presses := 0

	frame := func(events ...glfw.Action) {
		for _, e := range events {
			im.HandleKeyEvent(glfw.KeySpace, e)
		}
		if im.JustPressed(ActionToggleBloom) {
			presses++
		}
		im.PostUpdate()
	}

	frame(glfw.Press)
	for i := 0; i < 30; i++ {
		frame(glfw.Repeat)
		if !im.IsActive(ActionToggleBloom) {
			t.Fatalf("frame %d: key should still be held", i)
		}
	}
	frame()
	if presses != 1 {
		t.Fatalf("held key toggled %d times, want 1", presses)
	}

	frame(glfw.Release)
	if im.IsActive(ActionToggleBloom) {
		t.Errorf("released key still active")
	}
	frame(glfw.Press)
	if presses != 2 {
		t.Errorf("second press should toggle again, presses=%d", presses)
	}
}

func TestPressAndReleaseWithinOneFrame(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyB, glfw.Press)
	im.HandleKeyEvent(glfw.KeyB, glfw.Release)
	if !im.JustPressed(ActionToggleBlinn) || !im.JustReleased(ActionToggleBlinn) {
		t.Errorf("a tap inside one frame must still register")
	}
	if im.IsActive(ActionToggleBlinn) {
		t.Errorf("tapped key should not be held")
	}
}

func TestDefaultBindings(t *testing.T) {
	im := NewInputManager()
	for key, action := range map[glfw.Key]Action{
		glfw.KeyW:      ActionMoveForward,
		glfw.KeyEscape: ActionQuit,
		glfw.KeyH:      ActionToggleHDR,
		glfw.KeyG:      ActionToggleGamma,
		glfw.KeyQ:      ActionExposureDown,
		glfw.KeyE:      ActionExposureUp,
		glfw.KeyF1:     ActionToggleOverlay,
		glfw.KeyF12:    ActionScreenshot,
	} {
		im.HandleKeyEvent(key, glfw.Press)
		if !im.IsActive(action) {
			t.Errorf("key %v should drive action %v", key, action)
		}
	}
}

func TestBindAndUnbind(t *testing.T) {
	im := NewInputManager()
	im.BindKey(glfw.KeyUp, ActionMoveForward)
	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	if !im.IsActive(ActionMoveForward) {
		t.Fatalf("extra binding ignored")
	}
	im.HandleKeyEvent(glfw.KeyUp, glfw.Release)

	im.UnbindKey(glfw.KeyUp)
	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	if im.IsActive(ActionMoveForward) {
		t.Errorf("unbound key still drives the action")
	}
	if im.IsActive(ActionCount) || im.JustPressed(-1) {
		t.Errorf("out of range actions must read false")
	}
}

func TestActionNames(t *testing.T) {
	if got := ActionToggleBloom.String(); got != "toggle-bloom" {
		t.Errorf("name = %q", got)
	}
	if got := ActionCount.String(); got != "unknown" {
		t.Errorf("sentinel name = %q", got)
	}
	for key, action := range DefaultBindings {
		if action.String() == "unknown" {
			t.Errorf("key %v bound to invalid action %d", key, action)
		}
	}
}
