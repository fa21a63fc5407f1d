// Package input turns glfw key events into logical actions with press-edge detection.
package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionQuit
	ActionToggleBlinn
	ActionToggleBloom
	ActionToggleHDR
	ActionToggleGamma
	ActionExposureDown
	ActionExposureUp
	ActionToggleOverlay
	ActionScreenshot
	ActionCount // Sentinel value for array sizing
)

var actionNames = [ActionCount]string{
	"move-forward", "move-backward", "move-left", "move-right", "quit",
	"toggle-blinn", "toggle-bloom", "toggle-hdr", "toggle-gamma",
	"exposure-down", "exposure-up", "toggle-overlay", "screenshot",
}

func (a Action) String() string {
	if !a.valid() {
		return "unknown"
	}
	return actionNames[a]
}

func (a Action) valid() bool { return a >= 0 && a < ActionCount }

// DefaultBindings is the keyboard layout NewInputManager starts with
var DefaultBindings = map[glfw.Key]Action{
	glfw.KeyW:      ActionMoveForward,
	glfw.KeyS:      ActionMoveBackward,
	glfw.KeyA:      ActionMoveLeft,
	glfw.KeyD:      ActionMoveRight,
	glfw.KeyEscape: ActionQuit,
	glfw.KeyB:      ActionToggleBlinn,
	glfw.KeySpace:  ActionToggleBloom,
	glfw.KeyH:      ActionToggleHDR,
	glfw.KeyG:      ActionToggleGamma,
	glfw.KeyQ:      ActionExposureDown,
	glfw.KeyE:      ActionExposureUp,
	glfw.KeyF1:     ActionToggleOverlay,
	glfw.KeyF12:    ActionScreenshot,
}

// ActionState is what frame logic reads from the input layer
type ActionState interface {
	IsActive(action Action) bool
	JustPressed(action Action) bool
}

// actionState is one action's level and the edges seen since the last PostUpdate
type actionState struct {
	down     bool
	pressed  bool
	released bool
}

// InputManager maps physical keys to logical actions and detects press edges.
// Every toggle shares the same edge detection: holding a key toggles once.
type InputManager struct {
	mu       sync.Mutex
	bindings map[glfw.Key][]Action
	actions  [ActionCount]actionState
}

// NewInputManager creates an InputManager with DefaultBindings
func NewInputManager() *InputManager {
	im := &InputManager{bindings: make(map[glfw.Key][]Action, len(DefaultBindings))}
	for key, action := range DefaultBindings {
		im.BindKey(key, action)
	}
	return im
}

// BindKey adds an action to a key; a key may drive several actions and an action several keys
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	if !action.valid() {
		return
	}
	im.mu.Lock()
	im.bindings[key] = append(im.bindings[key], action)
	im.mu.Unlock()
}

// UnbindKey removes all action bindings for a key
func (im *InputManager) UnbindKey(key glfw.Key) {
	im.mu.Lock()
	delete(im.bindings, key)
	im.mu.Unlock()
}

// HandleKeyEvent records a key event. Edges are latched until PostUpdate,
// so a press and release inside one frame still reads as a press.
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	// key repeat keeps the key down; it is not a new press
	down := action == glfw.Press || action == glfw.Repeat

	im.mu.Lock()
	defer im.mu.Unlock()
	for _, a := range im.bindings[key] {
		s := &im.actions[a]
		if down && !s.down {
			s.pressed = true
		}
		if !down && s.down {
			s.released = true
		}
		s.down = down
	}
}

// SetKeyCallback routes the window's key events into the manager
func (im *InputManager) SetKeyCallback(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})
}

// PostUpdate clears the edges; call it once at the end of every frame
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	for i := range im.actions {
		im.actions[i].pressed = false
		im.actions[i].released = false
	}
	im.mu.Unlock()
}

func (im *InputManager) state(action Action) actionState {
	if !action.valid() {
		return actionState{}
	}
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.actions[action]
}

// IsActive reports whether the action's key is held
func (im *InputManager) IsActive(action Action) bool {
	return im.state(action).down
}

// JustPressed reports whether the action was pressed during the current frame
func (im *InputManager) JustPressed(action Action) bool {
	return im.state(action).pressed
}

// JustReleased reports whether the action was released during the current frame
func (im *InputManager) JustReleased(action Action) bool {
	return im.state(action).released
}
