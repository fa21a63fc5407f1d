package main

import (
	"path/filepath"
	"testing"

	"hdr-scene/internal/state"

	"github.com/go-gl/mathgl/mgl32"
)

func TestStateSaverWritesLatestSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program_state.txt")
	s := newStateSaver(path, state.Default())

	st := state.Default()
	st.CameraPosition = mgl32.Vec3{1, 2, 3}
	st.OverlayVisible = true
	s.update(st)
	s.save()

	got := state.Load(path)
	if got != st {
		t.Errorf("saved %+v, want %+v", got, st)
	}
}
