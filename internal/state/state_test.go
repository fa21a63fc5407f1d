package state

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRoundTrip(t *testing.T) {
	want := State{
		ClearColor:     mgl32.Vec3{0.1, 0.2, 0.3},
		OverlayVisible: true,
		CameraPosition: mgl32.Vec3{-16, 55.25, -11},
		CameraFront:    mgl32.Vec3{0.6, -0.8, 0},
	}
	var buf bytes.Buffer
	if err := want.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != valueCount {
		t.Errorf("expected one value per line, got %d lines", lines)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestReadFileFormat(t *testing.T) {
	src := "0.5\n0.25\n0\n1\n1\n2\n3\n0\n0\n-1\n"
	s, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if s.ClearColor != (mgl32.Vec3{0.5, 0.25, 0}) || !s.OverlayVisible {
		t.Errorf("state = %+v", s)
	}
	if s.CameraPosition != (mgl32.Vec3{1, 2, 3}) || s.CameraFront != (mgl32.Vec3{0, 0, -1}) {
		t.Errorf("camera = %v %v", s.CameraPosition, s.CameraFront)
	}
}

func TestReadRejectsNonFinite(t *testing.T) {
	for _, src := range []string{
		"0\n0\n0\n0\nNaN\n0\n3\nNaN\n0\n-1\n",
		"0\n0\n0\n0\n0\n0\n3\n0\n0\n-Inf\n",
		"Inf\n0\n0\n0\n0\n0\n3\n0\n0\n-1\n",
	} {
		if _, err := Read(strings.NewReader(src)); !errors.Is(err, ErrNotFinite) {
			t.Errorf("Read(%q) err = %v, want ErrNotFinite", src, err)
		}
	}
}

func TestLoadFallsBackSilently(t *testing.T) {
	dir := t.TempDir()
	if s := Load(filepath.Join(dir, "missing.txt")); s != Default() {
		t.Errorf("missing file: %+v", s)
	}

	for name, content := range map[string]string{
		"truncated": "0.1\n0.2\n0.3\n",
		"garbage":   "0.1\nred\n0.3\n0\n0\n0\n0\n0\n0\n-1\n",
		"empty":     "",
		"nan":       "0\n0\n0\n0\nNaN\n0\n3\nNaN\n0\n-1\n",
		"inf":       "0\n0\n0\n0\n0\n0\n3\n0\n+Inf\n-1\n",
	} {
		path := filepath.Join(dir, name+".txt")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		if s := Load(path); s != Default() {
			t.Errorf("%s: got %+v, want defaults", name, s)
		}
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "program_state.txt")
	want := Default()
	want.ClearColor = mgl32.Vec3{1, 0, 0}
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := Load(path); got != want {
		t.Errorf("load = %+v, want %+v", got, want)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind")
	}
}

func TestSaveIntoMissingDir(t *testing.T) {
	if err := Save(filepath.Join(t.TempDir(), "no", "such", "dir", "s.txt"), Default()); err == nil {
		t.Error("expected error")
	}
}
