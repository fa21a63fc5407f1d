package graphics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"hdr-scene/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
)

var testUniforms = []Uniform{
	{Name: "model", Type: Mat4},
	{Name: "exposure", Type: Float},
	{Name: "bloom", Type: Bool},
	{Name: "tint", Type: Vec3, Optional: true},
}

func TestProgramUploadsDeclaredUniforms(t *testing.T) {
	rec := gputest.NewRecorder()
	p, err := NewProgram(rec, "test", "vs", "fs", testUniforms)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	p.Use()
	p.SetFloat("exposure", 1.5)
	p.SetBool("bloom", true)
	p.SetMat4("model", mgl32.Ident4())

	if v, _ := rec.Uniform(p.ID, "exposure"); v != float32(1.5) {
		t.Errorf("exposure = %v, want 1.5", v)
	}
	if v, _ := rec.Uniform(p.ID, "bloom"); v != int32(1) {
		t.Errorf("bloom = %v, want 1", v)
	}
	if v, _ := rec.Uniform(p.ID, "model"); v != mgl32.Ident4() {
		t.Errorf("model = %v, want identity", v)
	}
}

func TestProgramFailsOnMissingRequiredUniform(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.MissingUniforms["exposure"] = true

	_, err := NewProgram(rec, "test", "vs", "fs", testUniforms)
	if !errors.Is(err, ErrMissingUniform) {
		t.Fatalf("expected ErrMissingUniform, got %v", err)
	}
	if rec.Count("DeleteProgram") != 1 {
		t.Errorf("rejected program should be deleted")
	}
}

func TestProgramSkipsMissingOptionalUniform(t *testing.T) {
	rec := gputest.NewRecorder()
	rec.MissingUniforms["tint"] = true

	p, err := NewProgram(rec, "test", "vs", "fs", testUniforms)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	p.Use()
	p.SetVec3("tint", mgl32.Vec3{1, 0, 0})
	if rec.Count("Uniform ") != 0 {
		t.Errorf("optional missing uniform should not be uploaded, calls: %v", rec.Calls)
	}
}

func TestProgramPanicsOnUndeclaredOrMistypedUniform(t *testing.T) {
	rec := gputest.NewRecorder()
	p, err := NewProgram(rec, "test", "vs", "fs", testUniforms)
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}

	cases := map[string]func(){
		"typo":      func() { p.SetFloat("exposre", 1) },
		"wrongType": func() { p.SetInt("exposure", 1) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestLoadProgramReadsShaderPair(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "blur.vert"), []byte("void main(){}"), 0o644); err != nil {
		t.Fatal(err)
	}
	rec := gputest.NewRecorder()
	if _, err := LoadProgram(rec, dir, "blur", nil); err == nil {
		t.Fatalf("expected error for missing fragment shader")
	}

	if err := os.WriteFile(filepath.Join(dir, "blur.frag"), []byte("void main(){}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProgram(rec, dir, "blur", nil); err != nil {
		t.Fatalf("LoadProgram: %v", err)
	}
}
