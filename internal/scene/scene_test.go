package scene

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// near compares with an absolute tolerance; cos(90°) is not exactly zero in float32
func near(got, want []float32) bool {
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > 1e-5 {
			return false
		}
	}
	return true
}

func griffin() Transform {
	return Transform{Translate(5, 2.2, 5.5), Scale(0.05), Rotate(90, mgl32.Vec3{-1, 0, 0})}
}

func TestTransformComposesInListedOrder(t *testing.T) {
	want := mgl32.Ident4().
		Mul4(mgl32.Translate3D(5, 2.2, 5.5)).
		Mul4(mgl32.Scale3D(0.05, 0.05, 0.05)).
		Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(90), mgl32.Vec3{-1, 0, 0}))
	got := griffin().Matrix()
	if !near(got[:], want[:]) {
		t.Fatalf("griffin matrix\n%v\nwant\n%v", got, want)
	}

	// the model's +Z axis ends up pointing along world +Y: it stands up
	up := got.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	if !near(up[:], []float32{0, 0.05, 0}) {
		t.Errorf("+Z maps to %v", up)
	}
	if origin := got.Col(3).Vec3(); !near(origin[:], []float32{5, 2.2, 5.5}) {
		t.Errorf("origin maps to %v", origin)
	}
}

func TestTransformOrderMatters(t *testing.T) {
	base := griffin().Matrix()

	// a uniform scale commutes with a rotation, so that swap alone leaves the matrix as is
	rotateFirst := Transform{Translate(5, 2.2, 5.5), Rotate(90, mgl32.Vec3{-1, 0, 0}), Scale(0.05)}.Matrix()
	if !near(rotateFirst[:], base[:]) {
		t.Errorf("uniform scale and rotate should commute")
	}

	cases := map[string]Transform{
		"scale before translate":  {Scale(0.05), Translate(5, 2.2, 5.5), Rotate(90, mgl32.Vec3{-1, 0, 0})},
		"rotate before translate": {Rotate(90, mgl32.Vec3{-1, 0, 0}), Translate(5, 2.2, 5.5), Scale(0.05)},
		"non-uniform scale and rotate swapped": {
			Translate(5, 2.2, 5.5), Rotate(90, mgl32.Vec3{-1, 0, 0}), {Kind: OpScale, V: mgl32.Vec3{0.05, 0.1, 0.2}},
		},
	}
	nonUniform := Transform{Translate(5, 2.2, 5.5), {Kind: OpScale, V: mgl32.Vec3{0.05, 0.1, 0.2}}, Rotate(90, mgl32.Vec3{-1, 0, 0})}.Matrix()
	for name, tr := range cases {
		ref := base
		if strings.HasPrefix(name, "non-uniform") {
			ref = nonUniform
		}
		m := tr.Matrix()
		if near(m[:], ref[:]) {
			t.Errorf("%s: matrix unchanged", name)
		}
	}
}

func TestAnimatedPlacement(t *testing.T) {
	p := Placement{Model: "snitch.gltf", Transform: Transform{Scale(0.05)}, Animation: "snitch-orbit"}

	m := p.ModelMatrix(0)
	if pos := m.Col(3).Vec3(); !near(pos[:], []float32{0, -7, -9.5}) {
		t.Errorf("t=0 position = %v", pos)
	}
	if m.At(0, 0) != 0.05 {
		t.Errorf("scale lost under animation: %v", m.At(0, 0))
	}

	pos := p.ModelMatrix(math.Pi / 4).Col(3).Vec3()
	if !near(pos[:], []float32{2.5, -8 + float32(math.Sqrt2/2), -7}) {
		t.Errorf("t=π/4 position = %v", pos)
	}

	static := Placement{Model: "x", Transform: griffin()}
	if static.ModelMatrix(0) != static.ModelMatrix(12.5) {
		t.Errorf("a placement without animation must not move")
	}
}

func TestLightOrbit(t *testing.T) {
	l := DefaultLights()
	if got := l.At(3).Point.Position; got != (mgl32.Vec3{4, 4, 4}) {
		t.Errorf("static light moved to %v", got)
	}
	l.Animation = "light-orbit"
	got := l.At(math.Pi / 2).Point.Position
	if !near(got[:], []float32{4, 4, -4}) {
		t.Errorf("orbit position = %v, want (4, 4, -4)", got)
	}
	if l.Point.Position != (mgl32.Vec3{4, 4, 4}) {
		t.Errorf("At must not mutate the receiver")
	}
}

func TestDefaultTable(t *testing.T) {
	tbl := DefaultTable()
	if err := tbl.Validate(); err != nil {
		t.Fatalf("default table invalid: %v", err)
	}
	var names []string
	for _, p := range tbl.Enabled() {
		names = append(names, p.Name)
	}
	if got := strings.Join(names, ","); got != "castle,rock,quidditch,golden-snitch,griffin" {
		t.Errorf("enabled placements = %s", got)
	}
	if len(tbl.Models()) != 5 {
		t.Errorf("models = %v", tbl.Models())
	}
}

func TestParse(t *testing.T) {
	tbl, err := Parse([]byte(`{
		"placements": [
			{"name": "g", "model": "griffin.gltf", "transform": [
				{"op": "translate", "v": [5, 2.2, 5.5]},
				{"op": "scale", "v": [0.05, 0.05, 0.05]},
				{"op": "rotate", "angle": 90, "v": [-1, 0, 0]}
			]},
			{"name": "s", "model": "snitch.gltf", "animation": "snitch-orbit"}
		]
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tbl.Placements) != 2 {
		t.Fatalf("placements = %d, want 2", len(tbl.Placements))
	}
	parsed, literal := tbl.Placements[0].Transform.Matrix(), griffin().Matrix()
	if !near(parsed[:], literal[:]) {
		t.Errorf("parsed recipe differs from the literal one")
	}
	if tbl.Floor.Diffuse != DefaultTable().Floor.Diffuse {
		t.Errorf("absent floor section should keep defaults")
	}
}

func TestParseRejects(t *testing.T) {
	for name, src := range map[string]string{
		"unknown op":        `{"placements":[{"model":"a","transform":[{"op":"shear"}]}]}`,
		"zero axis":         `{"placements":[{"model":"a","transform":[{"op":"rotate","angle":10}]}]}`,
		"zero scale":        `{"placements":[{"model":"a","transform":[{"op":"scale","v":[1,0,1]}]}]}`,
		"zero floor scale":  `{"floor":{"transform":[{"op":"scale"}]}}`,
		"unknown animation": `{"placements":[{"model":"a","animation":"spin"}]}`,
		"missing model":     `{"placements":[{"name":"a"}]}`,
		"bad json":          `{"placements":`,
	} {
		if _, err := Parse([]byte(src)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	tbl, err := Load(filepath.Join(dir, "missing.json"))
	if err != nil {
		t.Fatalf("missing file should fall back, got %v", err)
	}
	if len(tbl.Placements) != len(DefaultTable().Placements) {
		t.Errorf("expected built-in table")
	}

	path := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(path, []byte(`{"placements":[{"model":"m.obj"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err = Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tbl.Placements) != 1 || tbl.Placements[0].Model != "m.obj" {
		t.Errorf("placements = %+v", tbl.Placements)
	}
}

func TestShippedSceneMatchesBuiltIn(t *testing.T) {
	shipped, err := Load(filepath.Join("..", "..", "assets", "scene.json"))
	if err != nil {
		t.Fatalf("load shipped scene: %v", err)
	}
	builtIn := DefaultTable()
	if len(shipped.Placements) != len(builtIn.Placements) {
		t.Fatalf("placements = %d, want %d", len(shipped.Placements), len(builtIn.Placements))
	}
	for i, p := range shipped.Placements {
		want := builtIn.Placements[i]
		if p.Name != want.Name || p.Model != want.Model || p.Disabled != want.Disabled || p.Animation != want.Animation {
			t.Errorf("placement %d = %+v, want %+v", i, p, want)
		}
		got, exp := p.Transform.Matrix(), want.Transform.Matrix()
		if !near(got[:], exp[:]) {
			t.Errorf("%s: transform differs from the built-in recipe", p.Name)
		}
	}
	if shipped.Lights != builtIn.Lights {
		t.Errorf("lights = %+v, want %+v", shipped.Lights, builtIn.Lights)
	}
}
