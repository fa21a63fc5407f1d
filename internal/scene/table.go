package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// Placement puts one model into the main pass
type Placement struct {
	Name string `json:"name"`
	// Model is the model file, relative to the assets directory
	Model     string    `json:"model"`
	Transform Transform `json:"transform"`
	Animation string    `json:"animation,omitempty"`
	Disabled  bool      `json:"disabled,omitempty"`
}

// ModelMatrix returns the placement's model matrix at elapsed time t.
// An animation's transform is applied before the static recipe.
func (p Placement) ModelMatrix(t float64) mgl32.Mat4 {
	m := p.Transform.Matrix()
	if anim, ok := Animations[p.Animation]; ok {
		m = anim(t).Matrix().Mul4(m)
	}
	return m
}

// Floor is the normal-mapped quad drawn by the floor pass
type Floor struct {
	Transform   Transform `json:"transform"`
	Diffuse     string    `json:"diffuse"`
	Normal      string    `json:"normal"`
	Height      string    `json:"height"`
	HeightScale float32   `json:"heightScale"`
}

// Skybox names the six cubemap faces as <Dir>/<face><Ext>
type Skybox struct {
	Dir string `json:"dir"`
	Ext string `json:"ext"`
}

// Table is the whole scene description
type Table struct {
	Placements []Placement `json:"placements"`
	Floor      Floor       `json:"floor"`
	Skybox     Skybox      `json:"skybox"`
	Lights     Lights      `json:"lights"`
}

// Enabled returns the placements to draw, in table order
func (t *Table) Enabled() []Placement {
	out := make([]Placement, 0, len(t.Placements))
	for _, p := range t.Placements {
		if !p.Disabled {
			out = append(out, p)
		}
	}
	return out
}

// Models returns each distinct model file referenced by an enabled placement, in table order
func (t *Table) Models() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range t.Enabled() {
		if !seen[p.Model] {
			seen[p.Model] = true
			out = append(out, p.Model)
		}
	}
	return out
}

// Validate checks every recipe and animation reference
func (t *Table) Validate() error {
	for i, p := range t.Placements {
		if p.Model == "" {
			return fmt.Errorf("placement %d (%s): missing model", i, p.Name)
		}
		if err := p.Transform.validate(); err != nil {
			return fmt.Errorf("placement %d (%s): %w", i, p.Name, err)
		}
		if p.Animation != "" {
			if _, ok := Animations[p.Animation]; !ok {
				return fmt.Errorf("placement %d (%s): unknown animation %q", i, p.Name, p.Animation)
			}
		}
	}
	if err := t.Floor.Transform.validate(); err != nil {
		return fmt.Errorf("floor: %w", err)
	}
	if t.Lights.Animation != "" {
		if _, ok := Animations[t.Lights.Animation]; !ok {
			return fmt.Errorf("lights: unknown animation %q", t.Lights.Animation)
		}
	}
	return nil
}

// Parse decodes a table. Sections absent from data keep their built-in values;
// the placement list is replaced as a whole.
func Parse(data []byte) (*Table, error) {
	t := DefaultTable()
	t.Placements = nil
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("could not unmarshal scene json: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads a table from path. A missing file yields the built-in table.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read scene file: %w", err)
	}
	return Parse(data)
}

var lyingDown = mgl32.Vec3{-1, 0, 0}

// DefaultTable is the castle scene
func DefaultTable() *Table {
	return &Table{
		Placements: []Placement{
			{
				Name:      "castle",
				Model:     "objects/castle/Hogwarts.obj",
				Transform: Transform{Translate(0, 2, 0), Scale(0.00018)},
			},
			{
				Name:      "dobby",
				Model:     "objects/dobby/scene.gltf",
				Transform: Transform{Translate(-16, 10.25, -11), Scale(0.007), Rotate(90, lyingDown)},
				Disabled:  true,
			},
			{
				Name:      "rock",
				Model:     "objects/floating-rock/scene.gltf",
				Transform: Transform{Translate(-16, 55.25, -11), Scale(0.37), Rotate(90, lyingDown)},
			},
			{
				Name:      "quidditch",
				Model:     "objects/quidditch/quidditch.obj",
				Transform: Transform{Translate(-1.5, -10, -6), Scale(0.068), Rotate(90, lyingDown)},
			},
			{
				Name:      "golden-snitch",
				Model:     "objects/golden-snitch/scene.gltf",
				Transform: Transform{Scale(0.05)},
				Animation: "snitch-orbit",
			},
			{
				Name:      "griffin",
				Model:     "objects/griffin/scene.gltf",
				Transform: Transform{Translate(5, 2.2, 5.5), Scale(0.05), Rotate(90, lyingDown)},
			},
			{
				Name:      "phoenix",
				Model:     "objects/phoenix/scene.gltf",
				Transform: Transform{Rotate(45, lyingDown), Scale(0.0005)},
				Animation: "phoenix-circle",
				Disabled:  true,
			},
		},
		Floor: Floor{
			Transform:   Transform{Translate(0, 1.9, 0), Rotate(-90, mgl32.Vec3{1, 0, 0}), Scale(6)},
			Diffuse:     "textures/floor/bricks2.jpg",
			Normal:      "textures/floor/bricks2_normal.jpg",
			Height:      "textures/floor/bricks2_disp.jpg",
			HeightScale: 0.1,
		},
		Skybox: Skybox{Dir: "textures/skybox", Ext: ".jpg"},
		Lights: DefaultLights(),
	}
}
