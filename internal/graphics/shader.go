package graphics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"hdr-scene/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrMissingUniform is returned when a declared uniform isn't active in the linked program
var ErrMissingUniform = errors.New("uniform not active")

// UniformType is the GLSL type a uniform is declared with
type UniformType uint8

const (
	Int UniformType = iota // int and sampler uniforms
	Bool
	Float
	Vec3
	Mat4
)

func (t UniformType) String() string {
	switch t {
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Float:
		return "float"
	case Vec3:
		return "vec3"
	case Mat4:
		return "mat4"
	}
	return "?"
}

// Uniform declares one uniform a program exposes.
// Optional uniforms may be compiled out by the driver without failing the load.
type Uniform struct {
	Name     string
	Type     UniformType
	Optional bool
}

type uniformSlot struct {
	location int32
	typ      UniformType
}

// Program is a linked shader program with its uniforms resolved once at load time
type Program struct {
	Name     string
	ID       uint32
	dev      gpu.Device
	uniforms map[string]uniformSlot
}

// LoadProgram reads <dir>/<name>.vert and <dir>/<name>.frag and links them
func LoadProgram(dev gpu.Device, dir, name string, uniforms []Uniform) (*Program, error) {
	vertexSource, err := os.ReadFile(filepath.Join(dir, name+".vert"))
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader file: %w", err)
	}
	fragmentSource, err := os.ReadFile(filepath.Join(dir, name+".frag"))
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader file: %w", err)
	}
	return NewProgram(dev, name, string(vertexSource), string(fragmentSource), uniforms)
}

// NewProgram compiles and links the sources and resolves every declared uniform
func NewProgram(dev gpu.Device, name, vertexSrc, fragmentSrc string, uniforms []Uniform) (*Program, error) {
	id, err := dev.NewProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}

	p := &Program{Name: name, ID: id, dev: dev, uniforms: make(map[string]uniformSlot, len(uniforms))}
	for _, u := range uniforms {
		loc := dev.UniformLocation(id, u.Name)
		if loc < 0 && !u.Optional {
			dev.DeleteProgram(id)
			return nil, fmt.Errorf("program %s: %w: %s %s", name, ErrMissingUniform, u.Type, u.Name)
		}
		p.uniforms[u.Name] = uniformSlot{location: loc, typ: u.Type}
	}
	return p, nil
}

// Use activates the program
func (p *Program) Use() {
	p.dev.UseProgram(p.ID)
}

// Has reports whether the program declares the named uniform
func (p *Program) Has(name string) bool {
	_, ok := p.uniforms[name]
	return ok
}

// location panics on undeclared names and type mismatches: both are programming errors
// that would otherwise become a silent no-op upload.
func (p *Program) location(name string, typ UniformType) int32 {
	slot, ok := p.uniforms[name]
	if !ok {
		panic(fmt.Sprintf("program %s: uniform %q not declared", p.Name, name))
	}
	if slot.typ != typ {
		panic(fmt.Sprintf("program %s: uniform %q is %s, set as %s", p.Name, name, slot.typ, typ))
	}
	return slot.location
}

// SetInt sets an int or sampler uniform
func (p *Program) SetInt(name string, value int32) {
	if loc := p.location(name, Int); loc >= 0 {
		p.dev.Uniform1i(loc, value)
	}
}

// SetBool sets a boolean uniform
func (p *Program) SetBool(name string, value bool) {
	var intValue int32
	if value {
		intValue = 1
	}
	if loc := p.location(name, Bool); loc >= 0 {
		p.dev.Uniform1i(loc, intValue)
	}
}

// SetFloat sets a float uniform
func (p *Program) SetFloat(name string, value float32) {
	if loc := p.location(name, Float); loc >= 0 {
		p.dev.Uniform1f(loc, value)
	}
}

// SetVec3 sets a vec3 uniform
func (p *Program) SetVec3(name string, value mgl32.Vec3) {
	if loc := p.location(name, Vec3); loc >= 0 {
		p.dev.Uniform3f(loc, value)
	}
}

// SetMat4 sets a mat4 uniform
func (p *Program) SetMat4(name string, value mgl32.Mat4) {
	if loc := p.location(name, Mat4); loc >= 0 {
		p.dev.UniformMatrix4(loc, value)
	}
}

// Delete frees the GL program
func (p *Program) Delete() {
	p.dev.DeleteProgram(p.ID)
}
