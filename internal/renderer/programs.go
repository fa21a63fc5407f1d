package renderer

import (
	"fmt"

	"hdr-scene/internal/bloom"
	"hdr-scene/internal/gpu"
	"hdr-scene/internal/graphics"
)

// LightingUniforms are the uniforms of the forward lighting program
var LightingUniforms = []graphics.Uniform{
	{Name: "projection", Type: graphics.Mat4},
	{Name: "view", Type: graphics.Mat4},
	{Name: "model", Type: graphics.Mat4},
	{Name: "viewPosition", Type: graphics.Vec3},
	{Name: "blinn", Type: graphics.Bool},

	{Name: "pointLight.position", Type: graphics.Vec3},
	{Name: "pointLight.ambient", Type: graphics.Vec3},
	{Name: "pointLight.diffuse", Type: graphics.Vec3},
	{Name: "pointLight.specular", Type: graphics.Vec3},
	{Name: "pointLight.constant", Type: graphics.Float},
	{Name: "pointLight.linear", Type: graphics.Float},
	{Name: "pointLight.quadratic", Type: graphics.Float},

	{Name: "dirLight.direction", Type: graphics.Vec3},
	{Name: "dirLight.ambient", Type: graphics.Vec3},
	{Name: "dirLight.diffuse", Type: graphics.Vec3},
	{Name: "dirLight.specular", Type: graphics.Vec3},

	{Name: "material.shininess", Type: graphics.Float},
	{Name: "material.texture_diffuse1", Type: graphics.Int},
	// compiled out when the shader doesn't sample specular maps
	{Name: "material.texture_specular1", Type: graphics.Int, Optional: true},
}

// LightCubeUniforms are the uniforms of the flat-color marker program
var LightCubeUniforms = []graphics.Uniform{
	{Name: "projection", Type: graphics.Mat4},
	{Name: "view", Type: graphics.Mat4},
	{Name: "model", Type: graphics.Mat4},
	{Name: "lightColor", Type: graphics.Vec3},
}

// FloorUniforms are the uniforms of the parallax-mapped floor program
var FloorUniforms = []graphics.Uniform{
	{Name: "projection", Type: graphics.Mat4},
	{Name: "view", Type: graphics.Mat4},
	{Name: "model", Type: graphics.Mat4},
	{Name: "viewPos", Type: graphics.Vec3},
	{Name: "lightPos", Type: graphics.Vec3},
	{Name: "heightScale", Type: graphics.Float},
	{Name: "diffuseMap", Type: graphics.Int},
	{Name: "normalMap", Type: graphics.Int},
	{Name: "depthMap", Type: graphics.Int},
}

// SkyboxUniforms are the uniforms of the cubemap program
var SkyboxUniforms = []graphics.Uniform{
	{Name: "projection", Type: graphics.Mat4},
	{Name: "view", Type: graphics.Mat4},
	{Name: "skybox", Type: graphics.Int},
}

// Programs holds every linked program the passes use
type Programs struct {
	Lighting  *graphics.Program
	LightCube *graphics.Program
	Floor     *graphics.Program
	Skybox    *graphics.Program
	Blur      *graphics.Program
	Composite *graphics.Program
	Font      *graphics.Program
}

// Loader links one named program with its declared uniforms
type Loader func(name string, uniforms []graphics.Uniform) (*graphics.Program, error)

// ShaderLoader reads <dir>/<name>.vert and <dir>/<name>.frag
func ShaderLoader(dev gpu.Device, dir string) Loader {
	return func(name string, uniforms []graphics.Uniform) (*graphics.Program, error) {
		return graphics.LoadProgram(dev, dir, name, uniforms)
	}
}

// LoadPrograms links every program; the first failure releases the ones already linked
func LoadPrograms(load Loader) (*Programs, error) {
	ps := &Programs{}
	for _, entry := range []struct {
		name     string
		uniforms []graphics.Uniform
		slot     **graphics.Program
	}{
		{"lighting", LightingUniforms, &ps.Lighting},
		{"light_cube", LightCubeUniforms, &ps.LightCube},
		{"floor", FloorUniforms, &ps.Floor},
		{"skybox", SkyboxUniforms, &ps.Skybox},
		{"blur", bloom.BlurUniforms, &ps.Blur},
		{"composite", bloom.CompositeUniforms, &ps.Composite},
		{"font", graphics.FontUniforms, &ps.Font},
	} {
		p, err := load(entry.name, entry.uniforms)
		if err != nil {
			ps.Delete()
			return nil, fmt.Errorf("load shaders: %w", err)
		}
		*entry.slot = p
	}
	return ps, nil
}

// Delete frees every linked program
func (ps *Programs) Delete() {
	for _, p := range []*graphics.Program{ps.Lighting, ps.LightCube, ps.Floor, ps.Skybox, ps.Blur, ps.Composite, ps.Font} {
		if p != nil {
			p.Delete()
		}
	}
}
