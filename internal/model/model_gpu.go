package model

import (
	"log"
	"strconv"

	"hdr-scene/internal/gpu"
	"hdr-scene/internal/graphics"
)

// DefaultPrefix is the struct name the lighting shader groups its material samplers under
const DefaultPrefix = "material."

// Texture is an uploaded texture and the sampler family it feeds
type Texture struct {
	Kind TextureKind
	ID   uint32
}

// Mesh is an uploaded mesh with its textures
type Mesh struct {
	GPU      gpu.Mesh
	Textures []Texture
}

// Model is a drawable model
type Model struct {
	Path   string
	Meshes []Mesh
	// Prefix is prepended to sampler names, e.g. "material.texture_diffuse1"
	Prefix string

	dev gpu.Device
}

func textureOptions(kind TextureKind) graphics.TextureOptions {
	if kind == Diffuse {
		return graphics.ColorTexture
	}
	return graphics.DataTexture
}

// Upload creates GPU buffers for every mesh and loads textures through cache.
// Textures that fail to load are logged and skipped; the mesh still draws.
func Upload(dev gpu.Device, cache *graphics.TextureCache, data *Data) *Model {
	m := &Model{Path: data.Path, Prefix: DefaultPrefix, dev: dev}
	for _, md := range data.Meshes {
		mesh := Mesh{GPU: dev.NewMesh(md.Vertices, md.Indices, Layout, false)}
		for _, ref := range md.Textures {
			var (
				id  uint32
				err error
			)
			if ref.Data != nil {
				id, err = cache.GetBytes(ref.Path, ref.Data, textureOptions(ref.Kind))
			} else {
				id, err = cache.Get(ref.Path, textureOptions(ref.Kind))
			}
			if err != nil {
				log.Printf("model %s: %s: %v", data.Path, ref.Kind, err)
				continue
			}
			mesh.Textures = append(mesh.Textures, Texture{Kind: ref.Kind, ID: id})
		}
		m.Meshes = append(m.Meshes, mesh)
	}
	return m
}

// Load reads and uploads a model file
func Load(dev gpu.Device, cache *graphics.TextureCache, path string) (*Model, error) {
	data, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Upload(dev, cache, data), nil
}

// Draw binds each mesh's textures to consecutive units and draws it.
// Samplers are named <Prefix><kind><n>, n counting from 1 per kind; textures the
// program doesn't declare are skipped.
func (m *Model) Draw(p *graphics.Program) {
	for _, mesh := range m.Meshes {
		counts := make(map[TextureKind]int, 4)
		unit := int32(0)
		for _, tex := range mesh.Textures {
			counts[tex.Kind]++
			name := m.Prefix + string(tex.Kind) + strconv.Itoa(counts[tex.Kind])
			if !p.Has(name) {
				continue
			}
			m.dev.BindTexture(uint32(unit), gpu.Texture2D, tex.ID)
			p.SetInt(name, unit)
			unit++
		}
		m.dev.DrawMesh(mesh.GPU)
	}
}

// Release deletes the mesh buffers; textures belong to the cache
func (m *Model) Release() {
	for _, mesh := range m.Meshes {
		m.dev.DeleteMesh(mesh.GPU)
	}
	m.Meshes = nil
}
