// Package model imports glTF and Wavefront OBJ files into indexed meshes
// with per-material textures, and draws them with a lighting program.
package model

import (
	"fmt"
	"path/filepath"
	"strings"

	"hdr-scene/internal/gpu"
)

// TextureKind is the sampler family a texture feeds; it is also the uniform name stem
type TextureKind string

const (
	Diffuse  TextureKind = "texture_diffuse"
	Specular TextureKind = "texture_specular"
	Normal   TextureKind = "texture_normal"
	Height   TextureKind = "texture_height"
)

// Layout is the vertex layout of every imported mesh: position, normal, uv
var Layout = gpu.Layout{3, 3, 2}

// TextureRef points at a texture file, or carries the bytes of an embedded image.
// Embedded images are keyed by Path so shared images load once.
type TextureRef struct {
	Kind TextureKind
	Path string
	Data []byte
}

// MeshData is one drawable piece of a model before upload
type MeshData struct {
	Name     string
	Vertices []float32
	Indices  []uint32
	Textures []TextureRef
}

// VertexCount returns the number of vertices
func (m *MeshData) VertexCount() int {
	return len(m.Vertices) / int(Layout.Stride())
}

// Data is a parsed model file
type Data struct {
	Path   string
	Meshes []MeshData
}

// Read parses a model file by extension
func Read(path string) (*Data, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb":
		return ReadGLTF(path)
	case ".obj":
		return ReadOBJ(path)
	}
	return nil, fmt.Errorf("unsupported model format: %s", path)
}
