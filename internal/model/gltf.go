package model

import (
	"fmt"
	"log"
	"net/url"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ReadGLTF loads every triangle primitive of a .gltf or .glb file.
// Node transforms are not applied; placements position the whole model.
func ReadGLTF(path string) (*Data, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}
	dir := filepath.Dir(path)
	data := &Data{Path: path}

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			mesh, err := readPrimitive(doc, prim)
			if err != nil {
				log.Printf("gltf %s: mesh %d prim %d: %v", path, mi, pi, err)
				continue
			}
			mesh.Name = fmt.Sprintf("%s_p%d", gm.Name, pi)
			if prim.Material != nil && *prim.Material < len(doc.Materials) {
				mesh.Textures = materialTextures(doc, dir, path, doc.Materials[*prim.Material])
			}
			data.Meshes = append(data.Meshes, mesh)
		}
	}
	if len(data.Meshes) == 0 {
		return nil, fmt.Errorf("gltf %q: no triangle meshes", path)
	}
	return data, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (MeshData, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return MeshData{}, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return MeshData{}, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return MeshData{}, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return MeshData{}, fmt.Errorf("texcoords: %w", err)
		}
	}

	mesh := MeshData{Vertices: make([]float32, 0, len(positions)*int(Layout.Stride()))}
	for i, p := range positions {
		n := [3]float32{0, 1, 0}
		if i < len(normals) {
			n = normals[i]
		}
		var uv [2]float32
		if i < len(uvs) {
			uv = uvs[i]
		}
		mesh.Vertices = append(mesh.Vertices, p[0], p[1], p[2], n[0], n[1], n[2], uv[0], uv[1])
	}

	if prim.Indices != nil {
		if mesh.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
			return MeshData{}, fmt.Errorf("indices: %w", err)
		}
	} else {
		mesh.Indices = make([]uint32, len(positions))
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}
	return mesh, nil
}

func materialTextures(doc *gltf.Document, dir, path string, mat *gltf.Material) []TextureRef {
	var refs []TextureRef
	add := func(kind TextureKind, texIdx int) {
		ref, err := textureRef(doc, dir, path, texIdx)
		if err != nil {
			log.Printf("gltf %s: material %q %s: %v", path, mat.Name, kind, err)
			return
		}
		ref.Kind = kind
		refs = append(refs, ref)
	}

	if pbr := mat.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			add(Diffuse, pbr.BaseColorTexture.Index)
		}
		if pbr.MetallicRoughnessTexture != nil {
			add(Specular, pbr.MetallicRoughnessTexture.Index)
		}
	}
	if mat.NormalTexture != nil && mat.NormalTexture.Index != nil {
		add(Normal, *mat.NormalTexture.Index)
	}
	return refs
}

func textureRef(doc *gltf.Document, dir, path string, texIdx int) (TextureRef, error) {
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return TextureRef{}, fmt.Errorf("texture %d has no source", texIdx)
	}
	imgIdx := *doc.Textures[texIdx].Source
	if imgIdx >= len(doc.Images) {
		return TextureRef{}, fmt.Errorf("texture %d: image %d out of range", texIdx, imgIdx)
	}
	img := doc.Images[imgIdx]
	key := fmt.Sprintf("%s#image%d", path, imgIdx)

	switch {
	case img.BufferView != nil:
		raw, err := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if err != nil {
			return TextureRef{}, fmt.Errorf("image %d bufferview: %w", imgIdx, err)
		}
		return TextureRef{Path: key, Data: raw}, nil
	case img.IsEmbeddedResource():
		raw, err := img.MarshalData()
		if err != nil {
			return TextureRef{}, fmt.Errorf("image %d: %w", imgIdx, err)
		}
		return TextureRef{Path: key, Data: raw}, nil
	case img.URI != "":
		uri, err := url.PathUnescape(img.URI)
		if err != nil {
			uri = img.URI
		}
		return TextureRef{Path: filepath.Join(dir, filepath.FromSlash(uri))}, nil
	}
	return TextureRef{}, fmt.Errorf("image %d has no data", imgIdx)
}
