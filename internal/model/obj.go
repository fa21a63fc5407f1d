package model

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// objMaterial is the subset of an MTL material the lighting pass samples
type objMaterial struct {
	diffuse, specular, normal string
}

type objVertexKey struct {
	v, vt, vn int
}

type objGroup struct {
	material string
	mesh     MeshData
	lookup   map[objVertexKey]uint32
}

// objParser accumulates attribute streams and emits one mesh per material
type objParser struct {
	positions []mgl32.Vec3
	uvs       []mgl32.Vec2
	normals   []mgl32.Vec3

	materials map[string]objMaterial
	groups    []*objGroup
	current   *objGroup
	libs      []string
}

// ReadOBJ loads a Wavefront OBJ file and the MTL libraries it references
func ReadOBJ(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open obj file: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	p := &objParser{materials: make(map[string]objMaterial)}
	if err := p.parse(f); err != nil {
		return nil, fmt.Errorf("obj %s: %w", path, err)
	}
	for _, lib := range p.libs {
		if err := p.loadMTL(filepath.Join(dir, lib)); err != nil {
			log.Printf("obj %s: %v", path, err)
		}
	}
	return p.data(path, dir)
}

// ParseOBJ reads OBJ geometry from r; material libraries are not loaded
func ParseOBJ(r io.Reader) (*Data, error) {
	p := &objParser{materials: make(map[string]objMaterial)}
	if err := p.parse(r); err != nil {
		return nil, err
	}
	return p.data("", "")
}

func (p *objParser) parse(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		var err error
		switch fields[0] {
		case "v":
			var v mgl32.Vec3
			v, err = parseVec3(fields[1:])
			p.positions = append(p.positions, v)
		case "vn":
			var v mgl32.Vec3
			v, err = parseVec3(fields[1:])
			p.normals = append(p.normals, v)
		case "vt":
			var v mgl32.Vec2
			v, err = parseUV(fields[1:])
			p.uvs = append(p.uvs, v)
		case "f":
			err = p.face(fields[1:])
		case "usemtl":
			p.use(strings.Join(fields[1:], " "))
		case "mtllib":
			p.libs = append(p.libs, fields[1:]...)
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return sc.Err()
}

func (p *objParser) use(material string) {
	for _, g := range p.groups {
		if g.material == material {
			p.current = g
			return
		}
	}
	g := &objGroup{material: material, mesh: MeshData{Name: material}, lookup: make(map[objVertexKey]uint32)}
	p.groups = append(p.groups, g)
	p.current = g
}

// face fan-triangulates a polygon
func (p *objParser) face(refs []string) error {
	if len(refs) < 3 {
		return fmt.Errorf("face with %d vertices", len(refs))
	}
	if p.current == nil {
		p.use("")
	}
	keys := make([]objVertexKey, len(refs))
	for i, ref := range refs {
		k, err := p.resolve(ref)
		if err != nil {
			return err
		}
		keys[i] = k
	}
	for i := 1; i+1 < len(keys); i++ {
		tri := [3]objVertexKey{keys[0], keys[i], keys[i+1]}
		flat := p.flatNormal(tri)
		for _, k := range tri {
			p.current.mesh.Indices = append(p.current.mesh.Indices, p.vertex(k, flat))
		}
	}
	return nil
}

// resolve turns a v/vt/vn reference into zero-based indices, -1 when absent
func (p *objParser) resolve(ref string) (objVertexKey, error) {
	parts := strings.Split(ref, "/")
	k := objVertexKey{v: -1, vt: -1, vn: -1}
	var err error
	if k.v, err = objIndex(parts[0], len(p.positions)); err != nil || k.v < 0 {
		return k, fmt.Errorf("bad vertex reference %q", ref)
	}
	if len(parts) > 1 && parts[1] != "" {
		if k.vt, err = objIndex(parts[1], len(p.uvs)); err != nil {
			return k, fmt.Errorf("bad texcoord reference %q", ref)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if k.vn, err = objIndex(parts[2], len(p.normals)); err != nil {
			return k, fmt.Errorf("bad normal reference %q", ref)
		}
	}
	return k, nil
}

// objIndex converts a 1-based or negative (relative to the end) index
func objIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return -1, err
	}
	if i < 0 {
		i += n
	} else {
		i--
	}
	if i < 0 || i >= n {
		return -1, fmt.Errorf("index %s out of range", s)
	}
	return i, nil
}

func (p *objParser) flatNormal(tri [3]objVertexKey) mgl32.Vec3 {
	a, b, c := p.positions[tri[0].v], p.positions[tri[1].v], p.positions[tri[2].v]
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}

func (p *objParser) vertex(k objVertexKey, flat mgl32.Vec3) uint32 {
	g := p.current
	// vertices without a normal take the face normal, so they can't be shared across faces
	if k.vn >= 0 {
		if idx, ok := g.lookup[k]; ok {
			return idx
		}
	}
	pos := p.positions[k.v]
	n := flat
	if k.vn >= 0 {
		n = p.normals[k.vn]
	}
	var uv mgl32.Vec2
	if k.vt >= 0 {
		uv = p.uvs[k.vt]
	}
	idx := uint32(g.mesh.VertexCount())
	g.mesh.Vertices = append(g.mesh.Vertices, pos[0], pos[1], pos[2], n[0], n[1], n[2], uv[0], uv[1])
	if k.vn >= 0 {
		g.lookup[k] = idx
	}
	return idx
}

func (p *objParser) data(path, dir string) (*Data, error) {
	data := &Data{Path: path}
	for _, g := range p.groups {
		if len(g.mesh.Indices) == 0 {
			continue
		}
		mesh := g.mesh
		if mat, ok := p.materials[g.material]; ok {
			for _, t := range []struct {
				kind TextureKind
				file string
			}{{Diffuse, mat.diffuse}, {Specular, mat.specular}, {Normal, mat.normal}} {
				if t.file != "" {
					mesh.Textures = append(mesh.Textures, TextureRef{Kind: t.kind, Path: filepath.Join(dir, t.file)})
				}
			}
		}
		data.Meshes = append(data.Meshes, mesh)
	}
	if len(data.Meshes) == 0 {
		return nil, fmt.Errorf("no faces")
	}
	return data, nil
}

func (p *objParser) loadMTL(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open material library: %w", err)
	}
	defer f.Close()
	return p.parseMTL(f)
}

func (p *objParser) parseMTL(r io.Reader) error {
	sc := bufio.NewScanner(r)
	var name string
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		// map statements may carry options before the file name, e.g. "map_Bump -bm 0.5 n.png"
		file := filepath.FromSlash(strings.ReplaceAll(fields[len(fields)-1], `\`, "/"))
		m := p.materials[name]
		switch strings.ToLower(fields[0]) {
		case "newmtl":
			name = strings.Join(fields[1:], " ")
			p.materials[name] = objMaterial{}
			continue
		case "map_kd":
			m.diffuse = file
		case "map_ks":
			m.specular = file
		case "map_bump", "bump", "norm":
			m.normal = file
		default:
			continue
		}
		p.materials[name] = m
	}
	return sc.Err()
}

func parseFloats(fields []string, out []float32) error {
	if len(fields) < len(out) {
		return fmt.Errorf("expected %d values, got %d", len(out), len(fields))
	}
	for i := range out {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return err
		}
		out[i] = float32(v)
	}
	return nil
}

func parseVec3(fields []string) (mgl32.Vec3, error) {
	var v mgl32.Vec3
	err := parseFloats(fields, v[:])
	return v, err
}

// parseUV reads a texture coordinate; v defaults to 0 and w is dropped
func parseUV(fields []string) (mgl32.Vec2, error) {
	var v mgl32.Vec2
	if len(fields) == 1 {
		err := parseFloats(fields, v[:1])
		return v, err
	}
	err := parseFloats(fields, v[:])
	return v, err
}
