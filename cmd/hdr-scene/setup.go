package main

import (
	"log"
	"sync"

	"hdr-scene/internal/config"
	"hdr-scene/internal/gpu"
	"hdr-scene/internal/graphics"
	"hdr-scene/internal/model"
	"hdr-scene/internal/renderer"
	"hdr-scene/internal/scene"
	"hdr-scene/internal/state"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

var overlayColor = mgl32.Vec3{1, 1, 1}

func setupWindow(s config.Settings) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(s.Width, s.Height, s.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	if s.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	return window, nil
}

// sceneResources owns what loadResources created
type sceneResources struct {
	renderer.Resources
	cache *graphics.TextureCache
}

// loadResources links the programs and loads every asset the table names.
// Programs are required; a model or texture that fails to load is logged and left out.
func loadResources(dev gpu.Device, s config.Settings, table *scene.Table, fbWidth, fbHeight int) (*sceneResources, error) {
	progs, err := renderer.LoadPrograms(renderer.ShaderLoader(dev, s.ShadersDir))
	if err != nil {
		return nil, err
	}

	cache := graphics.NewTextureCache(dev)
	res := &sceneResources{
		Resources: renderer.Resources{Programs: progs, Models: make(map[string]*model.Model)},
		cache:     cache,
	}

	for _, rel := range table.Models() {
		m, err := model.Load(dev, cache, s.Asset(rel))
		if err != nil {
			log.Printf("model %s: %v", rel, err)
			continue
		}
		res.Models[rel] = m
	}

	texture := func(rel string, opts graphics.TextureOptions) uint32 {
		id, err := cache.Get(s.Asset(rel), opts)
		if err != nil {
			log.Printf("floor texture %s: %v", rel, err)
		}
		return id
	}
	res.Floor = renderer.FloorTextures{
		Diffuse: texture(table.Floor.Diffuse, graphics.ColorTexture),
		Normal:  texture(table.Floor.Normal, graphics.DataTexture),
		Height:  texture(table.Floor.Height, graphics.DataTexture),
	}

	faces := graphics.SkyboxFaces(s.Asset(table.Skybox.Dir), table.Skybox.Ext)
	res.Skybox, err = graphics.LoadCubemap(dev, faces, true)
	if err != nil {
		log.Printf("skybox: %v", err)
	}

	atlas, err := graphics.BakeFontAtlas(nil, s.OverlayFontPixels)
	if err != nil {
		log.Printf("overlay font: %v", err)
		return res, nil
	}
	res.Font, err = graphics.NewFontRenderer(dev, atlas, progs.Font, fbWidth, fbHeight)
	if err != nil {
		log.Printf("overlay font: %v", err)
	}
	return res, nil
}

// release frees models, textures and programs; the font belongs to the renderer
func (r *sceneResources) release() {
	for _, m := range r.Models {
		m.Release()
	}
	r.cache.Release()
	r.Programs.Delete()
}

// stateSaver keeps the latest snapshot so the shutdown hook never reads the live context
type stateSaver struct {
	mu   sync.Mutex
	path string
	last state.State
}

func newStateSaver(path string, initial state.State) *stateSaver {
	return &stateSaver{path: path, last: initial}
}

func (s *stateSaver) update(st state.State) {
	s.mu.Lock()
	s.last = st
	s.mu.Unlock()
}

func (s *stateSaver) save() {
	s.mu.Lock()
	st := s.last
	s.mu.Unlock()
	if err := state.Save(s.path, st); err != nil {
		log.Printf("save state: %v", err)
	}
}
