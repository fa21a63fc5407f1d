package main

import (
	"flag"
	"log"
	"runtime"

	"hdr-scene/internal/app"
	"hdr-scene/internal/config"
	"hdr-scene/internal/gpu"
	"hdr-scene/internal/input"
	"hdr-scene/internal/profiling"
	"hdr-scene/internal/renderer"
	"hdr-scene/internal/scene"
	"hdr-scene/internal/state"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	assetsDir := flag.String("assets", "assets", "assets directory")
	scenePath := flag.String("scene", "", "scene file (default <assets>/scene.json)")
	statePath := flag.String("state", "", "program state file (default <assets>/program_state.txt)")
	shotDir := flag.String("screenshots", "", "screenshot directory")
	blur := flag.Int("blur", 0, "blur iterations")
	flag.Parse()

	settings := config.Default(*assetsDir)
	if *scenePath != "" {
		settings.ScenePath = *scenePath
	}
	if *statePath != "" {
		settings.StatePath = *statePath
	}
	if *shotDir != "" {
		settings.ScreenshotDir = *shotDir
	}
	if *blur > 0 {
		settings.BlurIterations = *blur
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	table, err := scene.Load(settings.ScenePath)
	if err != nil {
		log.Fatalf("scene: %v", err)
	}
	ctx := app.New(settings, state.Load(settings.StatePath), table)

	// state is saved on a clean exit and on SIGINT/SIGTERM
	saver := newStateSaver(settings.StatePath, ctx.Snapshot())
	closer.Bind(saver.save)

	if err := glfw.Init(); err != nil {
		log.Fatalf("glfw: %v", err)
	}

	window, err := setupWindow(settings)
	if err != nil {
		log.Fatalf("window: %v", err)
	}
	dev, err := gpu.NewGL()
	if err != nil {
		log.Fatalf("gl: %v", err)
	}
	log.Printf("OpenGL %s", dev.Version())

	fbWidth, fbHeight := window.GetFramebufferSize()
	res, err := loadResources(dev, settings, table, fbWidth, fbHeight)
	if err != nil {
		log.Fatalf("resources: %v", err)
	}

	prof := profiling.NewFrame()
	r, err := renderer.New(dev, res.Resources, renderer.Options{
		Width:          int32(settings.Width),
		Height:         int32(settings.Height),
		ViewportWidth:  int32(fbWidth),
		ViewportHeight: int32(fbHeight),
		BlurIterations: settings.BlurIterations,
		OverlayColor:   overlayColor,
	}, prof)
	if err != nil {
		log.Fatalf("renderer: %v", err)
	}

	im := input.NewInputManager()
	setupInputHandlers(window, ctx, r, im)
	applyCursorMode(window, ctx)

	NewFrameLoop(window, ctx, r, im, prof, saver).Run()

	r.Dispose()
	res.release()
	glfw.Terminate()
	// runs the bound cleanup and exits
	closer.Close()
}
