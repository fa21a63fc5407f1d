// Command glprobe checks that the driver can run the renderer: it opens a hidden
// 4.1 core context, builds the HDR and bloom targets and links every program.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"hdr-scene/internal/config"
	"hdr-scene/internal/framebuffer"
	"hdr-scene/internal/gpu"
	"hdr-scene/internal/renderer"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	assetsDir := flag.String("assets", "assets", "assets directory")
	flag.Parse()
	settings := config.Default(*assetsDir)

	if err := glfw.Init(); err != nil {
		fail("glfw", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(64, 64, "glprobe", nil, nil)
	if err != nil {
		fail("window", err)
	}
	window.MakeContextCurrent()

	dev, err := gpu.NewGL()
	if err != nil {
		fail("gl", err)
	}
	fmt.Println("OpenGL", dev.Version())

	w, h := int32(settings.Width), int32(settings.Height)
	hdr, err := framebuffer.NewHDRTarget(dev, w, h)
	if err != nil {
		fail("hdr target", err)
	}
	defer hdr.Release(dev)
	fmt.Printf("hdr target %dx%d: %d color attachments, depth %v\n", hdr.Width, hdr.Height, len(hdr.Colors), hdr.Depth != 0)

	pair, err := framebuffer.NewPingPongPair(dev, w, h)
	if err != nil {
		fail("bloom targets", err)
	}
	defer pair.Release(dev)
	fmt.Println("bloom targets: complete")

	progs, err := renderer.LoadPrograms(renderer.ShaderLoader(dev, settings.ShadersDir))
	if err != nil {
		fail("programs", err)
	}
	defer progs.Delete()
	fmt.Println("programs: linked from", settings.ShadersDir)
}

func fail(stage string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", stage, err)
	os.Exit(1)
}
