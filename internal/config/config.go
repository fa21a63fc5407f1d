package config

import (
	"fmt"
	"path/filepath"
)

// Settings holds startup configuration
type Settings struct {
	// Window and offscreen target size; the offscreen targets never resize
	Width  int
	Height int
	Title  string
	VSync  bool

	AssetsDir     string
	ShadersDir    string
	ScenePath     string
	StatePath     string
	ScreenshotDir string

	BlurIterations int
	// Exposure is the starting exposure; ExposureStep is applied per second while Q/E is held
	Exposure     float32
	ExposureStep float32

	CameraSpeed       float32
	MouseSensitivity  float32
	OverlayFontPixels int
}

// Default returns the built-in configuration rooted at assetsDir
func Default(assetsDir string) Settings {
	return Settings{
		Width:  800,
		Height: 600,
		Title:  "hdr-scene",
		VSync:  true,

		AssetsDir:     assetsDir,
		ShadersDir:    filepath.Join(assetsDir, "shaders"),
		ScenePath:     filepath.Join(assetsDir, "scene.json"),
		StatePath:     filepath.Join(assetsDir, "program_state.txt"),
		ScreenshotDir: "screenshots",

		BlurIterations: 10,
		Exposure:       1.0,
		ExposureStep:   0.5,

		CameraSpeed:       2.5,
		MouseSensitivity:  0.1,
		OverlayFontPixels: 18,
	}
}

// Asset resolves a path relative to the assets directory
func (s Settings) Asset(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(s.AssetsDir, rel)
}

// Validate rejects settings the renderer can't start with
func (s Settings) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", s.Width, s.Height)
	}
	if s.BlurIterations < 0 {
		return fmt.Errorf("blur iterations must not be negative, got %d", s.BlurIterations)
	}
	if s.Exposure < 0 {
		return fmt.Errorf("exposure must not be negative, got %g", s.Exposure)
	}
	if s.ExposureStep <= 0 {
		return fmt.Errorf("exposure step must be positive, got %g", s.ExposureStep)
	}
	return nil
}
