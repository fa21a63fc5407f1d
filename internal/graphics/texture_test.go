package graphics

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hdr-scene/internal/gpu"
	"hdr-scene/internal/gpu/gputest"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTexture2DUsesSRGBWhenGammaCorrected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "albedo.png")
	writePNG(t, path, 4, 2, color.NRGBA{R: 255, A: 255})

	rec := gputest.NewRecorder()
	tex, err := LoadTexture2D(rec, path, ColorTexture)
	if err != nil {
		t.Fatalf("LoadTexture2D: %v", err)
	}
	got := rec.Textures[tex]
	if got.Format != gpu.SRGBA8 || got.Width != 4 || got.Height != 2 {
		t.Errorf("got %s %dx%d, want SRGB8_ALPHA8 4x2", got.Format, got.Width, got.Height)
	}
	if rec.Count("GenerateMipmap") != 1 {
		t.Errorf("expected mipmaps to be generated")
	}

	tex, err = LoadTexture2D(rec, path, DataTexture)
	if err != nil {
		t.Fatalf("LoadTexture2D: %v", err)
	}
	if rec.Textures[tex].Format != gpu.RGBA8 {
		t.Errorf("data texture format = %s, want RGBA8", rec.Textures[tex].Format)
	}
}

func TestLoadTexture2DMissingFile(t *testing.T) {
	rec := gputest.NewRecorder()
	if _, err := LoadTexture2D(rec, filepath.Join(t.TempDir(), "nope.png"), ColorTexture); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if rec.Count("NewTexture") != 0 {
		t.Errorf("no texture should be created on decode failure")
	}
}

func TestLoadCubemapContinuesPastBrokenFace(t *testing.T) {
	dir := t.TempDir()
	faces := SkyboxFaces(dir, ".png")
	for i, path := range faces {
		if i == 2 {
			continue // top face missing
		}
		size := 8
		if i == 5 {
			size = 16 // back face has a different size and gets scaled
		}
		writePNG(t, path, size, size, color.NRGBA{B: 255, A: 255})
	}

	rec := gputest.NewRecorder()
	tex, err := LoadCubemap(rec, faces, false)
	if err == nil || !strings.Contains(err.Error(), "cubemap face 2") {
		t.Fatalf("expected an error naming face 2, got %v", err)
	}
	if tex == 0 {
		t.Fatalf("texture should still be created")
	}
	if got := rec.Textures[tex].Faces; got != 5 {
		t.Errorf("uploaded %d faces, want 5", got)
	}
	if rec.Index("TexImage 1 face=5 RGBA8 8x8") < 0 {
		t.Errorf("back face should be scaled to 8x8, calls: %v", rec.Calls)
	}
}

func TestDecodeDDSRejectsUnknownFormat(t *testing.T) {
	data := make([]byte, ddsHeaderSize+8)
	copy(data, "DDS ")
	binary.LittleEndian.PutUint32(data[12:], 4)
	binary.LittleEndian.PutUint32(data[16:], 4)
	copy(data[84:], "ATI2")
	if _, err := decodeDDS(data); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if _, err := decodeDDS([]byte("nope")); err == nil {
		t.Fatalf("expected bad header error")
	}
}

func TestDecodeDDSDXT1(t *testing.T) {
	data := make([]byte, ddsHeaderSize+8) // one 4x4 DXT1 block
	copy(data, "DDS ")
	binary.LittleEndian.PutUint32(data[12:], 4)
	binary.LittleEndian.PutUint32(data[16:], 4)
	copy(data[84:], "DXT1")
	// color0 = white, color1 = black, all indices 0 -> white
	binary.LittleEndian.PutUint16(data[ddsHeaderSize:], 0xFFFF)

	img, err := decodeDDS(data)
	if err != nil {
		t.Fatalf("decodeDDS: %v", err)
	}
	if img.Rect.Dx() != 4 || img.Rect.Dy() != 4 {
		t.Fatalf("got %v, want 4x4", img.Rect)
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r>>8 < 0xF0 || g>>8 < 0xF0 || b>>8 < 0xF0 {
		t.Errorf("pixel (0,0) = %v, want white", img.At(0, 0))
	}
}

func TestTextureCacheLoadsOncePerColorSpace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writePNG(t, path, 2, 2, color.White)

	rec := gputest.NewRecorder()
	cache := NewTextureCache(rec)
	a, err := cache.Get(path, ColorTexture)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := cache.Get(path, ColorTexture)
	c, _ := cache.Get(path, DataTexture)

	if a != b {
		t.Errorf("same path and color space should hit the cache")
	}
	if a == c {
		t.Errorf("linear and sRGB variants must be distinct textures")
	}
	if cache.Len() != 2 || rec.Count("NewTexture") != 2 {
		t.Errorf("expected 2 uploads, got %d", rec.Count("NewTexture"))
	}

	cache.Release()
	if cache.Len() != 0 || rec.Count("DeleteTexture") != 2 {
		t.Errorf("release should delete both textures")
	}
}
