package graphics

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"hdr-scene/internal/gpu"

	"github.com/HugoSmits86/nativewebp"
)

// CaptureFramebuffer reads the bound framebuffer back into a top-down image
func CaptureFramebuffer(dev gpu.Device, width, height int) *image.RGBA {
	pixels := dev.ReadPixels(0, 0, int32(width), int32(height))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	// GL rows start at the bottom
	for y := 0; y < height; y++ {
		src := pixels[(height-1-y)*row : (height-y)*row]
		copy(img.Pix[y*img.Stride:y*img.Stride+row], src)
	}
	return img
}

// EncodeScreenshot writes img as lossless WebP
func EncodeScreenshot(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	return nil
}

// SaveScreenshot captures the default framebuffer into dir and returns the file path
func SaveScreenshot(dev gpu.Device, dir string, width, height int, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	path := filepath.Join(dir, now.Format("screenshot-20060102-150405.000")+".webp")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create screenshot: %w", err)
	}
	defer f.Close()

	dev.BindFramebuffer(0)
	if err := EncodeScreenshot(f, CaptureFramebuffer(dev, width, height)); err != nil {
		return "", err
	}
	return path, nil
}
