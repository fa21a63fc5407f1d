package graphics

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"hdr-scene/internal/gpu"

	_ "github.com/ftrvxmtrx/tga"
	"github.com/mauserzjeh/dxt"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// TextureOptions controls how a decoded image is stored and sampled
type TextureOptions struct {
	// Gamma stores the image as sRGB so the GPU linearizes it on sampling
	Gamma    bool
	Sampling gpu.Sampling
	Mipmaps  bool
}

// ColorTexture is for albedo maps authored in sRGB
var ColorTexture = TextureOptions{
	Gamma:    true,
	Sampling: gpu.Sampling{Min: gpu.LinearMipmap, Mag: gpu.Linear, Wrap: gpu.Repeat},
	Mipmaps:  true,
}

// DataTexture is for normal, height and specular maps that hold linear data
var DataTexture = TextureOptions{
	Sampling: gpu.Sampling{Min: gpu.LinearMipmap, Mag: gpu.Linear, Wrap: gpu.Repeat},
	Mipmaps:  true,
}

// DecodeImage reads an image file into tightly packed RGBA.
// png, jpeg, bmp, webp and tga go through the image registry; dds is decoded as DXT1/DXT5.
func DecodeImage(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	return DecodeImageBytes(path, data)
}

// DecodeImageBytes decodes an in-memory image; name is used for the format hint and errors
func DecodeImageBytes(name string, data []byte) (*image.RGBA, error) {
	if strings.EqualFold(filepath.Ext(name), ".dds") || bytes.HasPrefix(data, []byte("DDS ")) {
		return decodeDDS(data)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

const (
	ddsHeaderSize = 128
	fourCCDXT1    = 0x31545844 // "DXT1"
	fourCCDXT5    = 0x35545844 // "DXT5"
)

// decodeDDS decodes the top mip level of a DXT1 or DXT5 DirectDraw Surface
func decodeDDS(data []byte) (*image.RGBA, error) {
	if len(data) < ddsHeaderSize || string(data[:4]) != "DDS " {
		return nil, errors.New("dds: bad header")
	}
	height := binary.LittleEndian.Uint32(data[12:16])
	width := binary.LittleEndian.Uint32(data[16:20])
	fourCC := binary.LittleEndian.Uint32(data[84:88])
	payload := data[ddsHeaderSize:]

	var (
		pix []byte
		err error
	)
	switch fourCC {
	case fourCCDXT1:
		pix, err = dxt.DecodeDXT1(payload, uint(width), uint(height))
	case fourCCDXT5:
		pix, err = dxt.DecodeDXT5(payload, uint(width), uint(height))
	default:
		return nil, fmt.Errorf("dds: unsupported format 0x%08x", fourCC)
	}
	if err != nil {
		return nil, fmt.Errorf("dds: %w", err)
	}
	return &image.RGBA{Pix: pix, Stride: int(width) * 4, Rect: image.Rect(0, 0, int(width), int(height))}, nil
}

// UploadTexture2D creates a 2D texture from decoded pixels
func UploadTexture2D(dev gpu.Device, img *image.RGBA, opts TextureOptions) uint32 {
	format := gpu.RGBA8
	if opts.Gamma {
		format = gpu.SRGBA8
	}
	size := img.Rect.Size()

	tex := dev.NewTexture(gpu.Texture2D)
	dev.TexImage(gpu.Texture2D, 0, format, int32(size.X), int32(size.Y), img.Pix)
	if opts.Mipmaps {
		dev.GenerateMipmap(gpu.Texture2D)
	}
	dev.SetSampling(gpu.Texture2D, opts.Sampling)
	return tex
}

// LoadTexture2D decodes a file and uploads it as a 2D texture
func LoadTexture2D(dev gpu.Device, path string, opts TextureOptions) (uint32, error) {
	img, err := DecodeImage(path)
	if err != nil {
		return 0, err
	}
	return UploadTexture2D(dev, img, opts), nil
}

// CubemapFaces lists face images in GL order: +X (right), -X (left), +Y (top), -Y (bottom), +Z (front), -Z (back)
type CubemapFaces [6]string

// SkyboxFaces returns the conventional right/left/top/bottom/front/back file names in dir
func SkyboxFaces(dir, ext string) CubemapFaces {
	var faces CubemapFaces
	for i, name := range []string{"right", "left", "top", "bottom", "front", "back"} {
		faces[i] = filepath.Join(dir, name+ext)
	}
	return faces
}

// LoadCubemap uploads six face images into one cubemap texture.
// A face that fails to decode is left unallocated and reported in the returned
// error; the texture is still valid and the other faces render.
// Faces are scaled to the size of the first decoded face.
func LoadCubemap(dev gpu.Device, faces CubemapFaces, gamma bool) (uint32, error) {
	format := gpu.RGBA8
	if gamma {
		format = gpu.SRGBA8
	}

	tex := dev.NewTexture(gpu.TextureCube)
	var (
		errs []error
		size image.Point
	)
	for i, path := range faces {
		img, err := DecodeImage(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("cubemap face %d: %w", i, err))
			continue
		}
		if size == (image.Point{}) {
			size = img.Rect.Size()
		} else if img.Rect.Size() != size {
			scaled := image.NewRGBA(image.Rectangle{Max: size})
			draw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
			img = scaled
		}
		dev.TexImage(gpu.TextureCube, i, format, int32(size.X), int32(size.Y), img.Pix)
	}
	dev.SetSampling(gpu.TextureCube, gpu.Sampling{Min: gpu.Linear, Mag: gpu.Linear, Wrap: gpu.ClampToEdge})

	return tex, errors.Join(errs...)
}
