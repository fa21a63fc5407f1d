package graphics

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"hdr-scene/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontCharacter describes a single character's placement and metrics within the atlas
type FontCharacter struct {
	// Pixel coordinates of the glyph in the atlas texture (top-left origin)
	AtlasX float32
	AtlasY float32
	// Glyph bitmap size in pixels
	Width  float32
	Height float32
	// Bearing (offset from baseline) in pixels
	BearingX float32
	BearingY float32
	// Advance in pixels
	Advance int
}

// FontAtlas is a baked glyph sheet plus per-glyph metrics
type FontAtlas struct {
	Image      *image.Alpha
	Texture    uint32
	Characters map[rune]FontCharacter
}

const atlasWidth = 512

// BakeFontAtlas rasterizes printable ASCII from a TrueType/OpenType font into a single-channel sheet.
// A nil ttf uses Go Mono.
func BakeFontAtlas(ttf []byte, fontPixels int) (*FontAtlas, error) {
	if ttf == nil {
		ttf = gomono.TTF
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(fontPixels), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer func() { _ = face.Close() }()

	var runes []rune
	for r := rune(32); r <= 126; r++ {
		runes = append(runes, r)
	}

	// First pass: pack rows to find the sheet height
	padding := 1
	offsetX, offsetY, rowHeight := 0, 0, 0
	for _, r := range runes {
		dr, _, _, _, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		if offsetX+dr.Dx() > atlasWidth {
			offsetX = 0
			offsetY += rowHeight + padding
			rowHeight = 0
		}
		offsetX += dr.Dx() + padding
		rowHeight = max(rowHeight, dr.Dy())
	}
	atlasHeight := offsetY + rowHeight + padding

	atlas := &FontAtlas{
		Image:      image.NewAlpha(image.Rect(0, 0, atlasWidth, atlasHeight)),
		Characters: make(map[rune]FontCharacter, len(runes)),
	}

	// Second pass: render each glyph into the sheet and record metrics
	offsetX, offsetY, rowHeight = 0, 0, 0
	for _, r := range runes {
		dr, mask, maskp, advance, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		fc := FontCharacter{
			BearingX: float32(dr.Min.X),
			BearingY: float32(-dr.Min.Y),
			Advance:  int(math.Round(float64(advance) / 64.0)),
		}
		gw, gh := dr.Dx(), dr.Dy()
		if gw == 0 || gh == 0 || mask == nil {
			// space: advance only
			atlas.Characters[r] = fc
			continue
		}

		if offsetX+gw > atlasWidth {
			offsetX = 0
			offsetY += rowHeight + padding
			rowHeight = 0
		}
		draw.Draw(atlas.Image, image.Rect(offsetX, offsetY, offsetX+gw, offsetY+gh), mask, maskp, draw.Src)

		fc.AtlasX, fc.AtlasY = float32(offsetX), float32(offsetY)
		fc.Width, fc.Height = float32(gw), float32(gh)
		atlas.Characters[r] = fc

		offsetX += gw + padding
		rowHeight = max(rowHeight, gh)
	}
	return atlas, nil
}

// Upload creates the atlas texture
func (a *FontAtlas) Upload(dev gpu.Device) {
	a.Texture = dev.NewTexture(gpu.Texture2D)
	size := a.Image.Rect.Size()
	dev.TexImage(gpu.Texture2D, 0, gpu.R8, int32(size.X), int32(size.Y), a.Image.Pix)
	dev.SetSampling(gpu.Texture2D, gpu.Sampling{Min: gpu.Linear, Mag: gpu.Linear, Wrap: gpu.ClampToEdge})
}

// FontUniforms are the uniforms of the text program
var FontUniforms = []Uniform{
	{Name: "projection", Type: Mat4},
	{Name: "textColor", Type: Vec3},
	{Name: "text", Type: Int},
}

// FontRenderer draws screen-space text with a baked atlas
type FontRenderer struct {
	dev        gpu.Device
	atlas      *FontAtlas
	program    *Program
	projection mgl32.Mat4
	mesh       gpu.Mesh
}

// NewFontRenderer uploads the atlas and prepares a dynamic vertex buffer.
// width and height are the screen size in pixels, origin top-left.
func NewFontRenderer(dev gpu.Device, atlas *FontAtlas, program *Program, width, height int) (*FontRenderer, error) {
	if atlas == nil || len(atlas.Characters) == 0 {
		return nil, fmt.Errorf("invalid font atlas")
	}
	if atlas.Texture == 0 {
		atlas.Upload(dev)
	}
	return &FontRenderer{
		dev:        dev,
		atlas:      atlas,
		program:    program,
		projection: screenOrtho(width, height),
		mesh:       dev.NewMesh(nil, nil, gpu.Layout{2, 2}, true),
	}, nil
}

// SetViewport re-fits the text projection to a new screen size; zero sizes are ignored
func (fr *FontRenderer) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	fr.projection = screenOrtho(width, height)
}

func screenOrtho(width, height int) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// RenderLines draws multiple lines of text in a single draw call.
// Lines start at (x, yStart) and advance by lineStep pixels.
func (fr *FontRenderer) RenderLines(lines []string, x, yStart, lineStep, scale float32, color mgl32.Vec3) {
	vertices := make([]float32, 0, 256*6*4)
	y := yStart
	for _, line := range lines {
		vertices = fr.appendVertices(vertices, line, x, y, scale)
		y += lineStep
	}
	if len(vertices) == 0 {
		return
	}

	fr.dev.Disable(gpu.DepthTest)
	fr.dev.Disable(gpu.CullFace)
	fr.dev.Enable(gpu.Blend)
	fr.dev.BlendAlpha()

	fr.program.Use()
	fr.program.SetMat4("projection", fr.projection)
	fr.program.SetVec3("textColor", color)
	fr.program.SetInt("text", 0)
	fr.dev.BindTexture(0, gpu.Texture2D, fr.atlas.Texture)

	fr.dev.UpdateMesh(&fr.mesh, vertices)
	fr.dev.DrawMesh(fr.mesh)

	fr.dev.Disable(gpu.Blend)
	fr.dev.Enable(gpu.DepthTest)
	fr.dev.Enable(gpu.CullFace)
}

// Measure returns the approximate width and height in pixels the text will occupy at the given scale
func (fr *FontRenderer) Measure(text string, scale float32) (float32, float32) {
	var width, maxH float32
	for _, r := range text {
		fc, ok := fr.atlas.Characters[r]
		if !ok {
			fc = fr.atlas.Characters[' ']
		}
		width += float32(fc.Advance) * scale
		maxH = max(maxH, fc.Height*scale)
	}
	return width, maxH
}

// Release frees the atlas texture and vertex buffer
func (fr *FontRenderer) Release() {
	fr.dev.DeleteMesh(fr.mesh)
	fr.dev.DeleteTexture(fr.atlas.Texture)
}

func (fr *FontRenderer) appendVertices(vertices []float32, text string, x, y, scale float32) []float32 {
	aw := float32(fr.atlas.Image.Rect.Dx())
	ah := float32(fr.atlas.Image.Rect.Dy())
	for _, r := range text {
		fc, ok := fr.atlas.Characters[r]
		if !ok {
			x += float32(fr.atlas.Characters[' '].Advance) * scale
			continue
		}
		if fc.Width > 0 {
			xPos := x + fc.BearingX*scale
			yPos := y - fc.BearingY*scale
			w, h := fc.Width*scale, fc.Height*scale
			u0, v0 := fc.AtlasX/aw, fc.AtlasY/ah
			u1, v1 := (fc.AtlasX+fc.Width)/aw, (fc.AtlasY+fc.Height)/ah
			vertices = append(vertices,
				xPos, yPos+h, u0, v1,
				xPos, yPos, u0, v0,
				xPos+w, yPos, u1, v0,

				xPos, yPos+h, u0, v1,
				xPos+w, yPos, u1, v0,
				xPos+w, yPos+h, u1, v1,
			)
		}
		x += float32(fc.Advance) * scale
	}
	return vertices
}
