package graphics

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Text shader file names under the shaders directory.
const (
	TextVertShader = "text.vert"
	TextFragShader = "text.frag"
)

const (
	atlasWidth   = 512
	glyphPadding = 1
	firstGlyph   = rune(32)
	lastGlyph    = rune(126)
)

// Glyph is one baked character: its rectangle in the atlas and its metrics,
// all in pixels.
type Glyph struct {
	X, Y          int
	Width, Height int
	BearingX      int
	BearingY      int
	Advance       int
}

// GlyphAtlas is printable ASCII rendered into a single-channel image.
type GlyphAtlas struct {
	Image      *image.Alpha
	Glyphs     map[rune]Glyph
	LineHeight int
}

// BakeMonoAtlas bakes the Go Mono face bundled with x/image at px pixels.
func BakeMonoAtlas(px float64) (*GlyphAtlas, error) {
	return BakeAtlas(gomono.TTF, px)
}

// BakeAtlas parses a TrueType/OpenType font and packs printable ASCII into
// rows of an atlas atlasWidth pixels wide, growing the height to the next
// power of two.
func BakeAtlas(fontData []byte, px float64) (*GlyphAtlas, error) {
	f, err := opentype.Parse(fontData)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: px, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	type baked struct {
		r      rune
		dr     image.Rectangle
		mask   image.Image
		maskp  image.Point
		adv    fixed.Int26_6
		placed image.Point
	}

	var glyphs []baked
	x, y, rowH := 0, 0, 0
	for r := firstGlyph; r <= lastGlyph; r++ {
		dr, mask, maskp, adv, ok := face.Glyph(fixed.P(0, 0), r)
		if !ok {
			continue
		}
		if x+dr.Dx()+glyphPadding > atlasWidth {
			x, y = 0, y+rowH+glyphPadding
			rowH = 0
		}
		glyphs = append(glyphs, baked{r: r, dr: dr, mask: mask, maskp: maskp, adv: adv, placed: image.Pt(x, y)})
		x += dr.Dx() + glyphPadding
		rowH = max(rowH, dr.Dy())
	}

	height := 1
	for height < y+rowH {
		height <<= 1
	}

	atlas := &GlyphAtlas{
		Image:      image.NewAlpha(image.Rect(0, 0, atlasWidth, height)),
		Glyphs:     make(map[rune]Glyph, len(glyphs)),
		LineHeight: face.Metrics().Height.Ceil(),
	}
	for _, g := range glyphs {
		dst := image.Rectangle{Min: g.placed, Max: g.placed.Add(g.dr.Size())}
		if g.mask != nil && !dst.Empty() {
			draw.Draw(atlas.Image, dst, g.mask, g.maskp, draw.Src)
		}
		atlas.Glyphs[g.r] = Glyph{
			X:        g.placed.X,
			Y:        g.placed.Y,
			Width:    g.dr.Dx(),
			Height:   g.dr.Dy(),
			BearingX: g.dr.Min.X,
			BearingY: -g.dr.Min.Y,
			Advance:  int(math.Round(float64(g.adv) / 64.0)),
		}
	}
	return atlas, nil
}

// Layout builds two triangles per glyph of text with the baseline of the
// first line at (x, y), top-left origin. Each vertex is x, y, u, v. Runes the
// atlas lacks advance by a space.
func (a *GlyphAtlas) Layout(lines []string, x, y, scale float32) []float32 {
	aw := float32(a.Image.Rect.Dx())
	ah := float32(a.Image.Rect.Dy())
	space := float32(a.Glyphs[' '].Advance) * scale

	out := make([]float32, 0, 256)
	for _, line := range lines {
		pen := x
		for _, r := range line {
			g, ok := a.Glyphs[r]
			if !ok {
				pen += space
				continue
			}
			if g.Width > 0 && g.Height > 0 {
				x0 := pen + float32(g.BearingX)*scale
				y0 := y - float32(g.BearingY)*scale
				x1 := x0 + float32(g.Width)*scale
				y1 := y0 + float32(g.Height)*scale
				u0, v0 := float32(g.X)/aw, float32(g.Y)/ah
				u1, v1 := float32(g.X+g.Width)/aw, float32(g.Y+g.Height)/ah
				out = append(out,
					x0, y1, u0, v1,
					x0, y0, u0, v0,
					x1, y0, u1, v0,
					x0, y1, u0, v1,
					x1, y0, u1, v0,
					x1, y1, u1, v1,
				)
			}
			pen += float32(g.Advance) * scale
		}
		y += float32(a.LineHeight) * scale
	}
	return out
}

// TextRenderer draws screen-space text from a GlyphAtlas with alpha blending
// and no depth test.
type TextRenderer struct {
	atlas      *GlyphAtlas
	shader     *Shader
	texture    uint32
	vao, vbo   uint32
	projection mgl32.Mat4
}

func NewTextRenderer(atlas *GlyphAtlas, shader *Shader) *TextRenderer {
	tr := &TextRenderer{atlas: atlas, shader: shader}

	gl.GenTextures(1, &tr.texture)
	gl.BindTexture(gl.TEXTURE_2D, tr.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	b := atlas.Image.Rect
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, int32(b.Dx()), int32(b.Dy()), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(atlas.Image.Pix))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenVertexArrays(1, &tr.vao)
	gl.GenBuffers(1, &tr.vbo)
	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 4, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return tr
}

// SetViewport maps pixel coordinates to the framebuffer, origin top-left.
func (tr *TextRenderer) SetViewport(width, height int) {
	tr.projection = mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1)
}

// DrawLines draws lines top to bottom starting with the first baseline at
// (x, y).
func (tr *TextRenderer) DrawLines(lines []string, x, y, scale float32, color mgl32.Vec3) {
	verts := tr.atlas.Layout(lines, x, y, scale)
	if len(verts) == 0 {
		return
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	tr.shader.Use()
	tr.shader.SetMat4("projection", tr.projection)
	tr.shader.SetVec3("textColor", color)
	tr.shader.SetInt("glyphs", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tr.texture)
	gl.BindVertexArray(tr.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, tr.vbo)
	// orphan the previous frame's storage before refilling
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, nil, gl.STREAM_DRAW)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)/4))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (tr *TextRenderer) Release() {
	if tr.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &tr.vao)
	gl.DeleteBuffers(1, &tr.vbo)
	gl.DeleteTextures(1, &tr.texture)
	tr.vao, tr.vbo, tr.texture = 0, 0, 0
}
