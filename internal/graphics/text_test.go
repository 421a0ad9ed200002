package graphics

import "testing"

func TestBakeMonoAtlas(t *testing.T) {
	atlas, err := BakeMonoAtlas(16)
	if err != nil {
		t.Fatalf("BakeMonoAtlas: %v", err)
	}

	for r := firstGlyph; r <= lastGlyph; r++ {
		if _, ok := atlas.Glyphs[r]; !ok {
			t.Fatalf("glyph %q missing", r)
		}
	}
	h := atlas.Image.Rect.Dy()
	if h&(h-1) != 0 {
		t.Errorf("atlas height %d is not a power of two", h)
	}
	if atlas.LineHeight <= 0 {
		t.Errorf("line height: got %d", atlas.LineHeight)
	}

	// Glyph rectangles stay inside the atlas.
	for r, g := range atlas.Glyphs {
		if g.X+g.Width > atlasWidth || g.Y+g.Height > h {
			t.Errorf("glyph %q at %d,%d size %dx%d outside %dx%d", r, g.X, g.Y, g.Width, g.Height, atlasWidth, h)
		}
	}
}

func TestLayout(t *testing.T) {
	atlas, err := BakeMonoAtlas(16)
	if err != nil {
		t.Fatalf("BakeMonoAtlas: %v", err)
	}

	if got := len(atlas.Layout([]string{"A"}, 0, 20, 1)); got != 24 {
		t.Fatalf("one glyph: got %d floats, want 24", got)
	}
	if got := len(atlas.Layout([]string{" "}, 0, 20, 1)); got != 0 {
		t.Fatalf("space: got %d floats, want 0", got)
	}

	// Monospaced: the second glyph starts one advance later, unknown runes too.
	adv := float32(atlas.Glyphs['x'].Advance)
	a := atlas.Layout([]string{"xx"}, 0, 20, 1)
	b := atlas.Layout([]string{"éx"}, 0, 20, 1)
	if a[24] != a[0]+adv {
		t.Errorf("second glyph at %v, want %v", a[24], a[0]+adv)
	}
	if b[0] != a[24] {
		t.Errorf("glyph after unknown rune at %v, want %v", b[0], a[24])
	}

	two := atlas.Layout([]string{"x", "x"}, 0, 20, 2)
	if dy := two[25] - two[1]; dy != float32(atlas.LineHeight)*2 {
		t.Errorf("line step: got %v, want %v", dy, atlas.LineHeight*2)
	}
}
