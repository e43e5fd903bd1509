package strip

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/clktmr/fontstrip/fonts"
	"github.com/clktmr/fontstrip/glyphs"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var defaultSet = glyphs.MustNew(glyphs.Default)

func TestMeasureBasicFont(t *testing.T) {
	m, err := Measure(basicfont.Face7x13, defaultSet, 13)
	if err != nil {
		t.Fatal(err)
	}
	expected := Metrics{Size: 13, GlyphWidth: 7, LineHeight: 13, Baseline: 11}
	if m != expected {
		t.Fatalf("expected %+v, got %+v", expected, m)
	}
	if b := m.Bounds(defaultSet.Len()); b.Dx() != 92*7 || b.Dy() != 13 {
		t.Fatalf("unexpected bounds %v", b)
	}
}

func TestMeasureGoMono(t *testing.T) {
	face, err := fonts.Parse(gomono.TTF, fonts.Options{Size: 16})
	if err != nil {
		t.Fatal(err)
	}
	m, err := Measure(face, defaultSet, 16)
	if err != nil {
		t.Fatal(err)
	}

	adv, _ := face.GlyphAdvance(' ')
	if m.GlyphWidth != adv.Ceil() {
		t.Errorf("expected glyph width %d, got %d", adv.Ceil(), m.GlyphWidth)
	}

	fm := face.Metrics()
	inkFits := true
	for _, r := range defaultSet.Runes() {
		b, _, _ := face.GlyphBounds(r)
		if b.Min.Y < -fm.Ascent || b.Max.Y > fm.Descent {
			inkFits = false
		}
	}
	lineHeight := fm.Ascent.Ceil() + fm.Descent.Ceil()
	switch {
	case inkFits && m.LineHeight != lineHeight:
		t.Errorf("expected line height %d, got %d", lineHeight, m.LineHeight)
	case !inkFits && m.LineHeight <= lineHeight:
		t.Errorf("expected line height above %d, got %d", lineHeight, m.LineHeight)
	}
	if m.Baseline < fm.Ascent.Ceil() {
		t.Errorf("baseline %d above ascent %d", m.Baseline, fm.Ascent.Ceil())
	}
}

type zeroAdvance struct{ font.Face }

func (zeroAdvance) GlyphAdvance(r rune) (fixed.Int26_6, bool) { return 0, true }

func TestMeasureEmpty(t *testing.T) {
	_, err := Measure(zeroAdvance{basicfont.Face7x13}, defaultSet, 13)
	if !errors.Is(err, ErrEmptyMetrics) {
		t.Fatalf("expected %v, got %v", ErrEmptyMetrics, err)
	}
}

func TestRender(t *testing.T) {
	face, err := fonts.Parse(gomono.TTF, fonts.Options{Size: 16})
	if err != nil {
		t.Fatal(err)
	}
	m, err := Measure(face, defaultSet, 16)
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]Options{
		"default": DefaultOptions,
		"mono":    {Fill: color.Black, Background: color.White, Levels: 2},
		"median":  {Fill: color.White, Background: color.Black, Levels: 8, Quantizer: MedianCut},
		"dither":  {Fill: color.Black, Background: color.White, Levels: 4, Dither: true},
	}
	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			img, err := Render(face, defaultSet, m, opts)
			if err != nil {
				t.Fatal(err)
			}
			b := img.Bounds()
			if b.Dx() != defaultSet.Len()*m.GlyphWidth || b.Dy() != m.LineHeight {
				t.Fatalf("expected %dx%d, got %dx%d",
					defaultSet.Len()*m.GlyphWidth, m.LineHeight, b.Dx(), b.Dy())
			}
			if len(img.Palette) > opts.Levels {
				t.Fatalf("palette has %d entries, limit %d", len(img.Palette), opts.Levels)
			}

			bg := uint8(img.Palette.Index(opts.Background))
			for i := range defaultSet.Len() {
				if !hasInk(img, m.Cell(i), bg) {
					t.Errorf("no ink in cell of %q", defaultSet.Runes()[i])
				}
			}

			again, err := Render(face, defaultSet, m, opts)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(img.Pix, again.Pix) {
				t.Fatal("rendering is not deterministic")
			}
		})
	}
}

func hasInk(img *image.Paletted, r image.Rectangle, bg uint8) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.ColorIndexAt(x, y) != bg {
				return true
			}
		}
	}
	return false
}

func TestRenderClipsToCell(t *testing.T) {
	m := Metrics{Size: 13, GlyphWidth: 3, LineHeight: 13, Baseline: 11}
	set := glyphs.MustNew("WM")
	img, err := Render(basicfont.Face7x13, set, m, DefaultOptions)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 6 {
		t.Fatalf("expected width 6, got %d", img.Bounds().Dx())
	}
}

func TestRenderLevels(t *testing.T) {
	m := Metrics{Size: 13, GlyphWidth: 7, LineHeight: 13, Baseline: 11}
	for _, levels := range []int{0, 1, 257} {
		opts := DefaultOptions
		opts.Levels = levels
		_, err := Render(basicfont.Face7x13, defaultSet, m, opts)
		if !errors.Is(err, ErrLevels) {
			t.Errorf("levels %d: expected %v, got %v", levels, ErrLevels, err)
		}
	}
}

func TestRenderTranslucent(t *testing.T) {
	m := Metrics{Size: 13, GlyphWidth: 7, LineHeight: 13, Baseline: 11}
	tests := map[string]Options{
		"transparent background": {Fill: color.Black, Background: color.Transparent, Levels: 16},
		"translucent fill":       {Fill: color.NRGBA{0, 0, 0, 0x80}, Background: color.White, Levels: 16},
		"no fill":                {Background: color.White, Levels: 16},
	}
	for name, opts := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Render(basicfont.Face7x13, defaultSet, m, opts)
			if !errors.Is(err, ErrTranslucent) {
				t.Fatalf("expected %v, got %v", ErrTranslucent, err)
			}
		})
	}
}

func TestRamp(t *testing.T) {
	p := ramp(color.White, color.Black, 5)
	if p[0] != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("expected background first, got %v", p[0])
	}
	if p[4] != (color.RGBA{0, 0, 0, 0xff}) {
		t.Errorf("expected fill last, got %v", p[4])
	}
	for i := 1; i < len(p); i++ {
		prev, cur := p[i-1].(color.RGBA), p[i].(color.RGBA)
		if cur.R >= prev.R {
			t.Errorf("entry %d not darker than %d: %v, %v", i, i-1, cur, prev)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := map[string]struct {
		color color.Color
		ok    bool
	}{
		"black":       {color.RGBA{0, 0, 0, 0xff}, true},
		"White":       {color.RGBA{0xff, 0xff, 0xff, 0xff}, true},
		"transparent": {nil, false},
		"#ff8000":     {color.RGBA{0xff, 0x80, 0x00, 0xff}, true},
		"#f80":        {color.RGBA{0xff, 0x88, 0x00, 0xff}, true},
		"#12345":      {nil, false},
		"#gggggg":     {nil, false},
		"blurple":     {nil, false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c, err := ParseColor(name)
			if (err == nil) != tc.ok {
				t.Fatalf("unexpected error %v", err)
			}
			if tc.ok && c != tc.color {
				t.Fatalf("expected %v, got %v", tc.color, c)
			}
		})
	}
}
