// Package strip renders a glyph set into a single row of equally sized
// cells, the font strip.
package strip

import (
	"errors"
	"fmt"
	"image"

	"github.com/clktmr/fontstrip/glyphs"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var ErrEmptyMetrics = errors.New("empty glyph metrics")

// Metrics describes the grid all glyphs are laid out on. Glyph i occupies
// the cell with x in [i*GlyphWidth, (i+1)*GlyphWidth) and its baseline at
// y = Baseline.
type Metrics struct {
	Size       int
	GlyphWidth int
	LineHeight int
	Baseline   int
}

// Bounds returns the bounds of a strip holding n glyphs.
func (m Metrics) Bounds(n int) image.Rectangle {
	return image.Rect(0, 0, n*m.GlyphWidth, m.LineHeight)
}

// Cell returns the bounds of glyph i.
func (m Metrics) Cell(i int) image.Rectangle {
	return image.Rect(i*m.GlyphWidth, 0, (i+1)*m.GlyphWidth, m.LineHeight)
}

// Measure derives the grid metrics of set rendered with face. The glyph
// width is the advance of a space. The line spans the font's ascent and
// descent, extended to cover any ink of the set reaching beyond them.
func Measure(face font.Face, set glyphs.Set, size int) (m Metrics, err error) {
	adv, ok := face.GlyphAdvance(' ')
	if !ok {
		return m, fmt.Errorf("%w: no advance for space", ErrEmptyMetrics)
	}

	fm := face.Metrics()
	top, bottom := -fm.Ascent, fm.Descent
	for _, r := range set.Runes() {
		b, _, ok := face.GlyphBounds(r)
		if !ok || b.Empty() {
			continue
		}
		top = min(top, b.Min.Y)
		bottom = max(bottom, b.Max.Y)
	}

	m = Metrics{
		Size:       size,
		GlyphWidth: adv.Ceil(),
		Baseline:   -top.Floor(),
	}
	m.LineHeight = m.Baseline + bottom.Ceil()
	if m.GlyphWidth <= 0 || m.LineHeight <= 0 {
		return m, fmt.Errorf("%w: %dx%d", ErrEmptyMetrics, m.GlyphWidth, m.LineHeight)
	}
	return m, nil
}

func dot(m Metrics, i int) fixed.Point26_6 {
	return fixed.P(i*m.GlyphWidth, m.Baseline)
}
