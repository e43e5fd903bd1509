package header

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/clktmr/fontstrip/bmp"
)

var ErrMismatch = errors.New("bitmap does not match font metrics")

// Image decodes the embedded bitmap and checks that it holds one cell of
// GlyphWidth x LineHeight pixels per lookup glyph.
func (f *File) Image() (*image.Paletted, error) {
	if len(f.Lookup) == 0 || f.GlyphWidth <= 0 || f.LineHeight <= 0 {
		return nil, fmt.Errorf("%w: %d glyphs of %dx%d",
			ErrMismatch, len(f.Lookup), f.GlyphWidth, f.LineHeight)
	}
	img, err := bmp.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() != len(f.Lookup)*f.GlyphWidth || b.Dy() != f.LineHeight {
		return nil, fmt.Errorf("%w: bitmap is %dx%d, expected %dx%d", ErrMismatch,
			b.Dx(), b.Dy(), len(f.Lookup)*f.GlyphWidth, f.LineHeight)
	}
	return img, nil
}
