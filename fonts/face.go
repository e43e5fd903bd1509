// Package fonts loads scalable fonts at a fixed pixel size.
package fonts

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// At 72 DPI one point equals one pixel, so Size is a pixel size.
const DPI = 72

var ErrHinting = errors.New("unknown hinting")

type Options struct {
	Size    float64
	Hinting font.Hinting
}

// Face is a font.Face that also knows the name of its font and which
// runes the font actually has outlines for.
type Face struct {
	font.Face
	Name string

	hasGlyph func(r rune) bool
}

// Load reads and parses the font file at path.
func Load(path string, opts Options) (*Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts)
}

// Parse parses TrueType or OpenType font data. TrueType outlines go through
// freetype; everything freetype rejects, e.g. CFF based OpenType, is
// retried with the sfnt parser.
func Parse(data []byte, opts Options) (*Face, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("invalid font size %g", opts.Size)
	}

	ttf, ttfErr := freetype.ParseFont(data)
	if ttfErr == nil {
		return &Face{
			Face: truetype.NewFace(ttf, &truetype.Options{
				Size:    opts.Size,
				DPI:     DPI,
				Hinting: opts.Hinting,
			}),
			Name:     ttf.Name(truetype.NameIDFontFullName),
			hasGlyph: func(r rune) bool { return ttf.Index(r) != 0 },
		}, nil
	}

	otf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("truetype: %v, opentype: %w", ttfErr, err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    opts.Size,
		DPI:     DPI,
		Hinting: opts.Hinting,
	})
	if err != nil {
		return nil, err
	}
	var buf sfnt.Buffer
	name, _ := otf.Name(&buf, sfnt.NameIDFull)
	return &Face{
		Face: face,
		Name: name,
		hasGlyph: func(r rune) bool {
			idx, err := otf.GlyphIndex(&buf, r)
			return err == nil && idx != 0
		},
	}, nil
}

// Missing returns the runes the font has no glyph for, in input order.
func (f *Face) Missing(runes []rune) (missing []rune) {
	for _, r := range runes {
		if !f.hasGlyph(r) {
			missing = append(missing, r)
		}
	}
	return
}

// ParseHinting maps a hinting name as accepted on the command line to
// font.Hinting.
func ParseHinting(s string) (font.Hinting, error) {
	switch s {
	case "none", "":
		return font.HintingNone, nil
	case "vertical":
		return font.HintingVertical, nil
	case "full":
		return font.HintingFull, nil
	}
	return font.HintingNone, fmt.Errorf("%w: %q", ErrHinting, s)
}
