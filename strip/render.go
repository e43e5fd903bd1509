package strip

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/clktmr/fontstrip/glyphs"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/font"
)

var ErrLevels = errors.New("palette size out of range")

type Quantizer int

const (
	// Ramp spaces the palette evenly between background and fill.
	Ramp Quantizer = iota
	// MedianCut derives the palette from the rendered colors.
	MedianCut
)

func (q Quantizer) String() string {
	switch q {
	case Ramp:
		return "ramp"
	case MedianCut:
		return "median"
	}
	return fmt.Sprintf("Quantizer(%d)", int(q))
}

func ParseQuantizer(s string) (Quantizer, error) {
	switch s {
	case "ramp":
		return Ramp, nil
	case "median":
		return MedianCut, nil
	}
	return 0, fmt.Errorf("unknown quantizer %q", s)
}

type Options struct {
	Fill       color.Color
	Background color.Color
	Levels     int // number of palette entries, 2 to 256
	Quantizer  Quantizer
	Dither     bool // Floyd-Steinberg error diffusion
}

var DefaultOptions = Options{
	Fill:       color.Black,
	Background: color.White,
	Levels:     16,
	Quantizer:  Ramp,
}

// Render draws every glyph of set into its cell and returns the indexed
// strip. Ink is clipped to the glyph's cell.
func Render(face font.Face, set glyphs.Set, m Metrics, opts Options) (*image.Paletted, error) {
	if opts.Levels < 2 || opts.Levels > 256 {
		return nil, fmt.Errorf("%w: %d", ErrLevels, opts.Levels)
	}
	if m.GlyphWidth <= 0 || m.LineHeight <= 0 {
		return nil, ErrEmptyMetrics
	}
	if !Opaque(opts.Fill) || !Opaque(opts.Background) {
		return nil, ErrTranslucent
	}

	bounds := m.Bounds(set.Len())
	mask := image.NewAlpha(bounds)
	for i, r := range set.Runes() {
		cell := mask.SubImage(m.Cell(i)).(*image.Alpha)
		drawer := font.Drawer{Dst: cell, Src: image.Opaque, Face: face, Dot: dot(m, i)}
		drawer.DrawString(string(r))
	}

	rgba := image.NewRGBA(bounds)
	composite(rgba, mask, opts.Background, opts.Fill)

	var palette color.Palette
	switch opts.Quantizer {
	case Ramp:
		palette = ramp(opts.Background, opts.Fill, opts.Levels)
	case MedianCut:
		q := quantize.MedianCutQuantizer{}
		palette = q.Quantize(make(color.Palette, 0, opts.Levels), rgba)
	default:
		return nil, fmt.Errorf("unknown quantizer %v", opts.Quantizer)
	}

	dst := image.NewPaletted(bounds, palette)
	var d draw.Drawer = draw.Src
	if opts.Dither {
		d = draw.FloydSteinberg
	}
	d.Draw(dst, bounds, rgba, bounds.Min)
	return dst, nil
}

// composite paints fill over bg through the coverage mask.
func composite(dst draw.Image, mask image.Image, bg, fill color.Color) {
	r := dst.Bounds()
	draw.Draw(dst, r, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.DrawMask(dst, r, image.NewUniform(fill), image.Point{}, mask, r.Min, draw.Over)
}

// ramp returns n colors blending from bg (index 0) to fill (index n-1),
// composited exactly like the strip itself.
func ramp(bg, fill color.Color, n int) color.Palette {
	mask := image.NewAlpha(image.Rect(0, 0, n, 1))
	for i := range n {
		mask.Pix[i] = uint8((i*0xff + (n-1)/2) / (n - 1))
	}
	px := image.NewRGBA(mask.Rect)
	composite(px, mask, bg, fill)

	palette := make(color.Palette, n)
	for i := range n {
		palette[i] = px.RGBAAt(i, 0)
	}
	return palette
}
