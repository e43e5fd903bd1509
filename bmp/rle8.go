package bmp

import (
	"fmt"
	"image"
)

// RLE8 escapes, each following a zero count byte.
const (
	escEndOfLine   = 0
	escEndOfBitmap = 1
	escDelta       = 2
)

const maxRun = 255

// encodeRLE8 compresses the rows of img bottom-up. Repeats of three or more
// become encoded runs, other stretches of at least three pixels use absolute
// mode.
func encodeRLE8(img *image.Paletted) []byte {
	b := img.Bounds()
	var dst []byte
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		i := img.PixOffset(b.Min.X, y)
		dst = encodeRow(dst, img.Pix[i:i+b.Dx()])
		if y > b.Min.Y {
			dst = append(dst, 0, escEndOfLine)
		}
	}
	return append(dst, 0, escEndOfBitmap)
}

func encodeRow(dst, row []byte) []byte {
	for i := 0; i < len(row); {
		if n := runLength(row[i:]); n >= 3 {
			dst = append(dst, byte(n), row[i])
			i += n
			continue
		}

		j := i
		for j < len(row) && j-i < maxRun && runLength(row[j:]) < 3 {
			j++
		}
		lit := row[i:j]
		i = j

		if len(lit) < 3 {
			// Absolute mode needs at least three pixels.
			for k := 0; k < len(lit); {
				n := runLength(lit[k:])
				dst = append(dst, byte(n), lit[k])
				k += n
			}
			continue
		}
		dst = append(dst, 0, byte(len(lit)))
		dst = append(dst, lit...)
		if len(lit)%2 != 0 {
			dst = append(dst, 0)
		}
	}
	return dst
}

func runLength(p []byte) int {
	n := 1
	for n < len(p) && n < maxRun && p[n] == p[0] {
		n++
	}
	return n
}

func decodeRLE8(img *image.Paletted, data []byte) error {
	b := img.Bounds()
	x, y := b.Min.X, b.Max.Y-1
	set := func(v byte) error {
		if x >= b.Max.X || y < b.Min.Y {
			return fmt.Errorf("%w: pixel (%d,%d) outside %v", ErrFormat, x, y, b)
		}
		img.Pix[img.PixOffset(x, y)] = v
		x++
		return nil
	}

	for pos := 0; pos+1 < len(data); {
		n, v := data[pos], data[pos+1]
		pos += 2

		if n > 0 {
			for range n {
				if err := set(v); err != nil {
					return err
				}
			}
			continue
		}

		switch v {
		case escEndOfLine:
			x, y = b.Min.X, y-1
		case escEndOfBitmap:
			return nil
		case escDelta:
			if pos+1 >= len(data) {
				return fmt.Errorf("%w: truncated delta", ErrFormat)
			}
			x += int(data[pos])
			y -= int(data[pos+1])
			pos += 2
		default:
			end := pos + int(v)
			if end > len(data) {
				return fmt.Errorf("%w: truncated absolute run", ErrFormat)
			}
			for _, c := range data[pos:end] {
				if err := set(c); err != nil {
					return err
				}
			}
			pos = end + int(v)%2
		}
	}
	return nil
}
