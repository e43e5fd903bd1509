// Package bmp reads and writes 8-bit indexed Windows bitmaps, with or
// without RLE8 compression.
package bmp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	xbmp "golang.org/x/image/bmp"
)

var (
	ErrFormat      = errors.New("bmp: invalid format")
	ErrUnsupported = errors.New("bmp: unsupported format")
)

type Compression uint32

const (
	None Compression = 0 // BI_RGB
	RLE8 Compression = 1 // BI_RLE8
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case RLE8:
		return "rle8"
	}
	return fmt.Sprintf("Compression(%d)", uint32(c))
}

func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none":
		return None, nil
	case "rle8":
		return RLE8, nil
	}
	return 0, fmt.Errorf("%w: compression %q", ErrUnsupported, s)
}

const (
	fileHeaderLen = 14
	infoHeaderLen = 40

	pixelsPerMeter = 2835 // 72 DPI
)

// header is BITMAPFILEHEADER followed by BITMAPINFOHEADER.
type header struct {
	Magic           [2]byte
	FileSize        uint32
	Reserved        uint32
	PixOffset       uint32
	InfoSize        uint32
	Width, Height   int32
	Planes          uint16
	BitCount        uint16
	Compression     Compression
	ImageSize       uint32
	XPPM, YPPM      int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// Encode writes img as an 8-bit indexed bitmap.
func Encode(w io.Writer, img *image.Paletted, c Compression) error {
	b := img.Bounds()
	if b.Empty() || b.Dx() > math.MaxInt32 || b.Dy() > math.MaxInt32 {
		return fmt.Errorf("%w: size %dx%d", ErrFormat, b.Dx(), b.Dy())
	}
	if len(img.Palette) == 0 || len(img.Palette) > 256 {
		return fmt.Errorf("%w: %d palette entries", ErrFormat, len(img.Palette))
	}

	switch c {
	case None:
		return xbmp.Encode(w, img)
	case RLE8:
	default:
		return fmt.Errorf("%w: %v", ErrUnsupported, c)
	}

	pixels := encodeRLE8(img)
	palette := encodePalette(img.Palette)
	offset := fileHeaderLen + infoHeaderLen + len(palette)
	hdr := header{
		Magic:       [2]byte{'B', 'M'},
		FileSize:    uint32(offset + len(pixels)),
		PixOffset:   uint32(offset),
		InfoSize:    infoHeaderLen,
		Width:       int32(b.Dx()),
		Height:      int32(b.Dy()),
		Planes:      1,
		BitCount:    8,
		Compression: RLE8,
		ImageSize:   uint32(len(pixels)),
		XPPM:        pixelsPerMeter,
		YPPM:        pixelsPerMeter,
		ColorsUsed:  uint32(len(img.Palette)),
	}

	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	if _, err := w.Write(palette); err != nil {
		return err
	}
	_, err := w.Write(pixels)
	return err
}

func encodePalette(p color.Palette) []byte {
	buf := make([]byte, 0, 4*len(p))
	for _, c := range p {
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		buf = append(buf, nc.B, nc.G, nc.R, 0)
	}
	return buf
}

// DecodeConfig returns the dimensions, palette and compression of a bitmap
// without decoding its pixels.
func DecodeConfig(r io.Reader) (image.Config, Compression, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, 0, err
	}
	hdr, palette, err := decodeHeader(data)
	if err != nil {
		return image.Config{}, 0, err
	}
	return image.Config{
		ColorModel: palette,
		Width:      int(hdr.Width),
		Height:     int(abs(hdr.Height)),
	}, hdr.Compression, nil
}

// Decode reads an 8-bit indexed bitmap.
func Decode(r io.Reader) (*image.Paletted, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	hdr, palette, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	switch hdr.Compression {
	case None:
		img, err := xbmp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		p, ok := img.(*image.Paletted)
		if !ok {
			return nil, fmt.Errorf("%w: not an indexed image", ErrUnsupported)
		}
		return p, nil
	case RLE8:
		if hdr.Height < 0 {
			return nil, fmt.Errorf("%w: top-down RLE8", ErrFormat)
		}
		if int(hdr.PixOffset) > len(data) {
			return nil, fmt.Errorf("%w: pixel offset %d", ErrFormat, hdr.PixOffset)
		}
		img := image.NewPaletted(image.Rect(0, 0, int(hdr.Width), int(hdr.Height)), palette)
		if err := decodeRLE8(img, data[hdr.PixOffset:]); err != nil {
			return nil, err
		}
		return img, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupported, hdr.Compression)
}

func decodeHeader(data []byte) (hdr header, palette color.Palette, err error) {
	if len(data) < fileHeaderLen+infoHeaderLen {
		return hdr, nil, fmt.Errorf("%w: short header", ErrFormat)
	}
	if err = binary.Read(bytes.NewReader(data), binary.LittleEndian, &hdr); err != nil {
		return hdr, nil, err
	}
	if hdr.Magic != [2]byte{'B', 'M'} {
		return hdr, nil, fmt.Errorf("%w: bad magic %q", ErrFormat, hdr.Magic[:])
	}
	if hdr.InfoSize < infoHeaderLen || hdr.Width <= 0 || hdr.Height == 0 {
		return hdr, nil, fmt.Errorf("%w: %d byte info header, %dx%d",
			ErrFormat, hdr.InfoSize, hdr.Width, hdr.Height)
	}
	if hdr.BitCount != 8 {
		return hdr, nil, fmt.Errorf("%w: %d bits per pixel", ErrUnsupported, hdr.BitCount)
	}

	n := int(hdr.ColorsUsed)
	if n == 0 {
		n = 256
	}
	start := fileHeaderLen + int(hdr.InfoSize)
	if n > 256 || start+4*n > len(data) {
		return hdr, nil, fmt.Errorf("%w: %d palette entries", ErrFormat, n)
	}
	palette = make(color.Palette, n)
	for i := range palette {
		e := data[start+4*i:]
		palette[i] = color.RGBA{e[2], e[1], e[0], 0xff}
	}
	return hdr, palette, nil
}

func abs(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
