// Package header reads and writes the C++ header embedding a font strip.
package header

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/clktmr/fontstrip/glyphs"
	"github.com/sigurn/crc8"
)

// File is the content of a generated header.
type File struct {
	Guard      string
	FontName   string
	Size       int
	GlyphWidth int
	LineHeight int
	Lookup     []byte // glyph i is Lookup[i]
	Data       []byte // BMP file
}

var crcTable = crc8.MakeTable(crc8.CRC8)

// Checksum returns the CRC-8 of data as noted above the byte array.
func Checksum(data []byte) uint8 {
	return crc8.Checksum(data, crcTable)
}

// GuardName derives the include guard from the header's file name.
func GuardName(path string) string {
	var sb strings.Builder
	for i, r := range strings.ToUpper(filepath.Base(path)) {
		switch {
		case r >= 'A' && r <= 'Z', r == '_':
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

const bytesPerLine = 32

// HexDump formats data as the body of a C array initializer.
func HexDump(data []byte) string {
	var sb strings.Builder
	for len(data) > 0 {
		n := min(bytesPerLine, len(data))
		sb.WriteString("    ")
		for i, b := range data[:n] {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "0x%02X", b)
		}
		sb.WriteString(",\n")
		data = data[n:]
	}
	return sb.String()
}

var tmpl = template.Must(template.New("header").Funcs(template.FuncMap{
	"escape":   glyphs.Escape,
	"hexdump":  HexDump,
	"checksum": Checksum,
	"oneline":  func(s string) string { return strings.Join(strings.Fields(s), " ") },
}).Parse(headerTemplate))

// Write renders f.
func Write(w io.Writer, f *File) error {
	if f.Guard == "" {
		return fmt.Errorf("%w: missing include guard", ErrSyntax)
	}
	return tmpl.Execute(w, f)
}

const headerTemplate = `// Code generated by fontstrip{{ with oneline .FontName }} from {{ . }}{{ end }}. DO NOT EDIT.

#ifndef {{ .Guard }}
#define {{ .Guard }}

#include <cstdint>

static const int FONT_SIZE = {{ .Size }};

static const int FONT_GLYPH_WIDTH = {{ .GlyphWidth }};

static const int FONT_LINE_HEIGHT = {{ .LineHeight }};

static const char * FONT_GLYPH_LOOKUP = "{{ escape .Lookup }}";

// CRC-8 {{ printf "0x%02X" (checksum .Data) }}
static const uint8_t FONT_BMP[] = {
{{ hexdump .Data }}};

#endif // {{ .Guard }}
`
