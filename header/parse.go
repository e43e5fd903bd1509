package header

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/clktmr/fontstrip/glyphs"
)

var (
	ErrSyntax   = errors.New("malformed font header")
	ErrChecksum = errors.New("font data checksum mismatch")
)

var (
	reGenerated = regexp.MustCompile(`(?m)^// Code generated by fontstrip(?: from (.*))?\. DO NOT EDIT\.$`)
	reGuard     = regexp.MustCompile(`(?m)^#ifndef (\w+)$`)
	reInt       = regexp.MustCompile(`(?m)^static const int (\w+) = (-?\d+);$`)
	reLookup    = regexp.MustCompile(`(?m)^static const char \* FONT_GLYPH_LOOKUP = "((?:[^"\\]|\\.)*)";$`)
	reChecksum  = regexp.MustCompile(`(?m)^// CRC-8 0x([0-9A-Fa-f]{2})$`)
	reData      = regexp.MustCompile(`static const uint8_t FONT_BMP\[\] = \{([^}]*)\};`)
)

// Parse reads back a header produced by Write. If the header carries a
// checksum it has to match the data.
func Parse(r io.Reader) (*File, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := string(src)
	f := &File{}

	if m := reGenerated.FindStringSubmatch(text); m != nil {
		f.FontName = m[1]
	}
	m := reGuard.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("%w: no include guard", ErrSyntax)
	}
	f.Guard = m[1]

	ints := map[string]*int{
		"FONT_SIZE":        &f.Size,
		"FONT_GLYPH_WIDTH": &f.GlyphWidth,
		"FONT_LINE_HEIGHT": &f.LineHeight,
	}
	seen := 0
	for _, m := range reInt.FindAllStringSubmatch(text, -1) {
		p, ok := ints[m[1]]
		if !ok {
			continue
		}
		if *p, err = strconv.Atoi(m[2]); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSyntax, m[1], err)
		}
		seen++
	}
	if seen != len(ints) {
		return nil, fmt.Errorf("%w: missing metrics", ErrSyntax)
	}

	if m = reLookup.FindStringSubmatch(text); m == nil {
		return nil, fmt.Errorf("%w: no glyph lookup", ErrSyntax)
	}
	if f.Lookup, err = glyphs.Unescape(m[1]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	if m = reData.FindStringSubmatch(text); m == nil {
		return nil, fmt.Errorf("%w: no bitmap data", ErrSyntax)
	}
	if f.Data, err = parseBytes(m[1]); err != nil {
		return nil, err
	}

	if m = reChecksum.FindStringSubmatch(text); m != nil {
		want, _ := strconv.ParseUint(m[1], 16, 8)
		if got := Checksum(f.Data); uint64(got) != want {
			return nil, fmt.Errorf("%w: expected 0x%02X, got 0x%02X", ErrChecksum, want, got)
		}
	}
	return f, nil
}

func parseBytes(s string) ([]byte, error) {
	var data []byte
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseUint(tok, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: byte %q", ErrSyntax, tok)
		}
		data = append(data, byte(v))
	}
	return data, nil
}
