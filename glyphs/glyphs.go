// Package glyphs defines the ordered set of characters rendered into a font
// strip and their representation in the generated lookup string.
package glyphs

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// Default is the glyph set of the strip in render order. Whitespace is
// stripped by New.
const Default = `
	abcdefghijklmnopqrstuvwxyz
	ABCDEFGHIJKLMNOPQRSTUVWXYZ
	0123456789
	!@#$%^&*
	()-_=+
	[]{}:;'"
	,.<>/?|\
`

var (
	ErrEmpty       = errors.New("empty glyph set")
	ErrDuplicate   = errors.New("duplicate glyph")
	ErrUnencodable = errors.New("glyph not representable in a single byte")
)

// The lookup string is indexed bytewise by the renderer, so every glyph must
// map to exactly one byte.
var lookupCharmap = charmap.Windows1252

// Set is an immutable, ordered sequence of distinct glyphs.
type Set struct {
	runes []rune
	index map[rune]int
}

// New returns the set of glyphs in s with all whitespace removed.
func New(s string) (Set, error) {
	stripped := strings.Join(strings.Fields(s), "")
	if stripped == "" {
		return Set{}, ErrEmpty
	}

	set := Set{index: make(map[rune]int)}
	for _, r := range stripped {
		if _, ok := set.index[r]; ok {
			return Set{}, fmt.Errorf("%w: %q", ErrDuplicate, r)
		}
		if _, ok := lookupCharmap.EncodeRune(r); !ok || !unicode.IsGraphic(r) {
			return Set{}, fmt.Errorf("%w: %q", ErrUnencodable, r)
		}
		set.index[r] = len(set.runes)
		set.runes = append(set.runes, r)
	}
	return set, nil
}

// MustNew is like New but panics on error.
func MustNew(s string) Set {
	set, err := New(s)
	if err != nil {
		panic(err)
	}
	return set
}

func (s Set) Len() int { return len(s.runes) }

func (s Set) String() string { return string(s.runes) }

// Runes returns a copy of the glyphs in render order.
func (s Set) Runes() []rune {
	return append([]rune(nil), s.runes...)
}

// Index returns the position of r in the strip, or -1.
func (s Set) Index(r rune) int {
	if i, ok := s.index[r]; ok {
		return i
	}
	return -1
}

// Bytes returns the lookup string in its single byte encoding. Byte i is
// glyph i.
func (s Set) Bytes() []byte {
	b := make([]byte, len(s.runes))
	for i, r := range s.runes {
		b[i], _ = lookupCharmap.EncodeRune(r)
	}
	return b
}

// Decode converts a lookup string back to runes.
func Decode(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		sb.WriteRune(lookupCharmap.DecodeByte(c))
	}
	return sb.String()
}
