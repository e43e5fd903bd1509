package glyphs

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEscape = errors.New("malformed escape sequence")

// Escape returns b as the body of a C string literal. Bytes outside printable
// ASCII are written as three digit octal escapes, which unlike \x escapes
// never consume the characters that follow.
func Escape(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			fmt.Fprintf(&sb, `\%03o`, c)
		}
	}
	return sb.String()
}

// Unescape reverses Escape.
func Unescape(s string) ([]byte, error) {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b = append(b, c)
			continue
		}
		i++
		if i >= len(s) {
			return nil, fmt.Errorf("%w: trailing backslash", ErrEscape)
		}
		switch c = s[i]; {
		case c == '\\' || c == '"' || c == '\'' || c == '?':
			b = append(b, c)
		case c >= '0' && c <= '7':
			v := 0
			n := 0
			for ; n < 3 && i < len(s) && s[i] >= '0' && s[i] <= '7'; n++ {
				v = v<<3 | int(s[i]-'0')
				i++
			}
			i--
			if v > 0xff {
				return nil, fmt.Errorf("%w: octal value %o", ErrEscape, v)
			}
			b = append(b, byte(v))
		default:
			return nil, fmt.Errorf("%w: \\%c", ErrEscape, c)
		}
	}
	return b, nil
}
