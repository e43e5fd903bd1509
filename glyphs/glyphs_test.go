package glyphs

import (
	"bytes"
	"errors"
	"testing"
)

const defaultLookup = `abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()-_=+[]{}:;'",.<>/?|\`

func TestDefault(t *testing.T) {
	set := MustNew(Default)
	if set.String() != defaultLookup {
		t.Fatalf("expected %q, got %q", defaultLookup, set.String())
	}
	if set.Len() != 92 {
		t.Fatalf("expected 92 glyphs, got %d", set.Len())
	}
	if !bytes.Equal(set.Bytes(), []byte(defaultLookup)) {
		t.Fatalf("ascii glyphs must encode to themselves")
	}
	for i, r := range set.Runes() {
		if set.Index(r) != i {
			t.Fatalf("index of %q: expected %d, got %d", r, i, set.Index(r))
		}
	}
	if set.Index(' ') != -1 {
		t.Fatal("space must not be part of the set")
	}
}

func TestNew(t *testing.T) {
	tests := map[string]struct {
		in     string
		lookup string
		err    error
	}{
		"whitespace": {" a\tb\nc ", "abc", nil},
		"empty":      {" \n\t", "", ErrEmpty},
		"duplicate":  {"aba", "", ErrDuplicate},
		"latin1":     {"äöü€", "äöü€", nil},
		"cjk":        {"a漢", "", ErrUnencodable},
		"control":    {"a\x01", "", ErrUnencodable},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			set, err := New(tc.in)
			if !errors.Is(err, tc.err) {
				t.Fatalf("expected %v, got %v", tc.err, err)
			}
			if err == nil && set.String() != tc.lookup {
				t.Fatalf("expected %q, got %q", tc.lookup, set.String())
			}
		})
	}
}

func TestBytesDecode(t *testing.T) {
	set := MustNew("aä€")
	b := set.Bytes()
	if !bytes.Equal(b, []byte{'a', 0xe4, 0x80}) {
		t.Fatalf("unexpected encoding % x", b)
	}
	if Decode(b) != set.String() {
		t.Fatalf("expected %q, got %q", set.String(), Decode(b))
	}
}

func TestEscape(t *testing.T) {
	tests := map[string]struct {
		in  []byte
		out string
	}{
		"plain":     {[]byte("abc"), "abc"},
		"quote":     {[]byte(`a"b`), `a\"b`},
		"backslash": {[]byte(`|\`), `|\\`},
		"both":      {[]byte(`\"`), `\\\"`},
		"high":      {[]byte{0xe4, '1'}, `\3441`},
		"nul":       {[]byte{0, '7'}, `\0007`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := Escape(tc.in)
			if got != tc.out {
				t.Fatalf("expected %s, got %s", tc.out, got)
			}
			back, err := Unescape(got)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(back, tc.in) {
				t.Fatalf("expected % x, got % x", tc.in, back)
			}
		})
	}
}

func TestUnescapeErrors(t *testing.T) {
	for _, s := range []string{`abc\`, `\q`, `\777`} {
		if _, err := Unescape(s); !errors.Is(err, ErrEscape) {
			t.Errorf("%s: expected %v, got %v", s, ErrEscape, err)
		}
	}
}
