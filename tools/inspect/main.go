// Package inspect checks a generated font header and prints its metrics.
package inspect

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/clktmr/fontstrip/bmp"
	"github.com/clktmr/fontstrip/glyphs"
	"github.com/clktmr/fontstrip/header"
)

var ErrUsage = errors.New("usage error")

const usageString = `Font header inspector.

Usage: %s [flags] <header>

Flags:
`

// Run parses the header named in args, verifies its bitmap and reports the
// metrics to w. args[0] is the command name.
func Run(args []string, w io.Writer) error {
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(w)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), usageString, args[0])
		flags.PrintDefaults()
	}
	bmpfile := flags.String("bmp", "", "also write the strip as uncompressed BMP")

	if err := flags.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if flags.NArg() != 1 {
		flags.Usage()
		return fmt.Errorf("%w: expected one header", ErrUsage)
	}

	r, err := os.Open(flags.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()

	f, err := header.Parse(r)
	if err != nil {
		return err
	}
	img, err := f.Image()
	if err != nil {
		return err
	}
	_, compression, err := bmp.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "font:   %s\n", f.FontName)
	fmt.Fprintf(w, "guard:  %s\n", f.Guard)
	fmt.Fprintf(w, "size:   %dpx\n", f.Size)
	fmt.Fprintf(w, "glyphs: %d %q\n", len(f.Lookup), glyphs.Decode(f.Lookup))
	fmt.Fprintf(w, "cell:   %dx%d\n", f.GlyphWidth, f.LineHeight)
	fmt.Fprintf(w, "bitmap: %dx%d %v, %d colors, %d bytes, CRC-8 0x%02X\n",
		img.Rect.Dx(), img.Rect.Dy(), compression, len(img.Palette), len(f.Data), header.Checksum(f.Data))

	if *bmpfile == "" {
		return nil
	}
	out, err := os.Create(*bmpfile)
	if err != nil {
		return err
	}
	if err := bmp.Encode(out, img, bmp.None); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func Main(args []string) {
	err := Run(args, os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errors.Is(err, ErrUsage):
		log.Println(err)
		os.Exit(2)
	default:
		log.Fatalln(err)
	}
}
