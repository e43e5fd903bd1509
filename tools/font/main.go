// Package font implements the fontstrip generator: it renders a glyph set
// from a TrueType or OpenType font into a monospace strip and writes it,
// together with its metrics, as a C++ header.
package font

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/clktmr/fontstrip/bmp"
	"github.com/clktmr/fontstrip/fonts"
	"github.com/clktmr/fontstrip/glyphs"
	"github.com/clktmr/fontstrip/header"
	"github.com/clktmr/fontstrip/strip"
	"github.com/joho/godotenv"
	"golang.org/x/image/font"
)

var (
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrFontLoad         = errors.New("loading font failed")
	ErrRasterize        = errors.New("rasterizing font failed")
	ErrOutputWrite      = errors.New("writing output failed")
)

const (
	DefaultOutput = "Source/Font.hpp"
	MaxSize       = 1024
)

// Config holds the settings of one generator run.
type Config struct {
	Size        int
	FontFile    string
	Output      string
	Glyphs      string
	Hinting     font.Hinting
	Strip       strip.Options
	Compression bmp.Compression
	Verify      bool
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Output:      DefaultOutput,
		Glyphs:      glyphs.Default,
		Hinting:     font.HintingNone,
		Strip:       strip.DefaultOptions,
		Compression: bmp.RLE8,
		Verify:      true,
	}
}

// Build renders the strip described by cfg and returns the header content
// without writing it.
func Build(cfg Config) (*header.File, error) {
	if cfg.Size <= 0 || cfg.Size > MaxSize {
		return nil, fmt.Errorf("%w: font size %d not in 1..%d", ErrInvalidArguments, cfg.Size, MaxSize)
	}
	if cfg.FontFile == "" {
		return nil, fmt.Errorf("%w: no font file", ErrInvalidArguments)
	}
	if cfg.Strip.Levels < 2 || cfg.Strip.Levels > 256 {
		return nil, fmt.Errorf("%w: %d palette levels not in 2..256", ErrInvalidArguments, cfg.Strip.Levels)
	}
	if !strip.Opaque(cfg.Strip.Fill) || !strip.Opaque(cfg.Strip.Background) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArguments, strip.ErrTranslucent)
	}
	set, err := glyphs.New(cfg.Glyphs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	face, err := fonts.Load(cfg.FontFile, fonts.Options{
		Size:    float64(cfg.Size),
		Hinting: cfg.Hinting,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFontLoad, err)
	}
	defer face.Close()

	// The space is needed for the advance.
	if missing := face.Missing(append(set.Runes(), ' ')); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s has no glyphs for %q", ErrFontLoad, cfg.FontFile, string(missing))
	}

	m, err := strip.Measure(face, set, cfg.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}
	img, err := strip.Render(face, set, m, cfg.Strip)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img, cfg.Compression); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
	}

	f := &header.File{
		Guard:      header.GuardName(cfg.Output),
		FontName:   face.Name,
		Size:       m.Size,
		GlyphWidth: m.GlyphWidth,
		LineHeight: m.LineHeight,
		Lookup:     set.Bytes(),
		Data:       buf.Bytes(),
	}
	if cfg.Verify {
		if err := verify(f, img); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRasterize, err)
		}
	}
	return f, nil
}

// verify decodes the encoded bitmap again and compares it to the rendered
// one.
func verify(f *header.File, rendered *image.Paletted) error {
	img, err := f.Image()
	if err != nil {
		return err
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.ColorIndexAt(x, y) != rendered.ColorIndexAt(x, y) {
				return fmt.Errorf("encoded bitmap differs at (%d,%d)", x, y)
			}
		}
	}
	return nil
}

// Generate builds the header and replaces cfg.Output with it.
func Generate(cfg Config) (*header.File, error) {
	f, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	if err := writeFile(cfg.Output, f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return f, nil
}

// writeFile writes next to path and renames, so path is either the old or
// the complete new header.
func writeFile(path string, f *header.File) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0775); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".fontstrip-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = header.Write(tmp, f); err != nil {
		return err
	}
	if err = tmp.Chmod(0644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

const usageString = `TrueType font to monospace bitmap strip converter.

Usage:

	%[1]s --font-size <pixels> --ttf-file <font> [flags]
	%[1]s inspect [flags] <header>

Environment defaults: FONTSTRIP_FONT_SIZE, FONTSTRIP_TTF_FILE,
FONTSTRIP_OUTPUT, loaded from $FONTSTRIP_ENV or ./.env if present.

Flags:
`

// parseArgs turns the command line into a Config. args[0] is the program
// name.
func parseArgs(args []string, output io.Writer) (cfg Config, err error) {
	cfg = DefaultConfig()
	name := filepath.Base(args[0])

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(output)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), usageString, name)
		flags.PrintDefaults()
	}

	var envSize int
	if v := os.Getenv("FONTSTRIP_FONT_SIZE"); v != "" {
		if envSize, err = strconv.Atoi(v); err != nil {
			return cfg, fmt.Errorf("%w: FONTSTRIP_FONT_SIZE: %w", ErrInvalidArguments, err)
		}
	}
	flags.IntVar(&cfg.Size, "font-size", envSize, "font size in pixels")
	flags.StringVar(&cfg.FontFile, "ttf-file", os.Getenv("FONTSTRIP_TTF_FILE"), "TrueType or OpenType font file")
	flags.StringVar(&cfg.Output, "o", envOr("FONTSTRIP_OUTPUT", DefaultOutput), "output header, overwritten")
	customGlyphs := flags.String("glyphs", "", "glyphs in render order instead of the built-in set, whitespace is ignored")
	hinting := flags.String("hinting", "none", "none | vertical | full")
	fill := flags.String("fill", "black", "glyph color, name or #rrggbb")
	background := flags.String("background", "white", "background color, name or #rrggbb")
	flags.IntVar(&cfg.Strip.Levels, "levels", cfg.Strip.Levels, "number of palette entries, 2 to 256")
	quantizer := flags.String("quantizer", cfg.Strip.Quantizer.String(), "ramp | median")
	flags.BoolVar(&cfg.Strip.Dither, "dither", false, "enable Floyd-Steinberg error diffusion")
	compression := flags.String("compression", cfg.Compression.String(), "rle8 | none")
	flags.BoolVar(&cfg.Verify, "verify", true, "decode the bitmap again before writing")

	if err = flags.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	switch flags.NArg() {
	case 0:
	case 1:
		if cfg.FontFile != "" {
			return cfg, fmt.Errorf("%w: font given twice", ErrInvalidArguments)
		}
		cfg.FontFile = flags.Arg(0)
	default:
		flags.Usage()
		return cfg, fmt.Errorf("%w: unexpected arguments %q", ErrInvalidArguments, flags.Args())
	}

	if *customGlyphs != "" {
		cfg.Glyphs = *customGlyphs
	}
	if cfg.Hinting, err = fonts.ParseHinting(*hinting); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	if cfg.Strip.Fill, err = strip.ParseColor(*fill); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	if cfg.Strip.Background, err = strip.ParseColor(*background); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	if cfg.Strip.Quantizer, err = strip.ParseQuantizer(*quantizer); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	if cfg.Compression, err = bmp.ParseCompression(*compression); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// LoadEnv reads the dotenv file named by FONTSTRIP_ENV, or ./.env if it
// exists. Variables already set in the environment win.
func LoadEnv() error {
	path := os.Getenv("FONTSTRIP_ENV")
	if path == "" {
		path = ".env"
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	return godotenv.Load(path)
}

// Run parses args and generates the header.
func Run(args []string, output io.Writer) (*header.File, error) {
	cfg, err := parseArgs(args, output)
	if err != nil {
		return nil, err
	}
	f, err := Generate(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("%s: %d glyphs of %s at %dpx, %dx%d cells, %d byte bitmap",
		cfg.Output, len(f.Lookup), f.FontName, f.Size, f.GlyphWidth, f.LineHeight, len(f.Data))
	return f, nil
}

func Main(args []string) {
	if err := LoadEnv(); err != nil {
		log.Println(err)
		os.Exit(2)
	}
	_, err := Run(args, os.Stderr)
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case errors.Is(err, ErrInvalidArguments):
		log.Println(err)
		os.Exit(2)
	default:
		log.Fatalln(err)
	}
}
