// Command fontstrip renders a fixed glyph set of a TrueType font into a
// monospace bitmap strip and writes it as a C++ header.
//
//	fontstrip --font-size 16 --ttf-file DejaVuSansMono.ttf
//	fontstrip inspect Source/Font.hpp
package main

import (
	"log"
	"os"

	"github.com/clktmr/fontstrip/tools/font"
	"github.com/clktmr/fontstrip/tools/inspect"
)

func main() {
	log.Default().SetFlags(0)
	log.Default().SetPrefix("fontstrip: ")

	if len(os.Args) > 1 && os.Args[1] == "inspect" {
		inspect.Main(os.Args[1:])
		return
	}
	font.Main(os.Args)
}
