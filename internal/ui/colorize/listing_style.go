package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// ListingDark is a custom style for decoded x86 listings. Mnemonics stay
// white so the eye lands on operands and immediates.
var ListingDark = styles.Register(chroma.MustNewStyle("asmbox-dark", chroma.StyleEntries{
	chroma.Text:           "#E8E8E8",
	chroma.Background:     "bg:#1b1b1b",
	chroma.Comment:        "#8A8A8A",
	chroma.CommentPreproc: "#8A8A8A",

	// NASM lexer mappings
	chroma.Keyword:       "#E8E8E8", // instructions
	chroma.KeywordPseudo: "#E8E8E8",
	chroma.Name:          "#7FB4CA", // registers
	chroma.NameBuiltin:   "#7FB4CA",
	chroma.NameVariable:  "#7FB4CA",
	chroma.NameFunction:  "#E8E8E8",
	chroma.NameLabel:     "#E6C384", // labels

	chroma.LiteralNumber:        "#FF7A90", // immediates and addresses
	chroma.LiteralNumberHex:     "#FF7A90",
	chroma.LiteralNumberBin:     "#FF7A90",
	chroma.LiteralNumberOct:     "#FF7A90",
	chroma.LiteralNumberInteger: "#FF7A90",

	chroma.Operator:    "#E8E8E8",
	chroma.Punctuation: "#E8E8E8",
	chroma.String:      "#98BB6C",
}))
