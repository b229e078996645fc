// Package colorize applies syntax highlighting to decoded x86 listings for
// terminal display. Colors are suppressed entirely when ASMBOX_NO_COLOR is
// set, so piped output stays clean.
package colorize

import (
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// getIntelLexer returns a lexer suited to Intel-syntax x86 with fallbacks.
func getIntelLexer() chroma.Lexer {
	candidates := []string{"nasm", "gas", "GAS", "Gas"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getListingStyle returns the listing style with fallbacks.
func getListingStyle() *chroma.Style {
	_ = ListingDark // force style registration
	candidates := []string{"asmbox-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter.
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// Listing highlights a whole decoded listing. On any tokenizer or
// formatter trouble the plain text comes back unchanged; highlighting is
// presentation only and must never fail an assemble call.
func Listing(code string) string {
	if os.Getenv("ASMBOX_NO_COLOR") != "" {
		return code
	}

	lexer := getIntelLexer()
	if lexer == nil {
		return code
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getListingStyle(), iterator); err != nil {
		return code
	}
	return buf.String()
}
