// Package safety restricts submitted assembly source to a conservative
// subset before any external tool sees it.
//
// The check is lexical, not grammatical: a fixed set of data and layout
// directives is stripped from a working copy of the text, and any `.` that
// survives means some other directive (or something that looks like one) is
// present, so the input is rejected. Unrestricted directives such as .fill
// or .rept can make the assembler emit unbounded output, which is why the
// policy is deny-everything-except-a-named-safe-set rather than a blacklist.
//
// Known limitation, kept on purpose: a period inside a string or immediate
// constant is rejected too. Callers are promised exactly this coarse
// behavior, so it must not be "fixed" into a real parser.
package safety

import "strings"

// safeDirectives may appear in submitted source. Everything else that
// starts with a dot is refused. Longest tokens first so stripping .asciz
// does not leave a stray dot behind.
var safeDirectives = []string{
	".string",
	".asciz",
	".ascii",
	".align",
	".byte",
	".word",
	".quad",
	".octa",
}

// appMarkers are the GNU as inline-asm toggles. They flip assembler parsing
// state, so they are refused no matter what else the input contains. The
// match is a case-sensitive substring search.
var appMarkers = []string{"#APP", "#NO_APP"}

// IsSafe reports whether source may be handed to the external assembler.
// It is a pure predicate; the input is never modified.
func IsSafe(source string) bool {
	for _, marker := range appMarkers {
		if strings.Contains(source, marker) {
			return false
		}
	}
	work := source
	for _, directive := range safeDirectives {
		work = strings.ReplaceAll(work, directive, "")
	}
	return !strings.Contains(work, ".")
}
