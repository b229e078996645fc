package colorize

import (
	"strings"
	"testing"
)

func TestListingNoColorEnv(t *testing.T) {
	t.Setenv("ASMBOX_NO_COLOR", "1")
	code := "0:\tb8 01 00 00 00\tmov eax,0x1"
	if got := Listing(code); got != code {
		t.Errorf("Listing() altered text with colors disabled: %q", got)
	}
}

func TestListingPreservesText(t *testing.T) {
	t.Setenv("ASMBOX_NO_COLOR", "")
	code := "0:\tb8 01 00 00 00\tmov eax,0x1\n5:\tc3\tret"
	got := Listing(code)
	// Whatever escape codes come back, the visible text survives.
	for _, word := range []string{"mov", "eax", "ret"} {
		if !strings.Contains(stripANSI(got), word) {
			t.Errorf("highlighted listing lost %q: %q", word, got)
		}
	}
}

func stripANSI(s string) string {
	var out strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
