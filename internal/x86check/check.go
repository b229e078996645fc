// Package x86check re-decodes extracted machine code with the Go x86
// decoder. It gives the CLI (and the tests) a second opinion on the byte
// sequence that is independent of the external disassembler's text format.
package x86check

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// Listing decodes code in 32- or 64-bit mode and returns one Intel-syntax
// line per instruction. A decode error is returned alongside the lines
// produced so far, so a partially valid sequence still shows something.
func Listing(code []byte, bits int) ([]string, error) {
	var lines []string
	for pos := 0; pos < len(code); {
		inst, err := x86asm.Decode(code[pos:], bits)
		if err != nil {
			return lines, fmt.Errorf("decode at offset %d: %w", pos, err)
		}
		text := strings.ToLower(x86asm.IntelSyntax(inst, uint64(pos), nil))
		lines = append(lines, fmt.Sprintf("%4x:\t%s", pos, text))
		pos += inst.Len
	}
	return lines, nil
}

// Clean reports whether code decodes fully with no trailing garbage.
func Clean(code []byte, bits int) bool {
	_, err := Listing(code, bits)
	return err == nil
}
