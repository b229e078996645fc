// Package listing parses the textual output of the external disassembler
// and projects the opcode bytes it finds into the representations shown to
// the user.
package listing

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EntryLabel is the fixed entry-point label the toolchain wraps every
// snippet with. The decoder keys on the form objdump prints for it.
const EntryLabel = "main"

// entryMarker is the label line as it appears in the listing:
// "00000000 <main>:" followed by the instruction lines.
const entryMarker = "<" + EntryLabel + ">:\n"

// ErrNoCode is returned when the listing has no recognizable code section
// for the entry label, i.e. it is not in the shape objdump produces.
var ErrNoCode = errors.New("no code section in listing")

// Record is the result of one assemble call: the cleaned listing text plus
// four renderings of the same byte sequence. The renderings are always
// projections of Bytes, never computed independently of each other.
type Record struct {
	Code        string `json:"code" jsonschema:"title=Code,description=Cleaned disassembly listing for the submitted snippet"`
	Hex         string `json:"hex" jsonschema:"title=Hex,description=Opcode bytes as an uppercase hex string"`
	HexZeroBold string `json:"hex_zero_bold" jsonschema:"title=Hex with zero bytes bolded,description=HTML-safe hex string with every 00 byte wrapped in <b> tags"`
	String      string `json:"string" jsonschema:"title=String literal,description=Opcode bytes as \\xHH escape sequences"`
	Array       string `json:"array" jsonschema:"title=Array literal,description=Opcode bytes as a brace-delimited list of 0x-prefixed values"`

	Bytes []byte `json:"-"`
}

var (
	// collapseRe folds each run of whitespace after a newline into the
	// newline alone, stripping objdump's column indentation.
	collapseRe = regexp.MustCompile(`\n\s+`)

	// labelLineRe matches a label definition line: an address field with
	// no colon, then the bracketed symbol name. These carry no opcode
	// bytes even though the padded address looks like a run of byte
	// pairs.
	labelLineRe = regexp.MustCompile(`^[0-9a-f]+[ \t]+<[^>]*>:`)

	// byteRunRe matches an instruction (or byte-continuation) line: the
	// address field with its colon, then one or more two-hex-digit
	// groups. Anchoring the harvest to the leading address field keeps
	// segment-prefixed operands such as ds:0x0 out of the byte stream.
	byteRunRe = regexp.MustCompile(`^[0-9a-f]+:\s+((?:[0-9a-f]{2}\s+)*[0-9a-f]{2})(?:\s|$)`)
)

// Decode extracts the entry point's code section from one disassembly
// listing. It is deterministic: the same listing always yields an identical
// Record.
func Decode(text string) (*Record, error) {
	idx := strings.Index(text, entryMarker)
	if idx < 0 {
		return nil, ErrNoCode
	}
	body := text[idx+len(entryMarker):]
	code := strings.TrimSpace(collapseRe.ReplaceAllString("\n"+body, "\n"))

	var seq []byte
	for _, line := range strings.Split(code, "\n") {
		seq = append(seq, harvestLine(line)...)
	}
	return render(code, seq), nil
}

// harvestLine classifies one listing line and returns the opcode bytes it
// contributes, if any. Label definitions, blank lines, and lines objdump
// uses for ellipsis or section headers contribute nothing.
func harvestLine(line string) []byte {
	if labelLineRe.MatchString(line) {
		return nil
	}
	m := byteRunRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	pairs := strings.Fields(m[1])
	out := make([]byte, 0, len(pairs))
	for _, p := range pairs {
		b, _ := strconv.ParseUint(p, 16, 8) // regex guarantees two hex digits
		out = append(out, byte(b))
	}
	return out
}

// render derives the four representations from the byte sequence. An empty
// sequence is valid (all-directive input assembles to no code) and yields
// empty renderings.
func render(code string, seq []byte) *Record {
	var hexStr, bold, escaped strings.Builder
	elems := make([]string, len(seq))
	for i, b := range seq {
		pair := fmt.Sprintf("%02X", b)
		hexStr.WriteString(pair)
		if b == 0 {
			bold.WriteString("<b>00</b>")
		} else {
			bold.WriteString(pair)
		}
		escaped.WriteString(`\x` + pair)
		elems[i] = "0x" + pair
	}
	array := "{}"
	if len(elems) > 0 {
		array = "{ " + strings.Join(elems, ", ") + " }"
	}
	return &Record{
		Code:        code,
		Hex:         hexStr.String(),
		HexZeroBold: bold.String(),
		String:      escaped.String(),
		Array:       array,
		Bytes:       seq,
	}
}
