// Package toolchain drives the external assembler and disassembler for one
// accepted snippet and hands back the raw disassembly listing.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"asmbox/internal/listing"
)

// Stage identifies which external tool a ToolError came from.
type Stage int

const (
	StageAssemble Stage = iota
	StageDisassemble
)

func (s Stage) String() string {
	if s == StageAssemble {
		return "assemble"
	}
	return "disassemble"
}

// ToolError reports a non-zero exit from one of the external tools. For the
// assembler the message is the cleaned diagnostic text; the disassembler is
// not expected to produce anything useful, so its message is generic.
type ToolError struct {
	Stage   Stage
	Message string
}

func (e *ToolError) Error() string { return e.Message }

// genericFailure is shown when the disassembler exits non-zero. At that
// point the object file already assembled, so there is no diagnostic worth
// relaying to the user.
const genericFailure = "something went wrong"

// Runner invokes the external toolchain. Assembler and Disassembler are
// looked up on PATH unless overridden, which the tests use to substitute
// stub scripts.
type Runner struct {
	Assembler    string
	Disassembler string
	Log          *log.Logger
}

// NewRunner returns a Runner bound to the standard GNU tools.
func NewRunner(lg *log.Logger) *Runner {
	return &Runner{Assembler: "as", Disassembler: "objdump", Log: lg}
}

// Invoke assembles source in 32- or 64-bit mode and disassembles the
// result, returning the listing text. Intermediate artifacts live in a
// fresh temp directory per call, so concurrent invocations never collide,
// and the directory is removed on every exit path. There is no internal
// timeout; a hung tool blocks until ctx is done.
func (r *Runner) Invoke(ctx context.Context, source string, bits int) (string, error) {
	dir, err := os.MkdirTemp("", "asmbox-*")
	if err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	// Plain .s extension so the assembler never runs the source through
	// the macro preprocessor.
	srcPath := filepath.Join(dir, "input.s")
	objPath := filepath.Join(dir, "input.o")
	if err := os.WriteFile(srcPath, []byte(wrapSource(source)), 0o600); err != nil {
		return "", fmt.Errorf("write source: %w", err)
	}

	archFlag := "--32"
	if bits == 64 {
		archFlag = "--64"
	}

	out, err := exec.CommandContext(ctx, r.Assembler, archFlag, "-o", objPath, srcPath).CombinedOutput()
	if err != nil {
		msg := cleanDiagnostics(string(out), srcPath)
		if r.Log != nil {
			r.Log.Debug("assembler failed", "err", err, "diagnostic", msg)
		}
		return "", &ToolError{Stage: StageAssemble, Message: msg}
	}

	out, err = exec.CommandContext(ctx, r.Disassembler, "-d", "-M", "intel", objPath).CombinedOutput()
	if err != nil {
		if r.Log != nil {
			r.Log.Debug("disassembler failed", "err", err, "output", string(out))
		}
		return "", &ToolError{Stage: StageDisassemble, Message: genericFailure}
	}
	return string(out), nil
}

// wrapSource embeds the snippet in the minimal translation unit the decoder
// expects: Intel syntax without register prefixes and the fixed entry
// label.
func wrapSource(source string) string {
	return ".intel_syntax noprefix\n" + listing.EntryLabel + ":\n" + source + "\n"
}

var lineNumberRe = regexp.MustCompile(`^\d+:\s*`)

// cleanDiagnostics makes gas output presentable: the temp file path, the
// "Assembler messages:" banner, and per-line "N:" prefixes say nothing to
// someone who submitted a snippet through a form.
func cleanDiagnostics(out, srcPath string) string {
	out = strings.ReplaceAll(out, srcPath+":", "")
	var kept []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "Assembler messages:" {
			continue
		}
		kept = append(kept, lineNumberRe.ReplaceAllString(line, ""))
	}
	if len(kept) == 0 {
		return genericFailure
	}
	return strings.Join(kept, "\n")
}
