package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"asmbox/internal/assembler"
	"asmbox/internal/listing"
)

func sampleRecord(t *testing.T) *listing.Record {
	t.Helper()
	rec, err := listing.Decode(`
input.o:     file format elf32-i386


Disassembly of section .text:

00000000 <main>:
   0:	b8 01 00 00 00       	mov    eax,0x1
   5:	c3                   	ret
`)
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	snippetFile := filepath.Join(dir, "snippet.s")
	if err := os.WriteFile(snippetFile, []byte("nop\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("file argument", func(t *testing.T) {
		got, err := readSource([]string{snippetFile})
		if err != nil {
			t.Fatal(err)
		}
		if got != "nop\n" {
			t.Errorf("readSource() = %q, want file contents", got)
		}
	})

	t.Run("inline argument", func(t *testing.T) {
		got, err := readSource([]string{"mov eax, 1"})
		if err != nil {
			t.Fatal(err)
		}
		if got != "mov eax, 1" {
			t.Errorf("readSource() = %q, want the inline snippet", got)
		}
	})

	// A directory argument is not a regular file; it resolves as inline
	// text, never as file contents. Both the asm command and the TUI's
	// initial content share this resolution.
	t.Run("directory argument treated as inline", func(t *testing.T) {
		got, err := readSource([]string{dir})
		if err != nil {
			t.Fatal(err)
		}
		if got != dir {
			t.Errorf("readSource() = %q, want the literal argument %q", got, dir)
		}
	})
}

func TestResultMarkdown(t *testing.T) {
	rec := sampleRecord(t)
	md := resultMarkdown(rec, assembler.ModeX86, nil)

	for _, want := range []string{
		"# asmbox · x86",
		"mov    eax,0x1",
		"B801000000C3",
		`\xB8\x01\x00\x00\x00\xC3`,
		"{ 0xB8, 0x01, 0x00, 0x00, 0x00, 0xC3 }",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Contains(md, "cross-check") {
		t.Error("markdown has a cross-check section without check lines")
	}

	md = resultMarkdown(rec, assembler.ModeX64, []string{"0:\tmov eax, 0x1"})
	if !strings.Contains(md, "x64") || !strings.Contains(md, "cross-check") {
		t.Errorf("markdown missing mode or cross-check section:\n%s", md)
	}
}

func TestPrintPlain(t *testing.T) {
	t.Setenv("ASMBOX_NO_COLOR", "1")
	rec := sampleRecord(t)

	var buf bytes.Buffer
	printPlain(&buf, rec, assembler.ModeX86, nil)
	out := buf.String()

	for _, want := range []string{"; x86", "hex:    B801000000C3", "array:  { 0xB8,"} {
		if !strings.Contains(out, want) {
			t.Errorf("plain output missing %q:\n%s", want, out)
		}
	}
}

func TestPresentableError(t *testing.T) {
	if err := presentableError(assembler.ErrUnsafeCode); !strings.Contains(err.Error(), "rejected") {
		t.Errorf("unsafe-code error = %v", err)
	}
	if strings.Contains(presentableError(assembler.ErrUnsafeCode).Error(), "directive set:") {
		t.Error("unsafe-code error leaks filter internals")
	}

	f := &assembler.Failure{Msg: "Error: junk at end of line"}
	if err := presentableError(f); !strings.Contains(err.Error(), "junk at end of line") {
		t.Errorf("failure error = %v", err)
	}

	plain := errors.New("disk on fire")
	if err := presentableError(plain); err != plain {
		t.Errorf("unrelated error rewritten: %v", err)
	}
}
