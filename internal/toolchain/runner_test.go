package toolchain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWrapSource(t *testing.T) {
	got := wrapSource("mov eax, 1\nret")
	want := ".intel_syntax noprefix\nmain:\nmov eax, 1\nret\n"
	if got != want {
		t.Errorf("wrapSource() = %q, want %q", got, want)
	}
}

func TestCleanDiagnostics(t *testing.T) {
	srcPath := "/tmp/asmbox-123/input.s"
	tests := []struct {
		name string
		out  string
		want string
	}{
		{
			name: "banner and path stripped",
			out: srcPath + ": Assembler messages:\n" +
				srcPath + ":3: Error: no such instruction: `bogus'\n",
			want: "Error: no such instruction: `bogus'",
		},
		{
			name: "multiple diagnostics",
			out: srcPath + ": Assembler messages:\n" +
				srcPath + ":3: Error: bad register name `%foo'\n" +
				srcPath + ":4: Error: junk at end of line\n",
			want: "Error: bad register name `%foo'\nError: junk at end of line",
		},
		{
			name: "empty output falls back to generic message",
			out:  "",
			want: "something went wrong",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanDiagnostics(tt.out, srcPath); got != tt.want {
				t.Errorf("cleanDiagnostics() = %q, want %q", got, tt.want)
			}
		})
	}
}

// writeStub drops an executable shell script into dir and returns its path.
func writeStub(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInvokeSuccess(t *testing.T) {
	dir := t.TempDir()
	fixture := "00000000 <main>:\n   0:\t90                   \tnop\n"

	r := &Runner{
		// Stub assembler: just create the object file it was asked for.
		Assembler: writeStub(t, dir, "as", `touch "$3"`),
		// Stub disassembler: print a canned listing.
		Disassembler: writeStub(t, dir, "objdump", `printf '%s' '`+fixture+`'`),
	}

	out, err := r.Invoke(context.Background(), "nop", 32)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(out, "<main>:") {
		t.Errorf("Invoke() output = %q, want listing text", out)
	}
}

func TestInvokeAssemblerFailure(t *testing.T) {
	dir := t.TempDir()

	r := &Runner{
		Assembler: writeStub(t, dir, "as",
			`echo "$4: Assembler messages:"; echo "$4:3: Error: no such instruction: \`+"`"+`bogus'"; exit 1`),
		Disassembler: writeStub(t, dir, "objdump", `exit 0`),
	}

	_, err := r.Invoke(context.Background(), "bogus", 32)
	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("Invoke() error = %v, want *ToolError", err)
	}
	if te.Stage != StageAssemble {
		t.Errorf("Stage = %v, want StageAssemble", te.Stage)
	}
	if te.Message != "Error: no such instruction: `bogus'" {
		t.Errorf("Message = %q", te.Message)
	}
}

func TestInvokeDisassemblerFailure(t *testing.T) {
	dir := t.TempDir()

	r := &Runner{
		Assembler:    writeStub(t, dir, "as", `touch "$3"`),
		Disassembler: writeStub(t, dir, "objdump", `echo noise; exit 2`),
	}

	_, err := r.Invoke(context.Background(), "nop", 64)
	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("Invoke() error = %v, want *ToolError", err)
	}
	if te.Stage != StageDisassemble {
		t.Errorf("Stage = %v, want StageDisassemble", te.Stage)
	}
	if te.Message != "something went wrong" {
		t.Errorf("Message = %q, want generic message", te.Message)
	}
}

func TestInvokeRemovesScratchDir(t *testing.T) {
	dir := t.TempDir()
	scratchFile := filepath.Join(dir, "scratch")

	// Each assembler stub records the scratch dir it was pointed at.
	asOK := writeStub(t, dir, "as", `dirname "$4" > `+scratchFile+`; touch "$3"`)
	asFail := writeStub(t, dir, "as-fail", `dirname "$4" > `+scratchFile+`; exit 1`)
	objOK := writeStub(t, dir, "objdump", `printf '<main>:\n'`)
	objFail := writeStub(t, dir, "objdump-fail", `exit 2`)

	tests := []struct {
		name         string
		assembler    string
		disassembler string
		wantErr      bool
	}{
		{name: "success", assembler: asOK, disassembler: objOK},
		{name: "assembler failure", assembler: asFail, disassembler: objOK, wantErr: true},
		{name: "disassembler failure", assembler: asOK, disassembler: objFail, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Runner{Assembler: tt.assembler, Disassembler: tt.disassembler}
			_, err := r.Invoke(context.Background(), "nop", 32)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Invoke() error = %v, wantErr %v", err, tt.wantErr)
			}

			recorded, readErr := os.ReadFile(scratchFile)
			if readErr != nil {
				t.Fatal(readErr)
			}
			scratch := strings.TrimSpace(string(recorded))
			if scratch == "" {
				t.Fatal("stub did not record the scratch dir")
			}
			if _, statErr := os.Stat(scratch); !os.IsNotExist(statErr) {
				t.Errorf("scratch dir %s still exists after Invoke (stat err = %v)", scratch, statErr)
			}
		})
	}
}

func TestInvokeArchFlag(t *testing.T) {
	dir := t.TempDir()
	flagFile := filepath.Join(dir, "flag")

	r := &Runner{
		Assembler:    writeStub(t, dir, "as", `echo "$1" > `+flagFile+`; touch "$3"`),
		Disassembler: writeStub(t, dir, "objdump", `printf '<main>:\n'`),
	}

	for bits, want := range map[int]string{32: "--32", 64: "--64"} {
		if _, err := r.Invoke(context.Background(), "nop", bits); err != nil {
			t.Fatalf("Invoke(%d) error = %v", bits, err)
		}
		got, err := os.ReadFile(flagFile)
		if err != nil {
			t.Fatal(err)
		}
		if strings.TrimSpace(string(got)) != want {
			t.Errorf("arch flag for %d bits = %q, want %q", bits, strings.TrimSpace(string(got)), want)
		}
	}
}
