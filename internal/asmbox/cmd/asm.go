package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"asmbox/internal/asmbox/styles"
	"asmbox/internal/assembler"
	"asmbox/internal/listing"
	"asmbox/internal/logging"
	"asmbox/internal/toolchain"
	"asmbox/internal/ui/colorize"
	"asmbox/internal/x86check"
)

var asmCmd = &cobra.Command{
	Use:   "asm [snippet|file]",
	Short: "Assemble a snippet and print its machine code",
	Long: `Assemble one snippet non-interactively and print the decoded
instructions together with the hex, string-literal, and array renderings of
the opcode bytes. The argument is taken as a file path when it names an
existing file, otherwise as inline assembly; with no argument the snippet is
read from stdin.`,
	Example: `
# Inline snippet
asmbox asm 'mov eax, 1'

# 64-bit mode, machine-readable output
asmbox asm --arch x64 --json snippet.s

# From stdin
echo 'nop' | asmbox asm
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, _ := cmd.Flags().GetString("arch")
		asJSON, _ := cmd.Flags().GetBool("json")
		verify, _ := cmd.Flags().GetBool("verify")
		plain, _ := cmd.Flags().GetBool("plain")

		code, err := readSource(args)
		if err != nil {
			return err
		}
		return runAsm(cmd.Context(), cmd.OutOrStdout(), code, arch, asJSON, verify, plain)
	},
}

func init() {
	asmCmd.Flags().StringP("arch", "a", "x86", "Target architecture: x86 or x64")
	asmCmd.Flags().BoolP("json", "j", false, "Output the result record as JSON")
	asmCmd.Flags().Bool("verify", false, "Cross-check the extracted bytes with an in-process x86 decoder")
	asmCmd.Flags().BoolP("plain", "p", false, "Skip markdown rendering, print sections as plain text")
	rootCmd.AddCommand(asmCmd)
}

// readSource resolves the snippet from the argument or stdin. An argument
// naming an existing regular file is read from disk; anything else is the
// snippet itself.
func readSource(args []string) (string, error) {
	if len(args) == 1 {
		if fi, err := os.Stat(args[0]); err == nil && fi.Mode().IsRegular() {
			bts, err := os.ReadFile(args[0])
			if err != nil {
				return "", fmt.Errorf("read snippet file: %w", err)
			}
			return string(bts), nil
		}
		return args[0], nil
	}
	bts, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(bts), nil
}

func runAsm(ctx context.Context, w io.Writer, code, arch string, asJSON, verify, plain bool) error {
	lg := logging.NewLogger()
	defer lg.Close()

	svc := assembler.New(toolchain.NewRunner(lg.Logger), lg.Logger)
	if err := svc.SetMode(arch); err != nil {
		return err
	}

	rec, err := svc.Assemble(ctx, code)
	if err != nil {
		return presentableError(err)
	}

	var check []string
	if verify {
		lines, err := x86check.Listing(rec.Bytes, svc.Mode().Bits())
		if err != nil {
			lg.Warn("cross-check decoder disagreed", "err", err)
			lines = append(lines, fmt.Sprintf("; cross-check stopped: %v", err))
		}
		check = lines
	}

	switch {
	case asJSON:
		bts, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Fprintln(w, string(bts))
	case plain:
		printPlain(w, rec, svc.Mode(), check)
	default:
		rendered, _ := styles.GetMarkdownRenderer(outputWidth() - 2).Render(resultMarkdown(rec, svc.Mode(), check))
		fmt.Fprint(w, rendered)
	}
	return nil
}

// presentableError rewrites service errors for someone typing snippets into
// a terminal, without leaking filter internals.
func presentableError(err error) error {
	switch {
	case errors.Is(err, assembler.ErrUnsafeCode):
		return fmt.Errorf("input rejected: snippets must stay under %d bytes and may only use the safe directive subset", assembler.MaxSourceLen)
	default:
		var f *assembler.Failure
		if errors.As(err, &f) {
			return fmt.Errorf("assembly failed: %s", f.Msg)
		}
		return err
	}
}

// resultMarkdown lays out a result record for glamour rendering.
func resultMarkdown(rec *listing.Record, mode assembler.Mode, check []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# asmbox · %s\n\n", mode)
	sb.WriteString("```asm\n")
	sb.WriteString(rec.Code)
	sb.WriteString("\n```\n\n")
	fmt.Fprintf(&sb, "**hex**\n\n```\n%s\n```\n\n", rec.Hex)
	fmt.Fprintf(&sb, "**string**\n\n```\n%s\n```\n\n", rec.String)
	fmt.Fprintf(&sb, "**array**\n\n```\n%s\n```\n", rec.Array)
	if len(check) > 0 {
		sb.WriteString("\n**cross-check**\n\n```asm\n")
		sb.WriteString(strings.Join(check, "\n"))
		sb.WriteString("\n```\n")
	}
	return sb.String()
}

// printPlain writes the sections without glamour, colorizing the listing
// when the terminal allows it.
func printPlain(w io.Writer, rec *listing.Record, mode assembler.Mode, check []string) {
	fmt.Fprintf(w, "; %s\n%s\n\n", mode, colorize.Listing(rec.Code))
	fmt.Fprintf(w, "hex:    %s\n", rec.Hex)
	fmt.Fprintf(w, "string: %s\n", rec.String)
	fmt.Fprintf(w, "array:  %s\n", rec.Array)
	if len(check) > 0 {
		fmt.Fprintf(w, "\n; cross-check\n%s\n", colorize.Listing(strings.Join(check, "\n")))
	}
}

// outputWidth is the terminal width, or a conservative default when output
// is piped.
func outputWidth() int {
	if term.IsTerminal(os.Stdout.Fd()) {
		if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
			return w
		}
	}
	return 80
}
