// Package cmd wires the asmbox CLI: the interactive TUI on the root
// command plus the asm, schema, and logs subcommands.
package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	asmlog "asmbox/internal/asmbox/log"
	"asmbox/internal/assembler"
	"asmbox/internal/logging"
	"asmbox/internal/toolchain"
)

// sampleSnippet greets first-time users with something that assembles.
const sampleSnippet = "mov eax, 1\nret"

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug logging")

	rootCmd.Flags().BoolP("no-tui", "n", false, "Assemble the argument or stdin without the TUI")
	rootCmd.Flags().StringP("arch", "a", "x86", "Initial architecture: x86 or x64")
}

var rootCmd = &cobra.Command{
	Use:   "asmbox [snippet|file]",
	Short: "Sandboxed assembler playground",
	Long: `Asmbox is an interactive playground for x86 assembly: type a snippet,
and it is filtered, assembled, disassembled, and shown as machine-code
bytes in several copy-pastable forms. Untrusted input never reaches the
assembler with anything outside a small safe directive subset.`,
	Example: `
# Interactive editor
asmbox

# Start from a file
asmbox snippet.s

# One-shot without the TUI
asmbox -n 'mov eax, 1'
  `,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		asmlog.Setup(debug)

		arch, _ := cmd.Flags().GetString("arch")
		noTUI, _ := cmd.Flags().GetBool("no-tui")
		if !term.IsTerminal(os.Stdout.Fd()) {
			noTUI = true
			os.Setenv("ASMBOX_NO_COLOR", "1")
		}

		if noTUI {
			code, err := readSource(args)
			if err != nil {
				return err
			}
			return runAsm(cmd.Context(), cmd.OutOrStdout(), code, arch, false, false, true)
		}

		initial := sampleSnippet
		if len(args) == 1 {
			src, err := readSource(args)
			if err != nil {
				return err
			}
			initial = src
		}

		lg := logging.NewLogger()
		defer lg.Close()
		svc := assembler.New(toolchain.NewRunner(lg.Logger), lg.Logger)
		if err := svc.SetMode(arch); err != nil {
			return err
		}

		program := tea.NewProgram(
			newModel(svc, initial),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

func Execute() {
	// Bypass fang's markdown rendering for plain runs and piped output;
	// users control colors with the ASMBOX_NO_COLOR env var.
	noTUI := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "-n" {
			noTUI = true
			break
		}
	}
	if !noTUI && !term.IsTerminal(os.Stdout.Fd()) {
		noTUI = true
	}

	if noTUI {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
	} else {
		if err := fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		); err != nil {
			os.Exit(1)
		}
	}
}
