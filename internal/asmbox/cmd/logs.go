package cmd

import (
	"fmt"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"asmbox/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the newest asmbox debug log",
	Long: `Print the newest asmbox debug log from the current directory.
Debug logs are only written when ASMBOX_LOG_TO_FILE=1 is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")

		path := logging.LatestLogFile(".")
		if path == "" {
			return fmt.Errorf("no asmbox debug logs found (run with ASMBOX_LOG_TO_FILE=1 to create them)")
		}

		t, err := tail.TailFile(path, tail.Config{
			Follow: follow,
			ReOpen: follow,
			Logger: tail.DiscardingLogger,
		})
		if err != nil {
			return fmt.Errorf("tail %s: %w", path, err)
		}
		for line := range t.Lines {
			if line.Err != nil {
				return line.Err
			}
			fmt.Fprintln(cmd.OutOrStdout(), line.Text)
		}
		return nil
	},
}

func init() {
	logsCmd.Flags().BoolP("follow", "f", false, "Keep the log open and print new lines as they arrive")
	rootCmd.AddCommand(logsCmd)
}
