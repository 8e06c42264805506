package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tinyshell/tsh/core/shell"
)

// runCmd executes a single command line without starting the prompt loop.
var runCmd = &cobra.Command{
	Use:   "run LINE...",
	Short: "Run one command line and exit.",
	Long: `Run parses its arguments as a single command line and executes it the
same way the interactive loop would, e.g.:

    tsh run 'echo hello | wc -c'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		runner := &shell.Runner{
			QuitCommand: cfg.QuitCommand,
			Stdin:       os.Stdin,
			Stdout:      cmd.OutOrStdout(),
			Stderr:      cmd.ErrOrStderr(),
		}

		_, err = runner.Run(shell.Parse(strings.Join(args, " ")))
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
