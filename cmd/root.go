package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tinyshell/tsh/core/config"
	"github.com/tinyshell/tsh/core/shell"
)

var cfgPath string

func loadConfig() (*config.Configuration, error) {
	return config.Load(cfgPath)
}

// rootCmd starts the interactive shell when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "tsh",
	Short: "A tiny pipeline shell",
	Long: `tsh reads command lines, wires the stages of | pipelines together with
OS pipes, and runs ;-separated groups in order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sh, err := shell.New(cfg)
		if err != nil {
			return err
		}
		defer sh.Close()

		return sh.Run()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "config path")
}
