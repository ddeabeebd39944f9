package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cisohq/reasond/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize reasond configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure reasond and generates a .reasond.yml file. Secrets stay in environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
