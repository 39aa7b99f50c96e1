package root

import (
	"github.com/spf13/cobra"
)

// RootCmd is the top-level pcbg command. Subcommands attach themselves in main.
var RootCmd = &cobra.Command{
	Use:           "pcbg",
	Short:         "PC Builder Guide CLI",
	Long:          "Command line interface for the PC Builder Guide API: accounts, contact form and admin inbox.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// GetRoot returns the RootCmd.
func GetRoot() *cobra.Command {
	return RootCmd
}
