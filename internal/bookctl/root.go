// Package bookctl is the command-line front end for the add-book form.
package bookctl

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the bookctl command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookctl",
		Short: "Validate and submit book drafts to the bookstore admin API",
		Long: `bookctl runs the add-book form from the terminal.

A draft is a YAML file holding the form fields and the paths of the files that
go into each attachment slot. "validate" checks it locally; "submit" uploads the
attachments and creates the book on a remote API.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newSubmitCmd())
	return cmd
}
