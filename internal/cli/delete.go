package cli

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete a record by identity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := f.openConsole(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return report(cmd, c, c.Delete(cmd.Context(), args[1]))
		},
	}
}
