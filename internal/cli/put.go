package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPutCmd(f *rootFlags) *cobra.Command {
	var (
		id   string
		sets []string
	)
	cmd := &cobra.Command{
		Use:   "put <kind>",
		Short: "Create a record, or update one when --id is given",
		Example: `  console put users --set nombre=Ana --set email=ana@example.com
  console put products --id 1 --set precio=12.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([][2]string, 0, len(sets))
			for _, s := range sets {
				k, v, ok := strings.Cut(s, "=")
				if !ok || k == "" {
					return fmt.Errorf("--set %q: want key=value", s)
				}
				values = append(values, [2]string{k, v})
			}

			c, err := f.openConsole(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if id != "" {
				err = c.OpenEdit(id)
			} else {
				err = c.OpenCreate()
			}
			if err != nil {
				return outcome(c, err)
			}
			for _, kv := range values {
				if err := c.SetField(kv[0], kv[1]); err != nil {
					return err
				}
			}
			return report(cmd, c, c.Submit(cmd.Context()))
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "identity of the record to update")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as key=value (repeatable)")
	return cmd
}
