package cli

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

func newKindsCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the resource kinds the console manages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}

			t := newTable(cmd)
			t.AppendHeader(table.Row{"KIND", "LABEL", "PATH", "FIELDS"})
			for _, k := range reg.Kinds() {
				fields := make([]string, len(k.Fields))
				for i, fd := range k.Fields {
					fields[i] = fd.Key
					if fd.Required {
						fields[i] += "*"
					}
				}
				t.AppendRow(table.Row{k.Name, k.Label, k.APIPath, strings.Join(fields, ", ")})
			}
			t.Render()
			return nil
		},
	}
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	// labels are operator-facing text; keep their case
	t.Style().Format.Header = text.FormatDefault
	return t
}
