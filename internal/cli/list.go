package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rflorenc/resource-console/internal/models"
)

// Output formats for list.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func newListCmd(f *rootFlags) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "Fetch and print a kind's collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output {
			case outputTable, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
			}

			c, err := f.openConsole(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			kind := c.ActiveKind()
			records := c.Records()

			out := cmd.OutOrStdout()
			switch output {
			case outputJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(resources(records))
			case outputYAML:
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(resources(records))
			}

			if len(records) == 0 {
				fmt.Fprintln(out, c.Snapshot().EmptyMessage)
				return nil
			}
			t := newTable(cmd)
			header := table.Row{"ID"}
			for _, fd := range kind.Fields {
				header = append(header, fd.Label)
			}
			t.AppendHeader(header)
			for _, rec := range records {
				row := table.Row{rec.ID}
				for _, fd := range kind.Fields {
					row = append(row, rec.Display(fd))
				}
				t.AppendRow(row)
			}
			t.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json, yaml")
	return cmd
}

// resources returns the raw server objects in collection order.
func resources(records []models.Record) []models.Resource {
	out := make([]models.Resource, len(records))
	for i, rec := range records {
		out[i] = rec.Fields
	}
	return out
}
