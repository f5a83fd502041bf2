package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skillra/hh-harvester/internal/features"
	"github.com/skillra/hh-harvester/internal/schemas"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the output column list",
	Args:  cobra.NoArgs,
	RunE:  runSchema,
}

var schemaJSON bool

func init() {
	schemaCmd.Flags().BoolVar(&schemaJSON, "json", false, "Print the JSON schema of one output row")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	cols := features.Columns()
	if schemaJSON {
		schema, err := schemas.VacancySchema(cols)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), schema)
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, c := range cols {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Kind)
	}
	return tw.Flush()
}
