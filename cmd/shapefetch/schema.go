package main

import (
	"github.com/spf13/cobra"
)

func (a *app) schemaCmd() *cobra.Command {
	var shapePath, field string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a shape file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadShape(shapePath)
			if err != nil {
				return err
			}
			if field == "" {
				return a.printJSON(s.JSONSchema())
			}
			return a.printJSON(s.CollectionSchema(field))
		},
	}
	cmd.Flags().StringVar(&shapePath, "shape", "", "shape file (YAML)")
	cmd.Flags().StringVar(&field, "field", "", "wrap the shape as elements of this collection field")
	return cmd
}
