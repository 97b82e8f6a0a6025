package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema OPERATION",
		Short: "Print the JSON Schema of an operation's options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			s, err := cat.Operation(args[0])
			if err != nil {
				return err
			}
			js, err := s.JSONSchema()
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(js, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}
