package main

import (
	"fmt"

	"github.com/spf13/cobra"

	og "github.com/reoring/optgrammar"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate OPERATION [FILE|-]",
		Short: "Validate an options payload",
		Long: `Validate an options payload (JSON, or YAML by file extension) against
an operation. Reads stdin when FILE is omitted or "-".

Exits non-zero with the first problem found, e.g.:
  missing required key name for member 1 of option filter (at /filter/0/name)`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.loadCatalog()
			if err != nil {
				return err
			}
			s, err := cat.Operation(args[0])
			if err != nil {
				return err
			}
			opts, err := readPayload(cmd, args[1:])
			if err != nil {
				return err
			}
			if err := s.Validate(opts); err != nil {
				return describe(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

// describe appends the JSON Pointer of a validation error to its message.
func describe(err error) error {
	if e, ok := og.AsError(err); ok && e.Path != "" {
		return fmt.Errorf("%s (at %s)", e.Error(), e.Path)
	}
	return err
}
