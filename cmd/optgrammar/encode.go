package main

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

type paramJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func newEncodeCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "encode OPERATION [FILE|-]",
		Short: "Flatten an options payload into wire params",
		Long: `Validate an options payload and print the params it flattens into,
in order.

Formats:
  lines  one "Key=Value" per line (default)
  query  a single escaped query string
  json   an array of {"key","value"} objects`,
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
			ps, err := s.RequestParams(opts)
			if err != nil {
				return describe(err)
			}

			out := cmd.OutOrStdout()
			switch format {
			case "lines":
				for _, p := range ps {
					fmt.Fprintf(out, "%s=%s\n", p.Key, p.Value)
				}
			case "query":
				fmt.Fprintln(out, ps.QueryString())
			case "json":
				list := make([]paramJSON, len(ps))
				for i, p := range ps {
					list[i] = paramJSON{Key: p.Key, Value: p.Value}
				}
				b, err := json.MarshalIndent(list, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
			default:
				return fmt.Errorf("unknown format %q (want lines, query or json)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "lines", "output format: lines, query or json")
	return cmd
}
