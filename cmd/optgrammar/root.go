package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	og "github.com/reoring/optgrammar"
	"github.com/reoring/optgrammar/catalog"
	"github.com/reoring/optgrammar/codec"
	"github.com/reoring/optgrammar/i18n"
	"github.com/reoring/optgrammar/source/gojson"
	"github.com/reoring/optgrammar/source/yaml"
)

// app carries the persistent flags shared by every subcommand.
type app struct {
	catalogPath  string
	lang         string
	blobEncoding string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "optgrammar",
		Short: "Validate option payloads and preview their wire params",
		Long: `optgrammar compiles a service catalog (YAML or JSON) into option
schemas, validates payloads against them and flattens valid payloads into
ordered query params.

Examples:
  optgrammar --catalog ec2.yaml operations
  optgrammar --catalog ec2.yaml validate DescribeInstances payload.json
  echo '{"instance_id":["i-1"]}' | optgrammar --catalog ec2.yaml encode DescribeInstances --format query
  optgrammar serve --config optgrammar.yaml`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			i18n.SetLanguage(a.lang)
		},
	}

	root.PersistentFlags().StringVarP(&a.catalogPath, "catalog", "c", "", "catalog file (YAML or JSON)")
	root.PersistentFlags().StringVar(&a.lang, "lang", "en", "message language: en or ja")
	root.PersistentFlags().StringVar(&a.blobEncoding, "blob-encoding", "base64", "blob codec: base64 or base64_lines")

	root.AddCommand(
		newOperationsCmd(a),
		newValidateCmd(a),
		newEncodeCmd(a),
		newSchemaCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) loadCatalog() (*catalog.Catalog, error) {
	if a.catalogPath == "" {
		return nil, fmt.Errorf("--catalog is required")
	}
	return loadCatalog(a.catalogPath, a.blobEncoding)
}

func blobCodec(name string) (og.BlobCodec, error) {
	blob, ok := codec.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown blob encoding %q", name)
	}
	return blob, nil
}

func loadCatalog(path, blobEncoding string) (*catalog.Catalog, error) {
	blob, err := blobCodec(blobEncoding)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	return cat.WithBlobCodec(blob), nil
}

// readPayload decodes the options payload from the file named by args[0],
// or from stdin when it is absent or "-". YAML files are recognized by
// extension; everything else is JSON.
func readPayload(cmd *cobra.Command, args []string) (any, error) {
	var (
		r    io.Reader = cmd.InOrStdin()
		name           = "-"
	)
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("open payload: %w", err)
		}
		defer f.Close()
		r, name = f, args[0]
	}

	var (
		v   any
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		v, err = yaml.DecodeReader(r)
	default:
		v, err = gojson.DecodeReader(r)
	}
	if err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return v, nil
}

// newLogger builds the process logger: JSON lines by default, human
// readable with format "console".
func newLogger(level, format string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
