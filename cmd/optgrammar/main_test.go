package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/optgrammar/i18n"
)

const testCatalog = `
common:
  DryRun: [boolean]
operations:
  DescribeInstances:
    InstanceId:
      - membered_list: [string]
    Filter:
      - membered_list:
          - structure:
              Name: [string, required]
              Value:
                - membered_list: [string]
  PutObject:
    Bucket: [string, required]
    Body: [blob]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the CLI with stdin and returns stdout and the error.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { i18n.SetLanguage("en") })
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestOperations(t *testing.T) {
	cat := writeFile(t, "ec2.yaml", testCatalog)
	out, err := run(t, "", "--catalog", cat, "operations")
	require.NoError(t, err)
	require.Equal(t, "DescribeInstances\nPutObject\n", out)

	_, err = run(t, "", "operations")
	require.ErrorContains(t, err, "--catalog is required")
}

func TestValidate(t *testing.T) {
	cat := writeFile(t, "ec2.yaml", testCatalog)

	out, err := run(t, `{"dry_run":true,"instance_id":["i-1"]}`, "-c", cat, "validate", "DescribeInstances")
	require.NoError(t, err)
	require.Equal(t, "ok\n", out)

	_, err = run(t, `{"filter":[{}]}`, "-c", cat, "validate", "DescribeInstances", "-")
	require.EqualError(t, err, "missing required key name for member 1 of option filter (at /filter/0/name)")

	payload := writeFile(t, "payload.yaml", "bucket: 3\n")
	_, err = run(t, "", "-c", cat, "validate", "PutObject", payload)
	require.EqualError(t, err, "expected string value for option bucket (at /bucket)")

	_, err = run(t, "{}", "-c", cat, "--lang", "ja", "validate", "PutObject")
	require.ErrorContains(t, err, "必須オプションが不足しています: bucket")

	_, err = run(t, "{}", "-c", cat, "validate", "Nope")
	require.ErrorContains(t, err, "unknown operation")
}

func TestEncode(t *testing.T) {
	cat := writeFile(t, "ec2.yaml", testCatalog)
	payload := `{"filter":[{"name":"tag:env","value":["prod","stage"]}],"dry_run":false}`

	out, err := run(t, payload, "-c", cat, "encode", "DescribeInstances")
	require.NoError(t, err)
	require.Equal(t, strings.Join([]string{
		"Filter.member.1.Name=tag:env",
		"Filter.member.1.Value.member.1=prod",
		"Filter.member.1.Value.member.2=stage",
		"DryRun=false",
		"",
	}, "\n"), out)

	out, err = run(t, `{"bucket":"my bucket","body":"hi"}`, "-c", cat, "encode", "PutObject", "--format", "query")
	require.NoError(t, err)
	require.Equal(t, "Bucket=my%20bucket&Body=aGk%3D\n", out)

	out, err = run(t, `{"bucket":"b","body":"hi"}`, "-c", cat, "--blob-encoding", "base64_lines", "encode", "PutObject", "-f", "json")
	require.NoError(t, err)
	require.JSONEq(t, `[{"key":"Bucket","value":"b"},{"key":"Body","value":"aGk=\n"}]`, out)

	_, err = run(t, `{"bucket":"b"}`, "-c", cat, "encode", "PutObject", "--format", "xml")
	require.ErrorContains(t, err, "unknown format")

	_, err = run(t, `{"bucket":`, "-c", cat, "encode", "PutObject")
	require.ErrorContains(t, err, "decode payload")
}

func TestSchema(t *testing.T) {
	cat := writeFile(t, "ec2.yaml", testCatalog)
	out, err := run(t, "", "-c", cat, "schema", "PutObject")
	require.NoError(t, err)
	require.JSONEq(t, `{
		"type":"object",
		"properties":{
			"dry_run":{"type":"boolean","x-wire-name":"DryRun"},
			"bucket":{"type":"string","x-wire-name":"Bucket"},
			"body":{"type":"string","format":"byte","x-wire-name":"Body"}
		},
		"required":["bucket"],
		"additionalProperties":false
	}`, out)
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := newLogger("warn", "json", buf)
	logger.Info().Msg("hidden")
	logger.Warn().Str("k", "v").Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	console := newLogger("bogus", "console", buf)
	console.Info().Msg("console line")
	require.Contains(t, buf.String(), "console line")
}
