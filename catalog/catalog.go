// Package catalog loads service catalogs: named operations, each compiled
// into an optgrammar schema, read from YAML or JSON documents.
//
// A catalog document has an optional "common" section whose options are
// shared by every operation and an "operations" mapping from operation
// name to option declarations (anything optgrammar.ParseOptions accepts):
//
//	common:
//	  DryRun: [boolean]
//	operations:
//	  DescribeInstances:
//	    InstanceId:
//	      - membered_list: [string]
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	og "github.com/reoring/optgrammar"
	"github.com/reoring/optgrammar/source/gojson"
	"github.com/reoring/optgrammar/source/yaml"
)

var (
	// ErrInvalidCatalog wraps every problem found in a catalog document.
	ErrInvalidCatalog = errors.New("catalog: invalid catalog")
	// ErrUnknownOperation is returned by Operation for names the catalog
	// does not define.
	ErrUnknownOperation = errors.New("catalog: unknown operation")
)

// Format selects the document decoder.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file name: ".json" is JSON, anything
// else YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Catalog is an immutable set of operation schemas.
type Catalog struct {
	common *og.Schema
	names  []string
	ops    map[string]*og.Schema
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data, FormatFor(path))
}

// Parse decodes data in the given format and builds the catalog.
func Parse(data []byte, f Format) (*Catalog, error) {
	var (
		doc any
		err error
	)
	switch f {
	case FormatJSON:
		doc, err = gojson.DecodeWithOptions(data, gojson.Options{DisallowDuplicateKeys: true})
	case FormatYAML, "":
		doc, err = yaml.Decode(data)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidCatalog, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return FromValue(doc)
}

// FromValue builds a catalog from an already decoded document.
func FromValue(doc any) (*Catalog, error) {
	root, ok := doc.(og.Map)
	if !ok {
		return nil, fmt.Errorf("%w: document must be a mapping, got %T", ErrInvalidCatalog, doc)
	}

	c := &Catalog{common: og.New(), ops: map[string]*og.Schema{}}
	var ops og.Map
	for _, e := range root {
		switch e.Key {
		case "common":
			s, err := og.New().CustomizeConfig(e.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: common: %w", ErrInvalidCatalog, err)
			}
			c.common = s
		case "operations":
			if e.Value == nil {
				continue
			}
			m, ok := e.Value.(og.Map)
			if !ok {
				return nil, fmt.Errorf("%w: operations must be a mapping, got %T", ErrInvalidCatalog, e.Value)
			}
			ops = m
		default:
			return nil, fmt.Errorf("%w: unexpected section %q", ErrInvalidCatalog, e.Key)
		}
	}

	for _, e := range ops {
		s, err := c.common.CustomizeConfig(e.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: operation %s: %w", ErrInvalidCatalog, e.Key, err)
		}
		c.names = append(c.names, e.Key)
		c.ops[e.Key] = s
	}
	return c, nil
}

// Operation returns the schema of the named operation.
func (c *Catalog) Operation(name string) (*og.Schema, error) {
	s, ok := c.ops[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownOperation, name)
	}
	return s, nil
}

// Operations lists operation names in document order.
func (c *Catalog) Operations() []string { return append([]string(nil), c.names...) }

// Common returns the schema shared by every operation.
func (c *Catalog) Common() *og.Schema { return c.common }

// WithBlobCodec returns a catalog whose schemas encode Blob values with b.
func (c *Catalog) WithBlobCodec(b og.BlobCodec) *Catalog {
	out := &Catalog{
		common: c.common.WithBlobCodec(b),
		names:  c.names,
		ops:    make(map[string]*og.Schema, len(c.ops)),
	}
	for name, s := range c.ops {
		out.ops[name] = s.WithBlobCodec(b)
	}
	return out
}
