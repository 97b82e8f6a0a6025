// Package yaml decodes YAML documents into option values with
// gopkg.in/yaml.v3, keeping mapping keys in document order.
//
// Mappings become optgrammar.Map and sequences []any. Scalars resolve the
// way yaml.v3 resolves them into interface{} (int, float64, bool, string,
// time.Time or nil). Aliases are expanded and "<<" merge keys are applied.
package yaml

import (
	"errors"
	"fmt"
	"io"

	yv3 "gopkg.in/yaml.v3"

	og "github.com/reoring/optgrammar"
)

// ErrUnsupportedKey is returned for mapping keys that are not scalars.
var ErrUnsupportedKey = errors.New("yaml: mapping keys must be scalars")

// Decode decodes the first document in data. An empty document is nil.
func Decode(data []byte) (any, error) {
	var doc yv3.Node
	if err := yv3.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return fromNode(&doc)
}

// DecodeReader decodes the first document read from r.
func DecodeReader(r io.Reader) (any, error) {
	var doc yv3.Node
	if err := yv3.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return fromNode(&doc)
}

func fromNode(n *yv3.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yv3.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromNode(n.Content[0])
	case yv3.AliasNode:
		return fromNode(n.Alias)
	case yv3.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yv3.MappingNode:
		m := og.Map{}
		if err := mergeMapping(&m, n); err != nil {
			return nil, err
		}
		return m, nil
	case yv3.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unexpected yaml node kind %d", n.Line, n.Kind)
}

// mergeMapping sets the pairs of n into m. Keys written in n override
// keys pulled in through "<<".
func mergeMapping(m *og.Map, n *yv3.Node) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if isMerge(k) {
			if err := applyMerge(m, v); err != nil {
				return err
			}
			continue
		}
		if k.Kind != yv3.ScalarNode {
			return fmt.Errorf("line %d: %w", k.Line, ErrUnsupportedKey)
		}
		val, err := fromNode(v)
		if err != nil {
			return err
		}
		m.Set(k.Value, val)
	}
	return nil
}

func isMerge(k *yv3.Node) bool {
	return k.Kind == yv3.ScalarNode && k.Value == "<<" && (k.Tag == "" || k.Tag == "!!merge")
}

// applyMerge adds the pairs of the merged mapping(s) v that m does not
// already hold.
func applyMerge(m *og.Map, v *yv3.Node) error {
	for v.Kind == yv3.AliasNode {
		v = v.Alias
	}
	switch v.Kind {
	case yv3.MappingNode:
		var src og.Map
		if err := mergeMapping(&src, v); err != nil {
			return err
		}
		for _, e := range src {
			if _, ok := m.Get(e.Key); !ok {
				m.Set(e.Key, e.Value)
			}
		}
		return nil
	case yv3.SequenceNode:
		for _, c := range v.Content {
			if err := applyMerge(m, c); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("line %d: merge value must be a mapping", v.Line)
}
