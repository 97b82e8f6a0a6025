package optgrammar

import js "github.com/reoring/optgrammar/jsonschema"

// JSONSchema projects the schema into a JSON Schema describing the options
// map callers pass to Validate and RequestParams.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	return objectSchema(s.nodes()), nil
}

func objectSchema(nodes []*Node) *js.Schema {
	out := &js.Schema{
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(nodes)),
		AdditionalProperties: false,
	}
	for _, n := range nodes {
		p := n.jsonSchema()
		if n.wireName != n.bindingName {
			p.WireName = n.wireName
		}
		out.Properties[n.bindingName] = p
		if n.required {
			out.Required = append(out.Required, n.bindingName)
		}
	}
	return out
}

func (n *Node) jsonSchema() *js.Schema {
	switch n.kind {
	case KindList:
		return &js.Schema{Type: "array", Items: n.member.jsonSchema()}
	case KindStructure:
		return objectSchema(n.members)
	}
	switch n.scalar {
	case ScalarInteger:
		return &js.Schema{Type: "integer"}
	case ScalarBoolean:
		return &js.Schema{Type: "boolean"}
	case ScalarBlob:
		return &js.Schema{Type: "string", Format: "byte"}
	case ScalarTimestamp:
		return &js.Schema{Format: "date-time"}
	}
	return &js.Schema{Type: "string"}
}
