package optgrammar

import "github.com/reoring/optgrammar/codec"

// BlobCodec converts Blob payloads to wire text. *base64.Encoding
// satisfies it.
type BlobCodec interface {
	EncodeToString(src []byte) string
}

// Schema is an immutable set of top-level option nodes. A nil *Schema is
// the empty schema.
type Schema struct {
	options   []*Node
	byWire    map[string]*Node
	byBinding map[string]*Node
	blob      BlobCodec
}

// New builds a schema from scratch.
func New(opts ...Option) *Schema {
	return (*Schema)(nil).Customize(opts...)
}

// Customize returns a new schema with opts applied on top of s. Options
// already in s are extended in place of the original (keeping their
// position); new names are appended. s is left untouched.
func (s *Schema) Customize(opts ...Option) *Schema {
	out := &Schema{
		options: mergeDeclarations(s.nodes(), opts),
		blob:    s.blobCodec(),
	}
	out.reindex()
	return out
}

// CustomizeConfig is Customize for declarative input; see ParseOptions.
func (s *Schema) CustomizeConfig(config any) (*Schema, error) {
	opts, err := ParseOptions(config)
	if err != nil {
		return nil, err
	}
	return s.Customize(opts...), nil
}

// WithBlobCodec returns a copy of s that encodes Blob values with c.
// A nil c restores the default (standard base64).
func (s *Schema) WithBlobCodec(c BlobCodec) *Schema {
	out := &Schema{options: s.nodes(), blob: c}
	out.reindex()
	return out
}

func (s *Schema) reindex() {
	s.byWire = make(map[string]*Node, len(s.options))
	for _, n := range s.options {
		s.byWire[n.wireName] = n
	}
	s.byBinding = indexByBinding(s.options)
}

func (s *Schema) nodes() []*Node {
	if s == nil {
		return nil
	}
	return s.options
}

func (s *Schema) blobCodec() BlobCodec {
	if s == nil || s.blob == nil {
		return codec.Base64()
	}
	return s.blob
}

// Options returns the top-level nodes in declaration order.
func (s *Schema) Options() []*Node { return append([]*Node(nil), s.nodes()...) }

// Len returns the number of top-level options.
func (s *Schema) Len() int { return len(s.nodes()) }

// Option finds a top-level node by binding name.
func (s *Schema) Option(bindingName string) (*Node, bool) {
	if s == nil {
		return nil, false
	}
	n, ok := s.byBinding[bindingName]
	return n, ok
}

// OptionByWireName finds a top-level node by wire name.
func (s *Schema) OptionByWireName(wireName string) (*Node, bool) {
	if s == nil {
		return nil, false
	}
	n, ok := s.byWire[wireName]
	return n, ok
}
