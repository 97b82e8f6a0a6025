package optgrammar

import (
	"net/url"
	"strconv"
	"strings"
)

// Param is one flattened wire parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered parameter list. Keys may repeat a prefix (indexed
// list members) and the order is significant.
type Params []Param

// Get returns the value of the first param named key.
func (ps Params) Get(key string) (string, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// QueryString renders ps as "k1=v1&k2=v2" in order, escaping with RFC 3986
// rules (space is "%20", "~" is left as is).
func (ps Params) QueryString() string {
	b := &strings.Builder{}
	for i, p := range ps {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escape(p.Key))
		b.WriteByte('=')
		b.WriteString(escape(p.Value))
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// RequestParams validates opts and flattens them into Params, following
// the caller's key order. Invalid input yields the validation error and no
// params.
func (s *Schema) RequestParams(opts any) (Params, error) {
	es, ok := entries(opts)
	if !ok {
		return nil, s.Validate(opts)
	}
	if err := s.validateEntries(es); err != nil {
		return nil, err
	}
	enc := encoder{blob: s.blobCodec()}
	out := make(Params, 0, len(es))
	for _, e := range es {
		n, _ := s.Option(e.Key)
		out = enc.appendParams(out, n, e.Value, "", false)
	}
	return out, nil
}

type encoder struct {
	blob BlobCodec
}

// prefixedName is the key of n's value below prefix. List members take
// the key computed by their list.
func (n *Node) prefixedName(prefix string, hasPrefix bool) string {
	switch {
	case n.listMember:
		return prefix
	case hasPrefix:
		return prefix + "." + n.wireName
	default:
		return n.wireName
	}
}

func (enc encoder) appendParams(out Params, n *Node, v any, prefix string, hasPrefix bool) Params {
	name := n.prefixedName(prefix, hasPrefix)
	switch n.kind {
	case KindList:
		items, _ := elements(v)
		if len(items) == 0 {
			return append(out, Param{Key: name, Value: ""})
		}
		for i, item := range items {
			out = enc.appendParams(out, n.member, item, name+n.join+strconv.Itoa(i+1), true)
		}
		return out
	case KindStructure:
		es, _ := entries(v)
		for _, e := range es {
			out = enc.appendParams(out, n.byBinding[e.Key], e.Value, name, true)
		}
		return out
	}
	return append(out, Param{Key: name, Value: enc.scalar(n.scalar, v)})
}

func (enc encoder) scalar(kind Scalar, v any) string {
	if kind == ScalarBlob {
		return enc.blob.EncodeToString(bytesOf(v))
	}
	return stringify(v)
}
