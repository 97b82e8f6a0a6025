package optgrammar

import "github.com/reoring/optgrammar/inflection"

// Kind is the shape of values a Node accepts.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindStructure
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindStructure:
		return "structure"
	default:
		return "scalar"
	}
}

// Scalar is the leaf type of a KindScalar node.
type Scalar int

const (
	ScalarString Scalar = iota
	ScalarInteger
	ScalarBoolean
	ScalarBlob
	ScalarTimestamp
)

func (s Scalar) String() string {
	switch s {
	case ScalarInteger:
		return "integer"
	case ScalarBoolean:
		return "boolean"
	case ScalarBlob:
		return "blob"
	case ScalarTimestamp:
		return "timestamp"
	default:
		return "string"
	}
}

const listMemberName = "##list-member##"

// Node is the compiled form of one option, structure member or list
// member. Nodes are immutable: applying a descriptor returns a new Node.
//
// A node remembers its list member and structure members even when a later
// descriptor switches its kind, so re-applying List or Structure extends
// what was there before.
type Node struct {
	wireName    string
	bindingName string
	required    bool
	listMember  bool

	kind   Kind
	scalar Scalar

	member *Node
	join   string

	members   []*Node
	byBinding map[string]*Node
}

func newNode(wireName string) *Node {
	return &Node{wireName: wireName, bindingName: inflection.BindingName(wireName)}
}

func newListMember() *Node {
	n := newNode(listMemberName)
	n.listMember = true
	return n
}

// WireName is the name used in Params.
func (n *Node) WireName() string { return n.wireName }

// BindingName is the key callers use in option maps.
func (n *Node) BindingName() string { return n.bindingName }

// Required reports whether the key must be present in its mapping.
func (n *Node) Required() bool { return n.required }

func (n *Node) Kind() Kind     { return n.kind }
func (n *Node) Scalar() Scalar { return n.scalar }

// Member returns the element node of a list, or nil.
func (n *Node) Member() *Node { return n.member }

// Join returns the separator between a list's key and member index:
// "." for List, ".member." for MemberedList.
func (n *Node) Join() string { return n.join }

// Members returns structure members in declaration order.
func (n *Node) Members() []*Node { return append([]*Node(nil), n.members...) }

// MemberByBinding finds a structure member by binding name.
func (n *Node) MemberByBinding(name string) (*Node, bool) {
	m, ok := n.byBinding[name]
	return m, ok
}

func (n *Node) clone() *Node {
	c := *n
	return &c
}

// extend applies descs in order, returning the last node produced.
func (n *Node) extend(descs []Descriptor) *Node {
	out := n
	for _, d := range descs {
		out = out.with(d)
	}
	return out
}

// with returns a copy of n with d applied.
func (n *Node) with(d Descriptor) *Node {
	c := n.clone()
	switch d.kind {
	case DescString:
		c.kind, c.scalar = KindScalar, ScalarString
	case DescInteger:
		c.kind, c.scalar = KindScalar, ScalarInteger
	case DescBoolean:
		c.kind, c.scalar = KindScalar, ScalarBoolean
	case DescBlob:
		c.kind, c.scalar = KindScalar, ScalarBlob
	case DescTimestamp:
		c.kind, c.scalar = KindScalar, ScalarTimestamp
	case DescRequired:
		c.required = true
	case DescRename:
		c.bindingName = inflection.BindingName(d.text)
	case DescPattern:
		// not enforced
	case DescList, DescMemberedList:
		m := n.member
		if m == nil {
			m = newListMember()
		}
		c.member = m.extend(d.member)
		c.kind = KindList
		c.join = "."
		if d.kind == DescMemberedList {
			c.join = ".member."
		}
	case DescStructure:
		c.members = mergeDeclarations(n.members, d.members)
		c.byBinding = indexByBinding(c.members)
		c.kind = KindStructure
	}
	return c
}

// mergeDeclarations extends existing nodes (matched by wire name) and
// appends new ones. existing is not modified.
func mergeDeclarations(existing []*Node, decls []Option) []*Node {
	out := make([]*Node, len(existing), len(existing)+len(decls))
	copy(out, existing)
	pos := make(map[string]int, len(out))
	for i, m := range out {
		pos[m.wireName] = i
	}
	for _, o := range decls {
		if i, ok := pos[o.Name]; ok {
			out[i] = out[i].extend(o.Descriptors)
			continue
		}
		pos[o.Name] = len(out)
		out = append(out, newNode(o.Name).extend(o.Descriptors))
	}
	return out
}

// indexByBinding maps binding names to nodes; a later node wins a clash.
func indexByBinding(nodes []*Node) map[string]*Node {
	m := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		m[n.bindingName] = n
	}
	return m
}
