package optgrammar

import "strconv"

// Validate checks opts (a Map or any Go map keyed by binding name) against
// the schema. It returns the first *Error found. Unknown keys are reported
// during the key pass; missing required options only after every supplied
// key has been checked.
func (s *Schema) Validate(opts any) error {
	es, ok := entries(opts)
	if !ok {
		return &Error{Code: CodeInvalidType, Expectation: "hash value", Context: "options", Path: "/"}
	}
	return s.validateEntries(es)
}

// ValidateOption checks a single value against the option bound to
// bindingName.
func (s *Schema) ValidateOption(bindingName string, value any) error {
	n, ok := s.Option(bindingName)
	if !ok {
		return &Error{Code: CodeUnknownOption, Name: bindingName, Path: "/" + pointerToken(bindingName)}
	}
	return n.validate(value, nil)
}

func (s *Schema) validateEntries(es []Entry) error {
	for _, e := range es {
		n, ok := s.Option(e.Key)
		if !ok {
			return &Error{Code: CodeUnknownOption, Name: e.Key, Path: "/" + pointerToken(e.Key)}
		}
		if err := n.validate(e.Value, nil); err != nil {
			return err
		}
	}
	for _, n := range s.nodes() {
		if n.required && !hasKey(es, n.bindingName) {
			return &Error{Code: CodeRequiredOption, Name: n.bindingName, Path: "/" + pointerToken(n.bindingName)}
		}
	}
	return nil
}

// describe returns the breadcrumb for the value held by n.
func (n *Node) describe(sc *scope) string {
	if sc != nil {
		return sc.desc
	}
	return "option " + n.bindingName
}

func (n *Node) pointer(sc *scope) string {
	if sc != nil {
		return sc.path
	}
	return "/" + pointerToken(n.bindingName)
}

func (n *Node) formatError(expectation string, sc *scope) error {
	return &Error{Code: CodeInvalidType, Expectation: expectation, Context: n.describe(sc), Path: n.pointer(sc)}
}

func (n *Node) validate(v any, sc *scope) error {
	switch n.kind {
	case KindList:
		return n.validateList(v, sc)
	case KindStructure:
		return n.validateStructure(v, sc)
	}
	return n.validateScalar(v, sc)
}

func (n *Node) validateScalar(v any, sc *scope) error {
	switch n.scalar {
	case ScalarString, ScalarBlob:
		if !isStringLike(v) {
			return n.formatError("string value", sc)
		}
	case ScalarInteger:
		if !isInteger(v) {
			return n.formatError("integer value", sc)
		}
	case ScalarBoolean:
		if !isBoolean(v) {
			return n.formatError("boolean value", sc)
		}
	case ScalarTimestamp:
		// any value is accepted
	}
	return nil
}

func (n *Node) validateList(v any, sc *scope) error {
	items, ok := elements(v)
	if !ok {
		return n.formatError("enumerable value", sc)
	}
	desc, path := n.describe(sc), n.pointer(sc)
	for i, item := range items {
		child := &scope{
			desc: "member " + strconv.Itoa(i+1) + " of " + desc,
			path: path + "/" + strconv.Itoa(i),
		}
		if err := n.member.validate(item, child); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) validateStructure(v any, sc *scope) error {
	es, ok := entries(v)
	if !ok {
		return n.formatError("hash value", sc)
	}
	desc, path := n.describe(sc), n.pointer(sc)
	for _, e := range es {
		m, ok := n.byBinding[e.Key]
		if !ok {
			return &Error{Code: CodeUnknownKey, Name: e.Key, Context: desc, Path: path + "/" + pointerToken(e.Key)}
		}
		child := &scope{desc: "key " + e.Key + " of " + desc, path: path + "/" + pointerToken(e.Key)}
		if err := m.validate(e.Value, child); err != nil {
			return err
		}
	}
	for _, m := range n.members {
		if m.required && !hasKey(es, m.bindingName) {
			return &Error{Code: CodeRequired, Name: m.bindingName, Context: desc, Path: path + "/" + pointerToken(m.bindingName)}
		}
	}
	return nil
}
