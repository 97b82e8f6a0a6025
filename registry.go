package optgrammar

import (
	"fmt"

	"github.com/reoring/optgrammar/inflection"
)

var registry = func() map[string]DescriptorKind {
	m := make(map[string]DescriptorKind, len(descriptorNames))
	for k, name := range descriptorNames {
		if name != "" {
			m[name] = DescriptorKind(k)
		}
	}
	return m
}()

// Lookup resolves a descriptor by its declaration name ("string",
// "membered_list", "rename", ...) and argument.
//
// arg may be typed ([]Descriptor for lists, []Option for structures,
// string for rename) or declarative (the []any / Map trees produced by
// the decoders under source/). Unknown names fail with
// ErrUnknownDescriptor and bad arguments with ErrDescriptorArgument.
func Lookup(name string, arg any) (Descriptor, error) {
	kind, ok := registry[inflection.DescriptorName(name)]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w %q", ErrUnknownDescriptor, name)
	}
	switch kind {
	case DescRename:
		s, ok := arg.(string)
		if !ok || s == "" {
			return Descriptor{}, argumentError(name, "a name", arg)
		}
		return Rename(s), nil
	case DescPattern:
		var expr string
		if arg != nil {
			expr = stringify(arg)
		}
		return Pattern(expr), nil
	case DescList, DescMemberedList:
		if arg == nil {
			return Descriptor{}, argumentError(name, "member descriptors", arg)
		}
		member, err := ParseDescriptors(arg)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%s member: %w", name, err)
		}
		return Descriptor{kind: kind, member: member}, nil
	case DescStructure:
		if arg == nil {
			return Descriptor{}, argumentError(name, "member declarations", arg)
		}
		members, err := ParseOptions(arg)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%s: %w", name, err)
		}
		return Structure(members...), nil
	}
	if arg != nil {
		return Descriptor{}, argumentError(name, "no argument", arg)
	}
	return Descriptor{kind: kind}, nil
}

func argumentError(name, want string, got any) error {
	return fmt.Errorf("%w: %s expects %s, got %#v", ErrDescriptorArgument, name, want, got)
}

// ParseDescriptors turns a declarative descriptor list into Descriptors.
// v is nil, a single declaration, or a sequence of declarations; a
// declaration is a name ("string") or a one-entry mapping
// ({"membered_list": ["string"]}).
func ParseDescriptors(v any) ([]Descriptor, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []Descriptor:
		return t, nil
	case Descriptor:
		return []Descriptor{t}, nil
	}
	items, ok := elements(v)
	if !ok {
		d, err := parseDescriptor(v)
		if err != nil {
			return nil, err
		}
		return []Descriptor{d}, nil
	}
	out := make([]Descriptor, 0, len(items))
	for _, it := range items {
		d, err := parseDescriptor(it)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func parseDescriptor(v any) (Descriptor, error) {
	if d, ok := v.(Descriptor); ok {
		return d, nil
	}
	if isStringLike(v) {
		return Lookup(stringify(v), nil)
	}
	es, ok := entries(v)
	if !ok || len(es) != 1 {
		return Descriptor{}, fmt.Errorf("%w: expected a descriptor name or a one-entry mapping, got %#v", ErrInvalidDeclaration, v)
	}
	return Lookup(es[0].Key, es[0].Value)
}

// ParseOptions turns declarative option declarations into Options.
//
// v is either a mapping from option name to its descriptor list, or a
// sequence whose items are an option name or a one-entry mapping
// {name: [descriptors...]}. In the sequence form the descriptor list must
// be a sequence (or null).
func ParseOptions(v any) ([]Option, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []Option:
		return t, nil
	}
	if es, ok := entries(v); ok {
		out := make([]Option, 0, len(es))
		for _, e := range es {
			ds, err := ParseDescriptors(e.Value)
			if err != nil {
				return nil, fmt.Errorf("option %s: %w", e.Key, err)
			}
			out = append(out, Named(e.Key, ds...))
		}
		return out, nil
	}
	items, ok := elements(v)
	if !ok {
		return nil, fmt.Errorf("%w: expected a mapping or a sequence of options, got %#v", ErrInvalidDeclaration, v)
	}
	out := make([]Option, 0, len(items))
	for _, it := range items {
		o, err := parseOption(it)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func parseOption(v any) (Option, error) {
	if o, ok := v.(Option); ok {
		return o, nil
	}
	if isStringLike(v) {
		return Named(stringify(v)), nil
	}
	es, ok := entries(v)
	switch {
	case !ok:
		return Option{}, fmt.Errorf("%w: expected an option name or mapping, got %#v", ErrInvalidDeclaration, v)
	case len(es) == 0:
		return Option{}, fmt.Errorf("%w: passed empty hash where an option was expected", ErrInvalidDeclaration)
	case len(es) > 1:
		return Option{}, fmt.Errorf("%w: too many entries in option description", ErrInvalidDeclaration)
	}
	name, desc := es[0].Key, es[0].Value
	if desc == nil {
		return Named(name), nil
	}
	if _, ok := elements(desc); !ok {
		return Option{}, fmt.Errorf("%w: expected an array for value description of option %s, got %#v", ErrInvalidDeclaration, name, desc)
	}
	ds, err := ParseDescriptors(desc)
	if err != nil {
		return Option{}, fmt.Errorf("option %s: %w", name, err)
	}
	return Named(name, ds...), nil
}
