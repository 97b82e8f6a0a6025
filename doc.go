// Package optgrammar validates nested option values against a declarative
// schema and flattens them into the ordered key/value parameters of a
// query-style wire protocol.
//
// A Schema is built once from descriptor declarations and is immutable
// afterwards; it is safe to share across goroutines. Customize never
// modifies its receiver, so one base schema can be extended many times.
//
//	s := optgrammar.New(
//	    optgrammar.Named("Bucket", optgrammar.String(), optgrammar.Required()),
//	    optgrammar.Named("Tags", optgrammar.MemberedList(optgrammar.String())),
//	)
//	params, err := s.RequestParams(optgrammar.NewMap(
//	    "bucket", "b1",
//	    "tags", []any{"a", "b"},
//	))
//	// params: Bucket=b1, Tags.member.1=a, Tags.member.2=b
//
// Callers address options by binding name (inflection.BindingName of the
// wire name, or the Rename target). Params use wire names.
//
// Output order follows the caller's key order, so pass a Map when order
// matters. Plain Go maps are walked in sorted key order.
//
// Validation failures are *Error values carrying a code, a breadcrumb such
// as "member 2 of key values of option filter", and a JSON Pointer.
// RequestParams always validates first and never returns partial output.
package optgrammar
