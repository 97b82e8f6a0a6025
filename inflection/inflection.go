// Package inflection converts between the names used on the wire and the
// names callers use in option maps and schema catalogs.
//
// The rules are fixed: existing catalogs were written against them, so a
// change here changes which keys callers must supply.
package inflection

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	namespacePrefix = regexp.MustCompile(`^.*:`)
	acronymBoundary = regexp.MustCompile(`([A-Z0-9]+)([A-Z][a-z])`)
	word            = regexp.MustCompile(`[a-z]+|\d+|[A-Z0-9]+[a-z]*`)
	separatorLetter = regexp.MustCompile(`(?i)[-_]([a-z])`)
)

// irregular holds wire names the word splitter gets wrong.
var irregular = map[string]string{
	"ETag": "etag",
}

// BindingName returns the caller-facing name for a wire name.
//
//	BindingName("MaxResults")           // "max_results"
//	BindingName("DBInstanceIdentifier") // "db_instance_identifier"
func BindingName(wireName string) string {
	if v, ok := irregular[wireName]; ok {
		return v
	}
	s := namespacePrefix.ReplaceAllString(wireName, "")
	s = acronymBoundary.ReplaceAllString(s, "${1}_${2}")
	return strings.ToLower(strings.Join(word.FindAllString(s, -1), "_"))
}

// DescriptorName returns the registry name for a descriptor token, e.g.
// "membered_list" and "memberedList" both become "MemberedList".
func DescriptorName(token string) string {
	if token == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(token)
	s := string(unicode.ToUpper(r)) + token[size:]
	return separatorLetter.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[1:])
	})
}
