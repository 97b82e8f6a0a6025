package optgrammar

import (
	"errors"
	"strings"

	"github.com/reoring/optgrammar/i18n"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeInvalidType    = "invalid_type"    // value shape does not match the node
	CodeUnknownOption  = "unknown_option"  // top-level key has no option
	CodeUnknownKey     = "unknown_key"     // structure key has no member
	CodeRequiredOption = "required_option" // required option missing
	CodeRequired       = "required"        // required structure key missing
)

// Build-time errors returned while turning declarations into descriptors.
var (
	ErrUnknownDescriptor  = errors.New("optgrammar: unknown descriptor")
	ErrDescriptorArgument = errors.New("optgrammar: invalid descriptor argument")
	ErrInvalidDeclaration = errors.New("optgrammar: invalid option declaration")
)

// Error reports the first problem found while validating options.
// Validation stops at the first failure, so there is never more than one.
type Error struct {
	Code string
	// Name is the offending key (unknown_*) or the missing binding name
	// (required*).
	Name string
	// Expectation describes the accepted shape, e.g. "string value".
	// Set for invalid_type only.
	Expectation string
	// Context is the breadcrumb of the enclosing value, e.g.
	// "member 2 of key foo of option bar". Empty for top-level
	// unknown/required errors.
	Context string
	// Path is a JSON Pointer to the offending value using binding names and
	// 0-based indices (for example: /filter/0/name).
	Path string
}

// Error renders the message in the current i18n language. The English
// templates are the stable wording; i18n.SetLanguage and i18n.SetTranslator
// change it process-wide, so compare Code and Path rather than the text.
func (e *Error) Error() string {
	return i18n.T(e.Code, map[string]string{
		"name":     e.Name,
		"expected": e.Expectation,
		"context":  e.Context,
	})
}

// AsError extracts *Error from err using errors.As internally.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// scope locates a nested value: the breadcrumb used in messages and the
// pointer used in Error.Path. A nil scope means top level.
type scope struct {
	desc string
	path string
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pointerToken(s string) string { return pointerEscaper.Replace(s) }
