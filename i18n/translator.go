package i18n

import "strings"

// Translator retrieves localized messages for error codes.
// data provides the values substituted into the message ("name",
// "expected", "context").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

// The "en" templates are part of the wire contract: callers match on them.
var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":    "expected {expected} for {context}",
		"unknown_option":  "unexpected option {name}",
		"unknown_key":     "unexpected key {name} for {context}",
		"required_option": "missing required option {name}",
		"required":        "missing required key {name} for {context}",
	},
	"ja": {
		"invalid_type":    "{context} には {expected} が必要です",
		"unknown_option":  "未知のオプションです: {name}",
		"unknown_key":     "{context} に未知のキーがあります: {name}",
		"required_option": "必須オプションが不足しています: {name}",
		"required":        "{context} に必須キーが不足しています: {name}",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	return render(tmpl, data)
}

func render(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
