package constants

import "strings"

// Intent classifies an uploaded artifact: a data-bearing document
// (ID card, certificate) vs a fillable form template.
type Intent string

const (
	IntentDocument Intent = "document"
	IntentForm     Intent = "form"
	IntentUnknown  Intent = "unknown"
)

// ParseIntent maps free text to a canonical Intent. Anything
// unrecognized is IntentUnknown, never an error.
func ParseIntent(s string) Intent {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "document", "doc":
		return IntentDocument
	case "form", "template":
		return IntentForm
	default:
		return IntentUnknown
	}
}

// Language selects an OCR branch.
type Language string

const (
	LangEnglish Language = "english"
	LangUrdu    Language = "urdu"
)
