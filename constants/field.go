package constants

// FieldType is the canonical type of an extracted fillable form field.
type FieldType string

// Stable values (these exact strings appear in LLM output and exports).
const (
	FieldText        FieldType = "text_input"
	FieldTextarea    FieldType = "textarea"
	FieldDate        FieldType = "date"
	FieldCheckbox    FieldType = "checkbox"
	FieldRadio       FieldType = "radio"
	FieldSignature   FieldType = "signature"
	FieldDropdown    FieldType = "dropdown"
	FieldImageUpload FieldType = "image_upload"
	FieldNumber      FieldType = "number"
)

var fieldTypes = map[FieldType]struct{}{
	FieldText: {}, FieldTextarea: {}, FieldDate: {}, FieldCheckbox: {},
	FieldRadio: {}, FieldSignature: {}, FieldDropdown: {}, FieldImageUpload: {},
	FieldNumber: {},
}

// IsValidFieldType reports whether t is one of the canonical field types.
func IsValidFieldType(t FieldType) bool {
	_, ok := fieldTypes[t]
	return ok
}

// FieldTypeNames returns the canonical field type strings, for prompts and schemas.
func FieldTypeNames() []string {
	return []string{
		string(FieldText), string(FieldTextarea), string(FieldDate),
		string(FieldCheckbox), string(FieldRadio), string(FieldSignature),
		string(FieldDropdown), string(FieldImageUpload), string(FieldNumber),
	}
}
