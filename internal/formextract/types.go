package formextract

import (
	"encoding/json"

	"github.com/omerfarooq-dev/formflow/constants"
)

// SpanRef locates a field's label text within its source element.
type SpanRef struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// FormField is one extracted fillable field. FieldKey is the stable
// de-duplication key and must be unique across the final merged result.
type FormField struct {
	FieldName   string              `json:"field_name"`
	FieldKey    string              `json:"field_key"`
	FieldType   constants.FieldType `json:"field_type"`
	Required    bool                `json:"required"`
	Validation  string              `json:"validation,omitempty"`
	Coordinates []float64           `json:"coordinates"`
	Span        *SpanRef            `json:"span,omitempty"`
	PageNumber  int                 `json:"page_number"`
}

// UnmarshalJSON defaults Required to true when the model omits it.
func (f *FormField) UnmarshalJSON(data []byte) error {
	type alias FormField
	aux := struct {
		*alias
		Required *bool `json:"required"`
	}{alias: (*alias)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f.Required = aux.Required == nil || *aux.Required
	return nil
}

// SpecialArea is a non-input region of the form (signature box, photo area).
// De-duplicated by Label.
type SpecialArea struct {
	Type         string    `json:"type"`
	Label        string    `json:"label"`
	Requirements string    `json:"requirements,omitempty"`
	Coordinates  []float64 `json:"coordinates,omitempty"`
	PageNumber   int       `json:"page_number,omitempty"`
}

// ExtractionResult is both the per-chunk extraction output and the final
// merged output; merging is a fold over values of this one type.
type ExtractionResult struct {
	FormFields   []FormField   `json:"form_fields"`
	Instructions []string      `json:"instructions"`
	SpecialAreas []SpecialArea `json:"special_areas"`
}

// NewExtractionResult returns a result with empty (non-nil) sequences so the
// serialized form always carries all three keys.
func NewExtractionResult() ExtractionResult {
	return ExtractionResult{
		FormFields:   make([]FormField, 0),
		Instructions: make([]string, 0),
		SpecialAreas: make([]SpecialArea, 0),
	}
}

// MarshalArtifact renders the result the way it is persisted for inspection.
func (r ExtractionResult) MarshalArtifact() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
