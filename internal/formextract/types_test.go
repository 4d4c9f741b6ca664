package formextract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormFieldRequiredDefaultsTrue(t *testing.T) {
	var f FormField
	require.NoError(t, json.Unmarshal([]byte(`{"field_name": "x", "field_key": "x", "field_type": "text_input"}`), &f))
	assert.True(t, f.Required)

	require.NoError(t, json.Unmarshal([]byte(`{"field_key": "y", "required": false}`), &f))
	assert.False(t, f.Required)

	require.NoError(t, json.Unmarshal([]byte(`{"field_key": "z", "required": true}`), &f))
	assert.True(t, f.Required)
}

func TestMarshalArtifactAlwaysCarriesAllKeys(t *testing.T) {
	b, err := NewExtractionResult().MarshalArtifact()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Contains(t, decoded, "form_fields")
	assert.Contains(t, decoded, "instructions")
	assert.Contains(t, decoded, "special_areas")
	assert.NotNil(t, decoded["form_fields"])
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildExtractionSchema()

	require.NoError(t, ValidateJSONAgainstSchema(schema, []byte(validChunkResponse)))

	err := ValidateJSONAgainstSchema(schema, []byte(`{"form_fields": []}`))
	require.Error(t, err)

	err = ValidateJSONAgainstSchema(schema, []byte(`not json`))
	require.Error(t, err)
}
