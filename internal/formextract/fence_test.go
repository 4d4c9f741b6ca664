package formextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONPayloadNoFence(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, ExtractJSONPayload(`{"a": 1}`))
	assert.Equal(t, `{"a": 1}`, ExtractJSONPayload("  {\"a\": 1}\n"))
}

func TestExtractJSONPayloadFenceWithTag(t *testing.T) {
	raw := "```json\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, ExtractJSONPayload(raw))

	// Tag casing does not matter.
	raw = "```JSON\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, ExtractJSONPayload(raw))
}

func TestExtractJSONPayloadFenceWithoutTag(t *testing.T) {
	raw := "```\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, ExtractJSONPayload(raw))
}

func TestExtractJSONPayloadFenceWithProse(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"a\": 1}\n```\nLet me know if you need anything else."
	assert.Equal(t, `{"a": 1}`, ExtractJSONPayload(raw))
}

func TestExtractJSONPayloadBackticksInsideJSON(t *testing.T) {
	// Unfenced JSON whose string values quote a fence must pass through
	// untouched instead of being carved up by the fence scan.
	raw := "{\"instructions\": [\"wrap the code in ``` fences\"], \"a\": 1}"
	assert.Equal(t, raw, ExtractJSONPayload(raw))

	raw = "[\"```json\", 1]"
	assert.Equal(t, raw, ExtractJSONPayload(raw))
}

func TestExtractJSONPayloadUnclosedFence(t *testing.T) {
	raw := "```json\n{\"a\": 1}"
	assert.Equal(t, `{"a": 1}`, ExtractJSONPayload(raw))
}

func TestExtractJSONPayloadMalformedStaysMalformed(t *testing.T) {
	// The fence parser never fails; garbage passes through for the JSON
	// decoder to reject.
	assert.Equal(t, "not json", ExtractJSONPayload("not json"))
}
