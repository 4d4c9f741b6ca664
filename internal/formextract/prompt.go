package formextract

import (
	"fmt"
	"strings"

	"github.com/omerfarooq-dev/formflow/constants"
)

// SystemPrompt establishes persona and the strict JSON-only response
// discipline for chunk extraction.
const SystemPrompt = "You are a form extraction expert. Extract form fields with precise " +
	"coordinates and metadata. Always respond with valid JSON."

// BuildChunkPrompt composes the extraction prompt for one chunk: the chunk's
// serialized layout records, the exact output shape, and the coordinate/span
// conversion rules the model must apply.
func BuildChunkPrompt(chunk Chunk, totalChunks int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are analyzing a form to extract fillable fields.\n\n")
	fmt.Fprintf(&b, "**CHUNK %d OF %d**\n\n", chunk.Index+1, totalChunks)
	fmt.Fprintf(&b, "**JSON METADATA CHUNK:**\n%s\n\n", chunk.Payload)

	b.WriteString(`**YOUR TASK:**
Extract all form fields from this chunk. For each field:

1. **Identify the field label** (e.g., "Name", "Date of Birth", "Address")
2. **Determine field type**, one of: ` + strings.Join(constants.FieldTypeNames(), ", ") + `

3. **Extract coordinates from bbox**: [left, top, right, bottom]
   Example: {"l": 59.74, "t": 952.25, "r": 124.59, "b": 938.32} → [59.74, 952.25, 124.59, 938.32]

4. **Extract span from charspan**: {"offset": start, "length": end - start}
   Example: "charspan": [0, 11] → {"offset": 0, "length": 11}

5. **Use the record's page_number**

6. **Determine if required** (usually true for form fields)

7. **Add validation rules** if obvious (e.g., "numeric" for ID numbers)

**ALSO EXTRACT:**
- Form instructions (text that tells user how to fill the form)
- Special areas (signature boxes, photo areas, etc.)

**RESPOND ONLY WITH VALID JSON** in this exact format:
{
  "form_fields": [
    {
      "field_name": "Name of Candidate",
      "field_key": "candidate_name",
      "field_type": "text_input",
      "required": true,
      "validation": null,
      "coordinates": [59.74, 952.25, 124.59, 938.32],
      "span": {"offset": 0, "length": 11},
      "page_number": 1
    }
  ],
  "instructions": ["Fill all required fields", "Attach documents"],
  "special_areas": [
    {
      "type": "image_upload",
      "label": "Paste Photograph",
      "requirements": "passport size",
      "coordinates": [100, 200, 150, 250],
      "page_number": 1
    }
  ]
}

Extract ALL fields found in this chunk with complete information.
`)

	return b.String()
}
