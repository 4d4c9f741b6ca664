package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/omerfarooq-dev/formflow/internal/formextract"
)

func TestFieldCatalogXLSX(t *testing.T) {
	result := formextract.ExtractionResult{
		FormFields: []formextract.FormField{
			{
				FieldName:   "Full Name",
				FieldKey:    "full_name",
				FieldType:   "text_input",
				Required:    true,
				Coordinates: []float64{59.74, 952.25, 124.59, 938.32},
				Span:        &formextract.SpanRef{Offset: 10, Length: 15},
				PageNumber:  1,
			},
			{FieldName: "Date of Birth", FieldKey: "dob", FieldType: "date"},
		},
		Instructions: []string{"Fill in block letters", "Use blue ink"},
		SpecialAreas: []formextract.SpecialArea{
			{Type: "signature", Label: "applicant_signature", Requirements: "blue ink"},
		},
	}

	raw, err := NewService(nil).FieldCatalogXLSX(result)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	wb, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	assert.ElementsMatch(t, []string{"Form Fields", "Instructions", "Special Areas"}, wb.GetSheetList())

	name, err := wb.GetCellValue("Form Fields", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Full Name", name)

	coords, err := wb.GetCellValue("Form Fields", "G2")
	require.NoError(t, err)
	assert.Equal(t, "[59.74, 952.25, 124.59, 938.32]", coords)

	span, err := wb.GetCellValue("Form Fields", "H2")
	require.NoError(t, err)
	assert.Equal(t, "10+15", span)

	ins, err := wb.GetCellValue("Instructions", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Use blue ink", ins)

	area, err := wb.GetCellValue("Special Areas", "B2")
	require.NoError(t, err)
	assert.Equal(t, "applicant_signature", area)
}

func TestFieldCatalogXLSXEmptyResult(t *testing.T) {
	raw, err := NewService(nil).FieldCatalogXLSX(formextract.NewExtractionResult())
	require.NoError(t, err)

	wb, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer func() { _ = wb.Close() }()

	// Headers only, no rows.
	rows, err := wb.GetRows("Form Fields")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
