package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/omerfarooq-dev/formflow/internal/formextract"
)

// Service produces XLSX bytes from a merged extraction result so that
// reviewers can audit the field catalog outside the JSON artifacts.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// FieldCatalogXLSX returns an XLSX workbook (as bytes) with one sheet per
// section of the extraction result: form fields, instructions, special areas.
func (s *Service) FieldCatalogXLSX(result formextract.ExtractionResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()

	if err := s.writeFields(f, result.FormFields); err != nil {
		return nil, err
	}
	if err := s.writeInstructions(f, result.Instructions); err != nil {
		return nil, err
	}
	if err := s.writeAreas(f, result.SpecialAreas); err != nil {
		return nil, err
	}

	// excelize creates a default "Sheet1"; drop it once our sheets exist.
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}
	if idx, _ := f.GetSheetIndex("Form Fields"); idx != -1 {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"fields", len(result.FormFields),
		"instructions", len(result.Instructions),
		"special_areas", len(result.SpecialAreas),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, name string, headers []string) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("new sheet %s: %w", name, err)
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(name, cell, h)
	}
	return nil
}

func (s *Service) writeFields(f *excelize.File, fields []formextract.FormField) error {
	const sheet = "Form Fields"
	headers := []string{"Field Name", "Field Key", "Type", "Required", "Validation", "Page", "Coordinates", "Span"}
	if err := newSheet(f, sheet, headers); err != nil {
		return err
	}

	row := 2
	for _, fld := range fields {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, fld.FieldName)
		write(2, fld.FieldKey)
		write(3, string(fld.FieldType))
		write(4, fld.Required)
		write(5, fld.Validation)
		write(6, fld.PageNumber)
		write(7, formatCoords(fld.Coordinates))
		if fld.Span != nil {
			write(8, fmt.Sprintf("%d+%d", fld.Span.Offset, fld.Span.Length))
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "B", 28)
	_ = f.SetColWidth(sheet, "C", "F", 14)
	_ = f.SetColWidth(sheet, "G", "G", 32)
	return nil
}

func (s *Service) writeInstructions(f *excelize.File, instructions []string) error {
	const sheet = "Instructions"
	if err := newSheet(f, sheet, []string{"Instruction"}); err != nil {
		return err
	}
	for i, ins := range instructions {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetCellValue(sheet, cell, ins)
	}
	_ = f.SetColWidth(sheet, "A", "A", 90)
	return nil
}

func (s *Service) writeAreas(f *excelize.File, areas []formextract.SpecialArea) error {
	const sheet = "Special Areas"
	headers := []string{"Type", "Label", "Requirements", "Page", "Coordinates"}
	if err := newSheet(f, sheet, headers); err != nil {
		return err
	}

	row := 2
	for _, a := range areas {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, a.Type)
		write(2, a.Label)
		write(3, a.Requirements)
		write(4, a.PageNumber)
		write(5, formatCoords(a.Coordinates))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "B", 20)
	_ = f.SetColWidth(sheet, "C", "C", 48)
	_ = f.SetColWidth(sheet, "E", "E", 32)
	return nil
}

func formatCoords(coords []float64) string {
	if len(coords) == 0 {
		return ""
	}
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = fmt.Sprintf("%.2f", c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
