package formextract

// Merge folds per-chunk results into one, in chunk order, with stable
// de-duplication:
//
//   - form_fields de-duplicate by field_key, first occurrence wins; later
//     duplicates are dropped even when more complete;
//   - instructions de-duplicate by exact string equality;
//   - special_areas de-duplicate by label.
//
// Entries with empty keys are dropped outright rather than recorded as seen,
// so distinct unlabeled entries never collapse into one.
func Merge(results []ExtractionResult) ExtractionResult {
	merged := NewExtractionResult()

	seenFields := make(map[string]struct{})
	seenInstructions := make(map[string]struct{})
	seenAreas := make(map[string]struct{})

	for _, r := range results {
		for _, field := range r.FormFields {
			if field.FieldKey == "" {
				continue
			}
			if _, ok := seenFields[field.FieldKey]; ok {
				continue
			}
			seenFields[field.FieldKey] = struct{}{}
			merged.FormFields = append(merged.FormFields, field)
		}

		for _, instruction := range r.Instructions {
			if instruction == "" {
				continue
			}
			if _, ok := seenInstructions[instruction]; ok {
				continue
			}
			seenInstructions[instruction] = struct{}{}
			merged.Instructions = append(merged.Instructions, instruction)
		}

		for _, area := range r.SpecialAreas {
			if area.Label == "" {
				continue
			}
			if _, ok := seenAreas[area.Label]; ok {
				continue
			}
			seenAreas[area.Label] = struct{}{}
			merged.SpecialAreas = append(merged.SpecialAreas, area)
		}
	}

	return merged
}
