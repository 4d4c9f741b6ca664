package layout

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedShape is returned when a raw layout document matches none of
// the known shapes. An explicit error beats silently filtering to nothing.
var ErrUnrecognizedShape = errors.New("unrecognized layout shape")

// rawShape tags the known wire shapes a layout service response can take.
type rawShape int

const (
	shapeCombined  rawShape = iota // {"all_texts": [...], "metadata": {...}}, pre-combined multi-page
	shapeFlat                      // {"texts": [...]}, single converted page
	shapeMainText                  // {"main-text": [...]}, legacy converter output
	shapePaginated                 // {"pages": [{"texts": [...]}, ...]}
)

// detectShape classifies a raw layout document. Combined wins over flat when
// both keys are present, matching how the pre-combiner writes its output.
func detectShape(raw map[string]any) (rawShape, error) {
	switch {
	case raw["all_texts"] != nil:
		return shapeCombined, nil
	case raw["texts"] != nil:
		return shapeFlat, nil
	case raw["main-text"] != nil:
		return shapeMainText, nil
	case raw["pages"] != nil:
		return shapePaginated, nil
	default:
		return 0, fmt.Errorf("%w: expected one of all_texts, texts, main-text, pages", ErrUnrecognizedShape)
	}
}

// normalizeTexts flattens any known raw shape into one list of raw text
// items. Per-item field resolution happens later in the filter; this stage
// only removes the structural variance.
func normalizeTexts(raw map[string]any) ([]map[string]any, error) {
	shape, err := detectShape(raw)
	if err != nil {
		return nil, err
	}

	switch shape {
	case shapeCombined:
		return itemList(raw["all_texts"]), nil
	case shapeFlat:
		return itemList(raw["texts"]), nil
	case shapeMainText:
		return itemList(raw["main-text"]), nil
	case shapePaginated:
		pages, _ := raw["pages"].([]any)
		var items []map[string]any
		for _, p := range pages {
			page, ok := p.(map[string]any)
			if !ok {
				continue
			}
			if page["texts"] != nil {
				items = append(items, itemList(page["texts"])...)
			} else if page["main-text"] != nil {
				items = append(items, itemList(page["main-text"])...)
			}
		}
		return items, nil
	}
	return nil, ErrUnrecognizedShape
}

// itemList coerces a decoded JSON array to a list of objects, dropping
// anything that is not an object.
func itemList(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	items := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}
