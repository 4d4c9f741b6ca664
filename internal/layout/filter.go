package layout

import (
	"strings"
)

// Filter reduces a raw layout document to the canonical Filtered form: only
// text and table records that have both non-empty content and a resolvable
// bbox. It is pure data transformation: deterministic, no I/O, no LLM.
func Filter(raw map[string]any) (Filtered, error) {
	out := Filtered{
		Texts:  make([]TextRecord, 0),
		Tables: make([]TableRecord, 0),
	}
	if meta, ok := raw["metadata"].(map[string]any); ok {
		if tp, ok := asInt(meta["total_pages"]); ok {
			out.Metadata.TotalPages = tp
		}
	}

	items, err := normalizeTexts(raw)
	if err != nil {
		return Filtered{}, err
	}

	for _, item := range items {
		rec, ok := filterText(item)
		if !ok {
			continue
		}
		out.Texts = append(out.Texts, rec)
	}

	for _, item := range itemList(raw["tables"]) {
		rec, ok := filterTable(item)
		if !ok {
			continue
		}
		out.Tables = append(out.Tables, rec)
	}

	return out, nil
}

// filterText resolves one raw text item. The admission gate: no content or no
// bbox means the record is dropped.
func filterText(item map[string]any) (TextRecord, bool) {
	var rec TextRecord

	rec.Text = resolveContent(item)
	if rec.Text == "" {
		return TextRecord{}, false
	}

	bbox, page, ok := resolveProvenance(item)
	if !ok {
		return TextRecord{}, false
	}
	rec.BBox = bbox
	rec.PageNumber = page

	// Explicit page tag from the pre-combiner overrides provenance.
	if p, ok := asInt(item["_page"]); ok {
		rec.PageNumber = p
	}

	rec.Label = resolveLabel(item)
	rec.CharSpan = resolveSpan(item)
	return rec, true
}

// filterTable mirrors filterText for table items, with content replaced by a
// nested table structure.
func filterTable(item map[string]any) (TableRecord, bool) {
	var rec TableRecord

	switch {
	case item["table"] != nil:
		rec.Table = item["table"]
	case item["content"] != nil:
		rec.Table = item["content"]
	case item["data"] != nil:
		rec.Table = item["data"]
	case item["cells"] != nil:
		rec.Table = map[string]any{"cells": item["cells"]}
	default:
		return TableRecord{}, false
	}

	bbox, page, ok := resolveProvenance(item)
	if !ok {
		return TableRecord{}, false
	}
	rec.BBox = bbox
	rec.PageNumber = page
	if p, ok := asInt(item["_page"]); ok {
		rec.PageNumber = p
	}
	rec.Label = resolveLabel(item)
	return rec, true
}

// resolveContent finds text content under any of the known field names,
// first match wins.
func resolveContent(item map[string]any) string {
	for _, key := range []string{"text", "content", "value", "text_content"} {
		if v, ok := item[key].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// resolveProvenance extracts bbox and page number from the item's prov
// sub-record. Returns ok=false when no bbox can be resolved.
func resolveProvenance(item map[string]any) (BBox, int, bool) {
	provs, ok := item["prov"].([]any)
	if !ok || len(provs) == 0 {
		return BBox{}, 0, false
	}
	prov, ok := provs[0].(map[string]any)
	if !ok {
		return BBox{}, 0, false
	}

	bbox, ok := resolveBBox(prov["bbox"])
	if !ok {
		return BBox{}, 0, false
	}

	page := 0
	if p, ok := asInt(prov["page_no"]); ok {
		page = p
	} else if p, ok := asInt(prov["page"]); ok {
		page = p
	}
	return bbox, page, true
}

// resolveBBox accepts either the object form {l,t,r,b} or the array form
// [l,t,r,b].
func resolveBBox(v any) (BBox, bool) {
	switch b := v.(type) {
	case map[string]any:
		l, lok := asFloat(b["l"])
		t, tok := asFloat(b["t"])
		r, rok := asFloat(b["r"])
		bt, bok := asFloat(b["b"])
		if !lok || !tok || !rok || !bok {
			return BBox{}, false
		}
		return BBox{L: l, T: t, R: r, B: bt}, true
	case []any:
		if len(b) < 4 {
			return BBox{}, false
		}
		vals := make([]float64, 4)
		for i := 0; i < 4; i++ {
			f, ok := asFloat(b[i])
			if !ok {
				return BBox{}, false
			}
			vals[i] = f
		}
		return BBox{L: vals[0], T: vals[1], R: vals[2], B: vals[3]}, true
	default:
		return BBox{}, false
	}
}

func resolveLabel(item map[string]any) string {
	if v, ok := item["label"].(string); ok {
		return v
	}
	if v, ok := item["name"].(string); ok {
		return v
	}
	return ""
}

// resolveSpan accepts a two-element charspan (or span) array.
func resolveSpan(item map[string]any) *Span {
	v := item["charspan"]
	if v == nil {
		v = item["span"]
	}
	arr, ok := v.([]any)
	if !ok || len(arr) < 2 {
		return nil
	}
	start, sok := asInt(arr[0])
	end, eok := asInt(arr[1])
	if !sok || !eok {
		return nil
	}
	return &Span{start, end}
}

// asFloat handles the float64 that encoding/json produces plus int for
// hand-built test fixtures.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
