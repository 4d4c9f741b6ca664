package layout

import "encoding/json"

// BBox is a bounding box in page coordinates. The object form {l,t,r,b} is
// what the layout service emits; the array form [l,t,r,b] is what the field
// catalog carries.
type BBox struct {
	L float64 `json:"l"`
	T float64 `json:"t"`
	R float64 `json:"r"`
	B float64 `json:"b"`
}

// Coordinates converts the object form to the array form.
func (b BBox) Coordinates() [4]float64 {
	return [4]float64{b.L, b.T, b.R, b.B}
}

// BBoxFromCoordinates converts the array form back to the object form.
func BBoxFromCoordinates(c [4]float64) BBox {
	return BBox{L: c[0], T: c[1], R: c[2], B: c[3]}
}

// Span is a [start, end) character span as the layout service reports it.
type Span [2]int

// OffsetLength converts the pair form to the offset/length form.
func (s Span) OffsetLength() (offset, length int) {
	return s[0], s[1] - s[0]
}

// SpanFromOffsetLength converts offset/length back to the pair form.
func SpanFromOffsetLength(offset, length int) Span {
	return Span{offset, offset + length}
}

// TextRecord is a single text element that survived filtering. Every record
// has non-empty text and a resolved bbox; that is the admission gate for
// entering chunking.
type TextRecord struct {
	Text       string `json:"text"`
	BBox       BBox   `json:"bbox"`
	PageNumber int    `json:"page_number,omitempty"`
	Label      string `json:"label,omitempty"`
	CharSpan   *Span  `json:"charspan,omitempty"`
}

// TableRecord is a table element that survived filtering. Content is a nested
// structure the layout service produced; it is passed through untouched.
type TableRecord struct {
	Table      any    `json:"table"`
	BBox       BBox   `json:"bbox"`
	PageNumber int    `json:"page_number,omitempty"`
	Label      string `json:"label,omitempty"`
}

// Meta carries the little provenance the filtered form keeps.
type Meta struct {
	TotalPages int `json:"total_pages"`
}

// Filtered is the canonical reduced layout representation: only the records
// field extraction needs, with texts and tables in separate sequences.
type Filtered struct {
	Texts    []TextRecord  `json:"texts"`
	Tables   []TableRecord `json:"tables"`
	Metadata Meta          `json:"metadata"`
}

// MarshalArtifact renders the filtered layout the way it is persisted for
// inspection.
func (f Filtered) MarshalArtifact() ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}
