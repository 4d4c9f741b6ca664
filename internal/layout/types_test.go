package layout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBBoxRoundTrip(t *testing.T) {
	b := BBox{L: 59.74, T: 952.25, R: 124.59, B: 938.32}
	coords := b.Coordinates()
	assert.Equal(t, [4]float64{59.74, 952.25, 124.59, 938.32}, coords)

	back := BBoxFromCoordinates(coords)
	assert.InDelta(t, b.L, back.L, 1e-9)
	assert.InDelta(t, b.T, back.T, 1e-9)
	assert.InDelta(t, b.R, back.R, 1e-9)
	assert.InDelta(t, b.B, back.B, 1e-9)
}

func TestSpanOffsetLengthRoundTrip(t *testing.T) {
	s := Span{10, 25}
	offset, length := s.OffsetLength()
	assert.Equal(t, 10, offset)
	assert.Equal(t, 15, length)
	assert.Equal(t, s, SpanFromOffsetLength(offset, length))
}

func TestFilteredMarshalArtifact(t *testing.T) {
	f := Filtered{
		Texts: []TextRecord{{Text: "hi", BBox: BBox{L: 1, T: 2, R: 3, B: 4}, PageNumber: 1}},
	}
	b, err := f.MarshalArtifact()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Contains(t, decoded, "texts")
	assert.Contains(t, decoded, "metadata")
}
