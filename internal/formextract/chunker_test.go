package formextract

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omerfarooq-dev/formflow/internal/layout"
)

func makeFiltered(n int) layout.Filtered {
	f := layout.Filtered{
		Texts:    make([]layout.TextRecord, 0, n),
		Tables:   make([]layout.TableRecord, 0),
		Metadata: layout.Meta{TotalPages: 2},
	}
	for i := 0; i < n; i++ {
		f.Texts = append(f.Texts, layout.TextRecord{
			Text:       fmt.Sprintf("record %03d: %s", i, strings.Repeat("x", 80)),
			BBox:       layout.BBox{L: float64(i), T: 1, R: 2, B: 3},
			PageNumber: i%2 + 1,
		})
	}
	return f
}

func TestSplitSmallInputSingleChunk(t *testing.T) {
	f := makeFiltered(3)
	f.Tables = append(f.Tables, layout.TableRecord{
		Table: map[string]any{"rows": 1},
		BBox:  layout.BBox{L: 1, T: 2, R: 3, B: 4},
	})

	chunks, err := NewChunker(0).Split(f)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Index)
	// The single chunk carries the whole filtered form, tables included.
	assert.Contains(t, chunks[0].Payload, `"tables"`)
	assert.Equal(t, "items 0 to 3 of 3", chunks[0].Info)
}

func TestSplitLargeInputPartitionsAllRecords(t *testing.T) {
	f := makeFiltered(60)
	chunks, err := NewChunker(2000).Split(f)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// Reassemble the texts across chunks: every record exactly once, in order.
	var reassembled []layout.TextRecord
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.LessOrEqual(t, len(c.Payload), 2000+2000) // one record never splits; slight overshoot allowed
		var payload struct {
			Texts    []layout.TextRecord `json:"texts"`
			Metadata layout.Meta         `json:"metadata"`
			Info     string              `json:"chunk_info"`
		}
		require.NoError(t, json.Unmarshal([]byte(c.Payload), &payload))
		assert.Equal(t, 2, payload.Metadata.TotalPages)
		assert.NotEmpty(t, payload.Info)
		reassembled = append(reassembled, payload.Texts...)
	}
	require.Len(t, reassembled, 60)
	for i, r := range reassembled {
		assert.Equal(t, f.Texts[i].Text, r.Text)
	}
}

func TestSplitRespectsMinimumItemsPerChunk(t *testing.T) {
	// A tiny budget would otherwise produce one-record chunks.
	f := makeFiltered(20)
	chunks, err := NewChunker(300).Split(f)
	require.NoError(t, err)
	for i, c := range chunks {
		var payload struct {
			Texts []layout.TextRecord `json:"texts"`
		}
		require.NoError(t, json.Unmarshal([]byte(c.Payload), &payload))
		if i < len(chunks)-1 {
			assert.GreaterOrEqual(t, len(payload.Texts), 5)
		}
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	f := makeFiltered(40)
	c := NewChunker(2000)
	first, err := c.Split(f)
	require.NoError(t, err)
	second, err := c.Split(f)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplitChunkInfoFormat(t *testing.T) {
	f := makeFiltered(30)
	chunks, err := NewChunker(1500).Split(f)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	assert.Regexp(t, `^items \d+ to \d+ of 30$`, chunks[0].Info)
}
