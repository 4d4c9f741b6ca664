package formextract

import (
	"encoding/json"
	"fmt"

	"github.com/omerfarooq-dev/formflow/internal/layout"
)

// DefaultChunkMaxSize is the maximum serialized size of one chunk in
// characters, sized to the LLM's practical input budget.
const DefaultChunkMaxSize = 20000

// minItemsPerChunk keeps chunks from going pathologically small when the
// size budget is tight relative to the item count.
const minItemsPerChunk = 5

// Chunk is one size-bounded slice of a filtered layout, serialized and ready
// to embed in a prompt. Info is diagnostic provenance only; nothing
// downstream interprets it.
type Chunk struct {
	Index   int
	Payload string
	Info    string
}

// Chunker splits a filtered layout into chunks that each fit the size
// budget, never splitting a single record across chunks. Given the same
// input and max size the boundaries are reproducible; the merge stage's
// first-seen-wins policy depends on that.
type Chunker struct {
	MaxSize int
}

func NewChunker(maxSize int) *Chunker {
	if maxSize <= 0 {
		maxSize = DefaultChunkMaxSize
	}
	return &Chunker{MaxSize: maxSize}
}

// chunkPayload is the wire form of a multi-record chunk.
type chunkPayload struct {
	Texts    []layout.TextRecord `json:"texts"`
	Metadata layout.Meta         `json:"metadata"`
	Info     string              `json:"chunk_info"`
}

// Split partitions the filtered layout. A representation that serializes
// within the budget comes back as a single chunk carrying the whole thing,
// tables included; oversized input is sliced over the text records.
func (c *Chunker) Split(f layout.Filtered) ([]Chunk, error) {
	whole, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize filtered layout: %w", err)
	}
	if len(whole) <= c.MaxSize {
		return []Chunk{{
			Index:   0,
			Payload: string(whole),
			Info:    fmt.Sprintf("items 0 to %d of %d", len(f.Texts), len(f.Texts)),
		}}, nil
	}

	total := len(f.Texts)
	targetChunks := len(whole)/c.MaxSize + 1
	perChunk := total / targetChunks
	if perChunk < minItemsPerChunk {
		perChunk = minItemsPerChunk
	}

	var chunks []Chunk
	for i := 0; i < total; i += perChunk {
		end := i + perChunk
		if end > total {
			end = total
		}
		info := fmt.Sprintf("items %d to %d of %d", i, end, total)
		payload, err := json.MarshalIndent(chunkPayload{
			Texts:    f.Texts[i:end],
			Metadata: f.Metadata,
			Info:     info,
		}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("serialize chunk %d: %w", len(chunks), err)
		}
		chunks = append(chunks, Chunk{
			Index:   len(chunks),
			Payload: string(payload),
			Info:    info,
		})
	}

	if len(chunks) == 0 {
		// No text records at all but an oversized serialization (huge
		// tables); send the whole thing as one chunk rather than nothing.
		chunks = append(chunks, Chunk{Index: 0, Payload: string(whole), Info: "items 0 to 0 of 0"})
	}
	return chunks, nil
}
