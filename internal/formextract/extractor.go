package formextract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/omerfarooq-dev/formflow/internal/llm"
)

// ChunkExtractor turns one chunk into a best-effort ExtractionResult. A
// failing chunk contributes nothing and is reported as a skip, never as a
// run-level error. No retries happen here.
type ChunkExtractor struct {
	completer llm.Completer
	logger    *slog.Logger
	schema    map[string]any
}

func NewChunkExtractor(completer llm.Completer, logger *slog.Logger) *ChunkExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChunkExtractor{
		completer: completer,
		logger:    logger,
		schema:    BuildExtractionSchema(),
	}
}

// ExtractChunk queries the LLM for one chunk and parses the response under
// the required-shape contract. The raw response is returned alongside the
// result for artifact persistence regardless of outcome.
func (e *ChunkExtractor) ExtractChunk(ctx context.Context, chunk Chunk, totalChunks int) (ExtractionResult, string, error) {
	start := time.Now()

	raw, err := e.completer.Complete(ctx, llm.Request{
		System:   SystemPrompt,
		User:     BuildChunkPrompt(chunk, totalChunks),
		JSONMode: true,
	})
	if err != nil {
		e.logger.Warn("formextract.chunk.llm_error",
			"chunk", chunk.Index, "total", totalChunks, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ExtractionResult{}, raw, fmt.Errorf("chunk %d llm call: %w", chunk.Index, err)
	}

	result, err := e.parseResponse(raw)
	if err != nil {
		e.logger.Warn("formextract.chunk.parse_error",
			"chunk", chunk.Index, "total", totalChunks, "error", err,
			"raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ExtractionResult{}, raw, fmt.Errorf("chunk %d response: %w", chunk.Index, err)
	}

	e.logger.Info("formextract.chunk.ok",
		"chunk", chunk.Index, "total", totalChunks,
		"fields", len(result.FormFields),
		"instructions", len(result.Instructions),
		"special_areas", len(result.SpecialAreas),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, raw, nil
}

// parseResponse strips any code fence, validates the shape contract, and
// decodes. Malformed JSON and missing required keys are both parse failures.
func (e *ChunkExtractor) parseResponse(raw string) (ExtractionResult, error) {
	payload := []byte(ExtractJSONPayload(raw))

	if err := ValidateJSONAgainstSchema(e.schema, payload); err != nil {
		return ExtractionResult{}, err
	}

	var result ExtractionResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return ExtractionResult{}, fmt.Errorf("decode extraction result: %w", err)
	}
	return result, nil
}
