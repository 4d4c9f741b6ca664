package bilingual

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/omerfarooq-dev/formflow/internal/formextract"
	"github.com/omerfarooq-dev/formflow/internal/llm"
)

// Merger combines English-OCR and Urdu-OCR text from the same document into
// one structured record via a single LLM call. No chunking happens here:
// bilingual documents are assumed small enough for one call.
type Merger struct {
	completer llm.Completer
	logger    *slog.Logger
}

func NewMerger(completer llm.Completer, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{completer: completer, logger: logger}
}

// buildPrompt fixes the merge contract: English keys, both inputs merged,
// Urdu values translated, clearer value preferred, null for missing.
func buildPrompt(english, urdu string) string {
	return fmt.Sprintf(`You are a bilingual document understanding agent.

You are given OCR outputs from the SAME document.

Rules:
- Keys must be in English
- Merge information from BOTH OCRs
- Translate Urdu values to English
- Prefer clearer values
- Use null if missing

English OCR:
%s

Urdu OCR:
%s

Return ONLY valid JSON.`, english, urdu)
}

// Merge performs the single merge call. A response that is not valid JSON
// degrades to a diagnostic record rather than an error; only the LLM call
// itself failing is reported as one.
func (m *Merger) Merge(ctx context.Context, english, urdu string) (map[string]any, error) {
	start := time.Now()

	raw, err := m.completer.Complete(ctx, llm.Request{
		System:   "You are a bilingual document understanding agent. Always respond with valid JSON.",
		User:     buildPrompt(english, urdu),
		JSONMode: true,
	})
	if err != nil {
		m.logger.Error("bilingual.merge.llm_error",
			"error", err,
			"english_len", len(english),
			"urdu_len", len(urdu),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("bilingual merge llm call: %w", err)
	}

	payload := formextract.ExtractJSONPayload(raw)

	var merged map[string]any
	if err := json.Unmarshal([]byte(payload), &merged); err != nil {
		m.logger.Warn("bilingual.merge.invalid_json",
			"error", err,
			"raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return map[string]any{"error": "Invalid JSON", "raw": raw}, nil
	}

	m.logger.Info("bilingual.merge.ok",
		"keys", len(merged),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return merged, nil
}
