package intent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/omerfarooq-dev/formflow/constants"
)

// Classifier decides whether an upload is a data-bearing document or a
// fillable form template. It is a collaborator boundary: a keyword
// implementation ships here, an LLM-backed one can slot in behind the same
// interface.
type Classifier interface {
	Classify(ctx context.Context, userInput string, files []string) (constants.Intent, error)
}

// KeywordClassifier classifies from the user's accompanying text.
type KeywordClassifier struct {
	logger *slog.Logger
}

func NewKeywordClassifier(logger *slog.Logger) *KeywordClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeywordClassifier{logger: logger}
}

var formKeywords = []string{"form", "template", "fill", "application"}
var documentKeywords = []string{"document", "card", "certificate", "id", "passport", "extract"}

// Classify prefers an explicit intent word, then falls back to treating any
// upload with files as a document run. No text and no files is unknown,
// which the workflow treats as a no-op.
func (c *KeywordClassifier) Classify(_ context.Context, userInput string, files []string) (constants.Intent, error) {
	input := strings.ToLower(userInput)

	for _, kw := range formKeywords {
		if strings.Contains(input, kw) {
			c.logger.Debug("intent.classified", "intent", constants.IntentForm, "keyword", kw)
			return constants.IntentForm, nil
		}
	}
	for _, kw := range documentKeywords {
		if strings.Contains(input, kw) {
			c.logger.Debug("intent.classified", "intent", constants.IntentDocument, "keyword", kw)
			return constants.IntentDocument, nil
		}
	}
	if len(files) > 0 {
		return constants.IntentDocument, nil
	}
	return constants.IntentUnknown, nil
}

// Static always answers with a fixed intent; used when the caller already
// knows what it uploaded (e.g., a dedicated form endpoint or CLI flag).
type Static struct {
	Intent constants.Intent
}

func (s Static) Classify(context.Context, string, []string) (constants.Intent, error) {
	return s.Intent, nil
}
