package ocr

import (
	"context"

	"github.com/omerfarooq-dev/formflow/constants"
)

// TextExtractor is the OCR boundary: image or PDF in, extracted text out for
// the requested language. Implementations may fail outright; the workflow
// engine is responsible for degrading a failed branch to empty text.
type TextExtractor interface {
	Extract(ctx context.Context, path string, lang constants.Language) (string, error)
}
