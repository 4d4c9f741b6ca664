package layout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Converter is the layout-service boundary: file in, bounding-box-annotated
// raw layout document out. The raw shape is not fixed; Filter normalizes it.
type Converter interface {
	Convert(ctx context.Context, path string) (map[string]any, error)
}

// HTTPConverter talks to a docling-style layout service over HTTP.
type HTTPConverter struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewHTTPConverter(baseURL string, timeout time.Duration, logger *slog.Logger) *HTTPConverter {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPConverter{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Convert uploads the file as multipart form data and returns the decoded
// raw layout JSON.
func (c *HTTPConverter) Convert(ctx context.Context, path string) (map[string]any, error) {
	reqID := uuid.New().String()
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("copy file into form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart form: %w", err)
	}

	url := c.baseURL + "/v1/convert"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Info("layout.convert.request",
		"req_id", reqID,
		"url", url,
		"file", filepath.Base(path),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("layout.convert.send_error",
			"req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("layout service call: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("layout.convert.body_close_error", "req_id", reqID, "error", err)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read layout response: %w", err)
	}

	c.logger.Info("layout.convert.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("layout service non-2xx status: %d", resp.StatusCode)
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode layout response: %w", err)
	}
	return doc, nil
}
