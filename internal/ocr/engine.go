package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/omerfarooq-dev/formflow/constants"
)

// Config for the tesseract-backed engine.
type Config struct {
	Tesseract   string // binary name or absolute path; if empty -> "tesseract"
	Pdftoppm    string // binary name or absolute path; if empty -> "pdftoppm"
	TessdataDir string
	DPI         int // rasterization DPI for PDFs, default 300
	MaxPages    int // 0 = no limit
}

// tesseractLang maps an OCR branch language to the traineddata model name.
var tesseractLang = map[constants.Language]string{
	constants.LangEnglish: "eng",
	constants.LangUrdu:    "urd",
}

// Engine runs tesseract per language. The engine itself is the
// lifecycle-managed resource: it probes the binary once, thread-safe, and
// reports warm / not-yet-loaded explicitly instead of hiding the state in a
// global.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger

	warmOnce sync.Once
	warmErr  error
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Engine{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Warm probes the tesseract binary. Safe for concurrent use; the probe runs
// once and the outcome is memoized.
func (e *Engine) Warm(ctx context.Context) error {
	e.warmOnce.Do(func() {
		start := time.Now()
		_, _, err := e.runner.Run(ctx, e.cfg.Tesseract, "--version")
		if err != nil {
			e.warmErr = fmt.Errorf("tesseract unavailable: %w", err)
			e.logger.Error("ocr.warmup.failed", "error", err)
			return
		}
		e.logger.Info("ocr.warmup.ok", "elapsed_ms", time.Since(start).Milliseconds())
	})
	return e.warmErr
}

// Extract picks a strategy based on file extension. PDFs are rasterized and
// OCR'd per page with page markers between them.
func (e *Engine) Extract(ctx context.Context, path string, lang constants.Language) (string, error) {
	if err := e.Warm(ctx); err != nil {
		return "", err
	}
	model, ok := tesseractLang[lang]
	if !ok {
		return "", fmt.Errorf("unsupported ocr language: %q", lang)
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		return e.extractPDF(ctx, path, model)
	case constants.IMAGE:
		return e.tesseract(ctx, path, model)
	default:
		return "", fmt.Errorf("unsupported extension: %q", ext)
	}
}

// extractPDF rasterizes with pdftoppm and runs tesseract per page,
// concatenating with page markers. A page that fails OCR contributes an
// empty section, not a failure.
func (e *Engine) extractPDF(ctx context.Context, path, model string) (string, error) {
	pageCount, err := api.PageCountFile(path)
	if err != nil {
		return "", fmt.Errorf("count pdf pages: %w", err)
	}
	e.logger.Debug("ocr.pdf.start", "path", path, "pages", pageCount, "lang", model)

	tmpDir, err := os.MkdirTemp("", "ff-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("ocr.pdf.tmp_cleanup_failed", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no images")
	}

	var b strings.Builder
	for i, img := range matches {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "--- Page %d ---\n", i+1)
		txt, err := e.tesseract(ctx, img, model)
		if err != nil {
			e.logger.Warn("ocr.pdf.page_failed", "page", i+1, "error", err)
			continue
		}
		b.WriteString(txt)
	}
	return b.String(), nil
}

func (e *Engine) tesseract(ctx context.Context, path, model string) (string, error) {
	args := []string{path, "stdout", "-l", model}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}
	return strings.TrimSpace(string(out)), nil
}
