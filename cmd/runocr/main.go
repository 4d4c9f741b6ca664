package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/omerfarooq-dev/formflow/constants"
	"github.com/omerfarooq-dev/formflow/internal/common"
	"github.com/omerfarooq-dev/formflow/internal/ocr"
)

func main() {
	lang := flag.String("lang", "english", "OCR language: english or urdu")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "runocr [-lang english|urdu] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	var language constants.Language
	switch *lang {
	case "english":
		language = constants.LangEnglish
	case "urdu":
		language = constants.LangUrdu
	default:
		logger.Error("invalid -lang (must be english or urdu)", "arg", *lang)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := common.LoadConfig()
	engine := ocr.NewEngine(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Pdftoppm:    cfg.OCR.Pdftoppm,
		TessdataDir: cfg.OCR.TessdataDir,
		DPI:         cfg.OCR.DPI,
		MaxPages:    cfg.OCR.MaxPages,
	}, logger)
	if err := engine.Warm(ctx); err != nil {
		logger.Error("OCR engine unavailable", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	text, err := engine.Extract(ctx, path, language)
	dur := time.Since(start)

	if err != nil {
		logger.Error("text extraction failed",
			"path", path, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"path", path,
		"lang", string(language),
		"bytes", len(text),
		"duration_ms", dur.Milliseconds(),
	)
	fmt.Println(text)
}
