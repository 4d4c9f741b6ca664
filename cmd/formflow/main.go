package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/omerfarooq-dev/formflow/constants"
	"github.com/omerfarooq-dev/formflow/internal/artifacts"
	"github.com/omerfarooq-dev/formflow/internal/bilingual"
	"github.com/omerfarooq-dev/formflow/internal/common"
	"github.com/omerfarooq-dev/formflow/internal/export"
	"github.com/omerfarooq-dev/formflow/internal/formextract"
	"github.com/omerfarooq-dev/formflow/internal/intake"
	"github.com/omerfarooq-dev/formflow/internal/intent"
	"github.com/omerfarooq-dev/formflow/internal/layout"
	"github.com/omerfarooq-dev/formflow/internal/llm/openai"
	"github.com/omerfarooq-dev/formflow/internal/ocr"
	"github.com/omerfarooq-dev/formflow/internal/workflow"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		input      = flag.String("input", "", "free-text request used for intent classification")
		intentFlag = flag.String("intent", "", "force intent: document or form (default: classify from --input)")
		userID     = flag.String("user", "local", "user identifier for namespacing artifacts")
		out        = flag.String("out", "", "write form fields as an XLSX workbook to this path")
		dir        = flag.String("dir", "", "scan this directory for input files in addition to arguments")
		watch      = flag.Bool("watch", false, "watch --dir and run one workflow per arriving file")
		inmem      = flag.Bool("inmem", false, "use an in-memory SQLite artifact store")
	)
	flag.Parse()
	files := flag.Args()

	// Best effort; env vars still win
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	dsn := cfg.Artifacts.DSN
	if *inmem {
		dsn = ":memory:"
	}
	var store *artifacts.Store
	if dsn != "" {
		var err error
		store, err = artifacts.Open(ctx, dsn, logger)
		if err != nil {
			logger.Error("failed to open artifact store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	} else {
		logger.Warn("ARTIFACTS_DSN not configured, artifacts will not be persisted")
	}

	openaiClient := openai.NewClient(openai.Config{
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	ocrEngine := ocr.NewEngine(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Pdftoppm:    cfg.OCR.Pdftoppm,
		TessdataDir: cfg.OCR.TessdataDir,
		DPI:         cfg.OCR.DPI,
		MaxPages:    cfg.OCR.MaxPages,
	}, logger)
	if err := ocrEngine.Warm(ctx); err != nil {
		logger.Warn("OCR engine warmup failed, document runs will fail", "error", err)
	}

	var classifier intent.Classifier = intent.NewKeywordClassifier(logger)
	if *intentFlag != "" {
		forced := constants.ParseIntent(*intentFlag)
		if forced == constants.IntentUnknown {
			printError("Error: --intent must be document or form\n")
			os.Exit(1)
		}
		classifier = intent.Static{Intent: forced}
	}

	engine := workflow.NewEngine(workflow.Deps{
		Classifier: classifier,
		OCR:        ocrEngine,
		Merger:     bilingual.NewMerger(openaiClient, logger),
		Converter:  layout.NewHTTPConverter(cfg.Layout.BaseURL, cfg.Layout.Timeout, logger),
		Chunker:    formextract.NewChunker(cfg.Workflow.ChunkMaxSize),
		Extractor:  formextract.NewChunkExtractor(openaiClient, logger),
		Store:      store,
	}, cfg.Workflow.RunTimeout, cfg.Workflow.ChunkConcurrency, logger)

	if *dir != "" && !*watch {
		scanner := intake.NewScanner(logger)
		found, _, err := scanner.ScanDirectory(*dir, true)
		if err != nil {
			printError("Error: scan %s: %v\n", *dir, err)
			os.Exit(1)
		}
		files = append(files, found...)
	}

	if *watch {
		if *dir == "" {
			printError("Error: --watch requires --dir\n")
			os.Exit(1)
		}
		watchAndRun(ctx, engine, *dir, *userID, *input, logger)
		return
	}

	state := engine.Run(ctx, workflow.RunRequest{
		UserID:    *userID,
		UserInput: *input,
		Files:     files,
	})

	if *out != "" && state.FormResult != nil {
		svc := export.NewService(logger)
		xlsx, err := svc.FieldCatalogXLSX(*state.FormResult)
		if err != nil {
			printError("Error: export failed: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
			printError("Error: write %s: %v\n", *out, err)
			os.Exit(1)
		}
		logger.Info("wrote field catalog", "path", *out)
	}

	result, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		printError("Error: marshal result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(result))

	if !state.Succeeded() {
		os.Exit(1)
	}
}

// watchAndRun processes each supported file arriving under dir as its own
// single-file run until interrupted.
func watchAndRun(ctx context.Context, engine *workflow.Engine, dir, userID, input string, logger *slog.Logger) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	evCh, errCh, err := intake.StartWatcher(ctx, intake.WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
	}, logger)
	if err != nil {
		printError("Error: start watcher: %v\n", err)
		os.Exit(1)
	}
	logger.Info("watching for input files", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if ok {
				logger.Error("watcher error", "error", err)
			}
		case path, ok := <-evCh:
			if !ok {
				return
			}
			state := engine.Run(ctx, workflow.RunRequest{
				UserID:    userID,
				UserInput: input,
				Files:     []string{path},
			})
			logger.Info("run finished",
				"run_id", state.RunID, "file", path,
				"intent", string(state.Intent), "success", state.Succeeded(),
			)
		}
	}
}
