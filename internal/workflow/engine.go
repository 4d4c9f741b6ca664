package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/omerfarooq-dev/formflow/constants"
	"github.com/omerfarooq-dev/formflow/internal/artifacts"
	"github.com/omerfarooq-dev/formflow/internal/bilingual"
	"github.com/omerfarooq-dev/formflow/internal/common"
	"github.com/omerfarooq-dev/formflow/internal/formextract"
	"github.com/omerfarooq-dev/formflow/internal/intent"
	"github.com/omerfarooq-dev/formflow/internal/layout"
	"github.com/omerfarooq-dev/formflow/internal/ocr"
)

// Deps are the collaborators a run needs. Store is optional; everything
// else is required.
type Deps struct {
	Classifier intent.Classifier
	OCR        ocr.TextExtractor
	Merger     *bilingual.Merger
	Converter  layout.Converter
	Chunker    *formextract.Chunker
	Extractor  *formextract.ChunkExtractor
	Store      *artifacts.Store
}

// Engine drives a run from intake to a terminal state. It never panics or
// returns an error to the caller: failures append to State.Errors and the
// run still comes back with whatever was produced before the failure.
type Engine struct {
	deps        Deps
	runTimeout  time.Duration
	concurrency int
	logger      *slog.Logger
}

func NewEngine(deps Deps, runTimeout time.Duration, chunkConcurrency int, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if chunkConcurrency <= 0 {
		chunkConcurrency = 1
	}
	return &Engine{
		deps:        deps,
		runTimeout:  runTimeout,
		concurrency: chunkConcurrency,
		logger:      logger,
	}
}

// Run executes one workflow run. The returned State is always non-nil and
// always terminal; Succeeded() distinguishes success from failure.
func (e *Engine) Run(ctx context.Context, req RunRequest) (st *State) {
	runID := uuid.NewString()
	st = newState(req, runID)
	start := time.Now()

	ctx = common.WithRunID(common.WithUserID(ctx, req.UserID), runID)
	ctx, cancel := common.WithTimeout(ctx, e.runTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			st.addError(fmt.Sprintf("internal: %v", r))
		}
		st.Stage = constants.StageDone
		// The run context may already be expired; record the outcome under a
		// short independent deadline so timed-out runs still get a terminal row.
		finCtx, finCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer finCancel()
		e.deps.Store.FinishRun(finCtx, runID, st.Succeeded(), st.Errors)
		e.logger.Info("workflow.run.done",
			"run_id", runID,
			"intent", string(st.Intent),
			"success", st.Succeeded(),
			"errors", len(st.Errors),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}()

	e.logger.Info("workflow.run.start",
		"run_id", runID, "user_id", req.UserID, "files", len(req.Files),
	)

	if err := validateFiles(req.Files); err != nil {
		st.addError(err.Error())
		return st
	}

	classified, err := e.deps.Classifier.Classify(ctx, req.UserInput, req.Files)
	if err != nil {
		st.addError(fmt.Sprintf("classify intent: %v", err))
		return st
	}
	st.Intent = classified
	st.Stage = constants.StageIntentClassified
	e.deps.Store.BeginRun(ctx, runID, req.UserID, string(classified))

	rec := &artifacts.RunRecorder{Store: e.deps.Store, RunID: runID, UserID: req.UserID}

	switch classified {
	case constants.IntentDocument:
		e.runDocumentPath(ctx, st, rec)
	case constants.IntentForm:
		e.runFormPath(ctx, st, rec)
	default:
		e.logger.Info("workflow.run.noop", "run_id", runID, "intent", string(classified))
	}
	return st
}

func validateFiles(files []string) error {
	v := common.NewValidator()
	for _, f := range files {
		v.Field("input_files", f, common.SupportedFile)
	}
	if v.HasErrors() {
		return fmt.Errorf("validate input files: %w", v.Error())
	}
	return nil
}

// runDocumentPath fans out to English and Urdu OCR, joins on both branches,
// then merges the two texts in a single bilingual pass. A failed branch
// degrades to an empty string and never aborts its sibling.
func (e *Engine) runDocumentPath(ctx context.Context, st *State, rec *artifacts.RunRecorder) {
	if len(st.InputFiles) == 0 {
		e.logger.Info("workflow.document.empty_input", "run_id", st.RunID)
		return
	}

	st.Stage = constants.StageOCREnglish
	var (
		english, urdu       string
		englishErr, urduErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		english, englishErr = e.ocrBranch(gctx, st.InputFiles, constants.LangEnglish)
		return nil
	})
	g.Go(func() error {
		urdu, urduErr = e.ocrBranch(gctx, st.InputFiles, constants.LangUrdu)
		return nil
	})
	_ = g.Wait()
	st.Stage = constants.StageOCRUrdu

	if englishErr != nil {
		english = ""
		st.addError(fmt.Sprintf("ocr english: %v", englishErr))
	}
	if urduErr != nil {
		urdu = ""
		st.addError(fmt.Sprintf("ocr urdu: %v", urduErr))
	}
	st.EnglishText = &english
	st.UrduText = &urdu
	rec.Record(ctx, "ocr_text", "english.txt", []byte(english))
	rec.Record(ctx, "ocr_text", "urdu.txt", []byte(urdu))

	merged, err := e.deps.Merger.Merge(ctx, english, urdu)
	if err != nil {
		st.addError(fmt.Sprintf("bilingual merge: %v", err))
		return
	}
	st.MergedResult = merged
	st.Stage = constants.StageMerged
	if b, err := json.MarshalIndent(merged, "", "  "); err == nil {
		rec.Record(ctx, "merged_result", "merged.json", b)
	}
}

// ocrBranch extracts one language across all input files, joined in input
// order. Any file failing fails the whole branch.
func (e *Engine) ocrBranch(ctx context.Context, files []string, lang constants.Language) (string, error) {
	parts := make([]string, 0, len(files))
	for _, f := range files {
		text, err := e.deps.OCR.Extract(ctx, f, lang)
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", f, err)
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n"), nil
}

// runFormPath converts the uploaded form to a layout representation and
// hands it to the filter/chunk/extract/merge pipeline.
func (e *Engine) runFormPath(ctx context.Context, st *State, rec *artifacts.RunRecorder) {
	if len(st.InputFiles) == 0 {
		st.addError("form extraction requires at least one input file")
		return
	}

	raw, err := e.deps.Converter.Convert(ctx, st.InputFiles[0])
	if err != nil {
		st.addError(fmt.Sprintf("layout extraction: %v", err))
		return
	}
	st.Stage = constants.StageLayoutExtracted
	if b, err := json.Marshal(raw); err == nil {
		rec.Record(ctx, "raw_layout", "layout.json", b)
	}

	// Per-run pipeline so concurrent runs never share a recorder or
	// stage hook.
	p := &formextract.Pipeline{
		Chunker:     e.deps.Chunker,
		Extractor:   e.deps.Extractor,
		Concurrency: e.concurrency,
		Logger:      e.logger,
		Recorder:    rec,
		OnStage:     func(s constants.Stage) { st.Stage = s },
	}
	result, stats, err := p.Run(ctx, raw)
	if err != nil {
		st.addError(fmt.Sprintf("form extraction: %v", err))
		return
	}
	st.FormResult = &result
	st.FormStats = &stats
}
