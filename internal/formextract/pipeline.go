package formextract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/omerfarooq-dev/formflow/constants"
	"github.com/omerfarooq-dev/formflow/internal/layout"
)

// Recorder persists per-run artifacts for inspection. Failures are the
// recorder's problem; the pipeline never fails because of it.
type Recorder interface {
	Record(ctx context.Context, kind, name string, content []byte)
}

// Stats summarizes one pipeline run for logging and run reporting.
type Stats struct {
	TextRecords  int
	TableRecords int
	Chunks       int
	ChunksFailed int
	Fields       int
	Instructions int
	SpecialAreas int
}

// Pipeline drives the form path: filter -> chunk -> extract per chunk ->
// merge. Chunk extraction runs concurrently up to Concurrency, but results
// are merged in original chunk order so first-seen-wins stays deterministic.
type Pipeline struct {
	Chunker     *Chunker
	Extractor   *ChunkExtractor
	Concurrency int
	Logger      *slog.Logger
	Recorder    Recorder                // optional
	OnStage     func(s constants.Stage) // optional stage-transition hook
}

func NewPipeline(chunker *Chunker, extractor *ChunkExtractor, concurrency int, logger *slog.Logger) *Pipeline {
	if chunker == nil {
		chunker = NewChunker(0)
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Chunker:     chunker,
		Extractor:   extractor,
		Concurrency: concurrency,
		Logger:      logger,
	}
}

func (p *Pipeline) stage(s constants.Stage) {
	if p.OnStage != nil {
		p.OnStage(s)
	}
}

func (p *Pipeline) record(ctx context.Context, kind, name string, content []byte) {
	if p.Recorder != nil {
		p.Recorder.Record(ctx, kind, name, content)
	}
}

// Run extracts the field catalog from a raw layout document. Individual
// chunk failures degrade the result; only filter/chunk failures and context
// cancellation abort the run.
func (p *Pipeline) Run(ctx context.Context, rawLayout map[string]any) (ExtractionResult, Stats, error) {
	start := time.Now()
	var stats Stats

	filtered, err := layout.Filter(rawLayout)
	if err != nil {
		return ExtractionResult{}, stats, fmt.Errorf("filter layout: %w", err)
	}
	stats.TextRecords = len(filtered.Texts)
	stats.TableRecords = len(filtered.Tables)
	p.stage(constants.StageFiltered)
	p.Logger.Info("formextract.filtered",
		"texts", stats.TextRecords, "tables", stats.TableRecords,
	)
	if b, err := filtered.MarshalArtifact(); err == nil {
		p.record(ctx, "filtered_layout", "filtered.json", b)
	}

	if err := ctx.Err(); err != nil {
		return ExtractionResult{}, stats, err
	}

	chunks, err := p.Chunker.Split(filtered)
	if err != nil {
		return ExtractionResult{}, stats, fmt.Errorf("chunk layout: %w", err)
	}
	stats.Chunks = len(chunks)
	p.stage(constants.StageChunked)
	p.Logger.Info("formextract.chunked", "chunks", len(chunks), "max_size", p.Chunker.MaxSize)

	if err := ctx.Err(); err != nil {
		return ExtractionResult{}, stats, err
	}

	// Indexed result slots keep chunk order stable under concurrency; a nil
	// slot is a failed chunk contributing nothing.
	results := make([]*ExtractionResult, len(chunks))
	raws := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Concurrency)
	for _, chunk := range chunks {
		g.Go(func() error {
			res, raw, err := p.Extractor.ExtractChunk(gctx, chunk, len(chunks))
			raws[chunk.Index] = raw
			if err != nil {
				// Best-effort policy: losing one chunk's fields beats
				// aborting the whole extraction.
				return nil
			}
			results[chunk.Index] = &res
			return nil
		})
	}
	_ = g.Wait()
	p.stage(constants.StageExtracted)

	for i, raw := range raws {
		if raw != "" {
			p.record(ctx, "chunk_response", fmt.Sprintf("chunk_%03d.txt", i), []byte(raw))
		}
	}

	if err := ctx.Err(); err != nil {
		return ExtractionResult{}, stats, err
	}

	ordered := make([]ExtractionResult, 0, len(results))
	for _, r := range results {
		if r == nil {
			stats.ChunksFailed++
			continue
		}
		ordered = append(ordered, *r)
	}
	p.stage(constants.StageValidated)

	merged := Merge(ordered)
	stats.Fields = len(merged.FormFields)
	stats.Instructions = len(merged.Instructions)
	stats.SpecialAreas = len(merged.SpecialAreas)

	p.Logger.Info("formextract.merged",
		"chunks", stats.Chunks,
		"chunks_failed", stats.ChunksFailed,
		"fields", stats.Fields,
		"instructions", stats.Instructions,
		"special_areas", stats.SpecialAreas,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if b, err := merged.MarshalArtifact(); err == nil {
		p.record(ctx, "extraction_result", "form_fields.json", b)
	}

	return merged, stats, nil
}
