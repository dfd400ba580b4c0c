package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/paperlens/ai"
	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/normalize"
	"github.com/poiesic/paperlens/storage"
)

const defaultBatchSize = 32

// Pipeline orchestrates ingestion of raw paper metadata into the corpus.
type Pipeline struct {
	papers      storage.PaperRepository
	vectors     storage.VectorIndex
	checkpoints storage.CheckpointRepository
	embedder    ai.Embedder
	normalizer  *normalize.Normalizer
	pool        *ants.Pool
	batchSize   int
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the number of papers embedded per API call.
// Default is 32.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline. The checkpoint repository
// may be nil, in which case progress is not checkpointed.
func NewPipeline(
	papers storage.PaperRepository,
	vectors storage.VectorIndex,
	checkpoints storage.CheckpointRepository,
	embedder ai.Embedder,
	normalizer *normalize.Normalizer,
	opts ...Option,
) (*Pipeline, error) {
	if papers == nil {
		return nil, ErrPaperRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if normalizer == nil {
		return nil, ErrNormalizerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		papers:      papers,
		vectors:     vectors,
		checkpoints: checkpoints,
		embedder:    embedder,
		normalizer:  normalizer,
		pool:        pool,
		batchSize:   defaultBatchSize,
		logger:      slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Stages at which a record can be dropped.
const (
	StageNormalize = "normalize"
	StageEmbed     = "embed"
)

// Skip reports one dropped record: which stage dropped it and why.
type Skip struct {
	// ID is the content ID. Zero when normalization failed before one
	// was assigned.
	ID core.ID

	Title string
	Stage string
	Err   error
}

// Summary reports the outcome of one ingestion run.
type Summary struct {
	// Total is the number of raw records presented.
	Total int

	// Indexed is the number of papers stored with a fresh vector.
	Indexed int

	// Skipped lists the records dropped: failed normalization or failed
	// embedding after retries.
	Skipped []Skip
}

// Ingest normalizes raw records, stores the resulting papers, embeds them
// in concurrent batches, and upserts the vectors. Re-ingesting a paper that
// already exists replaces both its record and its vector.
//
// Per-record failures are logged and counted in the summary; only storage
// failures abort the run.
func (p *Pipeline) Ingest(ctx context.Context, raws []normalize.RawRecord, schema normalize.SourceSchema) (*Summary, error) {
	summary := &Summary{Total: len(raws)}

	records, failures := p.normalizer.NormalizeAll(raws, schema)
	for _, failure := range failures {
		p.logger.Warn("record failed normalization", "index", failure.Index, "title", failure.Title, "err", failure.Err)
		summary.Skipped = append(summary.Skipped, Skip{
			Title: failure.Title,
			Stage: StageNormalize,
			Err:   failure.Err,
		})
	}
	if len(records) == 0 {
		return summary, nil
	}

	if err := p.papers.UpsertPapers(ctx, records...); err != nil {
		return summary, err
	}

	// Embed in concurrent batches. Each batch reports per-item results so
	// one bad abstract cannot sink its neighbors.
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		indexed int
		skipped []Skip
		poolErr error
	)
	for start := 0; start < len(records); start += p.batchSize {
		end := start + p.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			ok, skips := p.embedBatch(ctx, batch)
			mu.Lock()
			indexed += ok
			skipped = append(skipped, skips...)
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			poolErr = err
			break
		}
	}
	wg.Wait()
	if poolErr != nil {
		return summary, poolErr
	}

	summary.Indexed = indexed
	summary.Skipped = append(summary.Skipped, skipped...)

	if p.checkpoints != nil {
		count, err := p.vectors.Count(ctx, p.embedder.ModelID())
		if err != nil {
			p.logger.Warn("failed to count vectors for checkpoint", "err", err)
		} else {
			checkpoint := &core.Checkpoint{
				ModelID:   p.embedder.ModelID(),
				Dimension: p.embedder.Dimension(),
				Papers:    int64(count),
			}
			if err := p.checkpoints.SaveCheckpoint(ctx, checkpoint); err != nil {
				p.logger.Warn("failed to save checkpoint", "err", err)
			}
		}
	}

	p.logger.Info("ingestion complete",
		"total", summary.Total, "indexed", summary.Indexed, "skipped", len(summary.Skipped))
	return summary, nil
}

// embedBatch embeds one batch of records and upserts the resulting vectors.
// Returns the number of records indexed and a skip entry per record that
// failed.
func (p *Pipeline) embedBatch(ctx context.Context, records []*core.PaperRecord) (indexed int, skips []Skip) {
	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = EmbeddingText(record)
	}

	results := ai.EmbedEach(ctx, p.embedder, texts, ai.BatchOptions{})

	now := time.Now().UTC()
	vectors := make([]*core.EmbeddingVector, 0, len(records))
	kept := make([]*core.PaperRecord, 0, len(records))
	for i, result := range results {
		if result.Err != nil {
			p.logger.Warn("paper failed embedding", "id", records[i].Id, "title", records[i].Title, "err", result.Err)
			skips = append(skips, Skip{
				ID:    records[i].Id,
				Title: records[i].Title,
				Stage: StageEmbed,
				Err:   result.Err,
			})
			continue
		}
		vectors = append(vectors, &core.EmbeddingVector{
			OwnerId:   records[i].Id,
			ModelID:   p.embedder.ModelID(),
			Vector:    result.Vector,
			Venue:     records[i].Venue,
			Year:      records[i].Year,
			Decision:  records[i].Decision,
			UpdatedAt: now,
		})
		kept = append(kept, records[i])
	}
	if len(vectors) == 0 {
		return 0, skips
	}

	if err := p.vectors.Upsert(ctx, vectors...); err != nil {
		p.logger.Error("failed to upsert vectors", "count", len(vectors), "err", err)
		for _, record := range kept {
			skips = append(skips, Skip{
				ID:    record.Id,
				Title: record.Title,
				Stage: StageEmbed,
				Err:   err,
			})
		}
		return 0, skips
	}
	return len(vectors), skips
}

// EmbeddingText is the canonical text embedded for a paper: title and
// abstract joined by a blank line. Queries compare against this
// representation.
func EmbeddingText(record *core.PaperRecord) string {
	return record.Title + "\n\n" + record.Abstract
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
