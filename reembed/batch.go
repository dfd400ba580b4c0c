package reembed

import (
	"context"
	"time"

	"github.com/poiesic/paperlens/ai"
	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/ingestion"
	"github.com/poiesic/paperlens/storage"
)

// BatchProcessor regenerates vectors for batches of papers.
type BatchProcessor struct {
	vectors        storage.VectorIndex
	embedder       ai.Embedder
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// maxRetries: maximum number of attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(vectors storage.VectorIndex, embedder ai.Embedder, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		vectors:        vectors,
		embedder:       embedder,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process embeds a batch of papers and upserts the resulting vectors under
// the processor's model. Vectors are normalized to unit length first.
// Returns the number of papers whose vectors were replaced and the number
// that failed embedding.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.PaperRecord) (replaced, failed int, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = ingestion.EmbeddingText(record)
	}

	results := ai.EmbedEach(ctx, bp.embedder, texts, ai.BatchOptions{
		MaxAttempts:    bp.maxRetries,
		InitialBackoff: bp.retryBaseDelay,
	})

	now := time.Now().UTC()
	vectors := make([]*core.EmbeddingVector, 0, len(records))
	for i, result := range results {
		if result.Err != nil {
			failed++
			continue
		}
		vectors = append(vectors, &core.EmbeddingVector{
			OwnerId:   records[i].Id,
			ModelID:   bp.embedder.ModelID(),
			Vector:    NormalizeVector(result.Vector),
			Venue:     records[i].Venue,
			Year:      records[i].Year,
			Decision:  records[i].Decision,
			UpdatedAt: now,
		})
	}
	if len(vectors) == 0 {
		return 0, failed, nil
	}

	if err := bp.vectors.Upsert(ctx, vectors...); err != nil {
		return 0, failed, err
	}
	return len(vectors), failed, nil
}
