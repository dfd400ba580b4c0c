package reembed

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/poiesic/paperlens/ai/mock"
	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/storage"
	"github.com/poiesic/paperlens/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCorpus(t *testing.T, titles ...string) (storage.PaperRepository, storage.VectorIndex, storage.CheckpointRepository) {
	t.Helper()
	papers, vectors, checkpoints, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	ctx := context.Background()
	for _, title := range titles {
		record := &core.PaperRecord{
			Id:       core.PaperID("ICLR", 2025, title),
			Title:    title,
			Abstract: "Abstract of " + title,
			Venue:    "ICLR",
			Year:     2025,
			Decision: core.DecisionAcceptedPoster,
		}
		require.NoError(t, papers.UpsertPapers(ctx, record))
	}
	return papers, vectors, checkpoints
}

func fastConfig() *Config {
	return &Config{
		BatchSize:      2,
		ReportInterval: 1,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}
}

func TestReembedder_BuildsIndexForNewModel(t *testing.T) {
	papers, vectors, checkpoints := newTestCorpus(t, "P1", "P2", "P3")
	embedder := mock.NewMockEmbedderWithDimension(8)
	embedder.SetModelID("new-model")

	var buf bytes.Buffer
	r := NewReembedder(papers, vectors, checkpoints, embedder, fastConfig(), &buf)
	require.NoError(t, r.Run(context.Background()))

	ctx := context.Background()
	count, err := vectors.Count(ctx, "new-model")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	checkpoint, err := checkpoints.GetCheckpoint(ctx, "new-model")
	require.NoError(t, err)
	assert.Equal(t, int64(3), checkpoint.Papers)
	assert.Equal(t, 8, checkpoint.Dimension)

	assert.Contains(t, buf.String(), "Reembedding complete")
}

func TestReembedder_VectorsAreUnitLength(t *testing.T) {
	papers, vectors, _ := newTestCorpus(t, "P1")
	embedder := mock.NewMockEmbedderWithDimension(8)

	var buf bytes.Buffer
	r := NewReembedder(papers, vectors, nil, embedder, fastConfig(), &buf)
	require.NoError(t, r.Run(context.Background()))

	// A unit vector scores cosine 1 against itself; the stored vector must
	// have been normalized.
	record := &core.PaperRecord{Title: "P1", Abstract: "Abstract of P1"}
	vec, err := embedder.EmbedText(context.Background(), record.Title+"\n\n"+record.Abstract)
	require.NoError(t, err)

	matches, err := vectors.Query(context.Background(), embedder.ModelID(), vec, 1, storage.Predicate{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-5)
}

func TestReembedder_ReplacesExistingVectors(t *testing.T) {
	papers, vectors, _ := newTestCorpus(t, "P1")
	embedder := mock.NewMockEmbedderWithDimension(8)
	ctx := context.Background()

	// Pre-existing stale vector under the same model.
	id := core.PaperID("ICLR", 2025, "P1")
	require.NoError(t, vectors.Upsert(ctx, &core.EmbeddingVector{
		OwnerId:  id,
		ModelID:  embedder.ModelID(),
		Vector:   []float32{1, 0, 0, 0, 0, 0, 0, 0},
		Venue:    "ICLR",
		Year:     2025,
		Decision: core.DecisionAcceptedPoster,
	}))

	var buf bytes.Buffer
	r := NewReembedder(papers, vectors, nil, embedder, fastConfig(), &buf)
	require.NoError(t, r.Run(ctx))

	count, err := vectors.Count(ctx, embedder.ModelID())
	require.NoError(t, err)
	assert.Equal(t, 1, count, "reembedding replaces, never duplicates")
}

func TestReembedder_EmptyCorpus(t *testing.T) {
	papers, vectors, _ := newTestCorpus(t)
	embedder := mock.NewMockEmbedder()

	var buf bytes.Buffer
	r := NewReembedder(papers, vectors, nil, embedder, fastConfig(), &buf)
	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, buf.String(), "No papers found")
}

func TestPaperIterator_Batches(t *testing.T) {
	papers, _, _ := newTestCorpus(t, "P1", "P2", "P3", "P4", "P5")

	iterator := NewPaperIterator(papers, 2)
	var batches [][]*core.PaperRecord
	err := iterator.ForEach(context.Background(), func(records []*core.PaperRecord) error {
		batches = append(batches, records)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[2], 1)
}

func TestPaperIterator_Canceled(t *testing.T) {
	papers, _, _ := newTestCorpus(t, "P1", "P2")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	iterator := NewPaperIterator(papers, 1)
	err := iterator.ForEach(ctx, func(records []*core.PaperRecord) error {
		t.Fatal("must not be called after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
