package paperlens

import (
	"context"
	"testing"

	"github.com/poiesic/paperlens/ai/mock"
	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_IngestThenSearch(t *testing.T) {
	embedder := mock.NewMockEmbedderWithDimension(16)
	library, err := Open("", WithInMemory(), WithEmbedder(embedder))
	require.NoError(t, err)
	defer library.Close()

	pipeline, err := library.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	raws := []normalize.RawRecord{
		{"title": "Graph Diffusion Models", "abstract": "Diffusion on graphs."},
		{"title": "Sparse Transformers", "abstract": "Attention with sparsity."},
	}
	summary, err := pipeline.Ingest(ctx, raws,
		normalize.SourceSchema{Kind: normalize.SchemaCanonical, Venue: "ICLR", Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Indexed)

	searcher, err := library.NewSearcher()
	require.NoError(t, err)

	results, err := searcher.Search(ctx, &core.QuerySpec{
		Text: "Graph Diffusion Models\n\nDiffusion on graphs.",
		TopK: 1,
	})
	require.NoError(t, err)
	require.Len(t, results.Entries, 1)
	assert.Equal(t, "Graph Diffusion Models", results.Entries[0].Record.Title)
}

func TestLibrary_ReembedWithNewModel(t *testing.T) {
	embedder := mock.NewMockEmbedderWithDimension(16)
	library, err := Open("", WithInMemory(), WithEmbedder(embedder))
	require.NoError(t, err)
	defer library.Close()

	pipeline, err := library.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	_, err = pipeline.Ingest(ctx,
		[]normalize.RawRecord{{"title": "A Paper", "abstract": "Some text."}},
		normalize.SourceSchema{Kind: normalize.SchemaCanonical, Venue: "ICLR", Year: 2025})
	require.NoError(t, err)

	fresh := mock.NewMockEmbedderWithDimension(32)
	fresh.SetModelID("fresh-model")

	r := library.NewReembedder(fresh, nil, discardWriter{})
	require.NoError(t, r.Run(ctx))

	count, err := library.Vectors().Count(ctx, "fresh-model")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
