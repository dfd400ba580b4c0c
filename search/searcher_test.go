package search

import (
	"context"
	"testing"

	"github.com/poiesic/paperlens/ai/mock"
	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/storage"
	"github.com/poiesic/paperlens/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spyIndex counts vector index queries. Used to assert that invalid
// queries never reach the index.
type spyIndex struct {
	storage.VectorIndex
	queries int
}

func (s *spyIndex) Query(ctx context.Context, modelID string, vector []float32, k int, pred storage.Predicate) ([]core.Match, error) {
	s.queries++
	return s.VectorIndex.Query(ctx, modelID, vector, k, pred)
}

func newTestSearcher(t *testing.T) (*Searcher, storage.PaperRepository, storage.VectorIndex, *mock.MockEmbedder, *spyIndex) {
	t.Helper()
	papers, vectors, _, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := mock.NewMockEmbedderWithDimension(8)
	spy := &spyIndex{VectorIndex: vectors}
	searcher, err := NewSearcher(papers, spy, embedder)
	require.NoError(t, err)
	return searcher, papers, vectors, embedder, spy
}

func seedPaper(t *testing.T, papers storage.PaperRepository, vectors storage.VectorIndex, embedder *mock.MockEmbedder, venue string, year int, title string) *core.PaperRecord {
	t.Helper()
	ctx := context.Background()
	record := &core.PaperRecord{
		Id:       core.PaperID(venue, year, title),
		Title:    title,
		Abstract: "Abstract of " + title,
		Venue:    venue,
		Year:     year,
		Decision: core.DecisionAcceptedPoster,
	}
	require.NoError(t, papers.UpsertPapers(ctx, record))

	vec, err := embedder.EmbedText(ctx, record.Title+"\n\n"+record.Abstract)
	require.NoError(t, err)
	require.NoError(t, vectors.Upsert(ctx, &core.EmbeddingVector{
		OwnerId:  record.Id,
		ModelID:  embedder.ModelID(),
		Vector:   vec,
		Venue:    record.Venue,
		Year:     record.Year,
		Decision: record.Decision,
	}))
	return record
}

func TestSearch_InvalidQueryBeforeIndexAccess(t *testing.T) {
	searcher, _, _, embedder, spy := newTestSearcher(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		query *core.QuerySpec
	}{
		{"nil query", nil},
		{"blank text", &core.QuerySpec{Text: "   ", TopK: 5}},
		{"zero top_k", &core.QuerySpec{Text: "graphs", TopK: 0}},
		{"negative top_k", &core.QuerySpec{Text: "graphs", TopK: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := searcher.Search(ctx, tt.query)
			assert.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
	assert.Equal(t, 0, embedder.CallCount(), "invalid queries must not be embedded")
	assert.Equal(t, 0, spy.queries, "invalid queries must not reach the index")
}

func TestSearch_ModelMismatchRejected(t *testing.T) {
	searcher, papers, vectors, embedder, spy := newTestSearcher(t)
	seedPaper(t, papers, vectors, embedder, "ICLR", 2025, "Paper A")
	ctx := context.Background()
	embedder.Reset()

	// A vector embedded by one model must never be scored against another
	// model's namespace.
	_, err := searcher.Search(ctx, &core.QuerySpec{
		Text:    "graphs",
		TopK:    5,
		ModelID: "some-other-model",
	})
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Equal(t, 0, embedder.CallCount(), "mismatched model must not be embedded")
	assert.Equal(t, 0, spy.queries, "mismatched model must not reach the index")

	// Naming the embedder's own model explicitly is fine.
	results, err := searcher.Search(ctx, &core.QuerySpec{
		Text:    "graphs",
		TopK:    5,
		ModelID: embedder.ModelID(),
	})
	require.NoError(t, err)
	assert.Equal(t, embedder.ModelID(), results.ModelID)
}

func TestSearch_DeletedRecordExcluded(t *testing.T) {
	searcher, papers, vectors, embedder, _ := newTestSearcher(t)
	ctx := context.Background()

	kept := seedPaper(t, papers, vectors, embedder, "ICLR", 2025, "Kept Paper")
	gone := seedPaper(t, papers, vectors, embedder, "ICLR", 2025, "Gone Paper")

	// Delete the record but leave its vector behind; the stale match must
	// be dropped silently, not surfaced half-empty.
	require.NoError(t, papers.DeletePapers(ctx, gone.Id))

	results, err := searcher.Search(ctx, &core.QuerySpec{Text: "paper", TopK: 10})
	require.NoError(t, err)
	require.Len(t, results.Entries, 1)
	assert.Equal(t, kept.Id, results.Entries[0].Record.Id)
	assert.Equal(t, 1, results.Entries[0].Rank)
}

func TestSearch_EmptyIndex(t *testing.T) {
	searcher, _, _, _, _ := newTestSearcher(t)

	results, err := searcher.Search(context.Background(), &core.QuerySpec{Text: "diffusion", TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, results.Entries)
	assert.Equal(t, "diffusion", results.Query)
}

func TestSearch_ExactTitleRanksFirst(t *testing.T) {
	searcher, papers, vectors, embedder, _ := newTestSearcher(t)

	seedPaper(t, papers, vectors, embedder, "ICLR", 2025, "Graph Diffusion")
	seedPaper(t, papers, vectors, embedder, "ICLR", 2025, "Sparse Attention")
	target := seedPaper(t, papers, vectors, embedder, "NeurIPS", 2024, "Neural Radiance Fields")

	// The mock embedder is deterministic, so embedding the exact indexed
	// text scores cosine 1 against its own vector.
	results, err := searcher.Search(context.Background(), &core.QuerySpec{
		Text: target.Title + "\n\n" + "Abstract of " + target.Title,
		TopK: 3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, results.Entries)

	assert.Equal(t, target.Id, results.Entries[0].Record.Id)
	assert.InDelta(t, 1.0, results.Entries[0].Score, 1e-5)
	assert.Equal(t, 1, results.Entries[0].Rank)
}

func TestSearch_VenueYearFilter(t *testing.T) {
	searcher, papers, vectors, embedder, _ := newTestSearcher(t)

	seedPaper(t, papers, vectors, embedder, "ICLR", 2025, "Paper A")
	b := seedPaper(t, papers, vectors, embedder, "ICLR", 2024, "Paper B")
	seedPaper(t, papers, vectors, embedder, "NeurIPS", 2024, "Paper C")

	results, err := searcher.Search(context.Background(), &core.QuerySpec{
		Text:   "anything",
		Venues: []string{"ICLR"},
		Years:  []int{2024},
		TopK:   10,
	})
	require.NoError(t, err)
	require.Len(t, results.Entries, 1)
	assert.Equal(t, b.Id, results.Entries[0].Record.Id)
}

func TestSearch_TopKBoundsResults(t *testing.T) {
	searcher, papers, vectors, embedder, _ := newTestSearcher(t)

	for _, title := range []string{"P1", "P2", "P3", "P4", "P5"} {
		seedPaper(t, papers, vectors, embedder, "ICLR", 2025, title)
	}

	results, err := searcher.Search(context.Background(), &core.QuerySpec{Text: "query", TopK: 2})
	require.NoError(t, err)
	assert.Len(t, results.Entries, 2)
}

func TestSearch_RanksAreDense(t *testing.T) {
	searcher, papers, vectors, embedder, _ := newTestSearcher(t)

	for _, title := range []string{"P1", "P2", "P3"} {
		seedPaper(t, papers, vectors, embedder, "ICLR", 2025, title)
	}

	results, err := searcher.Search(context.Background(), &core.QuerySpec{Text: "query", TopK: 10})
	require.NoError(t, err)
	require.Len(t, results.Entries, 3)
	for i, entry := range results.Entries {
		assert.Equal(t, i+1, entry.Rank)
		if i > 0 {
			assert.LessOrEqual(t, entry.Score, results.Entries[i-1].Score)
		}
	}
}

func TestSearch_MonitorCallbacks(t *testing.T) {
	searcher, papers, vectors, embedder, _ := newTestSearcher(t)
	seedPaper(t, papers, vectors, embedder, "ICLR", 2025, "Paper A")

	monitor := &recordingMonitor{}
	_, err := searcher.SearchWithMonitor(context.Background(),
		&core.QuerySpec{Text: "query", TopK: 5}, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.True(t, monitor.embedded)
	assert.True(t, monitor.queried)
	assert.True(t, monitor.retrieved)
	assert.True(t, monitor.finished)
}

type recordingMonitor struct {
	started, embedded, queried, retrieved, finished bool
}

func (m *recordingMonitor) Start(_ *core.QuerySpec)                    { m.started = true }
func (m *recordingMonitor) AfterEmbedding(_ []float32)                 { m.embedded = true }
func (m *recordingMonitor) AfterIndexQuery(_ []core.Match)             { m.queried = true }
func (m *recordingMonitor) AfterRecordRetrieval(_ []*core.PaperRecord) { m.retrieved = true }
func (m *recordingMonitor) Finish(_ *core.ResultSet)                   { m.finished = true }
