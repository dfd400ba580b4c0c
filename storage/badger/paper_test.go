package badger

import (
	"context"
	"testing"

	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (storage.PaperRepository, storage.VectorIndex, storage.CheckpointRepository) {
	t.Helper()
	papers, vectors, checkpoints, backend, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return papers, vectors, checkpoints
}

func testPaper(venue string, year int, title string) *core.PaperRecord {
	return &core.PaperRecord{
		Id:       core.PaperID(venue, year, title),
		Title:    title,
		Abstract: "An abstract for " + title,
		Venue:    venue,
		Year:     year,
		Decision: core.DecisionAcceptedPoster,
		Keywords: []string{"retrieval"},
	}
}

func TestPaperRepository_UpsertAndGet(t *testing.T) {
	papers, _, _ := newTestStore(t)
	ctx := context.Background()

	record := testPaper("ICLR", 2025, "Paper One")
	require.NoError(t, papers.UpsertPapers(ctx, record))
	assert.False(t, record.InsertedAt.IsZero())

	got, err := papers.GetPaper(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, record.Title, got.Title)
	assert.Equal(t, record.Venue, got.Venue)
}

func TestPaperRepository_UpsertReplacesAndKeepsInsertedAt(t *testing.T) {
	papers, _, _ := newTestStore(t)
	ctx := context.Background()

	record := testPaper("ICLR", 2025, "Paper One")
	require.NoError(t, papers.UpsertPapers(ctx, record))
	firstInserted := record.InsertedAt

	updated := testPaper("ICLR", 2025, "Paper One")
	updated.Abstract = "A revised abstract."
	require.NoError(t, papers.UpsertPapers(ctx, updated))

	got, err := papers.GetPaper(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, "A revised abstract.", got.Abstract)
	assert.Equal(t, firstInserted, got.InsertedAt)

	count, err := papers.CountPapers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "upsert of the same content ID must not duplicate")
}

func TestPaperRepository_GetMissing(t *testing.T) {
	papers, _, _ := newTestStore(t)

	_, err := papers.GetPaper(context.Background(), core.ID(12345))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPaperRepository_GetPapersSkipsMissing(t *testing.T) {
	papers, _, _ := newTestStore(t)
	ctx := context.Background()

	record := testPaper("ICLR", 2025, "Paper One")
	require.NoError(t, papers.UpsertPapers(ctx, record))

	got, err := papers.GetPapers(ctx, record.Id, core.ID(999))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, record.Id, got[0].Id)
}

func TestPaperRepository_VenueYearIndex(t *testing.T) {
	papers, _, _ := newTestStore(t)
	ctx := context.Background()

	a := testPaper("ICLR", 2025, "Paper A")
	b := testPaper("ICLR", 2024, "Paper B")
	c := testPaper("NeurIPS", 2025, "Paper C")
	require.NoError(t, papers.UpsertPapers(ctx, a, b, c))

	ids, err := papers.GetPapersByVenueYear(ctx, "iclr", 2025)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, a.Id, ids[0])
}

func TestPaperRepository_KeywordIndex(t *testing.T) {
	papers, _, _ := newTestStore(t)
	ctx := context.Background()

	a := testPaper("ICLR", 2025, "Paper A")
	a.Keywords = []string{"Diffusion", "graphs"}
	b := testPaper("ICLR", 2025, "Paper B")
	b.Keywords = []string{"pruning"}
	require.NoError(t, papers.UpsertPapers(ctx, a, b))

	ids, err := papers.GetPapersByKeyword(ctx, "diffusion")
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, a.Id, ids[0])
}

func TestPaperRepository_DeleteCleansIndexes(t *testing.T) {
	papers, _, _ := newTestStore(t)
	ctx := context.Background()

	record := testPaper("ICLR", 2025, "Paper A")
	require.NoError(t, papers.UpsertPapers(ctx, record))
	require.NoError(t, papers.DeletePapers(ctx, record.Id))

	_, err := papers.GetPaper(ctx, record.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	ids, err := papers.GetPapersByVenueYear(ctx, "ICLR", 2025)
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = papers.GetPapersByKeyword(ctx, "retrieval")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestPaperRepository_ListPaperIDs(t *testing.T) {
	papers, _, _ := newTestStore(t)
	ctx := context.Background()

	a := testPaper("ICLR", 2025, "Paper A")
	b := testPaper("NeurIPS", 2024, "Paper B")
	require.NoError(t, papers.UpsertPapers(ctx, a, b))

	ids, err := papers.ListPaperIDs(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Less(t, uint64(ids[0]), uint64(ids[1]), "IDs scan in ascending order")
	assert.ElementsMatch(t, []core.ID{a.Id, b.Id}, ids)
}

func TestPaperRepository_DeleteMissing(t *testing.T) {
	papers, _, _ := newTestStore(t)
	err := papers.DeletePapers(context.Background(), core.ID(404))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPaperRepository_UpsertInvalid(t *testing.T) {
	papers, _, _ := newTestStore(t)

	record := testPaper("ICLR", 2025, "Paper A")
	record.Abstract = ""
	err := papers.UpsertPapers(context.Background(), record)
	assert.ErrorIs(t, err, core.ErrInvalidPaperRecord)
}
