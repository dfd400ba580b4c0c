package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/paperlens/ai"
	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/storage"
)

// Searcher runs semantic queries over the paper corpus.
type Searcher struct {
	papers   storage.PaperRepository
	vectors  storage.VectorIndex
	embedder ai.Embedder
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	papers storage.PaperRepository,
	vectors storage.VectorIndex,
	embedder ai.Embedder,
	opts ...Option,
) (*Searcher, error) {
	if papers == nil {
		return nil, ErrPaperRepositoryRequired
	}
	if vectors == nil {
		return nil, ErrVectorIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		papers:   papers,
		vectors:  vectors,
		embedder: embedder,
		logger:   slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search runs a query and returns a ranked result set.
func (s *Searcher) Search(ctx context.Context, query *core.QuerySpec) (*core.ResultSet, error) {
	return s.SearchWithMonitor(ctx, query, nil)
}

// SearchWithMonitor runs a query with monitoring. The monitor receives
// callbacks at each stage of the pipeline.
//
// Validation happens first: a blank query text or non-positive TopK fails
// with ErrInvalidQuery before the embedder or index is touched. An empty
// index yields an empty result set, not an error.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query *core.QuerySpec, monitor SearchMonitor) (*core.ResultSet, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	// 1. Validate before any embedding or index work.
	if err := s.validateQuery(query); err != nil {
		return nil, err
	}
	modelID := query.ModelID
	if modelID == "" {
		modelID = s.embedder.ModelID()
	}
	monitor.Start(query)

	// 2. Embed the query text.
	vector, err := s.embedder.EmbedText(ctx, query.Text)
	if err != nil {
		s.logger.Error("error generating embedding for query", "model", modelID, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	monitor.AfterEmbedding(vector)

	// 3. Filtered similarity search within the query's model namespace.
	pred := storage.Predicate{
		Venues: query.Venues,
		Years:  query.Years,
	}
	matches, err := s.vectors.Query(ctx, modelID, vector, query.TopK, pred)
	if err != nil {
		s.logger.Error("error querying vector index", "model", modelID, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrIndexUnavailable, err)
	}
	monitor.AfterIndexQuery(matches)

	if len(matches) == 0 {
		results := &core.ResultSet{Query: query.Text, ModelID: modelID, Entries: []core.ResultEntry{}}
		monitor.Finish(results)
		return results, nil
	}

	// 4. Join matches with paper snapshots.
	ids := make([]core.ID, len(matches))
	for i, match := range matches {
		ids[i] = match.Id
	}
	records, err := s.papers.GetPapers(ctx, ids...)
	if err != nil {
		s.logger.Error("error retrieving paper records", "count", len(ids), "err", err)
		return nil, err
	}
	monitor.AfterRecordRetrieval(records)

	byID := make(map[core.ID]*core.PaperRecord, len(records))
	for _, record := range records {
		byID[record.Id] = record
	}

	// 5. Build the ranked result set. Matches arrive ordered by score
	// descending, ID ascending; ranks are dense and 1-based. A match whose
	// paper record vanished is dropped rather than surfaced half-empty.
	entries := make([]core.ResultEntry, 0, len(matches))
	for _, match := range matches {
		record, ok := byID[match.Id]
		if !ok {
			s.logger.Warn("match without paper record, dropping", "id", match.Id, "model", modelID)
			continue
		}
		entries = append(entries, core.ResultEntry{
			Rank:   len(entries) + 1,
			Score:  match.Score,
			Record: record,
		})
	}

	// 6. Re-assert the TopK bound; the index already honors k, but the
	// result set contract does not depend on it.
	if len(entries) > query.TopK {
		entries = entries[:query.TopK]
	}

	results := &core.ResultSet{Query: query.Text, ModelID: modelID, Entries: entries}
	monitor.Finish(results)
	return results, nil
}

func (s *Searcher) validateQuery(query *core.QuerySpec) error {
	if query == nil {
		return fmt.Errorf("%w: nil query", ErrInvalidQuery)
	}
	if strings.TrimSpace(query.Text) == "" {
		return fmt.Errorf("%w: blank query text", ErrInvalidQuery)
	}
	if query.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidQuery, query.TopK)
	}
	// A query vector is only comparable with vectors of the same model.
	// Asking for a namespace the bound embedder cannot serve would score
	// one model's vector against another's.
	if query.ModelID != "" && query.ModelID != s.embedder.ModelID() {
		return fmt.Errorf("%w: query model %q does not match embedder model %q",
			ErrInvalidQuery, query.ModelID, s.embedder.ModelID())
	}
	return nil
}
