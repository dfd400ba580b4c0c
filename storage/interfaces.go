package storage

import (
	"context"

	"github.com/poiesic/paperlens/core"
)

// Store provides common operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// PaperRepository provides operations for managing canonical paper records.
type PaperRepository interface {
	Store

	// UpsertPapers inserts or replaces paper records, keyed by content ID.
	// Sets InsertedAt on first write and UpdatedAt on every write.
	// Secondary indexes (venue-year, keyword) are maintained atomically
	// with the record.
	UpsertPapers(ctx context.Context, records ...*core.PaperRecord) error

	// DeletePapers removes paper records and their index entries by ID.
	// Returns ErrNotFound if any record doesn't exist.
	DeletePapers(ctx context.Context, ids ...core.ID) error

	// GetPaper retrieves a single paper record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetPaper(ctx context.Context, id core.ID) (*core.PaperRecord, error)

	// GetPapers retrieves multiple paper records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetPapers(ctx context.Context, ids ...core.ID) ([]*core.PaperRecord, error)

	// GetPapersByVenueYear retrieves the IDs of all papers published at a
	// venue in a year.
	GetPapersByVenueYear(ctx context.Context, venue string, year int) ([]core.ID, error)

	// GetPapersByKeyword retrieves the IDs of all papers carrying a keyword.
	// Keyword matching is case-insensitive.
	GetPapersByKeyword(ctx context.Context, keyword string) ([]core.ID, error)

	// ListPaperIDs returns the IDs of all stored papers in ascending order.
	ListPaperIDs(ctx context.Context) ([]core.ID, error)

	// CountPapers returns the total number of stored paper records.
	CountPapers(ctx context.Context) (int, error)
}

// VectorIndex provides per-model storage and filtered similarity search of
// embedding vectors. Vectors of different models live in disjoint
// namespaces; a query only ever sees vectors of its own model.
type VectorIndex interface {
	// Upsert stores vectors, replacing any previous vector for the same
	// (OwnerId, ModelID) pair. The first vector stored for a model fixes
	// that model's dimension; later vectors of a different length fail
	// with ErrDimensionMismatch.
	Upsert(ctx context.Context, vectors ...*core.EmbeddingVector) error

	// Remove deletes the vectors for the given owners under one model.
	// Missing vectors are ignored.
	Remove(ctx context.Context, modelID string, owners ...core.ID) error

	// Query scans the model's vectors, applies the predicate, and returns
	// the k highest-scoring matches by cosine similarity against the query
	// vector. Results are ordered by score descending, owner ID ascending
	// on ties. An empty index yields an empty slice, not an error.
	Query(ctx context.Context, modelID string, vector []float32, k int, pred Predicate) ([]core.Match, error)

	// Count returns the number of vectors stored under a model.
	Count(ctx context.Context, modelID string) (int, error)
}

// CheckpointRepository persists per-model ingestion progress markers.
type CheckpointRepository interface {
	// SaveCheckpoint stores the checkpoint for its model, replacing any
	// previous one.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// GetCheckpoint retrieves the checkpoint for a model.
	// Returns ErrNotFound if no checkpoint was ever saved.
	GetCheckpoint(ctx context.Context, modelID string) (*core.Checkpoint, error)
}
