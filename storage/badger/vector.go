package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/storage"
)

// VectorIndex implements storage.VectorIndex for BadgerDB.
//
// Vectors live under vec:<model>: keys; the filterable metadata (venue,
// year, decision) is stored inside each vector row, so a query runs in one
// snapshot transaction and never observes a paper whose metadata and vector
// disagree.
type VectorIndex struct {
	backend *Backend
}

var _ storage.VectorIndex = (*VectorIndex)(nil)

// NewVectorIndex creates a new VectorIndex.
func NewVectorIndex(backend *Backend) *VectorIndex {
	return &VectorIndex{backend: backend}
}

// Upsert stores vectors, replacing any previous vector for the same
// (OwnerId, ModelID) pair.
//
// Concurrent upserts for the same model all read the model's dimension key,
// so the transaction that registers it can conflict the others; those are
// retried.
func (v *VectorIndex) Upsert(ctx context.Context, vectors ...*core.EmbeddingVector) error {
	const maxConflictRetries = 5
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = v.upsertOnce(vectors)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

func (v *VectorIndex) upsertOnce(vectors []*core.EmbeddingVector) error {
	return v.backend.WithTx(func(tx *badger.Txn) error {
		for _, vector := range vectors {
			if err := core.ValidateEmbeddingVector(vector); err != nil {
				return err
			}
			if err := v.checkDimension(tx, vector.ModelID, len(vector.Vector)); err != nil {
				return err
			}
			key := makeVectorKey(vector.ModelID, vector.OwnerId)
			if err := tx.Set(key, storage.MarshalEmbeddingVector(vector)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Remove deletes the vectors for the given owners under one model.
// Missing vectors are ignored.
func (v *VectorIndex) Remove(ctx context.Context, modelID string, owners ...core.ID) error {
	return v.backend.WithTx(func(tx *badger.Txn) error {
		for _, owner := range owners {
			if err := tx.Delete(makeVectorKey(modelID, owner)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query scans the model's vectors, applies the predicate, and returns the k
// highest-scoring matches by cosine similarity.
func (v *VectorIndex) Query(ctx context.Context, modelID string, vector []float32, k int, pred storage.Predicate) ([]core.Match, error) {
	if k <= 0 {
		return []core.Match{}, nil
	}
	matches := []core.Match{}
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialVectorKey(modelID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var stored *core.EmbeddingVector
			err := iter.Item().Value(func(val []byte) error {
				var err error
				stored, err = storage.UnmarshalEmbeddingVector(val)
				return err
			})
			if err != nil {
				return err
			}
			// Filter during the scan, before ranking, so excluded papers
			// never displace matching ones.
			if !pred.Matches(stored) {
				continue
			}
			matches = append(matches, core.Match{
				Id:    stored.OwnerId,
				Score: cosineSimilarity(vector, stored.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Score descending, owner ID ascending on ties.
	slices.SortFunc(matches, func(a, b core.Match) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Count returns the number of vectors stored under a model.
func (v *VectorIndex) Count(ctx context.Context, modelID string) (int, error) {
	count := 0
	err := v.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialVectorKey(modelID)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// checkDimension enforces one dimension per model. The first vector stored
// for a model registers its dimension under a vdim key.
func (v *VectorIndex) checkDimension(tx *badger.Txn, modelID string, dim int) error {
	key := makeVectorDimKey(modelID)
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, uint64(dim))
			return tx.Set(key, buf)
		}
		return err
	}
	var registered uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return storage.ErrSerializationFailed
		}
		registered = binary.BigEndian.Uint64(val)
		return nil
	})
	if err != nil {
		return err
	}
	if int(registered) != dim {
		return fmt.Errorf("%w: model %s expects %d, got %d",
			storage.ErrDimensionMismatch, modelID, registered, dim)
	}
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
