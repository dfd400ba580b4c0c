// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/storage"
)

const (
	// DefaultBatchSize is the default number of papers fetched per batch
	DefaultBatchSize = 100
)

// PaperIterator iterates over all papers in the corpus in batches.
type PaperIterator struct {
	repo      storage.PaperRepository
	batchSize int
}

// NewPaperIterator creates a new paper iterator.
// batchSize: number of papers to fetch in each batch (must be > 0)
func NewPaperIterator(repo storage.PaperRepository, batchSize int) *PaperIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &PaperIterator{
		repo:      repo,
		batchSize: batchSize,
	}
}

// ForEach iterates over all papers, calling fn for each batch.
// Iteration stops on the first error from fn or when all papers are
// processed. Context cancellation is checked between batches.
func (it *PaperIterator) ForEach(ctx context.Context, fn func([]*core.PaperRecord) error) error {
	ids, err := it.repo.ListPaperIDs(ctx)
	if err != nil {
		return err
	}

	for start := 0; start < len(ids); start += it.batchSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		end := start + it.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := it.repo.GetPapers(ctx, ids[start:end]...)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			continue
		}
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}
