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
	"fmt"
	"io"
	"time"

	"github.com/poiesic/paperlens/ai"
	"github.com/poiesic/paperlens/core"
	"github.com/poiesic/paperlens/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of papers to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of papers)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder rebuilds the vector index of a corpus under one embedding model.
type Reembedder struct {
	papers      storage.PaperRepository
	vectors     storage.VectorIndex
	checkpoints storage.CheckpointRepository
	embedder    ai.Embedder
	config      *Config
	progress    io.Writer
	processor   *BatchProcessor
	iterator    *PaperIterator
}

// NewReembedder creates a new reembedder. The checkpoint repository may be
// nil, in which case progress is not checkpointed.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(
	papers storage.PaperRepository,
	vectors storage.VectorIndex,
	checkpoints storage.CheckpointRepository,
	embedder ai.Embedder,
	config *Config,
	progress io.Writer,
) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}
	return &Reembedder{
		papers:      papers,
		vectors:     vectors,
		checkpoints: checkpoints,
		embedder:    embedder,
		config:      config,
		progress:    progress,
		processor:   NewBatchProcessor(vectors, embedder, config.MaxRetries, config.RetryDelay),
		iterator:    NewPaperIterator(papers, config.BatchSize),
	}
}

// Run executes the reembedding operation. Every paper in the corpus is
// embedded with the configured model and its vector replaced. Progress is
// reported to the configured writer.
func (r *Reembedder) Run(ctx context.Context) error {
	total, err := r.papers.CountPapers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count papers: %w", err)
	}
	if total == 0 {
		fmt.Fprintf(r.progress, "No papers found in corpus (0 papers)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d papers with model %s (batch size: %d)\n",
		total, r.embedder.ModelID(), r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	var replaced, failed int
	err = r.iterator.ForEach(ctx, func(records []*core.PaperRecord) error {
		ok, bad, err := r.processor.Process(ctx, records)
		if err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		replaced += ok
		failed += bad
		tracker.Increment(len(records))
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	if r.checkpoints != nil {
		checkpoint := &core.Checkpoint{
			ModelID:   r.embedder.ModelID(),
			Dimension: r.embedder.Dimension(),
			Papers:    int64(replaced),
		}
		if err := r.checkpoints.SaveCheckpoint(ctx, checkpoint); err != nil {
			return fmt.Errorf("failed to save checkpoint: %w", err)
		}
	}

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Replaced %d vectors (%d failed) in %v (%.1f papers/sec)\n",
		replaced, failed, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())
	return nil
}
