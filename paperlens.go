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


// Package paperlens is a semantic retrieval library for academic paper
// corpora: papers go in with venue metadata, vectors are built with an
// embedding model, and natural-language queries come back as ranked,
// filterable result sets.
package paperlens

import (
	"io"
	"log/slog"

	"github.com/poiesic/paperlens/ai"
	"github.com/poiesic/paperlens/ingestion"
	"github.com/poiesic/paperlens/normalize"
	"github.com/poiesic/paperlens/reembed"
	"github.com/poiesic/paperlens/search"
	"github.com/poiesic/paperlens/storage"
	"github.com/poiesic/paperlens/storage/badger"
)

// Library aggregates the corpus store, vector index, and embedder behind a
// single open/close lifecycle.
type Library struct {
	backend     *badger.Backend
	papers      storage.PaperRepository
	vectors     storage.VectorIndex
	checkpoints storage.CheckpointRepository
	embedder    ai.Embedder
	normalizer  *normalize.Normalizer
	logger      *slog.Logger
}

// LibraryOption configures a Library.
type LibraryOption func(*libraryOptions)

type libraryOptions struct {
	embedder ai.Embedder
	inMemory bool
}

// WithEmbedder sets the embedding backend. Required unless the library is
// only used for stores that were built elsewhere.
func WithEmbedder(embedder ai.Embedder) LibraryOption {
	return func(o *libraryOptions) {
		o.embedder = embedder
	}
}

// WithInMemory opens the store in memory, discarding data on close.
// Intended for tests and demos.
func WithInMemory() LibraryOption {
	return func(o *libraryOptions) {
		o.inMemory = true
	}
}

// Open opens (or creates) a library at filePath.
func Open(filePath string, opts ...LibraryOption) (*Library, error) {
	options := &libraryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	normalizer, err := normalize.NewNormalizer()
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Library{
		backend:     backend,
		papers:      badger.NewPaperRepository(backend),
		vectors:     badger.NewVectorIndex(backend),
		checkpoints: badger.NewCheckpointRepository(backend),
		embedder:    options.embedder,
		normalizer:  normalizer,
		logger:      slog.Default().With("component", "library"),
	}, nil
}

// Close closes the underlying store.
func (l *Library) Close() error {
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Papers returns the paper repository.
func (l *Library) Papers() storage.PaperRepository {
	return l.papers
}

// Vectors returns the vector index.
func (l *Library) Vectors() storage.VectorIndex {
	return l.vectors
}

// Checkpoints returns the checkpoint repository.
func (l *Library) Checkpoints() storage.CheckpointRepository {
	return l.checkpoints
}

// Normalizer returns the record normalizer.
func (l *Library) Normalizer() *normalize.Normalizer {
	return l.normalizer
}

// NewIngestionPipeline builds an ingestion pipeline over this library.
func (l *Library) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(l.papers, l.vectors, l.checkpoints, l.embedder, l.normalizer, opts...)
}

// NewSearcher builds a searcher over this library.
func (l *Library) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(l.papers, l.vectors, l.embedder, opts...)
}

// NewReembedder builds a reembedder over this library. The embedder may
// differ from the library's own; that is the point of reembedding.
func (l *Library) NewReembedder(embedder ai.Embedder, config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(l.papers, l.vectors, l.checkpoints, embedder, config, progress)
}
