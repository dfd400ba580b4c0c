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


// Package storage provides the storage abstraction layer for paperlens.
//
// This package defines repository interfaces that decouple storage
// implementation from retrieval logic, so different backends (BadgerDB,
// Qdrant, in-memory) can be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	store, err := badger.NewStore(path)  // returns storage interfaces
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Architecture
//
//   - PaperRepository: canonical paper metadata, keyed by content ID
//   - VectorIndex: per-model embedding vectors with filtered similarity search
//   - CheckpointRepository: per-model ingestion progress markers
//
// A paper's metadata and its vectors live in different namespaces of the
// same store; the VectorIndex denormalizes the filterable fields (venue,
// year, decision) into its own rows so a query never reads a half-updated
// pair.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support.
package storage
