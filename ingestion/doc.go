// Package ingestion provides pipeline orchestration for building the corpus.
//
// The Pipeline type manages the ingestion workflow for paper records:
//   - Normalizing raw per-venue metadata into canonical records
//   - Storing the records
//   - Generating embeddings in concurrent batches
//   - Upserting vectors into the index and checkpointing progress
//
// Embedding is performed concurrently using a worker pool to maximize
// throughput. A record that fails normalization or embedding is skipped and
// counted; it never aborts the rest of the batch.
package ingestion
