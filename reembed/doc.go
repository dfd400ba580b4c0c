// Package reembed rebuilds the vector index for a corpus with a new or
// updated embedding model.
//
// The paper records themselves are untouched; only vectors are regenerated,
// batch by batch, with progress reporting. Vectors are normalized to unit
// length before storage so cosine similarity can be computed as a dot
// product.
package reembed
