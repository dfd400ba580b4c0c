// Package search implements the retrieval pipeline: validate the query,
// embed its text, run a filtered similarity search against the vector
// index, join the matches with paper snapshots, and rank the result set.
//
// The pipeline never ranks across embedding models; a query runs entirely
// within the model named by its QuerySpec.
package search
