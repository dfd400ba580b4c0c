package search

import "github.com/poiesic/paperlens/core"

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate steps during a query.
type SearchMonitor interface {
	Start(query *core.QuerySpec)
	AfterEmbedding(vector []float32)
	AfterIndexQuery(matches []core.Match)
	AfterRecordRetrieval(records []*core.PaperRecord)
	Finish(results *core.ResultSet)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.QuerySpec)                    {}
func (n *noopMonitor) AfterEmbedding(_ []float32)                 {}
func (n *noopMonitor) AfterIndexQuery(_ []core.Match)             {}
func (n *noopMonitor) AfterRecordRetrieval(_ []*core.PaperRecord) {}
func (n *noopMonitor) Finish(_ *core.ResultSet)                   {}
