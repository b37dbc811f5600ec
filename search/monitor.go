package search

import "github.com/poiesic/latif/core"

// SearchMonitor provides hooks to observe a search.
type SearchMonitor interface {
	Start(filter Filter)
	Matched(verse core.Verse, field string)
	Finish(results []core.Verse)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ Filter)                 {}
func (n *noopMonitor) Matched(_ core.Verse, _ string) {}
func (n *noopMonitor) Finish(_ []core.Verse)          {}
