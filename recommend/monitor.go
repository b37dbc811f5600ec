package recommend

import "github.com/poiesic/latif/core"

// Monitor provides hooks to observe a recommend call.
// Implement this interface to trace how each verse was scored.
type Monitor interface {
	Start(transcript string)
	AfterAnalysis(analysis core.SemanticAnalysis)
	VerseScored(verse core.Verse, breakdown core.ScoreBreakdown)
	FallbackTriggered(theme core.Theme)
	Finish(results []core.Recommendation)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                 {}
func (n *noopMonitor) AfterAnalysis(_ core.SemanticAnalysis)          {}
func (n *noopMonitor) VerseScored(_ core.Verse, _ core.ScoreBreakdown) {}
func (n *noopMonitor) FallbackTriggered(_ core.Theme)                 {}
func (n *noopMonitor) Finish(_ []core.Recommendation)                 {}
