package session

// SiblingIndex finds verses that share a theme and emotion with a verse.
type SiblingIndex interface {
	// Siblings returns the ids of other verses with the same theme and
	// emotion as id, or nil when id is unknown.
	Siblings(id int) []int
}

type verdict struct {
	relevant    bool
	provisional bool
}

// Feedback stores relevance verdicts keyed by verse id.
//
// Explicit verdicts are last-write-wins. When propagation is enabled a
// positive verdict also marks every sibling that has no verdict yet as
// provisionally relevant; provisional verdicts never overwrite existing
// ones and are themselves overwritten by later explicit verdicts.
type Feedback struct {
	verdicts  map[int]verdict
	siblings  SiblingIndex
	propagate bool
}

// NewFeedback creates a Feedback store. A nil index disables propagation.
func NewFeedback(siblings SiblingIndex, propagate bool) *Feedback {
	return &Feedback{
		verdicts:  make(map[int]verdict),
		siblings:  siblings,
		propagate: propagate && siblings != nil,
	}
}

// Record stores an explicit verdict for a verse. Unknown ids are accepted
// and simply never match a corpus verse.
func (f *Feedback) Record(id int, relevant bool) {
	f.verdicts[id] = verdict{relevant: relevant}
	if !relevant || !f.propagate {
		return
	}
	for _, sib := range f.siblings.Siblings(id) {
		if _, ok := f.verdicts[sib]; ok {
			continue
		}
		f.verdicts[sib] = verdict{relevant: true, provisional: true}
	}
}

// Verdict returns the stored verdict for a verse and whether one exists.
func (f *Feedback) Verdict(id int) (relevant bool, ok bool) {
	v, ok := f.verdicts[id]
	return v.relevant, ok
}

// IsProvisional reports whether the verdict for id came from propagation.
func (f *Feedback) IsProvisional(id int) bool {
	return f.verdicts[id].provisional
}

// Len returns the number of stored verdicts, provisional ones included.
func (f *Feedback) Len() int {
	return len(f.verdicts)
}

// Explicit calls fn for each explicit verdict. Iteration order is unspecified.
func (f *Feedback) Explicit(fn func(id int, relevant bool)) {
	for id, v := range f.verdicts {
		if !v.provisional {
			fn(id, v.relevant)
		}
	}
}

// Reset removes every verdict.
func (f *Feedback) Reset() {
	clear(f.verdicts)
}
