package session

// Usage counts how often each verse has been returned.
type Usage struct {
	counts map[int]int
	total  int
}

// NewUsage creates an empty Usage counter.
func NewUsage() *Usage {
	return &Usage{counts: make(map[int]int)}
}

// Increment records one more appearance of a verse.
func (u *Usage) Increment(id int) {
	u.counts[id]++
	u.total++
}

// Count returns how often a verse has been returned.
func (u *Usage) Count(id int) int {
	return u.counts[id]
}

// Total returns the number of appearances across all verses.
func (u *Usage) Total() int {
	return u.total
}

// Reset clears all counts.
func (u *Usage) Reset() {
	clear(u.counts)
	u.total = 0
}
