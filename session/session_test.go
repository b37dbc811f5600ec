package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	t.Run("evicts oldest beyond capacity", func(t *testing.T) {
		w := NewWindow(3)
		for _, s := range []string{"a", "b", "c", "d"} {
			w.Push(s)
		}
		assert.Equal(t, []string{"b", "c", "d"}, w.Items())
		assert.Equal(t, "b c d", w.Joined())
		assert.Equal(t, 3, w.Len())
	})

	t.Run("default capacity", func(t *testing.T) {
		w := NewWindow(0)
		assert.Equal(t, DefaultCapacity, w.Capacity())
		for i := 0; i < DefaultCapacity+1; i++ {
			w.Push("x")
		}
		assert.Equal(t, DefaultCapacity, w.Len())
	})

	t.Run("items are a copy", func(t *testing.T) {
		w := NewWindow(2)
		w.Push("a")
		items := w.Items()
		items[0] = "mutated"
		assert.Equal(t, []string{"a"}, w.Items())
	})

	t.Run("reset", func(t *testing.T) {
		w := NewWindow(2)
		w.Push("a")
		w.Reset()
		assert.Zero(t, w.Len())
		assert.Equal(t, "", w.Joined())
	})
}

func TestUsage(t *testing.T) {
	u := NewUsage()
	u.Increment(1)
	u.Increment(1)
	u.Increment(7)
	assert.Equal(t, 2, u.Count(1))
	assert.Equal(t, 1, u.Count(7))
	assert.Zero(t, u.Count(99))
	assert.Equal(t, 3, u.Total())

	u.Reset()
	assert.Zero(t, u.Count(1))
	assert.Zero(t, u.Total())
}

type staticSiblings map[int][]int

func (s staticSiblings) Siblings(id int) []int { return s[id] }

func TestFeedback_LastWriteWins(t *testing.T) {
	f := NewFeedback(nil, true)
	f.Record(5, true)
	f.Record(5, false)

	relevant, ok := f.Verdict(5)
	assert.True(t, ok)
	assert.False(t, relevant)
	assert.Equal(t, 1, f.Len())
}

func TestFeedback_UnknownVerse(t *testing.T) {
	f := NewFeedback(staticSiblings{}, true)
	f.Record(999, true)
	relevant, ok := f.Verdict(999)
	assert.True(t, ok)
	assert.True(t, relevant)
	assert.Equal(t, 1, f.Len())
}

func TestFeedback_Propagation(t *testing.T) {
	index := staticSiblings{1: {2, 3}, 2: {1, 3}, 3: {1, 2}}

	t.Run("positive verdict marks siblings", func(t *testing.T) {
		f := NewFeedback(index, true)
		f.Record(1, true)

		for _, id := range []int{2, 3} {
			relevant, ok := f.Verdict(id)
			assert.True(t, ok)
			assert.True(t, relevant)
			assert.True(t, f.IsProvisional(id))
		}
		assert.False(t, f.IsProvisional(1))
	})

	t.Run("does not overwrite existing verdicts", func(t *testing.T) {
		f := NewFeedback(index, true)
		f.Record(2, false)
		f.Record(1, true)

		relevant, ok := f.Verdict(2)
		assert.True(t, ok)
		assert.False(t, relevant)
	})

	t.Run("negative verdict does not propagate", func(t *testing.T) {
		f := NewFeedback(index, true)
		f.Record(1, false)
		_, ok := f.Verdict(2)
		assert.False(t, ok)
	})

	t.Run("explicit verdict replaces provisional", func(t *testing.T) {
		f := NewFeedback(index, true)
		f.Record(1, true)
		f.Record(2, false)
		relevant, _ := f.Verdict(2)
		assert.False(t, relevant)
		assert.False(t, f.IsProvisional(2))
	})

	t.Run("disabled", func(t *testing.T) {
		f := NewFeedback(index, false)
		f.Record(1, true)
		_, ok := f.Verdict(2)
		assert.False(t, ok)
	})
}

func TestFeedback_Explicit(t *testing.T) {
	f := NewFeedback(staticSiblings{1: {2}}, true)
	f.Record(1, true)
	f.Record(3, false)

	got := map[int]bool{}
	f.Explicit(func(id int, relevant bool) { got[id] = relevant })
	assert.Equal(t, map[int]bool{1: true, 3: false}, got)

	f.Reset()
	assert.Zero(t, f.Len())
}
