package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGappedListCountTracksLivePushes(t *testing.T) {
	var l GappedList[string]

	a := l.Push("a")
	b := l.Push("b")
	c := l.Push("c")
	assert.Equal(t, 3, l.Count())
	assert.Equal(t, 3, l.Capacity())

	assert.Equal(t, "b", l.Pop(b))
	assert.Equal(t, 2, l.Count())
	assert.Equal(t, 3, l.Capacity(), "popping leaves a gap, capacity is unchanged")

	for index := range l.All() {
		assert.Less(t, index, l.Capacity())
	}

	l.Pop(a)
	l.Pop(c)
	assert.True(t, l.IsEmpty())
}

func TestGappedListReusesLowestFreeIndex(t *testing.T) {
	var l GappedList[int]

	for i := range 5 {
		l.Push(i)
	}

	l.Pop(3)
	assert.Equal(t, 3, l.Push(30), "a single gap must be refilled exactly")

	l.Pop(4)
	l.Pop(1)
	l.Pop(2)
	assert.Equal(t, 1, l.Push(10), "the lowest free index is reused first")
	assert.Equal(t, 2, l.Push(20))
	assert.Equal(t, 4, l.Push(40))
	assert.Equal(t, 5, l.Capacity(), "no growth while gaps remain")
}

func TestGappedListIterationSkipsGaps(t *testing.T) {
	var l GappedList[int]
	for i := range 6 {
		l.Push(i * 10)
	}
	l.Pop(1)
	l.Pop(4)

	var indices []int
	var values []int
	for index, value := range l.All() {
		indices = append(indices, index)
		values = append(values, value)
	}

	assert.Equal(t, []int{0, 2, 3, 5}, indices)
	assert.Equal(t, []int{0, 20, 30, 50}, values)
}

func TestGappedListCheckedAccess(t *testing.T) {
	var l GappedList[int]
	index := l.Push(42)

	assert.Equal(t, 42, l.Get(index))
	assert.Panics(t, func() { l.Get(5) }, "out-of-range access is fatal")

	l.Pop(index)
	assert.Panics(t, func() { l.Get(index) }, "gap access is fatal")
	assert.Panics(t, func() { l.Pop(index) }, "double pop is fatal")
}

func TestGappedListCapacityBoundedByPeakLiveCount(t *testing.T) {
	var l GappedList[int]

	// Churn 100 push/pop pairs through a list that never holds more than 2 elements.
	held := l.Push(0)
	for i := range 100 {
		next := l.Push(i)
		l.Pop(held)
		held = next
	}

	require.Equal(t, 1, l.Count())
	assert.LessOrEqual(t, l.Capacity(), 2)
}
