package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexSetInsertEraseContains(t *testing.T) {
	var s IndexSet

	assert.False(t, s.Contains(0))
	assert.True(t, s.IsEmpty())

	s.Insert(3)
	s.Insert(64)
	s.Insert(200)
	assert.True(t, s.Contains(3))
	assert.True(t, s.Contains(64))
	assert.True(t, s.Contains(200))
	assert.False(t, s.Contains(4))
	assert.Equal(t, 3, s.Count())

	s.Erase(64)
	assert.False(t, s.Contains(64))
	assert.Equal(t, 2, s.Count())
}

func TestIndexSetIdempotentOps(t *testing.T) {
	var s IndexSet

	s.Insert(7)
	s.Insert(7)
	assert.Equal(t, 1, s.Count(), "double insert must not inflate the count")

	s.Erase(7)
	s.Erase(7)
	assert.Equal(t, 0, s.Count(), "erasing a non-member must be a no-op")

	s.Erase(9999)
	assert.Equal(t, 0, s.Count())
}

func TestIndexSetAscendingIteration(t *testing.T) {
	var s IndexSet
	for _, i := range []int{130, 2, 65, 0, 63, 64} {
		s.Insert(i)
	}

	assert.Equal(t, []int{0, 2, 63, 64, 65, 130}, s.Indices())
}

func TestIndexSetClearRetainsNothing(t *testing.T) {
	var s IndexSet
	s.Insert(1)
	s.Insert(500)

	s.Clear()

	assert.True(t, s.IsEmpty())
	assert.False(t, s.Contains(1))
	assert.False(t, s.Contains(500))
	assert.Empty(t, s.Indices())
}
