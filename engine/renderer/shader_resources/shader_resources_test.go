package shader_resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptorTableRefreshAccumulation(t *testing.T) {
	table := NewDescriptorTable()
	list := table.CreateList("Test List")

	assert.Nil(t, table.ConsumeListRefresh(list), "a fresh list has nothing pending")

	table.RequestListRefresh(list, []uint32{5, 1})
	table.RequestListRefresh(list, []uint32{3, 1})

	assert.Equal(t, []uint32{1, 3, 5}, table.ConsumeListRefresh(list),
		"requests accumulate deduplicated and drain in ascending slot order")
	assert.Nil(t, table.ConsumeListRefresh(list), "consuming clears the pending set")
}

func TestDescriptorTableListsAreIndependent(t *testing.T) {
	table := NewDescriptorTable()
	a := table.CreateList("A")
	b := table.CreateList("B")
	require.NotEqual(t, a, b)

	table.RequestListRefresh(a, []uint32{0})

	assert.Nil(t, table.ConsumeListRefresh(b))
	assert.Equal(t, []uint32{0}, table.ConsumeListRefresh(a))
}

func TestQueueUploadContextRequiresQueue(t *testing.T) {
	ctx := NewQueueUploadContext(nil)
	ctx.WriteBuffer(nil, 0, []byte{1})

	assert.Error(t, ctx.Submit())
}
