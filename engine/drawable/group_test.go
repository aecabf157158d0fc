package drawable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupCreateReusesPooledInstances(t *testing.T) {
	g := newStubGroup()

	first := g.Create(nil)
	firstEntry := first.EntryIndex()
	g.Return(first)

	second := g.Create(nil)
	assert.Same(t, first, second, "the pooled instance is reused before allocating")
	assert.Equal(t, firstEntry, second.EntryIndex(), "the lowest free entry slot is reused")
	assert.Equal(t, 1, second.resets, "the instance was reset between lifetimes")

	assert.True(t, second.Enabled())
	assert.Zero(t, second.DataElementCount())
	assert.False(t, second.UploadRequired())
	assert.False(t, second.IsActive())
}

func TestGroupReturnStrikesChangeTracking(t *testing.T) {
	g := newStubGroup()

	d := g.Create(nil)
	d.HandleModification(3)
	require.True(t, d.IsActive())

	d.Return()

	assert.Zero(t, g.Count())
	assert.Zero(t, g.ActiveCount())
	assert.Empty(t, g.ClearChanged(), "a returned object must not surface in the changed set")
	assert.Empty(t, g.ModifiedDrawables(), "a returned object must not surface in the modified set")
}

func TestGroupClearChangedConsumedOnce(t *testing.T) {
	g := newStubGroup()

	d := g.Create(nil)
	d.HandleModification(2)

	changed := g.ClearChanged()
	require.Len(t, changed, 1)
	assert.Same(t, d, changed[0])

	// The activation record is consumed; the still-pending modification keeps the
	// active object in the changed set until the cleanup pass clears it.
	changed = g.ClearChanged()
	require.Len(t, changed, 1)

	g.ClearModified()
	assert.Empty(t, g.ClearChanged())
}

func TestGroupDeactivationWithdrawsPendingActivation(t *testing.T) {
	g := newStubGroup()

	d := g.Create(nil)
	d.HandleModification(2)
	d.SetEnabledState(false)
	g.ClearModified()

	assert.Empty(t, g.ClearChanged(), "activate then deactivate within one frame cancels out")
}

func TestGroupModifiedExcludesInactiveFromChanged(t *testing.T) {
	g := newStubGroup()

	d := g.Create(nil)
	d.SetEnabledState(false)
	d.HandleModification(4)

	require.False(t, d.IsActive())
	assert.Empty(t, g.ClearChanged(), "modified but inactive objects stay out of the changed set")
	assert.Len(t, g.ModifiedDrawables(), 1, "the upload still happens while the object is hidden")
}

func TestGroupChangedSetAscendingAndDeduplicated(t *testing.T) {
	g := newStubGroup()

	a := g.Create(nil)
	b := g.Create(nil)
	c := g.Create(nil)

	// c both activates and modifies; it must appear exactly once.
	c.HandleModification(1)
	a.HandleModification(1)
	b.HandleModification(1)

	changed := g.ClearChanged()
	require.Len(t, changed, 3)
	assert.Same(t, a, changed[0])
	assert.Same(t, b, changed[1])
	assert.Same(t, c, changed[2])
}

// TestGroupFullFrameScenario walks one object through a complete frame cycle:
// creation, modification, changed-set settle, upload, cleanup.
func TestGroupFullFrameScenario(t *testing.T) {
	g := newStubGroup()
	ctx := &stubUploadContext{}

	d := g.Create(nil)
	require.True(t, d.Enabled())
	require.Zero(t, d.DataElementCount())
	require.False(t, d.IsActive())

	require.True(t, d.HandleModification(5))
	assert.True(t, d.IsActive())
	assert.Len(t, g.ModifiedDrawables(), 1)

	changed := g.ClearChanged()
	require.Len(t, changed, 1)
	assert.Same(t, d, changed[0])

	d.SetStagedData([]byte{1, 2, 3, 4})
	d.PrepareUpload()
	require.NoError(t, d.EnqueueDataUpload(ctx))
	require.NoError(t, ctx.Submit())
	d.CleanupDataUpload()
	g.ClearModified()

	assert.Empty(t, g.ClearChanged(), "a second settle with no further change yields nothing")
	assert.Empty(t, g.ModifiedDrawables())
	assert.False(t, d.UploadRequired())
	assert.False(t, d.UploadEnqueued())
	assert.True(t, d.IsActive(), "the object stays active after the upload completes")
}

func TestRegistrySpansGroups(t *testing.T) {
	reg := NewRegistry()
	g1 := NewGroup(reg, newStub)
	g2 := NewGroup(reg, newStub)

	a := g1.Create(nil)
	b := g2.Create(nil)
	aBase := a.BaseIndex()

	assert.Equal(t, 2, reg.Count())
	assert.NotEqual(t, aBase, b.BaseIndex())
	assert.Same(t, a, reg.Get(aBase))
	assert.Same(t, b, reg.Get(b.BaseIndex()))

	a.Return()
	assert.Equal(t, 1, reg.Count())

	c := g2.Create(nil)
	assert.Equal(t, aBase, c.BaseIndex(), "the freed registry slot is reused across groups")
}
