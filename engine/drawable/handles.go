package drawable

import "math"

// invalidIndex is the shared sentinel for all handle kinds.
const invalidIndex = uint32(math.MaxUint32)

// BaseIndex is a drawable's position in the type-erased Registry shared across all
// drawable kinds. Assigned once at creation and never reassigned for the object's lifetime.
type BaseIndex uint32

// EntryIndex is a drawable's position in its owning group's typed entry pool.
// Assigned once at creation and never reassigned for the object's lifetime.
type EntryIndex uint32

// ActiveIndex is a drawable's position in its group's dense active bag. Present only
// while the object participates in rendering; reassigned on every activation.
type ActiveIndex uint32

// Invalid sentinels for each handle kind.
const (
	InvalidBase   BaseIndex   = BaseIndex(invalidIndex)
	InvalidEntry  EntryIndex  = EntryIndex(invalidIndex)
	InvalidActive ActiveIndex = ActiveIndex(invalidIndex)
)

// Valid reports whether the handle refers to a slot.
func (i BaseIndex) Valid() bool { return i != InvalidBase }

// Valid reports whether the handle refers to a slot.
func (i EntryIndex) Valid() bool { return i != InvalidEntry }

// Valid reports whether the handle refers to a slot.
func (i ActiveIndex) Valid() bool { return i != InvalidActive }
