package lazy

import "github.com/lattice-ml/lattice/internal/ir"

// updateData is one pending in-place update: the replacement value and the
// transform chain describing how the updated view was reached from root.
type updateData struct {
	value     ir.Value
	viewInfos []ViewInfo
}

// Alias represents one physical tensor storage shared by any number of
// Views. It holds the current best-known root graph value, the ordered
// pending updates recorded against it, and a generation counter that
// invalidates every View's cache on each update.
//
// Aliases are shared by plain pointer; the surrounding system serializes
// all graph construction, so no synchronization is performed here.
type Alias struct {
	builder    ir.Builder
	root       ir.Value
	updates    []updateData
	generation uint64
}

// NewAlias creates an Alias over the storage produced by root, building
// replay nodes through b.
func NewAlias(root ir.Value, b ir.Builder) *Alias {
	return &Alias{
		builder: b,
		root:    root,
	}
}

// Generation returns the current update generation.
func (a *Alias) Generation() uint64 {
	return a.generation
}

// PendingUpdates returns the number of recorded, not yet synced updates.
func (a *Alias) PendingUpdates() int {
	return len(a.updates)
}

// Update records a pending in-place update of the view reached through
// viewInfos. Two consecutive updates with value-equal chains coalesce into
// one record keeping only the newer value. The generation always advances,
// staling every View of this alias.
func (a *Alias) Update(value ir.Value, viewInfos []ViewInfo) {
	if len(a.updates) > 0 && chainsEqual(a.updates[len(a.updates)-1].viewInfos, viewInfos) {
		a.updates[len(a.updates)-1].value = value
	} else {
		a.updates = append(a.updates, updateData{
			value:     value,
			viewInfos: append([]ViewInfo(nil), viewInfos...),
		})
	}
	a.generation++
}

// SyncUpdateOperations folds every pending update into the root value in
// insertion order, clears the pending list, and returns the new root.
func (a *Alias) SyncUpdateOperations() ir.Value {
	for _, update := range a.updates {
		a.root = applyUpdate(a.builder, a.root, update)
	}
	a.updates = a.updates[:0]
	return a.root
}
