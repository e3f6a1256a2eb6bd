package lazy

import (
	"github.com/lattice-ml/lattice/internal/ir"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// View is one shape-transformed window into an Alias, reached through a
// chain of ViewInfo steps from the alias root. It caches its graph value
// together with the alias generation the cache was computed at; the cache
// is valid exactly while the two generations agree.
type View struct {
	shape      tensor.Shape
	alias      *Alias
	viewInfos  []ViewInfo
	value      ir.Value
	generation uint64
}

// NewView creates a View over alias through a single transform step.
func NewView(shape tensor.Shape, alias *Alias, info ViewInfo) *View {
	return NewViewFromChain(shape, alias, []ViewInfo{info})
}

// NewViewFromChain creates a View over alias through an existing chain.
func NewViewFromChain(shape tensor.Shape, alias *Alias, viewInfos []ViewInfo) *View {
	return &View{
		shape:     shape.Clone(),
		alias:     alias,
		viewInfos: viewInfos,
	}
}

// Shape returns the view's shape.
func (v *View) Shape() tensor.Shape {
	return v.shape
}

// Alias returns the shared storage record this view windows into.
func (v *View) Alias() *Alias {
	return v.alias
}

// IsUpToDate reports whether the cached value is still valid.
func (v *View) IsUpToDate() bool {
	return v.value.Valid() && v.generation == v.alias.Generation()
}

// Update records new contents for this view as a pending update on the
// owning alias.
func (v *View) Update(value ir.Value) {
	v.alias.Update(value, v.viewInfos)
}

// CreateSubView returns a View over the same alias whose chain extends this
// view's chain by one step; shape is the step's (already computed) result
// shape.
func (v *View) CreateSubView(shape tensor.Shape, info ViewInfo) *View {
	chain := make([]ViewInfo, 0, len(v.viewInfos)+1)
	chain = append(chain, v.viewInfos...)
	chain = append(chain, info)
	return NewViewFromChain(shape, v.alias, chain)
}

// GetViewIrNode returns the graph value for the view's current contents
// and whether it was recomputed. A stale view first syncs the alias's
// pending updates into a fresh root, then re-applies its own forward chain
// and caches the result at the alias's now-current generation.
func (v *View) GetViewIrNode() (ir.Value, bool) {
	if v.IsUpToDate() {
		return v.value, false
	}
	value := v.alias.SyncUpdateOperations()
	for _, info := range v.viewInfos {
		value = applyViewInfo(v.alias.builder, value, info)
	}
	v.value = value
	v.generation = v.alias.Generation()
	return v.value, true
}
