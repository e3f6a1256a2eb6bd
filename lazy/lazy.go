// Copyright 2025 The Lattice Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package lazy

import (
	"github.com/lattice-ml/lattice/internal/ir"
	"github.com/lattice-ml/lattice/internal/lazy"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// Alias represents one physical tensor storage shared by any number of
// Views.
type Alias = lazy.Alias

// View is one shape-transformed window into an Alias.
type View = lazy.View

// ViewInfo is one step of a view transform chain.
type ViewInfo = lazy.ViewInfo

// ViewType tags one ViewInfo variant.
type ViewType = lazy.ViewType

// The closed set of view transform kinds.
const (
	ViewNoOp      = lazy.ViewNoOp
	ViewSelect    = lazy.ViewSelect
	ViewNarrow    = lazy.ViewNarrow
	ViewPermute   = lazy.ViewPermute
	ViewReshape   = lazy.ViewReshape
	ViewResize    = lazy.ViewResize
	ViewSqueeze   = lazy.ViewSqueeze
	ViewUnsqueeze = lazy.ViewUnsqueeze
	ViewAsStrided = lazy.ViewAsStrided
	ViewDiagonal  = lazy.ViewDiagonal
)

// SelectInfo carries the payload of a select step.
type SelectInfo = lazy.SelectInfo

// AsStridedInfo carries the payload of an as-strided step.
type AsStridedInfo = lazy.AsStridedInfo

// DiagonalInfo carries the payload of a diagonal step.
type DiagonalInfo = lazy.DiagonalInfo

// Value is a handle to a computation-graph node.
type Value = ir.Value

// IrBuilder constructs computation-graph values.
type IrBuilder = ir.Builder

// NewIrBuilder returns the default graph node builder.
func NewIrBuilder() IrBuilder {
	return ir.NewBuilder()
}

// Leaf wraps a concrete tensor as a graph value.
func Leaf(b IrBuilder, t *tensor.RawTensor) Value {
	return ir.Leaf(b, t)
}

// NewAlias creates an Alias over the storage produced by root.
func NewAlias(root Value, b IrBuilder) *Alias {
	return lazy.NewAlias(root, b)
}

// NewView creates a View over alias through a single transform step.
func NewView(shape tensor.Shape, alias *Alias, info ViewInfo) *View {
	return lazy.NewView(shape, alias, info)
}

// NewViewFromChain creates a View over alias through an existing chain.
func NewViewFromChain(shape tensor.Shape, alias *Alias, viewInfos []ViewInfo) *View {
	return lazy.NewViewFromChain(shape, alias, viewInfos)
}

// NewViewInfo constructs a no-op, reshape, resize or narrow step from the
// result and source shapes.
func NewViewInfo(viewType ViewType, shape, sourceShape tensor.Shape) ViewInfo {
	return lazy.NewViewInfo(viewType, shape, sourceShape)
}

// NewNarrowViewInfo constructs a narrow step with explicit per-dimension
// start offsets.
func NewNarrowViewInfo(viewType ViewType, shape, sourceShape tensor.Shape, starts []int) ViewInfo {
	return lazy.NewNarrowViewInfo(viewType, shape, sourceShape, starts)
}

// NewSqueezeViewInfo constructs a squeeze or unsqueeze step at the given
// axis.
func NewSqueezeViewInfo(viewType ViewType, shape, sourceShape tensor.Shape, dim int) ViewInfo {
	return lazy.NewSqueezeViewInfo(viewType, shape, sourceShape, dim)
}

// NewPermuteViewInfo constructs a permute step.
func NewPermuteViewInfo(viewType ViewType, sourceShape tensor.Shape, permutation []int) ViewInfo {
	return lazy.NewPermuteViewInfo(viewType, sourceShape, permutation)
}

// NewSelectViewInfo constructs a select step.
func NewSelectViewInfo(viewType ViewType, sourceShape tensor.Shape, sel SelectInfo) ViewInfo {
	return lazy.NewSelectViewInfo(viewType, sourceShape, sel)
}

// NewAsStridedViewInfo constructs an as-strided step with an explicit result
// shape.
func NewAsStridedViewInfo(viewType ViewType, shape, sourceShape tensor.Shape, asStrided AsStridedInfo) ViewInfo {
	return lazy.NewAsStridedViewInfo(viewType, shape, sourceShape, asStrided)
}

// NewDiagonalViewInfo constructs a diagonal step.
func NewDiagonalViewInfo(viewType ViewType, sourceShape tensor.Shape, diagonal DiagonalInfo) ViewInfo {
	return lazy.NewDiagonalViewInfo(viewType, sourceShape, diagonal)
}
