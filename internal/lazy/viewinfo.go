// Package lazy tracks views over shared tensor storage and defers their
// in-place updates into a computation graph. An Alias owns the root graph
// value for one physical storage plus the pending updates recorded against
// it; a View is one shape-transformed window into an Alias, reached through
// a chain of ViewInfo steps, each of which knows both its forward transform
// and its write-back inverse.
package lazy

import (
	"fmt"
	"slices"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// ViewType tags one ViewInfo variant.
type ViewType int

// The closed set of view transform kinds.
const (
	ViewNoOp ViewType = iota
	ViewSelect
	ViewNarrow
	ViewPermute
	ViewReshape
	ViewResize
	ViewSqueeze
	ViewUnsqueeze
	ViewAsStrided
	ViewDiagonal
)

// String returns the variant name.
func (t ViewType) String() string {
	switch t {
	case ViewNoOp:
		return "no_op"
	case ViewSelect:
		return "select"
	case ViewNarrow:
		return "narrow"
	case ViewPermute:
		return "permute"
	case ViewReshape:
		return "reshape"
	case ViewResize:
		return "resize"
	case ViewSqueeze:
		return "squeeze"
	case ViewUnsqueeze:
		return "unsqueeze"
	case ViewAsStrided:
		return "as_strided"
	case ViewDiagonal:
		return "diagonal"
	default:
		return "unknown"
	}
}

// SelectInfo carries the payload of a select step: the strided range
// [Start, End) along Dim.
type SelectInfo struct {
	Dim    int
	Start  int
	End    int
	Stride int
}

// AsStridedInfo carries the payload of an as-strided step: element strides
// and absolute storage offset (the sizes live in the ViewInfo shape).
type AsStridedInfo struct {
	Stride []int
	Offset int
}

// DiagonalInfo carries the payload of a diagonal step.
type DiagonalInfo struct {
	Offset int
	Dim1   int
	Dim2   int
}

// ViewInfo is one step of a view transform chain. The type tag and the
// payload fields are established together at construction and never change
// afterwards; constructing a ViewInfo through a constructor whose required
// variant does not match the tag is a contract violation and panics.
type ViewInfo struct {
	viewType    ViewType
	shape       tensor.Shape // shape after the transform
	sourceShape tensor.Shape // shape before the transform
	indices     []int        // narrow: per-dimension start offsets
	permutation []int
	squeezeDim  int
	sel         *SelectInfo
	asStrided   *AsStridedInfo
	diagonal    *DiagonalInfo
}

// NewViewInfo constructs a no-op, reshape, resize or narrow step from the
// result and source shapes. Narrow steps start with zero offsets; use
// NewNarrowViewInfo for explicit offsets.
func NewViewInfo(viewType ViewType, shape, sourceShape tensor.Shape) ViewInfo {
	switch viewType {
	case ViewNoOp, ViewReshape, ViewResize, ViewNarrow:
	default:
		panic(fmt.Sprintf("view info: constructor for no_op/reshape/resize/narrow called with %s", viewType))
	}
	return ViewInfo{
		viewType:    viewType,
		shape:       shape.Clone(),
		sourceShape: sourceShape.Clone(),
		indices:     make([]int, len(sourceShape)),
	}
}

// NewNarrowViewInfo constructs a narrow step selecting the window of the
// given shape starting at the per-dimension offsets.
func NewNarrowViewInfo(viewType ViewType, shape, sourceShape tensor.Shape, starts []int) ViewInfo {
	if viewType != ViewNarrow {
		panic(fmt.Sprintf("view info: narrow constructor called with %s", viewType))
	}
	if len(starts) != len(sourceShape) {
		panic(fmt.Sprintf("view info: %d narrow offsets for rank %d", len(starts), len(sourceShape)))
	}
	info := NewViewInfo(ViewNarrow, shape, sourceShape)
	copy(info.indices, starts)
	return info
}

// NewSqueezeViewInfo constructs a squeeze or unsqueeze step at the given
// axis.
func NewSqueezeViewInfo(viewType ViewType, shape, sourceShape tensor.Shape, dim int) ViewInfo {
	if viewType != ViewSqueeze && viewType != ViewUnsqueeze {
		panic(fmt.Sprintf("view info: squeeze constructor called with %s", viewType))
	}
	return ViewInfo{
		viewType:    viewType,
		shape:       shape.Clone(),
		sourceShape: sourceShape.Clone(),
		squeezeDim:  dim,
	}
}

// NewPermuteViewInfo constructs a permute step; the result shape is derived
// from the permutation.
func NewPermuteViewInfo(viewType ViewType, sourceShape tensor.Shape, permutation []int) ViewInfo {
	if viewType != ViewPermute {
		panic(fmt.Sprintf("view info: permute constructor called with %s", viewType))
	}
	return ViewInfo{
		viewType:    viewType,
		shape:       tensor.MakePermuteShape(sourceShape, permutation),
		sourceShape: sourceShape.Clone(),
		permutation: append([]int(nil), permutation...),
	}
}

// NewSelectViewInfo constructs a select step; the result shape is derived
// from the range.
func NewSelectViewInfo(viewType ViewType, sourceShape tensor.Shape, sel SelectInfo) ViewInfo {
	if viewType != ViewSelect {
		panic(fmt.Sprintf("view info: select constructor called with %s", viewType))
	}
	return ViewInfo{
		viewType:    viewType,
		shape:       tensor.MakeSelectShape(sourceShape, sel.Dim, sel.Start, sel.End, sel.Stride),
		sourceShape: sourceShape.Clone(),
		sel:         &sel,
	}
}

// NewAsStridedViewInfo constructs an as-strided step with an explicit
// result shape.
func NewAsStridedViewInfo(viewType ViewType, shape, sourceShape tensor.Shape, asStrided AsStridedInfo) ViewInfo {
	if viewType != ViewAsStrided {
		panic(fmt.Sprintf("view info: as_strided constructor called with %s", viewType))
	}
	return ViewInfo{
		viewType:    viewType,
		shape:       shape.Clone(),
		sourceShape: sourceShape.Clone(),
		asStrided:   &asStrided,
	}
}

// NewDiagonalViewInfo constructs a diagonal step; the result shape is
// derived from the payload.
func NewDiagonalViewInfo(viewType ViewType, sourceShape tensor.Shape, diagonal DiagonalInfo) ViewInfo {
	if viewType != ViewDiagonal {
		panic(fmt.Sprintf("view info: diagonal constructor called with %s", viewType))
	}
	return ViewInfo{
		viewType:    viewType,
		shape:       tensor.MakeDiagonalShape(sourceShape, diagonal.Offset, diagonal.Dim1, diagonal.Dim2),
		sourceShape: sourceShape.Clone(),
		diagonal:    &diagonal,
	}
}

// Type returns the variant tag.
func (v ViewInfo) Type() ViewType {
	return v.viewType
}

// Shape returns the shape after the transform.
func (v ViewInfo) Shape() tensor.Shape {
	return v.shape
}

// SourceShape returns the shape before the transform.
func (v ViewInfo) SourceShape() tensor.Shape {
	return v.sourceShape
}

// Equal compares two steps by value, payload included.
func (v ViewInfo) Equal(other ViewInfo) bool {
	if v.viewType != other.viewType ||
		!v.shape.Equal(other.shape) ||
		!v.sourceShape.Equal(other.sourceShape) ||
		!slices.Equal(v.indices, other.indices) ||
		!slices.Equal(v.permutation, other.permutation) ||
		v.squeezeDim != other.squeezeDim {
		return false
	}
	switch {
	case (v.sel == nil) != (other.sel == nil):
		return false
	case v.sel != nil && *v.sel != *other.sel:
		return false
	}
	switch {
	case (v.asStrided == nil) != (other.asStrided == nil):
		return false
	case v.asStrided != nil &&
		(!slices.Equal(v.asStrided.Stride, other.asStrided.Stride) ||
			v.asStrided.Offset != other.asStrided.Offset):
		return false
	}
	switch {
	case (v.diagonal == nil) != (other.diagonal == nil):
		return false
	case v.diagonal != nil && *v.diagonal != *other.diagonal:
		return false
	}
	return true
}

// chainsEqual compares two transform chains element-wise by value.
func chainsEqual(a, b []ViewInfo) bool {
	return slices.EqualFunc(a, b, ViewInfo.Equal)
}
