// Package ir provides the computation-graph value nodes consumed by the
// lazy view tracker. Nodes are opaque to their producers: an operation
// kind, operands, and a per-kind attribute payload. Node reuse
// (hash-consing) is the builder's concern, not the graph consumer's; the
// default builder allocates a fresh node per call.
package ir

import "github.com/lattice-ml/lattice/internal/tensor"

// OpKind names a graph operation.
type OpKind string

// Operation kinds produced by the lazy view tracker.
const (
	OpLeaf      OpKind = "lattice::leaf"
	OpSelect    OpKind = "lattice::select"
	OpNarrow    OpKind = "lattice::narrow"
	OpPermute   OpKind = "lattice::permute"
	OpReshape   OpKind = "lattice::view"
	OpResize    OpKind = "lattice::resize"
	OpSqueeze   OpKind = "lattice::squeeze"
	OpUnsqueeze OpKind = "lattice::unsqueeze"
	OpAsStrided OpKind = "lattice::as_strided"
	OpDiagonal  OpKind = "lattice::diagonal"

	OpSelectViewUpdate    OpKind = "lattice::select_view_update"
	OpNarrowViewUpdate    OpKind = "lattice::narrow_view_update"
	OpAsStridedViewUpdate OpKind = "lattice::as_strided_view_update"
	OpDiagonalViewUpdate  OpKind = "lattice::diagonal_view_update"
)

// Node is one graph operation: kind, operands, attribute payload.
type Node struct {
	op       OpKind
	operands []Value
	attr     any
}

// Value is a handle to a graph node. The zero Value is invalid.
type Value struct {
	node *Node
}

// Valid reports whether the value refers to a node.
func (v Value) Valid() bool {
	return v.node != nil
}

// Op returns the node's operation kind.
func (v Value) Op() OpKind {
	return v.node.op
}

// Operands returns the node's input values.
func (v Value) Operands() []Value {
	return v.node.operands
}

// Attr returns the node's attribute payload.
func (v Value) Attr() any {
	return v.node.attr
}

// Builder constructs graph values. Implementations may reuse an existing
// equal node instead of allocating.
type Builder interface {
	MakeNode(op OpKind, operands []Value, attr any) Value
}

// SimpleBuilder allocates a fresh node per call.
type SimpleBuilder struct{}

// NewBuilder returns the default node builder.
func NewBuilder() *SimpleBuilder {
	return &SimpleBuilder{}
}

// MakeNode implements Builder.
func (b *SimpleBuilder) MakeNode(op OpKind, operands []Value, attr any) Value {
	return Value{node: &Node{
		op:       op,
		operands: append([]Value(nil), operands...),
		attr:     attr,
	}}
}

// Leaf wraps a concrete tensor as a graph value.
func Leaf(b Builder, t *tensor.RawTensor) Value {
	return b.MakeNode(OpLeaf, nil, LeafAttr{Tensor: t})
}

// Attribute payloads, one per operation kind that needs one.

// LeafAttr carries a concrete tensor for a leaf value.
type LeafAttr struct {
	Tensor *tensor.RawTensor
}

// SelectAttr describes a strided range selection along one dimension; also
// used by the select write-back node.
type SelectAttr struct {
	Dim    int
	Start  int
	End    int
	Stride int
}

// NarrowAttr describes a multi-dimensional window; Sizes is empty for the
// write-back node, whose window size is the source operand's shape.
type NarrowAttr struct {
	Starts []int
	Sizes  tensor.Shape
}

// PermuteAttr describes a dimension reordering.
type PermuteAttr struct {
	Permutation []int
}

// ReshapeAttr describes a reshape or resize to the given sizes.
type ReshapeAttr struct {
	Sizes tensor.Shape
}

// SqueezeAttr describes a squeeze or unsqueeze at one axis.
type SqueezeAttr struct {
	Dim int
}

// AsStridedAttr describes an arbitrary strided window over storage; also
// used by the as-strided write-back node.
type AsStridedAttr struct {
	Sizes   tensor.Shape
	Strides []int
	Offset  int
}

// DiagonalAttr describes a diagonal across two dimensions; also used by
// the diagonal write-back node.
type DiagonalAttr struct {
	Offset int
	Dim1   int
	Dim2   int
}
