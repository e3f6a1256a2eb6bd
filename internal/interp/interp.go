// Package interp evaluates lazy computation graphs to concrete tensors
// using the CPU view kernels. It is the executable meaning of the graphs
// the lazy view tracker builds; the tracker itself never depends on it.
package interp

import (
	"fmt"

	"github.com/lattice-ml/lattice/internal/backend/cpu"
	"github.com/lattice-ml/lattice/internal/ir"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// Evaluate computes the concrete tensor a graph value denotes.
// Graphs are trees in practice (the lazy tracker never shares interior
// nodes across one evaluation), so no memoization is performed.
func Evaluate(v ir.Value, b *cpu.Backend) *tensor.RawTensor {
	if !v.Valid() {
		panic("interp: invalid graph value")
	}

	operands := v.Operands()
	eval := func(i int) *tensor.RawTensor {
		return Evaluate(operands[i], b)
	}

	switch v.Op() {
	case ir.OpLeaf:
		return v.Attr().(ir.LeafAttr).Tensor
	case ir.OpSelect:
		a := v.Attr().(ir.SelectAttr)
		return b.SelectRange(eval(0), a.Dim, a.Start, a.End, a.Stride)
	case ir.OpNarrow:
		a := v.Attr().(ir.NarrowAttr)
		return b.Narrow(eval(0), a.Starts, a.Sizes)
	case ir.OpPermute:
		return b.Permute(eval(0), v.Attr().(ir.PermuteAttr).Permutation)
	case ir.OpReshape:
		return b.Reshape(eval(0), v.Attr().(ir.ReshapeAttr).Sizes)
	case ir.OpResize:
		return b.Resize(eval(0), v.Attr().(ir.ReshapeAttr).Sizes)
	case ir.OpSqueeze:
		return b.Squeeze(eval(0), v.Attr().(ir.SqueezeAttr).Dim)
	case ir.OpUnsqueeze:
		return b.Unsqueeze(eval(0), v.Attr().(ir.SqueezeAttr).Dim)
	case ir.OpAsStrided:
		a := v.Attr().(ir.AsStridedAttr)
		return b.AsStrided(eval(0), a.Sizes, a.Strides, a.Offset)
	case ir.OpDiagonal:
		a := v.Attr().(ir.DiagonalAttr)
		return b.Diagonal(eval(0), a.Offset, a.Dim1, a.Dim2)
	case ir.OpSelectViewUpdate:
		a := v.Attr().(ir.SelectAttr)
		return b.SelectViewUpdate(eval(0), eval(1), a.Dim, a.Start, a.End, a.Stride)
	case ir.OpNarrowViewUpdate:
		a := v.Attr().(ir.NarrowAttr)
		return b.NarrowViewUpdate(eval(0), eval(1), a.Starts)
	case ir.OpAsStridedViewUpdate:
		a := v.Attr().(ir.AsStridedAttr)
		return b.AsStridedViewUpdate(eval(0), eval(1), a.Sizes, a.Strides, a.Offset)
	case ir.OpDiagonalViewUpdate:
		a := v.Attr().(ir.DiagonalAttr)
		return b.DiagonalViewUpdate(eval(0), eval(1), a.Offset, a.Dim1, a.Dim2)
	default:
		panic(fmt.Sprintf("interp: unsupported operation %s", v.Op()))
	}
}
