package lazy

import (
	"fmt"

	"github.com/lattice-ml/lattice/internal/ir"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// applyViewInfo focuses value down through one forward transform step,
// producing the graph node for the transformed view. Every variant of the
// closed set is enumerated; reaching the trailing panic means a variant
// was added without updating this match.
func applyViewInfo(b ir.Builder, value ir.Value, info ViewInfo) ir.Value {
	switch info.viewType {
	case ViewNoOp:
		return value
	case ViewSelect:
		return b.MakeNode(ir.OpSelect, []ir.Value{value}, ir.SelectAttr{
			Dim:    info.sel.Dim,
			Start:  info.sel.Start,
			End:    info.sel.End,
			Stride: info.sel.Stride,
		})
	case ViewNarrow:
		return b.MakeNode(ir.OpNarrow, []ir.Value{value}, ir.NarrowAttr{
			Starts: info.indices,
			Sizes:  info.shape,
		})
	case ViewPermute:
		return b.MakeNode(ir.OpPermute, []ir.Value{value}, ir.PermuteAttr{
			Permutation: info.permutation,
		})
	case ViewReshape:
		return b.MakeNode(ir.OpReshape, []ir.Value{value}, ir.ReshapeAttr{
			Sizes: info.shape,
		})
	case ViewResize:
		return b.MakeNode(ir.OpResize, []ir.Value{value}, ir.ReshapeAttr{
			Sizes: info.shape,
		})
	case ViewSqueeze:
		return b.MakeNode(ir.OpSqueeze, []ir.Value{value}, ir.SqueezeAttr{
			Dim: info.squeezeDim,
		})
	case ViewUnsqueeze:
		return b.MakeNode(ir.OpUnsqueeze, []ir.Value{value}, ir.SqueezeAttr{
			Dim: info.squeezeDim,
		})
	case ViewAsStrided:
		return b.MakeNode(ir.OpAsStrided, []ir.Value{value}, ir.AsStridedAttr{
			Sizes:   info.shape,
			Strides: info.asStrided.Stride,
			Offset:  info.asStrided.Offset,
		})
	case ViewDiagonal:
		return b.MakeNode(ir.OpDiagonal, []ir.Value{value}, ir.DiagonalAttr{
			Offset: info.diagonal.Offset,
			Dim1:   info.diagonal.Dim1,
			Dim2:   info.diagonal.Dim2,
		})
	}
	panic(fmt.Sprintf("invalid view type: %d", info.viewType))
}

// applyUpdate folds one pending update back to root shape. The root is
// first focused forward through the update's chain, collecting the
// intermediate value at every step; then, walking the chain in reverse,
// each step's write-back inverse re-embeds the most recent result into the
// matching intermediate, producing a value of the previous step's shape.
func applyUpdate(b ir.Builder, root ir.Value, update updateData) ir.Value {
	tmp := make([]ir.Value, 0, len(update.viewInfos)+1)
	tmp = append(tmp, root)
	for _, info := range update.viewInfos {
		tmp = append(tmp, applyViewInfo(b, tmp[len(tmp)-1], info))
	}

	result := update.value
	for i := len(update.viewInfos); i > 0; i-- {
		info := update.viewInfos[i-1]
		switch info.viewType {
		case ViewNoOp:
		case ViewSelect:
			result = b.MakeNode(ir.OpSelectViewUpdate, []ir.Value{tmp[i-1], result}, ir.SelectAttr{
				Dim:    info.sel.Dim,
				Start:  info.sel.Start,
				End:    info.sel.End,
				Stride: info.sel.Stride,
			})
		case ViewNarrow:
			result = b.MakeNode(ir.OpNarrowViewUpdate, []ir.Value{tmp[i-1], result}, ir.NarrowAttr{
				Starts: info.indices,
			})
		case ViewPermute:
			result = b.MakeNode(ir.OpPermute, []ir.Value{result}, ir.PermuteAttr{
				Permutation: tensor.InversePermutation(info.permutation),
			})
		case ViewReshape:
			result = b.MakeNode(ir.OpReshape, []ir.Value{result}, ir.ReshapeAttr{
				Sizes: info.sourceShape,
			})
		case ViewResize:
			result = b.MakeNode(ir.OpResize, []ir.Value{result}, ir.ReshapeAttr{
				Sizes: info.sourceShape,
			})
		case ViewSqueeze:
			result = b.MakeNode(ir.OpUnsqueeze, []ir.Value{result}, ir.SqueezeAttr{
				Dim: info.squeezeDim,
			})
		case ViewUnsqueeze:
			result = b.MakeNode(ir.OpSqueeze, []ir.Value{result}, ir.SqueezeAttr{
				Dim: info.squeezeDim,
			})
		case ViewAsStrided:
			result = b.MakeNode(ir.OpAsStridedViewUpdate, []ir.Value{tmp[i-1], result}, ir.AsStridedAttr{
				Sizes:   info.sourceShape,
				Strides: info.asStrided.Stride,
				Offset:  info.asStrided.Offset,
			})
		case ViewDiagonal:
			result = b.MakeNode(ir.OpDiagonalViewUpdate, []ir.Value{tmp[i-1], result}, ir.DiagonalAttr{
				Offset: info.diagonal.Offset,
				Dim1:   info.diagonal.Dim1,
				Dim2:   info.diagonal.Dim2,
			})
		default:
			panic(fmt.Sprintf("invalid view type: %d", info.viewType))
		}
	}
	return result
}
