package cpu

import (
	"fmt"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// The forward view kernels materialize the result of one shape transform.
// Each builds a strided window over the input's buffer and compacts it, so
// the returned tensor never aliases the input.

// selectRangeView builds the aliasing window for a strided range
// [start, end) along dim.
func selectRangeView(x *tensor.RawTensor, dim, start, end, stride int) *tensor.RawTensor {
	dim = x.Shape().NormalizeDim(dim)
	outShape := tensor.MakeSelectShape(x.Shape(), dim, start, end, stride)

	strides := append([]int(nil), x.Strides()...)
	offset := x.Offset() + start*strides[dim]
	strides[dim] *= stride

	view, err := x.AsStridedView(outShape, strides, offset)
	if err != nil {
		panic(fmt.Sprintf("select: %v", err))
	}
	return view
}

// narrowView builds the aliasing window starting at the per-dimension
// offsets with the given sizes.
func narrowView(x *tensor.RawTensor, starts []int, sizes tensor.Shape) *tensor.RawTensor {
	shape := x.Shape()
	if len(starts) != len(shape) || len(sizes) != len(shape) {
		panic(fmt.Sprintf("narrow: got %d starts and %d sizes for rank %d",
			len(starts), len(sizes), len(shape)))
	}
	offset := x.Offset()
	for d, start := range starts {
		if start < 0 || start+sizes[d] > shape[d] {
			panic(fmt.Sprintf("narrow: range [%d, %d) invalid for dimension %d with size %d",
				start, start+sizes[d], d, shape[d]))
		}
		offset += start * x.Strides()[d]
	}
	view, err := x.AsStridedView(sizes, x.Strides(), offset)
	if err != nil {
		panic(fmt.Sprintf("narrow: %v", err))
	}
	return view
}

// permuteView reorders dimensions without moving data.
func permuteView(x *tensor.RawTensor, permutation []int) *tensor.RawTensor {
	outShape := tensor.MakePermuteShape(x.Shape(), permutation)
	strides := make([]int, len(permutation))
	for i, p := range permutation {
		strides[i] = x.Strides()[p]
	}
	view, err := x.AsStridedView(outShape, strides, x.Offset())
	if err != nil {
		panic(fmt.Sprintf("permute: %v", err))
	}
	return view
}

// diagonalView builds the aliasing window over the (offset) diagonal taken
// across dim1 and dim2. The diagonal becomes the last dimension.
func diagonalView(x *tensor.RawTensor, offset, dim1, dim2 int) *tensor.RawTensor {
	shape := x.Shape()
	dim1 = shape.NormalizeDim(dim1)
	dim2 = shape.NormalizeDim(dim2)
	outShape := tensor.MakeDiagonalShape(shape, offset, dim1, dim2)

	storage := x.Offset()
	if offset >= 0 {
		storage += offset * x.Strides()[dim2]
	} else {
		storage += -offset * x.Strides()[dim1]
	}

	strides := make([]int, 0, len(shape)-1)
	for d := range shape {
		if d != dim1 && d != dim2 {
			strides = append(strides, x.Strides()[d])
		}
	}
	strides = append(strides, x.Strides()[dim1]+x.Strides()[dim2])

	view, err := x.AsStridedView(outShape, strides, storage)
	if err != nil {
		panic(fmt.Sprintf("diagonal: %v", err))
	}
	return view
}

// squeezeView drops the size-1 dimension at dim.
func squeezeView(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	outShape := tensor.MakeSqueezeShape(x.Shape(), dim)
	dim = x.Shape().NormalizeDim(dim)
	strides := make([]int, 0, len(x.Shape())-1)
	for d := range x.Shape() {
		if d != dim {
			strides = append(strides, x.Strides()[d])
		}
	}
	view, err := x.AsStridedView(outShape, strides, x.Offset())
	if err != nil {
		panic(fmt.Sprintf("squeeze: %v", err))
	}
	return view
}

// unsqueezeView inserts a size-1 dimension at dim.
func unsqueezeView(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	outShape := tensor.MakeUnsqueezeShape(x.Shape(), dim)
	if dim < 0 {
		dim += len(x.Shape()) + 1
	}
	strides := make([]int, 0, len(x.Shape())+1)
	strides = append(strides, x.Strides()[:dim]...)
	strides = append(strides, 1)
	strides = append(strides, x.Strides()[dim:]...)
	view, err := x.AsStridedView(outShape, strides, x.Offset())
	if err != nil {
		panic(fmt.Sprintf("unsqueeze: %v", err))
	}
	return view
}

// SelectRange copies the strided range [start, end) along dim.
func (b *Backend) SelectRange(x *tensor.RawTensor, dim, start, end, stride int) *tensor.RawTensor {
	return selectRangeView(x, dim, start, end, stride).Copy()
}

// Narrow copies the window starting at the per-dimension offsets with the
// given sizes.
func (b *Backend) Narrow(x *tensor.RawTensor, starts []int, sizes tensor.Shape) *tensor.RawTensor {
	return narrowView(x, starts, sizes).Copy()
}

// Permute copies the tensor with dimensions reordered by permutation.
func (b *Backend) Permute(x *tensor.RawTensor, permutation []int) *tensor.RawTensor {
	return permuteView(x, permutation).Copy()
}

// Reshape copies the tensor's elements, row-major, into the new shape.
// Element counts must match.
func (b *Backend) Reshape(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if newShape.NumElements() != x.NumElements() {
		panic(fmt.Sprintf("reshape: cannot view %v as %v (%d vs %d elements)",
			x.Shape(), newShape, x.NumElements(), newShape.NumElements()))
	}
	out := x.Copy()
	reshaped, err := out.AsStridedView(newShape, newShape.ComputeStrides(), 0)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	out.Release()
	return reshaped
}

// Resize returns a tensor of the new shape, keeping the row-major element
// prefix shared between the old and new element counts and zero-filling any
// growth.
func (b *Backend) Resize(x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	out, err := tensor.NewRaw(newShape, x.DType(), b.device)
	if err != nil {
		panic(fmt.Sprintf("resize: %v", err))
	}
	compact := x.Copy()
	defer compact.Release()

	n := min(x.NumElements(), newShape.NumElements())
	elemSize := x.DType().Size()
	copy(out.Bytes()[:n*elemSize], compact.Bytes()[:n*elemSize])
	return out
}

// Squeeze copies the tensor with the size-1 dimension at dim removed.
func (b *Backend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return squeezeView(x, dim).Copy()
}

// Unsqueeze copies the tensor with a size-1 dimension inserted at dim.
func (b *Backend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return unsqueezeView(x, dim).Copy()
}

// AsStrided copies the window over x's storage described by sizes, element
// strides, and absolute storage offset.
func (b *Backend) AsStrided(x *tensor.RawTensor, sizes tensor.Shape, strides []int, offset int) *tensor.RawTensor {
	view, err := x.AsStridedView(sizes, strides, offset)
	if err != nil {
		panic(fmt.Sprintf("as_strided: %v", err))
	}
	return view.Copy()
}

// Diagonal copies the (offset) diagonal across dim1 and dim2; the diagonal
// becomes the last dimension of the result.
func (b *Backend) Diagonal(x *tensor.RawTensor, offset, dim1, dim2 int) *tensor.RawTensor {
	return diagonalView(x, offset, dim1, dim2).Copy()
}
