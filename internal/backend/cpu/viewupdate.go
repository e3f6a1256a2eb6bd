package cpu

import (
	"fmt"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// The view-update kernels are the write-back inverses of the forward view
// transforms: each re-embeds an updated sub-tensor into a copy of the
// target at the window the forward transform selected, leaving every
// element outside the window untouched.

// copyStrided copies src into dst element by element through both views'
// strides. Shapes and dtypes must already agree.
func copyStrided(dst, src *tensor.RawTensor) {
	if !dst.Shape().Equal(src.Shape()) {
		panic(fmt.Sprintf("copy: shape mismatch %v vs %v", dst.Shape(), src.Shape()))
	}
	if dst.DType() != src.DType() {
		panic(fmt.Sprintf("copy: dtype mismatch %s vs %s", dst.DType(), src.DType()))
	}

	elemSize := dst.DType().Size()
	dstBytes := dst.Bytes()
	srcBytes := src.Bytes()
	shape := dst.Shape()
	n := dst.NumElements()

	coords := make([]int, len(shape))
	for flat := 0; flat < n; flat++ {
		dstOff, srcOff := 0, 0
		for d, c := range coords {
			dstOff += c * dst.Strides()[d]
			srcOff += c * src.Strides()[d]
		}
		copy(dstBytes[dstOff*elemSize:(dstOff+1)*elemSize],
			srcBytes[srcOff*elemSize:(srcOff+1)*elemSize])
		for d := len(coords) - 1; d >= 0; d-- {
			coords[d]++
			if coords[d] < shape[d] {
				break
			}
			coords[d] = 0
		}
	}
}

// writeBack copies source into the given aliasing window of out and returns
// out. The window must have been built over out's buffer.
func writeBack(out, window, source *tensor.RawTensor) *tensor.RawTensor {
	copyStrided(window, source)
	window.Release()
	return out
}

// SelectViewUpdate writes source into the strided range [start, end) along
// dim of a copy of target.
func (b *Backend) SelectViewUpdate(target, source *tensor.RawTensor, dim, start, end, stride int) *tensor.RawTensor {
	out := target.Copy()
	return writeBack(out, selectRangeView(out, dim, start, end, stride), source)
}

// NarrowViewUpdate writes source into the window of a copy of target that
// starts at the per-dimension offsets and has source's shape.
func (b *Backend) NarrowViewUpdate(target, source *tensor.RawTensor, starts []int) *tensor.RawTensor {
	out := target.Copy()
	return writeBack(out, narrowView(out, starts, source.Shape()), source)
}

// AsStridedViewUpdate writes source into the strided window of a copy of
// target addressed by strides and the absolute storage offset; the window
// has source's shape. sizes is the base shape and must match target.
func (b *Backend) AsStridedViewUpdate(target, source *tensor.RawTensor, sizes tensor.Shape, strides []int, offset int) *tensor.RawTensor {
	if !sizes.Equal(target.Shape()) {
		panic(fmt.Sprintf("as_strided_view_update: base shape %v != target shape %v",
			sizes, target.Shape()))
	}
	out := target.Copy()
	window, err := out.AsStridedView(source.Shape(), strides, offset)
	if err != nil {
		panic(fmt.Sprintf("as_strided_view_update: %v", err))
	}
	return writeBack(out, window, source)
}

// DiagonalViewUpdate writes source onto the (offset) diagonal across dim1
// and dim2 of a copy of target.
func (b *Backend) DiagonalViewUpdate(target, source *tensor.RawTensor, offset, dim1, dim2 int) *tensor.RawTensor {
	out := target.Copy()
	return writeBack(out, diagonalView(out, offset, dim1, dim2), source)
}
