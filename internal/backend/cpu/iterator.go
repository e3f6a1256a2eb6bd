package cpu

import (
	"fmt"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// dimIter is the iteration plan for one scatter/gather call. The target
// dimension is squashed out of the outer domain (size fixed to 1, stride 0
// for offset purposes), so the outer domain enumerates every coordinate of
// the index shape except the target dimension. The inner loop over the
// target dimension is always sequential; parallel chunks partition outer
// coordinates only, which keeps all occurrences of one target index under a
// given outer coordinate inside a single chunk.
type dimIter struct {
	outerShape tensor.Shape // index shape with the target dimension set to 1
	dim        int
	numOuter   int
}

// newDimIter builds the squashed iteration plan over the index shape.
func newDimIter(indexShape tensor.Shape, dim int) dimIter {
	outer := indexShape.Clone()
	outer[dim] = 1
	return dimIter{
		outerShape: outer,
		dim:        dim,
		numOuter:   outer.NumElements(),
	}
}

// offsetAt computes the element offset of the flat outer coordinate within
// an operand described by the given strides. The target-dimension coordinate
// is always zero in the outer domain.
func (it dimIter) offsetAt(flat int, strides []int) int {
	offset := 0
	remaining := flat
	for d := len(it.outerShape) - 1; d >= 0; d-- {
		size := it.outerShape[d]
		coord := remaining % size
		remaining /= size
		offset += coord * strides[d]
	}
	return offset
}

// indexReader returns a closure reading index values at element offsets,
// widened to int64. Accepts int32 and int64 index tensors.
func indexReader(index *tensor.RawTensor) func(int) int64 {
	switch index.DType() {
	case tensor.Int32:
		data := index.AsInt32()
		return func(i int) int64 { return int64(data[i]) }
	case tensor.Int64:
		data := index.AsInt64()
		return func(i int) int64 { return data[i] }
	default:
		panic(fmt.Sprintf("index tensor must have dtype int32 or int64, got %s", index.DType()))
	}
}

// dimStride returns the operand's element stride along dim, treating
// missing or size-1 dimensions as stride 0 the way a squashed dimension is.
func dimStride(t *tensor.RawTensor, dim int) int {
	if dim >= len(t.Strides()) {
		return 0
	}
	return t.Strides()[dim]
}

// dimSize returns the operand's size along dim, defaulting to 1.
func dimSize(t *tensor.RawTensor, dim int) int {
	if dim >= len(t.Shape()) {
		return 1
	}
	return t.Shape()[dim]
}
