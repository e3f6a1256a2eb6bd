package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major element strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// NormalizeDim resolves negative dimension indexing (-1 = last dimension).
// Panics if dim is out of range for the shape's rank.
func (s Shape) NormalizeDim(dim int) int {
	ndim := len(s)
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("dimension %d out of range for %dD tensor", dim, ndim))
	}
	return dim
}

// MakeSelectShape computes the shape produced by selecting the half-open
// strided range [start, end) along dim.
func MakeSelectShape(source Shape, dim, start, end, stride int) Shape {
	dim = source.NormalizeDim(dim)
	if start < 0 || end > source[dim] || start > end {
		panic(fmt.Sprintf("select range [%d, %d) invalid for dimension %d with size %d",
			start, end, dim, source[dim]))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("select stride must be positive, got %d", stride))
	}
	out := source.Clone()
	out[dim] = (end - start + stride - 1) / stride
	return out
}

// MakePermuteShape computes the shape produced by reordering dimensions
// according to permutation.
func MakePermuteShape(source Shape, permutation []int) Shape {
	if len(permutation) != len(source) {
		panic(fmt.Sprintf("permutation length %d does not match rank %d",
			len(permutation), len(source)))
	}
	seen := make([]bool, len(source))
	out := make(Shape, len(source))
	for i, p := range permutation {
		if p < 0 || p >= len(source) || seen[p] {
			panic(fmt.Sprintf("invalid permutation %v for rank %d", permutation, len(source)))
		}
		seen[p] = true
		out[i] = source[p]
	}
	return out
}

// InversePermutation returns the permutation that undoes the given one.
func InversePermutation(permutation []int) []int {
	inverse := make([]int, len(permutation))
	for i, p := range permutation {
		inverse[p] = i
	}
	return inverse
}

// MakeDiagonalShape computes the shape of the diagonal of a tensor taken
// with the given offset across dimensions dim1 and dim2. The two source
// dimensions are removed and the diagonal length is appended as the last
// dimension, matching the usual diagonal-view convention.
func MakeDiagonalShape(source Shape, offset, dim1, dim2 int) Shape {
	dim1 = source.NormalizeDim(dim1)
	dim2 = source.NormalizeDim(dim2)
	if dim1 == dim2 {
		panic(fmt.Sprintf("diagonal dimensions must differ, got %d and %d", dim1, dim2))
	}
	var diagSize int
	if offset >= 0 {
		diagSize = min(source[dim1], source[dim2]-offset)
	} else {
		diagSize = min(source[dim1]+offset, source[dim2])
	}
	diagSize = max(diagSize, 0)

	out := make(Shape, 0, len(source)-1)
	for i, size := range source {
		if i != dim1 && i != dim2 {
			out = append(out, size)
		}
	}
	return append(out, diagSize)
}

// MakeSqueezeShape computes the shape with the size-1 dimension at dim removed.
func MakeSqueezeShape(source Shape, dim int) Shape {
	dim = source.NormalizeDim(dim)
	if source[dim] != 1 {
		panic(fmt.Sprintf("cannot squeeze dimension %d with size %d", dim, source[dim]))
	}
	out := make(Shape, 0, len(source)-1)
	for i, size := range source {
		if i != dim {
			out = append(out, size)
		}
	}
	return out
}

// MakeUnsqueezeShape computes the shape with a dimension of size 1 inserted
// at dim.
func MakeUnsqueezeShape(source Shape, dim int) Shape {
	ndim := len(source)
	if dim < 0 {
		dim += ndim + 1
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze dimension %d out of range for %dD tensor", dim, ndim))
	}
	out := make(Shape, 0, ndim+1)
	out = append(out, source[:dim]...)
	out = append(out, 1)
	return append(out, source[dim:]...)
}
