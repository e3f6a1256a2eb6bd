// Package sparse validates compressed sparse-matrix tensor arguments
// (CSR/CSC layouts, optionally batched). It is a data-format gatekeeper on
// top of the core tensor types, not part of the numeric engine.
package sparse

import (
	"fmt"

	"github.com/lattice-ml/lattice/internal/tensor"
)

// Layout identifies a compressed sparse format.
type Layout int

// Supported and recognized compressed layouts.
const (
	CSR Layout = iota
	CSC
	BSR
	BSC
)

// String returns the layout's short name.
func (l Layout) String() string {
	switch l {
	case CSR:
		return "CSR"
	case CSC:
		return "CSC"
	case BSR:
		return "BSR"
	case BSC:
		return "BSC"
	default:
		return "unknown"
	}
}

// compressedIndicesName returns the conventional name of the compressed
// index tensor for the layout.
func compressedIndicesName(l Layout) string {
	if l == CSC || l == BSC {
		return "ccol_indices"
	}
	return "crow_indices"
}

// plainIndicesName returns the conventional name of the plain index tensor
// for the layout.
func plainIndicesName(l Layout) string {
	if l == CSC || l == BSC {
		return "row_indices"
	}
	return "col_indices"
}

// indexAt reads an index tensor value at a flat position, widened to int64.
func indexAt(t *tensor.RawTensor, i int) int64 {
	if t.DType() == tensor.Int32 {
		return int64(t.AsInt32()[i])
	}
	return t.AsInt64()[i]
}

// ValidateCompressedArgs checks the structural invariants of a compressed
// sparse tensor's constituent tensors for the given layout and dense size.
// Batched inputs carry their batch dimensions as leading dimensions of all
// three tensors. A BSR/BSC layout is a rejected configuration, not a bug:
// it returns an "is not yet supported" error.
func ValidateCompressedArgs(compressed, plain, values *tensor.RawTensor, size tensor.Shape, layout Layout) error {
	cname := compressedIndicesName(layout)
	pname := plainIndicesName(layout)

	switch layout {
	case CSR, CSC:
	case BSR, BSC:
		return fmt.Errorf("validate sparse args: layout %s is not yet supported", layout)
	default:
		return fmt.Errorf("validate sparse args: layout %s is not supported", layout)
	}

	// Layout invariants.
	if !compressed.IsContiguous() {
		return fmt.Errorf("expected %s to be a contiguous tensor", cname)
	}
	if !plain.IsContiguous() {
		return fmt.Errorf("expected %s to be a contiguous tensor", pname)
	}
	if !values.IsContiguous() {
		return fmt.Errorf("expected values to be a contiguous tensor")
	}

	// Shape invariants.
	if len(size) < 2 {
		return fmt.Errorf("size of a %s tensor must have length >= 2, but got %d", layout, len(size))
	}
	cdim := len(compressed.Shape())
	pdim := len(plain.Shape())
	vdim := len(values.Shape())
	if cdim < 1 {
		return fmt.Errorf("%s must have dim >= 1 but got %d", cname, cdim)
	}
	if pdim < 1 {
		return fmt.Errorf("%s must have dim >= 1 but got %d", pname, pdim)
	}
	if vdim < 1 {
		return fmt.Errorf("values must have dim >= 1 but got %d", vdim)
	}
	if cdim != pdim {
		return fmt.Errorf("number of dimensions of %s and %s must be the same", cname, pname)
	}
	if cdim != vdim {
		return fmt.Errorf("number of dimensions of indices and values must be the same")
	}
	if cdim != len(size)-1 {
		return fmt.Errorf("number of dimensions of indices must be one less than the number of dimensions of the provided size")
	}

	// All batch sizes must agree with the provided size's batch prefix.
	batch := size[:len(size)-2]
	for d, want := range batch {
		if compressed.Shape()[d] != want || plain.Shape()[d] != want || values.Shape()[d] != want {
			return fmt.Errorf("all batch dimensions of the provided size (%v), %s (%v), %s (%v) and values (%v) must be the same",
				batch, cname, compressed.Shape()[:cdim-1], pname, plain.Shape()[:pdim-1], values.Shape()[:vdim-1])
		}
	}

	nRows := size[len(size)-2]
	nCols := size[len(size)-1]
	compressedLen := nRows
	plainBound := nCols
	if layout == CSC {
		compressedLen = nCols
		plainBound = nRows
	}
	if compressed.Shape()[cdim-1] != compressedLen+1 {
		return fmt.Errorf("%s.size(-1) must be equal to %d, but got %d",
			cname, compressedLen+1, compressed.Shape()[cdim-1])
	}
	if plain.NumElements() != values.NumElements() {
		return fmt.Errorf("%s and values must have the same number of elements, but got %d and %d",
			pname, plain.NumElements(), values.NumElements())
	}

	// Index dtype invariants.
	if compressed.DType() != plain.DType() {
		return fmt.Errorf("both %s and %s should have the same type", cname, pname)
	}
	if compressed.DType() != tensor.Int32 && compressed.DType() != tensor.Int64 {
		return fmt.Errorf("%s and %s must be an int32 or int64 type, but got %s",
			cname, pname, compressed.DType())
	}

	// Per-batch index invariants: first entry 0, last entry nnz,
	// monotone nondecreasing in between.
	nnz := plain.Shape()[pdim-1]
	batchCount := 1
	for _, b := range compressed.Shape()[:cdim-1] {
		batchCount *= b
	}
	batchStride := compressed.Shape()[cdim-1]
	for batchID := 0; batchID < batchCount; batchID++ {
		base := batchID * batchStride
		if first := indexAt(compressed, base); first != 0 {
			return fmt.Errorf("(batch element %d): 0th value of %s must be 0, but it is %d",
				batchID, cname, first)
		}
		if last := indexAt(compressed, base+batchStride-1); last != int64(nnz) {
			return fmt.Errorf("(batch element %d): last value of %s should be equal to the length of %s (%d), but it is %d",
				batchID, cname, pname, nnz, last)
		}
		for i := 1; i <= compressedLen; i++ {
			if indexAt(compressed, base+i-1) > indexAt(compressed, base+i) {
				return fmt.Errorf("(batch element %d): at position i = %d, the condition %s[i-1] <= %s[i] fails",
					batchID, i, cname, cname)
			}
		}
	}
	for i := 0; i < plain.NumElements(); i++ {
		if v := indexAt(plain, i); v < 0 || v >= int64(plainBound) {
			return fmt.Errorf("%s value %d out of range [0, %d)", pname, v, plainBound)
		}
	}

	return nil
}

// ValidateCSRArgs validates CSR constituent tensors.
func ValidateCSRArgs(crowIndices, colIndices, values *tensor.RawTensor, size tensor.Shape) error {
	return ValidateCompressedArgs(crowIndices, colIndices, values, size, CSR)
}

// ValidateCSCArgs validates CSC constituent tensors.
func ValidateCSCArgs(ccolIndices, rowIndices, values *tensor.RawTensor, size tensor.Shape) error {
	return ValidateCompressedArgs(ccolIndices, rowIndices, values, size, CSC)
}
