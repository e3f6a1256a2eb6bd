// Copyright 2025 The Lattice Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/lattice-ml/lattice/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape, stride and type information via Shape(), Strides(), DType()
//   - Type-safe data access via AsFloat32(), AsInt64(), etc.
//   - Aliasing views via AsStridedView() and Clone()
//   - Reference counting for efficient memory management
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32()  // Type-safe access
//	view, _ := raw.AsStridedView(tensor.Shape{3}, []int{1}, 3)  // Second row
type RawTensor = tensor.RawTensor

// NewRaw creates a new contiguous RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}
