// Copyright 2025 The Lattice Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/lattice-ml/lattice/internal/tensor"
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// DataType represents runtime type information for tensors.
type DataType = tensor.DataType

// Device represents the compute device for tensor operations.
type Device = tensor.Device

// DType is the constraint for supported tensor element types.
type DType = tensor.DType

// Numeric is the subset of DType supporting arithmetic reductions.
type Numeric = tensor.Numeric

// Supported data types.
const (
	Float32 = tensor.Float32
	Float64 = tensor.Float64
	Int32   = tensor.Int32
	Int64   = tensor.Int64
	Uint8   = tensor.Uint8
	Bool    = tensor.Bool
)

// Supported compute devices.
const (
	CPU = tensor.CPU
)

// FromSlice creates a contiguous CPU tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a zero-filled tensor of the given shape and element type.
func Zeros[T DType](shape Shape) *RawTensor {
	return tensor.Zeros[T](shape)
}

// Full creates a tensor of the given shape with every element set to value.
func Full[T DType](shape Shape, value T) *RawTensor {
	return tensor.Full(shape, value)
}

// Data returns a typed slice over the tensor's addressable memory.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func Data[T DType](r *RawTensor) []T {
	return tensor.Data[T](r)
}

// InversePermutation returns the permutation that undoes the given one.
func InversePermutation(permutation []int) []int {
	return tensor.InversePermutation(permutation)
}
