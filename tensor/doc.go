// Copyright 2025 The Lattice Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor storage in Lattice.
//
// The package defines the core types shared by every backend:
//   - RawTensor: strided N-dimensional window over reference-counted storage
//   - Shape, DataType, Device: core type definitions
//   - FromSlice, Zeros, Full: constructors for concrete CPU tensors
//
// Example:
//
//	x, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	data := x.AsFloat32() // Type-safe access
package tensor
