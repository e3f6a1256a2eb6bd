// Copyright 2025 The Lattice Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/lattice-ml/lattice/internal/backend/cpu"
)

// Backend represents the CPU backend implementation.
//
// All operations return fresh tensors; inputs are never mutated.
type Backend = internalcpu.Backend

// Reduction selects how a scattered source element combines with the
// destination element it lands on.
type Reduction = internalcpu.Reduction

// Supported reduction operators.
const (
	ReduceAssign   = internalcpu.ReduceAssign
	ReduceAdd      = internalcpu.ReduceAdd
	ReduceMultiply = internalcpu.ReduceMultiply
	ReduceMean     = internalcpu.ReduceMean
	ReduceMaximum  = internalcpu.ReduceMaximum
	ReduceMinimum  = internalcpu.ReduceMinimum
)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/lattice-ml/lattice/backend/cpu"
//	    "github.com/lattice-ml/lattice/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3})
//	    index, _ := tensor.FromSlice([]int64{0, 2, 1, 1, 0, 2}, tensor.Shape{2, 3})
//	    out := backend.Gather(x, 1, index)
//	    _ = out
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewSequential creates a CPU backend that never splits work across
// goroutines.
func NewSequential() *Backend {
	return internalcpu.NewSequential()
}
