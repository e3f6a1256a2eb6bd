// Copyright 2025 The Lattice Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the CPU compute backend for Lattice.
//
// The backend implements the strided scatter/gather engine, the view
// transform kernels, and their write-back inverses, all in pure Go with
// fork-join parallelism over large inputs.
package cpu
