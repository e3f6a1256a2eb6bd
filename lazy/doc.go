// Copyright 2025 The Lattice Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package lazy provides the public API for view and alias tracking over
// deferred tensor computations.
//
// An Alias stands for one physical tensor storage; Views are
// shape-transformed windows into it, described by chains of ViewInfo steps.
// Writing through a View records a pending update on the Alias; reading any
// View first folds the pending updates back into the root computation graph
// through each step's write-back inverse.
//
// Example:
//
//	b := lazy.NewIrBuilder()
//	alias := lazy.NewAlias(lazy.Leaf(b, root), b)
//	info := lazy.NewSelectViewInfo(lazy.ViewSelect, root.Shape(),
//	    lazy.SelectInfo{Dim: 0, Start: 0, End: 5, Stride: 1})
//	view := lazy.NewView(info.Shape(), alias, info)
//	view.Update(lazy.Leaf(b, replacement)) // deferred in-place write
//	node, _ := view.GetViewIrNode()        // replay graph for the view
package lazy
