package lazy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lattice-ml/lattice/internal/backend/cpu"
	"github.com/lattice-ml/lattice/internal/interp"
	"github.com/lattice-ml/lattice/internal/ir"
	"github.com/lattice-ml/lattice/internal/lazy"
	"github.com/lattice-ml/lattice/internal/tensor"
)

func leaf(t *testing.T, b ir.Builder, data []float32, shape tensor.Shape) ir.Value {
	t.Helper()
	raw, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return ir.Leaf(b, raw)
}

func evaluate(v ir.Value) []float32 {
	out := interp.Evaluate(v, cpu.NewSequential())
	return tensor.Data[float32](out)[:out.NumElements()]
}

// rootContents syncs the alias through a pass-through view and evaluates the
// resulting root graph.
func rootContents(alias *lazy.Alias, shape tensor.Shape) []float32 {
	view := lazy.NewView(shape, alias, lazy.NewViewInfo(lazy.ViewNoOp, shape, shape))
	value, _ := view.GetViewIrNode()
	return evaluate(value)
}

func TestViewNodeCaching(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{2, 2}
	alias := lazy.NewAlias(leaf(t, b, []float32{1, 2, 3, 4}, shape), b)
	view := lazy.NewView(shape, alias, lazy.NewViewInfo(lazy.ViewNoOp, shape, shape))

	assert.False(t, view.IsUpToDate())

	first, changed := view.GetViewIrNode()
	assert.True(t, changed)
	assert.True(t, view.IsUpToDate())

	second, changed := view.GetViewIrNode()
	assert.False(t, changed)
	assert.Equal(t, first, second)
}

func TestUpdateAdvancesGenerationAndStalesViews(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{4}
	alias := lazy.NewAlias(leaf(t, b, make([]float32, 4), shape), b)
	view := lazy.NewView(shape, alias, lazy.NewViewInfo(lazy.ViewNoOp, shape, shape))

	view.GetViewIrNode()
	require.True(t, view.IsUpToDate())
	require.EqualValues(t, 0, alias.Generation())

	view.Update(leaf(t, b, []float32{1, 2, 3, 4}, shape))
	assert.EqualValues(t, 1, alias.Generation())
	assert.False(t, view.IsUpToDate())

	_, changed := view.GetViewIrNode()
	assert.True(t, changed)
	assert.True(t, view.IsUpToDate())
}

func TestConsecutiveUpdatesThroughSameViewCoalesce(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{4}
	alias := lazy.NewAlias(leaf(t, b, make([]float32, 4), shape), b)

	sel := lazy.NewSelectViewInfo(lazy.ViewSelect, shape, lazy.SelectInfo{Dim: 0, Start: 0, End: 2, Stride: 1})
	view := lazy.NewView(sel.Shape(), alias, sel)

	view.Update(leaf(t, b, []float32{5, 5}, tensor.Shape{2}))
	view.Update(leaf(t, b, []float32{6, 6}, tensor.Shape{2}))

	assert.Equal(t, 1, alias.PendingUpdates())
	assert.EqualValues(t, 2, alias.Generation())

	// Only the newest value survives coalescing.
	assert.Equal(t, []float32{6, 6, 0, 0}, rootContents(alias, shape))
	assert.Equal(t, 0, alias.PendingUpdates())
}

func TestDistinctChainsDoNotCoalesce(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{4}
	alias := lazy.NewAlias(leaf(t, b, make([]float32, 4), shape), b)

	front := lazy.NewSelectViewInfo(lazy.ViewSelect, shape, lazy.SelectInfo{Dim: 0, Start: 0, End: 2, Stride: 1})
	back := lazy.NewSelectViewInfo(lazy.ViewSelect, shape, lazy.SelectInfo{Dim: 0, Start: 1, End: 3, Stride: 1})

	lazy.NewView(front.Shape(), alias, front).Update(leaf(t, b, []float32{1, 1}, tensor.Shape{2}))
	lazy.NewView(back.Shape(), alias, back).Update(leaf(t, b, []float32{2, 2}, tensor.Shape{2}))

	assert.Equal(t, 2, alias.PendingUpdates())

	// Updates fold in insertion order: the overlap at index 1 keeps the
	// later write.
	assert.Equal(t, []float32{1, 2, 2, 0}, rootContents(alias, shape))
}

func TestSelectRowsUpdate(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{10, 3}

	data := make([]float32, 30)
	for i := range data {
		data[i] = float32(i)
	}
	alias := lazy.NewAlias(leaf(t, b, data, shape), b)

	sel := lazy.NewSelectViewInfo(lazy.ViewSelect, shape, lazy.SelectInfo{Dim: 0, Start: 0, End: 5, Stride: 1})
	view := lazy.NewView(sel.Shape(), alias, sel)
	require.True(t, sel.Shape().Equal(tensor.Shape{5, 3}))

	repl := make([]float32, 15)
	for i := range repl {
		repl[i] = 100
	}
	view.Update(leaf(t, b, repl, tensor.Shape{5, 3}))

	got := rootContents(alias, shape)
	for i := 0; i < 15; i++ {
		assert.EqualValues(t, 100, got[i], "replaced row element %d", i)
	}
	for i := 15; i < 30; i++ {
		assert.EqualValues(t, i, got[i], "untouched row element %d", i)
	}

	// The view itself now reads back the replacement.
	value, _ := view.GetViewIrNode()
	assert.Equal(t, repl, evaluate(value))
}

func TestDiagonalUpdate(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{4, 4}
	alias := lazy.NewAlias(leaf(t, b, make([]float32, 16), shape), b)

	diag := lazy.NewDiagonalViewInfo(lazy.ViewDiagonal, shape, lazy.DiagonalInfo{Offset: 0, Dim1: 0, Dim2: 1})
	view := lazy.NewView(diag.Shape(), alias, diag)

	view.Update(leaf(t, b, []float32{1, 1, 1, 1}, tensor.Shape{4}))

	assert.Equal(t, []float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}, rootContents(alias, shape))
}

func TestSubViewChainUpdate(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{4, 6}

	data := make([]float32, 24)
	for i := range data {
		data[i] = float32(i)
	}
	alias := lazy.NewAlias(leaf(t, b, data, shape), b)

	narrow := lazy.NewNarrowViewInfo(lazy.ViewNarrow, tensor.Shape{2, 6}, shape, []int{1, 0})
	rows := lazy.NewView(narrow.Shape(), alias, narrow)

	sel := lazy.NewSelectViewInfo(lazy.ViewSelect, tensor.Shape{2, 6}, lazy.SelectInfo{Dim: 1, Start: 0, End: 6, Stride: 2})
	cols := rows.CreateSubView(sel.Shape(), sel)
	require.True(t, cols.Shape().Equal(tensor.Shape{2, 3}))

	cols.Update(ir.Leaf(b, tensor.Full[float32](tensor.Shape{2, 3}, 7)))

	assert.Equal(t, []float32{
		0, 1, 2, 3, 4, 5,
		7, 7, 7, 9, 7, 11,
		7, 13, 7, 15, 7, 17,
		18, 19, 20, 21, 22, 23,
	}, rootContents(alias, shape))
}

func TestPermuteUpdateInverts(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{2, 3}
	alias := lazy.NewAlias(leaf(t, b, []float32{0, 1, 2, 3, 4, 5}, shape), b)

	perm := lazy.NewPermuteViewInfo(lazy.ViewPermute, shape, []int{1, 0})
	view := lazy.NewView(perm.Shape(), alias, perm)
	require.True(t, view.Shape().Equal(tensor.Shape{3, 2}))

	view.Update(leaf(t, b, []float32{10, 11, 12, 13, 14, 15}, tensor.Shape{3, 2}))

	assert.Equal(t, []float32{10, 12, 14, 11, 13, 15}, rootContents(alias, shape))
}

func TestSqueezeUpdateInverts(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{1, 3}
	alias := lazy.NewAlias(leaf(t, b, []float32{1, 2, 3}, shape), b)

	sq := lazy.NewSqueezeViewInfo(lazy.ViewSqueeze, tensor.Shape{3}, shape, 0)
	view := lazy.NewView(sq.Shape(), alias, sq)

	view.Update(leaf(t, b, []float32{7, 8, 9}, tensor.Shape{3}))

	assert.Equal(t, []float32{7, 8, 9}, rootContents(alias, shape))
}

func TestUnsqueezeUpdateInverts(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{3}
	alias := lazy.NewAlias(leaf(t, b, []float32{1, 2, 3}, shape), b)

	un := lazy.NewSqueezeViewInfo(lazy.ViewUnsqueeze, tensor.Shape{1, 3}, shape, 0)
	view := lazy.NewView(un.Shape(), alias, un)

	view.Update(leaf(t, b, []float32{7, 8, 9}, tensor.Shape{1, 3}))

	assert.Equal(t, []float32{7, 8, 9}, rootContents(alias, shape))
}

func TestReshapeUpdateInverts(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{2, 3}
	alias := lazy.NewAlias(leaf(t, b, make([]float32, 6), shape), b)

	re := lazy.NewViewInfo(lazy.ViewReshape, tensor.Shape{6}, shape)
	view := lazy.NewView(re.Shape(), alias, re)

	view.Update(leaf(t, b, []float32{10, 11, 12, 13, 14, 15}, tensor.Shape{6}))

	assert.Equal(t, []float32{10, 11, 12, 13, 14, 15}, rootContents(alias, shape))
}

func TestResizeUpdateReturnsToSourceShape(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{4}
	alias := lazy.NewAlias(leaf(t, b, []float32{1, 2, 3, 4}, shape), b)

	rz := lazy.NewViewInfo(lazy.ViewResize, tensor.Shape{2}, shape)
	view := lazy.NewView(rz.Shape(), alias, rz)

	view.Update(leaf(t, b, []float32{9, 9}, tensor.Shape{2}))

	// Growing back to the source shape zero-fills the dropped tail.
	assert.Equal(t, []float32{9, 9, 0, 0}, rootContents(alias, shape))
}

func TestAsStridedUpdate(t *testing.T) {
	b := ir.NewBuilder()
	shape := tensor.Shape{2, 2}
	alias := lazy.NewAlias(leaf(t, b, []float32{1, 2, 3, 4}, shape), b)

	diag := lazy.NewAsStridedViewInfo(lazy.ViewAsStrided, tensor.Shape{2}, shape,
		lazy.AsStridedInfo{Stride: []int{3}, Offset: 0})
	view := lazy.NewView(diag.Shape(), alias, diag)

	view.Update(leaf(t, b, []float32{9, 8}, tensor.Shape{2}))

	assert.Equal(t, []float32{9, 2, 3, 8}, rootContents(alias, shape))
}

func TestViewInfoConstructorMismatchPanics(t *testing.T) {
	shape := tensor.Shape{2, 2}
	assert.Panics(t, func() { lazy.NewViewInfo(lazy.ViewSelect, shape, shape) })
	assert.Panics(t, func() { lazy.NewSqueezeViewInfo(lazy.ViewPermute, shape, shape, 0) })
	assert.Panics(t, func() { lazy.NewNarrowViewInfo(lazy.ViewReshape, shape, shape, []int{0, 0}) })
	assert.Panics(t, func() {
		lazy.NewSelectViewInfo(lazy.ViewNarrow, shape, lazy.SelectInfo{Dim: 0, Start: 0, End: 2, Stride: 1})
	})
}

func TestViewInfoEqual(t *testing.T) {
	shape := tensor.Shape{4}
	a := lazy.NewSelectViewInfo(lazy.ViewSelect, shape, lazy.SelectInfo{Dim: 0, Start: 0, End: 2, Stride: 1})
	same := lazy.NewSelectViewInfo(lazy.ViewSelect, shape, lazy.SelectInfo{Dim: 0, Start: 0, End: 2, Stride: 1})
	other := lazy.NewSelectViewInfo(lazy.ViewSelect, shape, lazy.SelectInfo{Dim: 0, Start: 1, End: 3, Stride: 1})

	assert.True(t, a.Equal(same))
	assert.False(t, a.Equal(other))
	assert.False(t, a.Equal(lazy.NewViewInfo(lazy.ViewNoOp, shape, shape)))
}
