package cpu

import (
	"fmt"

	"github.com/lattice-ml/lattice/internal/parallel"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// Reduction selects how a scattered source element combines with the
// destination element it lands on.
type Reduction int

// Supported reduction operators.
const (
	ReduceAssign Reduction = iota
	ReduceAdd
	ReduceMultiply
	ReduceMean
	ReduceMaximum
	ReduceMinimum
)

// String returns the reduction's conventional short name.
func (r Reduction) String() string {
	switch r {
	case ReduceAssign:
		return "assign"
	case ReduceAdd:
		return "add"
	case ReduceMultiply:
		return "multiply"
	case ReduceMean:
		return "mean"
	case ReduceMaximum:
		return "amax"
	case ReduceMinimum:
		return "amin"
	default:
		return "unknown"
	}
}

// reduceFunc combines one source element into one destination element.
type reduceFunc[T tensor.DType] func(dst *T, src T)

// reduceFor returns the reduction operator for numeric element types.
// Mean performs only the additive accumulation here; dividing by the
// per-destination count is a separate pass outside this engine.
func reduceFor[T tensor.Numeric](reduce Reduction, op string) reduceFunc[T] {
	switch reduce {
	case ReduceAssign:
		return func(dst *T, src T) { *dst = src }
	case ReduceAdd, ReduceMean:
		return func(dst *T, src T) { *dst += src }
	case ReduceMultiply:
		return func(dst *T, src T) { *dst *= src }
	case ReduceMaximum:
		return func(dst *T, src T) {
			if src > *dst {
				*dst = src
			}
		}
	case ReduceMinimum:
		return func(dst *T, src T) {
			if src < *dst {
				*dst = src
			}
		}
	default:
		panic(fmt.Sprintf("%s: unsupported reduction %s", op, reduce))
	}
}

// reduceForBool returns the reduction operator for bool element types.
// Multiply on bool is logical AND.
func reduceForBool(reduce Reduction, op string) reduceFunc[bool] {
	switch reduce {
	case ReduceAssign:
		return func(dst *bool, src bool) { *dst = src }
	case ReduceMultiply:
		return func(dst *bool, src bool) { *dst = *dst && src }
	default:
		panic(fmt.Sprintf("%s: unsupported reduction %s for bool tensors", op, reduce))
	}
}

// scalarTo converts a broadcast scalar to the kernel element type.
func scalarTo[T tensor.Numeric](v any, op string) T {
	switch s := v.(type) {
	case float32:
		return T(s)
	case float64:
		return T(s)
	case int:
		return T(s)
	case int32:
		return T(s)
	case int64:
		return T(s)
	case uint8:
		return T(s)
	default:
		panic(fmt.Sprintf("%s: unsupported scalar type %T", op, v))
	}
}

// sgArgs carries one scatter/gather call through dispatch into the kernel.
// For scatter-like calls self is the destination and the index values
// address self's target dimension; for gather they address src's.
type sgArgs struct {
	self, src, index *tensor.RawTensor
	dim              int
	scatterLike      bool
	upperBound       int
	op               string
}

// sgKernel is the type-specialized scatter/gather loop.
//
// The outer domain is the index shape with the target dimension squashed
// out; each outer element owns one sequential inner loop over the target
// dimension. When the target dimension is the last (fastest-varying) one,
// the inner loop runs innermost for cache locality. Otherwise the nest is
// inverted: target index outermost, chunk elements innermost, since target
// elements are then far apart in memory. Both orders produce identical
// results; the reductions are associative and commutative over index
// application order.
func sgKernel[T tensor.DType](b *Backend, a sgArgs, f reduceFunc[T], fill *T) {
	it := newDimIter(a.index.Shape(), a.dim)

	selfData := tensor.Data[T](a.self)
	selfStrides := a.self.Strides()
	selfDimStride := dimStride(a.self, a.dim)

	idxAt := indexReader(a.index)
	indexStrides := a.index.Strides()
	indexDimStride := dimStride(a.index, a.dim)
	indexDimSize := dimSize(a.index, a.dim)

	var srcData []T
	var srcStrides []int
	srcDimStride := 0
	if a.src != nil {
		srcData = tensor.Data[T](a.src)
		srcStrides = a.src.Strides()
		srcDimStride = dimStride(a.src, a.dim)
	}

	upper := int64(a.upperBound)
	body := func(elem, i int) {
		indexBase := it.offsetAt(elem, indexStrides)
		idx := idxAt(indexBase + i*indexDimStride)
		if idx < 0 || idx >= upper {
			panic(fmt.Sprintf("%s: index %d is out of bounds for dimension %d with size %d",
				a.op, idx, a.dim, a.upperBound))
		}
		selfPos, srcPos := int(idx), i
		if !a.scatterLike {
			selfPos, srcPos = i, int(idx)
		}
		dst := &selfData[it.offsetAt(elem, selfStrides)+selfPos*selfDimStride]
		if fill != nil {
			f(dst, *fill)
		} else {
			f(dst, srcData[it.offsetAt(elem, srcStrides)+srcPos*srcDimStride])
		}
	}

	// Grain shrinks with the inner-loop length so per-chunk work stays
	// balanced when the target dimension is long.
	grain := max(1, b.grain/indexDimSize)
	dimIsLast := a.dim == len(a.index.Shape())-1

	parallel.ForGrain(it.numOuter, grain, func(start, end int) {
		if dimIsLast {
			for elem := start; elem < end; elem++ {
				for i := 0; i < indexDimSize; i++ {
					body(elem, i)
				}
			}
		} else {
			for i := 0; i < indexDimSize; i++ {
				for elem := start; elem < end; elem++ {
					body(elem, i)
				}
			}
		}
	}, b.par)
}

// runScatterGather dispatches by destination element type.
func (b *Backend) runScatterGather(a sgArgs, reduce Reduction, fillValue any) {
	switch a.self.DType() {
	case tensor.Float32:
		runTyped[float32](b, a, reduce, fillValue)
	case tensor.Float64:
		runTyped[float64](b, a, reduce, fillValue)
	case tensor.Int32:
		runTyped[int32](b, a, reduce, fillValue)
	case tensor.Int64:
		runTyped[int64](b, a, reduce, fillValue)
	case tensor.Uint8:
		runTyped[uint8](b, a, reduce, fillValue)
	case tensor.Bool:
		f := reduceForBool(reduce, a.op)
		var fill *bool
		if fillValue != nil {
			v, ok := fillValue.(bool)
			if !ok {
				panic(fmt.Sprintf("%s: scalar %v is not a bool", a.op, fillValue))
			}
			fill = &v
		}
		sgKernel(b, a, f, fill)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", a.op, a.self.DType()))
	}
}

func runTyped[T tensor.Numeric](b *Backend, a sgArgs, reduce Reduction, fillValue any) {
	f := reduceFor[T](reduce, a.op)
	var fill *T
	if fillValue != nil {
		v := scalarTo[T](fillValue, a.op)
		fill = &v
	}
	sgKernel(b, a, f, fill)
}

// checkShapes validates the shared shape contract: index has the rank of
// self and matches it on every dimension except the target one; when a
// source tensor is present it must match the index shape exactly and share
// self's dtype.
func checkShapes(op string, self, index, src *tensor.RawTensor, dim int) {
	ndim := len(self.Shape())
	if len(index.Shape()) != ndim {
		panic(fmt.Sprintf("%s: index rank %d != input rank %d", op, len(index.Shape()), ndim))
	}
	for d := 0; d < ndim; d++ {
		if d != dim && index.Shape()[d] != self.Shape()[d] {
			panic(fmt.Sprintf("%s: index shape mismatch at dim %d: %d != %d",
				op, d, index.Shape()[d], self.Shape()[d]))
		}
	}
	if src != nil {
		if src.DType() != self.DType() {
			panic(fmt.Sprintf("%s: source dtype %s != destination dtype %s",
				op, src.DType(), self.DType()))
		}
		if !src.Shape().Equal(index.Shape()) {
			panic(fmt.Sprintf("%s: source shape %v != index shape %v",
				op, src.Shape(), index.Shape()))
		}
	}
}

// Gather selects elements along dim using the index tensor:
// out[p] = x[p with the dim coordinate replaced by index[p]].
// The result has the index tensor's shape. Panics if any index value falls
// outside [0, x.size(dim)).
func (b *Backend) Gather(x *tensor.RawTensor, dim int, index *tensor.RawTensor) *tensor.RawTensor {
	dim = x.Shape().NormalizeDim(dim)
	checkShapes("gather", x, index, nil, dim)

	result, err := tensor.NewRaw(index.Shape(), x.DType(), b.device)
	if err != nil {
		panic(fmt.Sprintf("gather: %v", err))
	}
	b.runScatterGather(sgArgs{
		self:        result,
		src:         x,
		index:       index,
		dim:         dim,
		scatterLike: false,
		upperBound:  dimSize(x, dim),
		op:          "gather",
	}, ReduceAssign, nil)
	return result
}

// Scatter writes src elements into a copy of x along dim:
// out[p with dim coordinate replaced by index[p]] = src[p].
// Later index occurrences overwrite earlier ones for duplicate targets.
// Panics if any index value falls outside [0, x.size(dim)).
func (b *Backend) Scatter(x *tensor.RawTensor, dim int, index, src *tensor.RawTensor) *tensor.RawTensor {
	return b.ScatterReduce(x, dim, index, src, ReduceAssign)
}

// ScatterFill is Scatter with a single broadcast scalar as the source.
func (b *Backend) ScatterFill(x *tensor.RawTensor, dim int, index *tensor.RawTensor, value any) *tensor.RawTensor {
	return b.ScatterScalarReduce(x, dim, index, value, ReduceAssign)
}

// ScatterAdd accumulates src elements into a copy of x along dim:
// out[p with dim coordinate replaced by index[p]] += src[p].
func (b *Backend) ScatterAdd(x *tensor.RawTensor, dim int, index, src *tensor.RawTensor) *tensor.RawTensor {
	return b.ScatterReduce(x, dim, index, src, ReduceAdd)
}

// ScatterReduce combines src elements into a copy of x along dim using the
// given reduction. Accepts assign, add and multiply; any other kind is a
// contract violation. Use ScatterReduceTwo for the extended operator set.
func (b *Backend) ScatterReduce(x *tensor.RawTensor, dim int, index, src *tensor.RawTensor, reduce Reduction) *tensor.RawTensor {
	switch reduce {
	case ReduceAssign, ReduceAdd, ReduceMultiply:
	default:
		panic(fmt.Sprintf("scatter_reduce: unsupported reduction %s", reduce))
	}
	return b.scatterInto(x, dim, index, src, nil, reduce, "scatter_"+reduce.String())
}

// ScatterScalarReduce combines a broadcast scalar into a copy of x along
// dim at the positions named by index. Accepts assign, add and multiply.
func (b *Backend) ScatterScalarReduce(x *tensor.RawTensor, dim int, index *tensor.RawTensor, value any, reduce Reduction) *tensor.RawTensor {
	switch reduce {
	case ReduceAssign, ReduceAdd, ReduceMultiply:
	default:
		panic(fmt.Sprintf("scatter_scalar_reduce: unsupported reduction %s", reduce))
	}
	return b.scatterInto(x, dim, index, nil, value, reduce, "scatter_scalar_"+reduce.String())
}

// ScatterReduceTwo combines src elements into a copy of x along dim with
// the full reduction set: add, multiply, amax, amin, mean. Mean performs
// the additive accumulation only; dividing by the contribution count is the
// caller's post-pass.
func (b *Backend) ScatterReduceTwo(x *tensor.RawTensor, dim int, index, src *tensor.RawTensor, reduce Reduction) *tensor.RawTensor {
	switch reduce {
	case ReduceAdd, ReduceMultiply, ReduceMaximum, ReduceMinimum, ReduceMean:
	default:
		panic(fmt.Sprintf("scatter_reduce_two: unsupported reduction %s", reduce))
	}
	return b.scatterInto(x, dim, index, src, nil, reduce, "scatter_reduce_"+reduce.String())
}

func (b *Backend) scatterInto(x *tensor.RawTensor, dim int, index, src *tensor.RawTensor, fillValue any, reduce Reduction, op string) *tensor.RawTensor {
	dim = x.Shape().NormalizeDim(dim)
	checkShapes(op, x, index, src, dim)

	out := x.Copy()
	b.runScatterGather(sgArgs{
		self:        out,
		src:         src,
		index:       index,
		dim:         dim,
		scatterLike: true,
		upperBound:  dimSize(out, dim),
		op:          op,
	}, reduce, fillValue)
	return out
}
