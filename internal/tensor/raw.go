package tensor

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// tensorBuffer is a reference-counted shared buffer. Multiple RawTensor
// views (slices, permutations, strided windows) may alias one buffer.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	mu       sync.Mutex // For safe deallocation
}

// newTensorBuffer creates a new reference-counted buffer with refCount = 1.
func newTensorBuffer(size int) *tensorBuffer {
	buf := &tensorBuffer{
		data: make([]byte, size),
	}
	buf.refCount.Store(1)
	return buf
}

// addRef increments the reference count (for view/clone operations).
func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and deallocates if it reaches 0.
func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.mu.Lock()
		defer tb.mu.Unlock()
		tb.data = nil
	}
}

// RawTensor is the low-level tensor representation: a strided N-dimensional
// window over a reference-counted byte buffer. The stride slice holds
// element (not byte) strides and the offset is an element offset into the
// buffer, so non-contiguous and overlapping views are first-class.
type RawTensor struct {
	buffer *tensorBuffer // Shared reference-counted buffer
	shape  Shape         // Tensor dimensions
	stride []int         // Memory strides in elements (row-major for fresh tensors)
	dtype  DataType      // Runtime type information
	device Device        // Compute device
	offset int           // Element offset into the buffer, for views
}

// NewRaw creates a new contiguous RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}

	numElements := shape.NumElements()
	byteSize := numElements * dtype.Size()

	return &RawTensor{
		buffer: newTensorBuffer(byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
		offset: 0,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's memory strides in elements.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// Offset returns the element offset of this view into the shared buffer.
func (r *RawTensor) Offset() int {
	return r.offset
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total number of elements addressed by the view.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// IsContiguous reports whether the view is laid out densely in row-major
// order starting at its offset.
func (r *RawTensor) IsContiguous() bool {
	expected := 1
	for i := len(r.shape) - 1; i >= 0; i-- {
		if r.shape[i] == 1 {
			continue
		}
		if r.stride[i] != expected {
			return false
		}
		expected *= r.shape[i]
	}
	return true
}

// bufferLen returns the number of elements addressable from the view's
// offset to the end of the underlying buffer.
func (r *RawTensor) bufferLen() int {
	return len(r.buffer.data)/r.dtype.Size() - r.offset
}

// AsStridedView returns a view over the same buffer with the given sizes,
// element strides, and element storage offset. The view shares (and pins)
// the underlying buffer. Fails if any addressable element would fall outside
// the buffer.
func (r *RawTensor) AsStridedView(shape Shape, stride []int, offset int) (*RawTensor, error) {
	if len(shape) != len(stride) {
		return nil, fmt.Errorf("as_strided: %d sizes but %d strides", len(shape), len(stride))
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("as_strided: %w", err)
	}
	maxIndex := offset
	for i, size := range shape {
		if stride[i] < 0 {
			return nil, fmt.Errorf("as_strided: negative stride %d at dimension %d", stride[i], i)
		}
		maxIndex += (size - 1) * stride[i]
	}
	if offset < 0 || maxIndex >= len(r.buffer.data)/r.dtype.Size() {
		return nil, fmt.Errorf("as_strided: view [offset %d, max index %d] exceeds buffer of %d elements",
			offset, maxIndex, len(r.buffer.data)/r.dtype.Size())
	}

	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  shape.Clone(),
		stride: append([]int(nil), stride...),
		dtype:  r.dtype,
		device: r.device,
		offset: offset,
	}, nil
}

// Clone creates a shallow copy of the RawTensor sharing the buffer via
// reference counting.
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
		offset: r.offset,
	}
}

// Copy creates a deep, contiguous copy of the view's elements.
func (r *RawTensor) Copy() *RawTensor {
	out, err := NewRaw(r.shape, r.dtype, r.device)
	if err != nil {
		panic(fmt.Sprintf("copy: %v", err))
	}

	elemSize := r.dtype.Size()
	if r.IsContiguous() {
		start := r.offset * elemSize
		copy(out.buffer.data, r.buffer.data[start:start+r.NumElements()*elemSize])
		return out
	}

	// Strided walk, element by element.
	n := r.NumElements()
	coords := make([]int, len(r.shape))
	for flat := 0; flat < n; flat++ {
		src := r.offset
		for d, c := range coords {
			src += c * r.stride[d]
		}
		copy(out.buffer.data[flat*elemSize:(flat+1)*elemSize],
			r.buffer.data[src*elemSize:(src+1)*elemSize])
		for d := len(coords) - 1; d >= 0; d-- {
			coords[d]++
			if coords[d] < r.shape[d] {
				break
			}
			coords[d] = 0
		}
	}
	return out
}

// Release decrements the buffer reference count and deallocates at zero.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// SharesBufferWith reports whether two tensors alias the same storage.
func (r *RawTensor) SharesBufferWith(other *RawTensor) bool {
	return r.buffer == other.buffer
}

// String returns a human-readable representation of the tensor.
func (r *RawTensor) String() string {
	return fmt.Sprintf("RawTensor[%s]%v on %s", r.dtype, r.shape, r.device)
}

// Bytes returns the raw addressable bytes starting at the view's offset.
// Elements are located through the view's strides, scaled by the element
// size.
func (r *RawTensor) Bytes() []byte {
	return r.buffer.data[r.offset*r.dtype.Size():]
}

// AsFloat32 interprets the addressable data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	data := r.buffer.data[r.offset*4:]
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.bufferLen())
}

// AsFloat64 interprets the addressable data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	data := r.buffer.data[r.offset*8:]
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.bufferLen())
}

// AsInt32 interprets the addressable data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("tensor dtype is %s, not int32", r.dtype))
	}
	data := r.buffer.data[r.offset*4:]
	return unsafe.Slice((*int32)(unsafe.Pointer(&data[0])), r.bufferLen())
}

// AsInt64 interprets the addressable data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 {
	if r.dtype != Int64 {
		panic(fmt.Sprintf("tensor dtype is %s, not int64", r.dtype))
	}
	data := r.buffer.data[r.offset*8:]
	return unsafe.Slice((*int64)(unsafe.Pointer(&data[0])), r.bufferLen())
}

// AsUint8 interprets the addressable data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 {
	if r.dtype != Uint8 {
		panic(fmt.Sprintf("tensor dtype is %s, not uint8", r.dtype))
	}
	return r.buffer.data[r.offset:]
}

// AsBool interprets the addressable data as []bool.
// Panics if the tensor's dtype is not Bool.
func (r *RawTensor) AsBool() []bool {
	if r.dtype != Bool {
		panic(fmt.Sprintf("tensor dtype is %s, not bool", r.dtype))
	}
	data := r.buffer.data[r.offset:]
	return unsafe.Slice((*bool)(unsafe.Pointer(&data[0])), r.bufferLen())
}
