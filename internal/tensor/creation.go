package tensor

import "fmt"

// FromSlice creates a contiguous tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType](data []T, shape Shape) (*RawTensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d",
			shape, shape.NumElements(), len(data))
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), CPU)
	if err != nil {
		return nil, err
	}
	copy(Data[T](raw), data)
	return raw, nil
}

// Zeros creates a zero-filled tensor of the given shape and element type.
func Zeros[T DType](shape Shape) *RawTensor {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), CPU)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return raw
}

// Full creates a tensor of the given shape with every element set to value.
func Full[T DType](shape Shape, value T) *RawTensor {
	raw := Zeros[T](shape)
	data := Data[T](raw)
	for i := 0; i < raw.NumElements(); i++ {
		data[i] = value
	}
	return raw
}

// Data returns a typed slice over the tensor's addressable memory,
// starting at the view's storage offset. Elements are located through the
// view's strides; for contiguous tensors the first NumElements entries are
// the tensor's values in row-major order.
//
// WARNING: Modifications to the returned slice will modify the tensor.
func Data[T DType](r *RawTensor) []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(r.AsFloat32()).([]T)
	case float64:
		return any(r.AsFloat64()).([]T)
	case int32:
		return any(r.AsInt32()).([]T)
	case int64:
		return any(r.AsInt64()).([]T)
	case uint8:
		return any(r.AsUint8()).([]T)
	case bool:
		return any(r.AsBool()).([]T)
	default:
		panic("unsupported type")
	}
}
