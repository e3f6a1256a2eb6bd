package tensor

import "testing"

func TestNewRawZeroed(t *testing.T) {
	raw, err := NewRaw(Shape{2, 3}, Float32, CPU)
	if err != nil {
		t.Fatalf("NewRaw failed: %v", err)
	}
	if !raw.IsContiguous() {
		t.Error("fresh tensor not contiguous")
	}
	for i, v := range raw.AsFloat32()[:raw.NumElements()] {
		if v != 0 {
			t.Fatalf("element %d = %v, want 0", i, v)
		}
	}
}

func TestNewRawInvalidShape(t *testing.T) {
	if _, err := NewRaw(Shape{2, 0}, Float32, CPU); err == nil {
		t.Error("invalid shape accepted")
	}
}

func TestFromSliceRoundTrip(t *testing.T) {
	data := []float32{1, 2, 3, 4, 5, 6}
	raw, err := FromSlice(data, Shape{2, 3})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	got := Data[float32](raw)
	for i, want := range data {
		if got[i] != want {
			t.Errorf("element %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestFromSliceLengthMismatch(t *testing.T) {
	if _, err := FromSlice([]float32{1, 2, 3}, Shape{2, 3}); err == nil {
		t.Error("length mismatch accepted")
	}
}

func TestFull(t *testing.T) {
	raw := Full[int64](Shape{4}, 7)
	for i, v := range raw.AsInt64()[:4] {
		if v != 7 {
			t.Errorf("element %d = %d, want 7", i, v)
		}
	}
}

func TestDataDTypeMismatchPanics(t *testing.T) {
	raw := Zeros[float32](Shape{2})
	assertPanics(t, "float64 access of float32 tensor", func() { raw.AsFloat64() })
}

func TestAsStridedViewTranspose(t *testing.T) {
	x, err := FromSlice([]float32{0, 1, 2, 3, 4, 5}, Shape{2, 3})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}

	view, err := x.AsStridedView(Shape{3, 2}, []int{1, 3}, 0)
	if err != nil {
		t.Fatalf("AsStridedView failed: %v", err)
	}
	if view.IsContiguous() {
		t.Error("transposed view reported contiguous")
	}
	if !view.SharesBufferWith(x) {
		t.Error("view does not share the buffer")
	}

	got := Data[float32](view.Copy())
	want := []float32{0, 3, 1, 4, 2, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transposed copy = %v, want %v", got[:len(want)], want)
		}
	}
}

func TestAsStridedViewBounds(t *testing.T) {
	x := Zeros[float32](Shape{2, 3})
	if _, err := x.AsStridedView(Shape{7}, []int{1}, 0); err == nil {
		t.Error("view past buffer end accepted")
	}
	if _, err := x.AsStridedView(Shape{2}, []int{1}, -1); err == nil {
		t.Error("negative offset accepted")
	}
	if _, err := x.AsStridedView(Shape{2}, []int{-1}, 3); err == nil {
		t.Error("negative stride accepted")
	}
	if _, err := x.AsStridedView(Shape{2, 2}, []int{1}, 0); err == nil {
		t.Error("size/stride rank mismatch accepted")
	}
}

func TestAsStridedViewOffsetWindow(t *testing.T) {
	x, err := FromSlice([]int32{0, 1, 2, 3, 4, 5}, Shape{6})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	view, err := x.AsStridedView(Shape{2}, []int{2}, 1)
	if err != nil {
		t.Fatalf("AsStridedView failed: %v", err)
	}
	got := Data[int32](view.Copy())
	if got[0] != 1 || got[1] != 3 {
		t.Errorf("window = [%d %d], want [1 3]", got[0], got[1])
	}
}

func TestCloneSharesBuffer(t *testing.T) {
	x := Zeros[float32](Shape{4})
	clone := x.Clone()
	if !clone.SharesBufferWith(x) {
		t.Error("clone does not share the buffer")
	}
	x.AsFloat32()[0] = 42
	if clone.AsFloat32()[0] != 42 {
		t.Error("write through original not visible in clone")
	}
}

func TestCopyIndependent(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3, 4}, Shape{4})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	cp := x.Copy()
	if cp.SharesBufferWith(x) {
		t.Error("copy shares the buffer")
	}
	x.AsFloat32()[0] = 99
	if cp.AsFloat32()[0] != 1 {
		t.Error("copy observed write through original")
	}
}

func TestIsContiguous(t *testing.T) {
	x := Zeros[float32](Shape{2, 3})
	if !x.IsContiguous() {
		t.Error("fresh tensor not contiguous")
	}
	view, err := x.AsStridedView(Shape{2}, []int{3}, 0)
	if err != nil {
		t.Fatalf("AsStridedView failed: %v", err)
	}
	if view.IsContiguous() {
		t.Error("column view reported contiguous")
	}
	// Size-1 dimensions do not break contiguity regardless of stride.
	one, err := x.AsStridedView(Shape{1, 3}, []int{100, 1}, 0)
	if err != nil {
		t.Fatalf("AsStridedView failed: %v", err)
	}
	if !one.IsContiguous() {
		t.Error("size-1 stride broke contiguity")
	}
}
