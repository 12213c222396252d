package tensor

import (
	"strings"
	"testing"
)

// stubBackend satisfies Backend without an Accelerator capability.
type stubBackend struct{}

func (stubBackend) Add(_, _ *RawTensor) *RawTensor              { panic("not implemented") }
func (stubBackend) MatMul(_, _ *RawTensor) *RawTensor           { panic("not implemented") }
func (stubBackend) Transpose(_ *RawTensor, _ ...int) *RawTensor { panic("not implemented") }
func (stubBackend) Name() string                                { return "stub" }
func (stubBackend) Device() Device                              { return CPU }

// Test helpers

func assertEqualShape(t *testing.T, expected, actual Shape, msg string) {
	t.Helper()
	if !expected.Equal(actual) {
		t.Errorf("%s: expected shape %v, got %v", msg, expected, actual)
	}
}

// DType Tests

func TestDataTypeSize(t *testing.T) {
	if Float32.Size() != 4 || Float64.Size() != 8 {
		t.Errorf("sizes = %d, %d; want 4, 8", Float32.Size(), Float64.Size())
	}
	if Float32.String() != "float32" || Float64.String() != "float64" {
		t.Errorf("names = %s, %s", Float32, Float64)
	}
}

// Shape Tests

func TestShapeValidation(t *testing.T) {
	for _, s := range []Shape{{}, {1}, {3, 4}, {2, 3, 4}} {
		if err := s.Validate(); err != nil {
			t.Errorf("Shape%v.Validate() failed: %v", s, err)
		}
	}

	for _, s := range []Shape{{0}, {3, 0}, {-1}, {3, -4}} {
		if err := s.Validate(); err == nil {
			t.Errorf("Shape%v.Validate() should fail but didn't", s)
		}
	}
}

func TestShapeRowsAndLast(t *testing.T) {
	tests := []struct {
		shape      Shape
		rows, last int
	}{
		{Shape{}, 1, 1},
		{Shape{7}, 1, 7},
		{Shape{4, 7}, 4, 7},
		{Shape{2, 3, 7}, 6, 7},
	}
	for _, tt := range tests {
		if tt.shape.Rows() != tt.rows || tt.shape.Last() != tt.last {
			t.Errorf("Shape%v: Rows=%d Last=%d, want %d %d", tt.shape, tt.shape.Rows(), tt.shape.Last(), tt.rows, tt.last)
		}
	}
}

func TestComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Fatalf("strides = %v, want %v", strides, want)
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		a, b      Shape
		want      Shape
		broadcast bool
		wantErr   bool
	}{
		{Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false, false},
		{Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true, false},
		{Shape{4, 5}, Shape{5}, Shape{4, 5}, true, false},
		{Shape{2, 4, 5}, Shape{5}, Shape{2, 4, 5}, true, false},
		{Shape{3, 4}, Shape{3, 5}, nil, false, true},
	}

	for _, tt := range tests {
		got, broadcast, err := BroadcastShapes(tt.a, tt.b)
		if tt.wantErr {
			if err == nil {
				t.Errorf("BroadcastShapes(%v, %v) should fail", tt.a, tt.b)
			}
			continue
		}
		if err != nil {
			t.Errorf("BroadcastShapes(%v, %v) failed: %v", tt.a, tt.b, err)
			continue
		}
		assertEqualShape(t, tt.want, got, "BroadcastShapes")
		if broadcast != tt.broadcast {
			t.Errorf("BroadcastShapes(%v, %v) broadcast = %v, want %v", tt.a, tt.b, broadcast, tt.broadcast)
		}
	}
}

// Tensor Tests

func TestFromSlice(t *testing.T) {
	x, err := FromSlice([]float32{1, 2, 3, 4, 5, 6}, Shape{2, 3}, stubBackend{})
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	assertEqualShape(t, Shape{2, 3}, x.Shape(), "FromSlice")
	if x.At(1, 2) != 6 {
		t.Errorf("At(1, 2) = %v, want 6", x.At(1, 2))
	}

	if _, err := FromSlice([]float32{1, 2}, Shape{2, 3}, stubBackend{}); err == nil {
		t.Error("FromSlice with wrong element count should fail")
	}
}

func TestTensorSet(t *testing.T) {
	x := Zeros[float64](Shape{2, 2}, stubBackend{})
	x.Set(3.5, 0, 1)
	if x.Data()[1] != 3.5 {
		t.Errorf("Set(3.5, 0, 1) wrote %v", x.Data())
	}
}

func TestFull(t *testing.T) {
	x := Full[float32](Shape{3}, 2.5, stubBackend{})
	for i, v := range x.Data() {
		if v != 2.5 {
			t.Errorf("Full[%d] = %v, want 2.5", i, v)
		}
	}
}

func TestTensorAtOutOfBoundsPanics(t *testing.T) {
	x := Zeros[float32](Shape{2, 2}, stubBackend{})

	defer func() {
		if recover() == nil {
			t.Error("At(2, 0) should panic")
		}
	}()
	_ = x.At(2, 0)
}

func TestTensorAtOnBlockedPanics(t *testing.T) {
	raw, _ := NewBlockedRaw(Shape{2, 2}, Float32, CPU, 4)
	x := New[float32](raw, stubBackend{})

	defer func() {
		r := recover()
		if r == nil || !strings.Contains(r.(string), "blocked") {
			t.Errorf("At on blocked tensor panic = %v, want layout error", r)
		}
	}()
	_ = x.At(0, 0)
}

func TestTensorCloneSharesStorage(t *testing.T) {
	x := Zeros[float32](Shape{4}, stubBackend{})
	y := x.Clone()

	if !x.SharesStorage(y) {
		t.Fatal("Clone() should share storage")
	}
	y.Data()[0] = 9
	if x.Data()[0] != 9 {
		t.Error("write through clone should be visible")
	}
	y.Release()
	if !x.Raw().IsUnique() {
		t.Error("Release() should drop the clone's reference")
	}
}

func TestLayoutConversionWithoutAcceleratorPanics(t *testing.T) {
	x := Zeros[float32](Shape{2, 2}, stubBackend{})

	defer func() {
		r := recover()
		if r == nil || !strings.Contains(r.(string), "no accelerated layout support") {
			t.Errorf("ToAccelerated panic = %v, want capability error", r)
		}
	}()
	_ = x.ToAccelerated()
}

func TestToDenseOnDenseSharesStorage(t *testing.T) {
	x := Zeros[float32](Shape{2, 2}, stubBackend{})
	y := x.ToDense()
	if !x.SharesStorage(y) || y.Layout() != Dense {
		t.Error("ToDense on a dense tensor should return a handle on the same storage")
	}
}
