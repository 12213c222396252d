package tensor

import "fmt"

// Tensor is a generic tensor with type T and backend B.
// It provides type-safe operations over multi-dimensional arrays.
//
// Type Parameters:
//   - T: Data type (must satisfy DType constraint)
//   - B: Computation backend (must implement Backend interface)
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
//	result := t.Add(t)
type Tensor[T DType, B Backend] struct {
	raw     *RawTensor
	backend B
}

// New creates a Tensor from a RawTensor and backend.
// The Tensor takes over the caller's handle.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return &Tensor[T, B]{
		raw:     raw,
		backend: b,
	}
}

// FromSlice creates a dense tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}

	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		return nil, err
	}

	t := New[T, B](raw, b)
	copy(t.Data(), data)

	return t, nil
}

// Shape returns the tensor's shape.
func (t *Tensor[T, B]) Shape() Shape {
	return t.raw.Shape()
}

// DType returns the tensor's data type.
func (t *Tensor[T, B]) DType() DataType {
	return t.raw.DType()
}

// Device returns the tensor's compute device.
func (t *Tensor[T, B]) Device() Device {
	return t.raw.Device()
}

// Layout returns the tensor's memory layout.
func (t *Tensor[T, B]) Layout() Layout {
	return t.raw.Layout()
}

// IsAccelerated reports whether the tensor is in the Blocked layout.
func (t *Tensor[T, B]) IsAccelerated() bool {
	return t.raw.IsAccelerated()
}

// NumElements returns the total number of elements.
func (t *Tensor[T, B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
// Used by backend implementations for low-level operations.
func (t *Tensor[T, B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor[T, B]) Backend() B {
	return t.backend
}

// Data returns a typed slice view of the tensor's storage (zero-copy).
// For Blocked tensors this is storage order, padding included.
//
// WARNING: Modifications to the returned slice will modify the tensor and
// every other handle sharing its storage.
func (t *Tensor[T, B]) Data() []T {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return any(t.raw.AsFloat32()).([]T)
	case float64:
		return any(t.raw.AsFloat64()).([]T)
	default:
		panic("unsupported type")
	}
}

// At returns the element at the given indices of a Dense tensor.
// Panics if indices are out of bounds.
//
// Example:
//
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
//	value := t.At(1, 2) // Row 1, column 2
func (t *Tensor[T, B]) At(indices ...int) T {
	return t.Data()[t.offset("At", indices)]
}

// Set sets the element at the given indices of a Dense tensor.
// Panics if indices are out of bounds.
func (t *Tensor[T, B]) Set(value T, indices ...int) {
	t.Data()[t.offset("Set", indices)] = value
}

func (t *Tensor[T, B]) offset(op string, indices []int) int {
	if t.raw.Layout() != Dense {
		panic(fmt.Sprintf("%s: tensor is in %s layout, convert with ToDense first", op, t.raw.Layout()))
	}
	if len(indices) != len(t.Shape()) {
		panic(fmt.Sprintf("%s: expected %d indices, got %d", op, len(t.Shape()), len(indices)))
	}

	offset := 0
	strides := t.raw.Strides()
	for i, idx := range indices {
		if idx < 0 || idx >= t.Shape()[i] {
			panic(fmt.Sprintf("%s: index %d out of bounds for dimension %d (size %d)", op, idx, i, t.Shape()[i]))
		}
		offset += idx * strides[i]
	}
	return offset
}

// String returns a human-readable representation of the tensor.
func (t *Tensor[T, B]) String() string {
	return fmt.Sprintf("Tensor[%s]%v %s on %s", t.raw.DType(), t.raw.Shape(), t.raw.Layout(), t.raw.Device())
}

// Clone returns a new handle onto the same storage (reference counted, no
// data copy).
func (t *Tensor[T, B]) Clone() *Tensor[T, B] {
	return New[T, B](t.raw.Clone(), t.backend)
}

// Release drops this handle's reference on the storage.
func (t *Tensor[T, B]) Release() {
	t.raw.Release()
}

// SharesStorage reports whether t and other are handles onto the same buffer.
func (t *Tensor[T, B]) SharesStorage(other *Tensor[T, B]) bool {
	return other != nil && t.raw.SharesStorage(other.raw)
}
