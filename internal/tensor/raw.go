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
	CUDA
	Vulkan
	Metal
	WebGPU
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	case CUDA:
		return "CUDA"
	case Vulkan:
		return "Vulkan"
	case Metal:
		return "Metal"
	case WebGPU:
		return "WebGPU"
	default:
		return "Unknown"
	}
}

// tensorBuffer is a reference-counted buffer shared by every handle onto the
// same storage. A parameter store and the layers built from it hold separate
// handles on one buffer.
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

func (tb *tensorBuffer) isUnique() bool {
	return tb.refCount.Load() == 1
}

// RawTensor is the low-level, untyped tensor handle.
//
// Several RawTensors may share one buffer (see Clone). Writes through any of
// them are visible to all, which is how externally updated parameters reach
// the layers that use them.
type RawTensor struct {
	buffer *tensorBuffer // Shared reference-counted buffer
	shape  Shape         // Logical dimensions
	stride []int         // Row-major strides of the logical shape
	dtype  DataType      // Runtime type information
	device Device        // Compute device
	layout Layout        // Memory layout of buffer
	block  int           // Block width, Blocked layout only
}

// NewRaw creates a new dense RawTensor with the given shape and type.
// Memory is zero-initialized.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	return &RawTensor{
		buffer: newTensorBuffer(shape.NumElements() * dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
		layout: Dense,
	}, nil
}

// NewBlockedRaw creates a zeroed RawTensor in the Blocked layout.
// The shape must have at least one dimension.
func NewBlockedRaw(shape Shape, dtype DataType, device Device, blockWidth int) (*RawTensor, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: blocked layout needs at least one dimension", ErrInvalidShape)
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if blockWidth <= 0 {
		return nil, fmt.Errorf("invalid block width %d", blockWidth)
	}

	stored := shape.Rows() * NumPanels(shape.Last(), blockWidth) * blockWidth

	return &RawTensor{
		buffer: newTensorBuffer(stored * dtype.Size()),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
		layout: Blocked,
		block:  blockWidth,
	}, nil
}

// Shape returns the tensor's logical shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the row-major strides of the logical shape.
// They describe storage only for Dense tensors.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the tensor's compute device.
func (r *RawTensor) Device() Device {
	return r.device
}

// Layout returns the memory layout of the tensor's storage.
func (r *RawTensor) Layout() Layout {
	return r.layout
}

// IsAccelerated reports whether the tensor is stored in the Blocked layout.
func (r *RawTensor) IsAccelerated() bool {
	return r.layout == Blocked
}

// BlockWidth returns the panel width of a Blocked tensor, 0 for Dense.
func (r *RawTensor) BlockWidth() int {
	return r.block
}

// NumElements returns the number of logical elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// StoredElements returns the number of elements held in storage, which
// includes panel padding for Blocked tensors.
func (r *RawTensor) StoredElements() int {
	if r.layout == Blocked {
		return r.shape.Rows() * NumPanels(r.shape.Last(), r.block) * r.block
	}
	return r.NumElements()
}

// ByteSize returns the storage size in bytes.
func (r *RawTensor) ByteSize() int {
	return r.StoredElements() * r.dtype.Size()
}

// Data returns the raw byte slice.
// WARNING: Direct access to underlying memory. Use with caution.
func (r *RawTensor) Data() []byte {
	return r.buffer.data
}

// AsFloat32 interprets the storage as []float32.
// For Blocked tensors the slice is in storage order, padding included.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	data := r.buffer.data
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by StoredElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&data[0])), r.StoredElements())
}

// AsFloat64 interprets the storage as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("tensor dtype is %s, not float64", r.dtype))
	}
	data := r.buffer.data
	//nolint:gosec // unsafe.Slice for zero-copy performance, bounds checked by StoredElements()
	return unsafe.Slice((*float64)(unsafe.Pointer(&data[0])), r.StoredElements())
}

// Clone returns a new handle onto the same storage and bumps the reference
// count. No data is copied.
func (r *RawTensor) Clone() *RawTensor {
	r.buffer.addRef()
	return &RawTensor{
		buffer: r.buffer,
		shape:  r.shape.Clone(),
		stride: append([]int(nil), r.stride...),
		dtype:  r.dtype,
		device: r.device,
		layout: r.layout,
		block:  r.block,
	}
}

// Release drops this handle's reference. The buffer is freed when the last
// handle is released.
func (r *RawTensor) Release() {
	r.buffer.release()
}

// IsUnique returns true if this tensor is the only reference to the buffer.
// When true, backends can perform inplace operations.
func (r *RawTensor) IsUnique() bool {
	return r.buffer.isUnique()
}

// RefCount returns the number of live handles on the buffer.
func (r *RawTensor) RefCount() int {
	return int(r.buffer.refCount.Load())
}

// SharesStorage reports whether r and other are handles onto the same buffer.
func (r *RawTensor) SharesStorage(other *RawTensor) bool {
	return other != nil && r.buffer == other.buffer
}
