// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensors in affine.
//
// The package defines core interfaces and types for type-safe tensor operations:
//   - Tensor[T, B]: High-level generic tensor with type safety
//   - RawTensor: Low-level reference-counted storage
//   - Backend: Interface for device-specific compute implementations
//   - Accelerator: Optional backend capability for the Blocked layout
//   - Shape, DataType, Device, Layout: Core type definitions
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	w := tensor.Full[float32](tensor.Shape{4, 3}, 0.5, backend)
//	y := x.MatMul(w.T()) // [2, 4]
package tensor

import (
	"github.com/born-ml/affine/internal/tensor"
)

// DType is a constraint for tensor element types (float32, float64).
type DType = tensor.DType

// DataType represents the underlying data type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Float32 DataType = tensor.Float32
	Float64 DataType = tensor.Float64
)

// Device represents the device where tensor data resides.
type Device = tensor.Device

// Device constants.
const (
	CPU    Device = tensor.CPU
	CUDA   Device = tensor.CUDA
	Vulkan Device = tensor.Vulkan
	Metal  Device = tensor.Metal
	WebGPU Device = tensor.WebGPU
)

// Shape represents the dimensions of a tensor.
// Example: Shape{2, 3, 4} represents a 3D tensor with dimensions 2×3×4.
type Shape = tensor.Shape

// ErrInvalidShape is wrapped by errors for empty or non-positive shapes.
var ErrInvalidShape = tensor.ErrInvalidShape

// Tensor is a generic type-safe tensor.
//
// T is the element type (float32, float64).
// B is the backend implementation.
//
// Handles are reference counted: Clone returns a new handle on the same
// storage and writes through one handle are visible through every other.
type Tensor[T DType, B Backend] = tensor.Tensor[T, B]

// New wraps a RawTensor as a typed tensor, taking over the caller's handle.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return tensor.New[T, B](raw, b)
}

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return tensor.Zeros[T, B](shape, b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Full[float32](tensor.Shape{2, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	return tensor.Full[T, B](shape, value, b)
}

// FromSlice creates a tensor from a Go slice. The data is copied.
//
// Example:
//
//	backend := cpu.New()
//	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	return tensor.FromSlice(data, shape, b)
}

// FusedLinear computes x @ w.T + b in a single accelerated kernel.
// All operands must be in the Blocked layout.
func FusedLinear[T DType, B Backend](x, w, b *Tensor[T, B]) *Tensor[T, B] {
	return tensor.FusedLinear(x, w, b)
}
