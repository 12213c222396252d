// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/affine/internal/tensor"
)

// RawTensor is the low-level tensor representation.
//
// RawTensor provides:
//   - Shape and type information via Shape(), DType(), Device(), Layout()
//   - Storage access via AsFloat32(), AsFloat64()
//   - Reference counting via Clone(), Release() and RefCount()
//
// Most users should use the high-level Tensor[T, B] type instead.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32()  // Zero-copy view
//	clone := raw.Clone()     // Shares buffer via reference counting
type RawTensor = tensor.RawTensor

// NewRaw allocates a zeroed Dense tensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// Layout is the physical arrangement of a tensor's storage.
type Layout = tensor.Layout

// Layout constants.
const (
	Dense   Layout = tensor.Dense
	Blocked Layout = tensor.Blocked
)

// NewBlockedRaw allocates a zeroed Blocked tensor with the given block width.
func NewBlockedRaw(shape Shape, dtype DataType, device Device, blockWidth int) (*RawTensor, error) {
	return tensor.NewBlockedRaw(shape, dtype, device, blockWidth)
}

// BlockedIndex returns the storage offset of element (row, col) in a Blocked
// matrix with the given number of rows and block width.
func BlockedIndex(row, col, rows, blockWidth int) int {
	return tensor.BlockedIndex(row, col, rows, blockWidth)
}
