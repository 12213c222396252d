// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/affine/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: Pure Go with gonum BLAS and a Blocked layout
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(x) // Uses backend.Add under the hood
type Backend = tensor.Backend

// Accelerator is the optional capability of backends that support the
// Blocked layout and a fused linear kernel. Discover it with AcceleratorOf.
type Accelerator = tensor.Accelerator

// AcceleratorOf reports whether b supports the accelerated layout.
//
// Example:
//
//	if _, ok := tensor.AcceleratorOf(backend); ok {
//	    layer = layer.ToAccelerated()
//	}
func AcceleratorOf(b Backend) (Accelerator, bool) {
	return tensor.AcceleratorOf(b)
}
