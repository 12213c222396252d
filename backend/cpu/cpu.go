// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/affine/internal/backend/cpu"
	"github.com/born-ml/affine/tensor"
)

// Backend represents the CPU backend implementation.
//
// It computes matrix products with gonum BLAS and implements
// tensor.Accelerator with a column-panel Blocked layout.
type Backend = internalcpu.CPUBackend

// Config configures a CPU backend.
type Config = internalcpu.Config

// Compile-time check that Backend implements both interfaces.
var (
	_ tensor.Backend     = (*Backend)(nil)
	_ tensor.Accelerator = (*Backend)(nil)
)

// New creates a CPU backend with the block width detected for this machine.
//
// Example:
//
//	import (
//	    "github.com/born-ml/affine/backend/cpu"
//	    "github.com/born-ml/affine/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend from cfg.
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultConfig returns the detected block width and default parallelism.
func DefaultConfig() Config {
	return internalcpu.DefaultConfig()
}

// DetectBlockWidth returns the Blocked layout width for this CPU:
// 16 with AVX-512, 8 with AVX2 or ASIMD, 4 otherwise.
func DetectBlockWidth() int {
	return internalcpu.DetectBlockWidth()
}

// Features lists the SIMD extensions detected on this CPU.
func Features() []string {
	return internalcpu.Features()
}
