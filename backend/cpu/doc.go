// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for tensor operations.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - gonum BLAS matrix multiplication
//   - Float32 and Float64 support
//   - NumPy-compatible broadcasting
//   - A Blocked (column-panel) layout with a fused linear kernel
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/affine/backend/cpu"
//	    "github.com/born-ml/affine/nn"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    vs := nn.NewVarStore(backend, nn.DefaultVarStoreConfig())
//	    layer, _ := nn.NewLinear(vs.Root().Sub("fc"), 784, 10, nn.DefaultLinearConfig())
//	    fast := layer.ToAccelerated()
//	}
//
// # Performance
//
// The block width matches the widest SIMD registers found at startup
// (see DetectBlockWidth). Large batches are split across goroutines.
package cpu
