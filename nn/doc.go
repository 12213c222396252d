// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides parameter storage and affine layers.
//
// # Overview
//
// This package contains:
//   - VarStore / Path: Hierarchical parameter registry with lookup-or-create
//   - Init: Initialization policies (KaimingUniform, XavierUniform, Uniform,
//     Const, Normal, Orthogonal)
//   - Linear: Fully connected layer y = x @ W.T + b
//   - Module interface, Parameter
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/affine/backend/cpu"
//	    "github.com/born-ml/affine/nn"
//	)
//
//	func main() {
//	    vs := nn.NewVarStore(cpu.New(), nn.DefaultVarStoreConfig())
//	    root := vs.Root()
//
//	    fc1, err := nn.NewLinear(root.Sub("fc1"), 784, 128, nn.DefaultLinearConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    output := fc1.Forward(input) // [batch, 784] -> [batch, 128]
//	}
//
// # Sharing
//
// Variables are keyed by their dotted path ("fc1.weight"). Building a second
// layer under the same path reuses the existing variables, so the two layers
// share storage.
//
// # Accelerated layout
//
// Backends that implement tensor.Accelerator can hold layer parameters in a
// Blocked layout and run a fused kernel:
//
//	fast := fc1.ToAccelerated()
//	output := fast.Forward(input) // dense in, dense out
package nn
