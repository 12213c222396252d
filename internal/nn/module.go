// Package nn implements parameter storage and affine layers for affine.
//
// This package provides:
//   - VarStore / Path: hierarchical, lookup-or-create parameter registry
//   - Init: closed set of initialization policies (Kaiming, Xavier, ...)
//   - Linear: fully connected layer with dense and accelerated paths
//
// Naming follows the dotted convention ("encoder.fc1.weight"). Layers
// constructed under the same path share their variables.
package nn

import (
	"github.com/born-ml/affine/internal/tensor"
)

// Module is the interface implemented by layers.
//
// Forward computes the output for input. Backend failures (shape mismatch,
// missing capability) panic with the backend's message, as tensor
// operations do.
type Module[B tensor.Backend] interface {
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]
}
