// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"golang.org/x/exp/rand"

	"github.com/born-ml/affine/internal/nn"
	"github.com/born-ml/affine/internal/tensor"
)

// Errors wrapped by failing constructors and store operations.
var (
	ErrInvalidShape    = nn.ErrInvalidShape
	ErrInvalidRange    = nn.ErrInvalidRange
	ErrShapeMismatch   = nn.ErrShapeMismatch
	ErrInvalidName     = nn.ErrInvalidName
	ErrMissingVariable = nn.ErrMissingVariable
)

// Module interface defines the common interface for all layers.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter is a named tensor owned by a VarStore.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new trainable parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Variable store

// VarStore is a registry of named parameters bound to one backend.
type VarStore[B tensor.Backend] = nn.VarStore[B]

// VarStoreConfig configures a VarStore.
type VarStoreConfig = nn.VarStoreConfig

// Path is a cursor into a VarStore that prefixes variable names.
type Path[B tensor.Backend] = nn.Path[B]

// DefaultVarStoreConfig returns a config seeded from the current time.
func DefaultVarStoreConfig() VarStoreConfig {
	return nn.DefaultVarStoreConfig()
}

// NewVarStore creates an empty store whose variables live on backend.
//
// Example:
//
//	vs := nn.NewVarStore(cpu.New(), nn.VarStoreConfig{Seed: 42})
func NewVarStore[B tensor.Backend](backend B, cfg VarStoreConfig) *VarStore[B] {
	return nn.NewVarStore(backend, cfg)
}

// Initialization

// Init is an initialization policy for a freshly created parameter.
type Init = nn.Init

// Initialization policies.
type (
	KaimingUniform = nn.KaimingUniform
	XavierUniform  = nn.XavierUniform
	Uniform        = nn.Uniform
	Const          = nn.Const
	Normal         = nn.Normal
	Orthogonal     = nn.Orthogonal
)

// ParseInit parses the text form of a policy, e.g. "uniform:-0.1,0.1".
func ParseInit(s string) (Init, error) {
	return nn.ParseInit(s)
}

// Initialize allocates a float32 tensor of shape on device filled by init.
func Initialize(shape tensor.Shape, device tensor.Device, init Init, src rand.Source) (*tensor.RawTensor, error) {
	return nn.Initialize(shape, device, init, src)
}

// Layers

// Linear represents a fully connected (affine) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// LinearConfig configures a Linear layer.
type LinearConfig = nn.LinearConfig

// DefaultLinearConfig returns Kaiming-uniform weights and a fan-in uniform bias.
func DefaultLinearConfig() LinearConfig {
	return nn.DefaultLinearConfig()
}

// NewLinear creates a linear layer registered under path.
//
// Example:
//
//	vs := nn.NewVarStore(cpu.New(), nn.DefaultVarStoreConfig())
//	layer, err := nn.NewLinear(vs.Root().Sub("fc"), 784, 128, nn.DefaultLinearConfig())
func NewLinear[B tensor.Backend](path *Path[B], inFeatures, outFeatures int, cfg LinearConfig) (*Linear[B], error) {
	return nn.NewLinear(path, inFeatures, outFeatures, cfg)
}
