// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/affine/backend/cpu"
	"github.com/born-ml/affine/nn"
	"github.com/born-ml/affine/tensor"
)

// TestModuleInterface verifies that Linear works through the public API.
func TestModuleInterface(t *testing.T) {
	backend := cpu.New()
	vs := nn.NewVarStore(backend, nn.VarStoreConfig{Seed: 1})

	layer, err := nn.NewLinear(vs.Root().Sub("fc"), 10, 5, nn.DefaultLinearConfig())
	require.NoError(t, err)

	var module nn.Module[*cpu.Backend] = layer
	input := tensor.Zeros[float32](tensor.Shape{2, 10}, backend)
	output := module.Forward(input)

	assert.Equal(t, tensor.Shape{2, 5}, output.Shape())
	// Zero input yields the bias in every row.
	assert.Equal(t, layer.Bias().Data(), output.Data()[:5])
	assert.Equal(t, layer.Bias().Data(), output.Data()[5:])
}

func TestPublicInitPolicies(t *testing.T) {
	init, err := nn.ParseInit("normal:0,0.5")
	require.NoError(t, err)
	assert.Equal(t, nn.Normal{Mean: 0, Std: 0.5}, init)

	vs := nn.NewVarStore(cpu.New(), nn.VarStoreConfig{Seed: 1})
	_, err = vs.Root().Var("w", tensor.Shape{2}, nn.Uniform{Low: 1, High: 0})
	assert.ErrorIs(t, err, nn.ErrInvalidRange)
}

func TestAcceleratedThroughPublicAPI(t *testing.T) {
	backend := cpu.New()
	vs := nn.NewVarStore(backend, nn.VarStoreConfig{Seed: 2})

	layer, err := nn.NewLinear(vs.Root(), 12, 7, nn.DefaultLinearConfig())
	require.NoError(t, err)

	x := tensor.Full[float32](tensor.Shape{3, 12}, 0.25, backend)
	dense := layer.Forward(x)
	fused := layer.ToAccelerated().Forward(x)

	require.Equal(t, dense.Shape(), fused.Shape())
	for i, v := range dense.Data() {
		assert.InDelta(t, v, fused.Data()[i], 1e-5)
	}
}
