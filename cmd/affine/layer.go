package main

import (
	"fmt"

	"github.com/born-ml/affine/backend/cpu"
	"github.com/born-ml/affine/internal/logger"
	"github.com/born-ml/affine/nn"
)

// build creates a backend, a seeded store and the layer described by o.
func (o layerOptions) build(log logger.Logger) (*nn.VarStore[*cpu.Backend], *nn.Linear[*cpu.Backend], error) {
	cfg := nn.LinearConfig{Bias: o.bias}

	if o.weightInit != "" {
		init, err := nn.ParseInit(o.weightInit)
		if err != nil {
			return nil, nil, fmt.Errorf("--weight-init: %w", err)
		}
		cfg.WeightInit = init
	}
	if o.biasInit != "" {
		init, err := nn.ParseInit(o.biasInit)
		if err != nil {
			return nil, nil, fmt.Errorf("--bias-init: %w", err)
		}
		cfg.BiasInit = init
	}
	if o.blockWidth < 0 {
		return nil, nil, fmt.Errorf("--block-width must be >= 0, got %d", o.blockWidth)
	}

	backendCfg := cpu.DefaultConfig()
	if o.blockWidth > 0 {
		backendCfg.BlockWidth = o.blockWidth
	}
	backend := cpu.NewWithConfig(backendCfg)

	vs := nn.NewVarStore(backend, nn.VarStoreConfig{
		Seed:   uint64(o.seed),
		Logger: log,
	})
	layer, err := nn.NewLinear(vs.Root().Sub(o.name), o.in, o.out, cfg)
	if err != nil {
		return nil, nil, err
	}

	log.Debug("layer built",
		"name", o.name,
		"in", o.in,
		"out", o.out,
		"bias", o.bias,
		"block_width", backend.BlockWidth(),
	)
	return vs, layer, nil
}
