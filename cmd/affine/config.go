package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LayerConfig is the YAML form of a layer description.
// Pointer fields distinguish "not set" from zero values.
type LayerConfig struct {
	Name       string `yaml:"name"`
	In         *int   `yaml:"in"`
	Out        *int   `yaml:"out"`
	Batch      *int   `yaml:"batch"`
	Bias       *bool  `yaml:"bias"`
	WeightInit string `yaml:"weight_init"`
	BiasInit   string `yaml:"bias_init"`
	Seed       *int64 `yaml:"seed"`
	BlockWidth *int   `yaml:"block_width"`
}

// loadConfig reads a layer config file.
func loadConfig(path string) (LayerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LayerConfig{}, fmt.Errorf("read config: %w", err)
	}
	var cfg LayerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return LayerConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyConfig copies config values into o for every option whose flag was
// not explicitly set.
func applyConfig(isSet func(name string) bool, cfg LayerConfig, o *layerOptions) {
	if cfg.Name != "" && !isSet("name") {
		o.name = cfg.Name
	}
	if cfg.In != nil && !isSet("in") {
		o.in = *cfg.In
	}
	if cfg.Out != nil && !isSet("out") {
		o.out = *cfg.Out
	}
	if cfg.Batch != nil && !isSet("batch") {
		o.batch = *cfg.Batch
	}
	if cfg.Bias != nil && !isSet("bias") {
		o.bias = *cfg.Bias
	}
	if cfg.WeightInit != "" && !isSet("weight-init") {
		o.weightInit = cfg.WeightInit
	}
	if cfg.BiasInit != "" && !isSet("bias-init") {
		o.biasInit = cfg.BiasInit
	}
	if cfg.Seed != nil && !isSet("seed") {
		o.seed = *cfg.Seed
	}
	if cfg.BlockWidth != nil && !isSet("block-width") {
		o.blockWidth = *cfg.BlockWidth
	}
}

// resolveOptions applies the --config file, if any, underneath the flags.
func resolveOptions(isSet func(name string) bool, o *layerOptions) error {
	if o.configPath == "" {
		return nil
	}
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	applyConfig(isSet, cfg, o)
	return nil
}
