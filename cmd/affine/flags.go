package main

import "github.com/urfave/cli/v3"

var (
	logLevel  string
	logFormat string
)

// layerOptions describes the store and layer a command builds.
type layerOptions struct {
	name       string
	in         int
	out        int
	batch      int
	bias       bool
	weightInit string
	biasInit   string
	seed       int64
	blockWidth int
	configPath string
}

func defaultLayerOptions() layerOptions {
	return layerOptions{
		name:  "fc",
		in:    64,
		out:   32,
		batch: 8,
		bias:  true,
		seed:  1,
	}
}

func layerFlags(o *layerOptions) []cli.Flag {
	d := defaultLayerOptions()
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "YAML layer config; explicit flags take precedence",
			Destination: &o.configPath,
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "store path the layer registers under",
			Value:       d.name,
			Destination: &o.name,
		},
		&cli.IntFlag{Name: "in", Usage: "input features", Value: d.in, Destination: &o.in},
		&cli.IntFlag{Name: "out", Usage: "output features", Value: d.out, Destination: &o.out},
		&cli.IntFlag{Name: "batch", Usage: "rows of the random input", Value: d.batch, Destination: &o.batch},
		&cli.BoolFlag{Name: "bias", Usage: "register a trainable bias", Value: d.bias, Destination: &o.bias},
		&cli.StringFlag{
			Name:        "weight-init",
			Usage:       "weight init policy (kaiming_uniform, xavier_uniform, uniform:LO,HI, const:V, normal:MEAN,STD, orthogonal[:GAIN])",
			Destination: &o.weightInit,
		},
		&cli.StringFlag{
			Name:        "bias-init",
			Usage:       "bias init policy (default uniform over ±1/sqrt(in))",
			Destination: &o.biasInit,
		},
		&cli.Int64Flag{Name: "seed", Usage: "store random seed", Value: d.seed, Destination: &o.seed},
		&cli.IntFlag{
			Name:        "block-width",
			Usage:       "accelerated layout block width (0 = detect from CPU features)",
			Destination: &o.blockWidth,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &logFormat,
		},
	}
}
