package main

import (
	"context"
	"io"
	"math"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/born-ml/affine/internal/logger"
)

type variableSummary struct {
	Name      string  `json:"name"`
	Shape     []int   `json:"shape"`
	Trainable bool    `json:"trainable"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Mean      float64 `json:"mean"`
}

type storeSummary struct {
	ID        string            `json:"id"`
	Device    string            `json:"device"`
	Variables []variableSummary `json:"variables"`
}

func inspectCmd() *cli.Command {
	opts := defaultLayerOptions()

	return &cli.Command{
		Name:  "inspect",
		Usage: "Build a layer and print the variable store as JSON",
		Flags: layerFlags(&opts),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := resolveOptions(cmd.IsSet, &opts); err != nil {
				return err
			}
			return runInspect(os.Stdout, opts, logger.FromContext(ctx))
		},
	}
}

func runInspect(w io.Writer, o layerOptions, log logger.Logger) error {
	vs, layer, err := o.build(log)
	if err != nil {
		return err
	}
	defer layer.Release()

	summary := storeSummary{
		ID:     vs.ID().String(),
		Device: vs.Device().String(),
	}

	vars := vs.Variables()
	for _, name := range vs.Names() {
		p := vars[name]
		summary.Variables = append(summary.Variables, summarize(name, p.Tensor().Shape(), p.Trainable(), p.Tensor().Data()))
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(out, '\n'))
	return err
}

func summarize(name string, shape []int, trainable bool, data []float32) variableSummary {
	s := variableSummary{
		Name:      name,
		Shape:     shape,
		Trainable: trainable,
		Min:       math.Inf(1),
		Max:       math.Inf(-1),
	}
	var sum float64
	for _, v := range data {
		f := float64(v)
		s.Min = math.Min(s.Min, f)
		s.Max = math.Max(s.Max, f)
		sum += f
	}
	s.Mean = sum / float64(len(data))
	return s
}
