package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/exp/rand"

	"github.com/born-ml/affine/internal/logger"
	"github.com/born-ml/affine/nn"
	"github.com/born-ml/affine/tensor"
)

func forwardCmd() *cli.Command {
	opts := defaultLayerOptions()

	return &cli.Command{
		Name:  "forward",
		Usage: "Run a random batch through the dense and accelerated paths and compare",
		Flags: layerFlags(&opts),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := resolveOptions(cmd.IsSet, &opts); err != nil {
				return err
			}
			return runForward(os.Stdout, opts, logger.FromContext(ctx))
		},
	}
}

// forwardReport is the outcome of one dense/accelerated comparison.
type forwardReport struct {
	inputShape  tensor.Shape
	outputShape tensor.Shape
	blockWidth  int
	dense       time.Duration
	accelerated time.Duration
	maxAbsDiff  float64
}

func runForward(w io.Writer, o layerOptions, log logger.Logger) error {
	if o.batch <= 0 {
		return fmt.Errorf("--batch must be > 0, got %d", o.batch)
	}

	vs, layer, err := o.build(log)
	if err != nil {
		return err
	}
	defer layer.Release()

	backend := vs.Backend()
	raw, err := nn.Initialize(tensor.Shape{o.batch, o.in}, vs.Device(), nn.Normal{Std: 1}, rand.NewSource(uint64(o.seed)+1))
	if err != nil {
		return err
	}
	x := tensor.New[float32](raw, backend)

	start := time.Now()
	dense := layer.Forward(x)
	denseTime := time.Since(start)

	fast := layer.ToAccelerated()
	defer fast.Release()

	start = time.Now()
	accelerated := fast.Forward(x)
	accTime := time.Since(start)

	report := forwardReport{
		inputShape:  x.Shape(),
		outputShape: accelerated.Shape(),
		blockWidth:  backend.BlockWidth(),
		dense:       denseTime,
		accelerated: accTime,
		maxAbsDiff:  maxAbsDiff(dense.Data(), accelerated.Data()),
	}
	log.Info("forward complete", "name", o.name, "max_abs_diff", report.maxAbsDiff)

	printForward(w, o, report)
	return nil
}

func maxAbsDiff(a, b []float32) float64 {
	var diff float64
	for i := range a {
		diff = math.Max(diff, math.Abs(float64(a[i])-float64(b[i])))
	}
	return diff
}

func printForward(w io.Writer, o layerOptions, r forwardReport) {
	_, _ = fmt.Fprintf(w, "layer:       %s [in=%d out=%d bias=%t]\n", o.name, o.in, o.out, o.bias)
	_, _ = fmt.Fprintf(w, "block width: %d\n", r.blockWidth)
	_, _ = fmt.Fprintf(w, "input:       %v\n", r.inputShape)
	_, _ = fmt.Fprintf(w, "output:      %v\n", r.outputShape)
	_, _ = fmt.Fprintf(w, "dense:       %s\n", r.dense)
	_, _ = fmt.Fprintf(w, "accelerated: %s\n", r.accelerated)
	_, _ = fmt.Fprintf(w, "max |diff|:  %.3g\n", r.maxAbsDiff)
}
