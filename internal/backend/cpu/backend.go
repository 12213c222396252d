// Package cpu implements the CPU backend: dense ops on gonum BLAS and the
// Blocked accelerated layout with a fused linear kernel.
package cpu

import (
	"fmt"

	"github.com/born-ml/affine/internal/parallel"
	"github.com/born-ml/affine/internal/tensor"
)

// Config controls the CPU backend.
type Config struct {
	// BlockWidth is the panel width of the Blocked layout.
	// Zero or negative selects a width from the host's vector extensions.
	BlockWidth int

	// Parallel controls how kernels split rows across goroutines.
	Parallel parallel.Config
}

// DefaultConfig returns a config with the detected block width and
// parallelism sized to the host.
func DefaultConfig() Config {
	return Config{
		BlockWidth: DetectBlockWidth(),
		Parallel:   parallel.DefaultConfig(),
	}
}

// CPUBackend implements tensor operations on CPU.
// It satisfies both tensor.Backend and tensor.Accelerator.
type CPUBackend struct {
	device     tensor.Device
	blockWidth int
	par        parallel.Config
}

// New creates a CPU backend with DefaultConfig.
func New() *CPUBackend {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a CPU backend with the given config.
func NewWithConfig(cfg Config) *CPUBackend {
	bw := cfg.BlockWidth
	if bw <= 0 {
		bw = DetectBlockWidth()
	}
	return &CPUBackend{
		device:     tensor.CPU,
		blockWidth: bw,
		par:        cfg.Parallel,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// BlockWidth returns the panel width used for the Blocked layout.
func (cpu *CPUBackend) BlockWidth() int {
	return cpu.blockWidth
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	requireDense("add", a, b)
	requireSameDType("add", a, b)

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("add: %v", err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("add: failed to create result tensor: %v", err))
	}

	if needsBroadcast {
		addWithBroadcast(result, a, b, outShape)
	} else {
		addVectorized(result, a, b)
	}

	return result
}

// Transpose permutes the dimensions of a dense tensor.
// With no axes it reverses all dimensions.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	requireDense("transpose", t)

	shape := t.Shape()
	ndim := len(shape)

	// Default: reverse all dimensions
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}

	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	transposeData(result, t, axes)

	return result
}

func requireDense(op string, ts ...*tensor.RawTensor) {
	for _, t := range ts {
		if t.Layout() != tensor.Dense {
			panic(fmt.Sprintf("%s: operand %v is in %s layout, convert with ToDense first", op, t.Shape(), t.Layout()))
		}
	}
}

func requireSameDType(op string, a, b *tensor.RawTensor) {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", op, a.DType(), b.DType()))
	}
}
