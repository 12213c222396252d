package cpu

import (
	"fmt"

	"github.com/born-ml/affine/internal/parallel"
	"github.com/born-ml/affine/internal/tensor"
)

// ToAccelerated packs a dense tensor into the Blocked layout using the
// backend's block width. The tensor is viewed as [Rows, Last]; each panel of
// BlockWidth columns is stored contiguously for all rows, and the last panel
// is zero padded.
func (cpu *CPUBackend) ToAccelerated(t *tensor.RawTensor) *tensor.RawTensor {
	requireDense("to_accelerated", t)

	result, err := tensor.NewBlockedRaw(t.Shape(), t.DType(), t.Device(), cpu.blockWidth)
	if err != nil {
		panic(fmt.Sprintf("to_accelerated: %v", err))
	}

	rows, cols := t.Shape().Rows(), t.Shape().Last()
	switch t.DType() {
	case tensor.Float32:
		packBlocked(result.AsFloat32(), t.AsFloat32(), rows, cols, cpu.blockWidth)
	case tensor.Float64:
		packBlocked(result.AsFloat64(), t.AsFloat64(), rows, cols, cpu.blockWidth)
	default:
		panic(fmt.Sprintf("to_accelerated: unsupported dtype %s", t.DType()))
	}

	return result
}

// ToDense unpacks a Blocked tensor into a new dense tensor.
func (cpu *CPUBackend) ToDense(t *tensor.RawTensor) *tensor.RawTensor {
	if !t.IsAccelerated() {
		panic(fmt.Sprintf("to_dense: operand %v is already %s", t.Shape(), t.Layout()))
	}

	result, err := tensor.NewRaw(t.Shape(), t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("to_dense: %v", err))
	}

	rows, cols := t.Shape().Rows(), t.Shape().Last()
	switch t.DType() {
	case tensor.Float32:
		unpackBlocked(result.AsFloat32(), t.AsFloat32(), rows, cols, t.BlockWidth())
	case tensor.Float64:
		unpackBlocked(result.AsFloat64(), t.AsFloat64(), rows, cols, t.BlockWidth())
	default:
		panic(fmt.Sprintf("to_dense: unsupported dtype %s", t.DType()))
	}

	return result
}

// FusedLinear computes x @ w.T + b on Blocked operands in a single pass.
//
// x is [..., K], w is [N, K] and b is [N], all Blocked with the same block
// width. Because x and w are both paneled along K, every inner step is a
// BlockWidth-lane multiply-accumulate over contiguous memory. Padding lanes
// are zero and contribute nothing. The result [..., N] is Blocked.
func (cpu *CPUBackend) FusedLinear(x, w, b *tensor.RawTensor) *tensor.RawTensor {
	for _, t := range []*tensor.RawTensor{x, w, b} {
		if !t.IsAccelerated() {
			panic(fmt.Sprintf("fused_linear: operand %v is in %s layout, convert with ToAccelerated first", t.Shape(), t.Layout()))
		}
	}
	requireSameDType("fused_linear", x, w)
	requireSameDType("fused_linear", x, b)

	bw := x.BlockWidth()
	if w.BlockWidth() != bw || b.BlockWidth() != bw {
		panic(fmt.Sprintf("fused_linear: block width mismatch x=%d w=%d b=%d", bw, w.BlockWidth(), b.BlockWidth()))
	}

	xShape, wShape, bShape := x.Shape(), w.Shape(), b.Shape()
	if len(wShape) != 2 || len(bShape) != 1 {
		panic(fmt.Sprintf("fused_linear: expected w [N, K] and b [N], got %v and %v", wShape, bShape))
	}
	n, k := wShape[0], wShape[1]
	if xShape.Last() != k || bShape[0] != n {
		panic(fmt.Sprintf("fused_linear: shape mismatch x=%v w=%v b=%v", xShape, wShape, bShape))
	}

	outShape := append(xShape[:len(xShape)-1:len(xShape)-1], n)
	result, err := tensor.NewBlockedRaw(outShape, x.DType(), x.Device(), bw)
	if err != nil {
		panic(fmt.Sprintf("fused_linear: %v", err))
	}

	dims := linearDims{rows: xShape.Rows(), k: k, n: n, bw: bw}
	switch x.DType() {
	case tensor.Float32:
		fusedLinear(result.AsFloat32(), x.AsFloat32(), w.AsFloat32(), b.AsFloat32(), dims, cpu.par)
	case tensor.Float64:
		fusedLinear(result.AsFloat64(), x.AsFloat64(), w.AsFloat64(), b.AsFloat64(), dims, cpu.par)
	default:
		panic(fmt.Sprintf("fused_linear: unsupported dtype %s", x.DType()))
	}

	return result
}

type linearDims struct {
	rows int // flattened batch rows of x
	k    int // input features
	n    int // output features
	bw   int // block width
}

func packBlocked[F float](dst, src []F, rows, cols, bw int) {
	for r := 0; r < rows; r++ {
		row := src[r*cols : (r+1)*cols]
		for c, v := range row {
			dst[tensor.BlockedIndex(r, c, rows, bw)] = v
		}
	}
}

func unpackBlocked[F float](dst, src []F, rows, cols, bw int) {
	for r := 0; r < rows; r++ {
		row := dst[r*cols : (r+1)*cols]
		for c := range row {
			row[c] = src[tensor.BlockedIndex(r, c, rows, bw)]
		}
	}
}

func fusedLinear[F float](out, x, w, b []F, d linearDims, cfg parallel.Config) {
	panels := tensor.NumPanels(d.k, d.bw)

	parallel.ForRange(d.rows, func(start, end int) {
		lanes := make([]F, d.bw)
		for r := start; r < end; r++ {
			for o := 0; o < d.n; o++ {
				clear(lanes)
				for p := 0; p < panels; p++ {
					xs := x[(p*d.rows+r)*d.bw : (p*d.rows+r+1)*d.bw]
					ws := w[(p*d.n+o)*d.bw : (p*d.n+o+1)*d.bw]
					for j, xv := range xs {
						lanes[j] += xv * ws[j]
					}
				}

				var sum F
				for _, v := range lanes {
					sum += v
				}
				out[tensor.BlockedIndex(r, o, d.rows, d.bw)] = sum + b[tensor.BlockedIndex(0, o, 1, d.bw)]
			}
		}
	}, cfg)
}
