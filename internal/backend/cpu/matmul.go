package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"

	"github.com/born-ml/affine/internal/tensor"
)

// MatMul multiplies a [..., M, K] (or [K]) tensor by a [K, N] matrix.
// Leading dimensions of a are flattened into rows, so the whole product is
// one GEMM call.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	requireDense("matmul", a, b)
	requireSameDType("matmul", a, b)

	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) == 0 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: expected [..., K] @ [K, N], got %v @ %v", aShape, bShape))
	}

	m, k := aShape.Rows(), aShape.Last()
	kAlt, n := bShape[0], bShape[1]

	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch %v @ %v", aShape, bShape))
	}

	outShape := append(aShape[:len(aShape)-1:len(aShape)-1], n)
	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("matmul: failed to create result tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		blas32.Gemm(blas.NoTrans, blas.NoTrans, 1,
			blas32.General{Rows: m, Cols: k, Stride: k, Data: a.AsFloat32()},
			blas32.General{Rows: k, Cols: n, Stride: n, Data: b.AsFloat32()},
			0,
			blas32.General{Rows: m, Cols: n, Stride: n, Data: result.AsFloat32()})
	case tensor.Float64:
		blas64.Gemm(blas.NoTrans, blas.NoTrans, 1,
			blas64.General{Rows: m, Cols: k, Stride: k, Data: a.AsFloat64()},
			blas64.General{Rows: k, Cols: n, Stride: n, Data: b.AsFloat64()},
			0,
			blas64.General{Rows: m, Cols: n, Stride: n, Data: result.AsFloat64()})
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}
