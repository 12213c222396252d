package cpu

import (
	"github.com/born-ml/affine/internal/tensor"
)

type float interface {
	~float32 | ~float64
}

// addVectorized performs result = a + b for equal shapes.
func addVectorized(result, a, b *tensor.RawTensor) {
	switch a.DType() {
	case tensor.Float32:
		addVectorizedT(result.AsFloat32(), a.AsFloat32(), b.AsFloat32())
	case tensor.Float64:
		addVectorizedT(result.AsFloat64(), a.AsFloat64(), b.AsFloat64())
	default:
		panic("addVectorized: unsupported dtype")
	}
}

// addWithBroadcast performs addition with broadcasting.
func addWithBroadcast(result, a, b *tensor.RawTensor, outShape tensor.Shape) {
	switch a.DType() {
	case tensor.Float32:
		addBroadcastT(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape)
	case tensor.Float64:
		addBroadcastT(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape)
	default:
		panic("addWithBroadcast: unsupported dtype")
	}
}

func addVectorizedT[F float](dst, a, b []F) {
	for i := range a {
		dst[i] = a[i] + b[i]
	}
}

func addBroadcastT[F float](dst, a, b []F, aShape, bShape, outShape tensor.Shape) {
	// Row broadcast ([..., N] + [N]) is the linear layer's bias add.
	if len(bShape) == 1 && bShape[0] == outShape.Last() && aShape.Equal(outShape) {
		n := bShape[0]
		for off := 0; off < len(dst); off += n {
			addVectorizedT(dst[off:off+n], a[off:off+n], b)
		}
		return
	}

	outStrides := outShape.ComputeStrides()
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)

	for i := range dst {
		dst[i] = a[computeFlatIndex(i, outStrides, aStrides)] + b[computeFlatIndex(i, outStrides, bStrides)]
	}
}

func transposeData(result, src *tensor.RawTensor, axes []int) {
	switch src.DType() {
	case tensor.Float32:
		transposeT(result.AsFloat32(), src.AsFloat32(), src.Shape(), axes)
	case tensor.Float64:
		transposeT(result.AsFloat64(), src.AsFloat64(), src.Shape(), axes)
	default:
		panic("transpose: unsupported dtype")
	}
}

func transposeT[F float](dst, src []F, shape tensor.Shape, axes []int) {
	if len(shape) == 2 && axes[0] == 1 {
		rows, cols := shape[0], shape[1]
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				dst[c*rows+r] = src[r*cols+c]
			}
		}
		return
	}

	srcStrides := shape.ComputeStrides()
	outShape := make(tensor.Shape, len(axes))
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		rem := i
		srcIdx := 0
		for d, ax := range axes {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			srcIdx += coord * srcStrides[ax]
		}
		dst[i] = src[srcIdx]
	}
}
