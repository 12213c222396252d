package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/affine/internal/parallel"
	"github.com/born-ml/affine/internal/tensor"
)

// Helper to create test backend.
func newTestBackend() *CPUBackend {
	return NewWithConfig(Config{BlockWidth: 4, Parallel: parallel.Sequential()})
}

func rawFrom(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return raw
}

func assertPanicsContaining(t *testing.T, substr string, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected panic containing %q", substr)
		assert.True(t, strings.Contains(r.(string), substr), "panic %q does not contain %q", r, substr)
	}()
	f()
}

func TestCPUBackend_New(t *testing.T) {
	backend := New()
	require.NotNil(t, backend)
	assert.Equal(t, "CPU", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
	assert.Contains(t, []int{4, 8, 16}, backend.BlockWidth())

	var _ tensor.Backend = backend
	var _ tensor.Accelerator = backend
}

func TestCPUBackend_ConfiguredBlockWidth(t *testing.T) {
	assert.Equal(t, 4, newTestBackend().BlockWidth())
	assert.Equal(t, DetectBlockWidth(), NewWithConfig(Config{}).BlockWidth())
}

func TestCPUBackend_Add(t *testing.T) {
	backend := newTestBackend()

	t.Run("SameShape", func(t *testing.T) {
		a := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
		b := rawFrom(t, []float32{10, 11, 12, 13, 14, 15}, tensor.Shape{2, 3})

		out := backend.Add(a, b)

		assert.Equal(t, []float32{11, 13, 15, 17, 19, 21}, out.AsFloat32())
		assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, a.AsFloat32(), "operands must not be modified")
	})

	t.Run("RowBroadcast", func(t *testing.T) {
		a := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
		b := rawFrom(t, []float32{10, 20, 30}, tensor.Shape{3})

		out := backend.Add(a, b)

		assert.True(t, out.Shape().Equal(tensor.Shape{2, 3}))
		assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, out.AsFloat32())
	})

	t.Run("ColumnBroadcast", func(t *testing.T) {
		a := rawFrom(t, []float32{1, 2}, tensor.Shape{2, 1})
		b := rawFrom(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

		out := backend.Add(a, b)

		assert.True(t, out.Shape().Equal(tensor.Shape{2, 3}))
		assert.Equal(t, []float32{11, 21, 31, 12, 22, 32}, out.AsFloat32())
	})

	t.Run("Incompatible", func(t *testing.T) {
		a := rawFrom(t, make([]float32, 6), tensor.Shape{2, 3})
		b := rawFrom(t, make([]float32, 4), tensor.Shape{4})
		assertPanicsContaining(t, "add: shapes not compatible", func() { backend.Add(a, b) })
	})
}

func TestCPUBackend_MatMul(t *testing.T) {
	backend := newTestBackend()

	t.Run("2D", func(t *testing.T) {
		// [[1, 2, 3], [4, 5, 6]] @ [[1, 0], [0, 1], [1, 1]]
		a := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
		b := rawFrom(t, []float32{1, 0, 0, 1, 1, 1}, tensor.Shape{3, 2})

		out := backend.MatMul(a, b)

		assert.True(t, out.Shape().Equal(tensor.Shape{2, 2}))
		assert.InDeltaSlice(t, []float32{4, 5, 10, 11}, out.AsFloat32(), 1e-6)
	})

	t.Run("BatchDims", func(t *testing.T) {
		data := make([]float32, 2*3*2)
		for i := range data {
			data[i] = float32(i)
		}
		a := rawFrom(t, data, tensor.Shape{2, 3, 2})
		b := rawFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})

		out := backend.MatMul(a, b)

		require.True(t, out.Shape().Equal(tensor.Shape{2, 3, 2}))
		// row i = [2i, 2i+1] → [2i + 3(2i+1), 2*2i + 4(2i+1)]
		got := out.AsFloat32()
		for i := 0; i < 6; i++ {
			x0, x1 := float32(2*i), float32(2*i+1)
			assert.InDelta(t, x0+3*x1, got[2*i], 1e-5)
			assert.InDelta(t, 2*x0+4*x1, got[2*i+1], 1e-5)
		}
	})

	t.Run("Vector", func(t *testing.T) {
		a := rawFrom(t, []float32{1, 2}, tensor.Shape{2})
		b := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

		out := backend.MatMul(a, b)

		assert.True(t, out.Shape().Equal(tensor.Shape{3}))
		assert.InDeltaSlice(t, []float32{9, 12, 15}, out.AsFloat32(), 1e-6)
	})

	t.Run("Float64", func(t *testing.T) {
		a, _ := tensor.NewRaw(tensor.Shape{1, 2}, tensor.Float64, tensor.CPU)
		b, _ := tensor.NewRaw(tensor.Shape{2, 1}, tensor.Float64, tensor.CPU)
		copy(a.AsFloat64(), []float64{3, 4})
		copy(b.AsFloat64(), []float64{5, 6})

		out := backend.MatMul(a, b)

		assert.InDelta(t, 39.0, out.AsFloat64()[0], 1e-12)
	})

	t.Run("ShapeMismatch", func(t *testing.T) {
		a := rawFrom(t, make([]float32, 6), tensor.Shape{2, 3})
		b := rawFrom(t, make([]float32, 4), tensor.Shape{2, 2})
		assertPanicsContaining(t, "matmul: shape mismatch", func() { backend.MatMul(a, b) })
	})

	t.Run("BlockedOperand", func(t *testing.T) {
		a := backend.ToAccelerated(rawFrom(t, make([]float32, 6), tensor.Shape{2, 3}))
		b := rawFrom(t, make([]float32, 6), tensor.Shape{3, 2})
		assertPanicsContaining(t, "blocked layout", func() { backend.MatMul(a, b) })
	})
}

func TestCPUBackend_Transpose(t *testing.T) {
	backend := newTestBackend()

	t.Run("2D", func(t *testing.T) {
		a := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

		out := backend.Transpose(a)

		assert.True(t, out.Shape().Equal(tensor.Shape{3, 2}))
		assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.AsFloat32())
	})

	t.Run("3D", func(t *testing.T) {
		data := make([]float32, 24)
		for i := range data {
			data[i] = float32(i)
		}
		a := rawFrom(t, data, tensor.Shape{2, 3, 4})

		out := backend.Transpose(a, 2, 0, 1)

		require.True(t, out.Shape().Equal(tensor.Shape{4, 2, 3}))
		// out[k][i][j] = a[i][j][k]
		got := out.AsFloat32()
		for i := 0; i < 2; i++ {
			for j := 0; j < 3; j++ {
				for k := 0; k < 4; k++ {
					assert.Equal(t, data[i*12+j*4+k], got[k*6+i*3+j])
				}
			}
		}
	})

	t.Run("DuplicateAxis", func(t *testing.T) {
		a := rawFrom(t, make([]float32, 4), tensor.Shape{2, 2})
		assertPanicsContaining(t, "transpose: duplicate axis", func() { backend.Transpose(a, 0, 0) })
	})
}
