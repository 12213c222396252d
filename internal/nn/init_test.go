package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/born-ml/affine/internal/nn"
	"github.com/born-ml/affine/internal/tensor"
)

func initData(t *testing.T, shape tensor.Shape, init nn.Init, seed uint64) []float32 {
	t.Helper()
	raw, err := nn.Initialize(shape, tensor.CPU, init, rand.NewSource(seed))
	require.NoError(t, err)
	require.Equal(t, tensor.Float32, raw.DType())
	require.Equal(t, tensor.Dense, raw.Layout())
	require.True(t, raw.Shape().Equal(shape))
	return raw.AsFloat32()
}

func assertWithin(t *testing.T, data []float32, low, high float64) {
	t.Helper()
	for i, v := range data {
		if v < float32(low) || v > float32(high) {
			t.Fatalf("element %d = %v outside [%v, %v]", i, v, low, high)
		}
	}
}

func TestInitializeConst(t *testing.T) {
	data := initData(t, tensor.Shape{3, 4}, nn.Const{Value: 2.5}, 1)
	for _, v := range data {
		assert.Equal(t, float32(2.5), v)
	}
}

func TestInitializeUniform(t *testing.T) {
	data := initData(t, tensor.Shape{50, 20}, nn.Uniform{Low: -0.3, High: 0.7}, 1)
	assertWithin(t, data, -0.3, 0.7)

	// Values must actually spread over the range.
	var lo, hi int
	for _, v := range data {
		if v < 0.2 {
			lo++
		} else {
			hi++
		}
	}
	assert.Greater(t, lo, 100)
	assert.Greater(t, hi, 100)

	flat := initData(t, tensor.Shape{5}, nn.Uniform{Low: 1, High: 1}, 1)
	assert.Equal(t, []float32{1, 1, 1, 1, 1}, flat)
}

func TestInitializeKaimingUniform(t *testing.T) {
	tests := []struct {
		name  string
		shape tensor.Shape
		fanIn int
	}{
		{"matrix", tensor.Shape{10, 100}, 100},
		{"vector", tensor.Shape{64}, 1},
		{"conv", tensor.Shape{8, 3, 5, 5}, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bound := 1 / math.Sqrt(float64(tt.fanIn))
			data := initData(t, tt.shape, nn.KaimingUniform{}, 42)
			assertWithin(t, data, -bound, bound)

			var maxAbs float64
			for _, v := range data {
				maxAbs = math.Max(maxAbs, math.Abs(float64(v)))
			}
			// With this many samples the extremes approach the bound.
			assert.Greater(t, maxAbs, bound*0.8)
		})
	}
}

func TestInitializeXavierUniform(t *testing.T) {
	shape := tensor.Shape{30, 20}
	bound := math.Sqrt(6.0 / 50.0)
	data := initData(t, shape, nn.XavierUniform{}, 7)
	assertWithin(t, data, -bound, bound)
}

func TestInitializeNormal(t *testing.T) {
	data := initData(t, tensor.Shape{100, 100}, nn.Normal{Mean: 1, Std: 0.02}, 3)

	var sum, sq float64
	for _, v := range data {
		sum += float64(v)
	}
	mean := sum / float64(len(data))
	for _, v := range data {
		d := float64(v) - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(data)))

	assert.InDelta(t, 1.0, mean, 0.002)
	assert.InDelta(t, 0.02, std, 0.002)

	degenerate := initData(t, tensor.Shape{4}, nn.Normal{Mean: -3, Std: 0}, 3)
	assert.Equal(t, []float32{-3, -3, -3, -3}, degenerate)
}

// gram returns A·Aᵀ (rowsGram) or Aᵀ·A for a rows×cols matrix.
func gram(data []float32, rows, cols int, rowsGram bool) [][]float64 {
	n, m := cols, rows
	at := func(i, k int) float64 { return float64(data[k*cols+i]) }
	if rowsGram {
		n, m = rows, cols
		at = func(i, k int) float64 { return float64(data[i*cols+k]) }
	}
	g := make([][]float64, n)
	for i := range g {
		g[i] = make([]float64, n)
		for j := range g[i] {
			for k := 0; k < m; k++ {
				g[i][j] += at(i, k) * at(j, k)
			}
		}
	}
	return g
}

func TestInitializeOrthogonal(t *testing.T) {
	tests := []struct {
		name     string
		shape    tensor.Shape
		gain     float64
		rowsGram bool
	}{
		{"square", tensor.Shape{6, 6}, 0, true},
		{"wide", tensor.Shape{4, 8}, 1, true},
		{"tall", tensor.Shape{8, 4}, 1, false},
		{"gain", tensor.Shape{5, 5}, 2, true},
		{"conv", tensor.Shape{4, 2, 3}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := initData(t, tt.shape, nn.Orthogonal{Gain: tt.gain}, 11)
			rows := tt.shape[0]
			cols := len(data) / rows

			scale := tt.gain * tt.gain
			if tt.gain == 0 {
				scale = 1
			}
			g := gram(data, rows, cols, tt.rowsGram)
			for i := range g {
				for j := range g[i] {
					want := 0.0
					if i == j {
						want = scale
					}
					assert.InDelta(t, want, g[i][j], 1e-5, "gram[%d][%d]", i, j)
				}
			}
		})
	}
}

func TestInitializeErrors(t *testing.T) {
	src := rand.NewSource(1)

	tests := []struct {
		name  string
		shape tensor.Shape
		init  nn.Init
		want  error
	}{
		{"empty shape", tensor.Shape{}, nn.Const{}, nn.ErrInvalidShape},
		{"zero dim", tensor.Shape{3, 0}, nn.KaimingUniform{}, nn.ErrInvalidShape},
		{"negative dim", tensor.Shape{-1}, nn.Const{}, nn.ErrInvalidShape},
		{"inverted range", tensor.Shape{2}, nn.Uniform{Low: 1, High: -1}, nn.ErrInvalidRange},
		{"nan range", tensor.Shape{2}, nn.Uniform{Low: math.NaN(), High: 1}, nn.ErrInvalidRange},
		{"negative std", tensor.Shape{2}, nn.Normal{Std: -1}, nn.ErrInvalidRange},
		{"orthogonal vector", tensor.Shape{4}, nn.Orthogonal{}, nn.ErrInvalidShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := nn.Initialize(tt.shape, tensor.CPU, tt.init, src)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, raw)
		})
	}

	_, err := nn.Initialize(tensor.Shape{2}, tensor.CPU, nil, src)
	assert.Error(t, err)
}

func TestInitializeDeterministic(t *testing.T) {
	shape := tensor.Shape{16, 16}
	for _, init := range []nn.Init{
		nn.KaimingUniform{},
		nn.XavierUniform{},
		nn.Normal{Std: 1},
		nn.Orthogonal{},
	} {
		t.Run(init.String(), func(t *testing.T) {
			a := initData(t, shape, init, 99)
			b := initData(t, shape, init, 99)
			c := initData(t, shape, init, 100)
			assert.Equal(t, a, b)
			assert.NotEqual(t, a, c)
		})
	}
}

func TestParseInit(t *testing.T) {
	tests := []struct {
		text string
		want nn.Init
	}{
		{"kaiming_uniform", nn.KaimingUniform{}},
		{"KAIMING_UNIFORM", nn.KaimingUniform{}},
		{"xavier_uniform", nn.XavierUniform{}},
		{"uniform:-0.1,0.1", nn.Uniform{Low: -0.1, High: 0.1}},
		{"const:0", nn.Const{}},
		{" const:1.5 ", nn.Const{Value: 1.5}},
		{"normal:0,0.02", nn.Normal{Std: 0.02}},
		{"orthogonal", nn.Orthogonal{}},
		{"orthogonal:2", nn.Orthogonal{Gain: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := nn.ParseInit(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := nn.ParseInit(got.String())
			require.NoError(t, err)
			assert.Equal(t, got.String(), again.String())
		})
	}
}

func TestParseInitErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"he_normal",
		"uniform:1",
		"uniform:a,b",
		"const",
		"kaiming_uniform:1",
		"orthogonal:1,2",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := nn.ParseInit(text)
			assert.Error(t, err)
		})
	}

	_, err := nn.ParseInit("uniform:1,0")
	assert.ErrorIs(t, err, nn.ErrInvalidRange)

	_, err = nn.ParseInit("normal:0,-1")
	assert.ErrorIs(t, err, nn.ErrInvalidRange)
}

func TestInitString(t *testing.T) {
	assert.Equal(t, "uniform:-0.5,0.5", nn.Uniform{Low: -0.5, High: 0.5}.String())
	assert.Equal(t, "orthogonal:1", nn.Orthogonal{}.String())
	assert.Equal(t, "normal:0,0.02", nn.Normal{Std: 0.02}.String())
}
