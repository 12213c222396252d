package nn

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/affine/internal/tensor"
)

// Init is an initialization policy for a freshly created parameter.
//
// The set of policies is closed: KaimingUniform, XavierUniform, Uniform,
// Const, Normal and Orthogonal. Policies carry no state.
type Init interface {
	fmt.Stringer

	// validate reports malformed policy arguments.
	validate() error
}

// KaimingUniform draws from U[-1/sqrt(fanIn), 1/sqrt(fanIn)] where fanIn is
// the product of all dimensions but the first (1 for vectors).
//
// No nonlinearity gain is applied and fan-out is ignored; layers built on
// this store rely on exactly this bound.
type KaimingUniform struct{}

// XavierUniform (Glorot) draws from U(-sqrt(6/(fanIn + fanOut)), sqrt(6/(fanIn + fanOut)))
// with fanOut = shape[0].
type XavierUniform struct{}

// Uniform draws from U[Low, High]. Low must not exceed High.
type Uniform struct {
	Low, High float64
}

// Const fills every element with Value.
type Const struct {
	Value float64
}

// Normal draws from N(Mean, Std²). Std must be non-negative.
type Normal struct {
	Mean, Std float64
}

// Orthogonal produces a (semi-)orthogonal matrix scaled by Gain, from the QR
// decomposition of a Gaussian matrix. The shape is viewed as
// [shape[0], fanIn]. A zero Gain means 1.
type Orthogonal struct {
	Gain float64
}

func (KaimingUniform) validate() error { return nil }
func (XavierUniform) validate() error  { return nil }
func (Const) validate() error          { return nil }

func (u Uniform) validate() error {
	if !(u.Low <= u.High) {
		return fmt.Errorf("%w: uniform low %g > high %g", ErrInvalidRange, u.Low, u.High)
	}
	return nil
}

func (n Normal) validate() error {
	if !(n.Std >= 0) {
		return fmt.Errorf("%w: normal std %g must be >= 0", ErrInvalidRange, n.Std)
	}
	return nil
}

func (o Orthogonal) validate() error {
	if math.IsNaN(o.Gain) || math.IsInf(o.Gain, 0) {
		return fmt.Errorf("%w: orthogonal gain %g", ErrInvalidRange, o.Gain)
	}
	return nil
}

func (KaimingUniform) String() string { return "kaiming_uniform" }
func (XavierUniform) String() string  { return "xavier_uniform" }
func (u Uniform) String() string      { return "uniform:" + fmtFloats(u.Low, u.High) }
func (c Const) String() string        { return "const:" + fmtFloats(c.Value) }
func (n Normal) String() string       { return "normal:" + fmtFloats(n.Mean, n.Std) }
func (o Orthogonal) String() string   { return "orthogonal:" + fmtFloats(o.gain()) }

func (o Orthogonal) gain() float64 {
	if o.Gain == 0 {
		return 1
	}
	return o.Gain
}

func fmtFloats(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// ParseInit parses the text form of a policy, as produced by its String
// method: "kaiming_uniform", "xavier_uniform", "uniform:LOW,HIGH",
// "const:VALUE", "normal:MEAN,STD", "orthogonal" or "orthogonal:GAIN".
func ParseInit(s string) (Init, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(s), ":")

	var vals []float64
	if args != "" {
		for _, a := range strings.Split(args, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
			if err != nil {
				return nil, fmt.Errorf("nn: init %q: %w", s, err)
			}
			vals = append(vals, v)
		}
	}

	want := func(n int) error {
		if len(vals) != n {
			return fmt.Errorf("nn: init %q: expected %d argument(s), got %d", s, n, len(vals))
		}
		return nil
	}

	var init Init
	switch strings.ToLower(name) {
	case "kaiming_uniform":
		if err := want(0); err != nil {
			return nil, err
		}
		init = KaimingUniform{}
	case "xavier_uniform":
		if err := want(0); err != nil {
			return nil, err
		}
		init = XavierUniform{}
	case "uniform":
		if err := want(2); err != nil {
			return nil, err
		}
		init = Uniform{Low: vals[0], High: vals[1]}
	case "const":
		if err := want(1); err != nil {
			return nil, err
		}
		init = Const{Value: vals[0]}
	case "normal":
		if err := want(2); err != nil {
			return nil, err
		}
		init = Normal{Mean: vals[0], Std: vals[1]}
	case "orthogonal":
		if len(vals) > 1 {
			return nil, want(1)
		}
		o := Orthogonal{}
		if len(vals) == 1 {
			o.Gain = vals[0]
		}
		init = o
	default:
		return nil, fmt.Errorf("nn: unknown init %q", s)
	}

	if err := init.validate(); err != nil {
		return nil, err
	}
	return init, nil
}

// Initialize allocates a float32 tensor of the given shape on device and
// fills it according to init, drawing randomness from src. It has no other
// side effects. Identically seeded sources give identical tensors.
func Initialize(shape tensor.Shape, device tensor.Device, init Init, src rand.Source) (*tensor.RawTensor, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: initializer needs at least one dimension", ErrInvalidShape)
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if init == nil {
		return nil, fmt.Errorf("nn: nil init policy for shape %v", shape)
	}
	if err := init.validate(); err != nil {
		return nil, err
	}

	raw, err := tensor.NewRaw(shape, tensor.Float32, device)
	if err != nil {
		return nil, err
	}
	data := raw.AsFloat32()

	switch p := init.(type) {
	case Const:
		for i := range data {
			data[i] = float32(p.Value)
		}
	case Uniform:
		fillDist(data, distuv.Uniform{Min: p.Low, Max: p.High, Src: src})
	case Normal:
		fillDist(data, distuv.Normal{Mu: p.Mean, Sigma: p.Std, Src: src})
	case KaimingUniform:
		bound := 1 / math.Sqrt(float64(fanIn(shape)))
		fillDist(data, distuv.Uniform{Min: -bound, Max: bound, Src: src})
	case XavierUniform:
		bound := math.Sqrt(6 / float64(fanIn(shape)+shape[0]))
		fillDist(data, distuv.Uniform{Min: -bound, Max: bound, Src: src})
	case Orthogonal:
		if len(shape) < 2 {
			return nil, fmt.Errorf("%w: orthogonal init needs at least 2 dimensions, got %v", ErrInvalidShape, shape)
		}
		fillOrthogonal(data, shape[0], fanIn(shape), p.gain(), src)
	default:
		return nil, fmt.Errorf("nn: unsupported init policy %T", init)
	}

	return raw, nil
}

// fanIn is the product of every dimension after the first.
func fanIn(shape tensor.Shape) int {
	return tensor.Shape(shape[1:]).NumElements()
}

func fillDist(data []float32, dist distuv.Rander) {
	for i := range data {
		data[i] = float32(dist.Rand())
	}
}

// fillOrthogonal writes a rows×cols matrix with orthonormal rows (rows <= cols)
// or orthonormal columns (rows > cols), times gain.
func fillOrthogonal(data []float32, rows, cols int, gain float64, src rand.Source) {
	// QR needs a tall matrix; factor the transpose of a wide one.
	m, n := rows, cols
	transposed := rows < cols
	if transposed {
		m, n = cols, rows
	}

	gauss := make([]float64, m*n)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	for i := range gauss {
		gauss[i] = normal.Rand()
	}

	var qr mat.QR
	qr.Factorize(mat.NewDense(m, n, gauss))

	var q, r mat.Dense
	qr.QTo(&q)
	qr.RTo(&r)

	for j := 0; j < n; j++ {
		// Fix column signs so the result is uniform over orthogonal matrices.
		s := gain
		if r.At(j, j) < 0 {
			s = -gain
		}
		for i := 0; i < m; i++ {
			v := float32(q.At(i, j) * s)
			if transposed {
				data[j*cols+i] = v
			} else {
				data[i*cols+j] = v
			}
		}
	}
}
