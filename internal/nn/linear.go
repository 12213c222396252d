package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/affine/internal/tensor"
)

// LinearConfig configures a Linear layer.
type LinearConfig struct {
	// WeightInit initializes the [out, in] weight. Nil means KaimingUniform.
	WeightInit Init

	// BiasInit initializes the [out] bias. Nil means
	// Uniform{-1/sqrt(in), 1/sqrt(in)}.
	BiasInit Init

	// Bias registers a trainable bias. When false the layer adds an
	// unregistered zero vector instead.
	Bias bool
}

// DefaultLinearConfig returns Kaiming-uniform weights and a fan-in uniform bias.
func DefaultLinearConfig() LinearConfig {
	return LinearConfig{
		WeightInit: KaimingUniform{},
		Bias:       true,
	}
}

// Linear implements a fully connected (affine) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [..., in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [..., out_features]
//
// Weight and bias are shared handles into the VarStore they were created
// in: edits through the store are visible to the layer and vice versa.
//
// Example:
//
//	vs := nn.NewVarStore(cpu.New(), nn.DefaultVarStoreConfig())
//	layer, err := nn.NewLinear(vs.Root().Sub("fc"), 784, 128, nn.DefaultLinearConfig())
//	output := layer.Forward(input) // [32, 784] -> [32, 128]
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *tensor.Tensor[float32, B] // [out_features, in_features]
	bias        *tensor.Tensor[float32, B] // [out_features]
	hasBias     bool
}

// NewLinear creates a Linear layer whose variables live under path as
// "weight" and "bias".
//
// Existing variables with matching shapes are reused, so two layers built
// under the same path share parameters. If registration fails, variables
// created by this call are removed again and the store is left as it was.
//
// Parameters:
//   - path: Store path the layer registers under (e.g., vs.Root().Sub("fc1"))
//   - inFeatures: Number of input features (> 0)
//   - outFeatures: Number of output features (> 0)
//   - cfg: Initialization and bias options
func NewLinear[B tensor.Backend](path *Path[B], inFeatures, outFeatures int, cfg LinearConfig) (*Linear[B], error) {
	if inFeatures <= 0 || outFeatures <= 0 {
		return nil, fmt.Errorf("%w: linear %q needs positive features, got in=%d out=%d",
			ErrInvalidShape, path.Name(), inFeatures, outFeatures)
	}

	weightInit := cfg.WeightInit
	if weightInit == nil {
		weightInit = KaimingUniform{}
	}
	biasInit := cfg.BiasInit
	if biasInit == nil {
		bound := 1 / math.Sqrt(float64(inFeatures))
		biasInit = Uniform{Low: -bound, High: bound}
	}

	var created []string
	track := func(name string, isNew bool) {
		if isNew {
			full, _ := path.fullName(name)
			created = append(created, full)
		}
	}

	var (
		bias *tensor.Tensor[float32, B]
		err  error
	)
	if cfg.Bias {
		var isNew bool
		bias, isNew, err = path.variable("bias", tensor.Shape{outFeatures}, biasInit)
		if err != nil {
			return nil, err
		}
		track("bias", isNew)
	} else {
		bias, err = path.ZerosNoTrain(tensor.Shape{outFeatures})
		if err != nil {
			return nil, err
		}
	}

	weight, isNew, err := path.variable("weight", tensor.Shape{outFeatures, inFeatures}, weightInit)
	if err != nil {
		bias.Release()
		path.store.remove(created...)
		return nil, err
	}
	track("weight", isNew)

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
		hasBias:     cfg.Bias,
	}, nil
}

// Forward computes the output of the linear layer.
//
// Dense layers compute x @ W.T + b with broadcasting over leading
// dimensions. Accelerated layers (see ToAccelerated) run the backend's
// fused kernel; a dense input is converted on the way in and the result
// converted back, so the output layout always matches the input layout.
//
// Backend errors (shape mismatch, missing capability) panic unchanged.
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !l.weight.IsAccelerated() {
		return input.MatMul(l.weight.T()).Add(l.bias)
	}

	if input.IsAccelerated() {
		return tensor.FusedLinear(input, l.weight, l.bias)
	}

	x := input.ToAccelerated()
	defer x.Release()

	out := tensor.FusedLinear(x, l.weight, l.bias)
	defer out.Release()

	return out.ToDense()
}

// ToAccelerated returns a layer whose weight and bias are in the backend's
// accelerated layout. The returned layer owns private copies and is not
// registered in any store; l is left unchanged. Converting an already
// accelerated layer shares its tensors.
//
// Panics if the backend has no accelerated layout.
func (l *Linear[B]) ToAccelerated() *Linear[B] {
	return &Linear[B]{
		inFeatures:  l.inFeatures,
		outFeatures: l.outFeatures,
		weight:      l.weight.ToAccelerated(),
		bias:        l.bias.ToAccelerated(),
		hasBias:     l.hasBias,
	}
}

// IsAccelerated reports whether the layer's parameters are in the
// accelerated layout.
func (l *Linear[B]) IsAccelerated() bool {
	return l.weight.IsAccelerated()
}

// Release drops the layer's handles to its parameters. Store-owned
// variables stay alive through the store.
func (l *Linear[B]) Release() {
	l.weight.Release()
	l.bias.Release()
}

// Weight returns the weight tensor [out_features, in_features].
func (l *Linear[B]) Weight() *tensor.Tensor[float32, B] {
	return l.weight
}

// Bias returns the bias tensor [out_features]. Without a trainable bias
// this is the unregistered zero vector.
func (l *Linear[B]) Bias() *tensor.Tensor[float32, B] {
	return l.bias
}

// HasBias reports whether the layer registered a trainable bias.
func (l *Linear[B]) HasBias() bool {
	return l.hasBias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns a map of parameter names to raw tensors.
// The bias is omitted when the layer has none.
func (l *Linear[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	stateDict["weight"] = l.weight.Raw()
	if l.hasBias {
		stateDict["bias"] = l.bias.Raw()
	}
	return stateDict
}

// LoadStateDict copies parameters from a state dictionary into the layer's
// storage. Only dense layers can be loaded.
func (l *Linear[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if l.IsAccelerated() {
		return fmt.Errorf("linear: cannot load state into %s layout", l.weight.Layout())
	}

	load := func(name string, dst *tensor.Tensor[float32, B]) error {
		src, ok := stateDict[name]
		if !ok {
			return fmt.Errorf("%w: %s in state dict", ErrMissingVariable, name)
		}
		if !src.Shape().Equal(dst.Shape()) {
			return fmt.Errorf("%w: %s expected %v, got %v", ErrShapeMismatch, name, dst.Shape(), src.Shape())
		}
		if src.DType() != tensor.Float32 || src.IsAccelerated() {
			return fmt.Errorf("linear: %s must be dense float32, got %s %s", name, src.DType(), src.Layout())
		}
		return nil
	}

	if err := load("weight", l.weight); err != nil {
		return err
	}
	if l.hasBias {
		if err := load("bias", l.bias); err != nil {
			return err
		}
	}

	copy(l.weight.Data(), stateDict["weight"].AsFloat32())
	if l.hasBias {
		copy(l.bias.Data(), stateDict["bias"].AsFloat32())
	}
	return nil
}

var _ Module[tensor.Backend] = (*Linear[tensor.Backend])(nil)
