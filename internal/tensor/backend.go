package tensor

// Backend defines the dense tensor algebra every compute backend provides.
// Operations panic on invalid input (shape, dtype or layout mismatch) with an
// "op: reason" message.
type Backend interface {
	// Add performs element-wise addition with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor

	// MatMul multiplies a [..., M, K] tensor by a [K, N] matrix.
	// Leading dimensions of a are batch dimensions; a 1-D a is treated as
	// a single row and the result drops that row dimension.
	MatMul(a, b *RawTensor) *RawTensor

	// Transpose permutes dimensions; with no axes it reverses them.
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Metadata
	Name() string
	Device() Device
}

// Accelerator is the optional capability of backends that implement the
// Blocked layout. Callers discover it with AcceleratorOf.
type Accelerator interface {
	// ToAccelerated returns a Blocked copy of a Dense tensor.
	ToAccelerated(t *RawTensor) *RawTensor

	// ToDense returns a Dense copy of a Blocked tensor.
	ToDense(t *RawTensor) *RawTensor

	// FusedLinear computes x @ w.T + b on Blocked operands and returns a
	// Blocked result. x is [..., K], w is [N, K], b is [N].
	FusedLinear(x, w, b *RawTensor) *RawTensor
}

// AcceleratorOf returns b's Accelerator capability, if it has one.
func AcceleratorOf(b Backend) (Accelerator, bool) {
	acc, ok := b.(Accelerator)
	return acc, ok
}

func mustAccelerator(op string, b Backend) Accelerator {
	acc, ok := AcceleratorOf(b)
	if !ok {
		panic(op + ": backend " + b.Name() + " has no accelerated layout support")
	}
	return acc
}
