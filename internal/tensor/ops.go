package tensor

// Add performs element-wise addition with broadcasting.
//
// Example:
//
//	a := tensor.Zeros[float32](Shape{4, 3}, backend)
//	b := tensor.Full[float32](Shape{3}, 1, backend)
//	c := a.Add(b) // Shape: [4, 3] (broadcasted)
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.Add(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// MatMul performs matrix multiplication.
//
// Requirements:
//   - (M, K) @ (K, N) → (M, N)
//   - (..., M, K) @ (K, N) → (..., M, N)
//   - (K) @ (K, N) → (N)
//
// Example:
//
//	a := tensor.Zeros[float32](Shape{3, 4}, backend)
//	b := tensor.Zeros[float32](Shape{4, 5}, backend)
//	c := a.MatMul(b) // Shape: [3, 5]
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.MatMul(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// Transpose transposes the tensor by permuting its dimensions.
//
// If axes is empty, reverses all dimensions (for 2D, this is standard transpose).
// Otherwise, axes specifies the permutation.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	result := t.backend.Transpose(t.raw, axes...)
	return New[T, B](result, t.backend)
}

// T is a shortcut for 2D transpose (swaps rows and columns).
// Panics if the tensor is not 2D.
func (t *Tensor[T, B]) T() *Tensor[T, B] {
	if len(t.Shape()) != 2 {
		panic("T() only works for 2D tensors")
	}
	return t.Transpose(1, 0)
}

// ToAccelerated returns the tensor in the Blocked layout. A tensor that is
// already Blocked is returned as a new handle on the same storage.
// Panics if the backend has no Accelerator capability.
func (t *Tensor[T, B]) ToAccelerated() *Tensor[T, B] {
	if t.raw.IsAccelerated() {
		return t.Clone()
	}
	acc := mustAccelerator("to_accelerated", t.backend)
	return New[T, B](acc.ToAccelerated(t.raw), t.backend)
}

// ToDense returns the tensor in the Dense layout. A tensor that is already
// Dense is returned as a new handle on the same storage.
func (t *Tensor[T, B]) ToDense() *Tensor[T, B] {
	if t.raw.Layout() == Dense {
		return t.Clone()
	}
	acc := mustAccelerator("to_dense", t.backend)
	return New[T, B](acc.ToDense(t.raw), t.backend)
}

// FusedLinear computes x @ w.T + b in one backend kernel. All three operands
// must be Blocked; the result is Blocked.
func FusedLinear[T DType, B Backend](x, w, b *Tensor[T, B]) *Tensor[T, B] {
	acc := mustAccelerator("fused_linear", x.backend)
	return New[T, B](acc.FusedLinear(x.raw, w.raw, b.raw), x.backend)
}
