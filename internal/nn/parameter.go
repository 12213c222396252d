package nn

import (
	"github.com/born-ml/affine/internal/tensor"
)

// Parameter is a named tensor owned by a VarStore.
//
// The tensor is a shared handle: every layer that looked the name up sees
// writes made through any other handle. Trainable marks whether optimizers
// should update it.
//
// Example:
//
//	for _, p := range vs.TrainableVariables() {
//	    fmt.Println(p.Name(), p.Tensor().Shape())
//	}
type Parameter[B tensor.Backend] struct {
	name      string                     // Fully qualified name (e.g., "encoder.fc1.weight")
	tensor    *tensor.Tensor[float32, B] // Store-owned handle
	trainable bool
}

// NewParameter creates a trainable parameter wrapping t.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{
		name:      name,
		tensor:    t,
		trainable: true,
	}
}

// Name returns the fully qualified parameter name.
func (p *Parameter[B]) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] {
	return p.tensor
}

// Trainable reports whether the parameter should receive updates.
func (p *Parameter[B]) Trainable() bool {
	return p.trainable
}

// SetTrainable marks the parameter trainable or frozen.
func (p *Parameter[B]) SetTrainable(trainable bool) {
	p.trainable = trainable
}
