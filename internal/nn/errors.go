package nn

import (
	"errors"

	"github.com/born-ml/affine/internal/tensor"
)

// Errors returned by initializers, the variable store and layer
// constructors. Returned errors wrap one of these; test with errors.Is.
var (
	ErrInvalidShape    = tensor.ErrInvalidShape
	ErrInvalidRange    = errors.New("invalid range")
	ErrShapeMismatch   = errors.New("shape mismatch")
	ErrInvalidName     = errors.New("invalid variable name")
	ErrMissingVariable = errors.New("missing variable")
)
