package tensor

import "errors"

// ErrInvalidShape is returned when a shape is empty where a non-scalar is
// required, or has a non-positive dimension.
var ErrInvalidShape = errors.New("invalid shape")
