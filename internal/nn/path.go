package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/affine/internal/tensor"
)

// Path is a cursor into a VarStore that prefixes variable names.
//
// Paths are cheap values; Sub never touches the store.
type Path[B tensor.Backend] struct {
	store  *VarStore[B]
	prefix []string
}

// Sub returns the child path name. Invalid names (empty or containing a
// dot) are reported by the first variable operation on the path.
func (p *Path[B]) Sub(name string) *Path[B] {
	prefix := make([]string, len(p.prefix), len(p.prefix)+1)
	copy(prefix, p.prefix)
	return &Path[B]{store: p.store, prefix: append(prefix, name)}
}

// Store returns the store the path points into.
func (p *Path[B]) Store() *VarStore[B] {
	return p.store
}

// Name returns the dotted prefix of the path ("" for the root).
func (p *Path[B]) Name() string {
	return strings.Join(p.prefix, ".")
}

// Device returns the device variables under this path are allocated on.
func (p *Path[B]) Device() tensor.Device {
	return p.store.Device()
}

// Var returns the variable name under this path, creating it with init if
// it does not exist. The returned tensor shares storage with the store.
//
// Looking up an existing variable with a different shape returns
// ErrShapeMismatch; init is ignored on reuse.
func (p *Path[B]) Var(name string, shape tensor.Shape, init Init) (*tensor.Tensor[float32, B], error) {
	t, _, err := p.variable(name, shape, init)
	return t, err
}

// Zeros is Var with a constant zero initializer.
func (p *Path[B]) Zeros(name string, shape tensor.Shape) (*tensor.Tensor[float32, B], error) {
	return p.Var(name, shape, Const{})
}

// ZerosNoTrain allocates a zero tensor on the path's device without
// registering it in the store.
func (p *Path[B]) ZerosNoTrain(shape tensor.Shape) (*tensor.Tensor[float32, B], error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: zeros needs at least one dimension", ErrInvalidShape)
	}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return tensor.Zeros[float32](shape, p.store.backend), nil
}

// Get returns the variable name under this path if it exists.
func (p *Path[B]) Get(name string) (*tensor.Tensor[float32, B], bool) {
	full, err := p.fullName(name)
	if err != nil {
		return nil, false
	}
	return p.store.get(full)
}

func (p *Path[B]) variable(name string, shape tensor.Shape, init Init) (*tensor.Tensor[float32, B], bool, error) {
	full, err := p.fullName(name)
	if err != nil {
		return nil, false, err
	}
	return p.store.lookupOrCreate(full, shape, init)
}

func (p *Path[B]) fullName(name string) (string, error) {
	for _, part := range p.prefix {
		if err := validateName(part); err != nil {
			return "", err
		}
	}
	if err := validateName(name); err != nil {
		return "", err
	}
	if len(p.prefix) == 0 {
		return name, nil
	}
	return p.Name() + "." + name, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.Contains(name, ".") {
		return fmt.Errorf("%w: %q contains '.'", ErrInvalidName, name)
	}
	return nil
}
