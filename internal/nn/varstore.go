package nn

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/born-ml/affine/internal/logger"
	"github.com/born-ml/affine/internal/tensor"
)

// VarStoreConfig configures a VarStore.
type VarStoreConfig struct {
	// Seed seeds the store's random source. Stores created with the same
	// seed and the same sequence of variable creations hold identical values.
	Seed uint64

	// Logger receives variable creation and reuse events at debug level.
	// Nil discards them.
	Logger logger.Logger
}

// DefaultVarStoreConfig returns a config seeded from the current time.
func DefaultVarStoreConfig() VarStoreConfig {
	return VarStoreConfig{
		Seed: uint64(time.Now().UnixNano()),
	}
}

// VarStore is a registry of named parameters bound to one backend.
//
// Variables are created on first lookup and reused on every later lookup of
// the same name, so layers built under the same Path share storage. The
// registry and the random source are guarded by a mutex; tensor contents
// are not.
//
// Example:
//
//	vs := nn.NewVarStore(cpu.New(), nn.DefaultVarStoreConfig())
//	fc, err := nn.NewLinear(vs.Root().Sub("fc"), 784, 10, nn.DefaultLinearConfig())
type VarStore[B tensor.Backend] struct {
	id      uuid.UUID
	backend B
	log     logger.Logger

	mu   sync.Mutex
	vars map[string]*Parameter[B]
	src  rand.Source
}

// NewVarStore creates an empty store whose variables live on backend.
func NewVarStore[B tensor.Backend](backend B, cfg VarStoreConfig) *VarStore[B] {
	id := uuid.New()

	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &VarStore[B]{
		id:      id,
		backend: backend,
		log:     log.With("store", id.String()),
		vars:    make(map[string]*Parameter[B]),
		src:     rand.NewSource(cfg.Seed),
	}
}

// ID returns the store's unique identifier.
func (vs *VarStore[B]) ID() uuid.UUID {
	return vs.id
}

// Backend returns the backend variables are allocated on.
func (vs *VarStore[B]) Backend() B {
	return vs.backend
}

// Device returns the device of the store's backend.
func (vs *VarStore[B]) Device() tensor.Device {
	return vs.backend.Device()
}

// Root returns the path with an empty prefix.
func (vs *VarStore[B]) Root() *Path[B] {
	return &Path[B]{store: vs}
}

// Len returns the number of registered variables.
func (vs *VarStore[B]) Len() int {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return len(vs.vars)
}

// Names returns all variable names in sorted order.
func (vs *VarStore[B]) Names() []string {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return slices.Sorted(maps.Keys(vs.vars))
}

// Variables returns a snapshot of the registry keyed by name.
func (vs *VarStore[B]) Variables() map[string]*Parameter[B] {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return maps.Clone(vs.vars)
}

// TrainableVariables returns trainable variables sorted by name.
func (vs *VarStore[B]) TrainableVariables() []*Parameter[B] {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	var out []*Parameter[B]
	for _, name := range slices.Sorted(maps.Keys(vs.vars)) {
		if p := vs.vars[name]; p.trainable {
			out = append(out, p)
		}
	}
	return out
}

// Freeze marks every variable as not trainable.
func (vs *VarStore[B]) Freeze() {
	vs.setTrainable(false)
}

// Unfreeze marks every variable as trainable.
func (vs *VarStore[B]) Unfreeze() {
	vs.setTrainable(true)
}

func (vs *VarStore[B]) setTrainable(trainable bool) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	for _, p := range vs.vars {
		p.trainable = trainable
	}
}

// Copy overwrites the values of every variable in vs with the variable of
// the same name in src. Nothing is written unless every name exists in src
// with an identical shape.
func (vs *VarStore[B]) Copy(src *VarStore[B]) error {
	src.mu.Lock()
	from := maps.Clone(src.vars)
	src.mu.Unlock()

	vs.mu.Lock()
	defer vs.mu.Unlock()

	for name, dst := range vs.vars {
		s, ok := from[name]
		if !ok {
			return fmt.Errorf("%w: %q not found in source store", ErrMissingVariable, name)
		}
		if !s.tensor.Shape().Equal(dst.tensor.Shape()) {
			return fmt.Errorf("%w: %q has shape %v, source has %v",
				ErrShapeMismatch, name, dst.tensor.Shape(), s.tensor.Shape())
		}
	}

	for name, dst := range vs.vars {
		copy(dst.tensor.Data(), from[name].tensor.Data())
	}
	vs.log.Debug("variables copied", "count", len(vs.vars), "from", src.id.String())
	return nil
}

// StateDict returns the storage of every variable keyed by name.
// The tensors alias the store; copy them before mutating.
func (vs *VarStore[B]) StateDict() map[string]*tensor.RawTensor {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	state := make(map[string]*tensor.RawTensor, len(vs.vars))
	for name, p := range vs.vars {
		state[name] = p.tensor.Raw()
	}
	return state
}

// lookupOrCreate returns a new handle to the variable called name, creating
// it with init if absent. created reports whether this call allocated it.
func (vs *VarStore[B]) lookupOrCreate(name string, shape tensor.Shape, init Init) (t *tensor.Tensor[float32, B], created bool, err error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if p, ok := vs.vars[name]; ok {
		if !p.tensor.Shape().Equal(shape) {
			return nil, false, fmt.Errorf("%w: %q exists with shape %v, requested %v",
				ErrShapeMismatch, name, p.tensor.Shape(), shape)
		}
		vs.log.Debug("variable reused", "name", name, "shape", shape)
		return p.tensor.Clone(), false, nil
	}

	raw, err := Initialize(shape, vs.backend.Device(), init, vs.src)
	if err != nil {
		return nil, false, fmt.Errorf("nn: variable %q: %w", name, err)
	}

	p := NewParameter(name, tensor.New[float32](raw, vs.backend))
	vs.vars[name] = p
	vs.log.Debug("variable created", "name", name, "shape", shape, "init", init.String())
	return p.tensor.Clone(), true, nil
}

func (vs *VarStore[B]) get(name string) (*tensor.Tensor[float32, B], bool) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	p, ok := vs.vars[name]
	if !ok {
		return nil, false
	}
	return p.tensor.Clone(), true
}

// remove unregisters names and drops the store's handles to them.
func (vs *VarStore[B]) remove(names ...string) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	for _, name := range names {
		if p, ok := vs.vars[name]; ok {
			delete(vs.vars, name)
			p.tensor.Release()
			vs.log.Debug("variable removed", "name", name)
		}
	}
}
