package schema

import (
	"io"
	"slices"
	"sync"

	"github.com/wippyai/recview/errors"
	"github.com/wippyai/recview/record"
)

// Registry is a concurrency-safe set of named record types.
type Registry struct {
	types map[string]*record.Type
	names []string
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*record.Type)}
}

// Register adds t under its name. Re-registering the same *record.Type is a
// no-op; a different type with the same name is an error.
func (r *Registry) Register(t *record.Type) error {
	if t == nil {
		return errors.UnsupportedRecordType(errors.PhaseSchema, "nil record type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.types[t.Name()]; ok {
		if prev == t {
			return nil
		}
		return errors.New(errors.PhaseSchema, errors.KindInvalidFormat).
			Type(t.Name()).
			Detail("type already registered").
			Build()
	}
	r.types[t.Name()] = t
	r.names = append(r.names, t.Name())
	return nil
}

// Lookup returns the named type.
func (r *Registry) Lookup(name string) (*record.Type, error) {
	r.mu.RLock()
	t, ok := r.types[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.PhaseSchema, errors.KindUnsupportedRecordType).
			Type(name).
			Detail("unknown record type").
			Build()
	}
	return t, nil
}

// MustLookup is like Lookup but panics if name is unknown.
func (r *Registry) MustLookup(name string) *record.Type {
	t, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return t
}

// Names returns registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.names)
}

// Read reads one record of the named type.
func (r *Registry) Read(rd io.Reader, name string) (*record.Record, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return t.Read(rd)
}

// ReadSequence reads a count-prefixed sequence of records of the named type.
func (r *Registry) ReadSequence(rd io.Reader, name string, opts ...record.SequenceOption) (*record.Sequence, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	return record.ReadSequence(rd, record.NestedType(t), opts...)
}
