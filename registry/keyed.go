package registry

import "fmt"

// Keyed maps keys to live entity instances of one kind.
//
// A keyed registry is filled during construction and read during
// resolution. Both phases are enforced: Put panics once the registry is
// sealed and Get panics until it is. A duplicate Put panics as well because
// the name registry must have rejected the entity before.
type Keyed[K comparable, V any] struct {
	kind   Kind
	items  map[K]V
	order  []K
	sealed bool
}

// NewKeyed returns an empty, unsealed registry for kind.
func NewKeyed[K comparable, V any](kind Kind) *Keyed[K, V] {
	return &Keyed[K, V]{kind: kind, items: make(map[K]V)}
}

// Kind returns the entity kind stored in the registry.
func (r *Keyed[K, V]) Kind() Kind {
	return r.kind
}

// Put stores v under key.
func (r *Keyed[K, V]) Put(key K, v V) {
	if r.sealed {
		panic(fmt.Sprintf("registry %s: put %v after seal", r.kind, key))
	}
	if r.items == nil {
		r.items = make(map[K]V)
	}
	if _, exists := r.items[key]; exists {
		panic(fmt.Sprintf("registry %s: duplicate key %v", r.kind, key))
	}
	r.items[key] = v
	r.order = append(r.order, key)
}

// Seal ends the construction phase. Sealing twice is allowed.
func (r *Keyed[K, V]) Seal() {
	r.sealed = true
}

// Sealed reports whether lookups are permitted.
func (r *Keyed[K, V]) Sealed() bool {
	return r.sealed
}

// Get returns the instance stored under key.
func (r *Keyed[K, V]) Get(key K) (V, bool) {
	if !r.sealed {
		panic(fmt.Sprintf("registry %s: lookup of %v before seal", r.kind, key))
	}
	v, ok := r.items[key]
	return v, ok
}

// Len returns the number of stored instances.
func (r *Keyed[K, V]) Len() int {
	return len(r.items)
}

// Keys returns the stored keys in insertion order.
func (r *Keyed[K, V]) Keys() []K {
	out := make([]K, len(r.order))
	copy(out, r.order)
	return out
}

// Values returns the stored instances in insertion order.
func (r *Keyed[K, V]) Values() []V {
	out := make([]V, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.items[key])
	}
	return out
}

// Reset empties and unseals the registry.
func (r *Keyed[K, V]) Reset() {
	r.items = make(map[K]V)
	r.order = nil
	r.sealed = false
}
