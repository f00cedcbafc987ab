package registry

import (
	"errors"
	"fmt"
)

// ErrDuplicateName is returned when a name is already held by another entity
// of the same kind.
var ErrDuplicateName = errors.New("duplicate name")

// Kind discriminates the entity kinds tracked by the registries.
type Kind string

const (
	KindECU                 Kind = "ecu"
	KindECUPort             Kind = "ecu_port"
	KindController          Kind = "controller"
	KindControllerInterface Kind = "controller_interface"
	KindSwitch              Kind = "switch"
	KindSwitchPort          Kind = "switch_port"
	KindDatatype            Kind = "datatype"
	KindConnection          Kind = "connection"
)

type nameKey struct {
	kind Kind
	name string
}

// Names tracks which entity owns a (kind, name) pair.
//
// Registering the same owner twice is a no-op so that an entity validated
// more than once does not collide with itself.
type Names struct {
	owners map[nameKey]any
	order  []nameKey
}

// NewNames returns an empty name registry.
func NewNames() *Names {
	return &Names{owners: make(map[nameKey]any)}
}

// Register claims name for owner within kind.
func (n *Names) Register(kind Kind, name string, owner any) error {
	if n.owners == nil {
		n.owners = make(map[nameKey]any)
	}
	key := nameKey{kind: kind, name: name}
	if existing, ok := n.owners[key]; ok {
		if existing == owner {
			return nil
		}
		return fmt.Errorf("%s %q: %w", kind, name, ErrDuplicateName)
	}
	n.owners[key] = owner
	n.order = append(n.order, key)
	return nil
}

// Contains reports whether name is registered for kind.
func (n *Names) Contains(kind Kind, name string) bool {
	_, ok := n.owners[nameKey{kind: kind, name: name}]
	return ok
}

// Len returns the number of registered names.
func (n *Names) Len() int {
	return len(n.owners)
}

// List returns the registered names of kind in registration order.
func (n *Names) List(kind Kind) []string {
	var out []string
	for _, key := range n.order {
		if key.kind == kind {
			out = append(out, key.name)
		}
	}
	return out
}

// Reset forgets every registered name.
func (n *Names) Reset() {
	n.owners = make(map[nameKey]any)
	n.order = nil
}
