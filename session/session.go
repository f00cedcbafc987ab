// Package session holds the state of one validation run.
package session

import (
	"github.com/google/uuid"

	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/registry"
)

// Session owns the registries of a validation run. A session is not safe for
// concurrent use; create one per run or call Reset between runs.
type Session struct {
	id uuid.UUID

	Names     *registry.Names
	ECUs      *registry.Keyed[string, *model.ECU]
	ECUPorts  *registry.Keyed[string, *model.ECUPort]
	Datatypes *registry.Keyed[string, model.Datatype]

	// Links holds the resolved connections between ECUs.
	Links *registry.Keyed[string, *model.ECUPortToECUPort]

	scopes     map[string]*Scope
	scopeOrder []string
}

// New returns an empty session with a fresh id.
func New() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// ID identifies the session in logs and exported graphs.
func (s *Session) ID() string {
	return s.id.String()
}

// Reset clears every registry and assigns a new id.
func (s *Session) Reset() {
	s.id = uuid.New()
	if s.Names == nil {
		s.Names = registry.NewNames()
	} else {
		s.Names.Reset()
	}
	s.ECUs = registry.NewKeyed[string, *model.ECU](registry.KindECU)
	s.ECUPorts = registry.NewKeyed[string, *model.ECUPort](registry.KindECUPort)
	s.Datatypes = registry.NewKeyed[string, model.Datatype](registry.KindDatatype)
	s.Links = registry.NewKeyed[string, *model.ECUPortToECUPort](registry.KindConnection)
	s.scopes = make(map[string]*Scope)
	s.scopeOrder = nil
}

// Scope returns the registries of the ECU called ecu, creating them on first use.
func (s *Session) Scope(ecu string) *Scope {
	if sc, ok := s.scopes[ecu]; ok {
		return sc
	}
	sc := newScope(ecu)
	s.scopes[ecu] = sc
	s.scopeOrder = append(s.scopeOrder, ecu)
	return sc
}

// Scopes returns every ECU scope in creation order.
func (s *Session) Scopes() []*Scope {
	out := make([]*Scope, 0, len(s.scopeOrder))
	for _, name := range s.scopeOrder {
		out = append(out, s.scopes[name])
	}
	return out
}

// Scope holds the registries whose names are only unique inside one ECU.
// ECUPorts mirrors the ECU's share of the session wide port registry so that
// internal connections can be resolved before every ECU is registered.
type Scope struct {
	ECU string

	Names       *registry.Names
	ECUPorts    *registry.Keyed[string, *model.ECUPort]
	SwitchPorts *registry.Keyed[string, *model.SwitchPort]
	Interfaces  *registry.Keyed[string, *model.ControllerInterface]
	Connections *registry.Keyed[string, model.Connection]
}

func newScope(ecu string) *Scope {
	return &Scope{
		ECU:         ecu,
		Names:       registry.NewNames(),
		ECUPorts:    registry.NewKeyed[string, *model.ECUPort](registry.KindECUPort),
		SwitchPorts: registry.NewKeyed[string, *model.SwitchPort](registry.KindSwitchPort),
		Interfaces:  registry.NewKeyed[string, *model.ControllerInterface](registry.KindControllerInterface),
		Connections: registry.NewKeyed[string, model.Connection](registry.KindConnection),
	}
}

// Seal ends registration of ports and interfaces. The connection registry
// stays open because it is filled during resolution.
func (sc *Scope) Seal() {
	sc.ECUPorts.Seal()
	sc.SwitchPorts.Seal()
	sc.Interfaces.Seal()
}
