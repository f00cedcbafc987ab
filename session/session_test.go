package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/registry"
)

func TestScopesAreCreatedOnceInOrder(t *testing.T) {
	s := New()
	a := s.Scope("front")
	b := s.Scope("rear")
	require.Same(t, a, s.Scope("front"))

	scopes := s.Scopes()
	require.Len(t, scopes, 2)
	require.Equal(t, "front", scopes[0].ECU)
	require.Same(t, b, scopes[1])
}

func TestScopeNamesAreIndependent(t *testing.T) {
	s := New()
	front, rear := &struct{ n int }{1}, &struct{ n int }{2}
	require.NoError(t, s.Scope("front").Names.Register(registry.KindSwitchPort, "sp1", front))
	require.NoError(t, s.Scope("rear").Names.Register(registry.KindSwitchPort, "sp1", rear))
	require.ErrorIs(t, s.Scope("front").Names.Register(registry.KindSwitchPort, "sp1", rear), registry.ErrDuplicateName)
}

func TestSealLeavesConnectionsOpen(t *testing.T) {
	sc := New().Scope("front")
	sc.SwitchPorts.Put("sp1", &model.SwitchPort{Name: "sp1"})
	sc.Seal()

	require.True(t, sc.SwitchPorts.Sealed())
	require.True(t, sc.Interfaces.Sealed())
	require.False(t, sc.Connections.Sealed())
	require.NotPanics(t, func() {
		sc.Connections.Put("c1", &model.ECUPortToSwitchPort{ID: "c1"})
	})
	require.Panics(t, func() {
		sc.SwitchPorts.Put("sp2", &model.SwitchPort{Name: "sp2"})
	})
}

func TestResetClearsState(t *testing.T) {
	s := New()
	id := s.ID()
	ecu := &model.ECU{Name: "front"}
	require.NoError(t, s.Names.Register(registry.KindECU, "front", ecu))
	s.ECUs.Put("front", ecu)
	s.Scope("front")

	s.Reset()
	require.NotEqual(t, id, s.ID())
	require.False(t, s.Names.Contains(registry.KindECU, "front"))
	require.Zero(t, s.ECUs.Len())
	require.Empty(t, s.Scopes())
}
