// Package resolve binds the textual endpoints of connections to the live
// entities held by a session and runs the pairwise compatibility checks.
package resolve

import (
	"github.com/rs/zerolog"

	"github.com/timzifer/ecunet/check"
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/registry"
	"github.com/timzifer/ecunet/session"
	"github.com/timzifer/ecunet/validation"
)

// Resolver resolves the internal topology of one ECU. The scope must be
// sealed before any connection is resolved.
type Resolver struct {
	scope  *session.Scope
	logger zerolog.Logger
}

// New returns a resolver for the connections of scope.
func New(scope *session.Scope, logger zerolog.Logger) *Resolver {
	return &Resolver{
		scope:  scope,
		logger: logger.With().Str("component", "resolver").Str("ecu", scope.ECU).Logger(),
	}
}

// Connection resolves conn and reports whether it became part of the graph.
// Peers are only bound once every endpoint was found.
func (r *Resolver) Connection(conn model.Connection, c *validation.Collector) bool {
	var ok bool
	switch v := conn.(type) {
	case *model.ECUPortToSwitchPort:
		ok = r.ecuPortToSwitchPort(v, c)
	case *model.ECUPortToInterface:
		ok = r.ecuPortToInterface(v, c)
	case *model.SwitchPortToInterface:
		ok = r.switchPortToInterface(v, c)
	case *model.SwitchPortToSwitchPort:
		ok = r.switchPortToSwitchPort(v, c)
	case *model.InterfaceToInterface:
		ok = r.interfaceToInterface(v, c)
	default:
		c.Add(validation.Fatal(validation.CodeUnhandled, "Connection type {type} cannot be resolved inside an ECU",
			validation.Context{"type": conn.ConnectionType()}))
		return false
	}
	if !ok {
		return false
	}
	r.scope.Connections.Put(conn.ConnectionID(), conn)
	r.logger.Debug().Str("connection", conn.ConnectionID()).Str("type", string(conn.ConnectionType())).Msg("connection resolved")
	return true
}

func (r *Resolver) ecuPortToSwitchPort(conn *model.ECUPortToSwitchPort, c *validation.Collector) bool {
	port, ok := lookup(r.scope.ECUPorts, conn.ID, conn.ECUPortName, c)
	if !ok {
		return false
	}
	sp, ok := lookup(r.scope.SwitchPorts, conn.ID, conn.SwitchPortName, c)
	if !ok || !claim(r.scope.Names, conn, c) {
		return false
	}
	conn.ECUPort, conn.SwitchPort = port, sp
	bind(port, sp)

	clean := run(c,
		group{func() *validation.Finding { return check.MIIOptional(conn.ID, port, sp) }},
		group{cbs(sp, check.MDISpeed(port))},
	)
	if clean {
		sp.MDIConfig = model.CloneMDI(port.MDIConfig)
	}
	return true
}

func (r *Resolver) ecuPortToInterface(conn *model.ECUPortToInterface, c *validation.Collector) bool {
	port, ok := lookup(r.scope.ECUPorts, conn.ID, conn.ECUPortName, c)
	if !ok {
		return false
	}
	iface, ok := lookup(r.scope.Interfaces, conn.ID, conn.InterfaceName, c)
	if !ok || !claim(r.scope.Names, conn, c) {
		return false
	}
	conn.ECUPort, conn.Interface = port, iface
	bind(port, iface)

	speed := check.MDISpeed(port)
	run(c,
		group{func() *validation.Finding { return check.MIIOptional(conn.ID, port, iface) }},
		group{
			func() *validation.Finding { return check.HTB(iface.Name, iface.HTB, speed) },
			cbs(iface, speed),
		},
	)
	return true
}

func (r *Resolver) switchPortToInterface(conn *model.SwitchPortToInterface, c *validation.Collector) bool {
	sp, ok := lookup(r.scope.SwitchPorts, conn.ID, conn.SwitchPortName, c)
	if !ok {
		return false
	}
	iface, ok := lookup(r.scope.Interfaces, conn.ID, conn.InterfaceName, c)
	if !ok || !claim(r.scope.Names, conn, c) {
		return false
	}
	conn.SwitchPort, conn.Interface = sp, iface
	bind(sp, iface)

	run(c,
		group{func() *validation.Finding { return check.MIICompulsory(conn.ID, sp, iface) }},
		group{
			func() *validation.Finding { return check.HTB(iface.Name, iface.HTB, check.MIISpeed(iface)) },
			cbs(iface, check.MIISpeed(iface)),
			cbs(sp, check.MIISpeed(sp)),
		},
		securityGroup(conn.ID, sp, iface),
		timeSyncGroup(conn.ID, sp, iface),
	)
	return true
}

func (r *Resolver) switchPortToSwitchPort(conn *model.SwitchPortToSwitchPort, c *validation.Collector) bool {
	a, ok := lookup(r.scope.SwitchPorts, conn.ID, conn.SwitchPortName, c)
	if !ok {
		return false
	}
	b, ok := lookup(r.scope.SwitchPorts, conn.ID, conn.SwitchPort2Name, c)
	if !ok || !claim(r.scope.Names, conn, c) {
		return false
	}
	conn.SwitchPort, conn.SwitchPort2 = a, b
	bind(a, b)

	run(c,
		group{func() *validation.Finding { return check.MIICompulsory(conn.ID, a, b) }},
		group{
			cbs(a, check.MIISpeed(a)),
			cbs(b, check.MIISpeed(b)),
		},
		securityGroup(conn.ID, a, b),
		timeSyncGroup(conn.ID, a, b),
	)
	return true
}

func (r *Resolver) interfaceToInterface(conn *model.InterfaceToInterface, c *validation.Collector) bool {
	a, ok := lookup(r.scope.Interfaces, conn.ID, conn.InterfaceName, c)
	if !ok {
		return false
	}
	b, ok := lookup(r.scope.Interfaces, conn.ID, conn.Interface2Name, c)
	if !ok || !claim(r.scope.Names, conn, c) {
		return false
	}
	conn.Interface, conn.Interface2 = a, b
	bind(a, b)

	run(c,
		group{func() *validation.Finding { return check.MIICompulsory(conn.ID, a, b) }},
		group{
			func() *validation.Finding { return check.HTB(a.Name, a.HTB, check.MIISpeed(a)) },
			cbs(a, check.MIISpeed(a)),
			func() *validation.Finding { return check.HTB(b.Name, b.HTB, check.MIISpeed(b)) },
			cbs(b, check.MIISpeed(b)),
		},
		securityGroup(conn.ID, a, b),
		timeSyncGroup(conn.ID, a, b),
	)
	return true
}

// External resolves a connection between two ECUs against the session wide
// port registry, which must be sealed.
func External(sess *session.Session, conn *model.ECUPortToECUPort, c *validation.Collector, logger zerolog.Logger) bool {
	a, ok := lookup(sess.ECUPorts, conn.ID, conn.ECU1PortName, c)
	if !ok {
		return false
	}
	b, ok := lookup(sess.ECUPorts, conn.ID, conn.ECU2PortName, c)
	if !ok || !claim(sess.Names, conn, c) {
		return false
	}
	conn.ECU1Port, conn.ECU2Port = a, b
	bind(a, b)

	run(c, group{func() *validation.Finding { return check.MDIParity(conn.ID, a, b) }})
	sess.Links.Put(conn.ID, conn)
	logger.Debug().Str("component", "resolver").Str("connection", conn.ID).Msg("external connection resolved")
	return true
}

func securityGroup(id string, a, b model.Secured) group {
	return group{func() *validation.Finding { return check.MACsec(id, a, b) }}
}

func timeSyncGroup(id string, a, b model.Secured) group {
	return group{func() *validation.Finding { return check.GPTP(id, a, b) }}
}

// Unresolved reports an endpoint name that no registered entity carries.
func Unresolved(id, name string) *validation.Finding {
	return validation.Major(validation.CodeUnresolvedReference, "{name} in connection {id} does not exist",
		validation.Context{"name": name, "id": id})
}

func lookup[V any](reg *registry.Keyed[string, V], id, name string, c *validation.Collector) (V, bool) {
	v, ok := reg.Get(name)
	if !ok {
		c.Add(Unresolved(id, name))
	}
	return v, ok
}

// claim reserves the connection id. Only the first connection with a given
// id becomes part of the graph.
func claim(names *registry.Names, conn model.Connection, c *validation.Collector) bool {
	if err := names.Register(registry.KindConnection, conn.ConnectionID(), conn); err != nil {
		c.Key("id").Add(validation.Duplicate(string(registry.KindConnection), conn.ConnectionID()))
		return false
	}
	return true
}

func bind(a, b model.Component) {
	a.AttachPeer(b)
	b.AttachPeer(a)
}
