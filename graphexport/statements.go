package graphexport

import (
	"fmt"

	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/registry"
)

// Statement is one parameterised Cypher write.
type Statement struct {
	Cypher string
	Params map[string]any
}

// Node labels used in the exported graph.
const (
	LabelECU        = "ECU"
	LabelECUPort    = "ECUPort"
	LabelController = "Controller"
	LabelInterface  = "ControllerInterface"
	LabelSwitch     = "Switch"
	LabelSwitchPort = "SwitchPort"
)

var kindLabels = map[registry.Kind]string{
	registry.KindECUPort:             LabelECUPort,
	registry.KindControllerInterface: LabelInterface,
	registry.KindSwitchPort:          LabelSwitchPort,
}

// builder collects the statements for one system.
type builder struct {
	session string
	stmts   []Statement
	nodes   int
	edges   int
}

func (b *builder) node(label, id string, props map[string]any) {
	props["session"] = b.session
	b.stmts = append(b.stmts, Statement{
		Cypher: fmt.Sprintf(`MERGE (n:%s {id: $id}) SET n += $props`, label),
		Params: map[string]any{"id": id, "props": props},
	})
	b.nodes++
}

func (b *builder) contains(parentLabel, parentID, label, id, rel string) {
	b.stmts = append(b.stmts, Statement{
		Cypher: fmt.Sprintf(`MATCH (a:%s {id: $from}), (b:%s {id: $to})
MERGE (a)-[:%s]->(b)`, parentLabel, label, rel),
		Params: map[string]any{"from": parentID, "to": id},
	})
	b.edges++
}

func (b *builder) link(id string, typ model.ConnectionType, from, to model.Component) {
	b.stmts = append(b.stmts, Statement{
		Cypher: fmt.Sprintf(`MATCH (a:%s {id: $from}), (b:%s {id: $to})
MERGE (a)-[r:CONNECTED {id: $id}]->(b)
SET r.type = $type, r.session = $session`, kindLabels[from.ComponentKind()], kindLabels[to.ComponentKind()]),
		Params: map[string]any{
			"from":    nodeID(from),
			"to":      nodeID(to),
			"id":      id,
			"type":    string(typ),
			"session": b.session,
		},
	})
	b.edges++
}

// nodeID returns the graph key of a component. Interfaces and switch ports
// are only unique inside their ECU and are prefixed with its name.
func nodeID(c model.Component) string {
	switch v := c.(type) {
	case *model.ECUPort:
		return v.Name
	case *model.ControllerInterface:
		return scoped(v.Controller.ECU, v.Name)
	case *model.SwitchPort:
		return scoped(v.Switch.ECU, v.Name)
	default:
		return c.ComponentName()
	}
}

func scoped(e *model.ECU, name string) string {
	if e == nil {
		return name
	}
	return e.Name + "/" + name
}

// endpoints returns the resolved components of conn, or nils when the
// connection was left unresolved.
func endpoints(conn model.Connection) (model.Component, model.Component) {
	switch c := conn.(type) {
	case *model.ECUPortToSwitchPort:
		if c.ECUPort != nil && c.SwitchPort != nil {
			return c.ECUPort, c.SwitchPort
		}
	case *model.ECUPortToInterface:
		if c.ECUPort != nil && c.Interface != nil {
			return c.ECUPort, c.Interface
		}
	case *model.SwitchPortToInterface:
		if c.SwitchPort != nil && c.Interface != nil {
			return c.SwitchPort, c.Interface
		}
	case *model.SwitchPortToSwitchPort:
		if c.SwitchPort != nil && c.SwitchPort2 != nil {
			return c.SwitchPort, c.SwitchPort2
		}
	case *model.InterfaceToInterface:
		if c.Interface != nil && c.Interface2 != nil {
			return c.Interface, c.Interface2
		}
	case *model.ECUPortToECUPort:
		if c.ECU1Port != nil && c.ECU2Port != nil {
			return c.ECU1Port, c.ECU2Port
		}
	}
	return nil, nil
}

// Statements renders the MERGE statements for sys. Nodes come before the
// relationships that match them.
func Statements(sys *model.System, sessionID string) []Statement {
	b := &builder{session: sessionID}
	b.build(sys)
	return b.stmts
}

func (b *builder) build(sys *model.System) {
	if sys == nil {
		return
	}
	for _, e := range sys.ECUs {
		b.node(LabelECU, e.Name, map[string]any{"name": e.Name, "author": e.Metadata.Author})
		for _, p := range e.Ports {
			props := map[string]any{"name": p.Name, "peers": len(p.ConnectedPeers())}
			if peer := p.InternalPeer(); peer != nil {
				props["internal_peer"] = peer.ComponentName()
			}
			if p.MDIConfig != nil {
				props["mdi_mode"] = string(p.MDIConfig.MDIMode())
				props["speed"] = p.MDIConfig.LinkSpeed()
			}
			b.node(LabelECUPort, p.Name, props)
			b.contains(LabelECU, e.Name, LabelECUPort, p.Name, "HAS_PORT")
		}
		for _, ctrl := range e.Controllers {
			b.node(LabelController, ctrl.Name, map[string]any{"name": ctrl.Name})
			b.contains(LabelECU, e.Name, LabelController, ctrl.Name, "HAS_CONTROLLER")
			for _, iface := range ctrl.Interfaces {
				id := scoped(e, iface.Name)
				b.node(LabelInterface, id, map[string]any{"name": iface.Name, "mac_address": iface.MACAddress})
				b.contains(LabelController, ctrl.Name, LabelInterface, id, "HAS_INTERFACE")
			}
		}
		for _, sw := range e.Switches {
			b.node(LabelSwitch, sw.Name, map[string]any{"name": sw.Name})
			b.contains(LabelECU, e.Name, LabelSwitch, sw.Name, "HAS_SWITCH")
			for _, p := range sw.Ports {
				id := scoped(e, p.Name)
				b.node(LabelSwitchPort, id, map[string]any{"name": p.Name, "silicon_port_no": p.SiliconPortNo})
				b.contains(LabelSwitch, sw.Name, LabelSwitchPort, id, "HAS_PORT")
			}
		}
	}
	for _, e := range sys.ECUs {
		for _, conn := range e.Topology.Connections {
			if from, to := endpoints(conn); from != nil {
				b.link(scoped(e, conn.ConnectionID()), conn.ConnectionType(), from, to)
			}
		}
	}
	for _, conn := range sys.Topology.System.Connections {
		if from, to := endpoints(conn); from != nil {
			b.link(conn.ID, conn.ConnectionType(), from, to)
		}
	}
}
