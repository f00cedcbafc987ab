package decode

import (
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

var internalConnectionTypes = []string{
	string(model.ConnECUPortToSwitchPort),
	string(model.ConnECUPortToInterface),
	string(model.ConnSwitchPortToInterface),
	string(model.ConnSwitchPortToSwitchPort),
	string(model.ConnInterfaceToInterface),
}

// InternalTopology decodes the topology block of an ECU.
func InternalTopology(n *yaml.Node, c *validation.Collector) model.InternalTopology {
	var t model.InternalTopology
	o, ok := asObject(n, c)
	if !ok {
		return t
	}
	defer o.done()
	o.each("connections", false, func(n *yaml.Node, c *validation.Collector) {
		if conn := internalConnection(n, c); conn != nil {
			t.Connections = append(t.Connections, conn)
		}
	})
	return t
}

func internalConnection(n *yaml.Node, c *validation.Collector) model.Connection {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	typ, ok := tag(o, "type", internalConnectionTypes...)
	if !ok {
		return nil
	}
	id := o.str("id", true, "")
	switch model.ConnectionType(typ) {
	case model.ConnECUPortToSwitchPort:
		return &model.ECUPortToSwitchPort{ID: id, ECUPortName: o.str("ecu_port", true, ""), SwitchPortName: o.str("switch_port", true, "")}
	case model.ConnECUPortToInterface:
		return &model.ECUPortToInterface{ID: id, ECUPortName: o.str("ecu_port", true, ""), InterfaceName: o.str("controller_interface", true, "")}
	case model.ConnSwitchPortToInterface:
		return &model.SwitchPortToInterface{ID: id, SwitchPortName: o.str("switch_port", true, ""), InterfaceName: o.str("controller_interface", true, "")}
	case model.ConnSwitchPortToSwitchPort:
		return &model.SwitchPortToSwitchPort{ID: id, SwitchPortName: o.str("switch_port", true, ""), SwitchPort2Name: o.str("switch2_port", true, "")}
	case model.ConnInterfaceToInterface:
		return &model.InterfaceToInterface{ID: id, InterfaceName: o.str("controller_interface1", true, ""), Interface2Name: o.str("controller_interface2", true, "")}
	}
	return nil
}

// Topology decodes the system topology block.
func Topology(n *yaml.Node, c *validation.Collector) model.Topology {
	var t model.Topology
	o, ok := asObject(n, c)
	if !ok {
		return t
	}
	defer o.done()
	sn, sc, ok := o.required("system_topology")
	if !ok {
		return t
	}
	so, ok := asObject(sn, sc)
	if !ok {
		return t
	}
	defer so.done()
	so.each("connections", false, func(n *yaml.Node, c *validation.Collector) {
		co, ok := asObject(n, c)
		if !ok {
			return
		}
		defer co.done()
		if _, ok := tag(co, "type", string(model.ConnECUPortToECUPort)); !ok {
			return
		}
		t.System.Connections = append(t.System.Connections, &model.ECUPortToECUPort{
			ID:           co.str("id", true, ""),
			ECU1PortName: co.str("ecu1_port", true, ""),
			ECU2PortName: co.str("ecu2_port", true, ""),
		})
	})
	return t
}
