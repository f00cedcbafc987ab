package engine

import (
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/decode"
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/registry"
	"github.com/timzifer/ecunet/validation"
)

// claim registers name for owner and reports a duplicate at c.
func claim(names *registry.Names, kind registry.Kind, name string, owner any, c *validation.Collector) bool {
	if err := names.Register(kind, name, owner); err != nil {
		c.Key("name").Add(validation.Duplicate(string(kind), name))
		return false
	}
	return true
}

// register enters the ECU and its entities into the session. An ECU whose
// name is taken is dropped completely. Other duplicates are reported and left
// out of the registries, so connections to them do not resolve.
func (r *run) register(e *model.ECU, c *validation.Collector) bool {
	if !claim(r.sess.Names, registry.KindECU, e.Name, e, c) {
		return false
	}
	r.sess.ECUs.Put(e.Name, e)
	scope := r.sess.Scope(e.Name)

	for i, p := range e.Ports {
		if claim(r.sess.Names, registry.KindECUPort, p.Name, p, c.Key("ports").Index(i)) {
			r.sess.ECUPorts.Put(p.Name, p)
			scope.ECUPorts.Put(p.Name, p)
		}
	}
	for i, ctrl := range e.Controllers {
		cc := c.Key("controllers").Index(i)
		claim(r.sess.Names, registry.KindController, ctrl.Name, ctrl, cc)
		for j, iface := range ctrl.Interfaces {
			if claim(scope.Names, registry.KindControllerInterface, iface.Name, iface, cc.Key("interfaces").Index(j)) {
				scope.Interfaces.Put(iface.Name, iface)
			}
		}
	}
	for i, sw := range e.Switches {
		sc := c.Key("switches").Index(i)
		claim(r.sess.Names, registry.KindSwitch, sw.Name, sw, sc)
		for j, p := range sw.Ports {
			if claim(scope.Names, registry.KindSwitchPort, p.Name, p, sc.Key("ports").Index(j)) {
				scope.SwitchPorts.Put(p.Name, p)
			}
		}
	}
	r.logger.Debug().Str("ecu", e.Name).
		Int("ports", len(e.Ports)).
		Int("interfaces", scope.Interfaces.Len()).
		Int("switch_ports", scope.SwitchPorts.Len()).
		Msg("ecu registered")
	return true
}

// general decodes the datatypes, registers their names and checks them.
func (r *run) general(n *yaml.Node, c *validation.Collector) model.General {
	g := decode.General(n, c)
	if c.HasFatal() {
		return g
	}
	list := c.Key("datatypes")
	for i, dt := range g.Datatypes {
		at := list.Index(i)
		if claim(r.sess.Names, registry.KindDatatype, dt.DatatypeName(), dt, at) {
			r.sess.Datatypes.Put(dt.DatatypeName(), dt)
		}
		checkDatatype(dt, at)
	}
	return g
}
