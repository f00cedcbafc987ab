package decode

import (
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/check"
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

var mdiSpeeds = map[model.MDIMode][]int{
	model.MDIBaseT1:  {100, 1000},
	model.MDIBaseT1S: {10},
	model.MDIBaseT:   {10, 100, 1000},
}

func mdiConfig(n *yaml.Node, c *validation.Collector) model.MDI {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	mode, ok := tag(o, "mode", string(model.MDIBaseT1), string(model.MDIBaseT1S), string(model.MDIBaseT))
	if !ok {
		return nil
	}
	role := o.literal("role", false, model.RoleAuto, model.RoleMaster, model.RoleSlave, model.RoleAuto)
	var out model.MDI
	switch model.MDIMode(mode) {
	case model.MDIBaseT1:
		out = &model.BaseT1{Speed: o.integer("speed", false, 100), Role: role}
	case model.MDIBaseT1S:
		m := &model.BaseT1S{Speed: o.integer("speed", false, 10), Role: role}
		if pn, pc, ok := o.optional("plca"); ok {
			m.PLCA = plca(pn, pc)
		}
		out = m
	case model.MDIBaseT:
		out = &model.BaseT{
			Speed:           o.integer("speed", false, 1000),
			Role:            role,
			AutoNegotiation: o.boolean("autonegotiation", false, true),
		}
	}
	c.Key("speed").Add(check.OneOf("speed", out.LinkSpeed(), mdiSpeeds[out.MDIMode()]...))
	return out
}

func plca(n *yaml.Node, c *validation.Collector) *model.PLCA {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	p := &model.PLCA{
		NodeID:    o.integer("node_id", true, 0),
		NodeCount: o.integer("node_count", true, 0),
	}
	c.Key("node_id").Add(check.IntRange("node_id", p.NodeID, 0, 254))
	c.Key("node_count").Add(check.IntRange("node_count", p.NodeCount, 1, 255))
	return p
}

func miiConfig(n *yaml.Node, c *validation.Collector) *model.MII {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	typ, ok := tag(o, "type",
		string(model.MIITypeMII), string(model.MIITypeRMII), string(model.MIITypeSGMII),
		string(model.MIITypeRGMII), string(model.MIITypeXFI))
	if !ok {
		return nil
	}
	m := &model.MII{
		Type:  model.MIIType(typ),
		Mode:  o.literal("mode", true, "", model.MIIModeMAC, model.MIIModePHY),
		Speed: o.integer("speed", true, 0),
	}
	if m.Speed != 0 {
		c.Key("speed").Add(check.OneOf("speed", m.Speed, model.MIISpeeds[m.Type]...))
	}
	return m
}
