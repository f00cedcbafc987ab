package decode

import (
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/check"
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

func macsecConfig(n *yaml.Node, c *validation.Collector) *model.MACsecConfig {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	m := &model.MACsecConfig{
		VLANBypass:       o.ints("vlan_bypass"),
		MKAEnabled:       o.boolean("mka_enabled", false, true),
		HelloTime:        o.integer("hello_time", true, 0),
		BoundedHelloTime: o.integer("bounded_hello_time", true, 0),
		LifeTime:         o.integer("life_time", true, 0),
		SAKRetireTime:    o.integer("sak_retire_time", true, 0),
		HelloTimeRampup:  o.ints("hello_time_rampup"),
		SAKRekeyTime:     o.integer("sak_rekey_time", false, 3),
		Mode: model.MACsecMode(o.literal("macsec_mode", true, "",
			string(model.MACsecDisabled), string(model.MACsecIntegrity), string(model.MACsecIntegrityConfidentiality))),
		KayOn:                 o.boolean("kay_on", true, false),
		KeyRole:               o.literal("key_role", true, "", "key_server_always", "key_server_never"),
		DelayProtect:          o.boolean("delay_protect", true, false),
		ParticipantActivation: o.literal("participant_activation", true, "", "disabled", "onoperup", "always"),
		SCIIncluded:           o.boolean("sci_included", false, false),
	}
	for i, vlan := range m.VLANBypass {
		c.Key("vlan_bypass").Index(i).Add(check.IntRange("vlan_bypass", vlan, 1, 4095))
	}
	c.Key("sak_rekey_time").Add(check.NonNegative("sak_rekey_time", m.SAKRekeyTime))
	n, cc, ok := o.optional("cipher_preference")
	if !ok {
		m.CipherPreference = []model.Cipher{model.IntegrityWithoutConfidentiality{}}
		return m
	}
	sequence(n, cc, func(n *yaml.Node, c *validation.Collector) {
		if ci := cipher(n, c); ci != nil {
			m.CipherPreference = append(m.CipherPreference, ci)
		}
	})
	return m
}

func cipher(n *yaml.Node, c *validation.Collector) model.Cipher {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	typ, ok := tag(o, "type", string(model.CipherIntegrityOnly), string(model.CipherIntegrityConfidential))
	if !ok {
		return nil
	}
	offset := o.integer("offset_preference", false, 0)
	if model.CipherType(typ) == model.CipherIntegrityOnly {
		c.Key("offset_preference").Add(check.OneOf("offset_preference", offset, 0))
		return model.IntegrityWithoutConfidentiality{}
	}
	c.Key("offset_preference").Add(check.OneOf("offset_preference", offset, 0, 30, 50))
	return model.IntegrityWithConfidentiality{OffsetPreference: offset}
}

var firewallActions = []string{string(model.ActionReject), string(model.ActionAccept), string(model.ActionDrop)}

func firewall(n *yaml.Node, c *validation.Collector) *model.Firewall {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	fw := &model.Firewall{
		DefaultAction: model.FirewallAction(o.literal("default_action", false, string(model.ActionReject), firewallActions...)),
		InputRules:    firewallRules(o, "input_rules"),
		OutputRules:   firewallRules(o, "output_rules"),
		ForwardRules:  firewallRules(o, "forward_rules"),
	}
	return fw
}

func firewallRules(o *object, key string) []model.FirewallRule {
	var out []model.FirewallRule
	o.each(key, false, func(n *yaml.Node, c *validation.Collector) {
		ro, ok := asObject(n, c)
		if !ok {
			return
		}
		defer ro.done()
		rule := model.FirewallRule{
			Name:   ro.str("name", true, ""),
			Action: model.FirewallAction(ro.literal("action", true, "", firewallActions...)),
		}
		pn, pc, ok := ro.required("pattern")
		if !ok {
			return
		}
		rule.Pattern = frameFilter(pn, pc)
		out = append(out, rule)
	})
	return out
}

func frameFilter(n *yaml.Node, c *validation.Collector) model.FrameFilter {
	o, ok := asObject(n, c)
	if !ok {
		return model.FrameFilter{}
	}
	defer o.done()
	f := model.FrameFilter{
		SrcMAC:    o.optStr("src_mac"),
		DstMAC:    o.optStr("dst_mac"),
		VLANID:    o.optInt("vlan_id"),
		PCP:       o.optInt("pcp"),
		EtherType: o.optStr("ethertype"),
		SrcIPv4:   o.optStr("src_ipv4"),
		DstIPv4:   o.optStr("dst_ipv4"),
		SrcIPv6:   o.optStr("src_ipv6"),
		DstIPv6:   o.optStr("dst_ipv6"),
		Protocol:  o.optStr("protocol"),
		SrcPort:   o.optInt("src_port"),
		DstPort:   o.optInt("dst_port"),
	}
	if f.VLANID != nil {
		c.Key("vlan_id").Add(check.IntRange("vlan_id", *f.VLANID, check.MinVLANID, check.MaxVLANID))
	}
	if f.PCP != nil {
		c.Key("pcp").Add(check.IntRange("pcp", *f.PCP, 0, check.MaxPCP))
	}
	checkIP(c, "src_ipv4", f.SrcIPv4, false)
	checkIP(c, "dst_ipv4", f.DstIPv4, false)
	checkIP(c, "src_ipv6", f.SrcIPv6, true)
	checkIP(c, "dst_ipv6", f.DstIPv6, true)
	if f.SrcPort != nil {
		c.Key("src_port").Add(check.IntRange("src_port", *f.SrcPort, 0, 65535))
	}
	if f.DstPort != nil {
		c.Key("dst_port").Add(check.IntRange("dst_port", *f.DstPort, 0, 65535))
	}
	return f
}

func checkIP(c *validation.Collector, key string, literal *string, v6 bool) {
	if literal != nil {
		c.Key(key).Add(check.IPFamily(*literal, v6))
	}
}
