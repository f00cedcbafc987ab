package engine

import (
	"github.com/timzifer/ecunet/check"
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

// checkECU runs the rules that need nothing but the ECU itself.
func checkECU(e *model.ECU, c *validation.Collector) {
	for i, p := range e.Ports {
		c.Key("ports").Index(i).Add(check.PortSpeeds(p))
	}
	for i, ctrl := range e.Controllers {
		for j, iface := range ctrl.Interfaces {
			at := c.Key("controllers").Index(i).Key("interfaces").Index(j)
			checkMACsec(iface.MACsecConfig, at)
			at.Key("traffic_classes").Add(check.TrafficClasses(iface.Name, iface.TrafficClasses))
			if iface.Firewall != nil {
				checkFirewall(iface.Firewall, at.Key("firewall"))
			}
		}
	}
	for i, sw := range e.Switches {
		for j, p := range sw.Ports {
			at := c.Key("switches").Index(i).Key("ports").Index(j)
			checkMACsec(p.MACsecConfig, at)
			at.Key("traffic_classes").Add(check.TrafficClasses(p.Name, p.TrafficClasses))
		}
	}
}

func checkMACsec(cfg *model.MACsecConfig, c *validation.Collector) {
	if cfg == nil {
		return
	}
	at := c.Key("macsec_config")
	at.Add(check.MACsecMKA(cfg))
	at.Add(check.MACsecLifetime(cfg))
}

func checkFirewall(fw *model.Firewall, c *validation.Collector) {
	lists := []struct {
		key   string
		rules []model.FirewallRule
	}{
		{"input_rules", fw.InputRules},
		{"output_rules", fw.OutputRules},
		{"forward_rules", fw.ForwardRules},
	}
	for _, list := range lists {
		at := c.Key(list.key)
		for i, rule := range list.rules {
			at.Index(i).Key("pattern").Add(check.FirewallPattern(rule.Name, rule.Pattern))
		}
		at.Add(check.FirewallRules(list.key, list.rules))
	}
}

// checkDatatype checks dt and every datatype nested in it.
func checkDatatype(dt model.Datatype, c *validation.Collector) {
	switch v := dt.(type) {
	case *model.Enum:
		c.Add(check.Enum(v))
	case *model.Struct:
		c.Key("members").Add(check.StructMembers(v))
		for i, m := range v.Members {
			checkDatatype(m, c.Key("members").Index(i))
		}
	case *model.Union:
		c.Key("members").Add(check.UnionMembers(v))
		for i, m := range v.Members {
			checkDatatype(m.Type, c.Key("members").Index(i).Key("type"))
		}
	}
}
