package check

import (
	"net"
	"net/netip"

	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

// MACsec checks that both ends of a link agree on MACsec.
func MACsec(id string, a, b model.Secured) *validation.Finding {
	if a == nil || b == nil {
		return nil
	}
	ma, mb := a.MACsec(), b.MACsec()
	if ma == nil && mb == nil {
		return nil
	}
	ctx := validation.Context{"id": id, "a": a.ComponentName(), "b": b.ComponentName()}
	if ma == nil || mb == nil {
		return validation.Major(validation.CodeIncompatible,
			"Incomplete MACsec config. {a} and {b} in connection {id} should both have a macsec config", ctx)
	}
	if ma.MKAEnabled != mb.MKAEnabled {
		return validation.Major(validation.CodeIncompatible,
			"MKA should be enabled in both {a} and {b} in connection {id}", ctx)
	}
	if ma.Mode != mb.Mode {
		return validation.Major(validation.CodeIncompatible,
			"Both {a} and {b} should have the same macsec_mode in connection {id}", ctx)
	}
	return nil
}

// MACsecMKA rejects a configuration that protects frames without key agreement.
func MACsecMKA(cfg *model.MACsecConfig) *validation.Finding {
	if cfg == nil {
		return nil
	}
	if !cfg.MKAEnabled && cfg.Mode != model.MACsecDisabled {
		return validation.Major(validation.CodeInconsistent,
			"If MKA is not enabled, macsec_mode should be disabled (got {mode}).",
			validation.Context{"mode": cfg.Mode})
	}
	return nil
}

// MACsecLifetime reports a peer life time shorter than the hello time.
func MACsecLifetime(cfg *model.MACsecConfig) *validation.Finding {
	if cfg == nil {
		return nil
	}
	if cfg.LifeTime < cfg.HelloTime {
		return validation.Minor(validation.CodeInconsistent,
			"Life time ({life}) should be greater than hello time ({hello}).",
			validation.Context{"life": cfg.LifeTime, "hello": cfg.HelloTime})
	}
	return nil
}

// FirewallPattern checks a single rule pattern.
func FirewallPattern(rule string, p model.FrameFilter) *validation.Finding {
	conflict := func(x, y string) *validation.Finding {
		return validation.Major(validation.CodeInconsistent,
			"Firewall rule {rule} cannot have both {x} and {y} set",
			validation.Context{"rule": rule, "x": x, "y": y})
	}
	switch {
	case p.Empty():
		return validation.Major(validation.CodeInconsistent,
			"At least one of the fields in pattern of firewall rule {rule} should be present",
			validation.Context{"rule": rule})
	case p.DstIPv4 != nil && p.DstIPv6 != nil:
		return conflict("dst ipv4", "dst ipv6")
	case p.SrcIPv4 != nil && p.SrcIPv6 != nil:
		return conflict("src ipv4", "src ipv6")
	case p.SrcIPv4 != nil && p.DstIPv6 != nil:
		return conflict("src ipv4", "dst ipv6")
	case p.SrcIPv6 != nil && p.DstIPv4 != nil:
		return conflict("src ipv6", "dst ipv4")
	}
	return nil
}

// FirewallRules rejects two rules of one list matching the same pattern.
func FirewallRules(list string, rules []model.FirewallRule) *validation.Finding {
	for i := range rules {
		for j := 0; j < i; j++ {
			if rules[i].Pattern.Equal(rules[j].Pattern) {
				return validation.Major(validation.CodeDuplicateValue,
					"Two or more rules in {list} cannot be the same: {first} and {second}",
					validation.Context{"list": list, "first": rules[j].Name, "second": rules[i].Name})
			}
		}
	}
	return nil
}

// IPAddress parses an address literal. Zoned addresses are rejected.
func IPAddress(literal string) (netip.Addr, *validation.Finding) {
	addr, err := netip.ParseAddr(literal)
	if err != nil || addr.Zone() != "" {
		return netip.Addr{}, validation.Major(validation.CodeInvalidType,
			"{value} is not a valid IP address", validation.Context{"value": literal})
	}
	return addr, nil
}

// IPFamily checks that literal is an address of the requested family.
func IPFamily(literal string, v6 bool) *validation.Finding {
	addr, f := IPAddress(literal)
	if f != nil {
		return f
	}
	if addr.Is6() != v6 || (v6 && addr.Is4In6()) {
		family := "IPv4"
		if v6 {
			family = "IPv6"
		}
		return validation.Major(validation.CodeInvalidType,
			"{value} is not a valid {family} address", validation.Context{"value": literal, "family": family})
	}
	return nil
}

// MACUnicast reports a MAC address that is malformed or not unicast.
func MACUnicast(literal string) *validation.Finding {
	hw, err := net.ParseMAC(literal)
	if err != nil || len(hw) != 6 {
		return validation.Minor(validation.CodeInvalidType,
			"{value} is not a valid MAC address", validation.Context{"value": literal})
	}
	if hw[0]&0x01 != 0 {
		return validation.Minor(validation.CodeInconsistent,
			"{value} is not a unicast MAC address", validation.Context{"value": literal})
	}
	return nil
}
