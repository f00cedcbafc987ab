package decode

import (
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/check"
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

// ECU decodes one entry of the ecus list. Entities are linked to their
// owners but never to their peers.
func ECU(n *yaml.Node, c *validation.Collector) *model.ECU {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	e := &model.ECU{Name: o.str("name", true, "")}

	count := o.each("ports", true, func(n *yaml.Node, c *validation.Collector) {
		if p := ecuPort(n, c); p != nil {
			p.ECU = e
			e.Ports = append(e.Ports, p)
		}
	})
	if _, pc, ok := o.optional("ports"); ok && count == 0 {
		pc.Add(validation.Major(validation.CodeOutOfRange, "ECU {name} needs at least one port", validation.Context{"name": e.Name}))
	}

	o.each("controllers", true, func(n *yaml.Node, c *validation.Collector) {
		if ctrl := controller(n, c); ctrl != nil {
			ctrl.ECU = e
			e.Controllers = append(e.Controllers, ctrl)
		}
	})
	o.each("switches", false, func(n *yaml.Node, c *validation.Collector) {
		if sw := switchDef(n, c); sw != nil {
			sw.ECU = e
			e.Switches = append(e.Switches, sw)
		}
	})
	if tn, tc, ok := o.required("topology"); ok {
		e.Topology = InternalTopology(tn, tc)
	}
	if mn, mc, ok := o.required("ecu_metadata"); ok {
		e.Metadata = ecuMetadata(mn, mc)
	}
	return e
}

func ecuPort(n *yaml.Node, c *validation.Collector) *model.ECUPort {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	p := &model.ECUPort{Name: o.str("name", true, "")}
	if mn, mc, ok := o.optional("mdi_config"); ok {
		p.MDIConfig = mdiConfig(mn, mc)
	} else {
		p.MDIConfig = model.DefaultMDI()
	}
	if mn, mc, ok := o.optional("mii_config"); ok {
		p.MIIConfig = miiConfig(mn, mc)
	}
	return p
}

func controller(n *yaml.Node, c *validation.Collector) *model.Controller {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	ctrl := &model.Controller{Name: o.str("name", true, "")}
	o.each("interfaces", true, func(n *yaml.Node, c *validation.Collector) {
		if iface := controllerInterface(n, c); iface != nil {
			iface.Controller = ctrl
			ctrl.Interfaces = append(ctrl.Interfaces, iface)
		}
	})
	return ctrl
}

func controllerInterface(n *yaml.Node, c *validation.Collector) *model.ControllerInterface {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	iface := &model.ControllerInterface{
		Name:       o.str("name", true, ""),
		MACAddress: o.str("mac_address", true, ""),
	}
	if iface.MACAddress != "" {
		c.Key("mac_address").Add(check.MACUnicast(iface.MACAddress))
	}
	if mn, mc, ok := o.optional("mii_config"); ok {
		iface.MIIConfig = miiConfig(mn, mc)
	}
	if hn, hc, ok := o.optional("htb"); ok {
		iface.HTB = htb(hn, hc)
	}
	if mn, mc, ok := o.optional("macsec_config"); ok {
		iface.MACsecConfig = macsecConfig(mn, mc)
	}
	if pn, pc, ok := o.optional("ptp_config"); ok {
		iface.PTPConfig = ptpConfig(pn, pc)
	}
	iface.TrafficClasses = trafficClasses(o)
	if fn, fc, ok := o.optional("firewall"); ok {
		iface.Firewall = firewall(fn, fc)
	}
	o.each("virtual_interfaces", false, func(n *yaml.Node, c *validation.Collector) {
		if v, ok := virtualInterface(n, c); ok {
			iface.VirtualInterfaces = append(iface.VirtualInterfaces, v)
		}
	})
	return iface
}

func virtualInterface(n *yaml.Node, c *validation.Collector) (model.VirtualInterface, bool) {
	o, ok := asObject(n, c)
	if !ok {
		return model.VirtualInterface{}, false
	}
	defer o.done()
	v := model.VirtualInterface{
		Name:   o.str("name", true, ""),
		VLANID: o.integer("vlan_id", true, 0),
	}
	c.Key("vlan_id").Add(check.IntRange("vlan_id", v.VLANID, check.MinVLANID, check.MaxVLANID))
	o.each("addresses", false, func(n *yaml.Node, c *validation.Collector) {
		ao, ok := asObject(n, c)
		if !ok {
			return
		}
		defer ao.done()
		literal := ao.str("address", true, "")
		prefix := ao.integer("prefix_length", true, 0)
		if literal == "" {
			return
		}
		addr, f := check.IPAddress(literal)
		if c.Key("address").Add(f) {
			return
		}
		bits := 32
		if addr.Is6() {
			bits = 128
		}
		c.Key("prefix_length").Add(check.IntRange("prefix_length", prefix, 0, bits))
		v.Addresses = append(v.Addresses, model.IPAddress{Address: addr, Prefix: prefix})
	})
	return v, true
}

func switchDef(n *yaml.Node, c *validation.Collector) *model.Switch {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	sw := &model.Switch{Name: o.str("name", true, "")}
	o.each("ports", true, func(n *yaml.Node, c *validation.Collector) {
		if p := switchPort(n, c); p != nil {
			p.Switch = sw
			sw.Ports = append(sw.Ports, p)
		}
	})
	return sw
}

func switchPort(n *yaml.Node, c *validation.Collector) *model.SwitchPort {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	p := &model.SwitchPort{
		Name:          o.str("name", true, ""),
		SiliconPortNo: o.integer("silicon_port_no", true, 0),
		DefaultVLAN:   o.integer("default_vlan_id", false, 0),
	}
	c.Key("silicon_port_no").Add(check.NonNegative("silicon_port_no", p.SiliconPortNo))
	if p.DefaultVLAN != 0 {
		c.Key("default_vlan_id").Add(check.IntRange("default_vlan_id", p.DefaultVLAN, check.MinVLANID, check.MaxVLANID))
	}
	if mn, mc, ok := o.optional("mii_config"); ok {
		p.MIIConfig = miiConfig(mn, mc)
	}
	if mn, mc, ok := o.optional("macsec_config"); ok {
		p.MACsecConfig = macsecConfig(mn, mc)
	}
	if pn, pc, ok := o.optional("ptp_config"); ok {
		p.PTPConfig = ptpConfig(pn, pc)
	}
	p.TrafficClasses = trafficClasses(o)
	return p
}

func ecuMetadata(n *yaml.Node, c *validation.Collector) model.ECUMetadata {
	o, ok := asObject(n, c)
	if !ok {
		return model.ECUMetadata{}
	}
	defer o.done()
	return model.ECUMetadata{
		Author:          o.str("author", false, ""),
		HardwareVersion: o.str("hardware_version", false, ""),
		SoftwareVersion: o.str("software_version", false, ""),
		Description:     o.str("description", false, ""),
	}
}

// SystemMetadata decodes the system metadata block.
func SystemMetadata(n *yaml.Node, c *validation.Collector) model.SystemMetadata {
	o, ok := asObject(n, c)
	if !ok {
		return model.SystemMetadata{}
	}
	defer o.done()
	return model.SystemMetadata{
		OEM:      o.str("oem", true, ""),
		Platform: o.str("platform", true, ""),
		Variant:  o.str("variant", false, ""),
		Author:   o.str("author", false, ""),
		Version:  o.str("version", false, ""),
	}
}
