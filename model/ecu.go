package model

import (
	"net/netip"

	"github.com/timzifer/ecunet/registry"
)

// Component is a connectable network element inside an ECU.
type Component interface {
	ComponentName() string
	ComponentKind() registry.Kind
	// MII returns the media-independent interface configuration or nil.
	MII() *MII
	// AttachPeer records peer as connected. Single-peer components overwrite
	// the previous peer, multi-peer components append.
	AttachPeer(peer Component)
	ConnectedPeers() []Component
}

// Secured is a component that can carry MACsec, gPTP and shaping settings.
type Secured interface {
	Component
	MACsec() *MACsecConfig
	PTP() *PTPConfig
	Classes() []TrafficClass
}

// ECU is an electronic control unit.
type ECU struct {
	Name        string
	Ports       []*ECUPort
	Controllers []*Controller
	Switches    []*Switch
	Topology    InternalTopology
	Metadata    ECUMetadata
}

// Interfaces returns every controller interface of the ECU.
func (e *ECU) Interfaces() []*ControllerInterface {
	var out []*ControllerInterface
	for _, c := range e.Controllers {
		out = append(out, c.Interfaces...)
	}
	return out
}

// SwitchPorts returns every switch port of the ECU.
func (e *ECU) SwitchPorts() []*SwitchPort {
	var out []*SwitchPort
	for _, s := range e.Switches {
		out = append(out, s.Ports...)
	}
	return out
}

// IPs returns every address assigned to the ECU's virtual interfaces in
// declaration order.
func (e *ECU) IPs() []netip.Addr {
	var out []netip.Addr
	for _, iface := range e.Interfaces() {
		for _, v := range iface.VirtualInterfaces {
			for _, a := range v.Addresses {
				out = append(out, a.Address)
			}
		}
	}
	return out
}

// ECUPort is a physical connector of an ECU.
type ECUPort struct {
	Name      string
	MDIConfig MDI
	MIIConfig *MII
	ECU       *ECU
	Peers     []Component
}

func (p *ECUPort) ComponentName() string        { return p.Name }
func (p *ECUPort) ComponentKind() registry.Kind { return registry.KindECUPort }
func (p *ECUPort) MII() *MII                    { return p.MIIConfig }
func (p *ECUPort) AttachPeer(peer Component)    { p.Peers = append(p.Peers, peer) }
func (p *ECUPort) ConnectedPeers() []Component  { return p.Peers }

// InternalPeer returns the first peer located inside the ECU.
func (p *ECUPort) InternalPeer() Component {
	for _, c := range p.Peers {
		if c.ComponentKind() != registry.KindECUPort {
			return c
		}
	}
	return nil
}

// Controller is a network controller with one or more interfaces.
type Controller struct {
	Name       string
	Interfaces []*ControllerInterface
	ECU        *ECU
}

// VirtualInterface is a VLAN interface on top of a controller interface.
type VirtualInterface struct {
	Name      string
	VLANID    int
	Addresses []IPAddress
}

// IPAddress is an address with its prefix length.
type IPAddress struct {
	Address netip.Addr
	Prefix  int
}

// ControllerInterface is a MAC of a controller.
type ControllerInterface struct {
	Name              string
	MACAddress        string
	MIIConfig         *MII
	HTB               *HTB
	MACsecConfig      *MACsecConfig
	PTPConfig         *PTPConfig
	TrafficClasses    []TrafficClass
	Firewall          *Firewall
	VirtualInterfaces []VirtualInterface
	Controller        *Controller
	Peer              Component
}

func (i *ControllerInterface) ComponentName() string        { return i.Name }
func (i *ControllerInterface) ComponentKind() registry.Kind { return registry.KindControllerInterface }
func (i *ControllerInterface) MII() *MII                    { return i.MIIConfig }
func (i *ControllerInterface) MACsec() *MACsecConfig        { return i.MACsecConfig }
func (i *ControllerInterface) PTP() *PTPConfig              { return i.PTPConfig }
func (i *ControllerInterface) Classes() []TrafficClass      { return i.TrafficClasses }
func (i *ControllerInterface) AttachPeer(peer Component)    { i.Peer = peer }
func (i *ControllerInterface) ConnectedPeers() []Component  { return single(i.Peer) }

// Switch is an Ethernet switch inside an ECU.
type Switch struct {
	Name  string
	Ports []*SwitchPort
	ECU   *ECU
}

// SwitchPort is a port of a switch. MDIConfig is copied from the ECU port it
// is connected to during resolution.
type SwitchPort struct {
	Name           string
	SiliconPortNo  int
	DefaultVLAN    int
	MIIConfig      *MII
	MDIConfig      MDI
	MACsecConfig   *MACsecConfig
	PTPConfig      *PTPConfig
	TrafficClasses []TrafficClass
	Switch         *Switch
	Peer           Component
}

func (p *SwitchPort) ComponentName() string        { return p.Name }
func (p *SwitchPort) ComponentKind() registry.Kind { return registry.KindSwitchPort }
func (p *SwitchPort) MII() *MII                    { return p.MIIConfig }
func (p *SwitchPort) MACsec() *MACsecConfig        { return p.MACsecConfig }
func (p *SwitchPort) PTP() *PTPConfig              { return p.PTPConfig }
func (p *SwitchPort) Classes() []TrafficClass      { return p.TrafficClasses }
func (p *SwitchPort) AttachPeer(peer Component)    { p.Peer = peer }
func (p *SwitchPort) ConnectedPeers() []Component  { return single(p.Peer) }

func single(c Component) []Component {
	if c == nil {
		return nil
	}
	return []Component{c}
}

// ECUMetadata describes an ECU.
type ECUMetadata struct {
	Author          string
	HardwareVersion string
	SoftwareVersion string
	Description     string
}

// SystemMetadata describes the whole system.
type SystemMetadata struct {
	OEM      string
	Platform string
	Variant  string
	Author   string
	Version  string
}
