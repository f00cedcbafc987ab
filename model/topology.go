package model

// ConnectionType discriminates the connection kinds.
type ConnectionType string

const (
	ConnECUPortToSwitchPort    ConnectionType = "ecu_port_to_switch_port"
	ConnECUPortToInterface     ConnectionType = "ecu_port_to_controller_interface"
	ConnSwitchPortToInterface  ConnectionType = "switch_port_to_controller_interface"
	ConnSwitchPortToSwitchPort ConnectionType = "switch_to_switch_same_ecu"
	ConnInterfaceToInterface   ConnectionType = "controller_interface_to_controller_interface"
	ConnECUPortToECUPort       ConnectionType = "ecu_port_to_ecu_port"
)

// Connection is a link between two components declared by name. Endpoint
// references are nil until the connection is resolved.
type Connection interface {
	ConnectionID() string
	ConnectionType() ConnectionType
	// EndpointNames returns the textual endpoint references in declaration order.
	EndpointNames() (string, string)
	isConnection()
}

// ECUPortToSwitchPort links an ECU connector to a switch port.
type ECUPortToSwitchPort struct {
	ID             string
	ECUPortName    string
	SwitchPortName string

	ECUPort    *ECUPort
	SwitchPort *SwitchPort
}

func (c *ECUPortToSwitchPort) ConnectionID() string            { return c.ID }
func (*ECUPortToSwitchPort) ConnectionType() ConnectionType    { return ConnECUPortToSwitchPort }
func (c *ECUPortToSwitchPort) EndpointNames() (string, string) { return c.ECUPortName, c.SwitchPortName }
func (*ECUPortToSwitchPort) isConnection()                     {}

// ECUPortToInterface links an ECU connector to a controller interface.
type ECUPortToInterface struct {
	ID            string
	ECUPortName   string
	InterfaceName string

	ECUPort   *ECUPort
	Interface *ControllerInterface
}

func (c *ECUPortToInterface) ConnectionID() string            { return c.ID }
func (*ECUPortToInterface) ConnectionType() ConnectionType    { return ConnECUPortToInterface }
func (c *ECUPortToInterface) EndpointNames() (string, string) { return c.ECUPortName, c.InterfaceName }
func (*ECUPortToInterface) isConnection()                     {}

// SwitchPortToInterface links a switch port to a controller interface.
type SwitchPortToInterface struct {
	ID             string
	SwitchPortName string
	InterfaceName  string

	SwitchPort *SwitchPort
	Interface  *ControllerInterface
}

func (c *SwitchPortToInterface) ConnectionID() string            { return c.ID }
func (*SwitchPortToInterface) ConnectionType() ConnectionType    { return ConnSwitchPortToInterface }
func (c *SwitchPortToInterface) EndpointNames() (string, string) { return c.SwitchPortName, c.InterfaceName }
func (*SwitchPortToInterface) isConnection()                     {}

// SwitchPortToSwitchPort links two switch ports of the same ECU.
type SwitchPortToSwitchPort struct {
	ID              string
	SwitchPortName  string
	SwitchPort2Name string

	SwitchPort  *SwitchPort
	SwitchPort2 *SwitchPort
}

func (c *SwitchPortToSwitchPort) ConnectionID() string         { return c.ID }
func (*SwitchPortToSwitchPort) ConnectionType() ConnectionType { return ConnSwitchPortToSwitchPort }
func (c *SwitchPortToSwitchPort) EndpointNames() (string, string) {
	return c.SwitchPortName, c.SwitchPort2Name
}
func (*SwitchPortToSwitchPort) isConnection() {}

// InterfaceToInterface links two controller interfaces without a PHY.
type InterfaceToInterface struct {
	ID             string
	InterfaceName  string
	Interface2Name string

	Interface  *ControllerInterface
	Interface2 *ControllerInterface
}

func (c *InterfaceToInterface) ConnectionID() string         { return c.ID }
func (*InterfaceToInterface) ConnectionType() ConnectionType { return ConnInterfaceToInterface }
func (c *InterfaceToInterface) EndpointNames() (string, string) {
	return c.InterfaceName, c.Interface2Name
}
func (*InterfaceToInterface) isConnection() {}

// ECUPortToECUPort is an external link between connectors of two ECUs.
type ECUPortToECUPort struct {
	ID           string
	ECU1PortName string
	ECU2PortName string

	ECU1Port *ECUPort
	ECU2Port *ECUPort
}

func (c *ECUPortToECUPort) ConnectionID() string            { return c.ID }
func (*ECUPortToECUPort) ConnectionType() ConnectionType    { return ConnECUPortToECUPort }
func (c *ECUPortToECUPort) EndpointNames() (string, string) { return c.ECU1PortName, c.ECU2PortName }
func (*ECUPortToECUPort) isConnection()                     {}

// InternalTopology holds the connections inside one ECU.
type InternalTopology struct {
	Connections []Connection
}

// SystemTopology holds the links between ECUs.
type SystemTopology struct {
	Connections []*ECUPortToECUPort
}

// Topology is the system level topology block.
type Topology struct {
	System SystemTopology
}
