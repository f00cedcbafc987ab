package decode

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

func parse(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &n))
	return &n
}

func codesAt(fs validation.Findings) map[string]validation.Code {
	out := make(map[string]validation.Code, len(fs))
	for _, f := range fs {
		out[f.Path.String()] = f.Code
	}
	return out
}

const minimalECU = `
name: front
ports:
  - name: p1
controllers:
  - name: c1
    interfaces:
      - name: eth0
        mac_address: "02:00:00:00:00:01"
topology:
  connections: []
ecu_metadata:
  author: team
`

func TestECUDefaults(t *testing.T) {
	c := validation.NewCollector(validation.Path{"ecus", 0})
	e := ECU(parse(t, minimalECU), c)

	require.Empty(t, c.Findings())
	require.Equal(t, "front", e.Name)
	require.Len(t, e.Ports, 1)
	require.Same(t, e, e.Ports[0].ECU)
	require.Equal(t, model.MDIBaseT1, e.Ports[0].MDIConfig.MDIMode())
	require.Equal(t, 100, e.Ports[0].MDIConfig.LinkSpeed())
	require.Nil(t, e.Ports[0].MIIConfig)
	require.Empty(t, e.Ports[0].Peers)
	require.Equal(t, "eth0", e.Controllers[0].Interfaces[0].Name)
	require.Equal(t, "team", e.Metadata.Author)
}

func TestMissingAndExtraFieldsAreFatal(t *testing.T) {
	src := `
name: front
ports:
  - name: p1
    colour: red
controllers: []
ecu_metadata: {}
`
	c := validation.NewCollector(validation.Path{"ecus", 0})
	ECU(parse(t, src), c)

	require.True(t, c.HasFatal())
	codes := codesAt(c.Findings())
	require.Equal(t, validation.CodeMissing, codes["ecus[0].topology"])
	require.Equal(t, validation.CodeExtraForbidden, codes["ecus[0].ports[0].colour"])
}

func TestEmptyPortListIsMajor(t *testing.T) {
	src := `
name: front
ports: []
controllers: []
topology: {}
ecu_metadata: {}
`
	c := validation.NewCollector(nil)
	ECU(parse(t, src), c)

	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Equal(t, validation.SeverityMajor, fs[0].Severity)
	require.Equal(t, "ports", fs[0].Path.String())
	require.False(t, c.HasFatal())
}

func TestUnknownConnectionTagIsFatal(t *testing.T) {
	src := `
connections:
  - type: ecu_port_to_nowhere
    id: c1
  - type: ecu_port_to_switch_port
    id: c2
    ecu_port: p1
    switch_port: sp1
`
	c := validation.NewCollector(nil)
	topo := InternalTopology(parse(t, src), c)

	require.True(t, c.HasFatal())
	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Equal(t, validation.CodeUnknownTag, fs[0].Code)
	require.Equal(t, "connections[0].type", fs[0].Path.String())

	require.Len(t, topo.Connections, 1)
	conn, ok := topo.Connections[0].(*model.ECUPortToSwitchPort)
	require.True(t, ok)
	require.Equal(t, "c2", conn.ID)
	require.Nil(t, conn.ECUPort)
	a, b := conn.EndpointNames()
	require.Equal(t, "p1", a)
	require.Equal(t, "sp1", b)
}

func TestInvalidTypeIsFatal(t *testing.T) {
	src := `
mode: base_t1
speed: fast
`
	c := validation.NewCollector(nil)
	mdiConfig(parse(t, src), c)
	require.True(t, c.HasFatal())
	require.Equal(t, validation.CodeInvalidType, c.Findings()[0].Code)
}

func TestVariantsAndRanges(t *testing.T) {
	src := `
name: eth0
mac_address: "03:00:00:00:00:01"
mii_config: {type: rgmii, mode: mac, speed: 1000}
macsec_config:
  vlan_bypass: [0]
  hello_time: 2000
  bounded_hello_time: 500
  life_time: 6000
  sak_retire_time: 3000
  macsec_mode: integrity
  kay_on: true
  key_role: key_server_always
  delay_protect: false
  participant_activation: always
  cipher_preference:
    - type: integrity_with_confidentiality
      offset_preference: 30
ptp_config:
  cmlds_linkport_enabled: true
  ptp_ports:
    - domain_id: 0
      src_port_identity: 1
      sync_config: {type: time_transmitter, log_tx_period: 2}
traffic_classes:
  - name: tc7
    priority: 7
    frame_priority_values: [7, 9]
    selection_mechanisms: {type: cbs, idleslope: 2500.5}
virtual_interfaces:
  - name: vlan10
    vlan_id: 10
    addresses:
      - {address: 10.0.0.1, prefix_length: 24}
      - {address: 10.0.0.300, prefix_length: 24}
      - {address: "fd00::1", prefix_length: 64}
`
	c := validation.NewCollector(nil)
	iface := controllerInterface(parse(t, src), c)

	require.False(t, c.HasFatal())
	codes := codesAt(c.Findings())
	require.Equal(t, validation.CodeInconsistent, codes["mac_address"])
	require.Equal(t, validation.CodeOutOfRange, codes["macsec_config.vlan_bypass[0]"])
	require.Equal(t, validation.CodeOutOfRange, codes["ptp_config.ptp_ports[0].sync_config.log_tx_period"])
	require.Equal(t, validation.CodeOutOfRange, codes["traffic_classes[0].frame_priority_values[1]"])
	require.Equal(t, validation.CodeInvalidType, codes["virtual_interfaces[0].addresses[1].address"])
	require.Len(t, c.Findings(), 5)

	require.Equal(t, model.MIITypeRGMII, iface.MIIConfig.Type)
	require.True(t, iface.MACsecConfig.MKAEnabled)
	require.Equal(t, []model.Cipher{model.IntegrityWithConfidentiality{OffsetPreference: 30}}, iface.MACsecConfig.CipherPreference)
	require.Equal(t, model.SyncTimeTransmitter, iface.PTPConfig.Ports[0].Sync.SyncType())
	require.Equal(t, "2500.5", iface.TrafficClasses[0].Shaper.IdleSlope.String())
	require.Len(t, iface.VirtualInterfaces[0].Addresses, 2)
	require.True(t, iface.VirtualInterfaces[0].Addresses[1].Address.Is6())
}

func TestDatatypes(t *testing.T) {
	src := `
datatypes:
  - name: Gear
    type: enum
    base_type: uint16
    entries:
      - {name: park, value: 0}
      - {name: big, value: 300}
  - name: Payload
    type: struct
    members:
      - {name: speed, type: float32}
      - {name: gear, type: uint8, endianness: LE}
  - name: Choice
    type: union
    members:
      - {index: 0, name: a, type: uint8}
      - {index: 1, name: b, type: {name: inner, type: boolean}}
  - name: Odd
    type: quaternion
`
	c := validation.NewCollector(validation.Path{"general"})
	g := General(parse(t, src), c)

	require.True(t, c.HasFatal())
	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Equal(t, "general.datatypes[3].type", fs[0].Path.String())

	require.Len(t, g.Datatypes, 3)
	enum := g.Datatypes[0].(*model.Enum)
	require.Equal(t, model.TypeUInt16, enum.BaseType)
	require.Equal(t, "300", enum.Entries[1].Value.String())

	st := g.Datatypes[1].(*model.Struct)
	require.Len(t, st.Members, 2)
	require.Equal(t, "LE", st.Members[1].(*model.Primitive).Endianness)

	un := g.Datatypes[2].(*model.Union)
	require.Equal(t, model.TypeUInt8, un.Members[0].Type.DatatypeType())
	require.Equal(t, model.TypeBoolean, un.Members[1].Type.DatatypeType())
	require.Equal(t, 32, un.LengthOfTypeField)
}

func TestDatatypeLiterals(t *testing.T) {
	src := `
datatypes:
  - name: Mode
    type: enum
    base_type: uint8
    entries:
      - {name: hex, value: 0x10}
      - {name: octal, value: 0o17}
      - {name: binary, value: 0b101}
      - {name: grouped, value: 1_000}
  - name: Choice
    type: union
    members:
      - {index: 0, name: a, type: " UInt8 "}
      - {index: 1, name: b, type: Float64}
`
	c := validation.NewCollector(validation.Path{"general"})
	g := General(parse(t, src), c)
	require.Empty(t, c.Findings())
	require.Len(t, g.Datatypes, 2)

	enum := g.Datatypes[0].(*model.Enum)
	var values []string
	for _, e := range enum.Entries {
		values = append(values, e.Value.String())
	}
	require.Equal(t, []string{"16", "15", "5", "1000"}, values)

	un := g.Datatypes[1].(*model.Union)
	require.Equal(t, model.TypeUInt8, un.Members[0].Type.DatatypeType())
	require.Equal(t, model.TypeFloat64, un.Members[1].Type.DatatypeType())
}

func TestRootRequiresSections(t *testing.T) {
	c := validation.NewCollector(nil)
	doc := Root(parse(t, "ecus: []\nextra: 1\n"), c)

	codes := codesAt(c.Findings())
	require.Equal(t, validation.CodeMissing, codes["topology"])
	require.Equal(t, validation.CodeMissing, codes["metadata"])
	require.Equal(t, validation.CodeExtraForbidden, codes["extra"])
	require.Empty(t, doc.ECUs)

	c = validation.NewCollector(nil)
	Root(parse(t, "- a\n"), c)
	require.Equal(t, validation.CodeInvalidType, c.Findings()[0].Code)
}

func TestSystemTopology(t *testing.T) {
	src := `
system_topology:
  connections:
    - {type: ecu_port_to_ecu_port, id: x1, ecu1_port: p1, ecu2_port: q1}
`
	c := validation.NewCollector(nil)
	topo := Topology(parse(t, src), c)
	require.Empty(t, c.Findings())
	require.Len(t, topo.System.Connections, 1)
	require.Equal(t, "q1", topo.System.Connections[0].ECU2PortName)
}
