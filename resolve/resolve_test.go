package resolve

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/session"
	"github.com/timzifer/ecunet/validation"
)

type fixture struct {
	ecu   *model.ECU
	port  *model.ECUPort
	sp1   *model.SwitchPort
	sp2   *model.SwitchPort
	eth0  *model.ControllerInterface
	eth1  *model.ControllerInterface
	scope *session.Scope
}

func newFixture() *fixture {
	f := &fixture{
		port: &model.ECUPort{Name: "p1", MDIConfig: &model.BaseT1{Speed: 1000, Role: model.RoleMaster}},
		sp1:  &model.SwitchPort{Name: "sp1"},
		sp2:  &model.SwitchPort{Name: "sp2"},
		eth0: &model.ControllerInterface{Name: "eth0"},
		eth1: &model.ControllerInterface{Name: "eth1"},
	}
	f.ecu = &model.ECU{
		Name:        "front",
		Ports:       []*model.ECUPort{f.port},
		Switches:    []*model.Switch{{Name: "sw", Ports: []*model.SwitchPort{f.sp1, f.sp2}}},
		Controllers: []*model.Controller{{Name: "ctrl", Interfaces: []*model.ControllerInterface{f.eth0, f.eth1}}},
	}
	f.port.ECU = f.ecu
	return f
}

func (f *fixture) seal() *Resolver {
	f.scope = session.New().Scope(f.ecu.Name)
	f.scope.ECUPorts.Put(f.port.Name, f.port)
	for _, sp := range f.ecu.SwitchPorts() {
		f.scope.SwitchPorts.Put(sp.Name, sp)
	}
	for _, iface := range f.ecu.Interfaces() {
		f.scope.Interfaces.Put(iface.Name, iface)
	}
	f.scope.Seal()
	return New(f.scope, zerolog.Nop())
}

func mii(mode string, speed int) *model.MII {
	return &model.MII{Type: model.MIITypeRGMII, Mode: mode, Speed: speed}
}

func TestBindingIsSymmetric(t *testing.T) {
	f := newFixture()
	r := f.seal()
	c := validation.NewCollector(nil)

	conn := &model.ECUPortToSwitchPort{ID: "c1", ECUPortName: "p1", SwitchPortName: "sp1"}
	require.True(t, r.Connection(conn, c))
	require.Empty(t, c.Findings())

	require.Same(t, f.port, conn.ECUPort)
	require.Same(t, f.sp1, conn.SwitchPort)
	require.Equal(t, []model.Component{f.sp1}, f.port.ConnectedPeers())
	require.Equal(t, []model.Component{f.port}, f.sp1.ConnectedPeers())
	require.Equal(t, model.Component(f.sp1), f.port.InternalPeer())
	require.Equal(t, 1, f.scope.Connections.Len())

	require.Equal(t, f.port.MDIConfig, f.sp1.MDIConfig)
	require.NotSame(t, f.port.MDIConfig.(*model.BaseT1), f.sp1.MDIConfig.(*model.BaseT1))
}

func TestMDIConfigIsCopiedOnlyWhenChecksPass(t *testing.T) {
	f := newFixture()
	f.sp1.MIIConfig = mii(model.MIIModePHY, 1000)
	r := f.seal()
	c := validation.NewCollector(nil)

	require.True(t, r.Connection(&model.ECUPortToSwitchPort{ID: "c1", ECUPortName: "p1", SwitchPortName: "sp1"}, c))
	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Equal(t, validation.SeverityMajor, fs[0].Severity)
	require.Nil(t, f.sp1.MDIConfig)
	require.Equal(t, []model.Component{f.port}, f.sp1.ConnectedPeers())
}

func TestUnresolvedEndpoint(t *testing.T) {
	f := newFixture()
	r := f.seal()
	c := validation.NewCollector(validation.Path{"ecus", 0, "topology", "connections", 0})

	conn := &model.ECUPortToSwitchPort{ID: "c1", ECUPortName: "p1", SwitchPortName: "sp9"}
	require.False(t, r.Connection(conn, c))

	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Equal(t, validation.SeverityMajor, fs[0].Severity)
	require.Equal(t, validation.CodeUnresolvedReference, fs[0].Code)
	require.Equal(t, "sp9 in connection c1 does not exist", fs[0].Message())
	require.Equal(t, "ecus[0].topology.connections[0]", fs[0].Path.String())

	require.Empty(t, f.port.Peers)
	require.Nil(t, f.sp1.MDIConfig)
	require.Nil(t, conn.ECUPort)
	require.Zero(t, f.scope.Connections.Len())
}

func TestFirstMissingEndpointEndsResolution(t *testing.T) {
	f := newFixture()
	r := f.seal()
	c := validation.NewCollector(nil)

	require.False(t, r.Connection(&model.InterfaceToInterface{ID: "c1", InterfaceName: "x", Interface2Name: "y"}, c))
	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Equal(t, "x in connection c1 does not exist", fs[0].Message())
}

func TestDuplicateConnectionID(t *testing.T) {
	f := newFixture()
	r := f.seal()
	c := validation.NewCollector(nil)

	require.True(t, r.Connection(&model.ECUPortToSwitchPort{ID: "c1", ECUPortName: "p1", SwitchPortName: "sp1"}, c))
	second := &model.SwitchPortToSwitchPort{ID: "c1", SwitchPortName: "sp1", SwitchPort2Name: "sp2"}
	require.False(t, r.Connection(second, c))

	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Equal(t, validation.CodeDuplicateName, fs[0].Code)
	require.Equal(t, "id", fs[0].Path.String())
	require.Nil(t, f.sp2.Peer)
	require.Equal(t, 1, f.scope.Connections.Len())
}

func TestCompulsoryMIIStopsLaterGroups(t *testing.T) {
	f := newFixture()
	f.sp1.MIIConfig = mii(model.MIIModeMAC, 1000)
	f.sp1.MACsecConfig = &model.MACsecConfig{MKAEnabled: true, Mode: model.MACsecIntegrity}
	r := f.seal()
	c := validation.NewCollector(nil)

	require.True(t, r.Connection(&model.SwitchPortToInterface{ID: "c2", SwitchPortName: "sp1", InterfaceName: "eth0"}, c))
	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Contains(t, fs[0].Message(), "MII configuration missing")
	require.Same(t, f.eth0, f.sp1.Peer)
}

func TestMACsecRunsAfterCleanGroups(t *testing.T) {
	f := newFixture()
	f.eth0.MIIConfig = mii(model.MIIModeMAC, 100)
	f.eth1.MIIConfig = mii(model.MIIModePHY, 100)
	f.eth0.MACsecConfig = &model.MACsecConfig{MKAEnabled: true, Mode: model.MACsecIntegrity}
	r := f.seal()
	c := validation.NewCollector(nil)

	require.True(t, r.Connection(&model.InterfaceToInterface{ID: "c3", InterfaceName: "eth0", Interface2Name: "eth1"}, c))
	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Equal(t, validation.SeverityMajor, fs[0].Severity)
	require.Contains(t, fs[0].Message(), "c3")
}

func TestIdleSlopeBudgetOnInterfaceLink(t *testing.T) {
	f := newFixture()
	f.eth0.MIIConfig = mii(model.MIIModeMAC, 100)
	f.eth1.MIIConfig = mii(model.MIIModePHY, 100)
	f.eth1.TrafficClasses = []model.TrafficClass{
		{Name: "a", Priority: 1, Shaper: &model.CBS{IdleSlope: decimal.NewFromInt(60000)}},
		{Name: "b", Priority: 2, Shaper: &model.CBS{IdleSlope: decimal.NewFromInt(50000)}},
	}
	r := f.seal()
	c := validation.NewCollector(nil)

	require.True(t, r.Connection(&model.InterfaceToInterface{ID: "c4", InterfaceName: "eth0", Interface2Name: "eth1"}, c))
	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Equal(t, validation.CodeBudgetExceeded, fs[0].Code)
	require.Contains(t, fs[0].Message(), "eth1")
}

func TestECUPortToInterfaceUsesMDISpeed(t *testing.T) {
	f := newFixture()
	f.eth0.HTB = &model.HTB{ChildClasses: []model.HTBClass{
		{Name: "bulk", Rate: decimal.NewFromInt(800)},
		{Name: "ctrl", Rate: decimal.NewFromInt(300)},
	}}
	r := f.seal()
	c := validation.NewCollector(nil)

	require.True(t, r.Connection(&model.ECUPortToInterface{ID: "c5", ECUPortName: "p1", InterfaceName: "eth0"}, c))
	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Contains(t, fs[0].Message(), "link speed 1000")
	require.Same(t, f.port, f.eth0.Peer)
}

func TestExternalConnection(t *testing.T) {
	sess := session.New()
	a := &model.ECUPort{Name: "p1", MDIConfig: &model.BaseT1{Speed: 100, Role: model.RoleMaster}}
	b := &model.ECUPort{Name: "q1", MDIConfig: &model.BaseT1{Speed: 1000, Role: model.RoleSlave}}
	sess.ECUPorts.Put("p1", a)
	sess.ECUPorts.Put("q1", b)
	sess.ECUPorts.Seal()
	c := validation.NewCollector(nil)

	conn := &model.ECUPortToECUPort{ID: "x1", ECU1PortName: "p1", ECU2PortName: "q1"}
	require.True(t, External(sess, conn, c, zerolog.Nop()))
	fs := c.Findings()
	require.Len(t, fs, 1)
	require.Contains(t, fs[0].Message(), "Incompatible MDI speed")
	require.Equal(t, []model.Component{b}, a.Peers)
	require.Equal(t, []model.Component{a}, b.Peers)
	require.Equal(t, 1, sess.Links.Len())

	missing := &model.ECUPortToECUPort{ID: "x2", ECU1PortName: "p1", ECU2PortName: "zz"}
	c = validation.NewCollector(nil)
	require.False(t, External(sess, missing, c, zerolog.Nop()))
	require.Equal(t, "zz in connection x2 does not exist", c.Findings()[0].Message())
	require.Len(t, a.Peers, 1)
}

func TestGroupsContinueAfterMinor(t *testing.T) {
	minor := func() *validation.Finding { return validation.Minor(validation.CodeMinor, "m", nil) }
	major := func() *validation.Finding { return validation.Major(validation.CodeMajor, "M", nil) }
	calls := 0
	counted := func() *validation.Finding { calls++; return nil }

	c := validation.NewCollector(nil)
	run(c, group{minor, counted}, group{counted, major}, group{counted})
	require.Equal(t, 1, calls)
	require.Equal(t, 2, c.Len())
}
