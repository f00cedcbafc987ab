package check

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

func iface(name string, mii *model.MII) *model.ControllerInterface {
	return &model.ControllerInterface{Name: name, MIIConfig: mii}
}

func requireMajor(t *testing.T, f *validation.Finding, contains string) {
	t.Helper()
	require.NotNil(t, f)
	require.Equal(t, validation.SeverityMajor, f.Severity)
	require.Contains(t, f.Message(), contains)
}

func TestMIIParity(t *testing.T) {
	cases := []struct {
		name    string
		a, b    *model.MII
		wantErr string
	}{
		{
			name:    "equal modes",
			a:       &model.MII{Type: model.MIITypeRGMII, Mode: "A", Speed: 1000},
			b:       &model.MII{Type: model.MIITypeRGMII, Mode: "A", Speed: 1000},
			wantErr: "Incompatible MII mode",
		},
		{
			name: "opposite modes",
			a:    &model.MII{Type: model.MIITypeRGMII, Mode: "A", Speed: 1000},
			b:    &model.MII{Type: model.MIITypeRGMII, Mode: "B", Speed: 1000},
		},
		{
			name:    "equal modes and different speed",
			a:       &model.MII{Type: model.MIITypeRGMII, Mode: "A", Speed: 1000},
			b:       &model.MII{Type: model.MIITypeRGMII, Mode: "A", Speed: 100},
			wantErr: "Incompatible MII",
		},
		{
			name:    "different speed",
			a:       &model.MII{Type: model.MIITypeRGMII, Mode: "A", Speed: 1000},
			b:       &model.MII{Type: model.MIITypeRGMII, Mode: "B", Speed: 100},
			wantErr: "Incompatible MII speed: a (1000) ↔ b (100)",
		},
		{
			name:    "different type",
			a:       &model.MII{Type: model.MIITypeRGMII, Mode: "A", Speed: 100},
			b:       &model.MII{Type: model.MIITypeRMII, Mode: "B", Speed: 100},
			wantErr: "Incompatible MII type",
		},
		{
			name:    "one side only",
			a:       &model.MII{Type: model.MIITypeRGMII, Mode: "A", Speed: 100},
			wantErr: "Both or none",
		},
		{
			name: "neither side",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := MIIOptional("c1", iface("a", tc.a), iface("b", tc.b))
			if tc.wantErr == "" {
				require.Nil(t, f)
				return
			}
			requireMajor(t, f, tc.wantErr)
		})
	}
}

func TestMIICompulsoryRequiresBothSides(t *testing.T) {
	f := MIICompulsory("c7", iface("a", nil), iface("b", nil))
	requireMajor(t, f, "Invalid MII config in connection c7: a ↔ b (MII configuration missing).")

	ok := MIICompulsory("c7",
		iface("a", &model.MII{Type: model.MIITypeSGMII, Mode: model.MIIModeMAC, Speed: 1000}),
		iface("b", &model.MII{Type: model.MIITypeSGMII, Mode: model.MIIModePHY, Speed: 1000}))
	require.Nil(t, ok)
}

func cbsClass(prio int, slope int64) model.TrafficClass {
	return model.TrafficClass{Priority: prio, Shaper: &model.CBS{IdleSlope: decimal.NewFromInt(slope)}}
}

func TestCBSIdleSlopeBudget(t *testing.T) {
	within := []model.TrafficClass{cbsClass(1, 100), cbsClass(2, 200), cbsClass(3, 300)}
	require.Nil(t, CBS("sp1", within, 1))

	over := []model.TrafficClass{cbsClass(1, 200), cbsClass(2, 400), cbsClass(3, 600)}
	f := CBS("sp1", over, 1)
	requireMajor(t, f, "(1200) cannot be higher than the link speed (1000)")
	require.Equal(t, validation.CodeBudgetExceeded, f.Code)
}

func TestCBSWithoutSpeed(t *testing.T) {
	requireMajor(t, CBS("sp1", []model.TrafficClass{cbsClass(1, 1)}, 0), "No port speed defined")
	require.Nil(t, CBS("sp1", []model.TrafficClass{{Priority: 1}}, 0))
	require.Nil(t, CBS("sp1", nil, 0))
}

func TestHTBBudget(t *testing.T) {
	htb := &model.HTB{ChildClasses: []model.HTBClass{
		{Name: "a", Rate: decimal.RequireFromString("60.5")},
		{Name: "b", Rate: decimal.RequireFromString("39.5")},
	}}
	require.Nil(t, HTB("eth0", htb, 100))
	requireMajor(t, HTB("eth0", htb, 99), "sum of all child class rates 100 should be less than link speed 99")
	require.Nil(t, HTB("eth0", htb, 0))
	require.Nil(t, HTB("eth0", nil, 100))
}

func enumOf(base model.DatatypeType, values ...int64) *model.Enum {
	e := &model.Enum{Name: "Gear", BaseType: base}
	for _, v := range values {
		e.Entries = append(e.Entries, model.EnumEntry{Name: "v", Value: decimal.NewFromInt(v)})
	}
	return e
}

func TestEnumRange(t *testing.T) {
	requireMajor(t, Enum(enumOf(model.TypeUInt8, 300)), "Enum value 300 exceeds valid range for uint8 (0 to 255)")
	require.Nil(t, Enum(enumOf(model.TypeUInt16, 300)))
	requireMajor(t, Enum(enumOf(model.TypeSInt8, -129)), "exceeds valid range")
	require.Nil(t, Enum(enumOf(model.TypeSInt8, -128, 127)))

	big := &model.Enum{Name: "Big", BaseType: model.TypeUInt64, Entries: []model.EnumEntry{
		{Name: "max", Value: decimal.RequireFromString("18446744073709551615")},
	}}
	require.Nil(t, Enum(big))
	big.Entries[0].Value = decimal.RequireFromString("18446744073709551616")
	requireMajor(t, Enum(big), "exceeds valid range")
}

func TestEnumDuplicateValues(t *testing.T) {
	requireMajor(t, Enum(enumOf(model.TypeUInt8, 1, 2, 1)), "Duplicate enum value: 1")
}

func TestUnionAndStructMembers(t *testing.T) {
	u := &model.Union{Name: "U", Members: []model.UnionMember{{Index: 0, Name: "a"}, {Index: 0, Name: "b"}}}
	requireMajor(t, UnionMembers(u), "duplicate member index 0")
	u.Members[1].Index = 1
	require.Nil(t, UnionMembers(u))
	u.Members[1].Name = "a"
	requireMajor(t, UnionMembers(u), "duplicate member name a")

	s := &model.Struct{Name: "S", Members: []model.Datatype{
		&model.Primitive{Name: "x", Type: model.TypeUInt8},
		&model.Primitive{Name: "x", Type: model.TypeBoolean},
	}}
	f := StructMembers(s)
	require.NotNil(t, f)
	require.Equal(t, validation.SeverityMinor, f.Severity)
}

func ptr[T any](v T) *T { return &v }

func TestFirewallPattern(t *testing.T) {
	requireMajor(t, FirewallPattern("r1", model.FrameFilter{}), "At least one of the fields")
	requireMajor(t, FirewallPattern("r1", model.FrameFilter{DstIPv4: ptr("10.0.0.1"), DstIPv6: ptr("fd00::1")}), "dst ipv4 and dst ipv6")
	requireMajor(t, FirewallPattern("r1", model.FrameFilter{SrcIPv4: ptr("10.0.0.1"), SrcIPv6: ptr("fd00::1")}), "src ipv4 and src ipv6")
	requireMajor(t, FirewallPattern("r1", model.FrameFilter{SrcIPv4: ptr("10.0.0.1"), DstIPv6: ptr("fd00::1")}), "src ipv4 and dst ipv6")
	requireMajor(t, FirewallPattern("r1", model.FrameFilter{SrcIPv6: ptr("fd00::1"), DstIPv4: ptr("10.0.0.1")}), "src ipv6 and dst ipv4")
	require.Nil(t, FirewallPattern("r1", model.FrameFilter{SrcIPv4: ptr("10.0.0.1"), DstPort: ptr(80)}))
}

func TestFirewallRulesStructuralEquality(t *testing.T) {
	rules := []model.FirewallRule{
		{Name: "a", Action: model.ActionAccept, Pattern: model.FrameFilter{DstPort: ptr(80)}},
		{Name: "b", Action: model.ActionDrop, Pattern: model.FrameFilter{DstPort: ptr(443)}},
		{Name: "c", Action: model.ActionDrop, Pattern: model.FrameFilter{DstPort: ptr(80)}},
	}
	requireMajor(t, FirewallRules("input_rules", rules), "cannot be the same: a and c")
	require.Nil(t, FirewallRules("input_rules", rules[:2]))

	spelled := []model.FirewallRule{
		{Name: "v6", Pattern: model.FrameFilter{DstIPv6: ptr("2001:db8::1")}},
		{Name: "v6-long", Pattern: model.FrameFilter{DstIPv6: ptr("2001:DB8:0::1")}},
	}
	requireMajor(t, FirewallRules("input_rules", spelled), "cannot be the same: v6 and v6-long")

	macs := []model.FirewallRule{
		{Name: "lower", Pattern: model.FrameFilter{SrcMAC: ptr("02:00:00:aa:bb:cc")}},
		{Name: "upper", Pattern: model.FrameFilter{SrcMAC: ptr("02:00:00:AA:BB:CC")}},
	}
	requireMajor(t, FirewallRules("output_rules", macs), "cannot be the same: lower and upper")

	macs[1].Pattern.SrcMAC = ptr("02:00:00:aa:bb:cd")
	require.Nil(t, FirewallRules("output_rules", macs))
}

func TestTrafficClasses(t *testing.T) {
	classes := []model.TrafficClass{
		{Name: "a", Priority: 1, FramePriorityValues: []int{1, 2}, InternalPriorityValues: []int{0}},
		{Name: "b", Priority: 2, FramePriorityValues: []int{3}, InternalPriorityValues: []int{1}},
	}
	require.Nil(t, TrafficClasses("eth0", classes))

	classes[1].Priority = 1
	requireMajor(t, TrafficClasses("eth0", classes), "priority 1 is not unique")
	classes[1].Priority = 2

	classes[1].FramePriorityValues = []int{2}
	requireMajor(t, TrafficClasses("eth0", classes), "pcp value 2")
	classes[1].FramePriorityValues = []int{3}

	classes[1].InternalPriorityValues = []int{0}
	requireMajor(t, TrafficClasses("eth0", classes), "ipv value 0")
}

func macsecPair(id string, a, b *model.MACsecConfig) *validation.Finding {
	return MACsec(id, &model.SwitchPort{Name: "sp", MACsecConfig: a}, &model.ControllerInterface{Name: "ci", MACsecConfig: b})
}

func TestMACsecParity(t *testing.T) {
	on := &model.MACsecConfig{MKAEnabled: true, Mode: model.MACsecIntegrity}

	require.Nil(t, macsecPair("c1", nil, nil))
	requireMajor(t, macsecPair("c1", on, nil), "sp and ci in connection c1 should both have a macsec config")

	off := &model.MACsecConfig{MKAEnabled: false, Mode: model.MACsecIntegrity}
	requireMajor(t, macsecPair("c1", on, off), "MKA should be enabled in both")

	other := &model.MACsecConfig{MKAEnabled: true, Mode: model.MACsecIntegrityConfidentiality}
	requireMajor(t, macsecPair("c1", on, other), "same macsec_mode")

	require.Nil(t, macsecPair("c1", on, &model.MACsecConfig{MKAEnabled: true, Mode: model.MACsecIntegrity}))
}

func TestMACsecLocalRules(t *testing.T) {
	requireMajor(t, MACsecMKA(&model.MACsecConfig{MKAEnabled: false, Mode: model.MACsecIntegrity}), "If MKA is not enabled")
	require.Nil(t, MACsecMKA(&model.MACsecConfig{MKAEnabled: false, Mode: model.MACsecDisabled}))

	f := MACsecLifetime(&model.MACsecConfig{HelloTime: 2000, LifeTime: 1000})
	require.NotNil(t, f)
	require.Equal(t, validation.SeverityMinor, f.Severity)
	require.Nil(t, MACsecLifetime(&model.MACsecConfig{HelloTime: 2000, LifeTime: 6000}))
}

func ptpEnd(name string, cmlds bool, ports ...model.PTPPort) *model.SwitchPort {
	return &model.SwitchPort{Name: name, PTPConfig: &model.PTPConfig{CMLDSLinkPortEnabled: cmlds, Ports: ports}}
}

func TestGPTPDomains(t *testing.T) {
	tx := func(domain int) model.PTPPort {
		return model.PTPPort{DomainID: domain, Sync: model.TimeTransmitter{LogTxPeriod: -3}}
	}
	rx := func(domain int) model.PTPPort {
		return model.PTPPort{DomainID: domain, Sync: model.TimeReceiver{SyncTimeout: 100}}
	}

	require.Nil(t, GPTP("c1", ptpEnd("a", false, tx(0)), ptpEnd("b", false, rx(0))))
	requireMajor(t, GPTP("c1", ptpEnd("a", false, tx(0)), ptpEnd("b", false, tx(0))), "are both time_transmitter")
	requireMajor(t, GPTP("c1", ptpEnd("a", false, tx(0)), ptpEnd("b", false, rx(1))), "domain 0 not present in b")
	// domains missing on the first side are found by the reverse pass.
	requireMajor(t, GPTP("c1", ptpEnd("a", false, tx(0)), ptpEnd("b", false, rx(0), rx(5))), "domain 5 not present in a")
	requireMajor(t, GPTP("c1", ptpEnd("a", true, tx(0)), ptpEnd("b", false, rx(0))), "CMLDS mismatch")
	requireMajor(t, GPTP("c1", ptpEnd("a", false, tx(0)), &model.SwitchPort{Name: "b"}), "PTP config not present")
}

func TestPortSpeedsAndMDIParity(t *testing.T) {
	p := &model.ECUPort{Name: "p1", MDIConfig: &model.BaseT1{Speed: 100, Role: model.RoleMaster}, MIIConfig: &model.MII{Speed: 1000}}
	requireMajor(t, PortSpeeds(p), "same speed in ECU ports. Port p1")
	p.MIIConfig.Speed = 100
	require.Nil(t, PortSpeeds(p))

	q := &model.ECUPort{Name: "q1", MDIConfig: &model.BaseT1{Speed: 100, Role: model.RoleSlave}}
	require.Nil(t, MDIParity("x1", p, q))

	q.MDIConfig = &model.BaseT1{Speed: 100, Role: model.RoleMaster}
	requireMajor(t, MDIParity("x1", p, q), "both master")

	q.MDIConfig = &model.BaseT1{Speed: 1000, Role: model.RoleSlave}
	requireMajor(t, MDIParity("x1", p, q), "Incompatible MDI speed")

	q.MDIConfig = &model.BaseT{Speed: 100, Role: model.RoleSlave}
	requireMajor(t, MDIParity("x1", p, q), "Incompatible MDI mode")
}

func TestIPAddress(t *testing.T) {
	addr, f := IPAddress("10.1.2.3")
	require.Nil(t, f)
	require.True(t, addr.Is4())

	_, f = IPAddress("10.1.2")
	requireMajor(t, f, "10.1.2 is not a valid IP address")

	require.Nil(t, IPFamily("fd00::1", true))
	requireMajor(t, IPFamily("10.0.0.1", true), "not a valid IPv6 address")
	requireMajor(t, IPFamily("fd00::1", false), "not a valid IPv4 address")
}

func TestRanges(t *testing.T) {
	require.Nil(t, IntRange("vlan id", 1, MinVLANID, MaxVLANID))
	requireMajor(t, IntRange("vlan id", 4095, MinVLANID, MaxVLANID), "vlan id 4095 is out of range [1, 4094]")
	requireMajor(t, NonNegative("domain_id", -1), "domain_id -1")
	requireMajor(t, OneOf("offset_preference", 20, 0, 30, 50), "not one of [0 30 50]")
}
