package model

import (
	"bytes"
	"net"
	"net/netip"
)

// MACsecMode is the protection level of a MACsec secured link.
type MACsecMode string

const (
	MACsecDisabled                 MACsecMode = "disabled"
	MACsecIntegrity                MACsecMode = "integrity"
	MACsecIntegrityConfidentiality MACsecMode = "integrity_confidentiality"
)

// MACsecConfig configures MACsec and the MACsec key agreement on a link end.
// Times are in milliseconds unless noted.
type MACsecConfig struct {
	VLANBypass            []int
	MKAEnabled            bool
	HelloTime             int
	BoundedHelloTime      int
	LifeTime              int
	SAKRetireTime         int
	HelloTimeRampup       []int
	SAKRekeyTime          int // seconds
	Mode                  MACsecMode
	KayOn                 bool
	KeyRole               string
	DelayProtect          bool
	ParticipantActivation string
	SCIIncluded           bool
	CipherPreference      []Cipher
}

// CipherType discriminates the MACsec cipher suites.
type CipherType string

const (
	CipherIntegrityOnly         CipherType = "integrity_without_confidentiality"
	CipherIntegrityConfidential CipherType = "integrity_with_confidentiality"
)

// Cipher is a negotiable MACsec cipher suite.
type Cipher interface {
	CipherType() CipherType
	Offset() int
	isCipher()
}

// IntegrityWithoutConfidentiality protects frames without encrypting them.
type IntegrityWithoutConfidentiality struct{}

func (IntegrityWithoutConfidentiality) CipherType() CipherType { return CipherIntegrityOnly }
func (IntegrityWithoutConfidentiality) Offset() int            { return 0 }
func (IntegrityWithoutConfidentiality) isCipher()              {}

// IntegrityWithConfidentiality encrypts frames starting at OffsetPreference bytes.
type IntegrityWithConfidentiality struct {
	OffsetPreference int
}

func (IntegrityWithConfidentiality) CipherType() CipherType { return CipherIntegrityConfidential }
func (c IntegrityWithConfidentiality) Offset() int          { return c.OffsetPreference }
func (IntegrityWithConfidentiality) isCipher()              {}

// FirewallAction is applied to frames matching a rule.
type FirewallAction string

const (
	ActionReject FirewallAction = "reject"
	ActionAccept FirewallAction = "accept"
	ActionDrop   FirewallAction = "drop"
)

// Firewall holds the rule lists of a controller interface.
type Firewall struct {
	DefaultAction FirewallAction
	InputRules    []FirewallRule
	OutputRules   []FirewallRule
	ForwardRules  []FirewallRule
}

// FirewallRule matches frames by Pattern.
type FirewallRule struct {
	Name    string
	Action  FirewallAction
	Pattern FrameFilter
}

// FrameFilter matches frames. Nil fields are not part of the match.
type FrameFilter struct {
	SrcMAC    *string
	DstMAC    *string
	VLANID    *int
	PCP       *int
	EtherType *string
	SrcIPv4   *string
	DstIPv4   *string
	SrcIPv6   *string
	DstIPv6   *string
	Protocol  *string
	SrcPort   *int
	DstPort   *int
}

// Empty reports whether the filter matches on no field at all.
func (f FrameFilter) Empty() bool {
	return f.SrcMAC == nil && f.DstMAC == nil && f.VLANID == nil && f.PCP == nil &&
		f.EtherType == nil && f.SrcIPv4 == nil && f.DstIPv4 == nil &&
		f.SrcIPv6 == nil && f.DstIPv6 == nil && f.Protocol == nil &&
		f.SrcPort == nil && f.DstPort == nil
}

// Equal compares two filters field by field. Addresses are compared by
// value, so differently spelled literals of one address are equal.
func (f FrameFilter) Equal(o FrameFilter) bool {
	return eqMAC(f.SrcMAC, o.SrcMAC) && eqMAC(f.DstMAC, o.DstMAC) &&
		eqPtr(f.VLANID, o.VLANID) && eqPtr(f.PCP, o.PCP) &&
		eqPtr(f.EtherType, o.EtherType) &&
		eqAddr(f.SrcIPv4, o.SrcIPv4) && eqAddr(f.DstIPv4, o.DstIPv4) &&
		eqAddr(f.SrcIPv6, o.SrcIPv6) && eqAddr(f.DstIPv6, o.DstIPv6) &&
		eqPtr(f.Protocol, o.Protocol) &&
		eqPtr(f.SrcPort, o.SrcPort) && eqPtr(f.DstPort, o.DstPort)
}

// eqAddr falls back to text comparison when either literal does not parse.
func eqAddr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, errX := netip.ParseAddr(*a)
	y, errY := netip.ParseAddr(*b)
	if errX != nil || errY != nil {
		return *a == *b
	}
	return x == y
}

func eqMAC(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	x, errX := net.ParseMAC(*a)
	y, errY := net.ParseMAC(*b)
	if errX != nil || errY != nil {
		return *a == *b
	}
	return bytes.Equal(x, y)
}

func eqPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
