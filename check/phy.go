// Package check contains the consistency rules applied to single entities
// and to the two ends of a connection.
//
// Every rule is a pure function that returns nil when it holds and a
// finding otherwise.
package check

import (
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

// MIIOptional checks the media-independent interfaces of a connection that
// may be established without one. Both ends need a configuration or neither.
// Configured ends must use opposite modes with equal speed and type.
func MIIOptional(id string, a, b model.Component) *validation.Finding {
	if a == nil || b == nil {
		return nil
	}
	ma, mb := a.MII(), b.MII()
	switch {
	case ma == nil && mb == nil:
		return nil
	case ma == nil || mb == nil:
		return validation.Major(validation.CodeIncompatible,
			"Invalid MII config in connection {id}: {a} ↔ {b} (MII mismatch for PHY type). Both or none of the components should have a MII config",
			validation.Context{"id": id, "a": a.ComponentName(), "b": b.ComponentName()})
	}
	ctx := func(field string, va, vb any) validation.Context {
		return validation.Context{"a": a.ComponentName(), "b": b.ComponentName(), "field": field, "va": va, "vb": vb}
	}
	if ma.Mode == mb.Mode {
		return validation.Major(validation.CodeIncompatible, "Incompatible MII {field}: {a} ({va}) ↔ {b} ({vb})", ctx("mode", ma.Mode, mb.Mode))
	}
	if ma.Speed != mb.Speed {
		return validation.Major(validation.CodeIncompatible, "Incompatible MII {field}: {a} ({va}) ↔ {b} ({vb})", ctx("speed", ma.Speed, mb.Speed))
	}
	if ma.Type != mb.Type {
		return validation.Major(validation.CodeIncompatible, "Incompatible MII {field}: {a} ({va}) ↔ {b} ({vb})", ctx("type", ma.Type, mb.Type))
	}
	return nil
}

// MIICompulsory is MIIOptional for connections that require a
// media-independent interface on both ends.
func MIICompulsory(id string, a, b model.Component) *validation.Finding {
	if a == nil || b == nil {
		return nil
	}
	if a.MII() == nil || b.MII() == nil {
		return validation.Major(validation.CodeIncompatible,
			"Invalid MII config in connection {id}: {a} ↔ {b} (MII configuration missing).",
			validation.Context{"id": id, "a": a.ComponentName(), "b": b.ComponentName()})
	}
	return MIIOptional(id, a, b)
}

// PortSpeeds checks that the MII of an ECU port runs at its MDI speed.
func PortSpeeds(p *model.ECUPort) *validation.Finding {
	if p == nil || p.MIIConfig == nil || p.MDIConfig == nil {
		return nil
	}
	if p.MIIConfig.Speed != p.MDIConfig.LinkSpeed() {
		return validation.Major(validation.CodeInconsistent,
			"MII and MDI config should have the same speed in ECU ports. Port {port}",
			validation.Context{"port": p.Name})
	}
	return nil
}

// MDIParity checks the two connectors of an external link.
func MDIParity(id string, a, b *model.ECUPort) *validation.Finding {
	if a == nil || b == nil || a.MDIConfig == nil || b.MDIConfig == nil {
		return nil
	}
	ma, mb := a.MDIConfig, b.MDIConfig
	if ma.MDIMode() != mb.MDIMode() {
		return validation.Major(validation.CodeIncompatible,
			"Incompatible MDI mode in connection {id}: {a} ({va}) ↔ {b} ({vb})",
			validation.Context{"id": id, "a": a.Name, "b": b.Name, "va": ma.MDIMode(), "vb": mb.MDIMode()})
	}
	if ma.LinkSpeed() != mb.LinkSpeed() {
		return validation.Major(validation.CodeIncompatible,
			"Incompatible MDI speed in connection {id}: {a} ({va}) ↔ {b} ({vb})",
			validation.Context{"id": id, "a": a.Name, "b": b.Name, "va": ma.LinkSpeed(), "vb": mb.LinkSpeed()})
	}
	ra, rb := ma.LinkRole(), mb.LinkRole()
	if ra == rb && (ra == model.RoleMaster || ra == model.RoleSlave) {
		return validation.Major(validation.CodeIncompatible,
			"Incompatible MDI role in connection {id}: {a} and {b} are both {role}",
			validation.Context{"id": id, "a": a.Name, "b": b.Name, "role": ra})
	}
	return nil
}
