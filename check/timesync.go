package check

import (
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

// GPTP checks that both ends of a link agree on gPTP. Every domain of one end
// must exist on the other with the opposite role, in both directions.
func GPTP(id string, a, b model.Secured) *validation.Finding {
	if a == nil || b == nil {
		return nil
	}
	pa, pb := a.PTP(), b.PTP()
	if pa == nil && pb == nil {
		return nil
	}
	if pa == nil || pb == nil {
		return validation.Major(validation.CodeIncompatible,
			"Incompatible PTP config. PTP config not present in either {a} or {b} in connection {id}",
			validation.Context{"id": id, "a": a.ComponentName(), "b": b.ComponentName()})
	}
	if f := gptpDomains(id, a.ComponentName(), b.ComponentName(), pa, pb); f != nil {
		return f
	}
	if f := gptpDomains(id, b.ComponentName(), a.ComponentName(), pb, pa); f != nil {
		return f
	}
	if pa.CMLDSLinkPortEnabled != pb.CMLDSLinkPortEnabled {
		return validation.Major(validation.CodeIncompatible,
			"CMLDS mismatch: {a} has cmlds_linkport_enabled={va}, but {b} has {vb}",
			validation.Context{"a": a.ComponentName(), "b": b.ComponentName(), "va": pa.CMLDSLinkPortEnabled, "vb": pb.CMLDSLinkPortEnabled})
	}
	return nil
}

func gptpDomains(id, nameA, nameB string, pa, pb *model.PTPConfig) *validation.Finding {
	for _, port := range pa.Ports {
		other, ok := pb.Domain(port.DomainID)
		if !ok {
			return validation.Major(validation.CodeIncompatible,
				"Incompatible PTP config: domain {domain} not present in {b} in connection {id}",
				validation.Context{"domain": port.DomainID, "b": nameB, "id": id})
		}
		if port.Sync == nil || other.Sync == nil {
			continue
		}
		if port.Sync.SyncType() == other.Sync.SyncType() {
			return validation.Major(validation.CodeIncompatible,
				"Incompatible PTP config: domain {domain} in {a} and {b} in connection {id} are both {role}",
				validation.Context{"domain": port.DomainID, "a": nameA, "b": nameB, "id": id, "role": port.Sync.SyncType()})
		}
	}
	return nil
}
