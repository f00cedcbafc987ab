package check

import (
	"github.com/shopspring/decimal"

	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

// Enum checks that enum values are unique and representable by the base type.
func Enum(e *model.Enum) *validation.Finding {
	if e == nil {
		return nil
	}
	r, ok := e.BaseType.Range()
	if !ok {
		return validation.Major(validation.CodeInvalidType,
			"Enum {name} needs an integer base type, got {base}",
			validation.Context{"name": e.Name, "base": e.BaseType})
	}
	seen := make([]decimal.Decimal, 0, len(e.Entries))
	for _, entry := range e.Entries {
		for _, s := range seen {
			if s.Equal(entry.Value) {
				return validation.Major(validation.CodeDuplicateValue,
					"Duplicate enum value: {value}", validation.Context{"value": entry.Value.String()})
			}
		}
		seen = append(seen, entry.Value)
		if entry.Value.LessThan(r.Min) || entry.Value.GreaterThan(r.Max) {
			return validation.Major(validation.CodeOutOfRange,
				"Enum value {value} exceeds valid range for {base} ({min} to {max})",
				validation.Context{"value": entry.Value.String(), "base": e.BaseType, "min": r.Min.String(), "max": r.Max.String()})
		}
	}
	return nil
}

// UnionMembers checks that union member indexes and names are unique.
func UnionMembers(u *model.Union) *validation.Finding {
	if u == nil {
		return nil
	}
	indexes := make(map[int]bool, len(u.Members))
	names := make(map[string]bool, len(u.Members))
	for _, m := range u.Members {
		if indexes[m.Index] {
			return validation.Major(validation.CodeDuplicateValue,
				"Union {name} has duplicate member index {index}",
				validation.Context{"name": u.Name, "index": m.Index})
		}
		indexes[m.Index] = true
		if names[m.Name] {
			return validation.Major(validation.CodeDuplicateValue,
				"Union {name} has duplicate member name {member}",
				validation.Context{"name": u.Name, "member": m.Name})
		}
		names[m.Name] = true
	}
	return nil
}

// StructMembers reports struct members sharing a name.
func StructMembers(s *model.Struct) *validation.Finding {
	if s == nil {
		return nil
	}
	names := make(map[string]bool, len(s.Members))
	for _, m := range s.Members {
		n := m.DatatypeName()
		if names[n] {
			return validation.Minor(validation.CodeDuplicateValue,
				"Struct {name} has duplicate member name {member}",
				validation.Context{"name": s.Name, "member": n})
		}
		names[n] = true
	}
	return nil
}
