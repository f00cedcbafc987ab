package check

import "github.com/timzifer/ecunet/validation"

// Ranges of bounded configuration values.
const (
	MinVLANID            = 1
	MaxVLANID            = 4094
	MaxPCP               = 7
	MinSyncLogTxPeriod   = -7
	MaxSyncLogTxPeriod   = 1
	MinPdelayLogTxPeriod = -4
	MaxPdelayLogTxPeriod = 3
)

// IntRange checks lo <= v <= hi.
func IntRange(field string, v, lo, hi int) *validation.Finding {
	if v < lo || v > hi {
		return validation.Major(validation.CodeOutOfRange,
			"{field} {value} is out of range [{min}, {max}]",
			validation.Context{"field": field, "value": v, "min": lo, "max": hi})
	}
	return nil
}

// NonNegative checks v >= 0.
func NonNegative(field string, v int) *validation.Finding {
	if v < 0 {
		return validation.Major(validation.CodeOutOfRange,
			"{field} {value} should be greater than or equal to 0",
			validation.Context{"field": field, "value": v})
	}
	return nil
}

// OneOf checks that v is one of allowed.
func OneOf(field string, v int, allowed ...int) *validation.Finding {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return validation.Major(validation.CodeOutOfRange,
		"{field} {value} is not one of {allowed}",
		validation.Context{"field": field, "value": v, "allowed": allowed})
}
