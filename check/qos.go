package check

import (
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

// TrafficClasses checks that the traffic classes of one port or interface do
// not share a priority, a PCP or an internal priority value.
func TrafficClasses(owner string, classes []model.TrafficClass) *validation.Finding {
	if len(classes) == 0 {
		return nil
	}
	prios := make(map[int]bool, len(classes))
	for _, tc := range classes {
		if prios[tc.Priority] {
			return validation.Major(validation.CodeDuplicateValue,
				"Traffic class priority {prio} is not unique in {owner}",
				validation.Context{"prio": tc.Priority, "owner": owner})
		}
		prios[tc.Priority] = true
	}
	if v, dup := firstOverlap(classes, func(tc model.TrafficClass) []int { return tc.FramePriorityValues }); dup {
		return validation.Major(validation.CodeDuplicateValue,
			"The pcp value {value} is not unique for two different traffic classes in {owner}",
			validation.Context{"value": v, "owner": owner})
	}
	if v, dup := firstOverlap(classes, func(tc model.TrafficClass) []int { return tc.InternalPriorityValues }); dup {
		return validation.Major(validation.CodeDuplicateValue,
			"The ipv value {value} is not unique for two different traffic classes in {owner}",
			validation.Context{"value": v, "owner": owner})
	}
	return nil
}

// firstOverlap returns the first value claimed by two different classes.
func firstOverlap(classes []model.TrafficClass, values func(model.TrafficClass) []int) (int, bool) {
	owner := make(map[int]int)
	for i, tc := range classes {
		for _, v := range values(tc) {
			if prev, ok := owner[v]; ok && prev != i {
				return v, true
			}
			owner[v] = i
		}
	}
	return 0, false
}
