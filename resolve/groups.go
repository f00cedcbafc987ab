package resolve

import (
	"github.com/timzifer/ecunet/check"
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

// group is an ordered list of rules. The first failing rule ends the group.
type group []func() *validation.Finding

// run evaluates groups in order. A group that failed with anything worse
// than a minor finding stops the remaining groups and run reports false.
func run(c *validation.Collector, groups ...group) bool {
	for _, g := range groups {
		for _, rule := range g {
			f := rule()
			if f == nil {
				continue
			}
			c.Add(f)
			if f.Severity != validation.SeverityMinor {
				return false
			}
			break
		}
	}
	return true
}

// cbs checks the idle slope budget of the traffic classes of s.
func cbs(s model.Secured, speed int) func() *validation.Finding {
	return func() *validation.Finding { return check.CBS(s.ComponentName(), s.Classes(), speed) }
}
