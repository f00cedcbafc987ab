package check

import (
	"github.com/shopspring/decimal"

	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

var kbitPerMbit = decimal.NewFromInt(1000)

// HTB checks that the child classes of an HTB fit into the link speed.
// Without a known speed the budget cannot be evaluated and the rule holds.
func HTB(owner string, htb *model.HTB, speed int) *validation.Finding {
	if htb == nil || speed <= 0 {
		return nil
	}
	sum := decimal.Zero
	for _, child := range htb.ChildClasses {
		sum = sum.Add(child.Rate)
	}
	if sum.GreaterThan(decimal.NewFromInt(int64(speed))) {
		return validation.Major(validation.CodeBudgetExceeded,
			"Incompatible HTB config for {owner}: sum of all child class rates {sum} should be less than link speed {speed}",
			validation.Context{"owner": owner, "sum": sum.String(), "speed": speed})
	}
	return nil
}

// CBS checks that the idle slopes of all credit based shapers on a port fit
// into its link speed. Idle slopes are in kbit/s, speeds in Mbit/s.
func CBS(owner string, classes []model.TrafficClass, speed int) *validation.Finding {
	sum := decimal.Zero
	shaped := false
	for _, tc := range classes {
		if tc.Shaper == nil {
			continue
		}
		shaped = true
		sum = sum.Add(tc.Shaper.IdleSlope)
	}
	if !shaped {
		return nil
	}
	if speed <= 0 {
		return validation.Major(validation.CodeBudgetExceeded,
			"Cannot validate traffic classes of {owner}! No port speed defined. Make sure to configure MII or MDI.",
			validation.Context{"owner": owner})
	}
	budget := decimal.NewFromInt(int64(speed)).Mul(kbitPerMbit)
	if sum.GreaterThan(budget) {
		return validation.Major(validation.CodeBudgetExceeded,
			"The sum of idleslopes of all shapers on {owner} ({sum}) cannot be higher than the link speed ({budget})!",
			validation.Context{"owner": owner, "sum": sum.String(), "budget": budget.String()})
	}
	return nil
}

// MIISpeed returns the speed of the component's MII or 0.
func MIISpeed(c model.Component) int {
	if c == nil || c.MII() == nil {
		return 0
	}
	return c.MII().Speed
}

// MDISpeed returns the speed of the port's MDI or 0.
func MDISpeed(p *model.ECUPort) int {
	if p == nil || p.MDIConfig == nil {
		return 0
	}
	return p.MDIConfig.LinkSpeed()
}
