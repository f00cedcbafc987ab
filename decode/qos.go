package decode

import (
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/check"
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

func trafficClasses(o *object) []model.TrafficClass {
	var out []model.TrafficClass
	o.each("traffic_classes", false, func(n *yaml.Node, c *validation.Collector) {
		if tc, ok := trafficClass(n, c); ok {
			out = append(out, tc)
		}
	})
	return out
}

func trafficClass(n *yaml.Node, c *validation.Collector) (model.TrafficClass, bool) {
	o, ok := asObject(n, c)
	if !ok {
		return model.TrafficClass{}, false
	}
	defer o.done()
	tc := model.TrafficClass{
		Name:                   o.str("name", true, ""),
		Priority:               o.integer("priority", true, 0),
		FramePriorityValues:    o.ints("frame_priority_values"),
		InternalPriorityValues: o.ints("internal_priority_values"),
	}
	c.Key("priority").Add(check.IntRange("priority", tc.Priority, 0, check.MaxPCP))
	for i, pcp := range tc.FramePriorityValues {
		c.Key("frame_priority_values").Index(i).Add(check.IntRange("pcp", pcp, 0, check.MaxPCP))
	}
	for i, ipv := range tc.InternalPriorityValues {
		c.Key("internal_priority_values").Index(i).Add(check.IntRange("internal priority", ipv, 0, check.MaxPCP))
	}
	if sn, sc, ok := o.optional("selection_mechanisms"); ok {
		tc.Shaper = shaper(sn, sc)
	}
	return tc, true
}

func shaper(n *yaml.Node, c *validation.Collector) *model.CBS {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	if _, ok := tag(o, "type", model.ShaperCBS); !ok {
		return nil
	}
	slope, ok := o.number("idleslope", true)
	if !ok {
		return nil
	}
	if slope.IsNegative() {
		c.Key("idleslope").Add(validation.Major(validation.CodeOutOfRange,
			"idleslope {value} should be greater than or equal to 0", validation.Context{"value": slope.String()}))
	}
	return &model.CBS{IdleSlope: slope}
}

func htb(n *yaml.Node, c *validation.Collector) *model.HTB {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	h := &model.HTB{}
	o.each("child_classes", true, func(n *yaml.Node, c *validation.Collector) {
		co, ok := asObject(n, c)
		if !ok {
			return
		}
		defer co.done()
		class := model.HTBClass{
			Name:     co.str("name", true, ""),
			Priority: co.integer("prio", false, 0),
		}
		rate, ok := co.number("rate", true)
		if !ok {
			return
		}
		class.Rate = rate
		if ceil, ok := co.number("ceil", false); ok {
			class.Ceil = &ceil
			if ceil.LessThan(rate) {
				c.Key("ceil").Add(validation.Major(validation.CodeInconsistent,
					"HTB class {name}: ceil {ceil} should not be lower than rate {rate}",
					validation.Context{"name": class.Name, "ceil": ceil.String(), "rate": rate.String()}))
			}
		}
		h.ChildClasses = append(h.ChildClasses, class)
	})
	return h
}
