package model

import "github.com/shopspring/decimal"

// ShaperCBS is the only supported selection mechanism of a traffic class.
const ShaperCBS = "cbs"

// CBS is a credit based shaper. IdleSlope is expressed in kbit/s.
type CBS struct {
	IdleSlope decimal.Decimal
}

// TrafficClass maps frame priorities to an egress queue.
type TrafficClass struct {
	Name                   string
	Priority               int
	FramePriorityValues    []int
	InternalPriorityValues []int
	Shaper                 *CBS
}

// HTB is a hierarchical token bucket configured on a controller interface.
// Rates are expressed in Mbit/s like link speeds.
type HTB struct {
	ChildClasses []HTBClass
}

// HTBClass is one leaf class of an HTB tree.
type HTBClass struct {
	Name     string
	Rate     decimal.Decimal
	Ceil     *decimal.Decimal
	Priority int
}
