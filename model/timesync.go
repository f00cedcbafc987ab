package model

// SyncType discriminates the gPTP port roles.
type SyncType string

const (
	SyncTimeTransmitter SyncType = "time_transmitter"
	SyncTimeReceiver    SyncType = "time_receiver"
)

// PTPConfig is the gPTP configuration of a link end.
type PTPConfig struct {
	CMLDSLinkPortEnabled bool
	Ports                []PTPPort
}

// Domain returns the PTP port configured for domainID.
func (c *PTPConfig) Domain(domainID int) (PTPPort, bool) {
	if c == nil {
		return PTPPort{}, false
	}
	for _, p := range c.Ports {
		if p.DomainID == domainID {
			return p, true
		}
	}
	return PTPPort{}, false
}

// PTPPort is the per-domain configuration of a gPTP port.
type PTPPort struct {
	DomainID        int
	SrcPortIdentity int
	Sync            SyncConfig
	Pdelay          *PdelayConfig
}

// SyncConfig is the role of a PTP port within its domain.
type SyncConfig interface {
	SyncType() SyncType
	isSync()
}

// TimeTransmitter distributes time. LogTxPeriod is the log2 sync interval.
type TimeTransmitter struct {
	LogTxPeriod int
	TwoStep     bool
}

func (TimeTransmitter) SyncType() SyncType { return SyncTimeTransmitter }
func (TimeTransmitter) isSync()            {}

// TimeReceiver consumes time. Timeouts are in milliseconds.
type TimeReceiver struct {
	SyncTimeout         int
	SyncFollowupTimeout int
}

func (TimeReceiver) SyncType() SyncType { return SyncTimeReceiver }
func (TimeReceiver) isSync()            {}

// PdelayConfig configures peer delay measurement.
type PdelayConfig struct {
	LogTxPeriod int
}
