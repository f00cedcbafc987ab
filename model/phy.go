package model

// MDIMode discriminates the media-dependent interface variants.
type MDIMode string

const (
	MDIBaseT1  MDIMode = "base_t1"
	MDIBaseT1S MDIMode = "base_t1s"
	MDIBaseT   MDIMode = "base_t"
)

// Link roles of a media-dependent interface.
const (
	RoleMaster = "master"
	RoleSlave  = "slave"
	RoleAuto   = "auto"
)

// MDI is the media-dependent interface configuration of a port.
type MDI interface {
	MDIMode() MDIMode
	LinkSpeed() int
	LinkRole() string
	isMDI()
}

// BaseT1 is a 100BASE-T1 / 1000BASE-T1 automotive single pair link.
type BaseT1 struct {
	Speed int
	Role  string
}

// DefaultMDI returns the configuration used when a port omits mdi_config.
func DefaultMDI() MDI {
	return &BaseT1{Speed: 100, Role: RoleAuto}
}

func (*BaseT1) MDIMode() MDIMode   { return MDIBaseT1 }
func (m *BaseT1) LinkSpeed() int   { return m.Speed }
func (m *BaseT1) LinkRole() string { return m.Role }
func (*BaseT1) isMDI()             {}

// PLCA holds the physical layer collision avoidance settings of a 10BASE-T1S
// multidrop segment.
type PLCA struct {
	NodeID    int
	NodeCount int
}

// BaseT1S is a 10BASE-T1S link.
type BaseT1S struct {
	Speed int
	Role  string
	PLCA  *PLCA
}

func (*BaseT1S) MDIMode() MDIMode   { return MDIBaseT1S }
func (m *BaseT1S) LinkSpeed() int   { return m.Speed }
func (m *BaseT1S) LinkRole() string { return m.Role }
func (*BaseT1S) isMDI()             {}

// BaseT is a classic twisted pair Ethernet link.
type BaseT struct {
	Speed           int
	Role            string
	AutoNegotiation bool
}

func (*BaseT) MDIMode() MDIMode   { return MDIBaseT }
func (m *BaseT) LinkSpeed() int   { return m.Speed }
func (m *BaseT) LinkRole() string { return m.Role }
func (*BaseT) isMDI()             {}

// CloneMDI returns an independent copy of m.
func CloneMDI(m MDI) MDI {
	switch v := m.(type) {
	case *BaseT1:
		c := *v
		return &c
	case *BaseT1S:
		c := *v
		if v.PLCA != nil {
			plca := *v.PLCA
			c.PLCA = &plca
		}
		return &c
	case *BaseT:
		c := *v
		return &c
	default:
		return nil
	}
}

// MIIType discriminates the media-independent interface variants.
type MIIType string

const (
	MIITypeMII   MIIType = "mii"
	MIITypeRMII  MIIType = "rmii"
	MIITypeSGMII MIIType = "sgmii"
	MIITypeRGMII MIIType = "rgmii"
	MIITypeXFI   MIIType = "xfi"
)

// MIISpeeds lists the link speeds in Mbit/s each MII variant supports.
var MIISpeeds = map[MIIType][]int{
	MIITypeMII:   {10, 100},
	MIITypeRMII:  {10, 100},
	MIITypeSGMII: {10, 100, 1000},
	MIITypeRGMII: {10, 100, 1000},
	MIITypeXFI:   {10000},
}

// MII modes. The two ends of a media-independent link must use opposite modes.
const (
	MIIModeMAC = "mac"
	MIIModePHY = "phy"
)

// MII is the media-independent interface configuration between a MAC and a PHY.
type MII struct {
	Type  MIIType
	Mode  string
	Speed int
}
