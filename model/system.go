package model

// General holds system wide reusable definitions.
type General struct {
	Datatypes []Datatype
}

// System is the resolved configuration of a whole vehicle network.
type System struct {
	General  General
	ECUs     []*ECU
	Topology Topology
	Metadata SystemMetadata
}

// ECU returns the ECU called name.
func (s *System) ECU(name string) *ECU {
	for _, e := range s.ECUs {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// ECUPorts returns every ECU port of the system.
func (s *System) ECUPorts() []*ECUPort {
	var out []*ECUPort
	for _, e := range s.ECUs {
		out = append(out, e.Ports...)
	}
	return out
}

// Interfaces returns every controller interface of the system.
func (s *System) Interfaces() []*ControllerInterface {
	var out []*ControllerInterface
	for _, e := range s.ECUs {
		out = append(out, e.Interfaces()...)
	}
	return out
}
