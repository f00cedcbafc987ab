package schema

// ModulePath is the CUE module declared for every loaded document.
const ModulePath = "ecunet.dev/ecunet"

// ImportPath is the CUE import path of the #System schema.
const ImportPath = ModulePath + "/schema"

const modulePath = "cue.mod/module.cue"
const systemOverlayPath = "schema/system.cue"

const moduleContent = `module: "ecunet.dev/ecunet"
language: {
    version: "v0.9.0"
}
`

// SystemContent is the CUE source of the #System schema. It constrains the
// shape of a document; cross references and value rules are left to the
// validation engine, so every struct stays open.
const SystemContent = `package schema

#System: {
    general?: #General
    ecus: [...#ECU]
    topology: {
        system_topology: {
            connections?: [...#ExternalConnection]
            ...
        }
        ...
    }
    metadata: #SystemMetadata
    ...
}

#General: {
    datatypes?: [...#Datatype]
    ...
}

#Datatype: {
    name: string
    type: "uint8" | "uint16" | "uint32" | "uint64" | "sint8" | "sint16" | "sint32" | "sint64" | "boolean" | "float32" | "float64" | "enum" | "struct" | "union"
    description?: string
    endianness?: "BE" | "LE"
    ...
}

#ECU: {
    name: string
    ports: [...#ECUPort]
    controllers: [...#Controller]
    switches?: [...#Switch]
    topology: {
        connections?: [...#Connection]
        ...
    }
    ecu_metadata: {
        author?: string
        hardware_version?: string
        software_version?: string
        description?: string
        ...
    }
    ...
}

#ECUPort: {
    name: string
    mdi_config?: #MDI
    mii_config?: #MII
    ...
}

#MDI: {
    mode: "base_t1" | "base_t1s" | "base_t"
    speed?: int & >0
    role?: "master" | "slave" | "auto"
    ...
}

#MII: {
    type: "mii" | "rmii" | "sgmii" | "rgmii" | "xfi"
    mode: "mac" | "phy"
    speed: int & >0
    ...
}

#Controller: {
    name: string
    interfaces: [...#ControllerInterface]
    ...
}

#ControllerInterface: {
    name: string
    mac_address: string
    mii_config?: #MII
    htb?: _
    macsec_config?: _
    ptp_config?: _
    traffic_classes?: [...#TrafficClass]
    firewall?: _
    virtual_interfaces?: [...#VirtualInterface]
    ...
}

#VirtualInterface: {
    name: string
    vlan_id: int & >=1 & <=4094
    addresses?: [...{
        address: string
        prefix_length: int & >=0
        ...
    }]
    ...
}

#TrafficClass: {
    name: string
    priority: int & >=0 & <=7
    frame_priority_values?: [...int]
    internal_priority_values?: [...int]
    selection_mechanisms?: _
    ...
}

#Switch: {
    name: string
    ports: [...#SwitchPort]
    ...
}

#SwitchPort: {
    name: string
    silicon_port_no: int & >=0
    default_vlan_id?: int
    mii_config?: #MII
    macsec_config?: _
    ptp_config?: _
    traffic_classes?: [...#TrafficClass]
    ...
}

#Connection: {
    type: "ecu_port_to_switch_port" | "ecu_port_to_controller_interface" | "switch_port_to_controller_interface" | "switch_to_switch_same_ecu" | "controller_interface_to_controller_interface"
    id: string
    ...
}

#ExternalConnection: {
    type: "ecu_port_to_ecu_port"
    id: string
    ecu1_port: string
    ecu2_port: string
    ...
}

#SystemMetadata: {
    oem: string
    platform: string
    variant?: string
    author?: string
    version?: string
    ...
}
`

func init() {
	RegisterDefaultOverlay(func() error {
		if err := RegisterOverlayString(modulePath, moduleContent); err != nil {
			return err
		}
		return RegisterOverlayString(systemOverlayPath, SystemContent)
	})
}
