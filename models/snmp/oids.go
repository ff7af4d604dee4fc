package snmp

const (
	OidSysDescr    = ".1.3.6.1.2.1.1.1.0"
	OidSysObjectID = ".1.3.6.1.2.1.1.2.0"
	OidSysUpTime   = ".1.3.6.1.2.1.1.3.0"
	OidSysName     = ".1.3.6.1.2.1.1.5.0"
	OidSysLocation = ".1.3.6.1.2.1.1.6.0"

	OidIfNumber     = ".1.3.6.1.2.1.2.1.0"
	OidIfDescr      = ".1.3.6.1.2.1.2.2.1.2"
	OidIfSpeed      = ".1.3.6.1.2.1.2.2.1.5"
	OidIfOperStatus = ".1.3.6.1.2.1.2.2.1.8"

	// dot1qVlanCurrentEgressPorts
	OidVlanTable = ".1.3.6.1.2.1.17.7.1.4.3.1.2"
	// dot1dTpFdbAddress
	OidMacTable = ".1.3.6.1.2.1.17.4.3.1.1"
)

const (
	ClassSystem    = "system"
	ClassPortCount = "port-count"
	ClassPort      = "port"
	ClassVlan      = "vlan"
	ClassMac       = "mac"
)

// OidClasses groups OIDs by the part of the inventory they feed; used to
// label errors.
var OidClasses = map[string]string{
	ClassSystem:    ".1.3.6.1.2.1.1",
	ClassPortCount: ".1.3.6.1.2.1.2.1",
	ClassPort:      ".1.3.6.1.2.1.2.2.1",
	ClassVlan:      ".1.3.6.1.2.1.17.7",
	ClassMac:       ".1.3.6.1.2.1.17.4",
}
