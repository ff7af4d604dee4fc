package network_switch

import (
	"time"

	"switch-collector/models/snmp"
	"switch-collector/models/switch_port"
)

type SystemInfo struct {
	Description snmp.Value `json:"sysDescr"`
	Uptime      snmp.Value `json:"sysUpTime"`
	Name        snmp.Value `json:"sysName"`
	Location    snmp.Value `json:"sysLocation"`
	ObjectID    snmp.Value `json:"sysObjectID"`
}

// AllUnavailable reports whether the device answered none of the system OIDs.
func (si SystemInfo) AllUnavailable() bool {
	for _, v := range []snmp.Value{si.Description, si.Uptime, si.Name, si.Location, si.ObjectID} {
		if v.Valid {
			return false
		}
	}
	return true
}

// NetworkSwitch is the snapshot of one device at one point in time.
type NetworkSwitch struct {
	Info  SystemInfo                     `json:"info"`
	Ports map[int]switch_port.SwitchPort `json:"ports"`
}

func (ns NetworkSwitch) PortsUp() int {
	n := 0
	for _, p := range ns.Ports {
		if p.Status == switch_port.StatusUp {
			n++
		}
	}
	return n
}

type Source string

const (
	SourceCache Source = "cache"
	SourceLive  Source = "live"
)

// Summary is the listing view of a cached snapshot.
type Summary struct {
	Address     string     `json:"ip"`
	Name        snmp.Value `json:"name"`
	Description snmp.Value `json:"descr"`
	Uptime      snmp.Value `json:"uptime"`
	Ports       int        `json:"ports"`
	CapturedAt  time.Time  `json:"captured_at"`
}

func Summarize(address string, ns NetworkSwitch, capturedAt time.Time) Summary {
	return Summary{
		Address:     address,
		Name:        ns.Info.Name,
		Description: ns.Info.Description,
		Uptime:      ns.Info.Uptime,
		Ports:       len(ns.Ports),
		CapturedAt:  capturedAt,
	}
}
