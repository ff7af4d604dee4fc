package switch_port

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"switch-collector/models/snmp"
)

type Status uint8

const (
	StatusUp   Status = 1
	StatusDown Status = 2
)

func (s Status) String() string {
	if s == StatusUp {
		return "UP"
	}
	return "DOWN"
}

// Class is the lower-case form used by presentation layers for styling.
func (s Status) Class() string {
	return strings.ToLower(s.String())
}

// SwitchPort is one interface of a device, keyed by its ifIndex.
type SwitchPort struct {
	PortIndex   int
	Description snmp.Value
	Status      Status
	// SpeedMbps is nil when the device reported a non-numeric speed.
	SpeedMbps *int64
	Vlans     snmp.Value
	Macs      []string
}

func New(index int) SwitchPort {
	return SwitchPort{
		PortIndex: index,
		Status:    StatusDown,
		Macs:      []string{},
	}
}

type wirePort struct {
	Index       int        `json:"index"`
	Description snmp.Value `json:"description"`
	Status      string     `json:"status"`
	Class       string     `json:"class"`
	Speed       string     `json:"speed"`
	Vlans       snmp.Value `json:"vlans"`
	Macs        []string   `json:"macs"`
}

func (sp SwitchPort) MarshalJSON() ([]byte, error) {
	macs := sp.Macs
	if macs == nil {
		macs = []string{}
	}
	return json.Marshal(wirePort{
		Index:       sp.PortIndex,
		Description: sp.Description,
		Status:      sp.Status.String(),
		Class:       sp.Status.Class(),
		Speed:       FormatSpeed(sp.SpeedMbps),
		Vlans:       sp.Vlans,
		Macs:        macs,
	})
}

func (sp *SwitchPort) UnmarshalJSON(data []byte) error {
	var w wirePort
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	speed, err := parseSpeed(w.Speed)
	if err != nil {
		return err
	}
	status := StatusDown
	if strings.EqualFold(w.Status, StatusUp.String()) {
		status = StatusUp
	}
	macs := w.Macs
	if macs == nil {
		macs = []string{}
	}
	*sp = SwitchPort{
		PortIndex:   w.Index,
		Description: w.Description,
		Status:      status,
		SpeedMbps:   speed,
		Vlans:       w.Vlans,
		Macs:        macs,
	}
	return nil
}

func FormatSpeed(mbps *int64) string {
	if mbps == nil {
		return snmp.Placeholder
	}
	return strconv.FormatInt(*mbps, 10) + " Mbps"
}

func parseSpeed(s string) (*int64, error) {
	if s == "" || s == snmp.Placeholder {
		return nil, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(strings.TrimSuffix(s, "Mbps")), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid port speed %q: %w", s, err)
	}
	return &n, nil
}
