// Package transporttest provides an in-memory SNMP device for tests.
package transporttest

import (
	"context"
	"strconv"
	"sync"

	"switch-collector/models/snmp"
	"switch-collector/pkg/parser"
	"switch-collector/pkg/transport"
)

var _ transport.Transport = (*Device)(nil)

// Device answers GETs from Scalars and WALKs from Tables. OIDs missing from
// both behave like a device that does not answer.
type Device struct {
	mu sync.Mutex

	Scalars  map[string]string
	Tables   map[string][]string
	GetErrs  map[string]error
	WalkErrs map[string]error

	Gets  int
	Walks int
}

func NewDevice() *Device {
	return &Device{
		Scalars:  map[string]string{},
		Tables:   map[string][]string{},
		GetErrs:  map[string]error{},
		WalkErrs: map[string]error{},
	}
}

// NewSwitch returns a responsive device with the given number of ports.
// Odd ports are up at 100 Mbps, even ports are down at 1 Gbps.
func NewSwitch(ports int) *Device {
	d := NewDevice()
	d.Scalars[snmp.OidSysDescr] = "Zyxel GS1900-24 Switch"
	d.Scalars[snmp.OidSysUpTime] = "(9012345) 1 days, 01:02:03.45"
	d.Scalars[snmp.OidSysName] = "core-sw-01"
	d.Scalars[snmp.OidSysLocation] = "rack 4"
	d.Scalars[snmp.OidSysObjectID] = ".1.3.6.1.4.1.890.1.15"
	d.Scalars[snmp.OidIfNumber] = strconv.Itoa(ports)

	for i := 1; i <= ports; i++ {
		suffix := "." + strconv.Itoa(i)
		d.Scalars[snmp.OidIfDescr+suffix] = "port " + strconv.Itoa(i)
		if i%2 == 1 {
			d.Scalars[snmp.OidIfOperStatus+suffix] = "1"
			d.Scalars[snmp.OidIfSpeed+suffix] = "100000000"
		} else {
			d.Scalars[snmp.OidIfOperStatus+suffix] = "2"
			d.Scalars[snmp.OidIfSpeed+suffix] = "1000000000"
		}
	}
	return d
}

func (d *Device) Get(ctx context.Context, _ snmp.SNMPConnectionConfig, oid string) (snmp.Value, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Gets++
	if err := ctx.Err(); err != nil {
		return snmp.Unavailable, err
	}
	if err := d.GetErrs[oid]; err != nil {
		return snmp.Unavailable, err
	}
	raw, ok := d.Scalars[oid]
	if !ok {
		return snmp.Unavailable, nil
	}
	return parser.ParseScalar(raw), nil
}

func (d *Device) Walk(ctx context.Context, _ snmp.SNMPConnectionConfig, oid string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.Walks++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := d.WalkErrs[oid]; err != nil {
		return nil, err
	}
	return append([]string(nil), d.Tables[oid]...), nil
}

func (d *Device) Calls() (gets, walks int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Gets, d.Walks
}
