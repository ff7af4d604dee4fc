package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switch-collector/models/snmp"
	"switch-collector/models/switch_port"
)

func TestParseScalar(t *testing.T) {
	tests := map[string]struct {
		raw      string
		expected snmp.Value
	}{
		"plain value":     {raw: "  core-sw-01\n", expected: snmp.Available("core-sw-01")},
		"empty":           {raw: "", expected: snmp.Unavailable},
		"whitespace only": {raw: " \t\n", expected: snmp.Unavailable},
		"timeout":         {raw: "Timeout: No Response from 10.0.0.1", expected: snmp.Unavailable},
		"no response":     {raw: "no response received", expected: snmp.Unavailable},
		"no such object":  {raw: "No Such Object available on this agent at this OID", expected: snmp.Unavailable},
		"oid value":       {raw: ".1.3.6.1.4.1.890.1.5", expected: snmp.Available(".1.3.6.1.4.1.890.1.5")},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expected, ParseScalar(test.raw))
		})
	}
}

func TestParseVlanTable(t *testing.T) {
	lines := []string{
		`.1.3.6.1.2.1.17.7.1.4.3.1.2.5 = STRING: "0A1F"`,
		`.1.3.6.1.2.1.17.7.1.4.3.1.2.7 = STRING: " ff 00 0a "`,
		`.1.3.6.1.2.1.17.7.1.4.3.1.2.8 = INTEGER: 3`,
		`garbage line`,
		`.1.3.6.1.2.1.17.7.1.4.3.1.2.9 = STRING: "not hex"`,
		``,
	}

	vlans := ParseVlanTable(lines)

	assert.Equal(t, map[int]string{
		5: "VLAN:0A1F",
		7: "VLAN:ff 00 0a",
	}, vlans)
}

func TestParseVlanTable_LastLineWins(t *testing.T) {
	vlans := ParseVlanTable([]string{
		`.2 = STRING: "01"`,
		`.2 = STRING: "02"`,
	})
	assert.Equal(t, map[int]string{2: "VLAN:02"}, vlans)
}

func TestParseMacTable(t *testing.T) {
	lines := []string{
		`.5 aa:bb:cc:dd:ee:ff`,
		`.1.3.6.1.2.1.17.4.3.1.1.3 = STRING: 00:1B:21:3C:4D:5E`,
		`.5 AA:BB:CC:DD:EE:FF`,
		`.5 00:11:22:33:44:55`,
		`.1.3.6.1.2.1.17.4.3.1.1.4 = STRING: "00 1b 21 3c 4d 5f"`,
		`.6 not-a-mac`,
		`no index here 00:11:22:33:44:55`,
	}

	macs := ParseMacTable(lines)

	assert.Equal(t, map[int][]string{
		5: {"AA:BB:CC:DD:EE:FF", "AA:BB:CC:DD:EE:FF", "00:11:22:33:44:55"},
		3: {"00:1B:21:3C:4D:5E"},
		4: {"00:1B:21:3C:4D:5F"},
	}, macs)
}

func TestParseMacTable_Empty(t *testing.T) {
	assert.Empty(t, ParseMacTable(nil))
	assert.Empty(t, ParseVlanTable(nil))
}

func TestParsePortCount(t *testing.T) {
	tests := map[string]struct {
		in     snmp.Value
		count  int
		capped bool
	}{
		"with unit":   {in: snmp.Available("24 ports"), count: 24},
		"plain":       {in: snmp.Available("52"), count: 52},
		"no digits":   {in: snmp.Available("none"), count: 0},
		"zero":        {in: snmp.Available("0"), count: 0},
		"unavailable": {in: snmp.Unavailable, count: 0},
		"placeholder": {in: snmp.Available(snmp.Placeholder), count: 0},
		"at limit":    {in: snmp.Available("65535"), count: MaxPortCount},
		"huge":        {in: snmp.Available("100000000"), count: MaxPortCount, capped: true},
		"overflow":    {in: snmp.Available("99999999999999999999999"), count: MaxPortCount, capped: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			count, capped := ParsePortCount(test.in)
			assert.Equal(t, test.count, count)
			assert.Equal(t, test.capped, capped)
		})
	}
}

func TestParseSpeed(t *testing.T) {
	speed := ParseSpeed(snmp.Available("100000000"))
	require.NotNil(t, speed)
	assert.Equal(t, int64(100), *speed)

	speed = ParseSpeed(snmp.Available("1500000"))
	require.NotNil(t, speed)
	assert.Equal(t, int64(2), *speed)

	speed = ParseSpeed(snmp.Available("0"))
	require.NotNil(t, speed)
	assert.Equal(t, int64(0), *speed)

	assert.Nil(t, ParseSpeed(snmp.Available("fast")))
	assert.Nil(t, ParseSpeed(snmp.Available("NaN")))
	assert.Nil(t, ParseSpeed(snmp.Unavailable))
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, switch_port.StatusUp, ParseStatus(snmp.Available("1")))
	assert.Equal(t, switch_port.StatusUp, ParseStatus(snmp.Available("up(1)")))
	assert.Equal(t, switch_port.StatusDown, ParseStatus(snmp.Available("2")))
	assert.Equal(t, switch_port.StatusDown, ParseStatus(snmp.Available("7")))
	assert.Equal(t, switch_port.StatusDown, ParseStatus(snmp.Unavailable))
}
