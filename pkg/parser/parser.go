// Package parser turns raw SNMP GET/WALK text into typed values.
//
// Parsers never fail: lines they do not recognise are skipped, and values
// they cannot read become unavailable.
package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"switch-collector/models/snmp"
	"switch-collector/models/switch_port"
	"switch-collector/util"
)

const VlanTag = "VLAN:"

// MaxPortCount bounds the port count read from a device; ifIndex values
// above it are not polled.
const MaxPortCount = 65535

var (
	vlanLine = regexp.MustCompile(`(?i)\.(\d+)\s+=\s+STRING:\s*"([0-9A-F\s]+)"`)
	macLine  = regexp.MustCompile(`(?i)\.(\d+)\s+(?:=\s+[A-Z-]+:\s*)?"?([0-9A-F]{2}(?:[:\s][0-9A-F]{2}){5})`)
	macSep   = regexp.MustCompile(`\s`)
	nonDigit = regexp.MustCompile(`\D+`)

	unavailableMarkers = []string{"timeout", "no response", "no such object", "no such instance"}
)

func ParseScalar(raw string) snmp.Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return snmp.Unavailable
	}
	lower := strings.ToLower(s)
	for _, marker := range unavailableMarkers {
		if strings.Contains(lower, marker) {
			return snmp.Unavailable
		}
	}
	return snmp.Available(s)
}

// ParseVlanTable maps port index to its VLAN label. A later line for the
// same index replaces an earlier one.
func ParseVlanTable(lines []string) map[int]string {
	vlans := map[int]string{}
	for _, line := range lines {
		m := vlanLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		vlans[index] = VlanTag + strings.TrimSpace(m[2])
	}
	return vlans
}

// ParseMacTable maps port index to the MACs learned on it, in walk order.
// Duplicates are kept.
func ParseMacTable(lines []string) map[int][]string {
	macs := map[int][]string{}
	for _, line := range lines {
		m := macLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		mac := macSep.ReplaceAllString(strings.ToUpper(m[2]), ":")
		macs[index] = append(macs[index], mac)
	}
	return macs
}

// ParsePortCount strips everything but digits, so "24 ports" reads as 24.
// Counts above MaxPortCount are capped and reported as such.
func ParsePortCount(v snmp.Value) (count int, capped bool) {
	if !v.Valid {
		return 0, false
	}
	digits := nonDigit.ReplaceAllString(v.Str, "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, 64)
	if err != nil || n > MaxPortCount {
		// ParseUint only fails here on overflow.
		return MaxPortCount, true
	}
	return int(n), false
}

// ParseSpeed converts ifSpeed in bits per second to whole Mbps.
func ParseSpeed(v snmp.Value) *int64 {
	if !v.Valid {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	mbps := int64(util.RoundFloat(math.Trunc(f)/1_000_000, 0))
	return &mbps
}

// ParseStatus treats any value containing "1" as up. Unknown and
// unavailable statuses read as down.
func ParseStatus(v snmp.Value) switch_port.Status {
	if v.Valid && strings.Contains(v.Str, "1") {
		return switch_port.StatusUp
	}
	return switch_port.StatusDown
}
