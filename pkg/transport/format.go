package transport

import (
	"fmt"
	"strings"

	g "github.com/gosnmp/gosnmp"

	"switch-collector/models/snmp"
)

// FormatValue renders a PDU value the way `snmpget -Oqv` would print it.
// Values that carry no data render as "".
func FormatValue(pdu g.SnmpPDU) string {
	switch pdu.Type {
	case g.OctetString:
		b, _ := pdu.Value.([]byte)
		if isPrintable(b) {
			return string(b)
		}
		return hexString(b, " ")
	case g.ObjectIdentifier, g.IPAddress:
		s, _ := pdu.Value.(string)
		return s
	case g.TimeTicks:
		return formatTicks(g.ToBigInt(pdu.Value).Uint64())
	case g.Integer, g.Counter32, g.Gauge32, g.Counter64, g.Uinteger32:
		return g.ToBigInt(pdu.Value).String()
	default:
		return ""
	}
}

// FormatWalkLine renders a PDU walked under table. The VLAN and MAC tables
// hold binary octet strings, so their rows print as hex whatever the bytes
// are: port bitmaps as quoted space separated hex, addresses as colon hex.
func FormatWalkLine(table string, pdu g.SnmpPDU) string {
	if pdu.Type == g.OctetString {
		b, _ := pdu.Value.([]byte)
		switch oidName(table) {
		case snmp.OidVlanTable:
			return oidName(pdu.Name) + ` = STRING: "` + hexString(b, " ") + `"`
		case snmp.OidMacTable:
			return oidName(pdu.Name) + " = STRING: " + hexString(b, ":")
		}
	}
	return FormatLine(pdu)
}

// FormatLine renders a walked PDU as `<oid> = <TYPE>: <value>`. Octet
// strings are quoted. PDUs without data return "".
func FormatLine(pdu g.SnmpPDU) string {
	name := oidName(pdu.Name)
	switch pdu.Type {
	case g.OctetString:
		return name + ` = STRING: "` + FormatValue(pdu) + `"`
	case g.ObjectIdentifier:
		return name + " = OID: " + FormatValue(pdu)
	case g.IPAddress:
		return name + " = IpAddress: " + FormatValue(pdu)
	case g.TimeTicks:
		return name + " = Timeticks: " + FormatValue(pdu)
	case g.Integer:
		return name + " = INTEGER: " + FormatValue(pdu)
	case g.Counter32:
		return name + " = Counter32: " + FormatValue(pdu)
	case g.Gauge32:
		return name + " = Gauge32: " + FormatValue(pdu)
	case g.Counter64:
		return name + " = Counter64: " + FormatValue(pdu)
	case g.Uinteger32:
		return name + " = UInteger32: " + FormatValue(pdu)
	default:
		return ""
	}
}

func oidName(oid string) string {
	return "." + strings.TrimPrefix(oid, ".")
}

func isPrintable(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}

func hexString(b []byte, sep string) string {
	parts := make([]string, len(b))
	for i, c := range b {
		parts[i] = fmt.Sprintf("%02X", c)
	}
	return strings.Join(parts, sep)
}

// formatTicks prints hundredths of a second as "(ticks) D days, HH:MM:SS.cc".
func formatTicks(ticks uint64) string {
	cs := ticks % 100
	s := ticks / 100
	days := s / 86400
	s %= 86400
	return fmt.Sprintf("(%d) %d days, %02d:%02d:%02d.%02d", ticks, days, s/3600, (s%3600)/60, s%60, cs)
}
