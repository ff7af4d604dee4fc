package snmp

import (
	"encoding/json"
	"strconv"
	"time"

	g "github.com/gosnmp/gosnmp"
)

// Placeholder is what an unavailable value looks like on the wire and in
// rendered output.
const Placeholder = "—"

const (
	DefaultPort    = 161
	DefaultVersion = "2c"
)

type SNMPConnectionConfig struct {
	Target    string        `json:"target"`
	Port      int           `json:"port"`
	Community string        `json:"community"`
	Version   string        `json:"version"`
	Timeout   time.Duration `json:"-"`
	Retries   int           `json:"-"`
}

// Redacted describes the connection without the community string.
func (c SNMPConnectionConfig) Redacted() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	version := c.Version
	if version == "" {
		version = DefaultVersion
	}
	return c.Target + ":" + strconv.Itoa(port) + " (v" + version + ")"
}

func GetSNMPVersion(v string) (version g.SnmpVersion) {
	switch v {
	case "1":
		version = g.Version1
	case "3":
		version = g.Version3
	default:
		version = g.Version2c
	}
	return
}

// Value is a scalar read from a device. The zero value is unavailable.
type Value struct {
	Str   string
	Valid bool
}

var Unavailable = Value{}

func Available(s string) Value {
	return Value{Str: s, Valid: true}
}

func (v Value) String() string {
	if !v.Valid {
		return Placeholder
	}
	return v.Str
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == Placeholder {
		*v = Unavailable
		return nil
	}
	*v = Available(s)
	return nil
}
