package connection

import (
	"time"

	g "github.com/gosnmp/gosnmp"

	"switch-collector/models/snmp"
)

const (
	DefaultTimeout = time.Second
	DefaultRetries = 1
)

// HandlerFactory builds an unconfigured SNMP handler; tests swap it for a mock.
type HandlerFactory func() g.Handler

// Dial configures a fresh handler for one request and opens its socket.
// Handlers are not shared between calls, so the caller must Close it.
func Dial(newHandler HandlerFactory, params snmp.SNMPConnectionConfig) (g.Handler, error) {
	if newHandler == nil {
		newHandler = g.NewHandler
	}
	h := newHandler()

	port := params.Port
	if port == 0 {
		port = snmp.DefaultPort
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retries := params.Retries
	if retries < 0 {
		retries = DefaultRetries
	}

	h.SetTarget(params.Target)
	h.SetPort(uint16(port))
	h.SetCommunity(params.Community)
	h.SetVersion(snmp.GetSNMPVersion(params.Version))
	h.SetTimeout(timeout)
	h.SetRetries(retries)

	if err := h.Connect(); err != nil {
		return nil, err
	}
	return h, nil
}
