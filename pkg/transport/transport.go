// Package transport issues single SNMP GETs and WALKs against a device.
//
// A device that does not answer is not an error here: Get returns an
// unavailable value and Walk returns no lines. Only a failure of the
// transport mechanism itself is reported as an error, and it always
// matches ErrTransportFault.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"switch-collector/models/snmp"
	"switch-collector/util"
)

var ErrTransportFault = errors.New("snmp transport fault")

type Transport interface {
	Get(ctx context.Context, conn snmp.SNMPConnectionConfig, oid string) (snmp.Value, error)
	Walk(ctx context.Context, conn snmp.SNMPConnectionConfig, oid string) ([]string, error)
}

type FaultError struct {
	Target string
	OID    string
	Class  string
	Err    error
}

func newFault(conn snmp.SNMPConnectionConfig, oid string, err error) *FaultError {
	return &FaultError{
		Target: conn.Redacted(),
		OID:    oid,
		Class:  util.GetKeyByOid(snmp.OidClasses, oid),
		Err:    err,
	}
}

func (e *FaultError) Error() string {
	class := e.Class
	if class == "" {
		class = "unknown"
	}
	return fmt.Sprintf("%s: %s oid %s (%s): %v", ErrTransportFault, e.Target, e.OID, class, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

func (e *FaultError) Is(target error) bool {
	return target == ErrTransportFault
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
