package transport

import (
	"context"

	g "github.com/gosnmp/gosnmp"

	"switch-collector/connection"
	"switch-collector/models/snmp"
	"switch-collector/pkg/parser"
)

// Native speaks SNMP over UDP with gosnmp. Every call opens and closes its
// own handler.
type Native struct {
	NewHandler connection.HandlerFactory
}

func NewNative() *Native {
	return &Native{NewHandler: g.NewHandler}
}

func (n *Native) Get(ctx context.Context, conn snmp.SNMPConnectionConfig, oid string) (snmp.Value, error) {
	if err := ctx.Err(); err != nil {
		return snmp.Unavailable, err
	}

	h, err := connection.Dial(n.NewHandler, conn)
	if err != nil {
		return snmp.Unavailable, newFault(conn, oid, err)
	}
	defer h.Close()

	result, err := h.Get([]string{oid})
	if err != nil {
		if isTimeout(err) {
			return snmp.Unavailable, nil
		}
		return snmp.Unavailable, newFault(conn, oid, err)
	}

	if result == nil || result.Error != g.NoError || len(result.Variables) == 0 {
		return snmp.Unavailable, nil
	}

	return parser.ParseScalar(FormatValue(result.Variables[0])), nil
}

func (n *Native) Walk(ctx context.Context, conn snmp.SNMPConnectionConfig, oid string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h, err := connection.Dial(n.NewHandler, conn)
	if err != nil {
		return nil, newFault(conn, oid, err)
	}
	defer h.Close()

	var variables []g.SnmpPDU
	if snmp.GetSNMPVersion(conn.Version) == g.Version1 {
		variables, err = h.WalkAll(oid)
	} else {
		variables, err = h.BulkWalkAll(oid)
	}
	if err != nil {
		if isTimeout(err) {
			return nil, nil
		}
		return nil, newFault(conn, oid, err)
	}

	lines := make([]string, 0, len(variables))
	for _, variable := range variables {
		if line := FormatWalkLine(oid, variable); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
