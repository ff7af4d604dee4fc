package switch_port

import (
	"context"
	"fmt"

	"switch-collector/models/snmp"
	model_sp "switch-collector/models/switch_port"
	"switch-collector/pkg/parser"
	"switch-collector/pkg/transport"
)

const (
	KeyDescription = "description"
	KeyStatus      = "status"
	KeySpeed       = "speed"
)

// PortOids are the ifTable columns read for every port.
var PortOids = map[string]string{
	KeyDescription: snmp.OidIfDescr,
	KeyStatus:      snmp.OidIfOperStatus,
	KeySpeed:       snmp.OidIfSpeed,
}

var portKeys = []string{KeyDescription, KeyStatus, KeySpeed}

type SPCollector struct {
	Transport  transport.Transport
	Connection snmp.SNMPConnectionConfig
	SwitchPort *model_sp.SwitchPort
}

func NewSPCollector(t transport.Transport, conn snmp.SNMPConnectionConfig, sp *model_sp.SwitchPort) *SPCollector {
	return &SPCollector{
		Transport:  t,
		Connection: conn,
		SwitchPort: sp,
	}
}

// GetByOids fills the port's description, status and speed. Only a
// transport fault is returned; unanswered OIDs leave the defaults.
func (spc *SPCollector) GetByOids(ctx context.Context) error {
	oids := spc.SwitchPort.SetOids(PortOids)

	for _, key := range portKeys {
		value, err := spc.Transport.Get(ctx, spc.Connection, oids[key])
		if err != nil {
			return fmt.Errorf("port %d %s: %w", spc.SwitchPort.PortIndex, key, err)
		}

		switch key {
		case KeyDescription:
			spc.SwitchPort.Description = value
		case KeyStatus:
			spc.SwitchPort.Status = parser.ParseStatus(value)
		case KeySpeed:
			spc.SwitchPort.SpeedMbps = parser.ParseSpeed(value)
		}
	}
	return nil
}
