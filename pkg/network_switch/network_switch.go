package network_switch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	model_ns "switch-collector/models/network_switch"
	"switch-collector/models/snmp"
	model_sp "switch-collector/models/switch_port"
	"switch-collector/pkg/logger"
	"switch-collector/pkg/parser"
	"switch-collector/pkg/switch_port"
	"switch-collector/pkg/transport"
)

var ErrDeviceUnreachable = errors.New("device does not respond over snmp")

type NSCollector struct {
	Transport     transport.Transport
	Connection    snmp.SNMPConnectionConfig
	NetworkSwitch *model_ns.NetworkSwitch
	Log           zerolog.Logger
}

func NewNSCollector(t transport.Transport, conn snmp.SNMPConnectionConfig) *NSCollector {
	return &NSCollector{
		Transport:  t,
		Connection: conn,
		Log:        logger.WithComponent("network_switch").With().Str("target", conn.Target).Logger(),
	}
}

// Collect builds a fresh snapshot into nsc.NetworkSwitch. It fails when the
// device does not report its description or on a transport fault; missing
// port attributes and table data are left at their defaults.
func (nsc *NSCollector) Collect(ctx context.Context) error {
	info, err := nsc.collectSystem(ctx)
	if err != nil {
		return err
	}

	if info.AllUnavailable() || !info.Description.Valid {
		return fmt.Errorf("%w: %s", ErrDeviceUnreachable, nsc.Connection.Redacted())
	}

	count, err := nsc.portCount(ctx)
	if err != nil {
		return err
	}

	ports := map[int]model_sp.SwitchPort{}
	for i := 1; i <= count; i++ {
		sp := model_sp.New(i)
		spc := switch_port.NewSPCollector(nsc.Transport, nsc.Connection, &sp)
		if err := spc.GetByOids(ctx); err != nil {
			return err
		}
		ports[i] = sp
	}
	nsc.Log.Debug().Int("ports", count).Msg("collect ports oids finished")

	nsc.mergeVlans(ctx, ports)
	nsc.mergeMacs(ctx, ports)

	nsc.NetworkSwitch = &model_ns.NetworkSwitch{Info: info, Ports: ports}

	return nil
}

func (nsc *NSCollector) collectSystem(ctx context.Context) (model_ns.SystemInfo, error) {
	var info model_ns.SystemInfo

	fields := []struct {
		oid   string
		value *snmp.Value
	}{
		{snmp.OidSysDescr, &info.Description},
		{snmp.OidSysUpTime, &info.Uptime},
		{snmp.OidSysName, &info.Name},
		{snmp.OidSysLocation, &info.Location},
		{snmp.OidSysObjectID, &info.ObjectID},
	}

	for _, f := range fields {
		value, err := nsc.Transport.Get(ctx, nsc.Connection, f.oid)
		if err != nil {
			return info, fmt.Errorf("system info: %w", err)
		}
		*f.value = value
	}
	return info, nil
}

func (nsc *NSCollector) portCount(ctx context.Context) (int, error) {
	value, err := nsc.Transport.Get(ctx, nsc.Connection, snmp.OidIfNumber)
	if err != nil {
		return 0, fmt.Errorf("port count: %w", err)
	}
	count, capped := parser.ParsePortCount(value)
	if capped {
		nsc.Log.Warn().Str("reported", value.Str).Int("polled", count).Msg("port count capped")
	}
	return count, nil
}

func (nsc *NSCollector) WalkAllByOid(ctx context.Context, oid string) []string {
	lines, err := nsc.Transport.Walk(ctx, nsc.Connection, oid)
	if err != nil {
		nsc.Log.Warn().Err(err).Str("oid", oid).Msg("table walk failed")
		return nil
	}
	return lines
}

func (nsc *NSCollector) mergeVlans(ctx context.Context, ports map[int]model_sp.SwitchPort) {
	lines := nsc.WalkAllByOid(ctx, snmp.OidVlanTable)
	vlans := parser.ParseVlanTable(lines)
	if len(vlans) == 0 {
		nsc.Log.Warn().Int("lines", len(lines)).Msg("no vlan data")
		return
	}

	for index, label := range vlans {
		sp, ok := ports[index]
		if !ok {
			nsc.Log.Debug().Int("index", index).Msg("vlan entry for unknown port dropped")
			continue
		}
		sp.Vlans = snmp.Available(label)
		ports[index] = sp
	}
}

func (nsc *NSCollector) mergeMacs(ctx context.Context, ports map[int]model_sp.SwitchPort) {
	lines := nsc.WalkAllByOid(ctx, snmp.OidMacTable)
	macs := parser.ParseMacTable(lines)
	if len(macs) == 0 {
		nsc.Log.Warn().Int("lines", len(lines)).Msg("no mac data")
		return
	}

	for index, list := range macs {
		sp, ok := ports[index]
		if !ok {
			nsc.Log.Debug().Int("index", index).Msg("mac entries for unknown port dropped")
			continue
		}
		sp.Macs = append(sp.Macs, list...)
		ports[index] = sp
	}
}
