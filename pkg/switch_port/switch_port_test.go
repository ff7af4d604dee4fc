package switch_port

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switch-collector/models/snmp"
	model_sp "switch-collector/models/switch_port"
	"switch-collector/pkg/transport"
	"switch-collector/pkg/transport/transporttest"
)

func TestSPCollector_GetByOids(t *testing.T) {
	device := transporttest.NewSwitch(2)

	up := model_sp.New(1)
	require.NoError(t, NewSPCollector(device, snmp.SNMPConnectionConfig{}, &up).GetByOids(context.Background()))

	assert.Equal(t, snmp.Available("port 1"), up.Description)
	assert.Equal(t, model_sp.StatusUp, up.Status)
	require.NotNil(t, up.SpeedMbps)
	assert.Equal(t, int64(100), *up.SpeedMbps)

	down := model_sp.New(2)
	require.NoError(t, NewSPCollector(device, snmp.SNMPConnectionConfig{}, &down).GetByOids(context.Background()))

	assert.Equal(t, model_sp.StatusDown, down.Status)
	require.NotNil(t, down.SpeedMbps)
	assert.Equal(t, int64(1000), *down.SpeedMbps)

	gets, _ := device.Calls()
	assert.Equal(t, 6, gets)
}

func TestSPCollector_UnansweredPort(t *testing.T) {
	device := transporttest.NewDevice()
	device.Scalars[snmp.OidIfSpeed+".9"] = "auto"

	sp := model_sp.New(9)
	require.NoError(t, NewSPCollector(device, snmp.SNMPConnectionConfig{}, &sp).GetByOids(context.Background()))

	assert.Equal(t, snmp.Unavailable, sp.Description)
	assert.Equal(t, model_sp.StatusDown, sp.Status)
	assert.Nil(t, sp.SpeedMbps)
	assert.Equal(t, snmp.Unavailable, sp.Vlans)
	assert.Empty(t, sp.Macs)
}

func TestSPCollector_TransportFault(t *testing.T) {
	device := transporttest.NewSwitch(1)
	fault := &transport.FaultError{OID: snmp.OidIfOperStatus + ".1", Class: snmp.ClassPort, Err: errors.New("sendto: broken pipe")}
	device.GetErrs[snmp.OidIfOperStatus+".1"] = fault

	sp := model_sp.New(1)
	err := NewSPCollector(device, snmp.SNMPConnectionConfig{}, &sp).GetByOids(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrTransportFault)
	assert.Contains(t, err.Error(), "port 1 status")
}
