package mapper

import (
	"testing"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapZones(t *testing.T) {
	zones := MapZones(load(t, "systemcontrol"))
	require.Len(t, zones, 1)

	zone := zones[0]
	assert.Equal(t, "Control_ZO1", zone.Id)
	assert.Equal(t, "Zone 1", zone.Name)
	assert.True(t, zone.Enabled)
	assert.False(t, zone.Rbr)
	assert.Equal(t, 19.6, *zone.Temperature)
	assert.Equal(t, 20.0, *zone.TargetHigh)
	assert.Equal(t, 18.0, *zone.TargetLow)
	assert.Equal(t, model.OperatingModeAuto, zone.OperatingMode)
	assert.Equal(t, model.ActiveFunctionHeating, zone.ActiveFunction)
	assert.Nil(t, zone.QuickVeto)

	monday := zone.TimeProgram.Days[0].Settings
	require.Len(t, monday, 3)
	assert.Equal(t, "05:30", monday[1].StartTime)
	assert.Equal(t, model.SettingModeDay, monday[1].Mode)
}

func TestMapZoneCooling(t *testing.T) {
	zones := MapZones(load(t, "systemcontrol_ventilation"))
	require.Len(t, zones, 1)

	assert.Equal(t, model.ActiveFunctionCooling, zones[0].ActiveFunction)
	assert.Equal(t, 24.0, *zones[0].TargetHigh)
}

func TestMapZoneEmpty(t *testing.T) {
	zone, err := MapZone(Document{})
	assert.NoError(t, err)
	assert.Nil(t, zone)
}

func TestMapZoneWithoutId(t *testing.T) {
	zone, err := MapZone(getJson(t, `{"configuration": {"name": "Zone 1"}}`))
	assert.NoError(t, err)
	assert.Nil(t, zone)
}

func TestMapZoneNoActiveFunction(t *testing.T) {
	zone, err := MapZone(load(t, "zone_no_active_function"))
	require.NoError(t, err)
	require.NotNil(t, zone)
	assert.Equal(t, model.ActiveFunctionStandby, zone.ActiveFunction)
	assert.Nil(t, zone.TargetHigh)
	assert.Equal(t, model.OperatingModeUnknown, zone.OperatingMode)
}

func TestMapZoneHeatingWithoutMarker(t *testing.T) {
	zone, err := MapZone(getJson(t, `{
		"_id": "Control_ZO1",
		"heating": {"configuration": {"mode": "DAY", "setpoint_temperature": 21}}
	}`))
	require.NoError(t, err)
	require.NotNil(t, zone)
	assert.Equal(t, model.ActiveFunctionHeating, zone.ActiveFunction)
	assert.Equal(t, 21.0, *zone.TargetHigh)
}

func TestMapZoneCoolingOnly(t *testing.T) {
	zone, err := MapZone(getJson(t, `{
		"_id": "Control_ZO1",
		"cooling": {
			"configuration": {"mode": "AUTO", "setpoint_temperature": 24, "setback_temperature": 26},
			"timeprogram": {"monday": [{"startTime": "00:00", "setting": "DAY"}]}
		}
	}`))
	require.NoError(t, err)
	require.NotNil(t, zone)
	assert.Equal(t, model.ActiveFunctionCooling, zone.ActiveFunction)
	assert.Equal(t, model.OperatingModeAuto, zone.OperatingMode)
	assert.Equal(t, 24.0, *zone.TargetHigh)
	assert.Equal(t, 26.0, *zone.TargetLow)
	require.Len(t, zone.TimeProgram.Days[0].Settings, 1)
}

func TestMapZoneExplicitStandby(t *testing.T) {
	zone, err := MapZone(getJson(t, `{
		"_id": "Control_ZO1",
		"configuration": {"active_function": "STANDBY"},
		"heating": {"configuration": {"mode": "AUTO", "setpoint_temperature": 20}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, model.ActiveFunctionStandby, zone.ActiveFunction)
	assert.Equal(t, 20.0, *zone.TargetHigh)
}

func TestMapQuickVetoZone(t *testing.T) {
	zones := MapZones(load(t, "systemcontrol_quick_veto"))
	require.Len(t, zones, 2)

	assert.Nil(t, zones[0].QuickVeto)
	assert.Equal(t, "Control_ZO2", zones[1].Id)
	require.NotNil(t, zones[1].QuickVeto)
	assert.Equal(t, 18.5, zones[1].QuickVeto.Target)
	assert.Nil(t, zones[1].QuickVeto.Duration)
}

func TestMapZoneQuickVetoDuration(t *testing.T) {
	zone, err := MapZone(getJson(t, `{
		"_id": "Control_ZO1",
		"configuration": {"quick_veto": {"active": true, "setpoint_temperature": 21.5, "remaining_duration": 120}}
	}`))
	require.NoError(t, err)
	require.NotNil(t, zone.QuickVeto)
	assert.Equal(t, 21.5, zone.QuickVeto.Target)
	assert.Equal(t, 120, *zone.QuickVeto.Duration)
	assert.Equal(t, model.OperatingModeUnknown, zone.OperatingMode)
}

func TestMapZonesSkipsMalformedZone(t *testing.T) {
	system := getJson(t, `{"body": {"zones": [
		{"_id": "Control_ZO1", "configuration": {"inside_temperature": "warm"}},
		{"_id": "Control_ZO2", "configuration": {"name": "Zone 2", "inside_temperature": 19.0}},
		"not a zone",
		{}
	]}}`)

	zones := MapZones(system)
	require.Len(t, zones, 1)
	assert.Equal(t, "Control_ZO2", zones[0].Id)
}

func TestMapZoneMalformed(t *testing.T) {
	zone, err := MapZone(getJson(t, `{"_id": "Control_ZO1", "configuration": {"inside_temperature": "warm"}}`))
	assert.Nil(t, zone)
	assert.IsType(t, &MappingError{}, err)
}

func TestMapZoneMalformedTimeProgram(t *testing.T) {
	zone, err := MapZone(getJson(t, `{
		"_id": "Control_ZO1",
		"heating": {"timeprogram": {"monday": [{"startTime": "noon", "setting": "DAY"}]}}
	}`))
	assert.Nil(t, zone)
	assert.IsType(t, &MappingError{}, err)
}
