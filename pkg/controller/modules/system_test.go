package modules

import (
	"testing"
	"time"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/homeassistant"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mqtt/mqtttest"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic/multimatictest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystemModule(t *testing.T, fixture string, now func() time.Time) (*SystemModule, *mqtttest.Client) {
	t.Helper()
	mmClient := multimatictest.NewClient(serial)
	serve(t, mmClient, multimatic.EndpointSystem, fixture)
	serve(t, mmClient, multimatic.EndpointLiveReport, "livereport")
	mqttClient := mqtttest.NewClient("multimatic")

	module := NewSystemModule(mqttClient, mmClient, testConfig()).(*SystemModule)
	module.now = now
	return module, mqttClient
}

func TestSystemModulePublishesZones(t *testing.T) {
	module, mqttClient := newSystemModule(t, "systemcontrol", monday(10, 0))
	module.Refresh()

	assert.Equal(t, "Zone 1", state(t, mqttClient, "zones/Control_ZO1/name"))
	assert.Equal(t, "true", state(t, mqttClient, "zones/Control_ZO1/enabled"))
	assert.Equal(t, "19.6", state(t, mqttClient, "zones/Control_ZO1/temperature"))
	assert.Equal(t, "20", state(t, mqttClient, "zones/Control_ZO1/target_high"))
	assert.Equal(t, "18", state(t, mqttClient, "zones/Control_ZO1/target_low"))
	assert.Equal(t, "AUTO", state(t, mqttClient, "zones/Control_ZO1/operating_mode"))
	assert.Equal(t, "HEATING", state(t, mqttClient, "zones/Control_ZO1/active_function"))
	assert.Equal(t, "false", state(t, mqttClient, "zones/Control_ZO1/quick_veto_active"))

	// Monday 10:00 is a DAY slot.
	assert.Equal(t, "20", state(t, mqttClient, "zones/Control_ZO1/target"))
	assert.Equal(t, "configured", state(t, mqttClient, "zones/Control_ZO1/target_source"))
}

func TestSystemModuleZoneNightTarget(t *testing.T) {
	module, mqttClient := newSystemModule(t, "systemcontrol", monday(23, 0))
	module.Refresh()

	assert.Equal(t, "18", state(t, mqttClient, "zones/Control_ZO1/target"))
}

func TestSystemModuleZoneQuickVeto(t *testing.T) {
	module, mqttClient := newSystemModule(t, "systemcontrol_quick_veto", monday(10, 0))
	module.Refresh()

	assert.Equal(t, "true", state(t, mqttClient, "zones/Control_ZO2/quick_veto_active"))
	assert.Equal(t, "18.5", state(t, mqttClient, "zones/Control_ZO2/quick_veto_target"))
	assert.Equal(t, "18.5", state(t, mqttClient, "zones/Control_ZO2/target"))
	assert.Equal(t, "quick_veto", state(t, mqttClient, "zones/Control_ZO2/target_source"))
	assert.Equal(t, "false", state(t, mqttClient, "zones/Control_ZO1/quick_veto_active"))
}

func TestSystemModuleHoliday(t *testing.T) {
	module, mqttClient := newSystemModule(t, "systemcontrol_holiday", func() time.Time {
		return time.Date(2019, 1, 2, 12, 0, 0, 0, time.UTC)
	})
	module.Refresh()

	assert.Equal(t, "true", state(t, mqttClient, "system/holiday_active"))
	assert.Equal(t, "2019-01-02T00:00:00Z", state(t, mqttClient, "system/holiday_start"))
	assert.Equal(t, "15", state(t, mqttClient, "system/holiday_target"))
	assert.Equal(t, "15", state(t, mqttClient, "zones/Control_ZO1/target"))
	assert.Equal(t, "holiday", state(t, mqttClient, "zones/Control_ZO1/target_source"))
}

func TestSystemModuleQuickMode(t *testing.T) {
	module, mqttClient := newSystemModule(t, "systemcontrol_hotwater_boost", monday(10, 0))
	module.Refresh()

	assert.Equal(t, "QM_HOTWATER_BOOST", state(t, mqttClient, "system/quick_mode"))
	assert.Equal(t, "Hotwater Boost", state(t, mqttClient, "system/quick_mode_label"))
	assert.Equal(t, "", state(t, mqttClient, "system/quick_mode_duration"))
	assert.Equal(t, "false", state(t, mqttClient, "system/holiday_active"))
	// Hot water boost leaves the heating circuits alone.
	assert.Equal(t, "configured", state(t, mqttClient, "zones/Control_ZO1/target_source"))
}

func TestSystemModulePublishesHotWater(t *testing.T) {
	module, mqttClient := newSystemModule(t, "systemcontrol", monday(10, 0))
	module.Refresh()

	assert.Equal(t, "6.3", state(t, mqttClient, "system/outdoor_temperature"))
	assert.Equal(t, "", state(t, mqttClient, "system/quick_mode"))
	assert.Equal(t, "44.5", state(t, mqttClient, "dhw/hotwater/temperature"))
	assert.Equal(t, "51", state(t, mqttClient, "dhw/hotwater/target"))
	assert.Equal(t, "AUTO", state(t, mqttClient, "dhw/hotwater/operating_mode"))
	assert.Equal(t, "ON", state(t, mqttClient, "dhw/hotwater/setting"))
	assert.Equal(t, "AUTO", state(t, mqttClient, "dhw/circulation/operating_mode"))
}

func TestSystemModuleWithoutLiveReport(t *testing.T) {
	mmClient := multimatictest.NewClient(serial)
	serve(t, mmClient, multimatic.EndpointSystem, "systemcontrol")
	mqttClient := mqtttest.NewClient("multimatic")
	module := NewSystemModule(mqttClient, mmClient, testConfig()).(*SystemModule)
	module.now = monday(10, 0)

	module.Refresh()

	assert.Equal(t, "", state(t, mqttClient, "dhw/hotwater/temperature"))
	assert.Equal(t, "51", state(t, mqttClient, "dhw/hotwater/target"))
}

func TestSystemModuleVentilation(t *testing.T) {
	module, mqttClient := newSystemModule(t, "systemcontrol_ventilation", monday(10, 0))
	module.Refresh()

	assert.Equal(t, "3", state(t, mqttClient, "ventilation/day_level"))
	assert.Equal(t, "1", state(t, mqttClient, "ventilation/night_level"))
	assert.Equal(t, "COOLING", state(t, mqttClient, "zones/Control_ZO1/active_function"))
}

func TestSystemModuleHomeAssistantEntities(t *testing.T) {
	module, _ := newSystemModule(t, "systemcontrol", monday(10, 0))
	module.Refresh()

	configs, err := module.GetHomeAssistantEntities()
	require.NoError(t, err)

	objects := map[string]homeassistant.DiscoveryConfig{}
	for _, c := range configs {
		objects[c.DeviceId+"/"+c.ObjectId] = c
	}
	assert.Contains(t, objects, serial+"/outdoor_temperature")
	assert.Contains(t, objects, serial+"_Control_ZO1/temperature")
	assert.Contains(t, objects, serial+"_Control_ZO1/quick_veto")
	assert.Contains(t, objects, serial+"_Control_DHW/temperature")

	sensor := objects[serial+"_Control_ZO1/target"].Config.(*homeassistant.SensorConfig)
	assert.Equal(t, "multimatic/zones/Control_ZO1/target/state", sensor.StateTopic)
	assert.Equal(t, serial, sensor.Device.ViaDevice)
}
