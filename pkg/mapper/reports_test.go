package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapReports(t *testing.T) {
	reports := MapReports(load(t, "livereport"))
	require.Len(t, reports, 5)

	assert.Equal(t, "VRC700 MultiMatic", reports[0].DeviceName)
	assert.Equal(t, "Control_SYS_MultiMatic", reports[0].DeviceId)
	assert.Equal(t, "bar", reports[0].Unit)
	assert.Equal(t, 1.9, reports[0].Value)
	assert.Equal(t, "Water pressure", reports[0].Name)
	assert.Equal(t, "WaterPressureSensor", reports[0].Id)

	assert.Equal(t, "DomesticHotWaterTankTemperature", reports[2].Id)
	assert.Equal(t, "Control_DHW", reports[2].DeviceId)
}

func TestMapReportsNoLiveReport(t *testing.T) {
	reports := MapReports(nil)
	assert.NotNil(t, reports)
	assert.Len(t, reports, 0)
}

func TestMapEmfReports(t *testing.T) {
	reports := MapEmfReports(load(t, "emf_report"))
	require.Len(t, reports, 2)

	assert.Equal(t, "flexoTHERM exclusive", reports[0].DeviceName)
	assert.Equal(t, "CENTRAL_HEATING", reports[0].Function)
	assert.Equal(t, "CONSUMED_ELECTRICAL_POWER", reports[0].EnergyType)
	assert.Equal(t, 6000.0, reports[0].Value)
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), *reports[0].From)
	assert.Equal(t, "ENVIRONMENTAL_YIELD", reports[1].EnergyType)
}
