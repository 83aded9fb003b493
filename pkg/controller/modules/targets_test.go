package modules

import (
	"testing"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 {
	return &v
}

func nightProgram(t *testing.T) model.TimeProgram {
	t.Helper()
	day, err := model.NewTimeProgramSetting("06:00", nil, model.SettingModeDay)
	require.NoError(t, err)
	night, err := model.NewTimeProgramSetting("22:00", nil, model.SettingModeNight)
	require.NoError(t, err)
	program := model.TimeProgram{}
	for i := range program.Days {
		program.Days[i].Settings = []model.TimeProgramSetting{day, night}
	}
	return program
}

func TestZoneTarget(t *testing.T) {
	zone := model.Zone{
		TargetHigh:    float(21),
		TargetLow:     float(17),
		OperatingMode: model.OperatingModeAuto,
		TimeProgram:   nightProgram(t),
	}
	now := monday(12, 0)()

	target, source := zoneTarget(zone, nil, nil, now)
	assert.Equal(t, 21.0, *target)
	assert.Equal(t, model.TargetSourceConfigured, source)

	target, _ = zoneTarget(zone, nil, nil, monday(23, 0)())
	assert.Equal(t, 17.0, *target)

	zone.OperatingMode = model.OperatingModeNight
	target, _ = zoneTarget(zone, nil, nil, now)
	assert.Equal(t, 17.0, *target)

	zone.OperatingMode = model.OperatingModeDay
	target, _ = zoneTarget(zone, nil, nil, monday(23, 0)())
	assert.Equal(t, 21.0, *target)

	zone.OperatingMode = model.OperatingModeOff
	target, source = zoneTarget(zone, nil, nil, now)
	assert.Nil(t, target)
	assert.Equal(t, model.TargetSourceNone, source)

	zone.QuickVeto = &model.QuickVeto{Target: 23}
	target, source = zoneTarget(zone, nil, nil, now)
	assert.Equal(t, 23.0, *target)
	assert.Equal(t, model.TargetSourceQuickVeto, source)
}

func TestZoneTargetQuickMode(t *testing.T) {
	zone := model.Zone{TargetHigh: float(21), OperatingMode: model.OperatingModeDay}

	target, source := zoneTarget(zone, &model.QuickMode{Name: model.QuickModeSystemOff}, nil, monday(12, 0)())
	assert.Nil(t, target)
	assert.Equal(t, model.TargetSourceQuickMode, source)
}

func TestRoomTarget(t *testing.T) {
	program := model.TimeProgram{}
	setting, err := model.NewTimeProgramSetting("00:00", float(19), model.SettingModeNone)
	require.NoError(t, err)
	program.Days[0].Settings = []model.TimeProgramSetting{setting}
	room := model.Room{TargetHigh: float(21), OperatingMode: model.OperatingModeAuto, TimeProgram: program}
	now := monday(12, 0)()

	target, source := roomTarget(room, nil, nil, now)
	assert.Equal(t, 19.0, *target)
	assert.Equal(t, model.TargetSourceTimeProgram, source)

	room.OperatingMode = model.OperatingModeManual
	target, source = roomTarget(room, nil, nil, now)
	assert.Equal(t, 21.0, *target)
	assert.Equal(t, model.TargetSourceConfigured, source)

	room.OperatingMode = model.OperatingModeOff
	target, _ = roomTarget(room, nil, nil, now)
	assert.Nil(t, target)

	holiday := &model.HolidayMode{
		IsActive:  true,
		StartDate: &now,
		EndDate:   &now,
		Target:    float(12),
	}
	target, source = roomTarget(room, nil, holiday, now)
	assert.Equal(t, 12.0, *target)
	assert.Equal(t, model.TargetSourceHoliday, source)
}

func TestQuickModeLabel(t *testing.T) {
	assert.Equal(t, "", quickModeLabel(nil))
	assert.Equal(t, "Hotwater Boost", quickModeLabel(&model.QuickMode{Name: model.QuickModeHotwaterBoost}))
	assert.Equal(t, "One Day Away", quickModeLabel(&model.QuickMode{Name: model.QuickModeOneDayAway}))
}
