package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekdays lists the day keys used by the gateway, in the order of
// TimeProgram.Days.
var Weekdays = [7]string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// WeekdayIndex returns the index in TimeProgram.Days for the given day.
func WeekdayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}

// TimeProgramSetting is one slot of a day: from StartTime until the next
// slot, the circuit targets Target (temperature circuits) or Mode (on/off
// circuits).
type TimeProgramSetting struct {
	StartTime       string
	AbsoluteMinutes int
	Target          *float64
	Mode            SettingMode
}

// TimeProgramDay holds the settings of one day, in the order received.
type TimeProgramDay struct {
	Settings []TimeProgramSetting
}

// TimeProgram is a weekly schedule. Days[0] is monday.
type TimeProgram struct {
	Days [7]TimeProgramDay
}

// NewTimeProgramSetting builds a setting from a "HH:MM" start time.
func NewTimeProgramSetting(startTime string, target *float64, mode SettingMode) (TimeProgramSetting, error) {
	minutes, err := ParseTimeOfDay(startTime)
	if err != nil {
		return TimeProgramSetting{}, err
	}
	return TimeProgramSetting{
		StartTime:       startTime,
		AbsoluteMinutes: minutes,
		Target:          target,
		Mode:            mode,
	}, nil
}

// ParseTimeOfDay converts "HH:MM" into minutes since midnight.
func ParseTimeOfDay(value string) (int, error) {
	hours, minutes, found := strings.Cut(value, ":")
	if !found {
		return 0, fmt.Errorf("invalid time of day '%s'", value)
	}
	h, err := strconv.Atoi(hours)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in time of day '%s'", value)
	}
	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minutes in time of day '%s'", value)
	}
	return h*60 + m, nil
}

// Day returns the settings for the given weekday.
func (tp *TimeProgram) Day(day time.Weekday) TimeProgramDay {
	return tp.Days[WeekdayIndex(day)]
}

// ActiveSetting returns the setting applying at t: the last one of the day
// starting at or before t. When none matches, the last setting of the closest
// previous non-empty day applies. Returns nil for an empty program.
func (tp *TimeProgram) ActiveSetting(t time.Time) *TimeProgramSetting {
	index := WeekdayIndex(t.Weekday())
	minutes := t.Hour()*60 + t.Minute()

	settings := tp.Days[index].Settings
	for i := len(settings) - 1; i >= 0; i-- {
		if settings[i].AbsoluteMinutes <= minutes {
			setting := settings[i]
			return &setting
		}
	}

	for offset := 1; offset <= 7; offset++ {
		previous := tp.Days[(index-offset+7)%7].Settings
		if len(previous) > 0 {
			setting := previous[len(previous)-1]
			return &setting
		}
	}
	return nil
}
