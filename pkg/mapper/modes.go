package mapper

import (
	"time"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
)

type rawQuickMode struct {
	QuickMode string `mapstructure:"quickmode"`
	Duration  *int   `mapstructure:"duration"`
}

type rawHolidayMode struct {
	Active              bool       `mapstructure:"active"`
	StartDate           *time.Time `mapstructure:"start_date"`
	EndDate             *time.Time `mapstructure:"end_date"`
	TemperatureSetpoint *float64   `mapstructure:"temperature_setpoint"`
}

// MapQuickMode returns the system-wide quick mode currently running. A quick
// veto on a zone or a room is not a quick mode. An active holiday mode is
// reported as the holiday quick mode and takes precedence over the quick mode
// section.
func MapQuickMode(system Document) (*model.QuickMode, error) {
	holidayMode, err := MapHolidayMode(system)
	if err != nil {
		return nil, err
	}
	if holidayMode != nil && holidayMode.IsActive {
		return &model.QuickMode{Name: model.QuickModeHoliday}, nil
	}

	rawQuickModeSection := lookup(system, "body", "configuration", "quickmode")
	if isEmpty(rawQuickModeSection) {
		return nil, nil
	}
	raw, err := decode[rawQuickMode]("quick mode", rawQuickModeSection)
	if err != nil {
		return nil, err
	}
	return model.LookupQuickMode(raw.QuickMode, raw.Duration), nil
}

// MapHolidayMode returns the holiday mode as configured, active or not. It is
// nil only when the system document has no holiday section.
func MapHolidayMode(system Document) (*model.HolidayMode, error) {
	section := lookup(system, "body", "configuration", "holidaymode")
	if isEmpty(section) {
		return nil, nil
	}
	raw, err := decode[rawHolidayMode]("holiday mode", section)
	if err != nil {
		return nil, err
	}
	return &model.HolidayMode{
		IsActive:  raw.Active,
		StartDate: raw.StartDate,
		EndDate:   raw.EndDate,
		Target:    raw.TemperatureSetpoint,
	}, nil
}

// MapOutdoorTemperature returns the outside temperature measured by the
// system, nil when there is no outdoor sensor.
func MapOutdoorTemperature(system Document) (*float64, error) {
	value := lookup(system, "body", "status", "outside_temperature")
	if value == nil {
		return nil, nil
	}
	temperature, err := decode[float64]("outdoor temperature", value)
	if err != nil {
		return nil, err
	}
	return temperature, nil
}
