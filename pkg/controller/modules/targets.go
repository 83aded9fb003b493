package modules

import (
	"strings"
	"time"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// zoneTarget returns the temperature a zone heads for. Zone time programs
// switch between the day (TargetHigh) and night (TargetLow) setpoints.
func zoneTarget(zone model.Zone, quickMode *model.QuickMode, holiday *model.HolidayMode, now time.Time) (*float64, model.TargetSource) {
	configured := zone.TargetHigh
	switch zone.OperatingMode {
	case model.OperatingModeOff:
		configured = nil
	case model.OperatingModeNight:
		configured = zone.TargetLow
	case model.OperatingModeAuto:
		if setting := zone.TimeProgram.ActiveSetting(now); setting != nil && setting.Mode == model.SettingModeNight {
			configured = zone.TargetLow
		}
	}
	return model.ResolveTarget(now, zone.QuickVeto, quickMode, holiday, nil, configured)
}

// roomTarget returns the temperature a room heads for. Only rooms in AUTO
// follow their time program.
func roomTarget(room model.Room, quickMode *model.QuickMode, holiday *model.HolidayMode, now time.Time) (*float64, model.TargetSource) {
	switch room.OperatingMode {
	case model.OperatingModeOff:
		return model.ResolveTarget(now, room.QuickVeto, quickMode, holiday, nil, nil)
	case model.OperatingModeAuto:
		return model.ResolveTarget(now, room.QuickVeto, quickMode, holiday, &room.TimeProgram, room.TargetHigh)
	default:
		return model.ResolveTarget(now, room.QuickVeto, quickMode, holiday, nil, room.TargetHigh)
	}
}

// quickModeLabel turns QM_HOTWATER_BOOST into "Hotwater Boost".
func quickModeLabel(quickMode *model.QuickMode) string {
	if quickMode == nil {
		return ""
	}
	name := strings.ReplaceAll(strings.TrimPrefix(quickMode.Name, "QM_"), "_", " ")
	return cases.Title(language.English).String(name)
}
