package model

import "time"

// QuickMode is a system-wide override. Only one can be active at a time.
type QuickMode struct {
	Name string
	// Duration in minutes, when the gateway limits the quick mode in time.
	Duration *int
}

const (
	QuickModeHotwaterBoost    string = "QM_HOTWATER_BOOST"
	QuickModeVentilationBoost string = "QM_VENTILATION_BOOST"
	QuickModeOneDayAway       string = "QM_ONE_DAY_AWAY"
	QuickModeSystemOff        string = "QM_SYSTEM_OFF"
	QuickModeOneDayAtHome     string = "QM_ONE_DAY_AT_HOME"
	QuickModeParty            string = "QM_PARTY"
	QuickModeHoliday          string = "QM_HOLIDAY"
	// Marker used for zone/room overrides, never a system quick mode.
	QuickModeQuickVeto string = "QM_QUICK_VETO"
)

var quickModes = map[string]bool{
	QuickModeHotwaterBoost:    true,
	QuickModeVentilationBoost: true,
	QuickModeOneDayAway:       true,
	QuickModeSystemOff:        true,
	QuickModeOneDayAtHome:     true,
	QuickModeParty:            true,
	QuickModeHoliday:          true,
}

// LookupQuickMode returns the quick mode of the catalog with the given name.
// Unknown names and the quick veto marker yield nil.
func LookupQuickMode(name string, duration *int) *QuickMode {
	if !quickModes[name] {
		return nil
	}
	return &QuickMode{Name: name, Duration: duration}
}

// QuickVeto is a temporary setpoint on a single zone or room.
type QuickVeto struct {
	Target float64
	// Remaining minutes, nil when the veto has no expiry.
	Duration *int
}

// HolidayMode is the away period configured on the system. It can be
// configured but not active.
type HolidayMode struct {
	IsActive  bool
	StartDate *time.Time
	EndDate   *time.Time
	Target    *float64
}

// IsApplied tells whether the holiday mode currently overrides the setpoints:
// it must be active and now must fall within the start and end dates
// (inclusive).
func (h *HolidayMode) IsApplied(now time.Time) bool {
	if h == nil || !h.IsActive || h.StartDate == nil || h.EndDate == nil {
		return false
	}
	today := truncateToDay(now)
	return !today.Before(truncateToDay(*h.StartDate)) && !today.After(truncateToDay(*h.EndDate))
}

// ActiveMode returns the holiday quick mode while it is applied.
func (h *HolidayMode) ActiveMode(now time.Time) *QuickMode {
	if !h.IsApplied(now) {
		return nil
	}
	return &QuickMode{Name: QuickModeHoliday}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// TargetSource tells which layer ResolveTarget picked the target from.
type TargetSource string

const (
	TargetSourceQuickVeto   TargetSource = "quick_veto"
	TargetSourceQuickMode   TargetSource = "quick_mode"
	TargetSourceHoliday     TargetSource = "holiday"
	TargetSourceTimeProgram TargetSource = "time_program"
	TargetSourceConfigured  TargetSource = "configured"
	TargetSourceNone        TargetSource = "none"
)

// ResolveTarget returns the temperature currently requested for a circuit,
// following quick veto > quick mode > holiday > time program > configured.
// Party and one-day-at-home quick modes hold the configured setpoint, system
// off and one-day-away drop the request. Hot water boost and ventilation boost
// do not affect heating circuits.
func ResolveTarget(now time.Time, veto *QuickVeto, quickMode *QuickMode, holiday *HolidayMode,
	program *TimeProgram, configured *float64) (*float64, TargetSource) {
	if veto != nil {
		target := veto.Target
		return &target, TargetSourceQuickVeto
	}
	if quickMode != nil {
		switch quickMode.Name {
		case QuickModeParty, QuickModeOneDayAtHome:
			return configured, TargetSourceQuickMode
		case QuickModeSystemOff, QuickModeOneDayAway:
			return nil, TargetSourceQuickMode
		}
	}
	if holiday.IsApplied(now) && holiday.Target != nil {
		return holiday.Target, TargetSourceHoliday
	}
	if program != nil {
		if setting := program.ActiveSetting(now); setting != nil && setting.Target != nil {
			return setting.Target, TargetSourceTimeProgram
		}
	}
	if configured != nil {
		return configured, TargetSourceConfigured
	}
	return nil, TargetSourceNone
}
