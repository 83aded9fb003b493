package model

// OperatingMode is the mode a circuit (zone, room, hot water, circulation,
// ventilation) has been configured with.
type OperatingMode string

const (
	OperatingModeAuto      OperatingMode = "AUTO"
	OperatingModeOn        OperatingMode = "ON"
	OperatingModeOff       OperatingMode = "OFF"
	OperatingModeManual    OperatingMode = "MANUAL"
	OperatingModeDay       OperatingMode = "DAY"
	OperatingModeNight     OperatingMode = "NIGHT"
	OperatingModeQuickVeto OperatingMode = "QUICK_VETO"
	OperatingModeUnknown   OperatingMode = "UNKNOWN"
)

var operatingModes = map[string]OperatingMode{
	string(OperatingModeAuto):      OperatingModeAuto,
	string(OperatingModeOn):        OperatingModeOn,
	string(OperatingModeOff):       OperatingModeOff,
	string(OperatingModeManual):    OperatingModeManual,
	string(OperatingModeDay):       OperatingModeDay,
	string(OperatingModeNight):     OperatingModeNight,
	string(OperatingModeQuickVeto): OperatingModeQuickVeto,
}

// ParseOperatingMode returns the operating mode for the given raw value, or
// OperatingModeUnknown when the gateway sent something outside the catalog.
func ParseOperatingMode(raw string) OperatingMode {
	if mode, ok := operatingModes[raw]; ok {
		return mode
	}
	return OperatingModeUnknown
}

// SettingMode is the value of a time program slot for circuits without a
// temperature setpoint (hot water, circulation).
type SettingMode string

const (
	SettingModeNone  SettingMode = ""
	SettingModeOn    SettingMode = "ON"
	SettingModeOff   SettingMode = "OFF"
	SettingModeDay   SettingMode = "DAY"
	SettingModeNight SettingMode = "NIGHT"
)

func ParseSettingMode(raw string) SettingMode {
	switch SettingMode(raw) {
	case SettingModeOn, SettingModeOff, SettingModeDay, SettingModeNight:
		return SettingMode(raw)
	default:
		return SettingModeNone
	}
}

// ActiveFunction tells whether a zone is currently heating, cooling or idle.
type ActiveFunction string

const (
	ActiveFunctionHeating ActiveFunction = "HEATING"
	ActiveFunctionCooling ActiveFunction = "COOLING"
	ActiveFunctionStandby ActiveFunction = "STANDBY"
)
