package model

import (
	"strings"
	"time"
)

// A Zone is a heating circuit of the system, driven by the central control
// unit (VRC700) and its own weekly time program.
type Zone struct {
	Id             string
	Name           string
	Enabled        bool
	Temperature    *float64
	TargetHigh     *float64
	TargetLow      *float64
	OperatingMode  OperatingMode
	QuickVeto      *QuickVeto
	ActiveFunction ActiveFunction
	TimeProgram    TimeProgram
	// Rbr is set when the zone is controlled room by room (ambiSENSE).
	Rbr bool
}

// A Room is a room of a room-by-room controlled zone, with its own
// thermostatic valves and sensors.
type Room struct {
	Id            int
	Name          string
	OperatingMode OperatingMode
	WindowOpen    bool
	ChildLock     bool
	Temperature   *float64
	TargetHigh    *float64
	Humidity      *float64
	QuickVeto     *QuickVeto
	Devices       []Device
	TimeProgram   TimeProgram
}

// Device is a radio device (valve, thermostat, sensor) installed in a room.
type Device struct {
	Name            string
	Sgtin           string
	DeviceType      string
	BatteryLow      bool
	RadioOutOfReach bool
}

// HotWater is the domestic hot water circuit.
type HotWater struct {
	Id            string
	Name          string
	Temperature   *float64
	TargetHigh    *float64
	OperatingMode OperatingMode
	TimeProgram   TimeProgram
}

// Circulation is the hot water circulation pump. It has no setpoint.
type Circulation struct {
	Id            string
	Name          string
	OperatingMode OperatingMode
	TimeProgram   TimeProgram
}

// Ventilation is a ventilation unit. Targets are fan levels, not
// temperatures, and the unit reports no temperature.
type Ventilation struct {
	Id            string
	Name          string
	TargetHigh    *float64
	TargetLow     *float64
	OperatingMode OperatingMode
	TimeProgram   TimeProgram
}

// BoilerStatus is the current status message of the heat generator.
type BoilerStatus struct {
	DeviceName  string
	Title       string
	StatusCode  string
	Description string
	Hint        string
	Timestamp   time.Time
}

// IsError tells whether the status code is a fault code (F.xx).
func (b *BoilerStatus) IsError() bool {
	return b != nil && strings.HasPrefix(b.StatusCode, "F")
}

// Error is a fault reported by one of the devices of the system.
type Error struct {
	DeviceName  string
	Title       string
	StatusCode  string
	Description string
	Timestamp   time.Time
}

// SystemInfo gathers the identity and connectivity of the gateway.
type SystemInfo struct {
	Gateway       string
	SerialNumber  string
	Name          string
	MacEthernet   string
	MacWifi       string
	MacWifiClient string
	Firmware      string
	Online        string
	Update        string
}

// Report is one live sensor reading.
type Report struct {
	Id         string
	Name       string
	DeviceId   string
	DeviceName string
	Value      float64
	Unit       string
}

// SyncState is the synchronisation state between the gateway and the cloud.
type SyncState struct {
	State     string
	Link      string
	Timestamp time.Time
}

// EmfReport is an energy report (consumed or generated) of one device.
type EmfReport struct {
	DeviceId   string
	DeviceName string
	Function   string
	EnergyType string
	Value      float64
	From       *time.Time
	To         *time.Time
}
