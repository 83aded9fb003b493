package mapper

import (
	"fmt"
	"math"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
	"github.com/rs/zerolog/log"
)

type rawRoom struct {
	RoomIndex     *float64 `mapstructure:"roomIndex"`
	Configuration struct {
		Name                string       `mapstructure:"name"`
		TemperatureSetpoint *float64     `mapstructure:"temperatureSetpoint"`
		OperationMode       string       `mapstructure:"operationMode"`
		CurrentTemperature  *float64     `mapstructure:"currentTemperature"`
		CurrentHumidity     *float64     `mapstructure:"currentHumidity"`
		ChildLock           bool         `mapstructure:"childLock"`
		IsWindowOpen        bool         `mapstructure:"isWindowOpen"`
		QuickVeto           *rawRoomVeto `mapstructure:"quickVeto"`
		Devices             []rawDevice  `mapstructure:"devices"`
	} `mapstructure:"configuration"`
	TimeProgram Document `mapstructure:"timeprogram"`
}

type rawRoomVeto struct {
	RemainingDuration   *int     `mapstructure:"remainingDuration"`
	TemperatureSetpoint *float64 `mapstructure:"temperatureSetpoint"`
}

type rawDevice struct {
	Name              string `mapstructure:"name"`
	Sgtin             string `mapstructure:"sgtin"`
	DeviceType        string `mapstructure:"deviceType"`
	IsBatteryLow      bool   `mapstructure:"isBatteryLow"`
	IsRadioOutOfReach bool   `mapstructure:"isRadioOutOfReach"`
}

// MapRooms maps the rooms document. A nil or empty document gives no rooms.
// Rooms that cannot be mapped are skipped.
func MapRooms(rooms Document) []model.Room {
	result := []model.Room{}
	for i, item := range lookupList(rooms, "body", "rooms") {
		raw, _ := item.(map[string]interface{})
		room, err := MapRoom(raw)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Skipping room that cannot be mapped.")
			continue
		}
		if room != nil {
			result = append(result, *room)
		}
	}
	return result
}

// MapRoom maps a room, either an element of the rooms list or the response of
// the single room endpoint. A running quick veto overrides the configured
// setpoint in TargetHigh.
func MapRoom(raw Document) (*model.Room, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	rr, err := decode[rawRoom]("room", unwrapBody(raw))
	if err != nil {
		return nil, err
	}
	if rr.RoomIndex == nil {
		return nil, nil
	}
	if *rr.RoomIndex != math.Trunc(*rr.RoomIndex) {
		return nil, &MappingError{Entity: "room", Err: fmt.Errorf("room index %v is not an integer", *rr.RoomIndex)}
	}

	config := rr.Configuration
	room := &model.Room{
		Id:            int(*rr.RoomIndex),
		Name:          config.Name,
		OperatingMode: model.ParseOperatingMode(config.OperationMode),
		WindowOpen:    config.IsWindowOpen,
		ChildLock:     config.ChildLock,
		Temperature:   config.CurrentTemperature,
		TargetHigh:    config.TemperatureSetpoint,
		Humidity:      config.CurrentHumidity,
		Devices:       mapDevices(config.Devices),
	}

	if veto := config.QuickVeto; veto != nil {
		target := veto.TemperatureSetpoint
		if target == nil {
			target = config.TemperatureSetpoint
		}
		if target != nil {
			room.QuickVeto = &model.QuickVeto{
				Target:   *target,
				Duration: veto.RemainingDuration,
			}
			room.TargetHigh = target
		}
	}

	if room.TimeProgram, err = MapTimeProgram(rr.TimeProgram, "temperatureSetpoint"); err != nil {
		return nil, err
	}
	return room, nil
}

func mapDevices(rawDevices []rawDevice) []model.Device {
	devices := make([]model.Device, 0, len(rawDevices))
	for _, raw := range rawDevices {
		devices = append(devices, model.Device{
			Name:            raw.Name,
			Sgtin:           raw.Sgtin,
			DeviceType:      raw.DeviceType,
			BatteryLow:      raw.IsBatteryLow,
			RadioOutOfReach: raw.IsRadioOutOfReach,
		})
	}
	return devices
}
