package modules

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/config"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/homeassistant"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mapper"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mqtt"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic"
	"github.com/rs/zerolog/log"
)

const roomsTopic string = "rooms"

// Rooms Module publishes the rooms of room-by-room controlled systems
// (ambiSENSE) along with the state of their radio devices.
type RoomsModule struct {
	poller
	mqttClient mqtt.Client
	mmClient   multimatic.Client
	now        func() time.Time

	mu    sync.Mutex
	rooms []model.Room
}

func (m *RoomsModule) refresh(ctx context.Context) error {
	raw, err := m.mmClient.GetRooms(ctx)
	if err != nil {
		return fmt.Errorf("error fetching rooms: %w", err)
	}
	rooms := mapper.MapRooms(raw)

	// Quick mode and holidays override the room setpoints as well.
	var quickMode *model.QuickMode
	var holiday *model.HolidayMode
	system, err := m.mmClient.GetSystem(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Error fetching system, room targets ignore quick mode and holidays.")
	} else {
		if quickMode, err = mapper.MapQuickMode(system); err != nil {
			log.Warn().Err(err).Msg("Error reading quick mode.")
		}
		if holiday, err = mapper.MapHolidayMode(system); err != nil {
			log.Warn().Err(err).Msg("Error reading holiday mode.")
		}
	}

	now := m.now()
	var errs []error
	for _, room := range rooms {
		errs = append(errs, m.publishRoom(room, quickMode, holiday, now))
	}

	m.mu.Lock()
	m.rooms = rooms
	m.mu.Unlock()

	return errors.Join(errs...)
}

func roomItem(room model.Room) string {
	return path.Join(roomsTopic, mqtt.NormalizeForTopicName(room.Name))
}

func deviceItem(room model.Room, device model.Device) string {
	return path.Join(roomItem(room), "devices", mqtt.NormalizeForTopicName(device.Sgtin))
}

func (m *RoomsModule) publishRoom(room model.Room, quickMode *model.QuickMode, holiday *model.HolidayMode, now time.Time) error {
	id := strconv.Itoa(room.Id)
	target, source := roomTarget(room, quickMode, holiday, now)
	setGauge(temperatureGauge, room.Temperature, "room", id)
	setGauge(targetGauge, target, "room", id)

	attributes := []attribute{
		{"id", room.Id},
		{"name", room.Name},
		{"temperature", room.Temperature},
		{"target_high", room.TargetHigh},
		{"target", target},
		{"target_source", source},
		{"operating_mode", room.OperatingMode},
		{"window_open", room.WindowOpen},
		{"child_lock", room.ChildLock},
		{"humidity", room.Humidity},
		{"quick_veto_active", room.QuickVeto != nil},
	}
	if room.QuickVeto != nil {
		attributes = append(attributes,
			attribute{"quick_veto_target", room.QuickVeto.Target},
			attribute{"quick_veto_duration", room.QuickVeto.Duration})
	}
	errs := []error{publishAttributes(m.mqttClient, roomItem(room), attributes)}

	for _, device := range room.Devices {
		errs = append(errs, publishAttributes(m.mqttClient, deviceItem(room, device), []attribute{
			{"name", device.Name},
			{"type", device.DeviceType},
			{"battery_low", device.BatteryLow},
			{"radio_out_of_reach", device.RadioOutOfReach},
		}))
	}
	return errors.Join(errs...)
}

func (m *RoomsModule) GetHomeAssistantEntities() ([]homeassistant.DiscoveryConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	serial := m.mmClient.SerialNumber()
	configs := []homeassistant.DiscoveryConfig{}
	for _, room := range m.rooms {
		device := homeassistant.Device{
			Identifiers: []string{serial + "_room_" + strconv.Itoa(room.Id)},
			Name:        room.Name,
			Model:       "Room",
			ViaDevice:   serial,
		}
		item := roomItem(room)
		configs = append(configs,
			homeassistant.NewSensor(m.mqttClient, device, "temperature", room.Name+" temperature",
				mqtt.StateTopic(item, "temperature"), "°C"),
			homeassistant.NewSensor(m.mqttClient, device, "target", room.Name+" target",
				mqtt.StateTopic(item, "target"), "°C"),
			homeassistant.NewBinarySensor(m.mqttClient, device, "window", room.Name+" window",
				mqtt.StateTopic(item, "window_open"), "window"))
		if room.Humidity != nil {
			configs = append(configs,
				homeassistant.NewSensor(m.mqttClient, device, "humidity", room.Name+" humidity",
					mqtt.StateTopic(item, "humidity"), "%"))
		}

		for _, d := range room.Devices {
			deviceTopic := deviceItem(room, d)
			configs = append(configs,
				homeassistant.NewBinarySensor(m.mqttClient, device, d.Sgtin+"_battery", d.Name+" battery",
					mqtt.StateTopic(deviceTopic, "battery_low"), "battery"),
				homeassistant.NewBinarySensor(m.mqttClient, device, d.Sgtin+"_radio", d.Name+" out of reach",
					mqtt.StateTopic(deviceTopic, "radio_out_of_reach"), "problem"))
		}
	}
	return configs, nil
}

func NewRoomsModule(mqttClient mqtt.Client, mmClient multimatic.Client, config *config.Config) Module {
	m := &RoomsModule{
		mqttClient: mqttClient,
		mmClient:   mmClient,
		now:        time.Now,
	}
	m.poller = poller{
		name:     "rooms",
		interval: config.Multimatic.RefreshInterval,
		client:   mmClient,
		refresh:  m.refresh,
	}
	return m
}

func init() {
	Register("rooms", NewRoomsModule)
}
