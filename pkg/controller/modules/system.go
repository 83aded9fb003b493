package modules

import (
	"context"
	"errors"
	"fmt"
	"path"
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

const (
	zonesTopic       string = "zones"
	dhwTopic         string = "dhw"
	ventilationTopic string = "ventilation"
	systemTopic      string = "system"
)

// System Module publishes everything the system control document holds:
// zones, hot water, circulation, ventilation and the system wide modes.
// Zone targets are resolved against the active quick mode and holidays.
type SystemModule struct {
	poller
	mqttClient mqtt.Client
	mmClient   multimatic.Client
	now        func() time.Time

	mu          sync.Mutex
	zones       []model.Zone
	hotWater    *model.HotWater
	circulation *model.Circulation
	ventilation *model.Ventilation
}

func (m *SystemModule) refresh(ctx context.Context) error {
	system, err := m.mmClient.GetSystem(ctx)
	if err != nil {
		return fmt.Errorf("error fetching system: %w", err)
	}
	liveReport, err := m.mmClient.GetLiveReport(ctx)
	if err != nil {
		// Hot water is still published, without its current temperature.
		log.Warn().Err(err).Msg("Error fetching live report.")
		liveReport = nil
	}
	now := m.now()

	var errs []error
	quickMode, err := mapper.MapQuickMode(system)
	errs = append(errs, err)
	holiday, err := mapper.MapHolidayMode(system)
	errs = append(errs, err)
	outdoorTemperature, err := mapper.MapOutdoorTemperature(system)
	errs = append(errs, err)
	errs = append(errs, m.publishSystem(quickMode, holiday, outdoorTemperature, now))
	setGauge(temperatureGauge, outdoorTemperature, "outdoor", "outdoor")

	zones := mapper.MapZones(system)
	for _, zone := range zones {
		errs = append(errs, m.publishZone(zone, quickMode, holiday, now))
	}

	hotWater, err := mapper.MapHotWater(system, liveReport)
	errs = append(errs, err)
	if hotWater != nil {
		errs = append(errs, m.publishHotWater(hotWater, now))
	}
	circulation, err := mapper.MapCirculation(system)
	errs = append(errs, err)
	if circulation != nil {
		errs = append(errs, m.publishCirculation(circulation, now))
	}
	ventilation, err := mapper.MapVentilation(system)
	errs = append(errs, err)
	if ventilation != nil {
		errs = append(errs, m.publishVentilation(ventilation))
	}

	m.mu.Lock()
	m.zones = zones
	m.hotWater = hotWater
	m.circulation = circulation
	m.ventilation = ventilation
	m.mu.Unlock()

	return errors.Join(errs...)
}

func (m *SystemModule) publishSystem(quickMode *model.QuickMode, holiday *model.HolidayMode, outdoorTemperature *float64, now time.Time) error {
	attributes := []attribute{
		{"outdoor_temperature", outdoorTemperature},
		{"quick_mode", ""},
		{"quick_mode_label", quickModeLabel(quickMode)},
		{"quick_mode_duration", nil},
		{"holiday_active", holiday.IsApplied(now)},
	}
	if quickMode != nil {
		attributes[1].value = quickMode.Name
		attributes[3].value = quickMode.Duration
	}
	if holiday != nil {
		attributes = append(attributes,
			attribute{"holiday_start", holiday.StartDate},
			attribute{"holiday_end", holiday.EndDate},
			attribute{"holiday_target", holiday.Target})
	}
	return publishAttributes(m.mqttClient, systemTopic, attributes)
}

func zoneItem(zone model.Zone) string {
	return path.Join(zonesTopic, mqtt.NormalizeForTopicName(zone.Id))
}

func (m *SystemModule) publishZone(zone model.Zone, quickMode *model.QuickMode, holiday *model.HolidayMode, now time.Time) error {
	target, source := zoneTarget(zone, quickMode, holiday, now)
	setGauge(temperatureGauge, zone.Temperature, "zone", zone.Id)
	setGauge(targetGauge, target, "zone", zone.Id)

	attributes := []attribute{
		{"name", zone.Name},
		{"enabled", zone.Enabled},
		{"temperature", zone.Temperature},
		{"target_high", zone.TargetHigh},
		{"target_low", zone.TargetLow},
		{"target", target},
		{"target_source", source},
		{"operating_mode", zone.OperatingMode},
		{"active_function", zone.ActiveFunction},
		{"rbr", zone.Rbr},
		{"quick_veto_active", zone.QuickVeto != nil},
	}
	if zone.QuickVeto != nil {
		attributes = append(attributes,
			attribute{"quick_veto_target", zone.QuickVeto.Target},
			attribute{"quick_veto_duration", zone.QuickVeto.Duration})
	}
	return publishAttributes(m.mqttClient, zoneItem(zone), attributes)
}

func activeMode(program *model.TimeProgram, now time.Time) model.SettingMode {
	if setting := program.ActiveSetting(now); setting != nil {
		return setting.Mode
	}
	return model.SettingModeNone
}

func (m *SystemModule) publishHotWater(hotWater *model.HotWater, now time.Time) error {
	setGauge(temperatureGauge, hotWater.Temperature, "hot_water", hotWater.Id)
	setGauge(targetGauge, hotWater.TargetHigh, "hot_water", hotWater.Id)
	return publishAttributes(m.mqttClient, path.Join(dhwTopic, "hotwater"), []attribute{
		{"id", hotWater.Id},
		{"temperature", hotWater.Temperature},
		{"target", hotWater.TargetHigh},
		{"operating_mode", hotWater.OperatingMode},
		{"setting", activeMode(&hotWater.TimeProgram, now)},
	})
}

func (m *SystemModule) publishCirculation(circulation *model.Circulation, now time.Time) error {
	return publishAttributes(m.mqttClient, path.Join(dhwTopic, "circulation"), []attribute{
		{"id", circulation.Id},
		{"operating_mode", circulation.OperatingMode},
		{"setting", activeMode(&circulation.TimeProgram, now)},
	})
}

func (m *SystemModule) publishVentilation(ventilation *model.Ventilation) error {
	return publishAttributes(m.mqttClient, ventilationTopic, []attribute{
		{"id", ventilation.Id},
		{"operating_mode", ventilation.OperatingMode},
		{"day_level", ventilation.TargetHigh},
		{"night_level", ventilation.TargetLow},
	})
}

func (m *SystemModule) systemDevice() homeassistant.Device {
	serial := m.mmClient.SerialNumber()
	return homeassistant.Device{
		Identifiers: []string{serial},
		Name:        "multiMATIC",
		Model:       "multiMATIC",
	}
}

func (m *SystemModule) GetHomeAssistantEntities() ([]homeassistant.DiscoveryConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	system := m.systemDevice()
	configs := []homeassistant.DiscoveryConfig{
		homeassistant.NewSensor(m.mqttClient, system, "outdoor_temperature", "Outdoor temperature",
			mqtt.StateTopic(systemTopic, "outdoor_temperature"), "°C"),
		homeassistant.NewSensor(m.mqttClient, system, "quick_mode", "Quick mode",
			mqtt.StateTopic(systemTopic, "quick_mode_label"), ""),
		homeassistant.NewBinarySensor(m.mqttClient, system, "holiday", "Holiday",
			mqtt.StateTopic(systemTopic, "holiday_active"), ""),
	}

	for _, zone := range m.zones {
		device := homeassistant.Device{
			Identifiers: []string{system.Identifiers[0] + "_" + zone.Id},
			Name:        zone.Name,
			Model:       "Zone",
			ViaDevice:   system.Identifiers[0],
		}
		item := zoneItem(zone)
		configs = append(configs,
			homeassistant.NewSensor(m.mqttClient, device, "temperature", zone.Name+" temperature",
				mqtt.StateTopic(item, "temperature"), "°C"),
			homeassistant.NewSensor(m.mqttClient, device, "target", zone.Name+" target",
				mqtt.StateTopic(item, "target"), "°C"),
			homeassistant.NewSensor(m.mqttClient, device, "operating_mode", zone.Name+" operating mode",
				mqtt.StateTopic(item, "operating_mode"), ""),
			homeassistant.NewBinarySensor(m.mqttClient, device, "quick_veto", zone.Name+" quick veto",
				mqtt.StateTopic(item, "quick_veto_active"), ""))
	}

	if m.hotWater != nil {
		device := homeassistant.Device{
			Identifiers: []string{system.Identifiers[0] + "_" + m.hotWater.Id},
			Name:        m.hotWater.Name,
			Model:       "Domestic hot water",
			ViaDevice:   system.Identifiers[0],
		}
		item := path.Join(dhwTopic, "hotwater")
		configs = append(configs,
			homeassistant.NewSensor(m.mqttClient, device, "temperature", "Hot water temperature",
				mqtt.StateTopic(item, "temperature"), "°C"),
			homeassistant.NewSensor(m.mqttClient, device, "target", "Hot water target",
				mqtt.StateTopic(item, "target"), "°C"))
	}
	return configs, nil
}

func NewSystemModule(mqttClient mqtt.Client, mmClient multimatic.Client, config *config.Config) Module {
	m := &SystemModule{
		mqttClient: mqttClient,
		mmClient:   mmClient,
		now:        time.Now,
	}
	m.poller = poller{
		name:     "system",
		interval: config.Multimatic.RefreshInterval,
		client:   mmClient,
		refresh:  m.refresh,
	}
	return m
}

func init() {
	Register("system", NewSystemModule)
}
