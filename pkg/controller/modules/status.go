package modules

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/config"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/homeassistant"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mapper"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mqtt"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/utils"
	"github.com/rs/zerolog/log"
)

const (
	boilerTopic  string = "boiler"
	onlineStatus string = "ONLINE"
)

// Status Module publishes the health of the installation: the boiler status
// message, the faults reported by the devices and the gateway connectivity.
type StatusModule struct {
	poller
	mqttClient mqtt.Client
	mmClient   multimatic.Client

	mu           sync.Mutex
	boilerStatus *model.BoilerStatus
	systemInfo   *model.SystemInfo
}

func (c *StatusModule) refresh(ctx context.Context) error {
	hvac, err := c.mmClient.GetHvacState(ctx)
	if err != nil {
		return fmt.Errorf("error fetching hvac state: %w", err)
	}

	var errs []error
	boilerStatus, err := mapper.MapBoilerStatus(hvac)
	errs = append(errs, err)
	if boilerStatus != nil {
		errs = append(errs, publishAttributes(c.mqttClient, boilerTopic, []attribute{
			{"device_name", boilerStatus.DeviceName},
			{"status_code", boilerStatus.StatusCode},
			{"title", boilerStatus.Title},
			{"description", boilerStatus.Description},
			{"hint", boilerStatus.Hint},
			{"timestamp", boilerStatus.Timestamp},
			{"is_error", boilerStatus.IsError()},
		}))
	}

	faults := mapper.MapErrors(hvac)
	errorsGauge.Set(float64(len(faults)))
	errs = append(errs, publishAttributes(c.mqttClient, systemTopic, []attribute{
		{"errors", utils.PrettyPrint(faults)},
		{"error_count", len(faults)},
		{"has_errors", len(faults) > 0},
	}))

	syncState, err := mapper.MapHvacSyncState(hvac)
	errs = append(errs, err)
	if syncState != nil {
		errs = append(errs, publishAttributes(c.mqttClient, systemTopic, []attribute{
			{"sync_state", syncState.State},
			{"last_sync", syncState.Timestamp},
		}))
	}

	systemInfo, err := c.fetchSystemInfo(ctx, hvac)
	errs = append(errs, err)
	if systemInfo != nil {
		online := 0.0
		if systemInfo.Online == onlineStatus {
			online = 1
		}
		onlineGauge.Set(online)
		errs = append(errs, publishAttributes(c.mqttClient, systemTopic, []attribute{
			{"gateway", systemInfo.Gateway},
			{"serial_number", systemInfo.SerialNumber},
			{"name", systemInfo.Name},
			{"firmware", systemInfo.Firmware},
			{"online", systemInfo.Online},
			{"update", systemInfo.Update},
			{"mac_ethernet", systemInfo.MacEthernet},
			{"mac_wifi", systemInfo.MacWifi},
		}))
	}

	c.mu.Lock()
	c.boilerStatus = boilerStatus
	if systemInfo != nil {
		c.systemInfo = systemInfo
	}
	c.mu.Unlock()

	return errors.Join(errs...)
}

func (c *StatusModule) fetchSystemInfo(ctx context.Context, hvac multimatic.Document) (*model.SystemInfo, error) {
	facilities, err := c.mmClient.GetFacilities(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching facilities: %w", err)
	}
	gateway, err := c.mmClient.GetGatewayType(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Error fetching gateway type.")
		gateway = nil
	}
	return mapper.MapSystemInfo(facilities, gateway, hvac, c.mmClient.SerialNumber())
}

func (c *StatusModule) GetHomeAssistantEntities() ([]homeassistant.DiscoveryConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	device := homeassistant.Device{
		Identifiers: []string{c.mmClient.SerialNumber()},
		Name:        "multiMATIC",
		Model:       "multiMATIC",
	}
	if c.systemInfo != nil {
		if c.systemInfo.Gateway != "" {
			device.Model = c.systemInfo.Gateway
		}
		device.SwVersion = c.systemInfo.Firmware
	}

	configs := []homeassistant.DiscoveryConfig{
		homeassistant.NewBinarySensor(c.mqttClient, device, "has_errors", "Errors",
			mqtt.StateTopic(systemTopic, "has_errors"), "problem"),
		homeassistant.NewSensor(c.mqttClient, device, "error_count", "Error count",
			mqtt.StateTopic(systemTopic, "error_count"), ""),
		homeassistant.NewSensor(c.mqttClient, device, "online", "Gateway online status",
			mqtt.StateTopic(systemTopic, "online"), ""),
	}
	if c.boilerStatus != nil {
		configs = append(configs,
			homeassistant.NewSensor(c.mqttClient, device, "boiler_status", "Boiler status",
				mqtt.StateTopic(boilerTopic, "title"), ""),
			homeassistant.NewBinarySensor(c.mqttClient, device, "boiler_error", "Boiler error",
				mqtt.StateTopic(boilerTopic, "is_error"), "problem"))
	}
	return configs, nil
}

func NewStatusModule(mqttClient mqtt.Client, mmClient multimatic.Client, config *config.Config) Module {
	c := &StatusModule{
		mqttClient: mqttClient,
		mmClient:   mmClient,
	}
	c.poller = poller{
		name:     "status",
		interval: config.Multimatic.RefreshInterval,
		client:   mmClient,
		refresh:  c.refresh,
	}
	return c
}

func init() {
	Register("status", NewStatusModule)
}
