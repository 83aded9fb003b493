package homeassistant

import (
	"encoding/json"
	"fmt"
	"path"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/config"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mqtt"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/utils"
)

type Domain string

const (
	Sensor       Domain = "sensor"
	BinarySensor Domain = "binary_sensor"
)

const manufacturer string = "Vaillant"

type DiscoveryConfig struct {
	Domain   Domain
	DeviceId string
	ObjectId string
	Config   MqttConfig
}

type HomeAssistantDiscoveryInterface interface {
	// Returns the list of Home Assitant MQTT entities that each module would
	// be exporting for discovery.
	// This will be run after the method Start is called and therefore it can
	// assume that the logic there will be run.
	GetHomeAssistantEntities() ([]DiscoveryConfig, error)
}

type HomeAssistantDiscovery struct {
	mqttClient mqtt.Client
	config     *config.ConfigHomeAssistant

	discoveryConfigs []DiscoveryConfig
}

func NewHomeAssistantDiscovery(mqttClient mqtt.Client, config *config.ConfigHomeAssistant) *HomeAssistantDiscovery {
	return &HomeAssistantDiscovery{
		mqttClient:       mqttClient,
		config:           config,
		discoveryConfigs: []DiscoveryConfig{},
	}
}

// NewSensor returns the discovery config of a sensor whose state is published
// on the given topic (relative to the MQTT prefix).
func NewSensor(mqttClient mqtt.Client, device Device, objectId string, name string, topic string, unit string) DiscoveryConfig {
	return DiscoveryConfig{
		Domain:   Sensor,
		DeviceId: device.Identifiers[0],
		ObjectId: objectId,
		Config: &SensorConfig{
			BaseConfig: BaseConfig{
				Device:   device,
				Name:     name,
				UniqueId: device.Identifiers[0] + "_" + objectId,
			},
			StateTopic:        mqttClient.GetFullTopic(topic),
			UnitOfMeasurement: unit,
			DeviceClass:       deviceClass(unit),
			StateClass:        stateClass(unit),
		},
	}
}

// NewBinarySensor returns the discovery config of a sensor publishing
// "true" or "false".
func NewBinarySensor(mqttClient mqtt.Client, device Device, objectId string, name string, topic string, class string) DiscoveryConfig {
	return DiscoveryConfig{
		Domain:   BinarySensor,
		DeviceId: device.Identifiers[0],
		ObjectId: objectId,
		Config: &BinarySensorConfig{
			BaseConfig: BaseConfig{
				Device:   device,
				Name:     name,
				UniqueId: device.Identifiers[0] + "_" + objectId,
			},
			StateTopic:  mqttClient.GetFullTopic(topic),
			PayloadOn:   "true",
			PayloadOff:  "false",
			DeviceClass: class,
		},
	}
}

func deviceClass(unit string) string {
	switch unit {
	case "°C":
		return "temperature"
	case "bar":
		return "pressure"
	case "Wh", "kWh":
		return "energy"
	case "W", "kW":
		return "power"
	case "%":
		return "humidity"
	default:
		return ""
	}
}

func stateClass(unit string) string {
	switch unit {
	case "":
		return ""
	case "Wh", "kWh":
		return "total_increasing"
	default:
		return "measurement"
	}
}

func (hass *HomeAssistantDiscovery) AddConfigs(configs []DiscoveryConfig) {
	systemAvailability := Availability{
		Topic:               hass.mqttClient.ServerStatusTopic(),
		PayloadAvailable:    mqtt.Online,
		PayloadNotAvailable: mqtt.Offline,
	}
	for _, config := range configs {
		entityName := config.Config.GetName()
		config.Config.
			SetName(
				utils.RemoveRegexp(
					entityName,
					hass.config.RemoveRegexpFromName)).
			SetRetain(hass.config.Retain).
			AddAvailability(systemAvailability).
			SetAvailabilityMode("all")
		// Update the config with some generic attributes for all
		// configurations.
		device := config.Config.GetDevice()
		device.Manufacturer = manufacturer

		hass.discoveryConfigs = append(hass.discoveryConfigs, config)
	}
}

func (hass *HomeAssistantDiscovery) PublishDiscoveryMessages() error {
	if !hass.config.DiscoveryEnabled {
		return nil
	}

	for _, config := range hass.discoveryConfigs {
		topic := path.Join(
			hass.config.DiscoveryTopicPrefix,
			string(config.Domain),
			mqtt.NormalizeForTopicName(config.DeviceId),
			mqtt.NormalizeForTopicName(config.ObjectId),
			"config")
		json, err := json.Marshal(config.Config)
		if err != nil {
			return fmt.Errorf("error serializing dicovery config to JSON: %w", err)
		}
		t := hass.mqttClient.RawClient().Publish(topic, 0, true, json)
		<-t.Done()
		if t.Error() != nil {
			return fmt.Errorf("error publishing discovery message to MQTT: %w", t.Error())
		}
	}
	return nil
}
