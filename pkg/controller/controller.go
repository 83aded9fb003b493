package controller

import (
	"context"
	"fmt"
	"sort"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/config"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/controller/modules"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/homeassistant"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mqtt"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic"
	"github.com/rs/zerolog/log"
)

// Topic (relative to the prefix) triggering a refresh of every module.
const refreshCommandTopic string = "server/refresh/" + mqtt.Command

const connectTimeout = 30 * time.Second

type Controller struct {
	mmClient   multimatic.Client
	mqttClient mqtt.Client
	discovery  *homeassistant.HomeAssistantDiscovery

	modules map[string]modules.Module
}

func NewController(config *config.Config) *Controller {
	// Create multiMATIC client.
	mmOptions := multimatic.NewClientOptions().
		SetBaseUrl(config.Multimatic.BaseUrl).
		SetUsername(config.Multimatic.Username).
		SetPassword(config.Multimatic.Password).
		SetSmartphoneId(config.Multimatic.SmartphoneId).
		SetSerial(config.Multimatic.Serial)
	mmClient := multimatic.NewClient(mmOptions)

	mqttOptions := mqtt.NewClientOptions().
		SetMqttUrl(config.Mqtt.MqttUrl).
		SetUsername(config.Mqtt.Username).
		SetPassword(config.Mqtt.Password).
		SetTopicPrefix(config.Mqtt.TopicPrefix).
		SetRetain(config.Mqtt.Retain)
	mqttClient := mqtt.NewClient(mqttOptions)

	return newController(config, mqttClient, mmClient)
}

func newController(config *config.Config, mqttClient mqtt.Client, mmClient multimatic.Client) *Controller {
	controller := Controller{
		mmClient:   mmClient,
		mqttClient: mqttClient,
		discovery:  homeassistant.NewHomeAssistantDiscovery(mqttClient, &config.HomeAssistant),
		modules:    map[string]modules.Module{},
	}

	for name, builder := range modules.Modules {
		module := builder(mqttClient, mmClient, config)
		controller.modules[name] = module
	}

	return &controller
}

// MqttClient returns the MQTT client, for health checks.
func (c *Controller) MqttClient() mqtt.Client {
	return c.mqttClient
}

// MultimaticClient returns the multiMATIC API client, for health checks.
func (c *Controller) MultimaticClient() multimatic.Client {
	return c.mmClient
}

// moduleNames returns the names of the modules in a stable order.
func (c *Controller) moduleNames() []string {
	names := make([]string, 0, len(c.modules))
	for name := range c.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Controller) Start() error {
	log.Info().Msg("Starting controller.")
	if err := c.mqttClient.Connect(); err != nil {
		return fmt.Errorf("error connecting to MQTT client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := c.mmClient.Connect(ctx); err != nil {
		return fmt.Errorf("error connecting to multiMATIC client: %w", err)
	}
	log.Info().Str("serial", c.mmClient.SerialNumber()).Msg("Polling facility.")

	for _, name := range c.moduleNames() {
		log.Info().Str("module", name).Msg("Starting module.")
		if err := c.modules[name].Start(); err != nil {
			return fmt.Errorf("error starting module '%s': %w", name, err)
		}
	}

	if err := c.publishDiscovery(); err != nil {
		return err
	}

	if err := c.mqttClient.Subscribe(refreshCommandTopic, c.onRefreshCommand); err != nil {
		return fmt.Errorf("error subscribing to refresh command: %w", err)
	}
	return nil
}

func (c *Controller) publishDiscovery() error {
	for _, name := range c.moduleNames() {
		module, ok := c.modules[name].(homeassistant.HomeAssistantDiscoveryInterface)
		if !ok {
			continue
		}
		configs, err := module.GetHomeAssistantEntities()
		if err != nil {
			return fmt.Errorf("error getting Home Assistant entities of module '%s': %w", name, err)
		}
		log.Debug().Str("module", name).Int("count", len(configs)).Msg("Adding Home Assistant entities.")
		c.discovery.AddConfigs(configs)
	}
	if err := c.discovery.PublishDiscoveryMessages(); err != nil {
		return fmt.Errorf("error publishing Home Assistant discovery messages: %w", err)
	}
	return nil
}

func (c *Controller) onRefreshCommand(client paho.Client, message paho.Message) {
	log.Info().Str("payload", string(message.Payload())).Msg("Refresh requested.")
	c.Refresh()
}

// Refresh makes every module fetch and publish its values right away.
func (c *Controller) Refresh() {
	for _, name := range c.moduleNames() {
		c.modules[name].Refresh()
	}
}

func (c *Controller) Stop() error {
	log.Info().Msg("Stopping controller.")

	for _, name := range c.moduleNames() {
		log.Info().Str("module", name).Msg("Stopping module.")
		if err := c.modules[name].Stop(); err != nil {
			return fmt.Errorf("error stopping module '%s': %w", name, err)
		}
	}

	if err := c.mqttClient.Disconnect(); err != nil {
		return fmt.Errorf("error disconnecting to MQTT client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := c.mmClient.Disconnect(ctx); err != nil {
		return fmt.Errorf("error disconnecting to multiMATIC client: %w", err)
	}

	return nil
}
