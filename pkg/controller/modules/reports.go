package modules

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/config"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/homeassistant"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mapper"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mqtt"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic"
	"github.com/rs/zerolog/log"
)

const (
	reportsTopic string = "reports"
	emfTopic     string = "emf"
)

// Reports Module encapsulates the live sensor readings (pressures, flow and
// tank temperatures) and the energy reports of the devices. Energy reports
// are only available on systems with an energy manager, missing ones are
// logged and skipped.
type ReportsModule struct {
	poller
	mqttClient mqtt.Client
	mmClient   multimatic.Client

	mu         sync.Mutex
	reports    []model.Report
	emfReports []model.EmfReport
}

func (c *ReportsModule) refresh(ctx context.Context) error {
	liveReport, err := c.mmClient.GetLiveReport(ctx)
	if err != nil {
		return fmt.Errorf("error fetching live report: %w", err)
	}
	reports := mapper.MapReports(liveReport)
	for _, report := range reports {
		value := report.Value
		setGauge(reportGauge, &value, report.DeviceId, report.Id, report.Unit)
		if err := c.mqttClient.PublishState(reportItem(report.DeviceId), report.Id, report.Value); err != nil {
			log.Error().
				Err(err).
				Str("device", report.DeviceId).
				Str("report", report.Id).
				Msg("Error publishing report")
		}
	}

	emfReports := []model.EmfReport{}
	emf, err := c.mmClient.GetEmfReport(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Error fetching energy reports.")
	} else {
		emfReports = mapper.MapEmfReports(emf)
	}
	for _, report := range emfReports {
		value := report.Value
		setGauge(energyGauge, &value, report.DeviceId, report.Function, report.EnergyType)
		if err := c.mqttClient.PublishState(emfItem(report.DeviceId), emfAttribute(report), report.Value); err != nil {
			log.Error().
				Err(err).
				Str("device", report.DeviceId).
				Str("function", report.Function).
				Msg("Error publishing energy report")
		}
	}

	c.mu.Lock()
	c.reports = reports
	c.emfReports = emfReports
	c.mu.Unlock()
	return nil
}

func reportItem(deviceId string) string {
	return path.Join(reportsTopic, mqtt.NormalizeForTopicName(deviceId))
}

func emfItem(deviceId string) string {
	return path.Join(reportsTopic, emfTopic, mqtt.NormalizeForTopicName(deviceId))
}

func emfAttribute(report model.EmfReport) string {
	return strings.ToLower(report.Function + "_" + report.EnergyType)
}

func (c *ReportsModule) GetHomeAssistantEntities() ([]homeassistant.DiscoveryConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	serial := c.mmClient.SerialNumber()
	configs := []homeassistant.DiscoveryConfig{}
	for _, report := range c.reports {
		device := homeassistant.Device{
			Identifiers: []string{serial + "_" + report.DeviceId},
			Name:        report.DeviceName,
			ViaDevice:   serial,
		}
		configs = append(configs, homeassistant.NewSensor(c.mqttClient, device, report.Id, report.Name,
			mqtt.StateTopic(reportItem(report.DeviceId), report.Id), report.Unit))
	}
	for _, report := range c.emfReports {
		device := homeassistant.Device{
			Identifiers: []string{serial + "_" + report.DeviceId},
			Name:        report.DeviceName,
			ViaDevice:   serial,
		}
		attribute := emfAttribute(report)
		configs = append(configs, homeassistant.NewSensor(c.mqttClient, device, attribute,
			report.DeviceName+" "+strings.ReplaceAll(attribute, "_", " "),
			mqtt.StateTopic(emfItem(report.DeviceId), attribute), "Wh"))
	}
	return configs, nil
}

func NewReportsModule(mqttClient mqtt.Client, mmClient multimatic.Client, config *config.Config) Module {
	c := &ReportsModule{
		mqttClient: mqttClient,
		mmClient:   mmClient,
	}
	c.poller = poller{
		name:     "reports",
		interval: config.Multimatic.RefreshInterval,
		client:   mmClient,
		refresh:  c.refresh,
	}
	return c
}

func init() {
	Register("reports", NewReportsModule)
}
