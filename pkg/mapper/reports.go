package mapper

import (
	"time"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
	"github.com/rs/zerolog/log"
)

type rawReport struct {
	Id    string  `mapstructure:"_id"`
	Name  string  `mapstructure:"name"`
	Value float64 `mapstructure:"value"`
	Unit  string  `mapstructure:"unit"`
}

type rawReportDevice struct {
	Id      string      `mapstructure:"_id"`
	Name    string      `mapstructure:"name"`
	Reports []rawReport `mapstructure:"reports"`
}

type rawEmfDevice struct {
	Id            string `mapstructure:"id"`
	MarketingName string `mapstructure:"marketingName"`
	Reports       []struct {
		Function   string     `mapstructure:"function"`
		EnergyType string     `mapstructure:"energyType"`
		Value      float64    `mapstructure:"value"`
		From       *time.Time `mapstructure:"from"`
		To         *time.Time `mapstructure:"to"`
	} `mapstructure:"reports"`
}

// MapReports returns one report per sensor reading of the live report.
func MapReports(liveReport Document) []model.Report {
	reports := []model.Report{}
	for i, item := range lookupList(liveReport, "body", "devices") {
		device, err := decode[rawReportDevice]("live report", item)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Skipping live report device that cannot be mapped.")
			continue
		}
		for _, report := range device.Reports {
			reports = append(reports, model.Report{
				Id:         report.Id,
				Name:       report.Name,
				DeviceId:   device.Id,
				DeviceName: device.Name,
				Value:      report.Value,
				Unit:       report.Unit,
			})
		}
	}
	return reports
}

// MapEmfReports returns the energy reports of the energy management
// document.
func MapEmfReports(emf Document) []model.EmfReport {
	reports := []model.EmfReport{}
	for i, item := range lookupList(emf, "body") {
		device, err := decode[rawEmfDevice]("emf report", item)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Skipping emf device that cannot be mapped.")
			continue
		}
		for _, report := range device.Reports {
			reports = append(reports, model.EmfReport{
				DeviceId:   device.Id,
				DeviceName: device.MarketingName,
				Function:   report.Function,
				EnergyType: report.EnergyType,
				Value:      report.Value,
				From:       report.From,
				To:         report.To,
			})
		}
	}
	return reports
}
