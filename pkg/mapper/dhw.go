package mapper

import (
	"strings"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
)

const (
	hotWaterName    string = "Hot water"
	circulationName string = "Circulation"
	ventilationName string = "Ventilation"

	dhwTemperatureReport string = "DomesticHotWaterTankTemperature"
)

type rawDhw struct {
	Id          string   `mapstructure:"_id"`
	HotWater    Document `mapstructure:"hotwater"`
	Circulation Document `mapstructure:"circulation"`
}

// The system document uses snake case where the standalone circulation
// endpoint uses camel case, both are accepted.
type rawCircuitConfiguration struct {
	OperationMode       string   `mapstructure:"operation_mode"`
	OperationModeCamel  string   `mapstructure:"operationMode"`
	TemperatureSetpoint *float64 `mapstructure:"temperature_setpoint"`
}

func (c *rawCircuitConfiguration) mode() model.OperatingMode {
	if c.OperationMode != "" {
		return model.ParseOperatingMode(c.OperationMode)
	}
	return model.ParseOperatingMode(c.OperationModeCamel)
}

type rawCircuit struct {
	Configuration rawCircuitConfiguration `mapstructure:"configuration"`
	TimeProgram   Document                `mapstructure:"timeprogram"`
}

type rawVentilation struct {
	Id  string `mapstructure:"_id"`
	Fan struct {
		Configuration struct {
			OperationMode string   `mapstructure:"operation_mode"`
			DayLevel      *float64 `mapstructure:"day_level"`
			NightLevel    *float64 `mapstructure:"night_level"`
		} `mapstructure:"configuration"`
		TimeProgram Document `mapstructure:"timeprogram"`
	} `mapstructure:"fan"`
}

// firstDhw returns the first domestic hot water section of the system, nil
// when the system has none.
func firstDhw(system Document) (*rawDhw, error) {
	list := lookupList(system, "body", "dhw")
	if len(list) == 0 || isEmpty(list[0]) {
		return nil, nil
	}
	return decode[rawDhw]("dhw", list[0])
}

// MapHotWater maps the hot water circuit of a system document. The current
// temperature is taken from the live report and stays nil when the report has
// no matching sensor.
func MapHotWater(system Document, liveReport Document) (*model.HotWater, error) {
	dhw, err := firstDhw(system)
	if err != nil || dhw == nil {
		return nil, err
	}
	return MapHotWaterAlone(dhw.HotWater, dhw.Id, liveReport)
}

// MapHotWaterAlone maps the response of the hot water endpoint, whose id is
// not part of the document.
func MapHotWaterAlone(raw Document, id string, liveReport Document) (*model.HotWater, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	circuit, err := decode[rawCircuit]("hot water", unwrapBody(raw))
	if err != nil {
		return nil, err
	}
	timeProgram, err := MapTimeProgram(circuit.TimeProgram, "mode")
	if err != nil {
		return nil, err
	}

	hotWater := &model.HotWater{
		Id:            id,
		Name:          hotWaterName,
		TargetHigh:    circuit.Configuration.TemperatureSetpoint,
		OperatingMode: circuit.Configuration.mode(),
		TimeProgram:   timeProgram,
	}
	if report := findReport(liveReport, id, dhwTemperatureReport); report != nil {
		value := report.Value
		hotWater.Temperature = &value
	}
	return hotWater, nil
}

// MapCirculation maps the circulation of a system document.
func MapCirculation(system Document) (*model.Circulation, error) {
	dhw, err := firstDhw(system)
	if err != nil || dhw == nil {
		return nil, err
	}
	return MapCirculationAlone(dhw.Circulation, dhw.Id)
}

// MapCirculationAlone maps the response of the circulation endpoint.
func MapCirculationAlone(raw Document, id string) (*model.Circulation, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	circuit, err := decode[rawCircuit]("circulation", unwrapBody(raw))
	if err != nil {
		return nil, err
	}
	timeProgram, err := MapTimeProgram(circuit.TimeProgram, "mode")
	if err != nil {
		return nil, err
	}
	return &model.Circulation{
		Id:            id,
		Name:          circulationName,
		OperatingMode: circuit.Configuration.mode(),
		TimeProgram:   timeProgram,
	}, nil
}

// MapVentilation maps the first ventilation unit of a system document. Fan
// day and night levels are exposed as TargetHigh and TargetLow.
func MapVentilation(system Document) (*model.Ventilation, error) {
	list := lookupList(system, "body", "ventilation")
	if len(list) == 0 || isEmpty(list[0]) {
		return nil, nil
	}
	raw, err := decode[rawVentilation]("ventilation", list[0])
	if err != nil {
		return nil, err
	}
	timeProgram, err := MapTimeProgram(raw.Fan.TimeProgram, "setting")
	if err != nil {
		return nil, err
	}
	return &model.Ventilation{
		Id:            raw.Id,
		Name:          ventilationName,
		TargetHigh:    raw.Fan.Configuration.DayLevel,
		TargetLow:     raw.Fan.Configuration.NightLevel,
		OperatingMode: model.ParseOperatingMode(raw.Fan.Configuration.OperationMode),
		TimeProgram:   timeProgram,
	}, nil
}

// findReport looks for a sensor reading of the given device in the live
// report. Device ids are compared case-insensitively since the standalone
// endpoints use lower case ids.
func findReport(liveReport Document, deviceId string, reportId string) *rawReport {
	for _, item := range lookupList(liveReport, "body", "devices") {
		device, err := decode[rawReportDevice]("live report", item)
		if err != nil || !strings.EqualFold(device.Id, deviceId) {
			continue
		}
		for _, report := range device.Reports {
			if report.Id == reportId {
				found := report
				return &found
			}
		}
	}
	return nil
}
