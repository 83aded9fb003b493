package mapper

import (
	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
	"github.com/rs/zerolog/log"
)

type rawZone struct {
	Id            string `mapstructure:"_id"`
	Configuration struct {
		Name              string       `mapstructure:"name"`
		Enabled           bool         `mapstructure:"enabled"`
		InsideTemperature *float64     `mapstructure:"inside_temperature"`
		ActiveFunction    string       `mapstructure:"active_function"`
		QuickVeto         *rawZoneVeto `mapstructure:"quick_veto"`
	} `mapstructure:"configuration"`
	Heating               *rawZoneFunction `mapstructure:"heating"`
	Cooling               *rawZoneFunction `mapstructure:"cooling"`
	CurrentlyControlledBy struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"currently_controlled_by"`
}

type rawZoneVeto struct {
	Active              bool     `mapstructure:"active"`
	SetpointTemperature *float64 `mapstructure:"setpoint_temperature"`
	RemainingDuration   *int     `mapstructure:"remaining_duration"`
}

type rawZoneFunction struct {
	Configuration struct {
		Mode                string   `mapstructure:"mode"`
		SetpointTemperature *float64 `mapstructure:"setpoint_temperature"`
		SetbackTemperature  *float64 `mapstructure:"setback_temperature"`
	} `mapstructure:"configuration"`
	TimeProgram Document `mapstructure:"timeprogram"`
}

// MapZones maps every zone of a system document. Zones that cannot be mapped
// are skipped.
func MapZones(system Document) []model.Zone {
	zones := []model.Zone{}
	for i, item := range lookupList(system, "body", "zones") {
		raw, _ := item.(map[string]interface{})
		zone, err := MapZone(raw)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Skipping zone that cannot be mapped.")
			continue
		}
		if zone != nil {
			zones = append(zones, *zone)
		}
	}
	return zones
}

// MapZone maps a single zone. It returns nil for an empty document or a zone
// without id.
func MapZone(raw Document) (*model.Zone, error) {
	if isEmpty(raw) {
		return nil, nil
	}
	rz, err := decode[rawZone]("zone", raw)
	if err != nil {
		return nil, err
	}
	if rz.Id == "" {
		return nil, nil
	}

	activeFunction := activeFunctionOf(rz)
	function := rz.Heating
	if (activeFunction == model.ActiveFunctionCooling && rz.Cooling != nil) || function == nil {
		function = rz.Cooling
	}

	zone := &model.Zone{
		Id:             rz.Id,
		Name:           rz.Configuration.Name,
		Enabled:        rz.Configuration.Enabled,
		Temperature:    rz.Configuration.InsideTemperature,
		ActiveFunction: activeFunction,
		OperatingMode:  model.OperatingModeUnknown,
		Rbr:            rz.CurrentlyControlledBy.Name == "RBR",
	}

	var rawTimeProgram Document
	if function != nil {
		zone.TargetHigh = function.Configuration.SetpointTemperature
		zone.TargetLow = function.Configuration.SetbackTemperature
		zone.OperatingMode = model.ParseOperatingMode(function.Configuration.Mode)
		rawTimeProgram = function.TimeProgram
	}
	if zone.TimeProgram, err = MapTimeProgram(rawTimeProgram, "setting"); err != nil {
		return nil, err
	}

	if veto := rz.Configuration.QuickVeto; veto != nil && veto.Active && veto.SetpointTemperature != nil {
		zone.QuickVeto = &model.QuickVeto{
			Target:   *veto.SetpointTemperature,
			Duration: veto.RemainingDuration,
		}
	}
	return zone, nil
}

// activeFunctionOf returns the function given by the zone configuration.
// Without it, the function follows the block present in the zone, heating
// first, and the zone is in standby when it has neither.
func activeFunctionOf(rz *rawZone) model.ActiveFunction {
	switch model.ActiveFunction(rz.Configuration.ActiveFunction) {
	case model.ActiveFunctionHeating:
		return model.ActiveFunctionHeating
	case model.ActiveFunctionCooling:
		return model.ActiveFunctionCooling
	case model.ActiveFunctionStandby:
		return model.ActiveFunctionStandby
	}
	switch {
	case rz.Heating != nil:
		return model.ActiveFunctionHeating
	case rz.Cooling != nil:
		return model.ActiveFunctionCooling
	default:
		return model.ActiveFunctionStandby
	}
}
