package mapper

import (
	"fmt"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
)

type rawSetting struct {
	StartTime string                 `mapstructure:"startTime"`
	Values    map[string]interface{} `mapstructure:",remain"`
}

// MapTimeProgram builds a weekly program from a day-keyed document. key is
// the attribute holding the value of each slot ("setting" for zones,
// "temperatureSetpoint" for rooms, "mode" for hot water and circulation).
// Numeric values become the slot target, strings its mode. Missing days are
// empty and the order of the slots is kept as received.
func MapTimeProgram(raw Document, key string) (model.TimeProgram, error) {
	program := model.TimeProgram{}
	for i := range program.Days {
		program.Days[i] = model.TimeProgramDay{Settings: []model.TimeProgramSetting{}}
	}
	if isEmpty(raw) {
		return program, nil
	}

	for i, day := range model.Weekdays {
		rawDay, err := decode[[]rawSetting]("time program", raw[day])
		if err != nil {
			return model.TimeProgram{}, err
		}
		for _, entry := range *rawDay {
			target, mode, err := settingValue(entry.Values[key])
			if err != nil {
				return model.TimeProgram{}, &MappingError{Entity: "time program", Err: err}
			}
			setting, err := model.NewTimeProgramSetting(entry.StartTime, target, mode)
			if err != nil {
				return model.TimeProgram{}, &MappingError{Entity: "time program", Err: err}
			}
			program.Days[i].Settings = append(program.Days[i].Settings, setting)
		}
	}
	return program, nil
}

func settingValue(value interface{}) (*float64, model.SettingMode, error) {
	switch v := value.(type) {
	case nil:
		return nil, model.SettingModeNone, nil
	case float64:
		return &v, model.SettingModeNone, nil
	case int:
		f := float64(v)
		return &f, model.SettingModeNone, nil
	case int64:
		f := float64(v)
		return &f, model.SettingModeNone, nil
	case string:
		return nil, model.ParseSettingMode(v), nil
	default:
		return nil, model.SettingModeNone, fmt.Errorf("unexpected setting value %v", value)
	}
}
