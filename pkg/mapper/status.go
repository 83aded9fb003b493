package mapper

import (
	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
	"github.com/rs/zerolog/log"
)

const (
	hvacMessageStatus string = "STATUS"
	hvacMessageError  string = "ERROR"
)

type rawHvacMessage struct {
	Type        string `mapstructure:"type"`
	DeviceName  string `mapstructure:"deviceName"`
	Title       string `mapstructure:"title"`
	StatusCode  string `mapstructure:"statusCode"`
	Description string `mapstructure:"description"`
	Hint        string `mapstructure:"hint"`
	Timestamp   int64  `mapstructure:"timestamp"`
}

type rawSyncState struct {
	State     string `mapstructure:"state"`
	Timestamp int64  `mapstructure:"timestamp"`
	Link      struct {
		ResourceLink string `mapstructure:"resourceLink"`
	} `mapstructure:"link"`
}

// MapBoilerStatus returns the status message of the hvac state, nil when the
// document has none. Only a malformed status message is an error.
func MapBoilerStatus(hvac Document) (*model.BoilerStatus, error) {
	for _, item := range lookupList(hvac, "body", "errorMessages") {
		if kind, _ := lookup(item, "type").(string); kind != hvacMessageStatus {
			continue
		}
		message, err := decode[rawHvacMessage]("boiler status", item)
		if err != nil {
			return nil, err
		}
		return &model.BoilerStatus{
			DeviceName:  message.DeviceName,
			Title:       message.Title,
			StatusCode:  message.StatusCode,
			Description: message.Description,
			Hint:        message.Hint,
			Timestamp:   toTime(message.Timestamp),
		}, nil
	}
	return nil, nil
}

// MapErrors returns the faults reported in the hvac state.
func MapErrors(hvac Document) []model.Error {
	errors := []model.Error{}
	for i, item := range lookupList(hvac, "body", "errorMessages") {
		message, err := decode[rawHvacMessage]("error", item)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("Skipping hvac message that cannot be mapped.")
			continue
		}
		if message.Type != hvacMessageError {
			continue
		}
		errors = append(errors, model.Error{
			DeviceName:  message.DeviceName,
			Title:       message.Title,
			StatusCode:  message.StatusCode,
			Description: message.Description,
			Timestamp:   toTime(message.Timestamp),
		})
	}
	return errors
}

// MapHvacSyncState returns the first synchronisation state of the hvac
// state meta data.
func MapHvacSyncState(hvac Document) (*model.SyncState, error) {
	list := lookupList(hvac, "meta", "syncState")
	if len(list) == 0 || isEmpty(list[0]) {
		return nil, nil
	}
	raw, err := decode[rawSyncState]("sync state", list[0])
	if err != nil {
		return nil, err
	}
	return &model.SyncState{
		State:     raw.State,
		Link:      raw.Link.ResourceLink,
		Timestamp: toTime(raw.Timestamp),
	}, nil
}
