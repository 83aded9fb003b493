package mapper

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, name string) Document {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", name+".json"))
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(content, &doc))
	return doc
}

func getJson(t *testing.T, value string) Document {
	t.Helper()
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(value), &doc))
	return doc
}

func TestToTime(t *testing.T) {
	assert.True(t, time.Unix(1545896904, 0).Equal(toTime(1545896904282)))
	assert.Equal(t, int64(1545896904), toTime(1545896904999).Unix())
	assert.Equal(t, 0, toTime(1545896904282).Nanosecond())
}

func TestLookup(t *testing.T) {
	doc := getJson(t, `{"body": {"status": {"outside_temperature": 6.3}, "zones": [1, 2]}}`)

	assert.Equal(t, 6.3, lookup(doc, "body", "status", "outside_temperature"))
	assert.Nil(t, lookup(doc, "body", "missing", "outside_temperature"))
	assert.Nil(t, lookup(doc, "body", "zones", "outside_temperature"))
	assert.Nil(t, lookup(nil, "body"))
	assert.Len(t, lookupList(doc, "body", "zones"), 2)
	assert.Len(t, lookupList(doc, "body", "status"), 0)
}

func TestUnwrapBody(t *testing.T) {
	wrapped := getJson(t, `{"body": {"roomIndex": 1}, "meta": {}}`)
	plain := getJson(t, `{"roomIndex": 1}`)

	assert.Equal(t, 1.0, unwrapBody(wrapped)["roomIndex"])
	assert.Equal(t, 1.0, unwrapBody(plain)["roomIndex"])
}

func TestMappingErrorUnwraps(t *testing.T) {
	_, err := decode[rawZone]("zone", getJson(t, `{"_id": "Control_ZO1", "configuration": {"inside_temperature": "warm"}}`))

	var mappingError *MappingError
	require.True(t, errors.As(err, &mappingError))
	assert.Equal(t, "zone", mappingError.Entity)
	assert.NotNil(t, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "error mapping zone")
}

func TestEmptyDocumentsAreAbsent(t *testing.T) {
	for _, doc := range []Document{nil, {}} {
		zone, err := MapZone(doc)
		assert.NoError(t, err)
		assert.Nil(t, zone)

		room, err := MapRoom(doc)
		assert.NoError(t, err)
		assert.Nil(t, room)

		quickMode, err := MapQuickMode(doc)
		assert.NoError(t, err)
		assert.Nil(t, quickMode)

		holidayMode, err := MapHolidayMode(doc)
		assert.NoError(t, err)
		assert.Nil(t, holidayMode)

		hotWater, err := MapHotWater(doc, doc)
		assert.NoError(t, err)
		assert.Nil(t, hotWater)

		hotWater, err = MapHotWaterAlone(doc, "control_dhw", doc)
		assert.NoError(t, err)
		assert.Nil(t, hotWater)

		circulation, err := MapCirculation(doc)
		assert.NoError(t, err)
		assert.Nil(t, circulation)

		circulation, err = MapCirculationAlone(doc, "control_dhw")
		assert.NoError(t, err)
		assert.Nil(t, circulation)

		ventilation, err := MapVentilation(doc)
		assert.NoError(t, err)
		assert.Nil(t, ventilation)

		boilerStatus, err := MapBoilerStatus(doc)
		assert.NoError(t, err)
		assert.Nil(t, boilerStatus)

		systemInfo, err := MapSystemInfo(doc, doc, doc, "")
		assert.NoError(t, err)
		assert.Nil(t, systemInfo)

		syncState, err := MapHvacSyncState(doc)
		assert.NoError(t, err)
		assert.Nil(t, syncState)

		temperature, err := MapOutdoorTemperature(doc)
		assert.NoError(t, err)
		assert.Nil(t, temperature)

		assert.Equal(t, "", MapSerialNumber(doc))
	}
}

func TestEmptyDocumentsGiveEmptyLists(t *testing.T) {
	for _, doc := range []Document{nil, {}} {
		assert.NotNil(t, MapZones(doc))
		assert.Len(t, MapZones(doc), 0)
		assert.NotNil(t, MapRooms(doc))
		assert.Len(t, MapRooms(doc), 0)
		assert.NotNil(t, MapErrors(doc))
		assert.Len(t, MapErrors(doc), 0)
		assert.NotNil(t, MapReports(doc))
		assert.Len(t, MapReports(doc), 0)
		assert.NotNil(t, MapEmfReports(doc))
		assert.Len(t, MapEmfReports(doc), 0)
	}
}

func TestMappingTwiceGivesEqualValues(t *testing.T) {
	system := load(t, "systemcontrol")
	rooms := load(t, "rooms_quick_veto")
	liveReport := load(t, "livereport")

	assert.Equal(t, MapZones(system), MapZones(system))
	assert.Equal(t, MapRooms(rooms), MapRooms(rooms))
	assert.Equal(t, MapReports(liveReport), MapReports(liveReport))

	first, err := MapHotWater(system, liveReport)
	require.NoError(t, err)
	second, err := MapHotWater(system, liveReport)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}
