package mapper

import (
	"testing"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRoomsNone(t *testing.T) {
	rooms := MapRooms(nil)
	assert.NotNil(t, rooms)
	assert.Len(t, rooms, 0)
}

func TestMapRoomsEmpty(t *testing.T) {
	rooms := MapRooms(Document{})
	assert.NotNil(t, rooms)
	assert.Len(t, rooms, 0)
}

func TestMapRooms(t *testing.T) {
	rooms := MapRooms(load(t, "rooms"))
	require.Len(t, rooms, 4)

	room0 := rooms[0]
	assert.Equal(t, 0, room0.Id)
	assert.Equal(t, "Room 1", room0.Name)
	assert.Equal(t, model.OperatingModeAuto, room0.OperatingMode)
	assert.False(t, room0.WindowOpen)
	assert.Equal(t, 17.5, *room0.TargetHigh)
	assert.Equal(t, 17.9, *room0.Temperature)
	assert.Nil(t, room0.QuickVeto)
	assert.False(t, room0.ChildLock)

	monday := room0.TimeProgram.Days[0].Settings
	require.Len(t, monday, 3)
	assert.Equal(t, 17.5, *monday[1].Target)
	assert.Equal(t, 6*60, monday[1].AbsoluteMinutes)
	assert.Empty(t, room0.TimeProgram.Days[6].Settings)
}

func TestMapRoomEmpty(t *testing.T) {
	room, err := MapRoom(Document{})
	assert.NoError(t, err)
	assert.Nil(t, room)
}

func TestMapRoomQuickVeto(t *testing.T) {
	rooms := MapRooms(load(t, "rooms_quick_veto"))
	require.Len(t, rooms, 4)

	room0 := rooms[0]
	assert.Equal(t, 0, room0.Id)
	assert.Equal(t, "Room 1", room0.Name)
	assert.Equal(t, model.OperatingModeAuto, room0.OperatingMode)
	assert.False(t, room0.WindowOpen)
	assert.Equal(t, 20.0, *room0.TargetHigh)
	assert.Equal(t, 17.9, *room0.Temperature)
	require.NotNil(t, room0.QuickVeto)
	assert.Equal(t, 20.0, room0.QuickVeto.Target)
	assert.Equal(t, 88, *room0.QuickVeto.Duration)
	assert.False(t, room0.ChildLock)

	assert.Nil(t, rooms[1].QuickVeto)
}

func TestMapRoomQuickVetoWithoutTarget(t *testing.T) {
	room, err := MapRoom(getJson(t, `{
		"roomIndex": 3,
		"configuration": {"temperatureSetpoint": 19.0, "quickVeto": {"remainingDuration": 30}}
	}`))
	require.NoError(t, err)
	require.NotNil(t, room.QuickVeto)
	assert.Equal(t, 19.0, room.QuickVeto.Target)
	assert.Equal(t, 19.0, *room.TargetHigh)
}

func TestMapSingleRoomResponse(t *testing.T) {
	room, err := MapRoom(getJson(t, `{
		"body": {"roomIndex": 2, "configuration": {"name": "Bathroom", "operationMode": "MANUAL", "childLock": true}},
		"meta": {}
	}`))
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, 2, room.Id)
	assert.Equal(t, "Bathroom", room.Name)
	assert.Equal(t, model.OperatingModeManual, room.OperatingMode)
	assert.True(t, room.ChildLock)
	assert.NotNil(t, room.Devices)
	assert.Len(t, room.Devices, 0)
}

func TestMapDevices(t *testing.T) {
	rooms := MapRooms(load(t, "rooms"))
	require.Len(t, rooms, 4)

	devicesRoom0 := rooms[0].Devices
	devicesRoom1 := rooms[1].Devices
	require.Len(t, devicesRoom0, 1)
	require.Len(t, devicesRoom1, 2)

	assert.Equal(t, "Device 1", devicesRoom0[0].Name)
	assert.Equal(t, "R13456789012345678901234", devicesRoom0[0].Sgtin)
	assert.Equal(t, "VALVE", devicesRoom0[0].DeviceType)
	assert.True(t, devicesRoom0[0].RadioOutOfReach)

	assert.Equal(t, "Device 1", devicesRoom1[0].Name)
	assert.Equal(t, "R20123456789012345678900", devicesRoom1[0].Sgtin)
	assert.Equal(t, "VALVE", devicesRoom1[0].DeviceType)
	assert.False(t, devicesRoom1[0].RadioOutOfReach)

	assert.Equal(t, "Device 2", devicesRoom1[1].Name)
	assert.Equal(t, "R20123456789012345678999", devicesRoom1[1].Sgtin)
	assert.Equal(t, "VALVE", devicesRoom1[1].DeviceType)
	assert.False(t, devicesRoom1[1].RadioOutOfReach)
}

func TestMapRoomsSkipsMalformedRoom(t *testing.T) {
	rooms := MapRooms(getJson(t, `{"body": {"rooms": [
		{"roomIndex": "first", "configuration": {"name": "Broken"}},
		{"configuration": {"name": "No index"}},
		{"roomIndex": 1, "configuration": {"name": "Kitchen"}}
	]}}`))
	require.Len(t, rooms, 1)
	assert.Equal(t, "Kitchen", rooms[0].Name)
}

func TestMapRoomFractionalIndex(t *testing.T) {
	room, err := MapRoom(getJson(t, `{"roomIndex": 1.7, "configuration": {"name": "Kitchen"}}`))
	assert.Nil(t, room)
	assert.IsType(t, &MappingError{}, err)
}
