package mapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapBoilerStatus(t *testing.T) {
	boilerStatus, err := MapBoilerStatus(load(t, "hvacstate"))
	require.NoError(t, err)
	require.NotNil(t, boilerStatus)

	assert.Equal(t, "...", boilerStatus.Hint)
	assert.Equal(t, "...", boilerStatus.Description)
	assert.Equal(t, "S.8", boilerStatus.StatusCode)
	assert.Equal(t, "Mode chauffage : Arrêt temporaire après une opération de chauffage", boilerStatus.Title)
	assert.Equal(t, "VC BE 246/5-3", boilerStatus.DeviceName)
	assert.False(t, boilerStatus.IsError())
	assert.True(t, time.Unix(1545896904, 0).Equal(boilerStatus.Timestamp))
}

func TestMapBoilerStatusEmpty(t *testing.T) {
	boilerStatus, err := MapBoilerStatus(load(t, "hvacstate_empty"))
	assert.NoError(t, err)
	assert.Nil(t, boilerStatus)
}

func TestMapBoilerStatusMalformed(t *testing.T) {
	boilerStatus, err := MapBoilerStatus(getJson(t, `{"body": {"errorMessages": [
		{"type": "STATUS", "timestamp": "yesterday"}
	]}}`))
	assert.Nil(t, boilerStatus)
	assert.IsType(t, &MappingError{}, err)
}

func TestMapBoilerStatusSkipsMalformedError(t *testing.T) {
	boilerStatus, err := MapBoilerStatus(getJson(t, `{"body": {"errorMessages": [
		{"type": "ERROR", "statusCode": "F.900", "timestamp": "yesterday"},
		{"type": "STATUS", "statusCode": "S.8", "timestamp": 1545896904000}
	]}}`))
	require.NoError(t, err)
	require.NotNil(t, boilerStatus)
	assert.Equal(t, "S.8", boilerStatus.StatusCode)
}

func TestMapErrorsNoError(t *testing.T) {
	errors := MapErrors(load(t, "hvacstate"))
	assert.NotNil(t, errors)
	assert.Len(t, errors, 0)
}

func TestMapErrorsWithErrors(t *testing.T) {
	errors := MapErrors(load(t, "hvacstate_errors"))
	require.Len(t, errors, 1)

	assert.Equal(t, toTime(1562909693021), errors[0].Timestamp)
	assert.Equal(t, "...", errors[0].Description)
	assert.Equal(t, "Défaut : Bus de communication eBus", errors[0].Title)
	assert.Equal(t, "VR920", errors[0].DeviceName)
	assert.Equal(t, "F.900", errors[0].StatusCode)
}

func TestMapErrorsSkipsMalformedMessage(t *testing.T) {
	errors := MapErrors(getJson(t, `{"body": {"errorMessages": [
		{"type": "ERROR", "statusCode": "F.22", "timestamp": "yesterday"},
		{"type": "ERROR", "statusCode": "F.28", "timestamp": 1562909693021}
	]}}`))
	require.Len(t, errors, 1)
	assert.Equal(t, "F.28", errors[0].StatusCode)
}

func TestMapHvacSyncState(t *testing.T) {
	syncState, err := MapHvacSyncState(load(t, "hvacstate"))
	require.NoError(t, err)
	require.NotNil(t, syncState)
	assert.Equal(t, "SYNCED", syncState.State)
	assert.Equal(t, "/facilities/1234567890123456789012345678/systemcontrol/v1", syncState.Link)
	assert.Equal(t, int64(1562745806), syncState.Timestamp.Unix())
}

func TestMapHvacSyncStateNone(t *testing.T) {
	syncState, err := MapHvacSyncState(nil)
	assert.NoError(t, err)
	assert.Nil(t, syncState)
}
