package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/config"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mqtt/mqtttest"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic/multimatictest"
	healthgo "github.com/hellofresh/health-go/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func check(t *testing.T, h Health, path string) (int, string) {
	t.Helper()
	recorder := httptest.NewRecorder()
	h.(*health).service().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body["status"].(string)
}

func TestHealthWhenConnected(t *testing.T) {
	mmClient := multimatictest.NewClient("1234")
	require.NoError(t, mmClient.Connect(context.Background()))
	h, err := NewHealth(config.HealthCheckConfig{Enabled: true, Port: 0}, mqtttest.NewClient("multimatic"), mmClient)
	require.NoError(t, err)

	for _, path := range []string{"/health", "/health/ready", "/health/live"} {
		code, status := check(t, h, path)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, string(healthgo.StatusOK), status)
	}
}

func TestHealthWithoutSession(t *testing.T) {
	h, err := NewHealth(config.HealthCheckConfig{}, mqtttest.NewClient("multimatic"), multimatictest.NewClient("1234"))
	require.NoError(t, err)

	code, status := check(t, h, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, string(healthgo.StatusPartiallyAvailable), status)
}
