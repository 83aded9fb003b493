package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MULTIMATIC_USERNAME", "user")
	t.Setenv("MULTIMATIC_PASSWORD", "secret")
	t.Setenv("MQTT_URL", "tcp://localhost:1883")
}

func TestReadConfig(t *testing.T) {
	setRequired(t)
	t.Setenv("MULTIMATIC_SERIAL", "888")
	t.Setenv("MQTT_USERNAME", "mqtt")
	t.Setenv("REFRESH_INTERVAL", "30s")

	c, err := ReadConfig()
	require.NoError(t, err)

	assert.Equal(t, "user", c.Multimatic.Username, "multiMATIC username is wrong.")
	assert.Equal(t, "secret", c.Multimatic.Password, "multiMATIC password is wrong.")
	assert.Equal(t, "888", c.Multimatic.Serial, "multiMATIC serial is wrong.")
	assert.Equal(t, 30*time.Second, c.Multimatic.RefreshInterval, "Refresh interval is wrong.")
	assert.Equal(t, "mqtt", c.Mqtt.Username, "MQTT username is wrong.")
	assert.Equal(t, "multimatic", c.Mqtt.TopicPrefix, "MQTT prefix is wrong.")
}

func TestReadConfigDefaults(t *testing.T) {
	setRequired(t)

	c, err := ReadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, c.Multimatic.RefreshInterval)
	assert.Equal(t, "", c.Multimatic.Serial)
	assert.Equal(t, "INFO", c.LogLevel)
	assert.Equal(t, "homeassistant", c.HomeAssistant.DiscoveryTopicPrefix)
	assert.False(t, c.HomeAssistant.DiscoveryEnabled)
	assert.False(t, c.HealthCheck.Enabled)
	assert.Equal(t, 8080, c.HealthCheck.Port)
}

func TestReadConfigMissingRequiredField(t *testing.T) {
	t.Setenv("MULTIMATIC_USERNAME", "user")
	t.Setenv("MQTT_URL", "tcp://localhost:1883")

	_, err := ReadConfig()
	assert.EqualError(t, err, "required field not found in config: multimatic_password")
}

func TestReadConfigWithDeprecatedFields(t *testing.T) {
	setRequired(t)
	t.Setenv("MQTT_TOPIC_FORMAT", "foo")

	_, err := ReadConfig()
	assert.EqualError(t, err, "deprecated field found in config: mqtt_topic_format")
}

func TestReadConfigRefreshIntervalTooShort(t *testing.T) {
	setRequired(t)
	t.Setenv("REFRESH_INTERVAL", "1s")

	_, err := ReadConfig()
	assert.Error(t, err)
}

func TestConfigStringHidesPasswords(t *testing.T) {
	setRequired(t)

	c, err := ReadConfig()
	require.NoError(t, err)
	assert.NotContains(t, c.String(), "secret")
}
