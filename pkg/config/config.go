package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ConfigMultimatic struct {
	Username        string
	Password        string
	Serial          string
	SmartphoneId    string
	BaseUrl         string
	RefreshInterval time.Duration
}
type ConfigMqtt struct {
	MqttUrl     string
	Username    string
	Password    string
	TopicPrefix string
	Retain      bool
}
type ConfigHomeAssistant struct {
	DiscoveryEnabled     bool
	DiscoveryTopicPrefix string
	RemoveRegexpFromName string
	Retain               bool
}
type HealthCheckConfig struct {
	Enabled bool
	Port    int
}
type Config struct {
	Multimatic    ConfigMultimatic
	Mqtt          ConfigMqtt
	HomeAssistant ConfigHomeAssistant
	HealthCheck   HealthCheckConfig
	LogLevel      string
}

const (
	undefined                               string = "__undefined__"
	deprecated                              string = "__deprecated__"
	envKeyMultimaticUsername                string = "multimatic_username"
	envKeyMultimaticPassword                string = "multimatic_password"
	envKeyMultimaticSerial                  string = "multimatic_serial"
	envKeyMultimaticSmartphoneId            string = "multimatic_smartphone_id"
	envKeyMultimaticBaseUrl                 string = "multimatic_base_url"
	envKeyRefreshInterval                   string = "refresh_interval"
	envKeyMqttUrl                           string = "mqtt_url"
	envKeyMqttUsername                      string = "mqtt_username"
	envKeyMqttPassword                      string = "mqtt_password"
	envKeyMqttTopicFormat                   string = "mqtt_topic_format"
	envKeyMqttTopicPrefix                   string = "mqtt_topic_prefix"
	envKeyMqttRetain                        string = "mqtt_retain"
	envKeyLogLevel                          string = "log_level"
	envKeyHomeAssistantDiscoveryEnabled     string = "home_assistant_discovery_enabled"
	envKeyHomeAssistantDiscoveryPrefix      string = "home_assistant_discovery_prefix"
	envKeyHomeAssistantRemoveRegexpFromName string = "home_assistant_remove_regexp_from_name"
	envKeyHealthCheckEnabled                string = "health_check_enabled"
	envKeyHealthCheckPort                   string = "health_check_port"
)

var defaultConfig = map[string]interface{}{
	envKeyMultimaticUsername:                undefined,
	envKeyMultimaticPassword:                undefined,
	envKeyMultimaticSerial:                  "",
	envKeyMultimaticSmartphoneId:            "",
	envKeyMultimaticBaseUrl:                 "",
	envKeyRefreshInterval:                   "2m",
	envKeyMqttUrl:                           undefined,
	envKeyMqttUsername:                      "",
	envKeyMqttPassword:                      "",
	envKeyMqttTopicPrefix:                   "multimatic",
	envKeyMqttTopicFormat:                   deprecated,
	envKeyMqttRetain:                        false,
	envKeyLogLevel:                          "INFO",
	envKeyHomeAssistantDiscoveryEnabled:     false,
	envKeyHomeAssistantDiscoveryPrefix:      "homeassistant",
	envKeyHomeAssistantRemoveRegexpFromName: "",
	envKeyHealthCheckEnabled:                false,
	envKeyHealthCheckPort:                   8080,
}

// ReadConfig returns a Config from the config.yaml file of the working
// directory and the env variables, env variables taking precedence.
func ReadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	// Set the current directory where the binary is being run.
	v.AddConfigPath(".")
	v.AutomaticEnv()
	for key, value := range defaultConfig {
		if value != undefined && value != deprecated {
			v.SetDefault(key, value)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ReadInConfig error: %w", err)
		}
	}

	// Check for deprecated and undefined fields.
	for fieldName, defaultValue := range defaultConfig {
		if defaultValue == deprecated && v.IsSet(fieldName) {
			return nil, fmt.Errorf("deprecated field found in config: %s", fieldName)
		}
		if defaultValue == undefined && !v.IsSet(fieldName) {
			return nil, fmt.Errorf("required field not found in config: %s", fieldName)
		}
	}

	refreshInterval := v.GetDuration(envKeyRefreshInterval)
	if refreshInterval < 10*time.Second {
		return nil, fmt.Errorf("%s must be at least 10s, got '%s'", envKeyRefreshInterval, v.GetString(envKeyRefreshInterval))
	}

	config := &Config{
		Multimatic: ConfigMultimatic{
			Username:        v.GetString(envKeyMultimaticUsername),
			Password:        v.GetString(envKeyMultimaticPassword),
			Serial:          v.GetString(envKeyMultimaticSerial),
			SmartphoneId:    v.GetString(envKeyMultimaticSmartphoneId),
			BaseUrl:         v.GetString(envKeyMultimaticBaseUrl),
			RefreshInterval: refreshInterval,
		},
		Mqtt: ConfigMqtt{
			MqttUrl:     v.GetString(envKeyMqttUrl),
			Username:    v.GetString(envKeyMqttUsername),
			Password:    v.GetString(envKeyMqttPassword),
			TopicPrefix: v.GetString(envKeyMqttTopicPrefix),
			Retain:      v.GetBool(envKeyMqttRetain),
		},
		HomeAssistant: ConfigHomeAssistant{
			DiscoveryEnabled:     v.GetBool(envKeyHomeAssistantDiscoveryEnabled),
			DiscoveryTopicPrefix: v.GetString(envKeyHomeAssistantDiscoveryPrefix),
			RemoveRegexpFromName: v.GetString(envKeyHomeAssistantRemoveRegexpFromName),
			Retain:               v.GetBool(envKeyMqttRetain),
		},
		HealthCheck: HealthCheckConfig{
			Enabled: v.GetBool(envKeyHealthCheckEnabled),
			Port:    v.GetInt(envKeyHealthCheckPort),
		},
		LogLevel: v.GetString(envKeyLogLevel),
	}

	return config, nil
}

func (c *Config) String() string {
	return fmt.Sprintf("user=%s serial=%s mqtt=%s prefix=%s refresh=%s",
		c.Multimatic.Username, c.Multimatic.Serial, c.Mqtt.MqttUrl, c.Mqtt.TopicPrefix, c.Multimatic.RefreshInterval)
}
