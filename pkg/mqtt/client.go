package mqtt

import (
	"fmt"
	"path"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

const (
	Online  string = "online"
	Offline string = "offline"
)

// Topics.
const (
	State        string = "state"
	Command      string = "command"
	serverStatus string = "server/status"
)

var publishedCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "multimatic_mqtt_messages_published_total",
	Help: "Number of messages published to the MQTT broker, by result.",
}, []string{"result"})

type Client interface {
	// Connect to the MQTT server and mark the bridge online.
	Connect() error
	// Mark the bridge offline and disconnect from the MQTT server.
	Disconnect() error

	// Publishes a message under the prefix topic of the bridge.
	Publish(topic string, message interface{}) error
	// Same as publish but force the retain flag regardless of what is in the config
	PublishAndRetain(topic string, message interface{}) error
	// Publishes the value of one attribute of an item on
	// <prefix>/<item>/<attribute>/state, formatted with FormatValue.
	PublishState(item string, attribute string, value interface{}) error
	// Subscribe to a topic and calls the given handler when a message is
	// received. Subscriptions survive reconnections.
	Subscribe(topic string, messageHandler mqtt.MessageHandler) error

	// Return the full topic for a given subpath.
	GetFullTopic(topic string) string
	// Returns the topic used to publish the server status.
	ServerStatusTopic() string

	RawClient() mqtt.Client
}

type subscription struct {
	topic          string
	messageHandler mqtt.MessageHandler
}

// subscriptions are replayed when the connection comes back.
type subscriptions struct {
	mu          sync.Mutex
	reconnected bool
	list        []subscription
}

func (s *subscriptions) add(topic string, messageHandler mqtt.MessageHandler) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, subscription{topic: topic, messageHandler: messageHandler})
	return len(s.list)
}

func (s *subscriptions) setReconnected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnected = true
}

// toReplay returns the subscriptions to renew, none on the first connection.
func (s *subscriptions) toReplay() []subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.reconnected {
		return nil
	}
	s.reconnected = false
	return append([]subscription{}, s.list...)
}

type client struct {
	mqttClient    mqtt.Client
	options       ClientOptions
	subscriptions *subscriptions
}

func NewClient(options *ClientOptions) Client {
	subs := &subscriptions{}
	mqttOptions := mqtt.NewClientOptions().
		AddBroker(options.MqttUrl).
		SetClientID("multimatic-mqtt-" + uuid.New().String()).
		SetOrderMatters(false).
		SetUsername(options.Username).
		SetPassword(options.Password).
		SetAutoReconnect(true).
		// The broker marks the bridge offline when the connection drops.
		SetWill(path.Join(options.TopicPrefix, serverStatus), Offline, options.QoS, true).
		SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
			log.Info().Str("url", options.MqttUrl).Msg("Reconnecting to MQTT server.")
			subs.setReconnected()
		}).
		SetOnConnectHandler(func(client mqtt.Client) {
			log.Info().Str("url", options.MqttUrl).Msg("Connected to MQTT server.")

			replay := subs.toReplay()
			if len(replay) == 0 {
				return
			}
			log.Info().Int("count", len(replay)).Msg("Re-subscribing to topics")
			for _, sub := range replay {
				log.Debug().Str("topic", sub.topic).Msg("Re-subscribing to topic")
				t := client.Subscribe(sub.topic, options.QoS, sub.messageHandler)
				<-t.Done()
				if t.Error() != nil {
					log.Error().Err(t.Error()).Str("topic", sub.topic).Msg("Error re-subscribing to topic")
				}
			}
		})

	return &client{
		mqttClient:    mqtt.NewClient(mqttOptions),
		options:       *options,
		subscriptions: subs,
	}
}

func (c *client) Connect() error {
	t := c.mqttClient.Connect()
	<-t.Done()
	if t.Error() != nil {
		return fmt.Errorf("error connecting to MQTT broker: %w", t.Error())
	}

	return c.publishServerStatus(Online)
}

func (c *client) Disconnect() error {
	log.Info().Msg("Publishing Offline status to MQTT server.")
	if err := c.publishServerStatus(Offline); err != nil {
		return err
	}
	c.mqttClient.Disconnect(uint(c.options.DisconnectTimeout.Milliseconds()))
	log.Info().Msg("Disconnected from MQTT server.")
	return nil
}

func (c *client) publish(topic string, message interface{}, forceRetain bool) error {
	t := c.mqttClient.Publish(
		c.GetFullTopic(topic),
		c.options.QoS,
		c.options.Retain || forceRetain,
		message)
	<-t.Done()
	if t.Error() != nil {
		publishedCounter.WithLabelValues("error").Inc()
		return fmt.Errorf("error publishing on %s: %w", topic, t.Error())
	}
	publishedCounter.WithLabelValues("ok").Inc()
	return nil
}

func (c *client) Publish(topic string, message interface{}) error {
	return c.publish(topic, message, false)
}

func (c *client) PublishAndRetain(topic string, message interface{}) error {
	return c.publish(topic, message, true)
}

func (c *client) PublishState(item string, attribute string, value interface{}) error {
	return c.Publish(StateTopic(item, attribute), FormatValue(value))
}

func (c *client) Subscribe(topic string, messageHandler mqtt.MessageHandler) error {
	topic = c.GetFullTopic(topic)
	count := c.subscriptions.add(topic, messageHandler)
	log.Debug().Int("count", count).Str("topic", topic).Msg("Subscribing to topic")
	t := c.mqttClient.Subscribe(topic, c.options.QoS, messageHandler)
	<-t.Done()
	return t.Error()
}

// Publish the bridge status, retained so that late subscribers get it.
func (c *client) publishServerStatus(message string) error {
	log.Info().Str("status", message).Str("topic", serverStatus).Msg("Updating server status topic")
	return c.PublishAndRetain(serverStatus, message)
}

func (c *client) ServerStatusTopic() string {
	return c.GetFullTopic(serverStatus)
}

func (c *client) GetFullTopic(topic string) string {
	return path.Join(c.options.TopicPrefix, topic)
}

func (c *client) RawClient() mqtt.Client {
	return c.mqttClient
}

// NormalizeForTopicName keeps the characters allowed in a topic level,
// spaces and slashes become underscores.
func NormalizeForTopicName(item string) string {
	var output strings.Builder
	for i := 0; i < len(item); i++ {
		c := item[i]
		switch {
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '-':
			output.WriteByte(c)
		case c == ' ' || c == '/':
			output.WriteByte('_')
		}
	}
	return output.String()
}
