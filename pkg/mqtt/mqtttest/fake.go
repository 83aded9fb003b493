// Package mqtttest provides an in-memory mqtt.Client recording what is
// published, for tests of the packages publishing on MQTT.
package mqtttest

import (
	"path"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mqtt"
)

type Client struct {
	Prefix string

	mu            sync.Mutex
	messages      map[string]string
	retained      map[string]bool
	subscriptions map[string]paho.MessageHandler
	raw           *rawClient
}

var _ mqtt.Client = &Client{}

func NewClient(prefix string) *Client {
	c := &Client{
		Prefix:        prefix,
		messages:      map[string]string{},
		retained:      map[string]bool{},
		subscriptions: map[string]paho.MessageHandler{},
	}
	c.raw = &rawClient{owner: c}
	return c
}

func (c *Client) Connect() error    { return nil }
func (c *Client) Disconnect() error { return nil }

func (c *Client) Publish(topic string, message interface{}) error {
	c.record(c.GetFullTopic(topic), message, false)
	return nil
}

func (c *Client) PublishAndRetain(topic string, message interface{}) error {
	c.record(c.GetFullTopic(topic), message, true)
	return nil
}

func (c *Client) PublishState(item string, attribute string, value interface{}) error {
	return c.Publish(mqtt.StateTopic(item, attribute), mqtt.FormatValue(value))
}

func (c *Client) Subscribe(topic string, messageHandler paho.MessageHandler) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[c.GetFullTopic(topic)] = messageHandler
	return nil
}

func (c *Client) GetFullTopic(topic string) string {
	return path.Join(c.Prefix, topic)
}

func (c *Client) ServerStatusTopic() string {
	return c.GetFullTopic("server/status")
}

func (c *Client) RawClient() paho.Client {
	return c.raw
}

// Message returns the last payload published on the full topic.
func (c *Client) Message(topic string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	message, ok := c.messages[topic]
	return message, ok
}

// Retained tells whether the last message of the full topic was retained.
func (c *Client) Retained(topic string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retained[topic]
}

// Topics returns every full topic published so far.
func (c *Client) Topics() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	topics := make([]string, 0, len(c.messages))
	for topic := range c.messages {
		topics = append(topics, topic)
	}
	return topics
}

// Deliver calls the handler subscribed on the full topic, if any.
func (c *Client) Deliver(topic string, payload string) bool {
	c.mu.Lock()
	handler, ok := c.subscriptions[topic]
	c.mu.Unlock()
	if !ok {
		return false
	}
	handler(c.raw, &message{topic: topic, payload: []byte(payload)})
	return true
}

func (c *Client) record(topic string, payload interface{}, retain bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch p := payload.(type) {
	case []byte:
		c.messages[topic] = string(p)
	case string:
		c.messages[topic] = p
	default:
		c.messages[topic] = mqtt.FormatValue(p)
	}
	c.retained[topic] = retain
}

// rawClient only implements the publishing part of the paho client, which
// is all the bridge uses directly.
type rawClient struct {
	paho.Client
	owner *Client
}

func (r *rawClient) IsConnected() bool      { return true }
func (r *rawClient) IsConnectionOpen() bool { return true }

func (r *rawClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	r.owner.record(topic, payload, retained)
	return doneToken{}
}

type doneToken struct{}

func (doneToken) Wait() bool                     { return true }
func (doneToken) WaitTimeout(time.Duration) bool { return true }
func (doneToken) Done() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}
func (doneToken) Error() error { return nil }

type message struct {
	paho.Message
	topic   string
	payload []byte
}

func (m *message) Topic() string   { return m.topic }
func (m *message) Payload() []byte { return m.payload }
