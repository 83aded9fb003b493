// Package multimatictest provides a multimatic.Client serving canned
// documents, for tests of the packages polling the API.
package multimatictest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic"
)

// Endpoint names only served by the fake, the others are the
// multimatic.Endpoint* names.
const (
	EndpointFacilities   string = "facilities"
	EndpointSystemStatus string = "system_status"
	EndpointRoom         string = "room"
	EndpointHotWater     string = "hotwater"
	EndpointCirculation  string = "circulation"
	EndpointZone         string = "zone"
	EndpointVentilation  string = "ventilation"
)

type Client struct {
	Serial string

	mu        sync.Mutex
	documents map[string]multimatic.Document
	errors    map[string]error
	requests  map[string]int

	connected atomic.Bool
	connects  atomic.Int32
}

var _ multimatic.Client = &Client{}

func NewClient(serial string) *Client {
	return &Client{
		Serial:    serial,
		documents: map[string]multimatic.Document{},
		errors:    map[string]error{},
		requests:  map[string]int{},
	}
}

// Serve makes the endpoint answer with the document.
func (c *Client) Serve(endpoint string, document multimatic.Document) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documents[endpoint] = document
	delete(c.errors, endpoint)
	return c
}

// ServeFile makes the endpoint answer with the content of a JSON file.
func (c *Client) ServeFile(endpoint string, file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var document multimatic.Document
	if err := json.Unmarshal(content, &document); err != nil {
		return fmt.Errorf("error parsing %s: %w", file, err)
	}
	c.Serve(endpoint, document)
	return nil
}

// Fail makes the endpoint answer with the error.
func (c *Client) Fail(endpoint string, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors[endpoint] = err
	return c
}

// Requests returns how many times the endpoint was requested.
func (c *Client) Requests(endpoint string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[endpoint]
}

// Connects returns how many logins were performed.
func (c *Client) Connects() int {
	return int(c.connects.Load())
}

// Expire drops the session, as an unauthorized response would.
func (c *Client) Expire() {
	c.connected.Store(false)
}

func (c *Client) Connect(ctx context.Context) error {
	c.connects.Add(1)
	c.connected.Store(true)
	return nil
}

func (c *Client) Disconnect(ctx context.Context) error {
	c.connected.Store(false)
	return nil
}

func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

func (c *Client) SerialNumber() string {
	return c.Serial
}

func (c *Client) get(endpoint string) (multimatic.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests[endpoint]++
	if !c.connected.Load() {
		return nil, multimatic.ErrNotConnected
	}
	if err, ok := c.errors[endpoint]; ok {
		return nil, err
	}
	document, ok := c.documents[endpoint]
	if !ok {
		return nil, &multimatic.ApiError{Method: "GET", Path: endpoint, StatusCode: 404}
	}
	return document, nil
}

func (c *Client) GetFacilities(ctx context.Context) (multimatic.Document, error) {
	return c.get(EndpointFacilities)
}

func (c *Client) GetGatewayType(ctx context.Context) (multimatic.Document, error) {
	return c.get(multimatic.EndpointGatewayType)
}

func (c *Client) GetHvacState(ctx context.Context) (multimatic.Document, error) {
	return c.get(multimatic.EndpointHvac)
}

func (c *Client) GetLiveReport(ctx context.Context) (multimatic.Document, error) {
	return c.get(multimatic.EndpointLiveReport)
}

func (c *Client) GetSystem(ctx context.Context) (multimatic.Document, error) {
	return c.get(multimatic.EndpointSystem)
}

func (c *Client) GetSystemStatus(ctx context.Context) (multimatic.Document, error) {
	return c.get(EndpointSystemStatus)
}

func (c *Client) GetRooms(ctx context.Context) (multimatic.Document, error) {
	return c.get(multimatic.EndpointRooms)
}

func (c *Client) GetRoom(ctx context.Context, id int) (multimatic.Document, error) {
	return c.get(EndpointRoom + "/" + strconv.Itoa(id))
}

func (c *Client) GetHotWater(ctx context.Context, dhwId string) (multimatic.Document, error) {
	return c.get(EndpointHotWater + "/" + dhwId)
}

func (c *Client) GetCirculation(ctx context.Context, dhwId string) (multimatic.Document, error) {
	return c.get(EndpointCirculation + "/" + dhwId)
}

func (c *Client) GetZone(ctx context.Context, id string) (multimatic.Document, error) {
	return c.get(EndpointZone + "/" + id)
}

func (c *Client) GetVentilation(ctx context.Context, id string) (multimatic.Document, error) {
	return c.get(EndpointVentilation + "/" + id)
}

func (c *Client) GetEmfReport(ctx context.Context) (multimatic.Document, error) {
	return c.get(multimatic.EndpointEmfReport)
}

func (c *Client) GetPhotovoltaics(ctx context.Context) (multimatic.Document, error) {
	return c.get(multimatic.EndpointPhotovoltaics)
}

func (c *Client) GetEndpoint(ctx context.Context, name string) (multimatic.Document, error) {
	if _, ok := multimatic.Endpoints[name]; !ok {
		return nil, fmt.Errorf("unknown endpoint '%s'", name)
	}
	return c.get(name)
}
