package multimatic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/mapper"
	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

const (
	disconnected uint32 = 0
	connected    uint32 = 2
)

// Document is a decoded JSON response.
type Document = mapper.Document

var ErrNotConnected = errors.New("multimatic client is not connected")

var requestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "multimatic_api_requests_total",
	Help: "Number of requests sent to the multiMATIC API, by method and status code.",
}, []string{"method", "status"})

// ApiError is returned when the API answers with a status code >= 300.
type ApiError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("error response from server, %s %s httpStatus=%d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client is the interface definition as used by this library, the
// interface is primarily to allow mocking tests.
type Client interface {
	// Connect performs the login on the multiMATIC API and resolves the
	// serial number of the facility when none was configured.
	Connect(ctx context.Context) error
	// Disconnect logs out and drops the session cookies.
	Disconnect(ctx context.Context) error
	// IsConnected tells whether the session is believed valid. An
	// unauthorized response invalidates it.
	IsConnected() bool
	// SerialNumber of the facility the client talks to.
	SerialNumber() string

	GetFacilities(ctx context.Context) (Document, error)
	GetGatewayType(ctx context.Context) (Document, error)
	GetHvacState(ctx context.Context) (Document, error)
	GetLiveReport(ctx context.Context) (Document, error)
	GetSystem(ctx context.Context) (Document, error)
	GetSystemStatus(ctx context.Context) (Document, error)
	GetRooms(ctx context.Context) (Document, error)
	GetRoom(ctx context.Context, id int) (Document, error)
	GetHotWater(ctx context.Context, dhwId string) (Document, error)
	GetCirculation(ctx context.Context, dhwId string) (Document, error)
	GetZone(ctx context.Context, id string) (Document, error)
	GetVentilation(ctx context.Context, id string) (Document, error)
	GetEmfReport(ctx context.Context) (Document, error)
	GetPhotovoltaics(ctx context.Context) (Document, error)

	// GetEndpoint fetches one of the facility endpoints by name (see
	// Endpoints).
	GetEndpoint(ctx context.Context, name string) (Document, error)
}

// Endpoints maps the endpoint names to their path for a given serial number.
var Endpoints = map[string]func(serial string) string{
	EndpointSystem:        systemPath,
	EndpointRooms:         roomsPath,
	EndpointLiveReport:    liveReportPath,
	EndpointHvac:          hvacPath,
	EndpointGatewayType:   gatewayTypePath,
	EndpointEmfReport:     emfReportPath,
	EndpointPhotovoltaics: photovoltaicsPath,
}

// client implements the Client interface.
// Clients are safe for concurrent use by multiple goroutines.
type client struct {
	status atomic.Uint32

	httpClient *resty.Client
	options    ClientOptions

	serial atomic.Value

	// Protect the login process with a Mutex to avoid multiple goroutines
	// performing login in parallel.
	loginMutex sync.Mutex
}

type tokenRequest struct {
	SmartphoneId string `json:"smartphoneId"`
	Username     string `json:"username"`
	Password     string `json:"password"`
}

type authenticateRequest struct {
	SmartphoneId string `json:"smartphoneId"`
	Username     string `json:"username"`
	AuthToken    string `json:"authToken"`
}

type tokenResponse struct {
	Body struct {
		AuthToken string `json:"authToken"`
	} `json:"body"`
}

// NewClient will create a multiMATIC client with all the options specified in
// the provided ClientOptions. The client must have the Connect() method called
// on it before it may be used.
func NewClient(options *ClientOptions) Client {
	httpClient := resty.New().
		SetBaseURL(options.BaseUrl).
		SetTimeout(options.Timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	c := &client{
		httpClient: httpClient,
		options:    *options,
	}
	c.serial.Store(options.Serial)
	return c
}

func (c *client) Connect(ctx context.Context) error {
	c.loginMutex.Lock()
	defer c.loginMutex.Unlock()

	if c.status.Load() == connected {
		return nil
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("error creating cookie jar: %w", err)
	}
	c.httpClient.SetCookieJar(jar)

	body, err := c.doRequest(ctx, http.MethodPost, newTokenPath, tokenRequest{
		SmartphoneId: c.options.SmartphoneId,
		Username:     c.options.Username,
		Password:     c.options.Password,
	})
	if err != nil {
		return fmt.Errorf("error requesting a new token: %w", err)
	}
	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("error parsing token response: %w", err)
	}
	if token.Body.AuthToken == "" {
		return errors.New("no auth token in token response")
	}

	_, err = c.doRequest(ctx, http.MethodPost, authenticatePath, authenticateRequest{
		SmartphoneId: c.options.SmartphoneId,
		Username:     c.options.Username,
		AuthToken:    token.Body.AuthToken,
	})
	if err != nil {
		return fmt.Errorf("error authenticating: %w", err)
	}
	c.status.Store(connected)
	log.Info().Str("user", c.options.Username).Msg("Logged in to multiMATIC API.")

	if c.SerialNumber() == "" {
		facilities, err := c.GetFacilities(ctx)
		if err != nil {
			return fmt.Errorf("error fetching facilities: %w", err)
		}
		serial := mapper.MapSerialNumber(facilities)
		if serial == "" {
			return errors.New("no facility found for this account")
		}
		log.Info().Str("serial", serial).Msg("Using first facility of the account.")
		c.serial.Store(serial)
	}
	return nil
}

func (c *client) Disconnect(ctx context.Context) error {
	if c.status.Load() == disconnected {
		return nil
	}
	_, err := c.doRequest(ctx, http.MethodPost, logoutPath, nil)
	c.status.Store(disconnected)
	c.httpClient.GetClient().CloseIdleConnections()
	if err != nil {
		return fmt.Errorf("error logging out: %w", err)
	}
	return nil
}

func (c *client) IsConnected() bool {
	return c.status.Load() == connected
}

func (c *client) SerialNumber() string {
	return c.serial.Load().(string)
}

func (c *client) GetFacilities(ctx context.Context) (Document, error) {
	return c.get(ctx, facilitiesPath)
}

func (c *client) GetGatewayType(ctx context.Context) (Document, error) {
	return c.getFacility(ctx, gatewayTypePath)
}

func (c *client) GetHvacState(ctx context.Context) (Document, error) {
	return c.getFacility(ctx, hvacPath)
}

func (c *client) GetLiveReport(ctx context.Context) (Document, error) {
	return c.getFacility(ctx, liveReportPath)
}

func (c *client) GetSystem(ctx context.Context) (Document, error) {
	return c.getFacility(ctx, systemPath)
}

func (c *client) GetSystemStatus(ctx context.Context) (Document, error) {
	return c.getFacility(ctx, systemStatusPath)
}

func (c *client) GetRooms(ctx context.Context) (Document, error) {
	return c.getFacility(ctx, roomsPath)
}

func (c *client) GetRoom(ctx context.Context, id int) (Document, error) {
	return c.getFacility(ctx, func(serial string) string { return roomPath(serial, id) })
}

func (c *client) GetHotWater(ctx context.Context, dhwId string) (Document, error) {
	return c.getFacility(ctx, func(serial string) string { return hotWaterPath(serial, dhwId) })
}

func (c *client) GetCirculation(ctx context.Context, dhwId string) (Document, error) {
	return c.getFacility(ctx, func(serial string) string { return circulationPath(serial, dhwId) })
}

func (c *client) GetZone(ctx context.Context, id string) (Document, error) {
	return c.getFacility(ctx, func(serial string) string { return zonePath(serial, id) })
}

func (c *client) GetVentilation(ctx context.Context, id string) (Document, error) {
	return c.getFacility(ctx, func(serial string) string { return ventilationPath(serial, id) })
}

func (c *client) GetEmfReport(ctx context.Context) (Document, error) {
	return c.getFacility(ctx, emfReportPath)
}

func (c *client) GetPhotovoltaics(ctx context.Context) (Document, error) {
	return c.getFacility(ctx, photovoltaicsPath)
}

func (c *client) GetEndpoint(ctx context.Context, name string) (Document, error) {
	endpoint, ok := Endpoints[name]
	if !ok {
		return nil, fmt.Errorf("unknown endpoint '%s'", name)
	}
	return c.getFacility(ctx, endpoint)
}

func (c *client) getFacility(ctx context.Context, endpoint func(serial string) string) (Document, error) {
	serial := c.SerialNumber()
	if !c.IsConnected() || serial == "" {
		return nil, ErrNotConnected
	}
	return c.get(ctx, endpoint(serial))
}

// get performs a GET request and decodes the JSON document returned. An empty
// response is an empty document.
func (c *client) get(ctx context.Context, path string) (Document, error) {
	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	doc := Document{}
	if len(body) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("error parsing response for path %s: %w", path, err)
	}
	return doc, nil
}

func (c *client) doRequest(ctx context.Context, method string, path string, body interface{}) ([]byte, error) {
	request := c.httpClient.R().SetContext(ctx)
	if body != nil {
		request.SetBody(body)
	}
	resp, err := request.Execute(method, path)
	if err != nil {
		requestsCounter.WithLabelValues(method, "error").Inc()
		return nil, fmt.Errorf("error doing the request: %w", err)
	}
	requestsCounter.WithLabelValues(method, strconv.Itoa(resp.StatusCode())).Inc()

	if resp.StatusCode() >= 300 {
		if resp.StatusCode() == http.StatusUnauthorized {
			// The session expired, next Connect logs in again.
			c.status.Store(disconnected)
		}
		return nil, &ApiError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Body:       string(resp.Body()),
		}
	}

	log.Debug().
		Str("url", resp.Request.URL).
		Str("status", resp.Status()).
		Msg("Response received")
	log.Trace().
		Str("body", string(resp.Body())).
		Msg("Response body")

	return resp.Body(), nil
}
