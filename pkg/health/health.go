package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/config"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mqtt"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic"
	"github.com/rs/zerolog/log"

	"github.com/go-chi/chi/v5"
	healthgo "github.com/hellofresh/health-go/v5"
)

type Health interface {
	Start() error
	Stop() error
}

type health struct {
	config     config.HealthCheckConfig
	mqttClient mqtt.Client
	mmClient   multimatic.Client
	health     *healthgo.Health

	server        *http.Server
	serverCtx     context.Context
	serverStopCtx context.CancelFunc
}

func NewHealth(config config.HealthCheckConfig, mqttClient mqtt.Client, mmClient multimatic.Client) (Health, error) {
	h, err := healthgo.New(healthgo.WithComponent(healthgo.Component{
		Name:    "multimatic-mqtt",
		Version: "v1.0",
	}))
	if err != nil {
		return nil, fmt.Errorf("error creating health check: %w", err)
	}

	err = h.Register(healthgo.Config{
		Name:      "mqtt",
		Timeout:   time.Second * 2,
		SkipOnErr: false,
		Check: func(ctx context.Context) error {
			if mqttClient.RawClient().IsConnectionOpen() {
				log.Trace().Msg("MQTT client is connected")
				return nil
			}
			return errors.New("MQTT client is not connected")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to register MQTT healthcheck: %w", err)
	}

	// A lost session is renewed on the next poll, it only degrades the
	// status.
	err = h.Register(healthgo.Config{
		Name:      "multimatic",
		Timeout:   time.Second * 2,
		SkipOnErr: true,
		Check: func(ctx context.Context) error {
			if mmClient.IsConnected() {
				return nil
			}
			return errors.New("multiMATIC session is not open")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to register multiMATIC healthcheck: %w", err)
	}

	return &health{
		config:     config,
		mqttClient: mqttClient,
		mmClient:   mmClient,
		health:     h,
	}, nil
}

func (h *health) Start() error {
	listenAddr := fmt.Sprintf("0.0.0.0:%d", h.config.Port)
	h.server = &http.Server{Addr: listenAddr, Handler: h.service()}
	h.serverCtx, h.serverStopCtx = context.WithCancel(context.Background())
	go func() {
		log.Info().Msgf("Starting health check server on %s", listenAddr)
		err := h.server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Unable to start health check server")
		}
	}()
	return nil
}

func (h *health) Stop() error {
	shutdownCtx, cancel := context.WithTimeout(h.serverCtx, 30*time.Second)
	defer cancel()
	err := h.server.Shutdown(shutdownCtx)
	if err != nil {
		return err
	}
	h.serverStopCtx()
	log.Info().Msg("Health check server stopped")
	return nil
}

func (h *health) service() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", h.health.HandlerFunc)
	r.Get("/health/ready", h.health.HandlerFunc)
	r.Get("/health/live", h.health.HandlerFunc)
	return r
}
