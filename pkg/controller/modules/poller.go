package modules

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/mqtt"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic"
	"github.com/rs/zerolog/log"
)

const requestTimeout = 30 * time.Second

// poller calls refresh at start then every interval until stopped. Refreshes
// never overlap.
type poller struct {
	name     string
	interval time.Duration
	client   multimatic.Client
	refresh  func(ctx context.Context) error

	refreshing sync.Mutex
	ticker     *time.Ticker
	tickerDone chan struct{}
}

func (p *poller) Start() error {
	// First refresh is synchronous so that the entities are known when the
	// discovery messages are built.
	p.Refresh()

	p.ticker = time.NewTicker(p.interval)
	p.tickerDone = make(chan struct{})

	go func() {
		for {
			select {
			case <-p.tickerDone:
				return
			case <-p.ticker.C:
				p.Refresh()
			}
		}
	}()
	return nil
}

func (p *poller) Stop() error {
	if p.ticker == nil {
		return nil
	}
	p.ticker.Stop()
	p.tickerDone <- struct{}{}
	p.ticker = nil
	return nil
}

func (p *poller) Refresh() {
	p.refreshing.Lock()
	defer p.refreshing.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if !p.client.IsConnected() {
		log.Info().Str("module", p.name).Msg("Session lost, logging in again.")
		if err := p.client.Connect(ctx); err != nil {
			log.Error().Err(err).Str("module", p.name).Msg("Error logging in to multiMATIC API.")
			return
		}
	}
	log.Debug().Str("module", p.name).Msg("Refreshing values.")
	if err := p.refresh(ctx); err != nil {
		log.Error().Err(err).Str("module", p.name).Msg("Error refreshing values.")
	}
}

type attribute struct {
	name  string
	value interface{}
}

// publishAttributes publishes every attribute of the item, carrying on after
// a failure.
func publishAttributes(mqttClient mqtt.Client, item string, attributes []attribute) error {
	var errs []error
	for _, a := range attributes {
		if err := mqttClient.PublishState(item, a.name, a.value); err != nil {
			log.Error().
				Err(err).
				Str("item", item).
				Str("attribute", a.name).
				Msg("Error publishing value")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
