package debug

import (
	"net/http"
	"sync"
	"sync/atomic"

	_ "net/http/pprof"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const DefaultAddr string = ":6060"

func StartDebugServer(addr string, wg *sync.WaitGroup) (*http.Server, *atomic.Value) {
	isReady := &atomic.Value{}
	isReady.Store(false)
	srv := &http.Server{Addr: addr, Handler: handler(isReady)}

	go func() {
		defer wg.Done() // Let main know we are done cleaning up

		log.Info().Str("addr", addr).Msg("Starting debug server.")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Error on sidecar server for debugging")
		}
	}()

	return srv, isReady
}

func handler(isReady *atomic.Value) http.Handler {
	mux := http.NewServeMux()
	// API request counters and the gauges of the published values.
	mux.Handle("/metrics", promhttp.Handler())
	// Readines and liveness endpoints.
	mux.HandleFunc("/healthz", healthz)
	mux.HandleFunc("/readyz", readyz(isReady))
	// pprof endpoints are registered on the default mux through the import.
	mux.Handle("/debug/pprof/", http.DefaultServeMux)
	return mux
}

// healthz is a liveness probe.
func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// readyz is a readiness probe.
func readyz(isReady *atomic.Value) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if isReady == nil || !isReady.Load().(bool) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
