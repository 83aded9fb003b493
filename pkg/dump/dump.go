// Package dump saves the raw documents of the multiMATIC API to JSON files,
// with the serial number of the installation redacted. The files are used to
// report issues and as test fixtures.
package dump

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

const (
	SerialPlaceholder string = "SERIAL_NUMBER"
	DefaultOutDir     string = "./dump_result"

	maxParallelRequests = 4
)

// Endpoints lists the documents saved by Dump, in file name order.
var Endpoints = []string{
	multimatic.EndpointEmfReport,
	multimatic.EndpointGatewayType,
	multimatic.EndpointHvac,
	multimatic.EndpointLiveReport,
	multimatic.EndpointPhotovoltaics,
	multimatic.EndpointRooms,
	multimatic.EndpointSystem,
}

type response struct {
	name     string
	document multimatic.Document
}

// Dump fetches every endpoint and writes <outDir>/<endpoint>.json. The output
// directory is emptied first. Endpoints failing to answer are logged and
// skipped. It returns the written files.
func Dump(ctx context.Context, client multimatic.Client, outDir string) ([]string, error) {
	if !client.IsConnected() {
		if err := client.Connect(ctx); err != nil {
			return nil, fmt.Errorf("error logging in: %w", err)
		}
	}
	serial := client.SerialNumber()
	if serial == "" {
		return nil, fmt.Errorf("no facility found for this account")
	}

	if err := os.RemoveAll(outDir); err != nil {
		return nil, fmt.Errorf("error cleaning %s: %w", outDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating %s: %w", outDir, err)
	}

	p := pool.NewWithResults[response]().
		WithContext(ctx).
		WithMaxGoroutines(maxParallelRequests)
	for _, name := range Endpoints {
		p.Go(func(ctx context.Context) (response, error) {
			log.Debug().Str("endpoint", name).Msg("Requesting endpoint.")
			document, err := client.GetEndpoint(ctx, name)
			if err != nil {
				log.Warn().Err(err).Str("endpoint", name).Msg("Cannot get response, skipping it.")
				return response{}, err
			}
			return response{name: name, document: document}, nil
		})
	}
	// Failed endpoints are already logged, only the answered ones are kept.
	responses, _ := p.Wait()
	log.Info().Int("requests", len(Endpoints)).Int("responses", len(responses)).Msg("Endpoints fetched.")
	sort.Slice(responses, func(i, j int) bool {
		return responses[i].name < responses[j].name
	})

	files := []string{}
	for _, r := range responses {
		file := filepath.Join(outDir, r.name+".json")
		if err := write(file, r.document, serial); err != nil {
			log.Error().Err(err).Str("file", file).Msg("Cannot write file.")
			continue
		}
		files = append(files, file)
	}
	return files, nil
}

// write saves the document indented, every occurrence of the serial number
// replaced by SerialPlaceholder.
func write(file string, document multimatic.Document, serial string) error {
	raw, err := json.Marshal(document)
	if err != nil {
		return err
	}
	redacted := strings.ReplaceAll(string(raw), serial, SerialPlaceholder)

	var value interface{}
	if err := json.Unmarshal([]byte(redacted), &value); err != nil {
		return err
	}
	content, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, content, 0o644)
}
