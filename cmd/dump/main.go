// Command dump saves the raw multiMATIC API documents of an account to JSON
// files, with the serial number redacted.
//
//	dump --username me@example.com --password secret --out ./dump_result
//
// Flags can also be given through the MULTIMATIC_USERNAME,
// MULTIMATIC_PASSWORD, MULTIMATIC_BASE_URL and DUMP_OUT environment
// variables.
package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gaetancollaud/multimatic-mqtt/pkg/dump"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	flags := pflag.NewFlagSet("dump", pflag.ExitOnError)
	flags.String("username", "", "multiMATIC account username")
	flags.String("password", "", "multiMATIC account password")
	flags.String("base-url", multimatic.DefaultBaseUrl, "multiMATIC API base URL")
	flags.String("out", dump.DefaultOutDir, "output directory, emptied first")
	flags.Bool("debug", false, "log every request")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("Error parsing flags.")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		log.Fatal().Err(err).Msg("Error binding flags.")
	}
	// Account flags share the environment variables of the bridge.
	for key, env := range map[string]string{
		"username": "MULTIMATIC_USERNAME",
		"password": "MULTIMATIC_PASSWORD",
		"base-url": "MULTIMATIC_BASE_URL",
		"out":      "DUMP_OUT",
	} {
		if err := v.BindEnv(key, env); err != nil {
			log.Fatal().Err(err).Str("flag", key).Msg("Error binding environment variable.")
		}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if v.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	username := v.GetString("username")
	password := v.GetString("password")
	if username == "" || password == "" {
		flags.Usage()
		log.Fatal().Msg("Username and password are required.")
	}

	client := multimatic.NewClient(multimatic.NewClientOptions().
		SetBaseUrl(v.GetString("base-url")).
		SetUsername(username).
		SetPassword(password))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	log.Info().Str("username", username).Msg("Trying to connect.")
	if err := client.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("Cannot login.")
	}
	log.Info().Msg("Login successful.")
	defer func() {
		if err := client.Disconnect(ctx); err != nil {
			log.Warn().Err(err).Msg("Error logging out.")
		}
	}()

	files, err := dump.Dump(ctx, client, v.GetString("out"))
	if err != nil {
		log.Error().Err(err).Msg("Error dumping documents.")
		return
	}
	for _, file := range files {
		log.Info().Str("file", file).Msg("Written.")
	}
}
