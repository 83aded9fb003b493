package modules

import (
	"github.com/gaetancollaud/multimatic-mqtt/pkg/config"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/mqtt"
	"github.com/gaetancollaud/multimatic-mqtt/pkg/multimatic"
)

// Interface for the different modules being
type Module interface {
	Start() error
	Stop() error
	// Refresh fetches and publishes the values right away, outside of the
	// polling loop.
	Refresh()
}

type ModuleBuilder func(mqtt.Client, multimatic.Client, *config.Config) Module

// Register stores a builder function into the registy for external access.
// Register() can be called from init() on a module in this package and will
// automatically register a module.
func Register(name string, builder ModuleBuilder) {
	Modules[name] = builder
}

var Modules = map[string]ModuleBuilder{}
