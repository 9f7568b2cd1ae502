package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_GATEWAY_ADDR points the suite at an already running gateway.
	// Empty means boot the whole portal in-process on ephemeral ports.
	GatewayAddr string `envconfig:"E2E_GATEWAY_ADDR"`
	// E2E_DEBUG_JSON dumps full request/response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
