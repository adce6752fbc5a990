// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration. Facilitator credentials are
// optional: without a secret key, payment verification runs in mock mode.
type Config struct {
	Port        int    `envconfig:"PORT" default:"3001"`
	BackendURL  string `envconfig:"BACKEND_URL"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`

	RecipientWallet string `envconfig:"RECIPIENT_WALLET"`
	Network         string `envconfig:"NETWORK" default:"monad-testnet"`
	ChainID         string `envconfig:"CHAIN_ID" default:"10143"`

	FacilitatorURL       string        `envconfig:"FACILITATOR_URL"`
	FacilitatorSecretKey string        `envconfig:"FACILITATOR_SECRET_KEY"`
	SettleTimeout        time.Duration `envconfig:"SETTLE_TIMEOUT" default:"30s"`

	RPCURL          string `envconfig:"RPC_URL" default:"https://testnet-rpc.monad.xyz"`
	ContractAddress string `envconfig:"CONTRACT_ADDRESS"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
	}
	return &cfg, nil
}

// FacilitatorEnabled reports whether real settlement is configured.
func (c *Config) FacilitatorEnabled() bool {
	return c.FacilitatorSecretKey != ""
}

// ChainConfigured reports whether the on-chain read oracle can be dialed.
func (c *Config) ChainConfigured() bool {
	return c.RPCURL != "" && c.ContractAddress != ""
}
