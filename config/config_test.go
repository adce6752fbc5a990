package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 3001 {
		t.Errorf("expected default port 3001, got %d", cfg.Port)
	}
	if cfg.Network != "monad-testnet" || cfg.ChainID != "10143" {
		t.Errorf("unexpected network defaults: %s / %s", cfg.Network, cfg.ChainID)
	}
	if cfg.BackendURL != "http://localhost:3001" {
		t.Errorf("expected derived backend URL, got %s", cfg.BackendURL)
	}
	if cfg.FacilitatorEnabled() {
		t.Error("facilitator must be disabled without a secret key")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("FACILITATOR_SECRET_KEY", "sk-test")
	t.Setenv("CONTRACT_ADDRESS", "0x00000000000000000000000000000000000000aa")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.BackendURL != "http://localhost:8080" {
		t.Errorf("expected derived backend URL, got %s", cfg.BackendURL)
	}
	if !cfg.FacilitatorEnabled() {
		t.Error("facilitator must be enabled with a secret key")
	}
	if !cfg.ChainConfigured() {
		t.Error("chain reader must be configured with rpc + contract")
	}
}
