// Command server runs the PayPerInsight marketplace backend.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cyrus0315/payperinsight/chain"
	"github.com/cyrus0315/payperinsight/config"
	"github.com/cyrus0315/payperinsight/content"
	"github.com/cyrus0315/payperinsight/ledger"
	"github.com/cyrus0315/payperinsight/payment"
	"github.com/cyrus0315/payperinsight/server"
	"github.com/cyrus0315/payperinsight/unlock"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	store := content.NewStore()
	store.Seed()
	l := ledger.New()

	verifier := payment.NewVerifier(payment.Config{
		FacilitatorURL: cfg.FacilitatorURL,
		SecretKey:      cfg.FacilitatorSecretKey,
		PayTo:          cfg.RecipientWallet,
		Network:        cfg.Network,
		Timeout:        cfg.SettleTimeout,
	})
	if cfg.FacilitatorEnabled() {
		log.Info("payment verification enabled", "facilitator", cfg.FacilitatorURL)
	} else {
		log.Warn("no facilitator secret key set, payment verification running in mock mode")
	}

	gate := unlock.NewGate(store, l, verifier, unlock.Config{
		PayTo:   cfg.RecipientWallet,
		Network: cfg.Network,
		ChainID: cfg.ChainID,
		BaseURL: cfg.BackendURL,
	}, log)

	var reader server.ChainReader
	if cfg.ChainConfigured() {
		r, err := chain.Dial(cfg.RPCURL, cfg.ContractAddress)
		if err != nil {
			log.Warn("chain reader unavailable, unlock checks fall back to the ledger", "err", err)
		} else {
			reader = r
			log.Info("chain reader connected", "rpc", cfg.RPCURL, "contract", cfg.ContractAddress)
		}
	}

	srv := server.New(cfg, store, l, gate, verifier, reader, log)
	router := srv.Router()

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Info("payperinsight backend listening", "addr", addr, "network", cfg.Network)
	if err := router.Run(addr); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}
