// Package server exposes the marketplace over HTTP.
package server

import (
	"context"
	"log/slog"

	"github.com/cyrus0315/payperinsight/config"
	"github.com/cyrus0315/payperinsight/content"
	"github.com/cyrus0315/payperinsight/ledger"
	"github.com/cyrus0315/payperinsight/payment"
	"github.com/cyrus0315/payperinsight/unlock"
)

// Header names consumed by the API.
const (
	HeaderPayment       = "X-Payment"
	HeaderWalletAddress = "X-Wallet-Address"
)

// ChainReader is the optional on-chain read oracle consulted by the
// check-unlock endpoint. Nil when no RPC endpoint is configured.
type ChainReader interface {
	HasUnlocked(ctx context.Context, contentID int64, user string) (bool, error)
}

// Server bundles the handlers' dependencies.
type Server struct {
	cfg      *config.Config
	store    *content.Store
	ledger   *ledger.Ledger
	gate     *unlock.Gate
	verifier payment.Verifier
	chain    ChainReader
	log      *slog.Logger
}

// New wires a server. chain may be nil.
func New(cfg *config.Config, store *content.Store, l *ledger.Ledger, gate *unlock.Gate, verifier payment.Verifier, chain ChainReader, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		store:    store,
		ledger:   l,
		gate:     gate,
		verifier: verifier,
		chain:    chain,
		log:      log,
	}
}
