// Package unlock orchestrates the x402 payment-required protocol: price the
// content, challenge the caller, verify the proof, then release the body and
// record the unlock.
package unlock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"

	"github.com/cyrus0315/payperinsight/content"
	"github.com/cyrus0315/payperinsight/ledger"
	"github.com/cyrus0315/payperinsight/payment"
	"github.com/cyrus0315/payperinsight/pricing"
)

// ErrVerification marks infrastructure faults in the verification path
// (settlement oracle unreachable, timeout). Distinct from a rejected proof:
// the client's remedy is to retry later, not to obtain a new proof.
var ErrVerification = errors.New("payment verification unavailable")

// Challenge is the 402 response body. Field names follow the x402 header
// conventions so browser clients can drive a wallet flow from it.
type Challenge struct {
	StatusCode      int    `json:"statusCode"`
	Message         string `json:"message"`
	Price           string `json:"price"`
	PriceUSD        string `json:"priceUsd,omitempty"`
	ContentID       int64  `json:"contentId,omitempty"`
	PayTo           string `json:"payTo,omitempty"`
	PaymentRequired bool   `json:"x-payment-required"`
	Network         string `json:"x-payment-network,omitempty"`
	ChainID         string `json:"x-payment-chain-id,omitempty"`
}

// PaymentRequiredError carries a Challenge through the error path. Always
// recoverable by resubmitting with a valid proof.
type PaymentRequiredError struct {
	Challenge Challenge
}

func (e *PaymentRequiredError) Error() string {
	return e.Challenge.Message
}

// Request is one content-fetch attempt. WalletAddress is optional; payment
// is the gate, not identity.
type Request struct {
	ID            string
	PaymentData   string
	WalletAddress string
}

// Result is the unlocked content plus settlement details. CurrentPrice is
// the post-increment price, informational only; the charged amount was the
// pre-increment price.
type Result struct {
	content.Item
	CurrentPrice    string `json:"currentPrice"`
	TransactionHash string `json:"transactionHash"`
	Unlocked        bool   `json:"unlocked"`
}

// Config carries the payee and network identity advertised in challenges.
type Config struct {
	PayTo   string
	Network string
	ChainID string
	// BaseURL is the canonical resource root the settlement oracle binds
	// proofs against, e.g. "http://localhost:3001".
	BaseURL string
}

// Gate is the protocol state machine. Stateless across requests: state is
// reconstructed per request from the proof header and the store's and
// ledger's current knowledge.
type Gate struct {
	store    *content.Store
	ledger   *ledger.Ledger
	verifier payment.Verifier
	cfg      Config
	log      *slog.Logger
}

// NewGate wires the gate.
func NewGate(store *content.Store, l *ledger.Ledger, verifier payment.Verifier, cfg Config, log *slog.Logger) *Gate {
	if log == nil {
		log = slog.Default()
	}
	return &Gate{
		store:    store,
		ledger:   l,
		verifier: verifier,
		cfg:      cfg,
		log:      log,
	}
}

// CurrentPrice derives the live price for an item. The price is never
// stored; it is always recomputed from basePrice and unlockCount so the two
// cannot drift.
func CurrentPrice(item content.Item) (*big.Int, error) {
	base, ok := new(big.Int).SetString(item.BasePrice, 10)
	if !ok || base.Sign() < 0 {
		return nil, fmt.Errorf("content %d has malformed base price %q", item.ContentID, item.BasePrice)
	}
	return pricing.Compute(base, item.UnlockCount), nil
}

// ResourceURL is the canonical identity the proof must bind to.
func (g *Gate) ResourceURL(id string) string {
	return g.cfg.BaseURL + "/api/content/" + id
}

// Unlock runs the protocol for one request.
//
// Without a proof it returns a *PaymentRequiredError carrying the current
// price. With a proof it verifies against the freshly computed price (never
// one cached from an earlier challenge), and on success increments the
// unlock counter, records the ledger entry and releases the body.
func (g *Gate) Unlock(ctx context.Context, req Request) (*Result, error) {
	item, err := g.store.GetByID(req.ID)
	if err != nil {
		return nil, err
	}

	currentPrice, err := CurrentPrice(item)
	if err != nil {
		return nil, err
	}

	if req.PaymentData == "" {
		g.log.Info("payment required",
			"contentId", item.ContentID,
			"price", currentPrice.String())
		return nil, &PaymentRequiredError{
			Challenge: g.challenge(item, currentPrice, "Payment required to access this content"),
		}
	}

	result, err := g.verifier.Verify(ctx, payment.Request{
		PaymentData:    req.PaymentData,
		ExpectedAmount: currentPrice,
		ContentID:      strconv.FormatInt(item.ContentID, 10),
		ResourceURL:    g.ResourceURL(item.ID),
	})
	if err != nil {
		g.log.Error("verification infrastructure fault",
			"contentId", item.ContentID,
			"err", err)
		return nil, fmt.Errorf("%w: %v", ErrVerification, err)
	}

	if !result.Success {
		message := result.Error
		if message == "" {
			message = "Payment verification failed"
		}
		g.log.Warn("payment rejected",
			"contentId", item.ContentID,
			"reason", message)
		return nil, &PaymentRequiredError{
			Challenge: g.challenge(item, currentPrice, message),
		}
	}

	// Side-effect order matters: the counter increment happens before the
	// ledger write, and the charged price is the pre-increment one. The
	// increase applies to the next unlock.
	newCount, err := g.store.IncrementUnlockCount(item.ID)
	if err != nil {
		return nil, err
	}

	updated, err := g.store.GetByID(item.ID)
	if err != nil {
		return nil, err
	}
	newPrice, err := CurrentPrice(updated)
	if err != nil {
		return nil, err
	}

	transactionHash := result.TransactionHash
	if transactionHash == "" {
		transactionHash = req.PaymentData
	}

	if req.WalletAddress != "" {
		g.ledger.RecordUnlock(
			req.WalletAddress,
			strconv.FormatInt(item.ContentID, 10),
			transactionHash,
			currentPrice,
			"",
		)
	}

	g.log.Info("content unlocked",
		"contentId", item.ContentID,
		"unlockCount", newCount,
		"chargedPrice", currentPrice.String(),
		"nextPrice", newPrice.String(),
		"tx", transactionHash)

	return &Result{
		Item:            updated,
		CurrentPrice:    newPrice.String(),
		TransactionHash: transactionHash,
		Unlocked:        true,
	}, nil
}

func (g *Gate) challenge(item content.Item, price *big.Int, message string) Challenge {
	payTo := g.cfg.PayTo
	if payTo == "" {
		payTo = item.Creator
	}
	return Challenge{
		StatusCode:      402,
		Message:         message,
		Price:           price.String(),
		PriceUSD:        item.PriceUSD,
		ContentID:       item.ContentID,
		PayTo:           payTo,
		PaymentRequired: true,
		Network:         g.cfg.Network,
		ChainID:         g.cfg.ChainID,
	}
}
