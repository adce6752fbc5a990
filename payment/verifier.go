// Package payment verifies payment proofs for the unlock gate.
//
// Verification runs in one of a closed set of strategies chosen at
// construction time: mock mode when no facilitator credentials are
// configured, facilitator-settled mode otherwise. The chain-verified
// shortcut applies in front of both.
package payment

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"
)

// Recognized proof sentinels.
const (
	// ProofChainVerified means the caller already proved unlock status
	// through an independent on-chain hasUnlocked read; no payment needs
	// re-verifying.
	ProofChainVerified = "chain-verified"

	// ProofMockSuccess is accepted unconditionally in mock mode.
	ProofMockSuccess = "mock-payment-success"

	// TxChainVerified is the transaction reference reported for
	// chain-verified proofs.
	TxChainVerified = "on-chain-verified"

	txHashPrefix = "0x"
)

// Request carries a proof and the context it must bind to. ExpectedAmount
// is derived server-side from the live price, never trusted from the client.
type Request struct {
	PaymentData    string
	ExpectedAmount *big.Int
	ContentID      string
	ResourceURL    string
}

// Result is the verification outcome. Success implies a transaction
// reference; failure implies a non-empty Error. Business-logic failures
// (invalid proof, rejected settlement) always land here, never as a Go
// error.
type Result struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transactionHash,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Verifier validates a payment proof. A returned error means the
// verification infrastructure itself failed (oracle unreachable, timeout);
// callers map that to a 5xx outcome, distinct from a rejected proof.
type Verifier interface {
	Verify(ctx context.Context, req Request) (*Result, error)
}

// Config selects and parameterizes the verification strategy.
type Config struct {
	// FacilitatorURL is the settlement oracle base URL. Ignored without a
	// SecretKey.
	FacilitatorURL string

	// SecretKey authenticates settle calls. Empty means mock mode.
	SecretKey string

	// PayTo is the payee wallet forwarded to the oracle.
	PayTo string

	// Network is the chain identifier forwarded to the oracle.
	Network string

	// Timeout bounds each oracle call. Zero means DefaultSettleTimeout.
	Timeout time.Duration
}

// Mock reports whether cfg selects mock mode.
func (c Config) Mock() bool { return c.SecretKey == "" }

// NewVerifier builds the verifier for cfg: a mock verifier without
// settlement credentials, a facilitator-settled one otherwise, both behind
// the chain-verified shortcut.
func NewVerifier(cfg Config) Verifier {
	var inner Verifier
	if cfg.Mock() {
		inner = &MockVerifier{}
	} else {
		inner = &FacilitatorVerifier{
			Client:  NewSettleClient(cfg.FacilitatorURL, cfg.SecretKey, cfg.Timeout),
			PayTo:   cfg.PayTo,
			Network: cfg.Network,
		}
	}
	return &chainShortcut{next: inner}
}

// chainShortcut accepts the chain-verified sentinel before dispatching to
// the mode-specific verifier.
type chainShortcut struct {
	next Verifier
}

func (v *chainShortcut) Verify(ctx context.Context, req Request) (*Result, error) {
	if req.PaymentData == ProofChainVerified {
		return &Result{
			Success:         true,
			TransactionHash: TxChainVerified,
		}, nil
	}
	return v.next.Verify(ctx, req)
}

// MockVerifier accepts the mock sentinel and anything shaped like a
// transaction hash. Used in development when no facilitator is configured.
type MockVerifier struct{}

// Verify implements Verifier.
func (v *MockVerifier) Verify(_ context.Context, req Request) (*Result, error) {
	if req.PaymentData == ProofMockSuccess {
		return &Result{
			Success:         true,
			TransactionHash: synthesizeTxHash(),
		}, nil
	}

	// A transaction hash is accepted as proof-of-payment by reference.
	if strings.HasPrefix(req.PaymentData, txHashPrefix) {
		return &Result{
			Success:         true,
			TransactionHash: req.PaymentData,
		}, nil
	}

	return &Result{
		Success: false,
		Error:   "Invalid payment data in mock mode",
	}, nil
}

// synthesizeTxHash builds a 66-char hash-shaped string from the current
// millisecond timestamp.
func synthesizeTxHash() string {
	stamp := fmt.Sprintf("%x", time.Now().UnixMilli())
	return txHashPrefix + stamp + strings.Repeat("0", 64-len(stamp))
}

// FacilitatorVerifier delegates to the settlement oracle. This is the
// single point where the oracle's failures are isolated from the rest of
// the system: a rejected settlement becomes a failed Result, and only
// transport-level faults surface as errors.
type FacilitatorVerifier struct {
	Client  *SettleClient
	PayTo   string
	Network string
}

// Verify implements Verifier.
func (v *FacilitatorVerifier) Verify(ctx context.Context, req Request) (*Result, error) {
	resp, err := v.Client.Settle(ctx, SettleRequest{
		ResourceURL: req.ResourceURL,
		Method:      "GET",
		PaymentData: req.PaymentData,
		Price:       WeiToUSD(req.ExpectedAmount),
		PayTo:       v.PayTo,
		Network:     v.Network,
	})
	if err != nil {
		return nil, fmt.Errorf("settle content %s: %w", req.ContentID, err)
	}

	if resp.Status != 200 {
		reason := resp.ErrorReason
		if reason == "" {
			reason = fmt.Sprintf("Payment failed with status %d", resp.Status)
		}
		return &Result{Success: false, Error: reason}, nil
	}

	var tx string
	if resp.PaymentReceipt != nil {
		tx = resp.PaymentReceipt.Transaction
	}
	return &Result{
		Success:         true,
		TransactionHash: tx,
	}, nil
}

var weiPerToken = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// WeiToUSD formats a wei amount as a display USD string at the fixed
// illustrative rate of $10 per native token. Not an oracle feed.
func WeiToUSD(wei *big.Int) string {
	// 10 USD/token carried to four decimal places.
	scaled := new(big.Int).Mul(wei, big.NewInt(100000))
	scaled.Div(scaled, weiPerToken)

	whole, frac := new(big.Int), new(big.Int)
	whole.DivMod(scaled, big.NewInt(10000), frac)
	return fmt.Sprintf("$%s.%04d", whole, frac)
}
