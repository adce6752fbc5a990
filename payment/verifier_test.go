package payment

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewVerifierModeSelection(t *testing.T) {
	v := NewVerifier(Config{})
	shortcut, ok := v.(*chainShortcut)
	if !ok {
		t.Fatalf("expected chainShortcut wrapper, got %T", v)
	}
	if _, ok := shortcut.next.(*MockVerifier); !ok {
		t.Errorf("expected mock mode without credentials, got %T", shortcut.next)
	}

	v = NewVerifier(Config{SecretKey: "sk", FacilitatorURL: "https://example.com"})
	shortcut = v.(*chainShortcut)
	if _, ok := shortcut.next.(*FacilitatorVerifier); !ok {
		t.Errorf("expected facilitator mode with credentials, got %T", shortcut.next)
	}
}

func TestChainShortcutBypass(t *testing.T) {
	v := NewVerifier(Config{})

	// Succeeds regardless of expected amount.
	for _, amount := range []int64{0, 1, 1_000_000} {
		result, err := v.Verify(context.Background(), Request{
			PaymentData:    ProofChainVerified,
			ExpectedAmount: big.NewInt(amount),
			ContentID:      "1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Success {
			t.Error("chain-verified proof must succeed")
		}
		if result.TransactionHash != TxChainVerified {
			t.Errorf("expected %q, got %q", TxChainVerified, result.TransactionHash)
		}
	}
}

func TestMockVerifier(t *testing.T) {
	v := &MockVerifier{}
	ctx := context.Background()

	result, err := v.Verify(ctx, Request{PaymentData: ProofMockSuccess})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Error("mock sentinel must succeed")
	}
	if !strings.HasPrefix(result.TransactionHash, "0x") || len(result.TransactionHash) != 66 {
		t.Errorf("expected synthesized hash, got %q", result.TransactionHash)
	}

	// Transaction hashes are echoed back.
	result, err = v.Verify(ctx, Request{PaymentData: "0xabc123"})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.TransactionHash != "0xabc123" {
		t.Errorf("expected echoed hash, got %+v", result)
	}

	// Everything else fails with a non-empty error, never a Go error.
	result, err = v.Verify(ctx, Request{PaymentData: "not-a-valid-proof"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Success {
		t.Error("invalid proof must fail")
	}
	if result.Error != "Invalid payment data in mock mode" {
		t.Errorf("unexpected error message: %q", result.Error)
	}
}

func TestFacilitatorVerifierSettles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/settle" {
			t.Errorf("expected path /settle, got %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", auth)
		}

		var req SettleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode settle request: %v", err)
		}
		if req.Method != "GET" {
			t.Errorf("expected method GET, got %s", req.Method)
		}
		if req.ResourceURL != "http://api.test/content/abc" {
			t.Errorf("unexpected resource %q", req.ResourceURL)
		}
		if req.Price != "$0.1000" {
			t.Errorf("expected display price $0.1000, got %q", req.Price)
		}
		if req.PayTo != "0xpayee" || req.Network != "monad-testnet" {
			t.Errorf("unexpected payee/network: %+v", req)
		}

		json.NewEncoder(w).Encode(SettleResponse{
			Status:         200,
			PaymentReceipt: &PaymentReceipt{Transaction: "0xsettled"},
		})
	}))
	defer server.Close()

	v := &FacilitatorVerifier{
		Client:  NewSettleClient(server.URL, "sk-test", time.Second),
		PayTo:   "0xpayee",
		Network: "monad-testnet",
	}

	amount, _ := new(big.Int).SetString("10000000000000000", 10) // 0.01 token
	result, err := v.Verify(context.Background(), Request{
		PaymentData:    "proof-token",
		ExpectedAmount: amount,
		ContentID:      "1",
		ResourceURL:    "http://api.test/content/abc",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.TransactionHash != "0xsettled" {
		t.Errorf("expected settled result, got %+v", result)
	}
}

func TestFacilitatorVerifierRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(SettleResponse{Status: 402})
	}))
	defer server.Close()

	v := &FacilitatorVerifier{Client: NewSettleClient(server.URL, "sk", time.Second)}
	result, err := v.Verify(context.Background(), Request{
		PaymentData:    "proof",
		ExpectedAmount: big.NewInt(1),
	})
	if err != nil {
		t.Fatalf("rejection must not be a Go error: %v", err)
	}
	if result.Success {
		t.Error("expected rejection")
	}
	if result.Error != "Payment failed with status 402" {
		t.Errorf("unexpected error message: %q", result.Error)
	}
}

func TestFacilitatorVerifierInfrastructureFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	v := &FacilitatorVerifier{Client: NewSettleClient(server.URL, "sk", time.Second)}
	result, err := v.Verify(context.Background(), Request{
		PaymentData:    "proof",
		ExpectedAmount: big.NewInt(1),
	})
	if err == nil {
		t.Fatal("expected an infrastructure fault")
	}
	if result != nil {
		t.Errorf("expected nil result on fault, got %+v", result)
	}
}

func TestFacilitatorVerifierTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	v := &FacilitatorVerifier{Client: NewSettleClient(server.URL, "sk", time.Second)}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := v.Verify(ctx, Request{PaymentData: "proof", ExpectedAmount: big.NewInt(1)})
	if err == nil {
		t.Fatal("expected timeout to surface as an error")
	}
}

func TestWeiToUSD(t *testing.T) {
	tests := []struct {
		wei  string
		want string
	}{
		{"10000000000000000", "$0.1000"},  // 0.01 token
		{"1000000000000000000", "$10.0000"}, // 1 token
		{"5000000000000000", "$0.0500"},
		{"0", "$0.0000"},
	}
	for _, tt := range tests {
		wei, _ := new(big.Int).SetString(tt.wei, 10)
		if got := WeiToUSD(wei); got != tt.want {
			t.Errorf("WeiToUSD(%s) = %q, want %q", tt.wei, got, tt.want)
		}
	}
}
