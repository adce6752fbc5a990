package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultSettleTimeout bounds a single settle call when no timeout is
// configured.
const DefaultSettleTimeout = 30 * time.Second

// SettleRequest is the body sent to the facilitator's settle endpoint. The
// resource URL binds the proof to this exact resource; the oracle rejects
// mismatches.
type SettleRequest struct {
	ResourceURL string `json:"resourceUrl"`
	Method      string `json:"method"`
	PaymentData string `json:"paymentData"`
	Price       string `json:"price"`
	PayTo       string `json:"payTo"`
	Network     string `json:"network"`
}

// SettleResponse is the oracle's settlement receipt. Status carries the
// oracle's own accept/reject decision; a 200 means the payment settled.
type SettleResponse struct {
	Status         int             `json:"status"`
	PaymentReceipt *PaymentReceipt `json:"paymentReceipt,omitempty"`
	ErrorReason    string          `json:"errorReason,omitempty"`
}

// PaymentReceipt holds the settled transaction reference.
type PaymentReceipt struct {
	Transaction string `json:"transaction"`
}

// SettleClient talks to the remote settlement facilitator over HTTP.
type SettleClient struct {
	url        string
	secretKey  string
	httpClient *http.Client
}

// NewSettleClient creates a client for the facilitator at url. Calls are
// bearer-authenticated with secretKey and bounded by timeout.
func NewSettleClient(url, secretKey string, timeout time.Duration) *SettleClient {
	if timeout == 0 {
		timeout = DefaultSettleTimeout
	}
	return &SettleClient{
		url:       url,
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Settle submits the payment for settlement. Transport failures and
// non-JSON responses come back as errors; the oracle's accept/reject
// decision is carried in the response status field. Never retried here:
// resubmitting a settle call risks double-settlement, so retries are the
// caller's explicit decision.
func (c *SettleClient) Settle(ctx context.Context, settleReq SettleRequest) (*SettleResponse, error) {
	body, err := json.Marshal(settleReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settle request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/settle", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create settle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("settle request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read settle response: %w", err)
	}

	var settleResp SettleResponse
	if err := json.Unmarshal(responseBody, &settleResp); err != nil {
		return nil, fmt.Errorf("facilitator settle failed (%d): %s", resp.StatusCode, string(responseBody))
	}
	if settleResp.Status == 0 {
		settleResp.Status = resp.StatusCode
	}

	return &settleResp, nil
}
