package payout

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"blockevent/internal/status"
	"blockevent/utils"
)

// Client talks to the payout backend over HTTP. Requests are signed
// with HMAC-SHA256 over the body and routed through a circuit breaker
// so a struggling backend does not stall settlement handlers.
type Client struct {
	baseURL string
	hmacKey string

	hc *http.Client
	cb *utils.CircuitBreaker
}

func NewClient(baseURL, hmacKey string) *Client {
	return &Client{
		baseURL: baseURL,
		hmacKey: hmacKey,
		hc: &http.Client{
			Timeout: 10 * time.Second,
		},
		cb: utils.NewCircuitBreaker("payout"),
	}
}

func (c *Client) Transfer(ctx context.Context, req *TransferRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("payout: marshal transfer: %w", err)
	}

	_, err = c.cb.Execute(ctx, func() (interface{}, error) {
		return nil, c.send(ctx, body)
	})
	if err != nil {
		if utils.IsCircuitOpen(err) {
			return fmt.Errorf("%w: %v", status.ErrPayoutUnavailable, err)
		}
		return err
	}
	return nil
}

func (c *Client) send(ctx context.Context, body []byte) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transfers", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("payout: http.NewRequestWithContext: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Signature", Sign(body, []byte(c.hmacKey)))

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("payout: http.Client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		rbody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, body %s", status.ErrFailedPayout, resp.StatusCode, rbody)
	}
	return nil
}

func (c *Client) Close(ctx context.Context) error {
	c.hc.CloseIdleConnections()
	return nil
}

// Sign computes the hex HMAC-SHA256 signature carried in X-Signature.
func Sign(body, key []byte) string {
	h := hmac.New(sha256.New, key)
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Verify checks a received signature against the body.
func Verify(body []byte, key []byte, received string) bool {
	expected := Sign(body, key)
	return hmac.Equal([]byte(received), []byte(expected))
}

// LogGateway is the development fallback when no payout backend is
// configured: transfers are logged and dropped.
type LogGateway struct {
	Logger *slog.Logger
}

func (g *LogGateway) Transfer(_ context.Context, req *TransferRequest) error {
	g.Logger.Info("payout transfer (dev, dropped)",
		"account", req.Account,
		"amount", req.Amount.String(),
		"reference", req.Reference,
	)
	return nil
}

func (g *LogGateway) Close(context.Context) error { return nil }
