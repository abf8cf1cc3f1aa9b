package payout

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockevent/internal/status"
)

func TestClientTransfer(t *testing.T) {
	var got TransferRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/transfers", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		// The signature must cover the exact body bytes.
		assert.True(t, Verify(body, []byte("test-key"), r.Header.Get("X-Signature")))
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	err := c.Transfer(context.Background(), &TransferRequest{
		Account:   "organizer-1",
		Amount:    decimal.New(195_000, -2),
		Currency:  "EUR",
		Reference: "withdraw-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "organizer-1", got.Account)
	assert.True(t, got.Amount.Equal(decimal.New(195_000, -2)))
}

func TestClientTransferBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "insufficient float", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	err := c.Transfer(context.Background(), &TransferRequest{
		Account: "buyer-1",
		Amount:  decimal.NewFromInt(100),
	})
	assert.ErrorIs(t, err, status.ErrFailedPayout)
}

func TestSignVerify(t *testing.T) {
	body := []byte(`{"account":"a","amount":"1"}`)
	sig := Sign(body, []byte("k"))
	assert.True(t, Verify(body, []byte("k"), sig))
	assert.False(t, Verify(body, []byte("other"), sig))
	assert.False(t, Verify([]byte("tampered"), []byte("k"), sig))
}
