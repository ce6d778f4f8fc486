package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		SecretKey:   "sk_test_abc123",
		BaseURL:     server.URL,
		CallbackURL: "http://localhost:8080/callback",
	}, zerolog.Nop())
}

func TestClientInitialize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc123", r.Header.Get("Authorization"))

		var req InitializeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada@learnhub.ng", req.Email)
		assert.Equal(t, int64(1500000), req.AmountKobo)
		assert.Equal(t, "NGN", req.Currency)
		assert.Equal(t, "http://localhost:8080/callback", req.CallbackURL)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]string{
				"authorization_url": "https://checkout.paystack.com/abc",
				"access_code":       "abc",
				"reference":         req.Reference,
			},
		})
	})

	data, err := client.Initialize(context.Background(), &InitializeRequest{
		Email:      "ada@learnhub.ng",
		AmountKobo: 1500000,
		Reference:  "lh_ref1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", data.AuthorizationURL)
	assert.Equal(t, "lh_ref1", data.Reference)
}

func TestClientVerify(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/lh_ref1", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]interface{}{
				"id":        12345,
				"status":    "success",
				"reference": "lh_ref1",
				"amount":    1500000,
				"currency":  "NGN",
				"channel":   "card",
			},
		})
	})

	data, err := client.Verify(context.Background(), "lh_ref1")
	require.NoError(t, err)
	assert.True(t, data.Success())
	assert.Equal(t, int64(1500000), data.AmountKobo)
	assert.Equal(t, "card", data.Channel)
}

func TestClientVerifyNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Transaction reference not found",
		})
	})

	_, err := client.Verify(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestClientErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  false,
			"message": "Invalid amount",
		})
	})

	_, err := client.Initialize(context.Background(), &InitializeRequest{
		Email:      "ada@learnhub.ng",
		AmountKobo: -1,
		Reference:  "lh_bad",
	})
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "Invalid amount")
}
