package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production Paystack API endpoint
const DefaultBaseURL = "https://api.paystack.co"

// Client errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRequestFailed       = errors.New("paystack request failed")
)

// Config holds Paystack client configuration
type Config struct {
	SecretKey   string
	BaseURL     string // Defaults to DefaultBaseURL; overridable for tests
	CallbackURL string
}

// Client talks to the Paystack transaction API
type Client struct {
	config     Config
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a Paystack API client
func NewClient(config Config, logger zerolog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// InitializeRequest is the payload for transaction/initialize
type InitializeRequest struct {
	Email       string `json:"email"`
	AmountKobo  int64  `json:"amount"` // minor currency unit
	Reference   string `json:"reference"`
	Currency    string `json:"currency,omitempty"`
	CallbackURL string `json:"callback_url,omitempty"`
}

// InitializeData is the data section of an initialize response
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// TransactionData is the data section of a verify response or webhook event
type TransactionData struct {
	ID         int64      `json:"id"`
	Status     string     `json:"status"` // "success", "failed", "abandoned"
	Reference  string     `json:"reference"`
	AmountKobo int64      `json:"amount"`
	Currency   string     `json:"currency"`
	Channel    string     `json:"channel"`
	PaidAt     *time.Time `json:"paid_at"`
}

// Success reports whether the transaction settled successfully.
func (d *TransactionData) Success() bool {
	return d.Status == "success"
}

// apiEnvelope is the common Paystack response wrapper
type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize starts a transaction and returns the checkout redirect data.
func (c *Client) Initialize(ctx context.Context, req *InitializeRequest) (*InitializeData, error) {
	if req.Currency == "" {
		req.Currency = "NGN"
	}
	if req.CallbackURL == "" {
		req.CallbackURL = c.config.CallbackURL
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initialize request: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, "/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var data InitializeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode initialize response: %w", err)
	}

	c.logger.Info().Str("reference", data.Reference).Msg("Paystack transaction initialized")
	return &data, nil
}

// Verify fetches the state of a transaction by reference.
func (c *Client) Verify(ctx context.Context, reference string) (*TransactionData, error) {
	raw, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}

	var data TransactionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}

	return &data, nil
}

// do executes an authenticated request and unwraps the response envelope.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build paystack request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("path", path).Msg("Paystack request error")
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read paystack response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrTransactionNotFound
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode paystack response: %w", err)
	}

	if resp.StatusCode >= 400 || !envelope.Status {
		c.logger.Error().Int("status", resp.StatusCode).Str("message", envelope.Message).Str("path", path).Msg("Paystack returned an error")
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, envelope.Message)
	}

	return envelope.Data, nil
}
