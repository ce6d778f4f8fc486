package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"time"
)

// SignatureHeader is the header Paystack signs webhook deliveries with
const SignatureHeader = "x-paystack-signature"

// ComputeSignature returns the hex HMAC-SHA512 of body under the secret key.
func ComputeSignature(secretKey string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature in constant time.
func VerifySignature(secretKey string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := ComputeSignature(secretKey, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookEvent is the envelope Paystack posts to the webhook endpoint
type WebhookEvent struct {
	Event string          `json:"event"` // e.g. "charge.success"
	Data  json.RawMessage `json:"data"`
}

// EventChargeSuccess is the event emitted when a charge settles
const EventChargeSuccess = "charge.success"

// ParseWebhookEvent decodes a webhook body into its envelope.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// ChargeData decodes the event payload as transaction data.
func (e *WebhookEvent) ChargeData() (*TransactionData, error) {
	var data TransactionData
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return nil, err
	}
	if data.PaidAt == nil && e.Event == EventChargeSuccess {
		now := time.Now()
		data.PaidAt = &now
	}
	return &data, nil
}
