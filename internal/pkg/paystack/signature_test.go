package paystack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	secret := "sk_test_abc123"
	body := []byte(`{"event":"charge.success","data":{"reference":"lh_ref1"}}`)
	valid := ComputeSignature(secret, body)

	tests := []struct {
		name      string
		secret    string
		body      []byte
		signature string
		want      bool
	}{
		{name: "valid signature", secret: secret, body: body, signature: valid, want: true},
		{name: "empty signature", secret: secret, body: body, signature: "", want: false},
		{name: "tampered body", secret: secret, body: []byte(`{"event":"charge.success"}`), signature: valid, want: false},
		{name: "wrong secret", secret: "sk_test_other", body: body, signature: valid, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifySignature(tt.secret, tt.body, tt.signature))
		})
	}
}

func TestParseWebhookEvent(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"lh_ref1","status":"success","amount":1500000,"currency":"NGN","channel":"card"}}`)

	event, err := ParseWebhookEvent(body)
	require.NoError(t, err)
	assert.Equal(t, EventChargeSuccess, event.Event)

	data, err := event.ChargeData()
	require.NoError(t, err)
	assert.Equal(t, "lh_ref1", data.Reference)
	assert.Equal(t, int64(1500000), data.AmountKobo)
	assert.True(t, data.Success())
	// charge.success without an explicit paid_at gets stamped with now
	require.NotNil(t, data.PaidAt)
	assert.WithinDuration(t, time.Now(), *data.PaidAt, time.Minute)
}

func TestParseWebhookEventInvalidJSON(t *testing.T) {
	_, err := ParseWebhookEvent([]byte(`{not json`))
	assert.Error(t, err)
}
