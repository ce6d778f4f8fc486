package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobi/learnhub/internal/app/services"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
	"github.com/tobi/learnhub/internal/pkg/paystack"
)

// stubPaymentService implements services.PaymentService for handler tests
type stubPaymentService struct {
	services.PaymentService

	handleWebhookFn func(body []byte, signature string) error
}

func (s *stubPaymentService) HandleWebhook(_ context.Context, body []byte, signature string) error {
	return s.handleWebhookFn(body, signature)
}

func newPaymentTestRouter(svc services.PaymentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewPaymentController(svc, zerolog.Nop())

	router := gin.New()
	router.POST("/payments/webhook", controller.Webhook)
	return router
}

func TestWebhookPassesRawBodyAndSignature(t *testing.T) {
	payload := []byte(`{"event":"charge.success","data":{"reference":"lh_ref1"}}`)

	var gotBody []byte
	var gotSignature string
	svc := &stubPaymentService{
		handleWebhookFn: func(body []byte, signature string) error {
			gotBody = body
			gotSignature = signature
			return nil
		},
	}
	router := newPaymentTestRouter(svc)

	req := httptest.NewRequest("POST", "/payments/webhook", bytes.NewReader(payload))
	req.Header.Set(paystack.SignatureHeader, "sig-value")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payload, gotBody)
	assert.Equal(t, "sig-value", gotSignature)
}

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	svc := &stubPaymentService{
		handleWebhookFn: func(body []byte, signature string) error {
			return apperrors.ErrInvalidSignature
		},
	}
	router := newPaymentTestRouter(svc)

	req := httptest.NewRequest("POST", "/payments/webhook", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
