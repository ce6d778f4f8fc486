package dto

import (
	"time"

	"github.com/tobi/learnhub/internal/app/models"
)

// InitializePaymentRequest represents a request to start a Paystack transaction
type InitializePaymentRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
}

// InitializePaymentResponse carries the Paystack checkout redirect data
type InitializePaymentResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorizationUrl"`
	AccessCode       string `json:"accessCode"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          int64      `json:"id"`
	Reference   string     `json:"reference"`
	UserID      int64      `json:"userId"`
	CourseID    int64      `json:"courseId"`
	AmountKobo  int64      `json:"amountKobo"`
	Currency    string     `json:"currency"`
	Status      string     `json:"status"`
	Channel     string     `json:"channel,omitempty"`
	CourseTitle string     `json:"courseTitle,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FromPayment converts a models.Payment to a PaymentResponse
func FromPayment(payment *models.Payment) PaymentResponse {
	if payment == nil {
		return PaymentResponse{}
	}

	resp := PaymentResponse{
		ID:         payment.ID,
		Reference:  payment.Reference,
		UserID:     payment.UserID,
		CourseID:   payment.CourseID,
		AmountKobo: payment.AmountKobo,
		Currency:   payment.Currency,
		Status:     string(payment.Status),
		Channel:    payment.Channel,
		PaidAt:     payment.PaidAt,
		CreatedAt:  payment.CreatedAt,
	}
	if payment.Course != nil {
		resp.CourseTitle = payment.Course.Title
	}
	return resp
}

// PaymentListResponse represents a paginated list of payments
type PaymentListResponse struct {
	Payments   []PaymentResponse `json:"payments"`
	Pagination PaginationInfo    `json:"pagination"`
}

// VerifyPaymentResponse represents the outcome of a verify call
type VerifyPaymentResponse struct {
	Payment      PaymentResponse       `json:"payment"`
	Registration *RegistrationResponse `json:"registration,omitempty"`
}
