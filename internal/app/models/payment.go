package models

import (
	"time"
)

// Payment defines a Paystack payment based on the 'payments' table.
// Amounts are stored in the minor currency unit (kobo).
type Payment struct {
	ID         int64         `json:"id" db:"id"`
	Reference  string        `json:"reference" db:"reference" example:"lh_9f3a1c2e"`
	UserID     int64         `json:"userId" db:"user_id"`
	CourseID   int64         `json:"courseId" db:"course_id"`
	AmountKobo int64         `json:"amountKobo" db:"amount_kobo" example:"15000000"`
	Currency   string        `json:"currency" db:"currency" example:"NGN"`
	Status     PaymentStatus `json:"status" db:"status" example:"PENDING"`
	Channel    string        `json:"channel,omitempty" db:"channel" example:"card"`
	PaidAt     *time.Time    `json:"paidAt,omitempty" db:"paid_at"`
	CreatedAt  time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time     `json:"updatedAt" db:"updated_at"`

	Course *Course `json:"course,omitempty"` // Relation, no db tag
}
