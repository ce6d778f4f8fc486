package models

import (
	"time"
)

// Registration defines a student's enrollment record based on the 'registrations' table.
// One row per (user_id, course_id), enforced by a unique constraint so that
// concurrent payment callbacks cannot create duplicates.
type Registration struct {
	ID        int64              `json:"id" db:"id"`
	UserID    int64              `json:"userId" db:"user_id"`
	CourseID  int64              `json:"courseId" db:"course_id"`
	Status    RegistrationStatus `json:"status" db:"status" example:"PENDING"`
	PaymentID *int64             `json:"paymentId,omitempty" db:"payment_id"`
	CreatedAt time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" db:"updated_at"`

	User   *User   `json:"user,omitempty"`   // Relation, no db tag
	Course *Course `json:"course,omitempty"` // Relation, no db tag
}
