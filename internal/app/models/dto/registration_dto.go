package dto

import (
	"time"

	"github.com/tobi/learnhub/internal/app/models"
)

// CreateRegistrationRequest represents a student's application to a course
type CreateRegistrationRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
}

// UpdateRegistrationStatusRequest represents an admin/trainer status decision
type UpdateRegistrationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED COMPLETED"`
}

// RegistrationResponse represents a registration in API responses
type RegistrationResponse struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	CourseID    int64      `json:"courseId"`
	Status      string     `json:"status"`
	PaymentID   *int64     `json:"paymentId,omitempty"`
	StudentName string     `json:"studentName,omitempty"`
	CourseTitle string     `json:"courseTitle,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// FromRegistration converts a models.Registration to a RegistrationResponse
func FromRegistration(reg *models.Registration) RegistrationResponse {
	if reg == nil {
		return RegistrationResponse{}
	}

	resp := RegistrationResponse{
		ID:        reg.ID,
		UserID:    reg.UserID,
		CourseID:  reg.CourseID,
		Status:    string(reg.Status),
		PaymentID: reg.PaymentID,
		CreatedAt: reg.CreatedAt,
		UpdatedAt: reg.UpdatedAt,
	}
	if reg.User != nil {
		resp.StudentName = reg.User.FullName()
	}
	if reg.Course != nil {
		resp.CourseTitle = reg.Course.Title
	}
	return resp
}

// RegistrationListResponse represents a paginated list of registrations
type RegistrationListResponse struct {
	Registrations []RegistrationResponse `json:"registrations"`
	Pagination    PaginationInfo         `json:"pagination"`
}
