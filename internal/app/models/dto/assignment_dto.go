package dto

import (
	"time"

	"github.com/tobi/learnhub/internal/app/models"
)

// CreateAssignmentRequest represents the request to create an assignment
type CreateAssignmentRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	MaxScore    int        `json:"maxScore" binding:"required,min=1"`
	FileURL     string     `json:"fileUrl,omitempty" binding:"omitempty,url"`
}

// UpdateAssignmentRequest represents the request to update an assignment
type UpdateAssignmentRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	MaxScore    int        `json:"maxScore" binding:"required,min=1"`
	FileURL     string     `json:"fileUrl,omitempty" binding:"omitempty,url"`
}

// SubmitAssignmentRequest represents a student submission body.
// The optional file travels as multipart alongside this payload.
type SubmitAssignmentRequest struct {
	Body string `json:"body" form:"body"`
}

// GradeSubmissionRequest represents a trainer grading a submission
type GradeSubmissionRequest struct {
	Score    int    `json:"score" binding:"min=0"`
	Feedback string `json:"feedback,omitempty"`
}

// AssignmentResponse represents an assignment in API responses
type AssignmentResponse struct {
	ID          int64      `json:"id"`
	CourseID    int64      `json:"courseId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"dueAt,omitempty"`
	MaxScore    int        `json:"maxScore"`
	FileURL     *string    `json:"fileUrl,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FromAssignment converts a models.Assignment to an AssignmentResponse
func FromAssignment(a *models.Assignment) AssignmentResponse {
	if a == nil {
		return AssignmentResponse{}
	}
	return AssignmentResponse{
		ID:          a.ID,
		CourseID:    a.CourseID,
		Title:       a.Title,
		Description: a.Description,
		DueAt:       a.DueAt,
		MaxScore:    a.MaxScore,
		FileURL:     a.FileURL,
		CreatedAt:   a.CreatedAt,
	}
}

// SubmissionResponse represents a submission in API responses
type SubmissionResponse struct {
	ID           int64      `json:"id"`
	AssignmentID int64      `json:"assignmentId"`
	UserID       int64      `json:"userId"`
	StudentName  string     `json:"studentName,omitempty"`
	Body         string     `json:"body"`
	FileURL      *string    `json:"fileUrl,omitempty"`
	Score        *int       `json:"score,omitempty"`
	Feedback     *string    `json:"feedback,omitempty"`
	GradedAt     *time.Time `json:"gradedAt,omitempty"`
	SubmittedAt  time.Time  `json:"submittedAt"`
}

// FromSubmission converts a models.Submission to a SubmissionResponse
func FromSubmission(s *models.Submission) SubmissionResponse {
	if s == nil {
		return SubmissionResponse{}
	}

	resp := SubmissionResponse{
		ID:           s.ID,
		AssignmentID: s.AssignmentID,
		UserID:       s.UserID,
		Body:         s.Body,
		FileURL:      s.FileURL,
		Score:        s.Score,
		Feedback:     s.Feedback,
		GradedAt:     s.GradedAt,
		SubmittedAt:  s.SubmittedAt,
	}
	if s.User != nil {
		resp.StudentName = s.User.FullName()
	}
	return resp
}
