package models

import (
	"time"
)

// Assignment defines a course assignment based on the 'assignments' table
type Assignment struct {
	ID          int64      `json:"id" db:"id"`
	CourseID    int64      `json:"courseId" db:"course_id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	DueAt       *time.Time `json:"dueAt,omitempty" db:"due_at"`
	MaxScore    int        `json:"maxScore" db:"max_score" example:"100"`
	FileURL     *string    `json:"fileUrl,omitempty" db:"file_url"`
	CreatedBy   int64      `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	Course *Course `json:"course,omitempty"` // Relation, no db tag
}

// IsPastDue reports whether the assignment deadline has passed.
func (a *Assignment) IsPastDue(now time.Time) bool {
	return a.DueAt != nil && now.After(*a.DueAt)
}

// Submission defines a student's answer based on the 'submissions' table.
// One row per (assignment_id, user_id); resubmission overwrites until graded.
type Submission struct {
	ID           int64      `json:"id" db:"id"`
	AssignmentID int64      `json:"assignmentId" db:"assignment_id"`
	UserID       int64      `json:"userId" db:"user_id"`
	Body         string     `json:"body" db:"body"`
	FileURL      *string    `json:"fileUrl,omitempty" db:"file_url"`
	Score        *int       `json:"score,omitempty" db:"score"`
	Feedback     *string    `json:"feedback,omitempty" db:"feedback"`
	GradedBy     *int64     `json:"gradedBy,omitempty" db:"graded_by"`
	GradedAt     *time.Time `json:"gradedAt,omitempty" db:"graded_at"`
	SubmittedAt  time.Time  `json:"submittedAt" db:"submitted_at"`

	User *User `json:"user,omitempty"` // Relation, no db tag
}

// IsGraded reports whether the submission has been graded.
func (s *Submission) IsGraded() bool {
	return s.GradedAt != nil
}
