package dto

import (
	"time"

	"github.com/tobi/learnhub/internal/app/models"
)

// CreateCourseRequest represents the request to create a course
type CreateCourseRequest struct {
	Title       string     `json:"title" binding:"required"`
	Slug        string     `json:"slug" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Category    string     `json:"category" binding:"required"`
	Level       string     `json:"level" binding:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	PriceKobo   int64      `json:"priceKobo" binding:"min=0"`
	MaxSeats    int        `json:"maxSeats" binding:"min=0"`
	TrainerID   *int64     `json:"trainerId,omitempty"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
}

// UpdateCourseRequest represents the request to update a course
type UpdateCourseRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Category    string     `json:"category" binding:"required"`
	Level       string     `json:"level" binding:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
	PriceKobo   int64      `json:"priceKobo" binding:"min=0"`
	MaxSeats    int        `json:"maxSeats" binding:"min=0"`
	TrainerID   *int64     `json:"trainerId,omitempty"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
}

// AssignTrainerRequest represents the request to assign a trainer to a course
type AssignTrainerRequest struct {
	TrainerID int64 `json:"trainerId" binding:"required,min=1"`
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Level       string     `json:"level"`
	PriceKobo   int64      `json:"priceKobo"`
	MaxSeats    int        `json:"maxSeats"`
	SeatsTaken  int        `json:"seatsTaken"`
	Published   bool       `json:"published"`
	StartsAt    *time.Time `json:"startsAt,omitempty"`
	TrainerName string     `json:"trainerName,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FromCourse converts a models.Course to a CourseResponse
func FromCourse(course *models.Course) CourseResponse {
	if course == nil {
		return CourseResponse{}
	}

	resp := CourseResponse{
		ID:          course.ID,
		Title:       course.Title,
		Slug:        course.Slug,
		Description: course.Description,
		Category:    course.Category,
		Level:       course.Level,
		PriceKobo:   course.PriceKobo,
		MaxSeats:    course.MaxSeats,
		SeatsTaken:  course.SeatsTaken,
		Published:   course.Published,
		StartsAt:    course.StartsAt,
		CreatedAt:   course.CreatedAt,
	}
	if course.Trainer != nil {
		resp.TrainerName = course.Trainer.FullName()
	}
	return resp
}

// CourseListResponse represents a paginated list of courses
type CourseListResponse struct {
	Courses    []CourseResponse `json:"courses"`
	Pagination PaginationInfo   `json:"pagination"`
}
