package dto

import (
	"time"

	"github.com/tobi/learnhub/internal/app/models"
)

// CreateLiveClassRequest represents the request to schedule a live class
type CreateLiveClassRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description,omitempty"`
	MeetingURL  string    `json:"meetingUrl" binding:"required,url"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required,gtfield=StartsAt"`
}

// UpdateLiveClassRequest represents the request to update a live class
type UpdateLiveClassRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description,omitempty"`
	MeetingURL  string    `json:"meetingUrl" binding:"required,url"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required,gtfield=StartsAt"`
}

// UpdateLiveClassStatusRequest represents a status change (start/end/cancel)
type UpdateLiveClassStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=LIVE ENDED CANCELLED"`
}

// LiveClassResponse represents a live class in API responses
type LiveClassResponse struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"courseId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	MeetingURL  string    `json:"meetingUrl"`
	Status      string    `json:"status"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromLiveClass converts a models.LiveClass to a LiveClassResponse
func FromLiveClass(lc *models.LiveClass) LiveClassResponse {
	if lc == nil {
		return LiveClassResponse{}
	}
	return LiveClassResponse{
		ID:          lc.ID,
		CourseID:    lc.CourseID,
		Title:       lc.Title,
		Description: lc.Description,
		MeetingURL:  lc.MeetingURL,
		Status:      string(lc.Status),
		StartsAt:    lc.StartsAt,
		EndsAt:      lc.EndsAt,
		CreatedAt:   lc.CreatedAt,
	}
}

// CreateCatchupRequest represents the request to attach a catch-up session
type CreateCatchupRequest struct {
	Title           string `json:"title" binding:"required"`
	RecordingURL    string `json:"recordingUrl" binding:"required,url"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=1"`
}

// CatchupResponse represents a catch-up session in API responses
type CatchupResponse struct {
	ID              int64     `json:"id"`
	LiveClassID     int64     `json:"liveClassId"`
	Title           string    `json:"title"`
	RecordingURL    string    `json:"recordingUrl"`
	DurationMinutes int       `json:"durationMinutes"`
	CreatedAt       time.Time `json:"createdAt"`
}

// FromCatchup converts a models.CatchupSession to a CatchupResponse
func FromCatchup(cs *models.CatchupSession) CatchupResponse {
	if cs == nil {
		return CatchupResponse{}
	}
	return CatchupResponse{
		ID:              cs.ID,
		LiveClassID:     cs.LiveClassID,
		Title:           cs.Title,
		RecordingURL:    cs.RecordingURL,
		DurationMinutes: cs.DurationMinutes,
		CreatedAt:       cs.CreatedAt,
	}
}
