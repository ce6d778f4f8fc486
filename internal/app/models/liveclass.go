package models

import (
	"time"
)

// LiveClass defines a scheduled live session based on the 'live_classes' table
type LiveClass struct {
	ID          int64           `json:"id" db:"id"`
	CourseID    int64           `json:"courseId" db:"course_id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	MeetingURL  string          `json:"meetingUrl" db:"meeting_url"`
	Status      LiveClassStatus `json:"status" db:"status" example:"SCHEDULED"`
	StartsAt    time.Time       `json:"startsAt" db:"starts_at"`
	EndsAt      time.Time       `json:"endsAt" db:"ends_at"`
	CreatedBy   int64           `json:"createdBy" db:"created_by"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`

	Course *Course `json:"course,omitempty"` // Relation, no db tag
}

// CatchupSession defines a recorded session attached to a live class,
// based on the 'catchup_sessions' table
type CatchupSession struct {
	ID              int64     `json:"id" db:"id"`
	LiveClassID     int64     `json:"liveClassId" db:"live_class_id"`
	Title           string    `json:"title" db:"title"`
	RecordingURL    string    `json:"recordingUrl" db:"recording_url"`
	DurationMinutes int       `json:"durationMinutes" db:"duration_minutes"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}
