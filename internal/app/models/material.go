package models

import (
	"time"
)

// MaterialKind defines the type of a course material
type MaterialKind string

const (
	MaterialFile  MaterialKind = "FILE"
	MaterialLink  MaterialKind = "LINK"
	MaterialVideo MaterialKind = "VIDEO"
)

// Material defines a course content item based on the 'materials' table
type Material struct {
	ID        int64        `json:"id" db:"id"`
	CourseID  int64        `json:"courseId" db:"course_id"`
	Title     string       `json:"title" db:"title"`
	Kind      MaterialKind `json:"kind" db:"kind" example:"FILE"`
	URL       string       `json:"url" db:"url"`
	Position  int          `json:"position" db:"position"`
	CreatedBy int64        `json:"createdBy" db:"created_by"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
}
