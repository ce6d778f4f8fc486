package dto

import (
	"time"

	"github.com/tobi/learnhub/internal/app/models"
)

// CreateMaterialRequest represents the request to add a course material.
// For FILE kind the upload travels as multipart and URL is filled server-side.
type CreateMaterialRequest struct {
	Title    string `json:"title" form:"title" binding:"required"`
	Kind     string `json:"kind" form:"kind" binding:"required,oneof=FILE LINK VIDEO"`
	URL      string `json:"url,omitempty" form:"url" binding:"omitempty,url"`
	Position int    `json:"position" form:"position" binding:"min=0"`
}

// UpdateMaterialRequest represents the request to update a material
type UpdateMaterialRequest struct {
	Title    string `json:"title" binding:"required"`
	URL      string `json:"url,omitempty" binding:"omitempty,url"`
	Position int    `json:"position" binding:"min=0"`
}

// MaterialResponse represents a material in API responses
type MaterialResponse struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"courseId"`
	Title     string    `json:"title"`
	Kind      string    `json:"kind"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromMaterial converts a models.Material to a MaterialResponse
func FromMaterial(m *models.Material) MaterialResponse {
	if m == nil {
		return MaterialResponse{}
	}
	return MaterialResponse{
		ID:        m.ID,
		CourseID:  m.CourseID,
		Title:     m.Title,
		Kind:      string(m.Kind),
		URL:       m.URL,
		Position:  m.Position,
		CreatedAt: m.CreatedAt,
	}
}
