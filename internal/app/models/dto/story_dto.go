package dto

import (
	"time"

	"github.com/tobi/learnhub/internal/app/models"
)

// CreateStoryRequest represents the request to create a story
type CreateStoryRequest struct {
	Title   string `json:"title" binding:"required"`
	Slug    string `json:"slug" binding:"required"`
	Summary string `json:"summary" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// UpdateStoryRequest represents the request to update a story
type UpdateStoryRequest struct {
	Title   string `json:"title" binding:"required"`
	Summary string `json:"summary" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// UpdateStoryStatusRequest represents a publish/unpublish/archive decision
type UpdateStoryStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// StoryResponse represents a story in API responses
type StoryResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body,omitempty"`
	CoverURL    *string    `json:"coverUrl,omitempty"`
	Status      string     `json:"status"`
	AuthorName  string     `json:"authorName,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// FromStory converts a models.Story to a StoryResponse
func FromStory(story *models.Story) StoryResponse {
	if story == nil {
		return StoryResponse{}
	}

	resp := StoryResponse{
		ID:          story.ID,
		Title:       story.Title,
		Slug:        story.Slug,
		Summary:     story.Summary,
		Body:        story.Body,
		CoverURL:    story.CoverURL,
		Status:      string(story.Status),
		PublishedAt: story.PublishedAt,
		CreatedAt:   story.CreatedAt,
	}
	if story.Author != nil {
		resp.AuthorName = story.Author.FullName()
	}
	return resp
}

// StoryListResponse represents a paginated list of stories
type StoryListResponse struct {
	Stories    []StoryResponse `json:"stories"`
	Pagination PaginationInfo  `json:"pagination"`
}
