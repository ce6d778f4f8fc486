package models

import (
	"time"
)

// Story defines a published content item based on the 'stories' table
type Story struct {
	ID          int64       `json:"id" db:"id"`
	AuthorID    int64       `json:"authorId" db:"author_id"`
	Title       string      `json:"title" db:"title"`
	Slug        string      `json:"slug" db:"slug"`
	Summary     string      `json:"summary" db:"summary"`
	Body        string      `json:"body" db:"body"`
	CoverURL    *string     `json:"coverUrl,omitempty" db:"cover_url"`
	Status      StoryStatus `json:"status" db:"status" example:"DRAFT"`
	PublishedAt *time.Time  `json:"publishedAt,omitempty" db:"published_at"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`

	Author *User `json:"author,omitempty"` // Relation, no db tag
}
