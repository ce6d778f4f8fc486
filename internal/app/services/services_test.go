package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "simple title", title: "Backend Engineering with Go", want: "backend-engineering-with-go"},
		{name: "extra whitespace", title: "  Intro   to SQL  ", want: "intro-to-sql"},
		{name: "punctuation", title: "Data Science: Beyond the Basics!", want: "data-science-beyond-the-basics"},
		{name: "numbers", title: "CSS Grid in 2026", want: "css-grid-in-2026"},
		{name: "non-ascii only", title: "日本語", want: ""},
		{name: "empty", title: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestCanManageCourse(t *testing.T) {
	trainerID := int64(7)
	course := &models.Course{ID: 1, TrainerID: &trainerID}
	orphan := &models.Course{ID: 2}

	assert.True(t, canManageCourse(course, 99, models.RoleAdmin))
	assert.True(t, canManageCourse(course, 7, models.RoleTrainer))
	assert.False(t, canManageCourse(course, 8, models.RoleTrainer))
	assert.False(t, canManageCourse(course, 7, models.RoleStudent))
	assert.False(t, canManageCourse(orphan, 7, models.RoleTrainer))

	assert.NoError(t, requireCourseManage(course, 7, models.RoleTrainer))
	assert.ErrorIs(t, requireCourseManage(course, 8, models.RoleTrainer), apperrors.ErrPermissionDenied)
}

func TestCanTransitionLiveClass(t *testing.T) {
	tests := []struct {
		name string
		from models.LiveClassStatus
		to   models.LiveClassStatus
		want bool
	}{
		{name: "scheduled to live", from: models.LiveClassScheduled, to: models.LiveClassLive, want: true},
		{name: "scheduled to cancelled", from: models.LiveClassScheduled, to: models.LiveClassCancelled, want: true},
		{name: "scheduled to ended", from: models.LiveClassScheduled, to: models.LiveClassEnded, want: false},
		{name: "live to ended", from: models.LiveClassLive, to: models.LiveClassEnded, want: true},
		{name: "live to cancelled", from: models.LiveClassLive, to: models.LiveClassCancelled, want: true},
		{name: "ended is terminal", from: models.LiveClassEnded, to: models.LiveClassLive, want: false},
		{name: "cancelled is terminal", from: models.LiveClassCancelled, to: models.LiveClassScheduled, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canTransitionLiveClass(tt.from, tt.to))
		})
	}
}

func TestCanTransitionStory(t *testing.T) {
	tests := []struct {
		name string
		from models.StoryStatus
		to   models.StoryStatus
		want bool
	}{
		{name: "draft to published", from: models.StoryDraft, to: models.StoryPublished, want: true},
		{name: "draft to archived", from: models.StoryDraft, to: models.StoryArchived, want: false},
		{name: "published to archived", from: models.StoryPublished, to: models.StoryArchived, want: true},
		{name: "unpublish back to draft", from: models.StoryPublished, to: models.StoryDraft, want: true},
		{name: "archived back to draft", from: models.StoryArchived, to: models.StoryDraft, want: true},
		{name: "archived to published", from: models.StoryArchived, to: models.StoryPublished, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canTransitionStory(tt.from, tt.to))
		})
	}
}
