package services

import (
	"context"
	"fmt"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/repositories"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
)

// StoryList bundles one page of stories with the total count
type StoryList struct {
	Stories []*models.Story
	Total   int64
}

// StoryService defines the interface for story publishing operations
type StoryService interface {
	Create(ctx context.Context, story *models.Story) error
	GetBySlug(ctx context.Context, slug string, actorID int64, actorRole models.RoleType) (*models.Story, error)
	ListPublished(ctx context.Context, page, size int) (*StoryList, error)
	ListOwn(ctx context.Context, authorID int64, page, size int) (*StoryList, error)
	ListAll(ctx context.Context, status string, page, size int) (*StoryList, error)
	Update(ctx context.Context, story *models.Story, actorID int64, actorRole models.RoleType) error
	SetCover(ctx context.Context, id int64, coverURL string, actorID int64, actorRole models.RoleType) (*models.Story, error)
	UpdateStatus(ctx context.Context, id int64, target models.StoryStatus, actorID int64, actorRole models.RoleType) (*models.Story, error)
	Delete(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) error
}

type storyServiceImpl struct {
	storyRepo *repositories.StoryRepository
}

// NewStoryService creates a new story service instance
func NewStoryService(storyRepo *repositories.StoryRepository) StoryService {
	return &storyServiceImpl{
		storyRepo: storyRepo,
	}
}

// canTransitionStory encodes DRAFT -> PUBLISHED -> ARCHIVED, with unpublish
// back to draft allowed.
func canTransitionStory(from, to models.StoryStatus) bool {
	switch from {
	case models.StoryDraft:
		return to == models.StoryPublished
	case models.StoryPublished:
		return to == models.StoryArchived || to == models.StoryDraft
	case models.StoryArchived:
		return to == models.StoryDraft
	default:
		return false
	}
}

func (s *storyServiceImpl) Create(ctx context.Context, story *models.Story) error {
	if story.Slug == "" {
		story.Slug = Slugify(story.Title)
	}
	if story.Slug == "" {
		return fmt.Errorf("%w: title produces an empty slug", apperrors.ErrValidationFailed)
	}

	story.Status = models.StoryDraft
	return s.storyRepo.Create(ctx, story)
}

// GetBySlug returns a story. Unpublished stories are visible only to their
// author and admins; actorID 0 means an anonymous reader.
func (s *storyServiceImpl) GetBySlug(ctx context.Context, slug string, actorID int64, actorRole models.RoleType) (*models.Story, error) {
	story, err := s.storyRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if story.Status != models.StoryPublished {
		if actorRole != models.RoleAdmin && story.AuthorID != actorID {
			return nil, apperrors.ErrStoryNotFound
		}
	}
	return story, nil
}

func (s *storyServiceImpl) ListPublished(ctx context.Context, page, size int) (*StoryList, error) {
	stories, total, err := s.storyRepo.List(ctx, string(models.StoryPublished), nil, page, size)
	if err != nil {
		return nil, err
	}
	return &StoryList{Stories: stories, Total: total}, nil
}

func (s *storyServiceImpl) ListOwn(ctx context.Context, authorID int64, page, size int) (*StoryList, error) {
	stories, total, err := s.storyRepo.List(ctx, "", &authorID, page, size)
	if err != nil {
		return nil, err
	}
	return &StoryList{Stories: stories, Total: total}, nil
}

func (s *storyServiceImpl) ListAll(ctx context.Context, status string, page, size int) (*StoryList, error) {
	stories, total, err := s.storyRepo.List(ctx, status, nil, page, size)
	if err != nil {
		return nil, err
	}
	return &StoryList{Stories: stories, Total: total}, nil
}

func (s *storyServiceImpl) Update(ctx context.Context, story *models.Story, actorID int64, actorRole models.RoleType) error {
	existing, err := s.storyRepo.GetByID(ctx, story.ID)
	if err != nil {
		return err
	}
	if err := requireStoryAccess(existing, actorID, actorRole); err != nil {
		return err
	}

	if story.Slug == "" {
		story.Slug = existing.Slug
	}
	if story.CoverURL == nil {
		story.CoverURL = existing.CoverURL
	}
	return s.storyRepo.Update(ctx, story)
}

// SetCover replaces the cover image, leaving the content untouched
func (s *storyServiceImpl) SetCover(ctx context.Context, id int64, coverURL string, actorID int64, actorRole models.RoleType) (*models.Story, error) {
	existing, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireStoryAccess(existing, actorID, actorRole); err != nil {
		return nil, err
	}

	existing.CoverURL = &coverURL
	if err := s.storyRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *storyServiceImpl) UpdateStatus(ctx context.Context, id int64, target models.StoryStatus, actorID int64, actorRole models.RoleType) (*models.Story, error) {
	existing, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireStoryAccess(existing, actorID, actorRole); err != nil {
		return nil, err
	}

	if !canTransitionStory(existing.Status, target) {
		return nil, apperrors.NewConflictError("invalid story status transition")
	}

	if err := s.storyRepo.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	return s.storyRepo.GetByID(ctx, id)
}

func (s *storyServiceImpl) Delete(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) error {
	existing, err := s.storyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireStoryAccess(existing, actorID, actorRole); err != nil {
		return err
	}

	return s.storyRepo.Delete(ctx, id)
}

func requireStoryAccess(story *models.Story, actorID int64, actorRole models.RoleType) error {
	if actorRole == models.RoleAdmin || story.AuthorID == actorID {
		return nil
	}
	return apperrors.ErrPermissionDenied
}
