package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/repositories"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
	"github.com/tobi/learnhub/internal/pkg/cache"
)

// CourseList bundles one page of courses with the total match count
type CourseList struct {
	Courses []*models.Course
	Total   int64
}

// CourseService defines the interface for course catalog operations
type CourseService interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetBySlug(ctx context.Context, slug string) (*models.Course, error)
	ListPublic(ctx context.Context, filter repositories.CourseFilter, page, size int) (*CourseList, error)
	List(ctx context.Context, filter repositories.CourseFilter, page, size int) (*CourseList, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
	SetPublished(ctx context.Context, id int64, published bool) (*models.Course, error)
	AssignTrainer(ctx context.Context, courseID int64, trainerID *int64) (*models.Course, error)
}

type courseServiceImpl struct {
	courseRepo *repositories.CourseRepository
	userRepo   *repositories.UserRepository
	listCache  *cache.Cache
}

// NewCourseService creates a new course service instance. The cache backs the
// public catalog list only; every write flushes it.
func NewCourseService(
	courseRepo *repositories.CourseRepository,
	userRepo *repositories.UserRepository,
	listCache *cache.Cache,
) CourseService {
	return &courseServiceImpl{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		listCache:  listCache,
	}
}

// Slugify turns a title into a URL-safe slug
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func (s *courseServiceImpl) Create(ctx context.Context, course *models.Course) error {
	if course.Slug == "" {
		course.Slug = Slugify(course.Title)
	}
	if course.Slug == "" {
		return fmt.Errorf("%w: title produces an empty slug", apperrors.ErrValidationFailed)
	}

	if course.TrainerID != nil {
		if err := s.requireTrainer(ctx, *course.TrainerID); err != nil {
			return err
		}
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return err
	}

	s.listCache.Flush()
	return nil
}

func (s *courseServiceImpl) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachTrainer(ctx, course)
	return course, nil
}

func (s *courseServiceImpl) GetBySlug(ctx context.Context, slug string) (*models.Course, error) {
	course, err := s.courseRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.attachTrainer(ctx, course)
	return course, nil
}

func (s *courseServiceImpl) attachTrainer(ctx context.Context, course *models.Course) {
	if course.TrainerID == nil {
		return
	}
	// Best effort; the course is still useful without the trainer profile
	if trainer, err := s.userRepo.GetByID(ctx, *course.TrainerID); err == nil {
		course.Trainer = trainer
	}
}

// ListPublic serves the published catalog through the TTL cache
func (s *courseServiceImpl) ListPublic(ctx context.Context, filter repositories.CourseFilter, page, size int) (*CourseList, error) {
	filter.PublishedOnly = true

	key := fmt.Sprintf("courses:public:q=%s:cat=%s:lvl=%s:p=%d:s=%d",
		filter.Search, filter.Category, filter.Level, page, size)

	v, err := s.listCache.Memoize(key, func() (interface{}, error) {
		courses, total, err := s.courseRepo.List(ctx, filter, page, size)
		if err != nil {
			return nil, err
		}
		return &CourseList{Courses: courses, Total: total}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CourseList), nil
}

func (s *courseServiceImpl) List(ctx context.Context, filter repositories.CourseFilter, page, size int) (*CourseList, error) {
	courses, total, err := s.courseRepo.List(ctx, filter, page, size)
	if err != nil {
		return nil, err
	}
	return &CourseList{Courses: courses, Total: total}, nil
}

func (s *courseServiceImpl) Update(ctx context.Context, course *models.Course) error {
	existing, err := s.courseRepo.GetByID(ctx, course.ID)
	if err != nil {
		return err
	}

	if course.Slug == "" {
		course.Slug = existing.Slug
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return err
	}

	s.listCache.Flush()
	return nil
}

func (s *courseServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.listCache.Flush()
	return nil
}

func (s *courseServiceImpl) SetPublished(ctx context.Context, id int64, published bool) (*models.Course, error) {
	if err := s.courseRepo.SetPublished(ctx, id, published); err != nil {
		return nil, err
	}
	s.listCache.Flush()
	return s.courseRepo.GetByID(ctx, id)
}

func (s *courseServiceImpl) AssignTrainer(ctx context.Context, courseID int64, trainerID *int64) (*models.Course, error) {
	if trainerID != nil {
		if err := s.requireTrainer(ctx, *trainerID); err != nil {
			return nil, err
		}
	}

	if err := s.courseRepo.AssignTrainer(ctx, courseID, trainerID); err != nil {
		return nil, err
	}

	s.listCache.Flush()
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	s.attachTrainer(ctx, course)
	return course, nil
}

func (s *courseServiceImpl) requireTrainer(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.RoleType != models.RoleTrainer && user.RoleType != models.RoleAdmin {
		return fmt.Errorf("%w: user %d is not a trainer", apperrors.ErrValidationFailed, userID)
	}
	return nil
}
