package services

import (
	"context"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/repositories"
)

// MaterialService defines the interface for course material operations
type MaterialService interface {
	Create(ctx context.Context, m *models.Material, actorID int64, actorRole models.RoleType) error
	ListByCourse(ctx context.Context, courseID int64, actorID int64, actorRole models.RoleType) ([]*models.Material, error)
	Update(ctx context.Context, m *models.Material, actorID int64, actorRole models.RoleType) error
	Delete(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) error
}

type materialServiceImpl struct {
	materialRepo     *repositories.MaterialRepository
	courseRepo       *repositories.CourseRepository
	registrationRepo *repositories.RegistrationRepository
}

// NewMaterialService creates a new material service instance
func NewMaterialService(
	materialRepo *repositories.MaterialRepository,
	courseRepo *repositories.CourseRepository,
	registrationRepo *repositories.RegistrationRepository,
) MaterialService {
	return &materialServiceImpl{
		materialRepo:     materialRepo,
		courseRepo:       courseRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *materialServiceImpl) Create(ctx context.Context, m *models.Material, actorID int64, actorRole models.RoleType) error {
	course, err := s.courseRepo.GetByID(ctx, m.CourseID)
	if err != nil {
		return err
	}
	if err := requireCourseManage(course, actorID, actorRole); err != nil {
		return err
	}

	m.CreatedBy = actorID
	return s.materialRepo.Create(ctx, m)
}

func (s *materialServiceImpl) ListByCourse(ctx context.Context, courseID int64, actorID int64, actorRole models.RoleType) ([]*models.Material, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseContentAccess(ctx, s.registrationRepo, course, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.materialRepo.ListByCourse(ctx, courseID)
}

func (s *materialServiceImpl) Update(ctx context.Context, m *models.Material, actorID int64, actorRole models.RoleType) error {
	existing, err := s.materialRepo.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}

	course, err := s.courseRepo.GetByID(ctx, existing.CourseID)
	if err != nil {
		return err
	}
	if err := requireCourseManage(course, actorID, actorRole); err != nil {
		return err
	}

	m.CourseID = existing.CourseID
	if m.Position == 0 {
		m.Position = existing.Position
	}
	return s.materialRepo.Update(ctx, m)
}

func (s *materialServiceImpl) Delete(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) error {
	existing, err := s.materialRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	course, err := s.courseRepo.GetByID(ctx, existing.CourseID)
	if err != nil {
		return err
	}
	if err := requireCourseManage(course, actorID, actorRole); err != nil {
		return err
	}

	return s.materialRepo.Delete(ctx, id)
}
