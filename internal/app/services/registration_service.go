package services

import (
	"context"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/repositories"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
	"github.com/tobi/learnhub/internal/pkg/email"
	"github.com/tobi/learnhub/internal/pkg/logger"
)

// RegistrationList bundles one page of registrations with the total count
type RegistrationList struct {
	Registrations []*models.Registration
	Total         int64
}

// RegistrationService defines the interface for registration lifecycle operations
type RegistrationService interface {
	Apply(ctx context.Context, userID, courseID int64) (*models.Registration, error)
	UpdateStatus(ctx context.Context, registrationID int64, target models.RegistrationStatus, actorID int64, actorRole models.RoleType) (*models.Registration, error)
	ListByCourse(ctx context.Context, courseID int64, status string, page, size int, actorID int64, actorRole models.RoleType) (*RegistrationList, error)
	ListOwn(ctx context.Context, userID int64) ([]*models.Registration, error)
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
}

type registrationServiceImpl struct {
	registrationRepo *repositories.RegistrationRepository
	courseRepo       *repositories.CourseRepository
	userRepo         *repositories.UserRepository
	emailService     email.Service
}

// NewRegistrationService creates a new registration service instance
func NewRegistrationService(
	registrationRepo *repositories.RegistrationRepository,
	courseRepo *repositories.CourseRepository,
	userRepo *repositories.UserRepository,
	emailService email.Service,
) RegistrationService {
	return &registrationServiceImpl{
		registrationRepo: registrationRepo,
		courseRepo:       courseRepo,
		userRepo:         userRepo,
		emailService:     emailService,
	}
}

// Apply creates a PENDING registration for the student. Paid courses are
// normally settled through the payment flow instead, but direct application
// is allowed for free courses and manual (offline payment) approval.
func (s *registrationServiceImpl) Apply(ctx context.Context, userID, courseID int64) (*models.Registration, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !course.Published {
		return nil, apperrors.ErrCourseNotPublished
	}
	if !course.HasCapacity() {
		return nil, apperrors.ErrCourseFull
	}

	reg := &models.Registration{
		UserID:   userID,
		CourseID: courseID,
		Status:   models.RegistrationPending,
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		return nil, err
	}

	logger.Info().Int64("userID", userID).Int64("courseID", courseID).Msg("Registration created")
	return reg, nil
}

// UpdateStatus moves a registration along its lifecycle. Admins may touch any
// course; trainers only their own.
func (s *registrationServiceImpl) UpdateStatus(ctx context.Context, registrationID int64, target models.RegistrationStatus, actorID int64, actorRole models.RoleType) (*models.Registration, error) {
	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, reg.CourseID)
	if err != nil {
		return nil, err
	}

	if err := s.requireCourseAccess(course, actorID, actorRole); err != nil {
		return nil, err
	}

	if !reg.Status.CanTransitionTo(target) {
		return nil, apperrors.ErrInvalidTransition
	}

	// Approving consumes a seat, so re-check capacity minus this pending row
	if target == models.RegistrationApproved && course.MaxSeats > 0 && course.SeatsTaken > course.MaxSeats {
		return nil, apperrors.ErrCourseFull
	}

	if err := s.registrationRepo.UpdateStatus(ctx, registrationID, target, nil); err != nil {
		return nil, err
	}
	reg.Status = target

	if target == models.RegistrationApproved {
		s.sendApprovalEmail(ctx, reg, course)
	}

	return reg, nil
}

func (s *registrationServiceImpl) sendApprovalEmail(ctx context.Context, reg *models.Registration, course *models.Course) {
	user, err := s.userRepo.GetByID(ctx, reg.UserID)
	if err != nil {
		logger.Warn().Err(err).Int64("userID", reg.UserID).Msg("Could not load user for approval email")
		return
	}
	if err := s.emailService.SendRegistrationApprovedEmail(user.Email, user.FullName(), course.Title); err != nil {
		logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to send approval email")
	}
}

func (s *registrationServiceImpl) ListByCourse(ctx context.Context, courseID int64, status string, page, size int, actorID int64, actorRole models.RoleType) (*RegistrationList, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := s.requireCourseAccess(course, actorID, actorRole); err != nil {
		return nil, err
	}

	regs, total, err := s.registrationRepo.ListByCourse(ctx, courseID, status, page, size)
	if err != nil {
		return nil, err
	}
	return &RegistrationList{Registrations: regs, Total: total}, nil
}

func (s *registrationServiceImpl) ListOwn(ctx context.Context, userID int64) ([]*models.Registration, error) {
	return s.registrationRepo.ListByUser(ctx, userID)
}

func (s *registrationServiceImpl) GetByID(ctx context.Context, id int64) (*models.Registration, error) {
	return s.registrationRepo.GetByID(ctx, id)
}

func (s *registrationServiceImpl) requireCourseAccess(course *models.Course, actorID int64, actorRole models.RoleType) error {
	if actorRole == models.RoleAdmin {
		return nil
	}
	if actorRole == models.RoleTrainer && course.TrainerID != nil && *course.TrainerID == actorID {
		return nil
	}
	return apperrors.ErrPermissionDenied
}
