package services

import (
	"context"
	"errors"
	"time"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/repositories"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
	"github.com/tobi/learnhub/internal/pkg/liveroom"
)

// LiveClassService defines the interface for live class operations. It also
// backs the live room access check for WebSocket joins.
type LiveClassService interface {
	Create(ctx context.Context, lc *models.LiveClass, actorID int64, actorRole models.RoleType) error
	GetByID(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) (*models.LiveClass, error)
	ListByCourse(ctx context.Context, courseID int64, actorID int64, actorRole models.RoleType) ([]*models.LiveClass, error)
	Update(ctx context.Context, lc *models.LiveClass, actorID int64, actorRole models.RoleType) error
	UpdateStatus(ctx context.Context, id int64, target models.LiveClassStatus, actorID int64, actorRole models.RoleType) (*models.LiveClass, error)
	Delete(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) error

	CreateCatchup(ctx context.Context, cs *models.CatchupSession, actorID int64, actorRole models.RoleType) error
	ListCatchups(ctx context.Context, liveClassID int64, actorID int64, actorRole models.RoleType) ([]*models.CatchupSession, error)
	DeleteCatchup(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) error

	CanJoinLiveClass(ctx context.Context, liveClassID, userID int64, roleType string) (bool, string, error)
}

type liveClassServiceImpl struct {
	liveClassRepo    *repositories.LiveClassRepository
	courseRepo       *repositories.CourseRepository
	registrationRepo *repositories.RegistrationRepository
	userRepo         *repositories.UserRepository
	hub              *liveroom.Hub
}

// NewLiveClassService creates a new live class service instance
func NewLiveClassService(
	liveClassRepo *repositories.LiveClassRepository,
	courseRepo *repositories.CourseRepository,
	registrationRepo *repositories.RegistrationRepository,
	userRepo *repositories.UserRepository,
	hub *liveroom.Hub,
) LiveClassService {
	return &liveClassServiceImpl{
		liveClassRepo:    liveClassRepo,
		courseRepo:       courseRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		hub:              hub,
	}
}

// canTransitionLiveClass encodes the SCHEDULED -> LIVE -> ENDED lifecycle.
// Cancelling is allowed any time before the class ends.
func canTransitionLiveClass(from, to models.LiveClassStatus) bool {
	switch from {
	case models.LiveClassScheduled:
		return to == models.LiveClassLive || to == models.LiveClassCancelled
	case models.LiveClassLive:
		return to == models.LiveClassEnded || to == models.LiveClassCancelled
	default:
		return false
	}
}

func (s *liveClassServiceImpl) Create(ctx context.Context, lc *models.LiveClass, actorID int64, actorRole models.RoleType) error {
	course, err := s.courseRepo.GetByID(ctx, lc.CourseID)
	if err != nil {
		return err
	}
	if err := requireCourseManage(course, actorID, actorRole); err != nil {
		return err
	}

	if !lc.EndsAt.After(lc.StartsAt) {
		return apperrors.NewBadRequestError("class must end after it starts")
	}

	lc.Status = models.LiveClassScheduled
	lc.CreatedBy = actorID
	return s.liveClassRepo.Create(ctx, lc)
}

func (s *liveClassServiceImpl) GetByID(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) (*models.LiveClass, error) {
	lc, err := s.liveClassRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, lc.CourseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseContentAccess(ctx, s.registrationRepo, course, actorID, actorRole); err != nil {
		return nil, err
	}
	return lc, nil
}

func (s *liveClassServiceImpl) ListByCourse(ctx context.Context, courseID int64, actorID int64, actorRole models.RoleType) ([]*models.LiveClass, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseContentAccess(ctx, s.registrationRepo, course, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.liveClassRepo.ListByCourse(ctx, courseID)
}

func (s *liveClassServiceImpl) Update(ctx context.Context, lc *models.LiveClass, actorID int64, actorRole models.RoleType) error {
	existing, err := s.liveClassRepo.GetByID(ctx, lc.ID)
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

	if !lc.EndsAt.After(lc.StartsAt) {
		return apperrors.NewBadRequestError("class must end after it starts")
	}

	lc.CourseID = existing.CourseID
	return s.liveClassRepo.Update(ctx, lc)
}

// UpdateStatus moves a live class through its lifecycle and notifies the room
func (s *liveClassServiceImpl) UpdateStatus(ctx context.Context, id int64, target models.LiveClassStatus, actorID int64, actorRole models.RoleType) (*models.LiveClass, error) {
	lc, err := s.liveClassRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, lc.CourseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseManage(course, actorID, actorRole); err != nil {
		return nil, err
	}

	if !canTransitionLiveClass(lc.Status, target) {
		return nil, apperrors.NewConflictError("invalid live class status transition")
	}

	if err := s.liveClassRepo.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	lc.Status = target

	// Tell everyone in the room
	if s.hub != nil {
		s.hub.BroadcastToRoom(&liveroom.Message{
			Type:        "system",
			LiveClassID: lc.ID,
			Content:     "Class status changed to " + string(target),
			Timestamp:   time.Now(),
		})
	}

	return lc, nil
}

func (s *liveClassServiceImpl) Delete(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) error {
	lc, err := s.liveClassRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	course, err := s.courseRepo.GetByID(ctx, lc.CourseID)
	if err != nil {
		return err
	}
	if err := requireCourseManage(course, actorID, actorRole); err != nil {
		return err
	}

	return s.liveClassRepo.Delete(ctx, id)
}

func (s *liveClassServiceImpl) CreateCatchup(ctx context.Context, cs *models.CatchupSession, actorID int64, actorRole models.RoleType) error {
	lc, err := s.liveClassRepo.GetByID(ctx, cs.LiveClassID)
	if err != nil {
		return err
	}

	course, err := s.courseRepo.GetByID(ctx, lc.CourseID)
	if err != nil {
		return err
	}
	if err := requireCourseManage(course, actorID, actorRole); err != nil {
		return err
	}

	return s.liveClassRepo.CreateCatchup(ctx, cs)
}

func (s *liveClassServiceImpl) ListCatchups(ctx context.Context, liveClassID int64, actorID int64, actorRole models.RoleType) ([]*models.CatchupSession, error) {
	lc, err := s.liveClassRepo.GetByID(ctx, liveClassID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, lc.CourseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseContentAccess(ctx, s.registrationRepo, course, actorID, actorRole); err != nil {
		return nil, err
	}

	return s.liveClassRepo.ListCatchups(ctx, liveClassID)
}

func (s *liveClassServiceImpl) DeleteCatchup(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) error {
	cs, err := s.liveClassRepo.GetCatchupByID(ctx, id)
	if err != nil {
		return err
	}

	lc, err := s.liveClassRepo.GetByID(ctx, cs.LiveClassID)
	if err != nil {
		return err
	}

	course, err := s.courseRepo.GetByID(ctx, lc.CourseID)
	if err != nil {
		return err
	}
	if err := requireCourseManage(course, actorID, actorRole); err != nil {
		return err
	}

	return s.liveClassRepo.DeleteCatchup(ctx, id)
}

// CanJoinLiveClass implements the live room access check. It returns the
// display name used for chat messages.
func (s *liveClassServiceImpl) CanJoinLiveClass(ctx context.Context, liveClassID, userID int64, roleType string) (bool, string, error) {
	lc, err := s.liveClassRepo.GetByID(ctx, liveClassID)
	if err != nil {
		if errors.Is(err, apperrors.ErrLiveClassNotFound) {
			return false, "", nil
		}
		return false, "", err
	}

	course, err := s.courseRepo.GetByID(ctx, lc.CourseID)
	if err != nil {
		return false, "", err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, "", err
	}

	if err := requireCourseContentAccess(ctx, s.registrationRepo, course, userID, models.RoleType(roleType)); err != nil {
		if errors.Is(err, apperrors.ErrNotRegistered) || errors.Is(err, apperrors.ErrPermissionDenied) {
			return false, "", nil
		}
		return false, "", err
	}

	return true, user.FullName(), nil
}
