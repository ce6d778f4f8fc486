package services

import (
	"context"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/repositories"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
)

// Services bundles every service for dependency injection
type Services struct {
	Auth         AuthService
	User         UserService
	Course       CourseService
	Registration RegistrationService
	Payment      PaymentService
	Assignment   AssignmentService
	Material     MaterialService
	LiveClass    LiveClassService
	Story        StoryService
	Dashboard    DashboardService
}

// canManageCourse reports whether the actor may administer a course:
// admins always, trainers only for courses assigned to them.
func canManageCourse(course *models.Course, actorID int64, actorRole models.RoleType) bool {
	if actorRole == models.RoleAdmin {
		return true
	}
	return actorRole == models.RoleTrainer && course.TrainerID != nil && *course.TrainerID == actorID
}

// requireCourseManage returns ErrPermissionDenied unless the actor may
// administer the course.
func requireCourseManage(course *models.Course, actorID int64, actorRole models.RoleType) error {
	if !canManageCourse(course, actorID, actorRole) {
		return apperrors.ErrPermissionDenied
	}
	return nil
}

// requireCourseContentAccess allows course managers plus students holding an
// APPROVED or COMPLETED registration.
func requireCourseContentAccess(ctx context.Context, registrationRepo *repositories.RegistrationRepository, course *models.Course, actorID int64, actorRole models.RoleType) error {
	if canManageCourse(course, actorID, actorRole) {
		return nil
	}

	registered, err := registrationRepo.HasRegistrationWithStatus(ctx, actorID, course.ID,
		models.RegistrationApproved, models.RegistrationCompleted)
	if err != nil {
		return err
	}
	if !registered {
		return apperrors.ErrNotRegistered
	}
	return nil
}
