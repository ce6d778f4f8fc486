package services

import (
	"context"
	"time"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/repositories"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
)

// AssignmentService defines the interface for assignment and submission operations
type AssignmentService interface {
	Create(ctx context.Context, a *models.Assignment, actorID int64, actorRole models.RoleType) error
	GetByID(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) (*models.Assignment, error)
	ListByCourse(ctx context.Context, courseID int64, actorID int64, actorRole models.RoleType) ([]*models.Assignment, error)
	Update(ctx context.Context, a *models.Assignment, actorID int64, actorRole models.RoleType) error
	Delete(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) error

	Submit(ctx context.Context, assignmentID, userID int64, body string, fileURL *string) (*models.Submission, error)
	GetOwnSubmission(ctx context.Context, assignmentID, userID int64) (*models.Submission, error)
	ListSubmissions(ctx context.Context, assignmentID int64, actorID int64, actorRole models.RoleType) ([]*models.Submission, error)
	Grade(ctx context.Context, submissionID int64, score int, feedback string, actorID int64, actorRole models.RoleType) (*models.Submission, error)
}

type assignmentServiceImpl struct {
	assignmentRepo   *repositories.AssignmentRepository
	courseRepo       *repositories.CourseRepository
	registrationRepo *repositories.RegistrationRepository
}

// NewAssignmentService creates a new assignment service instance
func NewAssignmentService(
	assignmentRepo *repositories.AssignmentRepository,
	courseRepo *repositories.CourseRepository,
	registrationRepo *repositories.RegistrationRepository,
) AssignmentService {
	return &assignmentServiceImpl{
		assignmentRepo:   assignmentRepo,
		courseRepo:       courseRepo,
		registrationRepo: registrationRepo,
	}
}

func (s *assignmentServiceImpl) Create(ctx context.Context, a *models.Assignment, actorID int64, actorRole models.RoleType) error {
	course, err := s.courseRepo.GetByID(ctx, a.CourseID)
	if err != nil {
		return err
	}
	if err := requireCourseManage(course, actorID, actorRole); err != nil {
		return err
	}

	a.CreatedBy = actorID
	return s.assignmentRepo.Create(ctx, a)
}

func (s *assignmentServiceImpl) GetByID(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) (*models.Assignment, error) {
	a, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, a.CourseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseContentAccess(ctx, s.registrationRepo, course, actorID, actorRole); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *assignmentServiceImpl) ListByCourse(ctx context.Context, courseID int64, actorID int64, actorRole models.RoleType) ([]*models.Assignment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseContentAccess(ctx, s.registrationRepo, course, actorID, actorRole); err != nil {
		return nil, err
	}
	return s.assignmentRepo.ListByCourse(ctx, courseID)
}

func (s *assignmentServiceImpl) Update(ctx context.Context, a *models.Assignment, actorID int64, actorRole models.RoleType) error {
	existing, err := s.assignmentRepo.GetByID(ctx, a.ID)
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

	a.CourseID = existing.CourseID
	return s.assignmentRepo.Update(ctx, a)
}

func (s *assignmentServiceImpl) Delete(ctx context.Context, id int64, actorID int64, actorRole models.RoleType) error {
	existing, err := s.assignmentRepo.GetByID(ctx, id)
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

	return s.assignmentRepo.Delete(ctx, id)
}

// Submit stores a student's submission. Resubmission replaces the prior one
// until it is graded; a passed deadline rejects new submissions.
func (s *assignmentServiceImpl) Submit(ctx context.Context, assignmentID, userID int64, body string, fileURL *string) (*models.Submission, error) {
	a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, a.CourseID)
	if err != nil {
		return nil, err
	}
	registered, err := s.registrationRepo.HasRegistrationWithStatus(ctx, userID, course.ID,
		models.RegistrationApproved)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, apperrors.ErrNotRegistered
	}

	if a.IsPastDue(time.Now()) {
		return nil, apperrors.ErrDeadlinePassed
	}

	submission := &models.Submission{
		AssignmentID: assignmentID,
		UserID:       userID,
		Body:         body,
		FileURL:      fileURL,
	}
	if err := s.assignmentRepo.UpsertSubmission(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

func (s *assignmentServiceImpl) GetOwnSubmission(ctx context.Context, assignmentID, userID int64) (*models.Submission, error) {
	return s.assignmentRepo.GetSubmission(ctx, assignmentID, userID)
}

func (s *assignmentServiceImpl) ListSubmissions(ctx context.Context, assignmentID int64, actorID int64, actorRole models.RoleType) ([]*models.Submission, error) {
	a, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, a.CourseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseManage(course, actorID, actorRole); err != nil {
		return nil, err
	}

	return s.assignmentRepo.ListSubmissions(ctx, assignmentID)
}

// Grade records a score and feedback. The score must fit the assignment's
// max score. Re-grading is allowed for trainers.
func (s *assignmentServiceImpl) Grade(ctx context.Context, submissionID int64, score int, feedback string, actorID int64, actorRole models.RoleType) (*models.Submission, error) {
	submission, err := s.assignmentRepo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	a, err := s.assignmentRepo.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, a.CourseID)
	if err != nil {
		return nil, err
	}
	if err := requireCourseManage(course, actorID, actorRole); err != nil {
		return nil, err
	}

	if score < 0 || score > a.MaxScore {
		return nil, apperrors.ErrScoreOutOfRange
	}

	if err := s.assignmentRepo.GradeSubmission(ctx, submissionID, score, feedback, actorID); err != nil {
		return nil, err
	}

	return s.assignmentRepo.GetSubmissionByID(ctx, submissionID)
}
