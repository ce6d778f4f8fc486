package services

import (
	"context"

	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/repositories"
)

// StudentOverview aggregates a student's own activity
type StudentOverview struct {
	RegistrationsByStatus map[string]int64
	PendingAssignments    []*models.Assignment
	UpcomingLiveClasses   []*models.LiveClass
}

// TrainerOverview aggregates a trainer's courses and workload
type TrainerOverview struct {
	Courses             []*models.Course
	StudentCount        int64
	UngradedSubmissions int64
	UpcomingLiveClasses []*models.LiveClass
}

// AdminOverview aggregates platform-wide totals
type AdminOverview struct {
	UsersByRole           map[string]int64
	CourseCount           int64
	RegistrationsByStatus map[string]int64
	RevenueKobo           int64
	RecentRegistrations   []*models.Registration
}

// DashboardService builds role-scoped dashboard aggregates
type DashboardService interface {
	StudentOverview(ctx context.Context, userID int64) (*StudentOverview, error)
	TrainerOverview(ctx context.Context, trainerID int64) (*TrainerOverview, error)
	AdminOverview(ctx context.Context) (*AdminOverview, error)
}

const dashboardListLimit = 5

type dashboardServiceImpl struct {
	dashboardRepo *repositories.DashboardRepository
	liveClassRepo *repositories.LiveClassRepository
	courseRepo    *repositories.CourseRepository
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(
	dashboardRepo *repositories.DashboardRepository,
	liveClassRepo *repositories.LiveClassRepository,
	courseRepo *repositories.CourseRepository,
) DashboardService {
	return &dashboardServiceImpl{
		dashboardRepo: dashboardRepo,
		liveClassRepo: liveClassRepo,
		courseRepo:    courseRepo,
	}
}

func (s *dashboardServiceImpl) StudentOverview(ctx context.Context, userID int64) (*StudentOverview, error) {
	byStatus, err := s.dashboardRepo.CountRegistrationsByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	pending, err := s.dashboardRepo.PendingAssignmentsForStudent(ctx, userID, dashboardListLimit)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.liveClassRepo.ListUpcomingForUser(ctx, userID, dashboardListLimit)
	if err != nil {
		return nil, err
	}

	return &StudentOverview{
		RegistrationsByStatus: byStatus,
		PendingAssignments:    pending,
		UpcomingLiveClasses:   upcoming,
	}, nil
}

func (s *dashboardServiceImpl) TrainerOverview(ctx context.Context, trainerID int64) (*TrainerOverview, error) {
	courses, _, err := s.courseRepo.List(ctx, repositories.CourseFilter{TrainerID: &trainerID}, 1, 100)
	if err != nil {
		return nil, err
	}

	studentCount, err := s.dashboardRepo.CountStudentsForTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	ungraded, err := s.dashboardRepo.CountUngradedSubmissionsForTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.liveClassRepo.ListUpcomingForTrainer(ctx, trainerID, dashboardListLimit)
	if err != nil {
		return nil, err
	}

	return &TrainerOverview{
		Courses:             courses,
		StudentCount:        studentCount,
		UngradedSubmissions: ungraded,
		UpcomingLiveClasses: upcoming,
	}, nil
}

func (s *dashboardServiceImpl) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	usersByRole, err := s.dashboardRepo.CountUsersByRole(ctx)
	if err != nil {
		return nil, err
	}

	courseCount, err := s.dashboardRepo.CountCourses(ctx)
	if err != nil {
		return nil, err
	}

	registrationsByStatus, err := s.dashboardRepo.CountRegistrationsByStatus(ctx, 0)
	if err != nil {
		return nil, err
	}

	revenue, err := s.dashboardRepo.TotalRevenueKobo(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.dashboardRepo.RecentRegistrations(ctx, dashboardListLimit)
	if err != nil {
		return nil, err
	}

	return &AdminOverview{
		UsersByRole:           usersByRole,
		CourseCount:           courseCount,
		RegistrationsByStatus: registrationsByStatus,
		RevenueKobo:           revenue,
		RecentRegistrations:   recent,
	}, nil
}
