package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tobi/learnhub/internal/app/models/dto"
	"github.com/tobi/learnhub/internal/app/services"
	"github.com/tobi/learnhub/internal/middleware"
)

// DashboardController serves role-scoped dashboard aggregates
type DashboardController struct {
	dashboardService services.DashboardService
	logger           zerolog.Logger
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService services.DashboardService, logger zerolog.Logger) *DashboardController {
	return &DashboardController{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Student returns the student dashboard
// @Summary Student dashboard
// @Description Own registration counts, pending assignments and upcoming live classes
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentDashboard} "Dashboard"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboards/student [get]
func (c *DashboardController) Student(ctx *gin.Context) {
	overview, err := c.dashboardService.StudentOverview(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.StudentDashboard{
		RegistrationsByStatus: overview.RegistrationsByStatus,
		PendingAssignments:    make([]dto.AssignmentResponse, 0, len(overview.PendingAssignments)),
		UpcomingLiveClasses:   make([]dto.LiveClassResponse, 0, len(overview.UpcomingLiveClasses)),
	}
	for _, a := range overview.PendingAssignments {
		resp.PendingAssignments = append(resp.PendingAssignments, dto.FromAssignment(a))
	}
	for _, lc := range overview.UpcomingLiveClasses {
		resp.UpcomingLiveClasses = append(resp.UpcomingLiveClasses, dto.FromLiveClass(lc))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, ""))
}

// Trainer returns the trainer dashboard
// @Summary Trainer dashboard
// @Description Own courses, student count, ungraded submissions and upcoming live classes
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TrainerDashboard} "Dashboard"
// @Failure 403 {object} dto.ErrorResponse "Trainer role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboards/trainer [get]
func (c *DashboardController) Trainer(ctx *gin.Context) {
	overview, err := c.dashboardService.TrainerOverview(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.TrainerDashboard{
		Courses:             make([]dto.CourseResponse, 0, len(overview.Courses)),
		StudentCount:        overview.StudentCount,
		UngradedSubmissions: overview.UngradedSubmissions,
		UpcomingLiveClasses: make([]dto.LiveClassResponse, 0, len(overview.UpcomingLiveClasses)),
	}
	for _, course := range overview.Courses {
		resp.Courses = append(resp.Courses, dto.FromCourse(course))
	}
	for _, lc := range overview.UpcomingLiveClasses {
		resp.UpcomingLiveClasses = append(resp.UpcomingLiveClasses, dto.FromLiveClass(lc))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, ""))
}

// Admin returns the platform-wide dashboard
// @Summary Admin dashboard
// @Description Platform totals: users by role, courses, registrations by status, revenue and recent activity
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminDashboard} "Dashboard"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboards/admin [get]
func (c *DashboardController) Admin(ctx *gin.Context) {
	overview, err := c.dashboardService.AdminOverview(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.AdminDashboard{
		UsersByRole:           overview.UsersByRole,
		CourseCount:           overview.CourseCount,
		RegistrationsByStatus: overview.RegistrationsByStatus,
		RevenueKobo:           overview.RevenueKobo,
		RecentRegistrations:   make([]dto.RegistrationResponse, 0, len(overview.RecentRegistrations)),
	}
	for _, reg := range overview.RecentRegistrations {
		resp.RecentRegistrations = append(resp.RecentRegistrations, dto.FromRegistration(reg))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp, ""))
}
