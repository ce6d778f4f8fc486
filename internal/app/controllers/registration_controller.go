package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/models/dto"
	"github.com/tobi/learnhub/internal/app/services"
	"github.com/tobi/learnhub/internal/middleware"
	"github.com/tobi/learnhub/internal/pkg/helpers"
)

// RegistrationController handles course registration operations
type RegistrationController struct {
	registrationService services.RegistrationService
	logger              zerolog.Logger
}

// NewRegistrationController creates a new RegistrationController
func NewRegistrationController(registrationService services.RegistrationService, logger zerolog.Logger) *RegistrationController {
	return &RegistrationController{
		registrationService: registrationService,
		logger:              logger,
	}
}

// Apply applies the authenticated student to a course
// @Summary Apply to a course
// @Description Creates a PENDING registration. The course must be published and have seats.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRegistrationRequest true "Course to apply to"
// @Success 201 {object} dto.APIResponse{data=dto.RegistrationResponse} "Application created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already registered, course full or unpublished"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /registrations [post]
func (c *RegistrationController) Apply(ctx *gin.Context) {
	var req dto.CreateRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	reg, err := c.registrationService.Apply(ctx.Request.Context(), currentUserID(ctx), req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromRegistration(reg), "Application created"))
}

// ListOwn lists the authenticated user's registrations
// @Summary List own registrations
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.RegistrationResponse} "Registrations"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /registrations/me [get]
func (c *RegistrationController) ListOwn(ctx *gin.Context) {
	regs, err := c.registrationService.ListOwn(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.RegistrationResponse, 0, len(regs))
	for _, reg := range regs {
		items = append(items, dto.FromRegistration(reg))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(items, ""))
}

// ListByCourse lists registrations for one course
// @Summary List registrations for a course
// @Description Lists a course's registrations. Admins see any course, trainers only their own.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED, COMPLETED)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationListResponse} "Registrations"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/registrations [get]
func (c *RegistrationController) ListByCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.registrationService.ListByCourse(ctx.Request.Context(), courseID, ctx.Query("status"),
		page, size, currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	regs := make([]dto.RegistrationResponse, 0, len(list.Registrations))
	for _, reg := range list.Registrations {
		regs = append(regs, dto.FromRegistration(reg))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.RegistrationListResponse{
		Registrations: regs,
		Pagination:    helpers.NewPaginationInfo(list.Total, page, size),
	}, ""))
}

// UpdateStatus moves a registration through its lifecycle
// @Summary Approve, reject or complete a registration
// @Description PENDING registrations can be approved or rejected; APPROVED ones completed. Admins decide for any course, trainers only for their own.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Param request body dto.UpdateRegistrationStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.RegistrationResponse} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /registrations/{id}/status [put]
func (c *RegistrationController) UpdateStatus(ctx *gin.Context) {
	registrationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRegistrationStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	reg, err := c.registrationService.UpdateStatus(ctx.Request.Context(), registrationID,
		models.RegistrationStatus(req.Status), currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("registrationID", registrationID).
		Str("status", req.Status).
		Msg("Registration status updated")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromRegistration(reg), "Status updated"))
}
