package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/models/dto"
	"github.com/tobi/learnhub/internal/app/services"
	"github.com/tobi/learnhub/internal/middleware"
)

// LiveClassController handles live class scheduling and catch-up sessions
type LiveClassController struct {
	liveClassService services.LiveClassService
	logger           zerolog.Logger
}

// NewLiveClassController creates a new LiveClassController
func NewLiveClassController(liveClassService services.LiveClassService, logger zerolog.Logger) *LiveClassController {
	return &LiveClassController{
		liveClassService: liveClassService,
		logger:           logger,
	}
}

// Create schedules a live class for a course
// @Summary Schedule a live class
// @Description Creates a SCHEDULED live class. Course trainer or admin only.
// @Tags live-classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CreateLiveClassRequest true "Live class data"
// @Success 201 {object} dto.APIResponse{data=dto.LiveClassResponse} "Live class scheduled"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or end before start"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/live-classes [post]
func (c *LiveClassController) Create(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateLiveClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	lc := &models.LiveClass{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		MeetingURL:  req.MeetingURL,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if err := c.liveClassService.Create(ctx.Request.Context(), lc, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromLiveClass(lc), "Live class scheduled"))
}

// ListByCourse lists a course's live classes
// @Summary List live classes for a course
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.LiveClassResponse} "Live classes"
// @Failure 403 {object} dto.ErrorResponse "Not registered for the course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/live-classes [get]
func (c *LiveClassController) ListByCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	classes, err := c.liveClassService.ListByCourse(ctx.Request.Context(), courseID, currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.LiveClassResponse, 0, len(classes))
	for _, lc := range classes {
		items = append(items, dto.FromLiveClass(lc))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(items, ""))
}

// GetByID returns one live class
// @Summary Get a live class
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} dto.APIResponse{data=dto.LiveClassResponse} "Live class"
// @Failure 403 {object} dto.ErrorResponse "Not registered for the course"
// @Failure 404 {object} dto.ErrorResponse "Live class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /live-classes/{id} [get]
func (c *LiveClassController) GetByID(ctx *gin.Context) {
	liveClassID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	lc, err := c.liveClassService.GetByID(ctx.Request.Context(), liveClassID, currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromLiveClass(lc), ""))
}

// Update updates a live class
// @Summary Update a live class
// @Tags live-classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Param request body dto.UpdateLiveClassRequest true "Live class data"
// @Success 200 {object} dto.APIResponse{data=dto.LiveClassResponse} "Live class updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or end before start"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Live class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /live-classes/{id} [put]
func (c *LiveClassController) Update(ctx *gin.Context) {
	liveClassID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLiveClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	lc := &models.LiveClass{
		ID:          liveClassID,
		Title:       req.Title,
		Description: req.Description,
		MeetingURL:  req.MeetingURL,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if err := c.liveClassService.Update(ctx.Request.Context(), lc, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromLiveClass(lc), "Live class updated"))
}

// UpdateStatus starts, ends or cancels a live class
// @Summary Change live class status
// @Description Moves a live class through SCHEDULED -> LIVE -> ENDED, or cancels it. Everyone in the room is notified.
// @Tags live-classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Param request body dto.UpdateLiveClassStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.LiveClassResponse} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Live class not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /live-classes/{id}/status [put]
func (c *LiveClassController) UpdateStatus(ctx *gin.Context) {
	liveClassID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLiveClassStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	lc, err := c.liveClassService.UpdateStatus(ctx.Request.Context(), liveClassID,
		models.LiveClassStatus(req.Status), currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("liveClassID", liveClassID).Str("status", req.Status).Msg("Live class status changed")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromLiveClass(lc), "Status updated"))
}

// Delete removes a live class
// @Summary Delete a live class
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} dto.APIResponse "Live class deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Live class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /live-classes/{id} [delete]
func (c *LiveClassController) Delete(ctx *gin.Context) {
	liveClassID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.liveClassService.Delete(ctx.Request.Context(), liveClassID, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Live class deleted"))
}

// CreateCatchup attaches a recorded catch-up session to a live class
// @Summary Add a catch-up session
// @Description Attaches a recording to a live class. Course trainer or admin only.
// @Tags live-classes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Param request body dto.CreateCatchupRequest true "Catch-up session data"
// @Success 201 {object} dto.APIResponse{data=dto.CatchupResponse} "Catch-up session added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Live class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /live-classes/{id}/catchups [post]
func (c *LiveClassController) CreateCatchup(ctx *gin.Context) {
	liveClassID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateCatchupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	cs := &models.CatchupSession{
		LiveClassID:     liveClassID,
		Title:           req.Title,
		RecordingURL:    req.RecordingURL,
		DurationMinutes: req.DurationMinutes,
	}
	if err := c.liveClassService.CreateCatchup(ctx.Request.Context(), cs, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromCatchup(cs), "Catch-up session added"))
}

// ListCatchups lists the catch-up sessions of a live class
// @Summary List catch-up sessions
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.CatchupResponse} "Catch-up sessions"
// @Failure 403 {object} dto.ErrorResponse "Not registered for the course"
// @Failure 404 {object} dto.ErrorResponse "Live class not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /live-classes/{id}/catchups [get]
func (c *LiveClassController) ListCatchups(ctx *gin.Context) {
	liveClassID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	sessions, err := c.liveClassService.ListCatchups(ctx.Request.Context(), liveClassID, currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.CatchupResponse, 0, len(sessions))
	for _, cs := range sessions {
		items = append(items, dto.FromCatchup(cs))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(items, ""))
}

// DeleteCatchup removes a catch-up session
// @Summary Delete a catch-up session
// @Tags live-classes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Catch-up session ID"
// @Success 200 {object} dto.APIResponse "Catch-up session deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Catch-up session not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /catchups/{id} [delete]
func (c *LiveClassController) DeleteCatchup(ctx *gin.Context) {
	catchupID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.liveClassService.DeleteCatchup(ctx.Request.Context(), catchupID, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Catch-up session deleted"))
}
