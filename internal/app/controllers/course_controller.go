package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/models/dto"
	"github.com/tobi/learnhub/internal/app/repositories"
	"github.com/tobi/learnhub/internal/app/services"
	"github.com/tobi/learnhub/internal/middleware"
	"github.com/tobi/learnhub/internal/pkg/helpers"
)

// CourseController handles course catalog operations
type CourseController struct {
	courseService services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

func courseFilterFromQuery(ctx *gin.Context) repositories.CourseFilter {
	filter := repositories.CourseFilter{
		Search:   ctx.Query("q"),
		Category: ctx.Query("category"),
		Level:    ctx.Query("level"),
	}
	if trainerStr := ctx.Query("trainerId"); trainerStr != "" {
		if trainerID, err := strconv.ParseInt(trainerStr, 10, 64); err == nil && trainerID > 0 {
			filter.TrainerID = &trainerID
		}
	}
	return filter
}

func toCourseListResponse(list *services.CourseList, page, size int) dto.CourseListResponse {
	courses := make([]dto.CourseResponse, 0, len(list.Courses))
	for _, course := range list.Courses {
		courses = append(courses, dto.FromCourse(course))
	}
	return dto.CourseListResponse{
		Courses:    courses,
		Pagination: helpers.NewPaginationInfo(list.Total, page, size),
	}
}

// ListPublic lists the published course catalog
// @Summary Browse the course catalog
// @Description Lists published courses with search and filters. Public endpoint.
// @Tags courses
// @Produce json
// @Param q query string false "Search in titles"
// @Param category query string false "Filter by category"
// @Param level query string false "Filter by level" Enums(BEGINNER, INTERMEDIATE, ADVANCED)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) ListPublic(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.courseService.ListPublic(ctx.Request.Context(), courseFilterFromQuery(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toCourseListResponse(list, page, size), ""))
}

// ListAll lists all courses including unpublished ones
// @Summary List all courses
// @Description Lists every course regardless of published state. Trainer and admin only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search in titles"
// @Param category query string false "Filter by category"
// @Param level query string false "Filter by level" Enums(BEGINNER, INTERMEDIATE, ADVANCED)
// @Param trainerId query int false "Filter by trainer"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses"
// @Failure 403 {object} dto.ErrorResponse "Trainer or admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/all [get]
func (c *CourseController) ListAll(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	filter := courseFilterFromQuery(ctx)
	// Trainers only see their own courses; admins see everything
	if currentRole(ctx) == models.RoleTrainer {
		trainerID := currentUserID(ctx)
		filter.TrainerID = &trainerID
	}

	list, err := c.courseService.List(ctx.Request.Context(), filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toCourseListResponse(list, page, size), ""))
}

// GetBySlug returns a course by its slug
// @Summary Get a course by slug
// @Tags courses
// @Produce json
// @Param slug path string true "Course slug"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/slug/{slug} [get]
func (c *CourseController) GetBySlug(ctx *gin.Context) {
	course, err := c.courseService.GetBySlug(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromCourse(course), ""))
}

// GetByID returns a course by ID
// @Summary Get a course by ID
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [get]
func (c *CourseController) GetByID(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.courseService.GetByID(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromCourse(course), ""))
}

// Create creates a course
// @Summary Create a course
// @Description Creates an unpublished course. Admin only.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course data"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 409 {object} dto.ErrorResponse "Slug already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	course := &models.Course{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Category:    req.Category,
		Level:       req.Level,
		PriceKobo:   req.PriceKobo,
		MaxSeats:    req.MaxSeats,
		TrainerID:   req.TrainerID,
		StartsAt:    req.StartsAt,
	}
	if err := c.courseService.Create(ctx.Request.Context(), course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("courseID", course.ID).Str("slug", course.Slug).Msg("Course created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromCourse(course), "Course created"))
}

// Update updates a course
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Course data"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	course := &models.Course{
		ID:          courseID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Level:       req.Level,
		PriceKobo:   req.PriceKobo,
		MaxSeats:    req.MaxSeats,
		TrainerID:   req.TrainerID,
		StartsAt:    req.StartsAt,
	}
	if err := c.courseService.Update(ctx.Request.Context(), course); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.courseService.GetByID(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromCourse(updated), "Course updated"))
}

// SetPublished publishes or unpublishes a course
// @Summary Publish or unpublish a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param published query bool true "Target published state"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Course updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/published [put]
func (c *CourseController) SetPublished(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	published, err := strconv.ParseBool(ctx.Query("published"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid published parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	course, err := c.courseService.SetPublished(ctx.Request.Context(), courseID, published)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("courseID", courseID).Bool("published", published).Msg("Course publish state changed")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromCourse(course), "Course updated"))
}

// AssignTrainer assigns a trainer to a course
// @Summary Assign a trainer to a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.AssignTrainerRequest true "Trainer assignment"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse} "Trainer assigned"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or user is not a trainer"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Course or trainer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/trainer [put]
func (c *CourseController) AssignTrainer(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AssignTrainerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	course, err := c.courseService.AssignTrainer(ctx.Request.Context(), courseID, &req.TrainerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromCourse(course), "Trainer assigned"))
}

// Delete removes a course
// @Summary Delete a course
// @Description Deletes a course that has no registrations. Admin only.
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Course deleted"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course has registrations"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.courseService.Delete(ctx.Request.Context(), courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("courseID", courseID).Msg("Course deleted")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Course deleted"))
}
