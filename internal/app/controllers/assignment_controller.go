package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/models/dto"
	"github.com/tobi/learnhub/internal/app/repositories"
	"github.com/tobi/learnhub/internal/app/services"
	"github.com/tobi/learnhub/internal/middleware"
	"github.com/tobi/learnhub/internal/pkg/filestorage"
)

// AssignmentController handles assignment and submission operations
type AssignmentController struct {
	assignmentService services.AssignmentService
	fileStorage       filestorage.FileStorage
	fileRepo          *repositories.FileRepository
	logger            zerolog.Logger
}

// NewAssignmentController creates a new AssignmentController
func NewAssignmentController(assignmentService services.AssignmentService, fileStorage filestorage.FileStorage,
	fileRepo *repositories.FileRepository, logger zerolog.Logger) *AssignmentController {
	return &AssignmentController{
		assignmentService: assignmentService,
		fileStorage:       fileStorage,
		fileRepo:          fileRepo,
		logger:            logger,
	}
}

// Create creates an assignment under a course
// @Summary Create an assignment
// @Description Creates an assignment for a course. Course trainer or admin only.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CreateAssignmentRequest true "Assignment data"
// @Success 201 {object} dto.APIResponse{data=dto.AssignmentResponse} "Assignment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	assignment := &models.Assignment{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		MaxScore:    req.MaxScore,
	}
	if req.FileURL != "" {
		assignment.FileURL = &req.FileURL
	}

	if err := c.assignmentService.Create(ctx.Request.Context(), assignment, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromAssignment(assignment), "Assignment created"))
}

// ListByCourse lists a course's assignments
// @Summary List assignments for a course
// @Description Lists assignments. Requires an approved registration, or course trainer/admin.
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.AssignmentResponse} "Assignments"
// @Failure 403 {object} dto.ErrorResponse "Not registered for the course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/assignments [get]
func (c *AssignmentController) ListByCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	assignments, err := c.assignmentService.ListByCourse(ctx.Request.Context(), courseID, currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, dto.FromAssignment(a))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(items, ""))
}

// GetByID returns one assignment
// @Summary Get an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentResponse} "Assignment"
// @Failure 403 {object} dto.ErrorResponse "Not registered for the course"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id} [get]
func (c *AssignmentController) GetByID(ctx *gin.Context) {
	assignmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	assignment, err := c.assignmentService.GetByID(ctx.Request.Context(), assignmentID, currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromAssignment(assignment), ""))
}

// Update updates an assignment
// @Summary Update an assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param request body dto.UpdateAssignmentRequest true "Assignment data"
// @Success 200 {object} dto.APIResponse{data=dto.AssignmentResponse} "Assignment updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id} [put]
func (c *AssignmentController) Update(ctx *gin.Context) {
	assignmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	assignment := &models.Assignment{
		ID:          assignmentID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		MaxScore:    req.MaxScore,
	}
	if req.FileURL != "" {
		assignment.FileURL = &req.FileURL
	}

	if err := c.assignmentService.Update(ctx.Request.Context(), assignment, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromAssignment(assignment), "Assignment updated"))
}

// Delete removes an assignment
// @Summary Delete an assignment
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse "Assignment deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	assignmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.assignmentService.Delete(ctx.Request.Context(), assignmentID, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Assignment deleted"))
}

// Submit stores the authenticated student's submission
// @Summary Submit an assignment
// @Description Accepts a text body and an optional file as multipart form data. Resubmission replaces the prior one until graded.
// @Tags assignments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Param body formData string false "Submission text"
// @Param file formData file false "Submission file"
// @Success 201 {object} dto.APIResponse{data=dto.SubmissionResponse} "Submission stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Not registered for the course"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 409 {object} dto.ErrorResponse "Deadline passed or already graded"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id}/submissions [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	assignmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitAssignmentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	var fileURL *string
	fileHeader, err := ctx.FormFile("file")
	if err == nil && fileHeader != nil {
		savedURL, err := c.fileStorage.SaveFileWithPath(fileHeader, "submissions")
		if err != nil {
			c.logger.Error().Err(err).Msg("Failed to store submission file")
			middleware.HandleAPIError(ctx, err)
			return
		}
		fileURL = &savedURL
	}

	if req.Body == "" && fileURL == nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A submission needs a body or a file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	userID := currentUserID(ctx)
	submission, err := c.assignmentService.Submit(ctx.Request.Context(), assignmentID, userID, req.Body, fileURL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if fileHeader != nil && fileURL != nil {
		recordFileMetadata(ctx, c.fileRepo, fileHeader, *fileURL, models.ResourceSubmission, submission.ID, userID, c.logger)
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromSubmission(submission), "Submission stored"))
}

// GetOwnSubmission returns the authenticated student's submission
// @Summary Get own submission
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SubmissionResponse} "Submission"
// @Failure 404 {object} dto.ErrorResponse "No submission yet"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id}/submissions/me [get]
func (c *AssignmentController) GetOwnSubmission(ctx *gin.Context) {
	assignmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	submission, err := c.assignmentService.GetOwnSubmission(ctx.Request.Context(), assignmentID, currentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromSubmission(submission), ""))
}

// ListSubmissions lists all submissions for an assignment
// @Summary List submissions
// @Description Lists every submission for an assignment. Course trainer or admin only.
// @Tags assignments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.SubmissionResponse} "Submissions"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /assignments/{id}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	assignmentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	submissions, err := c.assignmentService.ListSubmissions(ctx.Request.Context(), assignmentID, currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, s := range submissions {
		items = append(items, dto.FromSubmission(s))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(items, ""))
}

// Grade grades a submission
// @Summary Grade a submission
// @Description Records a score and feedback. The score must not exceed the assignment max score. Re-grading is allowed.
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body dto.GradeSubmissionRequest true "Grade data"
// @Success 200 {object} dto.APIResponse{data=dto.SubmissionResponse} "Submission graded"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 409 {object} dto.ErrorResponse "Score out of range"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /submissions/{id}/grade [put]
func (c *AssignmentController) Grade(ctx *gin.Context) {
	submissionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.GradeSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	submission, err := c.assignmentService.Grade(ctx.Request.Context(), submissionID, req.Score, req.Feedback,
		currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("submissionID", submissionID).Int("score", req.Score).Msg("Submission graded")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromSubmission(submission), "Submission graded"))
}
