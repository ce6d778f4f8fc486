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
	"github.com/tobi/learnhub/internal/pkg/helpers"
)

// StoryController handles story publishing operations
type StoryController struct {
	storyService services.StoryService
	fileStorage  filestorage.FileStorage
	fileRepo     *repositories.FileRepository
	logger       zerolog.Logger
}

// NewStoryController creates a new StoryController
func NewStoryController(storyService services.StoryService, fileStorage filestorage.FileStorage,
	fileRepo *repositories.FileRepository, logger zerolog.Logger) *StoryController {
	return &StoryController{
		storyService: storyService,
		fileStorage:  fileStorage,
		fileRepo:     fileRepo,
		logger:       logger,
	}
}

func toStoryListResponse(list *services.StoryList, page, size int) dto.StoryListResponse {
	stories := make([]dto.StoryResponse, 0, len(list.Stories))
	for _, story := range list.Stories {
		resp := dto.FromStory(story)
		// List views carry the summary only
		resp.Body = ""
		stories = append(stories, resp)
	}
	return dto.StoryListResponse{
		Stories:    stories,
		Pagination: helpers.NewPaginationInfo(list.Total, page, size),
	}
}

// ListPublished lists published stories
// @Summary Browse published stories
// @Description Lists published stories, newest first. Public endpoint.
// @Tags stories
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.StoryListResponse} "Stories"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stories [get]
func (c *StoryController) ListPublished(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.storyService.ListPublished(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toStoryListResponse(list, page, size), ""))
}

// GetBySlug returns a story by slug
// @Summary Get a story by slug
// @Description Returns a story. Drafts and archived stories are visible only to their author and admins.
// @Tags stories
// @Produce json
// @Param slug path string true "Story slug"
// @Success 200 {object} dto.APIResponse{data=dto.StoryResponse} "Story"
// @Failure 404 {object} dto.ErrorResponse "Story not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stories/{slug} [get]
func (c *StoryController) GetBySlug(ctx *gin.Context) {
	story, err := c.storyService.GetBySlug(ctx.Request.Context(), ctx.Param("slug"), currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromStory(story), ""))
}

// Create creates a draft story
// @Summary Create a story
// @Description Creates a DRAFT story owned by the caller. Trainer and admin only.
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStoryRequest true "Story data"
// @Success 201 {object} dto.APIResponse{data=dto.StoryResponse} "Story created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Trainer or admin role required"
// @Failure 409 {object} dto.ErrorResponse "Slug already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stories [post]
func (c *StoryController) Create(ctx *gin.Context) {
	var req dto.CreateStoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	story := &models.Story{
		AuthorID: currentUserID(ctx),
		Title:    req.Title,
		Slug:     req.Slug,
		Summary:  req.Summary,
		Body:     req.Body,
	}
	if err := c.storyService.Create(ctx.Request.Context(), story); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromStory(story), "Story created"))
}

// ListOwn lists the caller's stories in any status
// @Summary List own stories
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.StoryListResponse} "Stories"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stories/me [get]
func (c *StoryController) ListOwn(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.storyService.ListOwn(ctx.Request.Context(), currentUserID(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toStoryListResponse(list, page, size), ""))
}

// ListAll lists every story regardless of status
// @Summary List all stories
// @Description Lists stories in any status with an optional filter. Admin only.
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(DRAFT, PUBLISHED, ARCHIVED)
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.StoryListResponse} "Stories"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stories/all [get]
func (c *StoryController) ListAll(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	list, err := c.storyService.ListAll(ctx.Request.Context(), ctx.Query("status"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toStoryListResponse(list, page, size), ""))
}

// Update updates a story's content
// @Summary Update a story
// @Description Updates story content. Author or admin only.
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Param request body dto.UpdateStoryRequest true "Story data"
// @Success 200 {object} dto.APIResponse{data=dto.StoryResponse} "Story updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Not the story author"
// @Failure 404 {object} dto.ErrorResponse "Story not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stories/{id} [put]
func (c *StoryController) Update(ctx *gin.Context) {
	storyID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	story := &models.Story{
		ID:      storyID,
		Title:   req.Title,
		Summary: req.Summary,
		Body:    req.Body,
	}
	if err := c.storyService.Update(ctx.Request.Context(), story, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromStory(story), "Story updated"))
}

// UploadCover stores a cover image for a story
// @Summary Upload a story cover image
// @Tags stories
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Param cover formData file true "Cover image"
// @Success 200 {object} dto.APIResponse{data=dto.StoryResponse} "Cover updated"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Failure 403 {object} dto.ErrorResponse "Not the story author"
// @Failure 404 {object} dto.ErrorResponse "Story not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stories/{id}/cover [post]
func (c *StoryController) UploadCover(ctx *gin.Context) {
	storyID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("cover")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Cover file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	coverURL, err := c.fileStorage.SaveFileWithPath(fileHeader, "story_covers")
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to store story cover")
		middleware.HandleAPIError(ctx, err)
		return
	}

	actorID := currentUserID(ctx)
	story, err := c.storyService.SetCover(ctx.Request.Context(), storyID, coverURL, actorID, currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	recordFileMetadata(ctx, c.fileRepo, fileHeader, coverURL, models.ResourceStory, storyID, actorID, c.logger)

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromStory(story), "Cover updated"))
}

// UpdateStatus publishes, unpublishes or archives a story
// @Summary Change story status
// @Description Moves a story between DRAFT, PUBLISHED and ARCHIVED. Author or admin only.
// @Tags stories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Param request body dto.UpdateStoryStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.StoryResponse} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Not the story author"
// @Failure 404 {object} dto.ErrorResponse "Story not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stories/{id}/status [put]
func (c *StoryController) UpdateStatus(ctx *gin.Context) {
	storyID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStoryStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	story, err := c.storyService.UpdateStatus(ctx.Request.Context(), storyID,
		models.StoryStatus(req.Status), currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("storyID", storyID).Str("status", req.Status).Msg("Story status changed")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromStory(story), "Status updated"))
}

// Delete removes a story
// @Summary Delete a story
// @Tags stories
// @Produce json
// @Security BearerAuth
// @Param id path int true "Story ID"
// @Success 200 {object} dto.APIResponse "Story deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the story author"
// @Failure 404 {object} dto.ErrorResponse "Story not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stories/{id} [delete]
func (c *StoryController) Delete(ctx *gin.Context) {
	storyID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.storyService.Delete(ctx.Request.Context(), storyID, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Story deleted"))
}
