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

// MaterialController handles course material operations
type MaterialController struct {
	materialService services.MaterialService
	fileStorage     filestorage.FileStorage
	fileRepo        *repositories.FileRepository
	logger          zerolog.Logger
}

// NewMaterialController creates a new MaterialController
func NewMaterialController(materialService services.MaterialService, fileStorage filestorage.FileStorage,
	fileRepo *repositories.FileRepository, logger zerolog.Logger) *MaterialController {
	return &MaterialController{
		materialService: materialService,
		fileStorage:     fileStorage,
		fileRepo:        fileRepo,
		logger:          logger,
	}
}

// Create adds a material to a course
// @Summary Add a course material
// @Description Adds a material. FILE kind expects a multipart upload in the "file" field; LINK and VIDEO kinds take a URL. Course trainer or admin only.
// @Tags materials
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param title formData string true "Material title"
// @Param kind formData string true "Material kind" Enums(FILE, LINK, VIDEO)
// @Param url formData string false "URL for LINK and VIDEO kinds"
// @Param position formData int false "Ordering position, 0 appends"
// @Param file formData file false "File for FILE kind"
// @Success 201 {object} dto.APIResponse{data=dto.MaterialResponse} "Material added"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/materials [post]
func (c *MaterialController) Create(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateMaterialRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	material := &models.Material{
		CourseID: courseID,
		Title:    req.Title,
		Kind:     models.MaterialKind(req.Kind),
		URL:      req.URL,
		Position: req.Position,
	}

	if material.Kind == models.MaterialFile {
		header, err := ctx.FormFile("file")
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "FILE materials require a file upload")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		savedURL, err := c.fileStorage.SaveFileWithPath(header, "materials")
		if err != nil {
			c.logger.Error().Err(err).Msg("Failed to store material file")
			middleware.HandleAPIError(ctx, err)
			return
		}
		material.URL = savedURL

		if err := c.materialService.Create(ctx.Request.Context(), material, currentUserID(ctx), currentRole(ctx)); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		recordFileMetadata(ctx, c.fileRepo, header, savedURL, models.ResourceMaterial, material.ID, currentUserID(ctx), c.logger)
	} else {
		if material.URL == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "LINK and VIDEO materials require a url")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		if err := c.materialService.Create(ctx.Request.Context(), material, currentUserID(ctx), currentRole(ctx)); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromMaterial(material), "Material added"))
}

// ListByCourse lists a course's materials
// @Summary List materials for a course
// @Description Lists materials ordered by position. Requires an approved registration, or course trainer/admin.
// @Tags materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.MaterialResponse} "Materials"
// @Failure 403 {object} dto.ErrorResponse "Not registered for the course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/materials [get]
func (c *MaterialController) ListByCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	materials, err := c.materialService.ListByCourse(ctx.Request.Context(), courseID, currentUserID(ctx), currentRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.MaterialResponse, 0, len(materials))
	for _, m := range materials {
		items = append(items, dto.FromMaterial(m))
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(items, ""))
}

// Update updates a material
// @Summary Update a material
// @Tags materials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Param request body dto.UpdateMaterialRequest true "Material data"
// @Success 200 {object} dto.APIResponse{data=dto.MaterialResponse} "Material updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /materials/{id} [put]
func (c *MaterialController) Update(ctx *gin.Context) {
	materialID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaterialRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	material := &models.Material{
		ID:       materialID,
		Title:    req.Title,
		URL:      req.URL,
		Position: req.Position,
	}
	if err := c.materialService.Update(ctx.Request.Context(), material, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromMaterial(material), "Material updated"))
}

// Delete removes a material
// @Summary Delete a material
// @Tags materials
// @Produce json
// @Security BearerAuth
// @Param id path int true "Material ID"
// @Success 200 {object} dto.APIResponse "Material deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the course trainer"
// @Failure 404 {object} dto.ErrorResponse "Material not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /materials/{id} [delete]
func (c *MaterialController) Delete(ctx *gin.Context) {
	materialID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.materialService.Delete(ctx.Request.Context(), materialID, currentUserID(ctx), currentRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Material deleted"))
}
