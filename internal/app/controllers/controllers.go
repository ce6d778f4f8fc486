// Package controllers handles HTTP request handling
package controllers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/models/dto"
	"github.com/tobi/learnhub/internal/app/repositories"
)

// currentUserID returns the authenticated user ID set by the auth middleware.
// Zero means the request is anonymous.
func currentUserID(ctx *gin.Context) int64 {
	if v, exists := ctx.Get("userID"); exists {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// currentRole returns the authenticated user's role, empty when anonymous
func currentRole(ctx *gin.Context) models.RoleType {
	if v, exists := ctx.Get("roleType"); exists {
		if role, ok := v.(string); ok {
			return models.RoleType(role)
		}
	}
	return ""
}

// parseIDParam reads a positive int64 path parameter. On failure it writes a
// 400 response and returns false.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// recordFileMetadata stores a metadata row for an uploaded file. Failures are
// logged, not surfaced; the upload itself already succeeded.
func recordFileMetadata(ctx *gin.Context, fileRepo *repositories.FileRepository, header *multipart.FileHeader,
	fileURL string, resourceType models.FileResourceType, resourceID, uploadedBy int64, logger zerolog.Logger) {
	record := &models.File{
		FileName:     header.Filename,
		FileURL:      fileURL,
		FileSize:     header.Size,
		FileType:     header.Header.Get("Content-Type"),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		UploadedBy:   uploadedBy,
	}
	if err := fileRepo.Create(ctx.Request.Context(), record); err != nil {
		logger.Warn().Err(err).Str("fileURL", fileURL).Msg("Failed to record file metadata")
	}
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Role:            string(user.RoleType),
		IsActive:        user.IsActive,
		ProfilePhotoURL: user.ProfilePhotoURL,
	}
}
