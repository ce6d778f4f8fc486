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
	"github.com/tobi/learnhub/internal/pkg/filestorage"
	"github.com/tobi/learnhub/internal/pkg/helpers"
)

// UserController handles profile and user administration operations
type UserController struct {
	userService services.UserService
	fileStorage filestorage.FileStorage
	fileRepo    *repositories.FileRepository
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService, fileStorage filestorage.FileStorage,
	fileRepo *repositories.FileRepository, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		fileStorage: fileStorage,
		fileRepo:    fileRepo,
		logger:      logger,
	}
}

// GetProfile returns the authenticated user's profile
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	user, err := c.userService.GetByID(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toUserResponse(user), ""))
}

// UpdateProfile updates the authenticated user's name
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile data"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	user, err := c.userService.UpdateProfile(ctx.Request.Context(), currentUserID(ctx), req.FirstName, req.LastName)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toUserResponse(user), "Profile updated"))
}

// ChangePassword changes the authenticated user's password
// @Summary Change own password
// @Description Replaces the password and revokes all refresh tokens
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Password change data"
// @Success 200 {object} dto.APIResponse "Password changed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Current password incorrect"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.userService.ChangePassword(ctx.Request.Context(), currentUserID(ctx), req.CurrentPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Password changed"))
}

// UploadProfilePhoto stores a new profile photo for the authenticated user
// @Summary Upload profile photo
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param photo formData file true "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Photo updated"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid file"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me/photo [post]
func (c *UserController) UploadProfilePhoto(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("photo")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Photo file is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	userID := currentUserID(ctx)
	existing, err := c.userService.GetByID(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	photoURL, err := c.fileStorage.SaveFileWithPath(fileHeader, "profile_photos")
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to store profile photo")
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.userService.UpdateProfilePhoto(ctx.Request.Context(), userID, &photoURL); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	recordFileMetadata(ctx, c.fileRepo, fileHeader, photoURL, models.ResourceProfile, userID, userID, c.logger)

	if existing.ProfilePhotoURL != nil && *existing.ProfilePhotoURL != "" {
		if err := c.fileStorage.DeleteFile(*existing.ProfilePhotoURL); err != nil {
			c.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to remove previous profile photo")
		}
	}

	user, err := c.userService.GetByID(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toUserResponse(user), "Photo updated"))
}

// ListUsers lists user accounts
// @Summary List users
// @Description Lists user accounts with optional role and active filters. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role" Enums(ADMIN, TRAINER, STUDENT)
// @Param active query bool false "Filter by active state"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Users"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	var isActive *bool
	if activeStr := ctx.Query("active"); activeStr != "" {
		if active, err := strconv.ParseBool(activeStr); err == nil {
			isActive = &active
		}
	}

	users, total, err := c.userService.List(ctx.Request.Context(), ctx.Query("role"), isActive, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, ""))
}

// SetActive activates or deactivates a user account
// @Summary Activate or deactivate a user
// @Description Deactivation revokes all of the user's refresh tokens. Admin only.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param active query bool true "Target active state"
// @Success 200 {object} dto.APIResponse "Account state updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id}/active [put]
func (c *UserController) SetActive(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	active, err := strconv.ParseBool(ctx.Query("active"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid active parameter")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.userService.SetActive(ctx.Request.Context(), userID, active); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", userID).Bool("active", active).Msg("Account state changed")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, "Account state updated"))
}

// PromoteToTrainer upgrades a student account to the trainer role
// @Summary Promote a user to trainer
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User promoted"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Admin accounts cannot be changed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/{id}/promote [put]
func (c *UserController) PromoteToTrainer(ctx *gin.Context) {
	userID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	user, err := c.userService.PromoteToTrainer(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", userID).Str("role", string(models.RoleTrainer)).Msg("User promoted")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(toUserResponse(user), "User promoted"))
}
