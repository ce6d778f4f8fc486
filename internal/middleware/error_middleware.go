package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tobi/learnhub/internal/app/models/dto"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses. Controllers call
// it with any error bubbling up from the service layer.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	message := err.Error()
	if errors.As(err, &customErr) && customErr.Message != "" {
		message = customErr.Message
	}

	switch {
	// 400
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrScoreOutOfRange):
		respond(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message)

	// 401
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrInvalidFormat),
		errors.Is(err, apperrors.ErrTokenRevoked):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, message)
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrInvalidSignature):
		respond(c, http.StatusUnauthorized, dto.ErrorCodeInvalidSignature, "Invalid webhook signature")

	// 403
	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrAccountDisabled),
		errors.Is(err, apperrors.ErrNotRegistered):
		respond(c, http.StatusForbidden, dto.ErrorCodeForbidden, message)

	// 404
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrRegistrationNotFound),
		errors.Is(err, apperrors.ErrPaymentNotFound),
		errors.Is(err, apperrors.ErrAssignmentNotFound),
		errors.Is(err, apperrors.ErrSubmissionNotFound),
		errors.Is(err, apperrors.ErrLiveClassNotFound),
		errors.Is(err, apperrors.ErrCatchupNotFound),
		errors.Is(err, apperrors.ErrStoryNotFound),
		errors.Is(err, apperrors.ErrMaterialNotFound),
		errors.Is(err, apperrors.ErrFileNotFound):
		respond(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message)

	// 409
	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrCourseAlreadyExists),
		errors.Is(err, apperrors.ErrStoryAlreadyExists),
		errors.Is(err, apperrors.ErrAlreadyRegistered):
		respond(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message)
	case errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrCourseFull),
		errors.Is(err, apperrors.ErrCourseNotPublished),
		errors.Is(err, apperrors.ErrCourseHasRelations),
		errors.Is(err, apperrors.ErrAlreadyGraded),
		errors.Is(err, apperrors.ErrDeadlinePassed):
		respond(c, http.StatusConflict, dto.ErrorCodeConflict, message)

	// 402
	case errors.Is(err, apperrors.ErrPaymentNotSuccessful):
		respond(c, http.StatusPaymentRequired, dto.ErrorCodePaymentFailed, "Payment was not successful")

	default:
		respond(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respond(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
