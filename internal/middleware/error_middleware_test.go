package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
)

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "validation failed", err: apperrors.ErrValidationFailed, wantCode: http.StatusBadRequest},
		{name: "bad request", err: apperrors.ErrBadRequest, wantCode: http.StatusBadRequest},
		{name: "score out of range", err: apperrors.ErrScoreOutOfRange, wantCode: http.StatusBadRequest},
		{name: "invalid credentials", err: apperrors.ErrInvalidCredentials, wantCode: http.StatusUnauthorized},
		{name: "token expired", err: apperrors.ErrTokenExpired, wantCode: http.StatusUnauthorized},
		{name: "token revoked", err: apperrors.ErrTokenRevoked, wantCode: http.StatusUnauthorized},
		{name: "invalid webhook signature", err: apperrors.ErrInvalidSignature, wantCode: http.StatusUnauthorized},
		{name: "payment not successful", err: apperrors.ErrPaymentNotSuccessful, wantCode: http.StatusPaymentRequired},
		{name: "permission denied", err: apperrors.ErrPermissionDenied, wantCode: http.StatusForbidden},
		{name: "account disabled", err: apperrors.ErrAccountDisabled, wantCode: http.StatusForbidden},
		{name: "not registered", err: apperrors.ErrNotRegistered, wantCode: http.StatusForbidden},
		{name: "course not found", err: apperrors.ErrCourseNotFound, wantCode: http.StatusNotFound},
		{name: "story not found", err: apperrors.ErrStoryNotFound, wantCode: http.StatusNotFound},
		{name: "submission not found", err: apperrors.ErrSubmissionNotFound, wantCode: http.StatusNotFound},
		{name: "email already exists", err: apperrors.ErrEmailAlreadyExists, wantCode: http.StatusConflict},
		{name: "already registered", err: apperrors.ErrAlreadyRegistered, wantCode: http.StatusConflict},
		{name: "invalid transition", err: apperrors.ErrInvalidTransition, wantCode: http.StatusConflict},
		{name: "course full", err: apperrors.ErrCourseFull, wantCode: http.StatusConflict},
		{name: "deadline passed", err: apperrors.ErrDeadlinePassed, wantCode: http.StatusConflict},
		{name: "already graded", err: apperrors.ErrAlreadyGraded, wantCode: http.StatusConflict},
		{name: "unknown error", err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/", nil)

			HandleAPIError(c, tt.err)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestHandleAPIErrorWrappedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	wrapped := apperrors.NewCustomError(apperrors.ErrCourseNotFound, "course 42 not found")
	HandleAPIError(c, wrapped)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "course 42 not found")
}

func TestHandleAPIErrorCustomMessagePropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)

	HandleAPIError(c, apperrors.NewBadRequestError("class must end after it starts"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "class must end after it starts")
}
