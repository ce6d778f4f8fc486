package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/app/repositories"
	"github.com/tobi/learnhub/internal/app/services"
	"github.com/tobi/learnhub/internal/pkg/apperrors"
)

// stubCourseService implements services.CourseService for handler tests
type stubCourseService struct {
	services.CourseService

	listPublicFn func(filter repositories.CourseFilter, page, size int) (*services.CourseList, error)
	getBySlugFn  func(slug string) (*models.Course, error)
	getByIDFn    func(id int64) (*models.Course, error)
}

func (s *stubCourseService) ListPublic(_ context.Context, filter repositories.CourseFilter, page, size int) (*services.CourseList, error) {
	return s.listPublicFn(filter, page, size)
}

func (s *stubCourseService) GetBySlug(_ context.Context, slug string) (*models.Course, error) {
	return s.getBySlugFn(slug)
}

func (s *stubCourseService) GetByID(_ context.Context, id int64) (*models.Course, error) {
	return s.getByIDFn(id)
}

func newCourseTestRouter(svc services.CourseService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewCourseController(svc, zerolog.Nop())

	router := gin.New()
	router.GET("/courses", controller.ListPublic)
	router.GET("/courses/slug/:slug", controller.GetBySlug)
	router.GET("/courses/:id", controller.GetByID)
	return router
}

func TestCourseListPublic(t *testing.T) {
	svc := &stubCourseService{
		listPublicFn: func(filter repositories.CourseFilter, page, size int) (*services.CourseList, error) {
			assert.Equal(t, "go", filter.Search)
			assert.Equal(t, 2, page)
			assert.Equal(t, 5, size)
			return &services.CourseList{
				Courses: []*models.Course{
					{ID: 1, Title: "Backend Engineering with Go", Slug: "backend-engineering-with-go", Published: true},
				},
				Total: 6,
			}, nil
		},
	}
	router := newCourseTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/courses?q=go&page=2&size=5", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Courses []struct {
				Slug string `json:"slug"`
			} `json:"courses"`
			Pagination struct {
				TotalItems int64 `json:"totalItems"`
				TotalPages int   `json:"totalPages"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Courses, 1)
	assert.Equal(t, "backend-engineering-with-go", body.Data.Courses[0].Slug)
	assert.Equal(t, int64(6), body.Data.Pagination.TotalItems)
	assert.Equal(t, 2, body.Data.Pagination.TotalPages)
}

func TestCourseGetBySlug(t *testing.T) {
	svc := &stubCourseService{
		getBySlugFn: func(slug string) (*models.Course, error) {
			if slug == "backend-engineering-with-go" {
				return &models.Course{ID: 1, Title: "Backend Engineering with Go", Slug: slug}, nil
			}
			return nil, apperrors.ErrCourseNotFound
		},
	}
	router := newCourseTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/courses/slug/backend-engineering-with-go", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/courses/slug/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseGetByIDRejectsBadParam(t *testing.T) {
	svc := &stubCourseService{
		getByIDFn: func(id int64) (*models.Course, error) {
			return &models.Course{ID: id, Title: "Any"}, nil
		},
	}
	router := newCourseTestRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/courses/not-a-number", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/courses/12", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
