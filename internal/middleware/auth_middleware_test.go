package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobi/learnhub/internal/app/models"
	"github.com/tobi/learnhub/internal/pkg/auth"
)

func newTestJWTService(accessExp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "learnhub.test",
	})
}

func tokenFor(t *testing.T, svc *auth.JWTService, role models.RoleType) string {
	t.Helper()
	accessToken, _, _, _, err := svc.GenerateTokenPair(&models.User{
		ID:       7,
		Email:    "ada@learnhub.ng",
		RoleType: role,
	})
	require.NoError(t, err)
	return accessToken
}

func setupRouter(mw *AuthMiddleware, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := append([]gin.HandlerFunc{mw.JWTAuth()}, handlers...)
	router.GET("/protected", chain...)
	return router
}

func TestJWTAuthValidToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	mw := NewAuthMiddleware(svc)

	var gotUserID int64
	var gotRole string
	router := setupRouter(mw, func(c *gin.Context) {
		v, _ := c.Get("userID")
		gotUserID, _ = v.(int64)
		r, _ := c.Get("roleType")
		gotRole, _ = r.(string)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, svc, models.RoleStudent))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), gotUserID)
	assert.Equal(t, "STUDENT", gotRole)
}

func TestJWTAuthQueryTokenFallback(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	mw := NewAuthMiddleware(svc)
	router := setupRouter(mw, func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/protected?token="+tokenFor(t, svc, models.RoleStudent), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	mw := NewAuthMiddleware(svc)
	router := setupRouter(mw, func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		header string
	}{
		{name: "no header"},
		{name: "wrong scheme", header: "Basic abc"},
		{name: "garbage token", header: "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	expired := newTestJWTService(-time.Minute)
	mw := NewAuthMiddleware(expired)
	router := setupRouter(mw, func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, expired, models.RoleStudent))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestRoleRequired(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	mw := NewAuthMiddleware(svc)
	router := setupRouter(mw, mw.RoleRequired("TRAINER", "ADMIN"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name     string
		role     models.RoleType
		wantCode int
	}{
		{name: "student forbidden", role: models.RoleStudent, wantCode: http.StatusForbidden},
		{name: "trainer allowed", role: models.RoleTrainer, wantCode: http.StatusOK},
		{name: "admin allowed", role: models.RoleAdmin, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, svc, tt.role))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestOptionalJWTAuth(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	mw := NewAuthMiddleware(svc)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/maybe", mw.OptionalJWTAuth(), func(c *gin.Context) {
		if v, ok := c.Get("userID"); ok {
			c.JSON(http.StatusOK, gin.H{"userID": v})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userID": nil})
	})

	// Anonymous request passes through
	req := httptest.NewRequest("GET", "/maybe", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")

	// Invalid token is ignored, not rejected
	req = httptest.NewRequest("GET", "/maybe", nil)
	req.Header.Set("Authorization", "Bearer junk")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Valid token sets the actor
	req = httptest.NewRequest("GET", "/maybe", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, svc, models.RoleStudent))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "7")
}
