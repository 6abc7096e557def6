package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadbase/degree-progress-api/internal/models"
	"github.com/acadbase/degree-progress-api/pkg/config"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims *models.JWTClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func protectedRouter(cfg config.JWTConfig, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := append([]gin.HandlerFunc{JWT(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims, _ := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"student_id": claims.StudentID})
	})
	router.GET("/students/:id", handlers...)
	return router
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	router := protectedRouter(config.JWTConfig{Secret: testSecret})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/s1", nil)
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/students/s1", nil)
	req.Header.Set("Authorization", "Token abc")
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/students/s1", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAcceptsValidToken(t *testing.T) {
	router := protectedRouter(config.JWTConfig{Secret: testSecret})

	token := signToken(t, &models.JWTClaims{
		StudentID: "s1",
		Role:      models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/s1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "s1")
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	router := protectedRouter(config.JWTConfig{Secret: testSecret})

	token := signToken(t, &models.JWTClaims{
		StudentID: "s1",
		Role:      models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/s1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRBACSelfAndAdminAccess(t *testing.T) {
	cfg := config.JWTConfig{Secret: testSecret}
	router := protectedRouter(cfg, RBAC(models.RoleAdmin, "SELF"))

	studentToken := signToken(t, &models.JWTClaims{
		StudentID: "s1",
		Role:      models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	adminToken := signToken(t, &models.JWTClaims{
		StudentID: "admin-1",
		Role:      models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	// A student reaches their own resource.
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/s1", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// But not someone else's.
	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/students/s2", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	// Admins reach everything.
	recorder = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/students/s2", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
