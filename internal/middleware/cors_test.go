package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"taskcrafter/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const clientOrigin = "http://localhost:3000"

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS(clientOrigin))
	r.GET("/tasks", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestCORS_AllowedOrigin(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Origin", clientOrigin)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, clientOrigin, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ForeignOriginGetsNoHeaders(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Origin", "http://evil.example")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, resp.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", clientOrigin)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNoContent, resp.Code)
	assert.Contains(t, resp.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestCORS_PreflightFromForeignOrigin(t *testing.T) {
	// Arrange
	router := setupRouter()
	req, _ := http.NewRequest(http.MethodOptions, "/tasks", nil)
	req.Header.Set("Origin", "http://evil.example")

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "Origin not allowed")
}
