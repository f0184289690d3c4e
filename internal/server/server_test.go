package server_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskcrafter/internal/config"
	"taskcrafter/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:      "0",
		ClientURL:       "http://localhost:3000",
		StorageDriver:   "memory",
		RelayURL:        "ws://127.0.0.1:1/ws",
		RelayMaxRetries: 0,
		MergePolicy:     "none",
	}
}

func TestInit_WiresRoutes(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	s, err := server.Init(testConfig())
	require.NoError(t, err)

	// Act
	create := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/tasks", strings.NewReader(`{"title":"Wire it"}`))
	req.Header.Set("Content-Type", "application/json")
	s.Engine.ServeHTTP(create, req)

	list := httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/tasks", nil)
	s.Engine.ServeHTTP(list, req)

	sync := httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/sync", nil)
	s.Engine.ServeHTTP(sync, req)

	// Assert
	assert.Equal(t, http.StatusCreated, create.Code)
	assert.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Wire it")
	assert.Equal(t, http.StatusOK, sync.Code)
	assert.Contains(t, sync.Body.String(), `"state":"disconnected"`)
	assert.Len(t, s.Store.Tasks(), 1)
}

func TestInit_SwaggerDoc(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := server.Init(testConfig())
	require.NoError(t, err)

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	s.Engine.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Taskcrafter API")
}

func TestInit_RejectsUnknownMergePolicy(t *testing.T) {
	cfg := testConfig()
	cfg.MergePolicy = "crdt"

	_, err := server.Init(cfg)

	assert.Error(t, err)
}

func TestInit_RejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StorageDriver = "mongo"

	_, err := server.Init(cfg)

	assert.Error(t, err)
}
