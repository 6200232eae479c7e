package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingModule struct{}

func (pingModule) Register(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("tag")) })
}

func newTestRegistry() *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	reg := NewRegistry(e)
	reg.Use(func(c *gin.Context) { c.Set("tag", "mw"); c.Next() })
	reg.Add(pingModule{})
	reg.RegisterAll()
	return e
}

func TestRegistryMountsUnderAPI(t *testing.T) {
	e := newTestRegistry()

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "mw", w.Body.String())
}

func TestRegistryNotFoundEnvelope(t *testing.T) {
	e := newTestRegistry()

	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "route not found", body["message"])

	w = httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/ping", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
