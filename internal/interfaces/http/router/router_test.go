package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dms/backend/internal/interfaces/http/middleware"
)

type pingRegistrar struct{}

func (pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
}

type probeRegistrar struct{}

func (probeRegistrar) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
}

func TestRouter_RegistersUnderVersionedGroup(t *testing.T) {
	r := New(Config{
		ServiceName: "dms-test",
		Mode:        gin.TestMode,
		CORS:        middleware.DefaultCORSConfig(),
	})
	r.Register(pingRegistrar{})

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	// bare path is not mounted
	w = httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SystemRoutesOutsideGroup(t *testing.T) {
	r := New(Config{Mode: gin.TestMode, CORS: middleware.DefaultCORSConfig()})
	r.RegisterSystem(probeRegistrar{})

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AttachesRequestID(t *testing.T) {
	r := New(Config{Mode: gin.TestMode, CORS: middleware.DefaultCORSConfig()})
	r.Register(pingRegistrar{})

	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
