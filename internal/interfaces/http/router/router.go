package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dms/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar registers a handler's routes on an API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// SystemRegistrar registers routes on the engine root, outside the
// versioned API group. Used for health probes.
type SystemRegistrar interface {
	RegisterRoutes(r gin.IRoutes)
}

// Config configures the HTTP router
type Config struct {
	ServiceName   string
	Mode          string
	Logger        *zap.Logger
	CORS          middleware.CORSConfig
	JWT           *middleware.JWTConfig
	Metrics       *middleware.HTTPMetrics
	EnableTracing bool
}

// Router assembles the gin engine with the middleware chain and the
// versioned API groups
type Router struct {
	engine *gin.Engine
	api    *gin.RouterGroup
}

// New creates a Router with the standard middleware chain
func New(cfg Config) *Router {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(cfg.Logger))
	if cfg.EnableTracing {
		engine.Use(middleware.Tracing(cfg.ServiceName))
		engine.Use(middleware.SpanEnricher())
	}
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.Handler())
	}
	engine.Use(middleware.RequestLogger(cfg.Logger))
	engine.Use(middleware.SecureHeaders())
	engine.Use(middleware.CORS(cfg.CORS))

	api := engine.Group("/api/v1")
	if cfg.JWT != nil {
		api.Use(middleware.JWTAuth(*cfg.JWT))
	}

	return &Router{engine: engine, api: api}
}

// Register mounts handlers on the versioned API group
func (r *Router) Register(registrars ...RouteRegistrar) {
	for _, registrar := range registrars {
		registrar.RegisterRoutes(r.api)
	}
}

// RegisterSystem mounts probe handlers on the engine root, before
// authentication
func (r *Router) RegisterSystem(registrars ...SystemRegistrar) {
	for _, registrar := range registrars {
		registrar.RegisterRoutes(r.engine)
	}
}

// Engine returns the underlying gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
