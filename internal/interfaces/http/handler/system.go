package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dms/backend/internal/interfaces/http/dto"
)

// SystemHandler serves health and readiness probes
type SystemHandler struct {
	BaseHandler
	db        *gorm.DB
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *gorm.DB, version string, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(logger),
		db:          db,
		version:     version,
		startTime:   time.Now(),
	}
}

// RegisterRoutes registers probe routes on the engine root
func (h *SystemHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
}

// Health handles GET /health, a liveness probe
func (h *SystemHandler) Health(c *gin.Context) {
	h.OK(c, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready handles GET /ready, checking the database connection
func (h *SystemHandler) Ready(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
			dto.ErrCodeServiceUnavailable, "Database is not reachable", nil))
		return
	}
	h.OK(c, gin.H{"status": "ready"})
}
