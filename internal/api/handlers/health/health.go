package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-suggester/internal/core/newsletter"
	"recipe-suggester/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthResponse is the full health-check body.
type HealthResponse struct {
	Status     string                  `json:"status"`
	Timestamp  time.Time               `json:"timestamp"`
	Version    string                  `json:"version"`
	Runtime    map[string]interface{}  `json:"runtime"`
	Newsletter *newsletter.QueueStatus `json:"newsletter,omitempty"`
}

// Handler serves liveness, readiness and detailed health checks.
type Handler struct {
	config     *config.Config
	db         *gorm.DB
	newsletter *newsletter.Service
}

// NewHandler creates a health handler. newsletter may be nil.
func NewHandler(cfg *config.Config, db *gorm.DB, nl *newsletter.Service) *Handler {
	return &Handler{
		config:     cfg,
		db:         db,
		newsletter: nl,
	}
}

// HealthCheck reports version, runtime stats and queue depth.
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if h.newsletter != nil {
		response.Newsletter = h.newsletter.Status()
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck fails when the database is unreachable.
func (h *Handler) ReadinessCheck(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck always succeeds while the process is up.
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
