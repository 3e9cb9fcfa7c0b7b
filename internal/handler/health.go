package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	ping      func(ctx context.Context) error
	driver    string
	startTime time.Time
	version   string
}

// NewHealthHandler reports readiness by calling ping against the store
// named by driver.
func NewHealthHandler(ping func(ctx context.Context) error, driver string, startTime time.Time, version string) *HealthHandler {
	return &HealthHandler{
		ping:      ping,
		driver:    driver,
		startTime: startTime,
		version:   version,
	}
}

func (h *HealthHandler) RegisterRoutes(e *gin.Engine) {
	e.GET("/health", h.Health)
	e.GET("/ready", h.Ready)
}

func (h *HealthHandler) Health(c *gin.Context) {
	uptime := time.Since(h.startTime)

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  int64(uptime.Seconds()),
	})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	if h.ping == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "no store configured",
		})
		return
	}

	if err := h.ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"store": gin.H{
				"driver": h.driver,
				"status": "down",
				"error":  err.Error(),
			},
		})
		return
	}

	uptime := time.Since(h.startTime)

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"version": h.version,
		"uptime":  int64(uptime.Seconds()),
		"store": gin.H{
			"driver": h.driver,
			"status": "up",
		},
	})
}
