package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing service is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	version  string
	database Pinger
	ttsReady bool
}

func NewHealthHandler(version string, database Pinger, ttsReady bool) *HealthHandler {
	return &HealthHandler{version: version, database: database, ttsReady: ttsReady}
}

func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "AIETA AI Interviewer v" + h.version,
		"status":  "running",
		"features": []string{
			"Interview Management",
			"Answer Evaluation",
			"Text-to-Speech",
			"Report Generation",
		},
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	db := "connected"
	if h.database != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.database(ctx); err != nil {
			db = "unavailable"
		}
	}

	tts := "available"
	if !h.ttsReady {
		tts = "unavailable"
	}

	status := "healthy"
	if db != "connected" {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services": gin.H{
			"database": db,
			"tts":      tts,
		},
	})
}
