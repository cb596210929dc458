package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jtheo/pairwire/internal/match"
)

// Health reports liveness.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats exposes a read-only snapshot of hub state: participant and queue
// counts plus rooms broken down by handshake state. Diagnostics only; rooms
// are never created or deleted over HTTP.
func Stats(hub *match.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Snapshot())
	}
}
