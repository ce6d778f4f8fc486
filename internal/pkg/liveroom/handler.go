package liveroom

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AccessChecker decides whether a user may join a live class room. Implemented
// by the live class service; trainers of the course, admins, and approved
// students all pass.
type AccessChecker interface {
	CanJoinLiveClass(ctx context.Context, liveClassID, userID int64, roleType string) (bool, string, error)
}

// Handler upgrades HTTP connections into live class room clients
type Handler struct {
	hub    *Hub
	access AccessChecker
	logger zerolog.Logger
}

// NewHandler creates a new live room Handler
func NewHandler(hub *Hub, access AccessChecker, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		access: access,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Join a live class chat room
// @Description Upgrades the HTTP connection to a WebSocket for real-time live class chat
// @Tags live-classes
// @Security BearerAuth
// @Param id path int true "Live class ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 400 {object} gin.H "Invalid live class ID"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 403 {object} gin.H "User may not join this live class"
// @Router /live-classes/{id}/room [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	liveClassIDStr := c.Param("id")
	liveClassID, err := strconv.ParseInt(liveClassIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid live class ID",
		})
		return
	}

	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in context",
		})
		return
	}
	userID, ok := userIDValue.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	roleType, _ := c.Get("roleType")
	role, _ := roleType.(string)

	allowed, senderName, err := h.access.CanJoinLiveClass(c, liveClassID, userID, role)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("liveClassID", liveClassID).
			Int64("userID", userID).
			Msg("Failed to check live class access")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to check live class access",
		})
		return
	}
	if !allowed {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You are not allowed to join this live class",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("liveClassID", liveClassID).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:         h.hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		userID:      userID,
		senderName:  senderName,
		liveClassID: liveClassID,
		logger:      h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("liveClassID", liveClassID).
		Int64("userID", userID).
		Msg("Live class room connection established")
}
