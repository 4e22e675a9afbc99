package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	statusStopping   = "stopping"
	statusRestarting = "restarting"

	errControlDisabled = "control PIN is not configured"
	errInvalidToken    = "invalid security token"
)

// Request DTO for privileged control commands.
type controlRequest struct {
	Timestamp string `json:"timestamp" binding:"required"`
	Token     string `json:"token" binding:"required"`
}

// ControlRequest is an exported model for Swagger docs of the control payload.
type ControlRequest struct {
	// Unix timestamp the token was minted for
	Timestamp string `json:"timestamp" example:"1700000000"`
	// Hex token derived from the control PIN and timestamp
	Token string `json:"token" example:"9f8a..."`
}

// authorizeControl validates the token payload. It writes the error response
// itself and reports whether the command may proceed.
func (h *Handler) authorizeControl(c *gin.Context) bool {
	if !h.services.Security.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errControlDisabled})
		return false
	}
	var req controlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return false
	}
	if !h.services.Security.Validate(req.Token, req.Timestamp) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidToken})
		return false
	}
	return true
}

// @Summary      Stop the system
// @Description  Requires a valid PIN-derived token minted within the validity window
// @Tags         control
// @Accept       json
// @Produce      json
// @Param        body  body      ControlRequest  true  "Token payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /control/stop [post]
func (h *Handler) stopSystem(c *gin.Context) {
	if !h.authorizeControl(c) {
		return
	}
	h.services.Lifecycle.Stop("api request")
	c.JSON(http.StatusOK, gin.H{"status": statusStopping})
}

// @Summary      Restart the system
// @Description  Requires a valid PIN-derived token minted within the validity window
// @Tags         control
// @Accept       json
// @Produce      json
// @Param        body  body      ControlRequest  true  "Token payload"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /control/restart [post]
func (h *Handler) restartSystem(c *gin.Context) {
	if !h.authorizeControl(c) {
		return
	}
	h.services.Lifecycle.Restart("api request")
	c.JSON(http.StatusOK, gin.H{"status": statusRestarting})
}
