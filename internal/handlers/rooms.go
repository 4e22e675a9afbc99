package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"home_temperature_control/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errRoomNotFound    = "room not found"
	errFloorInvalid    = "invalid floor; must be an integer"
	errTargetRejected  = "target temperature outside allowed range"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Request DTO for setting a room's target temperature.
type targetRequest struct {
	Temperature *float64 `json:"temperature" binding:"required"`
}

// SetTargetRequest is an exported model for Swagger docs of the target payload.
type SetTargetRequest struct {
	// Desired target temperature in Celsius
	Temperature float64 `json:"temperature" example:"22.5"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      All room statuses
// @Tags         rooms
// @Produce      json
// @Success      200  {object}  map[string]models.RoomStatus
// @Router       /rooms [get]
func (h *Handler) getRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Rooms())
}

// @Summary      Single room status
// @Tags         rooms
// @Produce      json
// @Param        id   path      string  true  "Room ID"
// @Success      200  {object}  models.RoomStatus
// @Failure      404  {object}  map[string]string
// @Router       /room/{id} [get]
func (h *Handler) getRoom(c *gin.Context) {
	room, err := h.services.Monitoring.Room(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errRoomNotFound})
		return
	}
	c.JSON(http.StatusOK, room)
}

// @Summary      Room statuses on a floor
// @Tags         rooms
// @Produce      json
// @Param        floor  path      int  true  "Floor number"
// @Success      200    {object}  map[string]models.RoomStatus
// @Failure      400    {object}  map[string]string
// @Router       /rooms/floor/{floor} [get]
func (h *Handler) getRoomsByFloor(c *gin.Context) {
	floor, err := strconv.Atoi(c.Param("floor"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errFloorInvalid})
		return
	}
	c.JSON(http.StatusOK, h.services.Monitoring.RoomsByFloor(floor))
}

// @Summary      Room statuses of a type
// @Tags         rooms
// @Produce      json
// @Param        type  path      string  true  "Room type"  example(bathroom)
// @Success      200   {object}  map[string]models.RoomStatus
// @Router       /rooms/type/{type} [get]
func (h *Handler) getRoomsByType(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.RoomsByType(c.Param("type")))
}

// @Summary      Set target temperature
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Room ID"
// @Param        body  body      SetTargetRequest  true  "Target payload"
// @Success      200   {object}  models.RoomStatus
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /rooms/{id}/temperature [put]
func (h *Handler) setTargetTemperature(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	room, err := h.services.Monitoring.SetTarget(c.Param("id"), *req.Temperature)
	switch {
	case errors.Is(err, service.ErrTargetOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": errTargetRejected})
	case errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errRoomNotFound})
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to set target", "set_target_failed", err, "room_id", c.Param("id"))
	default:
		c.JSON(http.StatusOK, room)
	}
}
