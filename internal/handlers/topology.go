package handlers

import (
	"errors"
	"net/http"

	"home_temperature_control/internal/models"
	"home_temperature_control/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errLoadTopology = "failed to load topology"
	errSaveTopology = "failed to save topology"

	statusRoomAdded   = "room_added"
	statusRoomUpdated = "room_updated"
	statusRoomDeleted = "room_deleted"
)

// Request DTO for adding a room; the type comes from the URL.
type addRoomRequest struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Floor int    `json:"floor"`
}

// AddRoomRequest is an exported model for Swagger docs of the addRoom payload.
type AddRoomRequest struct {
	ID    string `json:"id" example:"bath_f2_small"`
	Name  string `json:"name" example:"Small bathroom"`
	Floor int    `json:"floor" example:"2"`
}

// @Summary      House topology
// @Tags         topology
// @Produce      json
// @Success      200  {object}  models.Topology
// @Failure      500  {object}  map[string]string
// @Router       /topology [get]
func (h *Handler) getTopology(c *gin.Context) {
	topo, err := h.services.Topology.Get()
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadTopology, "topology_load_failed", err)
		return
	}
	c.JSON(http.StatusOK, topo)
}

// @Summary      Add room
// @Tags         topology
// @Accept       json
// @Produce      json
// @Param        type  path      string          true  "Room type"  example(bathroom)
// @Param        body  body      AddRoomRequest  true  "Room payload"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /topology/rooms/{type} [post]
func (h *Handler) addRoom(c *gin.Context) {
	var req addRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	roomType := c.Param("type")
	err := h.services.Topology.AddRoom(roomType, models.RoomInfo{
		ID:    req.ID,
		Name:  req.Name,
		Floor: req.Floor,
	})
	switch {
	case errors.Is(err, service.ErrInvalidRoomType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown room type " + roomType})
	case errors.Is(err, service.ErrRoomExists):
		c.JSON(http.StatusConflict, gin.H{"error": "room id already exists"})
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveTopology, "topology_add_failed", err, "room_id", req.ID)
	default:
		c.JSON(http.StatusCreated, gin.H{"status": statusRoomAdded, "id": req.ID})
	}
}

// @Summary      Update room
// @Tags         topology
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Room ID"
// @Param        body  body      models.RoomPatch  true  "Fields to update"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /topology/rooms/{id} [put]
func (h *Handler) updateRoom(c *gin.Context) {
	var patch models.RoomPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	id := c.Param("id")
	err := h.services.Topology.UpdateRoom(id, patch)
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errRoomNotFound})
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveTopology, "topology_update_failed", err, "room_id", id)
	default:
		c.JSON(http.StatusOK, gin.H{"status": statusRoomUpdated, "id": id})
	}
}

// @Summary      Delete room
// @Tags         topology
// @Produce      json
// @Param        id   path      string  true  "Room ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /topology/rooms/{id} [delete]
func (h *Handler) deleteRoom(c *gin.Context) {
	id := c.Param("id")
	err := h.services.Topology.DeleteRoom(id)
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errRoomNotFound})
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveTopology, "topology_delete_failed", err, "room_id", id)
	default:
		c.JSON(http.StatusOK, gin.H{"status": statusRoomDeleted, "id": id})
	}
}
