package handlers

import (
	"net/http"

	"home_temperature_control/internal/logger"
	"home_temperature_control/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Room status and target endpoints
	h.registerRoomRoutes(router)

	// House topology CRUD
	h.registerTopologyRoutes(router)

	// Token-gated process control
	h.registerControlRoutes(router)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Minimal WebSocket connection (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	// Web dashboard
	router.Static("/static", "./static")
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/static/index.html")
	})

	return router
}

func (h *Handler) registerRoomRoutes(r *gin.Engine) {
	r.GET("/rooms", h.getRooms)
	r.GET("/room/:id", h.getRoom)
	r.GET("/rooms/floor/:floor", h.getRoomsByFloor)
	r.GET("/rooms/type/:type", h.getRoomsByType)
	r.PUT("/rooms/:id/temperature", h.setTargetTemperature)
}

func (h *Handler) registerTopologyRoutes(r *gin.Engine) {
	topology := r.Group("/topology")
	{
		topology.GET("", h.getTopology)
		topology.POST("/rooms/:type", h.addRoom)
		topology.PUT("/rooms/:id", h.updateRoom)
		topology.DELETE("/rooms/:id", h.deleteRoom)
	}
}

func (h *Handler) registerControlRoutes(r *gin.Engine) {
	control := r.Group("/control")
	{
		control.POST("/stop", h.stopSystem)
		control.POST("/restart", h.restartSystem)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
