// Command simulator serves fake per-room sensor and heater devices so the
// control server can run against a full house without hardware. Room ids come
// from the same topology file the server uses.
package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"home_temperature_control/internal/config"
	"home_temperature_control/internal/logger"
	"home_temperature_control/internal/repository"
	"home_temperature_control/internal/server"

	"github.com/gin-gonic/gin"
)

const (
	startTempMin = 17.0
	startTempMax = 22.0
	heatPerTick  = 0.5
	coolPerTick  = 0.2
)

type simulator struct {
	log       *logger.Logger
	variation float64
	rng       *rand.Rand

	mu      sync.Mutex
	temps   map[string]float64
	heaters map[string]bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.Logging.Level)

	topo, err := repository.NewTopologyYAML(cfg.TopologyFile).Load()
	if err != nil {
		log.Fatalw("failed to load house topology", "err", err)
	}

	sim := newSimulator(cfg.Sim.TemperatureVariation, log)
	for _, rooms := range topo.Rooms {
		for _, room := range rooms {
			sim.addRoom(room.ID)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sim.run(ctx, time.Duration(cfg.Sim.TickSeconds)*time.Second)

	srv := &server.Server{}
	go func() {
		if err := srv.Run("", cfg.Sim.Port, sim.routes()); err != nil && err != http.ErrServerClosed {
			log.Fatalw("error starting simulator server", "err", err)
		}
	}()
	log.Infow("simulator running", "port", cfg.Sim.Port, "rooms", len(sim.temps))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

func newSimulator(variation float64, log *logger.Logger) *simulator {
	return &simulator{
		log:       log,
		variation: variation,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		temps:     make(map[string]float64),
		heaters:   make(map[string]bool),
	}
}

func (s *simulator) addRoom(id string) {
	s.temps[id] = startTempMin + s.rng.Float64()*(startTempMax-startTempMin)
	s.heaters[id] = false
}

// run advances every room's temperature once per tick: heated rooms warm up,
// the rest slowly cool, and a small jitter keeps readings from being static.
func (s *simulator) run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.advance()
		}
	}
}

func (s *simulator) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, temp := range s.temps {
		if s.heaters[id] {
			temp += heatPerTick
		} else {
			temp -= coolPerTick
		}
		temp += (s.rng.Float64()*2 - 1) * s.variation / 10
		s.temps[id] = temp
	}
}

func (s *simulator) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/sensor/:room_id", s.readSensor)
	router.POST("/heater/:room_id", s.setHeater)
	return router
}

func (s *simulator) readSensor(c *gin.Context) {
	id := c.Param("room_id")
	s.mu.Lock()
	temp, ok := s.temps[id]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown room " + id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"temperature": temp})
}

func (s *simulator) setHeater(c *gin.Context) {
	id := c.Param("room_id")
	var req struct {
		Status *bool `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body: " + err.Error()})
		return
	}
	s.mu.Lock()
	_, ok := s.heaters[id]
	if ok {
		s.heaters[id] = *req.Status
	}
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "unknown room " + id})
		return
	}
	s.log.Infow("heater_command", "room_id", id, "status", *req.Status)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
