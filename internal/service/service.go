package service

import (
	"context"
	"errors"
	"time"

	"home_temperature_control/internal/config"
	"home_temperature_control/internal/devices"
	"home_temperature_control/internal/logger"
	"home_temperature_control/internal/models"
	"home_temperature_control/internal/repository"
	"home_temperature_control/internal/security"
)

// Domain errors handlers branch on.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomExists       = errors.New("room id already exists")
	ErrInvalidRoomType  = errors.New("invalid room type")
	ErrTargetOutOfRange = errors.New("target temperature outside allowed range")
)

// Control runs the periodic temperature control loop until ctx is canceled.
type Control interface {
	Run(ctx context.Context)
	Reload() error
}

// Monitoring exposes read-only room snapshots plus target updates.
type Monitoring interface {
	Rooms() map[string]models.RoomStatus
	Room(id string) (models.RoomStatus, error)
	RoomsByFloor(floor int) map[string]models.RoomStatus
	RoomsByType(roomType string) map[string]models.RoomStatus
	SetTarget(roomID string, target float64) (models.RoomStatus, error)
}

// Topology manages the persisted house layout.
type Topology interface {
	Get() (*models.Topology, error)
	AddRoom(roomType string, room models.RoomInfo) error
	UpdateRoom(roomID string, patch models.RoomPatch) error
	DeleteRoom(roomID string) error
}

// EventLog exposes the append-only action log with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ControlEvent, error)
}

// Security gates privileged commands with PIN-derived tokens.
type Security interface {
	Enabled() bool
	Generate(timestamp string) (string, bool)
	Validate(token, timestamp string) bool
}

// Lifecycle emits stop/restart signals after an authorized command. The
// process-level mechanics live in main; this only triggers them.
type Lifecycle interface {
	Stop(reason string)
	Restart(reason string)
	Signals() <-chan Signal
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", or one of the models.Event* constants
}

// Service aggregates all sub-services.
type Service struct {
	Control
	Monitoring
	Topology
	EventLog
	Security
	Lifecycle
}

// NewService wires repositories, the device gateway and the token service
// into concrete services.
func NewService(cfg *config.Config, repos *repository.Repository, gw devices.Gateway, sec *security.Service, log *logger.Logger) *Service {
	control := NewControlService(cfg, repos.Topology, gw, repos.Events, log)
	return &Service{
		Control:    control,
		Monitoring: control,
		Topology:   NewTopologyService(repos.Topology, control, repos.Events, log),
		EventLog:   NewEventLogService(repos.Events),
		Security:   sec,
		Lifecycle:  NewLifecycleService(repos.Events, log),
	}
}
