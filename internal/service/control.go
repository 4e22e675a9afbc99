package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"home_temperature_control/internal/config"
	"home_temperature_control/internal/devices"
	"home_temperature_control/internal/logger"
	"home_temperature_control/internal/models"
	"home_temperature_control/internal/repository"
)

// roomState is the mutable per-room record owned by the control loop.
// currentTemp stays nil until the first successful sensor read; after a
// failed read the last known value is kept and lastUpdate stops advancing.
type roomState struct {
	info        models.RoomInfo
	target      float64
	currentTemp *float64
	heaterOn    bool // last successfully commanded state
	lastUpdate  time.Time
}

// ControlService owns all room state and converges each room toward its
// target temperature. The loop is the single writer; status handlers read
// snapshot copies under the same lock.
type ControlService struct {
	cfg     *config.Config
	topo    repository.TopologyRepo
	gateway devices.Gateway
	events  repository.EventRepo
	log     *logger.Logger

	mu    sync.RWMutex
	rooms map[string]*roomState
}

func NewControlService(cfg *config.Config, topo repository.TopologyRepo, gw devices.Gateway, events repository.EventRepo, log *logger.Logger) *ControlService {
	return &ControlService{
		cfg:     cfg,
		topo:    topo,
		gateway: gw,
		events:  events,
		log:     log,
		rooms:   make(map[string]*roomState),
	}
}

// Run ticks every configured check interval until ctx is canceled. A panic
// inside a cycle is logged and recorded, and the loop keeps running; only
// cancellation stops it.
func (s *ControlService) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.Control.CheckIntervalSeconds) * time.Second
	s.log.Infow("control loop started", "interval", interval, "rooms", len(s.Rooms()))
	s.appendEvent(models.ControlEvent{
		Type:        models.EventSystem,
		Description: "temperature control loop started",
	})

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Infow("control loop stopped")
			s.appendEvent(models.ControlEvent{
				Type:        models.EventSystem,
				Description: "temperature control loop stopped",
			})
			return
		case <-t.C:
			s.cycle(ctx)
		}
	}
}

// cycle runs one full pass over all rooms, shielding the loop from panics in
// the per-room logic. The failure is never swallowed silently: it is logged
// and appended to the action log before the next tick proceeds.
func (s *ControlService) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("control cycle panicked", "panic", r)
			s.appendEvent(models.ControlEvent{
				Type:        models.EventError,
				Description: "control cycle aborted by panic",
				Metadata:    map[string]any{"panic": fmt.Sprint(r)},
			})
		}
	}()
	s.runCycle(ctx)
}

// runCycle samples and actuates every room independently. One room's device
// failure never affects the others; cancellation is honored between rooms.
func (s *ControlService) runCycle(ctx context.Context) {
	for _, id := range s.roomIDs() {
		if ctx.Err() != nil {
			return
		}
		s.controlRoom(ctx, id)
	}
}

func (s *ControlService) roomIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// controlRoom performs one read-decide-actuate step for a single room.
func (s *ControlService) controlRoom(ctx context.Context, roomID string) {
	s.mu.RLock()
	st, ok := s.rooms[roomID]
	if !ok {
		// Room deleted since the cycle started; skip.
		s.mu.RUnlock()
		return
	}
	prevTemp := st.currentTemp
	s.mu.RUnlock()

	temp, err := s.gateway.ReadTemperature(ctx, roomID)
	if err != nil {
		// Keep the last known reading and skip actuation this cycle.
		s.log.Warnw("sensor read failed", "room", roomID, "err", err)
		s.appendEvent(models.ControlEvent{
			Type:        models.EventError,
			RoomID:      roomID,
			Description: "temperature read failed",
			Metadata:    map[string]any{"error": err.Error()},
		})
		return
	}

	s.mu.Lock()
	st, ok = s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return
	}
	st.currentTemp = &temp
	st.lastUpdate = time.Now()
	target := st.target
	heaterOn := st.heaterOn
	s.mu.Unlock()

	if prevTemp == nil || *prevTemp != temp {
		s.appendEvent(models.ControlEvent{
			Type:        models.EventTemperatureChange,
			RoomID:      roomID,
			Description: "temperature reading updated",
			Metadata:    map[string]any{"temperature": temp, "target": target},
		})
	}
	s.log.Debugw("temperature check", "room", roomID, "temp", temp, "target", target, "heater_on", heaterOn)

	desired := desiredHeaterState(temp, target, s.cfg.Control.Hysteresis, heaterOn)
	if desired == heaterOn {
		return
	}
	s.commandHeater(ctx, roomID, desired, temp, target)
}

// commandHeater issues the actuation and records the new state only when the
// device acknowledged it; a failed write is retried implicitly next cycle.
func (s *ControlService) commandHeater(ctx context.Context, roomID string, on bool, temp, target float64) {
	if err := s.gateway.SetHeater(ctx, roomID, on); err != nil {
		s.log.Warnw("heater command failed", "room", roomID, "desired_on", on, "err", err)
		s.appendEvent(models.ControlEvent{
			Type:        models.EventError,
			RoomID:      roomID,
			Description: "heater command failed",
			Metadata:    map[string]any{"desired_on": on, "error": err.Error()},
		})
		return
	}

	s.mu.Lock()
	if st, ok := s.rooms[roomID]; ok {
		st.heaterOn = on
	}
	s.mu.Unlock()

	s.log.Infow("heater switched", "room", roomID, "on", on, "temp", temp, "target", target)
	s.appendEvent(models.ControlEvent{
		Type:        models.EventHeaterOperation,
		RoomID:      roomID,
		Description: heaterOpDescription(on),
		Metadata:    map[string]any{"on": on, "temperature": temp, "target": target},
	})
}

// desiredHeaterState applies the hysteresis band around the target: heat when
// clearly below, stop when at or above, hold inside the band. With a zero
// band this degenerates to heat-below / stop-at-or-above the target.
func desiredHeaterState(current, target, hysteresis float64, heaterOn bool) bool {
	switch {
	case current < target-hysteresis:
		return true
	case current >= target+hysteresis:
		return false
	default:
		return heaterOn
	}
}

func heaterOpDescription(on bool) string {
	if on {
		return "heater activated"
	}
	return "heater deactivated"
}

// Reload rebuilds the room set from the topology. Rooms that survive keep
// their runtime state, including a target changed through the API; new rooms
// get the configured default for their type. Rooms whose type has no default
// temperature are skipped with an error logged.
func (s *ControlService) Reload() error {
	topo, err := s.topo.Load()
	if err != nil {
		return fmt.Errorf("load topology: %w", err)
	}

	next := make(map[string]*roomState)
	s.mu.Lock()
	defer s.mu.Unlock()
	for roomType, list := range topo.Rooms {
		for _, info := range list {
			target, ok := s.cfg.TargetFor(info.ID, roomType)
			if !ok {
				s.log.Errorw("no target temperature configured for room type", "room", info.ID, "type", roomType)
				continue
			}
			if prev, exists := s.rooms[info.ID]; exists {
				prev.info = info
				next[info.ID] = prev
				continue
			}
			next[info.ID] = &roomState{info: info, target: target}
			s.log.Infow("room initialized", "room", info.ID, "name", info.Name, "target", target)
		}
	}
	s.rooms = next
	return nil
}

// SetTarget updates a room's target temperature, clamped to the configured
// allowed range.
func (s *ControlService) SetTarget(roomID string, target float64) (models.RoomStatus, error) {
	if target < s.cfg.Control.MinAllowedTemp || target > s.cfg.Control.MaxAllowedTemp {
		return models.RoomStatus{}, ErrTargetOutOfRange
	}

	s.mu.Lock()
	st, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return models.RoomStatus{}, ErrRoomNotFound
	}
	old := st.target
	st.target = target
	snap := st.snapshot()
	s.mu.Unlock()

	s.log.Infow("target temperature changed", "room", roomID, "old", old, "new", target)
	s.appendEvent(models.ControlEvent{
		Type:        models.EventSystem,
		RoomID:      roomID,
		Description: "target temperature changed",
		Metadata:    map[string]any{"old": old, "new": target},
	})
	return snap, nil
}

// Rooms returns a snapshot of every room keyed by id.
func (s *ControlService) Rooms() map[string]models.RoomStatus {
	return s.filter(func(*roomState) bool { return true })
}

// Room returns a snapshot of a single room.
func (s *ControlService) Room(id string) (models.RoomStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.rooms[id]
	if !ok {
		return models.RoomStatus{}, ErrRoomNotFound
	}
	return st.snapshot(), nil
}

// RoomsByFloor returns snapshots of all rooms on the given floor.
func (s *ControlService) RoomsByFloor(floor int) map[string]models.RoomStatus {
	return s.filter(func(st *roomState) bool { return st.info.Floor == floor })
}

// RoomsByType returns snapshots of all rooms of the given type.
func (s *ControlService) RoomsByType(roomType string) map[string]models.RoomStatus {
	return s.filter(func(st *roomState) bool { return st.info.Type == roomType })
}

func (s *ControlService) filter(keep func(*roomState) bool) map[string]models.RoomStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.RoomStatus)
	for id, st := range s.rooms {
		if keep(st) {
			out[id] = st.snapshot()
		}
	}
	return out
}

// snapshot copies the state into an API-safe value. Caller holds the lock.
func (st *roomState) snapshot() models.RoomStatus {
	var temp *float64
	if st.currentTemp != nil {
		v := *st.currentTemp
		temp = &v
	}
	return models.RoomStatus{
		RoomInfo:    st.info,
		CurrentTemp: temp,
		TargetTemp:  st.target,
		HeaterOn:    st.heaterOn,
		LastUpdate:  st.lastUpdate,
	}
}

// appendEvent writes to the action log without letting a storage hiccup
// disturb the control flow.
func (s *ControlService) appendEvent(e models.ControlEvent) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.events.Append(ctx, e); err != nil {
		s.log.Warnw("failed to append control event", "type", e.Type, "err", err)
	}
}
