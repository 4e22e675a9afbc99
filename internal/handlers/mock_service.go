package handlers

import (
	"context"
	"time"

	"home_temperature_control/internal/models"
	"home_temperature_control/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMonitoring struct {
	rooms     map[string]models.RoomStatus
	roomErr   error
	setResult models.RoomStatus
	setErr    error

	lastSetRoom   string
	lastSetTarget float64
}

func (m *mockMonitoring) Rooms() map[string]models.RoomStatus { return m.rooms }

func (m *mockMonitoring) Room(id string) (models.RoomStatus, error) {
	if m.roomErr != nil {
		return models.RoomStatus{}, m.roomErr
	}
	if st, ok := m.rooms[id]; ok {
		return st, nil
	}
	return models.RoomStatus{}, service.ErrRoomNotFound
}

func (m *mockMonitoring) RoomsByFloor(floor int) map[string]models.RoomStatus {
	out := map[string]models.RoomStatus{}
	for id, st := range m.rooms {
		if st.Floor == floor {
			out[id] = st
		}
	}
	return out
}

func (m *mockMonitoring) RoomsByType(roomType string) map[string]models.RoomStatus {
	out := map[string]models.RoomStatus{}
	for id, st := range m.rooms {
		if st.Type == roomType {
			out[id] = st
		}
	}
	return out
}

func (m *mockMonitoring) SetTarget(roomID string, target float64) (models.RoomStatus, error) {
	m.lastSetRoom = roomID
	m.lastSetTarget = target
	return m.setResult, m.setErr
}

type mockTopology struct {
	topo      *models.Topology
	getErr    error
	addErr    error
	updateErr error
	deleteErr error

	lastAddType string
	lastAdded   models.RoomInfo
	lastPatchID string
	lastPatch   models.RoomPatch
	lastDeleted string
}

func (m *mockTopology) Get() (*models.Topology, error) { return m.topo, m.getErr }

func (m *mockTopology) AddRoom(roomType string, room models.RoomInfo) error {
	m.lastAddType = roomType
	m.lastAdded = room
	return m.addErr
}

func (m *mockTopology) UpdateRoom(roomID string, patch models.RoomPatch) error {
	m.lastPatchID = roomID
	m.lastPatch = patch
	return m.updateErr
}

func (m *mockTopology) DeleteRoom(roomID string) error {
	m.lastDeleted = roomID
	return m.deleteErr
}

type mockEventLog struct {
	resp     []models.ControlEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ControlEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

type mockSecurity struct {
	enabled bool
	valid   bool

	lastToken     string
	lastTimestamp string
}

func (m *mockSecurity) Enabled() bool { return m.enabled }

func (m *mockSecurity) Generate(timestamp string) (string, bool) {
	return "", m.enabled
}

func (m *mockSecurity) Validate(token, timestamp string) bool {
	m.lastToken = token
	m.lastTimestamp = timestamp
	return m.valid
}

type mockLifecycle struct {
	ch       chan service.Signal
	stops    int
	restarts int
}

func newMockLifecycle() *mockLifecycle {
	return &mockLifecycle{ch: make(chan service.Signal, 2)}
}

func (m *mockLifecycle) Stop(reason string) {
	m.stops++
	m.ch <- service.SignalStop
}

func (m *mockLifecycle) Restart(reason string) {
	m.restarts++
	m.ch <- service.SignalRestart
}

func (m *mockLifecycle) Signals() <-chan service.Signal { return m.ch }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
