package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home_temperature_control/internal/config"
	"home_temperature_control/internal/devices"
	"home_temperature_control/internal/logger"
	"home_temperature_control/internal/models"
)

type fakeTopoRepo struct {
	mu   sync.Mutex
	topo *models.Topology
	err  error
}

func (f *fakeTopoRepo) Load() (*models.Topology, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.topo, nil
}

func (f *fakeTopoRepo) Save(t *models.Topology) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.topo = t
	return nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []models.ControlEvent
}

func (f *fakeEventRepo) Append(_ context.Context, e models.ControlEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEventRepo) List(_ context.Context, _, _ time.Time, typ string) ([]models.ControlEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ControlEvent
	for _, e := range f.events {
		if typ == "" || e.Type == typ {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) byType(typ string) []models.ControlEvent {
	out, _ := f.List(context.Background(), time.Time{}, time.Time{}, typ)
	return out
}

func floatPtr(v float64) *float64 { return &v }

func testLogger() *logger.Logger { return logger.Get(logger.ErrorLevel) }

func testConfig() *config.Config {
	return &config.Config{
		Control: config.Control{
			CheckIntervalSeconds: 1,
			Hysteresis:           0,
			MinAllowedTemp:       15,
			MaxAllowedTemp:       30,
		},
		Defaults: map[string]float64{
			"bathroom": 24.0,
			"bedroom":  21.0,
		},
		Rooms: map[string]config.Room{
			"bath_f1_big": {TargetTemperature: floatPtr(23.0)},
		},
	}
}

func testTopology() *models.Topology {
	return &models.Topology{Rooms: map[string][]models.RoomInfo{
		"bathroom": {
			{ID: "bath_f1_big", Name: "Big bathroom", Floor: 1, Type: "bathroom"},
		},
		"bedroom": {
			{ID: "bed_f2_master", Name: "Master bedroom", Floor: 2, Type: "bedroom"},
		},
	}}
}

func newTestControl(t *testing.T, cfg *config.Config, topo *models.Topology, gw devices.Gateway) (*ControlService, *fakeEventRepo) {
	t.Helper()
	events := &fakeEventRepo{}
	svc := NewControlService(cfg, &fakeTopoRepo{topo: topo}, gw, events, logger.Get(logger.ErrorLevel))
	require.NoError(t, svc.Reload())
	return svc, events
}

func TestReload_InitializesRoomsWithTargets(t *testing.T) {
	svc, _ := newTestControl(t, testConfig(), testTopology(), devices.NewFake())

	rooms := svc.Rooms()
	require.Len(t, rooms, 2)

	// Per-room override wins over the room-type default.
	assert.Equal(t, 23.0, rooms["bath_f1_big"].TargetTemp)
	// Room-type default applies otherwise.
	assert.Equal(t, 21.0, rooms["bed_f2_master"].TargetTemp)
	// No reading yet.
	assert.Nil(t, rooms["bath_f1_big"].CurrentTemp)
	assert.False(t, rooms["bath_f1_big"].HeaterOn)
}

func TestReload_SkipsRoomTypeWithoutDefault(t *testing.T) {
	topo := testTopology()
	topo.Rooms["garage"] = []models.RoomInfo{{ID: "garage_f0", Name: "Garage", Floor: 0, Type: "garage"}}
	svc, _ := newTestControl(t, testConfig(), topo, devices.NewFake())

	rooms := svc.Rooms()
	assert.Len(t, rooms, 2)
	_, err := svc.Room("garage_f0")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRunCycle_HeatsColdRoomExactlyOnce(t *testing.T) {
	gw := devices.NewFake()
	gw.SetTemperature("bath_f1_big", 20.0)
	gw.SetTemperature("bed_f2_master", 22.0) // above its 21.0 target
	svc, _ := newTestControl(t, testConfig(), testTopology(), gw)

	svc.runCycle(context.Background())

	require.True(t, gw.HeaterOn("bath_f1_big"))
	assert.False(t, gw.HeaterOn("bed_f2_master"))

	room, err := svc.Room("bath_f1_big")
	require.NoError(t, err)
	require.NotNil(t, room.CurrentTemp)
	assert.Equal(t, 20.0, *room.CurrentTemp)
	assert.True(t, room.HeaterOn)
	assert.False(t, room.LastUpdate.IsZero())

	// Same conditions next cycle: no redundant heater write.
	writesBefore := len(gw.Writes())
	svc.runCycle(context.Background())
	assert.Equal(t, writesBefore, len(gw.Writes()), "unchanged state must not be re-commanded")
}

func TestRunCycle_BathHeatsThenStops(t *testing.T) {
	gw := devices.NewFake()
	gw.SetTemperature("bath_f1_big", 20.0)
	gw.SetTemperature("bed_f2_master", 22.0)
	svc, events := newTestControl(t, testConfig(), testTopology(), gw)

	// target=23.0, current=20.0 -> heater ON
	svc.runCycle(context.Background())
	require.True(t, gw.HeaterOn("bath_f1_big"))

	// subsequent cycle current=24.0 -> heater OFF
	gw.SetTemperature("bath_f1_big", 24.0)
	svc.runCycle(context.Background())
	assert.False(t, gw.HeaterOn("bath_f1_big"))

	ops := events.byType(models.EventHeaterOperation)
	require.Len(t, ops, 2)
	assert.Equal(t, "heater activated", ops[0].Description)
	assert.Equal(t, "heater deactivated", ops[1].Description)
}

func TestRunCycle_EqualityCommandsOff(t *testing.T) {
	gw := devices.NewFake()
	gw.SetTemperature("bath_f1_big", 20.0)
	gw.SetTemperature("bed_f2_master", 22.0)
	svc, _ := newTestControl(t, testConfig(), testTopology(), gw)

	svc.runCycle(context.Background())
	require.True(t, gw.HeaterOn("bath_f1_big"))

	// Exactly at target: heater switches off.
	gw.SetTemperature("bath_f1_big", 23.0)
	svc.runCycle(context.Background())
	assert.False(t, gw.HeaterOn("bath_f1_big"))
}

func TestRunCycle_ReadFailureIsolatedPerRoom(t *testing.T) {
	gw := devices.NewFake()
	gw.SetTemperature("bath_f1_big", 20.0)
	gw.SetTemperature("bed_f2_master", 18.0)
	gw.FailReads("bath_f1_big", true)
	svc, events := newTestControl(t, testConfig(), testTopology(), gw)

	// Several consecutive failing cycles: the healthy room keeps being
	// controlled, the failing one is skipped without actuation.
	for i := 0; i < 5; i++ {
		svc.runCycle(context.Background())
	}

	assert.True(t, gw.HeaterOn("bed_f2_master"))
	failing, err := svc.Room("bath_f1_big")
	require.NoError(t, err)
	assert.Nil(t, failing.CurrentTemp, "never sampled successfully")
	assert.False(t, failing.HeaterOn)
	for _, w := range gw.Writes() {
		assert.NotEqual(t, "bath_f1_big", w.RoomID, "failing room must not be actuated")
	}
	assert.NotEmpty(t, events.byType(models.EventError))
}

func TestRunCycle_ReadFailureKeepsLastKnownValue(t *testing.T) {
	gw := devices.NewFake()
	gw.SetTemperature("bath_f1_big", 20.0)
	gw.SetTemperature("bed_f2_master", 22.0)
	svc, _ := newTestControl(t, testConfig(), testTopology(), gw)

	svc.runCycle(context.Background())
	room, _ := svc.Room("bath_f1_big")
	firstUpdate := room.LastUpdate
	require.NotNil(t, room.CurrentTemp)

	gw.FailReads("bath_f1_big", true)
	svc.runCycle(context.Background())

	room, _ = svc.Room("bath_f1_big")
	require.NotNil(t, room.CurrentTemp, "last known reading is kept")
	assert.Equal(t, 20.0, *room.CurrentTemp)
	assert.Equal(t, firstUpdate, room.LastUpdate, "staleness visible via last_update")
}

func TestRunCycle_WriteFailureRetriedNextCycle(t *testing.T) {
	gw := devices.NewFake()
	gw.SetTemperature("bath_f1_big", 20.0)
	gw.SetTemperature("bed_f2_master", 22.0)
	gw.FailWrites("bath_f1_big", true)
	svc, _ := newTestControl(t, testConfig(), testTopology(), gw)

	svc.runCycle(context.Background())
	room, _ := svc.Room("bath_f1_big")
	assert.False(t, room.HeaterOn, "state reflects last successful command only")

	// Device recovers: the command is reissued on the next cycle.
	gw.FailWrites("bath_f1_big", false)
	svc.runCycle(context.Background())
	assert.True(t, gw.HeaterOn("bath_f1_big"))
	room, _ = svc.Room("bath_f1_big")
	assert.True(t, room.HeaterOn)
}

func TestRunCycle_HysteresisHoldsInsideBand(t *testing.T) {
	cfg := testConfig()
	cfg.Control.Hysteresis = 0.5
	gw := devices.NewFake()
	gw.SetTemperature("bath_f1_big", 20.0) // well below 23.0 - 0.5
	gw.SetTemperature("bed_f2_master", 22.0)
	svc, _ := newTestControl(t, cfg, testTopology(), gw)

	svc.runCycle(context.Background())
	require.True(t, gw.HeaterOn("bath_f1_big"))

	// Inside the band the heater holds its state.
	gw.SetTemperature("bath_f1_big", 23.2)
	writesBefore := len(gw.Writes())
	svc.runCycle(context.Background())
	assert.True(t, gw.HeaterOn("bath_f1_big"))
	assert.Equal(t, writesBefore, len(gw.Writes()))

	// Above target + band it switches off.
	gw.SetTemperature("bath_f1_big", 23.6)
	svc.runCycle(context.Background())
	assert.False(t, gw.HeaterOn("bath_f1_big"))
}

func TestDesiredHeaterState(t *testing.T) {
	cases := []struct {
		name       string
		current    float64
		target     float64
		hysteresis float64
		heaterOn   bool
		want       bool
	}{
		{"below target", 20, 23, 0, false, true},
		{"above target", 24, 23, 0, true, false},
		{"at target while on", 23, 23, 0, true, false},
		{"at target while off", 23, 23, 0, false, false},
		{"inside band holds on", 22.8, 23, 0.5, true, true},
		{"inside band holds off", 22.8, 23, 0.5, false, false},
		{"below band", 22.4, 23, 0.5, false, true},
		{"above band", 23.5, 23, 0.5, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := desiredHeaterState(tc.current, tc.target, tc.hysteresis, tc.heaterOn)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReload_RoomRemovedBetweenCycles(t *testing.T) {
	gw := devices.NewFake()
	gw.SetTemperature("bath_f1_big", 20.0)
	gw.SetTemperature("bed_f2_master", 22.0)
	topoRepo := &fakeTopoRepo{topo: testTopology()}
	svc := NewControlService(testConfig(), topoRepo, gw, &fakeEventRepo{}, logger.Get(logger.ErrorLevel))
	require.NoError(t, svc.Reload())

	svc.runCycle(context.Background())
	require.Len(t, svc.Rooms(), 2)

	// Drop the bathroom from the topology; the next cycle simply skips it.
	topoRepo.topo = &models.Topology{Rooms: map[string][]models.RoomInfo{
		"bedroom": {{ID: "bed_f2_master", Name: "Master bedroom", Floor: 2, Type: "bedroom"}},
	}}
	require.NoError(t, svc.Reload())

	svc.runCycle(context.Background())
	assert.Len(t, svc.Rooms(), 1)
	_, err := svc.Room("bath_f1_big")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestReload_KeepsRuntimeStateForSurvivingRooms(t *testing.T) {
	gw := devices.NewFake()
	gw.SetTemperature("bath_f1_big", 20.0)
	gw.SetTemperature("bed_f2_master", 22.0)
	svc, _ := newTestControl(t, testConfig(), testTopology(), gw)

	svc.runCycle(context.Background())
	_, err := svc.SetTarget("bath_f1_big", 25.0)
	require.NoError(t, err)

	require.NoError(t, svc.Reload())

	room, err := svc.Room("bath_f1_big")
	require.NoError(t, err)
	assert.Equal(t, 25.0, room.TargetTemp, "runtime target survives reload")
	require.NotNil(t, room.CurrentTemp)
	assert.Equal(t, 20.0, *room.CurrentTemp)
	assert.True(t, room.HeaterOn)
}

func TestSetTarget_Validation(t *testing.T) {
	svc, _ := newTestControl(t, testConfig(), testTopology(), devices.NewFake())

	_, err := svc.SetTarget("bath_f1_big", 35.0)
	assert.ErrorIs(t, err, ErrTargetOutOfRange)
	_, err = svc.SetTarget("bath_f1_big", 10.0)
	assert.ErrorIs(t, err, ErrTargetOutOfRange)
	_, err = svc.SetTarget("no_such_room", 22.0)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	status, err := svc.SetTarget("bath_f1_big", 22.0)
	require.NoError(t, err)
	assert.Equal(t, 22.0, status.TargetTemp)
}

func TestRoomFilters(t *testing.T) {
	svc, _ := newTestControl(t, testConfig(), testTopology(), devices.NewFake())

	assert.Len(t, svc.RoomsByFloor(1), 1)
	assert.Len(t, svc.RoomsByFloor(2), 1)
	assert.Empty(t, svc.RoomsByFloor(3))
	assert.Len(t, svc.RoomsByType("bathroom"), 1)
	assert.Empty(t, svc.RoomsByType("garage"))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	gw := devices.NewFake()
	gw.SetTemperature("bath_f1_big", 20.0)
	gw.SetTemperature("bed_f2_master", 22.0)
	svc, _ := newTestControl(t, testConfig(), testTopology(), gw)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("control loop did not stop after cancellation")
	}
}
