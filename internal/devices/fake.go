package devices

import (
	"context"
	"errors"
	"sync"
)

// ErrUnreachable is what the fake returns for rooms marked as failing.
var ErrUnreachable = errors.New("device unreachable")

// Fake is an in-memory Gateway for tests. Temperatures and failure modes are
// set per room; heater commands are recorded.
type Fake struct {
	mu sync.Mutex

	temps       map[string]float64
	readFails   map[string]bool
	writeFails  map[string]bool
	heaterState map[string]bool
	writes      []HeaterWrite
}

// HeaterWrite records one SetHeater call.
type HeaterWrite struct {
	RoomID string
	On     bool
}

func NewFake() *Fake {
	return &Fake{
		temps:       make(map[string]float64),
		readFails:   make(map[string]bool),
		writeFails:  make(map[string]bool),
		heaterState: make(map[string]bool),
	}
}

func (f *Fake) SetTemperature(roomID string, temp float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.temps[roomID] = temp
}

func (f *Fake) FailReads(roomID string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readFails[roomID] = fail
}

func (f *Fake) FailWrites(roomID string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeFails[roomID] = fail
}

func (f *Fake) ReadTemperature(_ context.Context, roomID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readFails[roomID] {
		return 0, ErrUnreachable
	}
	t, ok := f.temps[roomID]
	if !ok {
		return 0, ErrUnreachable
	}
	return t, nil
}

func (f *Fake) SetHeater(_ context.Context, roomID string, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeFails[roomID] {
		return ErrUnreachable
	}
	f.heaterState[roomID] = on
	f.writes = append(f.writes, HeaterWrite{RoomID: roomID, On: on})
	return nil
}

// HeaterOn reports the last successfully commanded state for a room.
func (f *Fake) HeaterOn(roomID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.heaterState[roomID]
}

// Writes returns a copy of all recorded heater commands.
func (f *Fake) Writes() []HeaterWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]HeaterWrite, len(f.writes))
	copy(out, f.writes)
	return out
}
