package models

import "time"

// RoomInfo is the static part of a room, loaded from the house topology.
type RoomInfo struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Floor int    `json:"floor" yaml:"floor"`
	Type  string `json:"room_type" yaml:"-"`
}

// RoomStatus is a point-in-time snapshot of one room as seen by the control
// loop. CurrentTemp is nil until the first successful sensor read.
type RoomStatus struct {
	RoomInfo
	CurrentTemp *float64  `json:"current_temperature"`
	TargetTemp  float64   `json:"target_temperature"`
	HeaterOn    bool      `json:"heater_status"`
	LastUpdate  time.Time `json:"last_update"`
}

// Topology is the persisted house layout: rooms grouped by room type.
type Topology struct {
	Rooms map[string][]RoomInfo `yaml:"rooms" json:"rooms"`
}

// RoomPatch carries optional updates for an existing room.
type RoomPatch struct {
	Name  *string `json:"name"`
	Floor *int    `json:"floor"`
}
