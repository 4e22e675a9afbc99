package service

import (
	"fmt"

	"home_temperature_control/internal/logger"
	"home_temperature_control/internal/models"
	"home_temperature_control/internal/repository"
)

// TopologyService mutates the persisted house layout and keeps the control
// loop's room set in sync after every change.
type TopologyService struct {
	topo    repository.TopologyRepo
	control Control
	events  repository.EventRepo
	log     *logger.Logger
}

func NewTopologyService(topo repository.TopologyRepo, control Control, events repository.EventRepo, log *logger.Logger) *TopologyService {
	return &TopologyService{topo: topo, control: control, events: events, log: log}
}

// Get returns the current topology document.
func (s *TopologyService) Get() (*models.Topology, error) {
	return s.topo.Load()
}

// AddRoom appends a room under an existing room type. The type must already
// be present in the topology (room types map to configured default
// temperatures) and the id must be unique across all types.
func (s *TopologyService) AddRoom(roomType string, room models.RoomInfo) error {
	topo, err := s.topo.Load()
	if err != nil {
		return err
	}
	if _, ok := topo.Rooms[roomType]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidRoomType, roomType)
	}
	for _, list := range topo.Rooms {
		for _, existing := range list {
			if existing.ID == room.ID {
				return fmt.Errorf("%w: %s", ErrRoomExists, room.ID)
			}
		}
	}

	room.Type = roomType
	topo.Rooms[roomType] = append(topo.Rooms[roomType], room)
	if err := s.saveAndReload(topo); err != nil {
		return err
	}

	s.log.Infow("room added", "room", room.ID, "type", roomType, "floor", room.Floor)
	s.appendEvent(room.ID, "room added to topology", map[string]any{"type": roomType, "name": room.Name})
	return nil
}

// UpdateRoom applies a partial update to an existing room.
func (s *TopologyService) UpdateRoom(roomID string, patch models.RoomPatch) error {
	topo, err := s.topo.Load()
	if err != nil {
		return err
	}

	found := false
	for roomType := range topo.Rooms {
		for i := range topo.Rooms[roomType] {
			if topo.Rooms[roomType][i].ID != roomID {
				continue
			}
			if patch.Name != nil {
				topo.Rooms[roomType][i].Name = *patch.Name
			}
			if patch.Floor != nil {
				topo.Rooms[roomType][i].Floor = *patch.Floor
			}
			found = true
			break
		}
		if found {
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}

	if err := s.saveAndReload(topo); err != nil {
		return err
	}
	s.log.Infow("room updated", "room", roomID)
	s.appendEvent(roomID, "room updated in topology", nil)
	return nil
}

// DeleteRoom removes a room from the topology.
func (s *TopologyService) DeleteRoom(roomID string) error {
	topo, err := s.topo.Load()
	if err != nil {
		return err
	}

	found := false
	for roomType, list := range topo.Rooms {
		for i, room := range list {
			if room.ID != roomID {
				continue
			}
			topo.Rooms[roomType] = append(list[:i], list[i+1:]...)
			found = true
			break
		}
		if found {
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}

	if err := s.saveAndReload(topo); err != nil {
		return err
	}
	s.log.Infow("room deleted", "room", roomID)
	s.appendEvent(roomID, "room deleted from topology", nil)
	return nil
}

func (s *TopologyService) saveAndReload(topo *models.Topology) error {
	if err := s.topo.Save(topo); err != nil {
		return err
	}
	return s.control.Reload()
}

func (s *TopologyService) appendEvent(roomID, description string, meta map[string]any) {
	if s.events == nil {
		return
	}
	ctx, cancel := eventContext()
	defer cancel()
	if err := s.events.Append(ctx, models.ControlEvent{
		Type:        models.EventSystem,
		RoomID:      roomID,
		Description: description,
		Metadata:    meta,
	}); err != nil {
		s.log.Warnw("failed to append topology event", "room", roomID, "err", err)
	}
}
