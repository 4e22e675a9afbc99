package repository

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"home_temperature_control/internal/models"
)

// TopologyYAML stores the house layout in a YAML file, the same document the
// operator edits by hand. Access is serialized so concurrent API mutations
// cannot interleave read-modify-write cycles.
type TopologyYAML struct {
	mu   sync.Mutex
	path string
}

func NewTopologyYAML(path string) *TopologyYAML {
	return &TopologyYAML{path: path}
}

// Load parses the topology file. A missing file yields an empty topology
// rather than an error, so a fresh install starts with no rooms.
func (t *TopologyYAML) Load() (*models.Topology, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loadLocked()
}

func (t *TopologyYAML) loadLocked() (*models.Topology, error) {
	raw, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &models.Topology{Rooms: map[string][]models.RoomInfo{}}, nil
		}
		return nil, fmt.Errorf("read topology %q: %w", t.path, err)
	}

	var topo models.Topology
	if err := yaml.Unmarshal(raw, &topo); err != nil {
		return nil, fmt.Errorf("parse topology %q: %w", t.path, err)
	}
	if topo.Rooms == nil {
		topo.Rooms = map[string][]models.RoomInfo{}
	}
	// Room type lives in the map key, not in each entry.
	for roomType, list := range topo.Rooms {
		for i := range list {
			list[i].Type = roomType
		}
	}
	return &topo, nil
}

// Save writes the topology back. The write goes through a temp file and
// rename so a crash mid-write cannot truncate the document.
func (t *TopologyYAML) Save(topo *models.Topology) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw, err := yaml.Marshal(topo)
	if err != nil {
		return fmt.Errorf("encode topology: %w", err)
	}

	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write topology %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("replace topology %q: %w", t.path, err)
	}
	return nil
}
