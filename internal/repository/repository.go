package repository

import (
	"context"
	"database/sql"
	"time"

	"home_temperature_control/internal/models"
)

// EventRepo is the append-only control action log.
type EventRepo interface {
	Append(ctx context.Context, e models.ControlEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.ControlEvent, error)
}

// TopologyRepo persists the house layout.
type TopologyRepo interface {
	Load() (*models.Topology, error)
	Save(t *models.Topology) error
}

type Repository struct {
	Events   EventRepo
	Topology TopologyRepo
}

func NewRepository(db *sql.DB, topologyPath string) *Repository {
	return &Repository{
		Events:   NewEventSQLite(db),
		Topology: NewTopologyYAML(topologyPath),
	}
}
