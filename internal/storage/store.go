package storage

import (
	"context"
	"errors"

	"boolnet/internal/model"
)

var (
	ErrNotInitialized = errors.New("store is not initialized")
	ErrMissingID      = errors.New("record id is required")
)

// Store persists network definitions and the trajectories simulated on them.
// Get methods report a missing record with ok == false and a nil error.
type Store interface {
	Init(ctx context.Context) error
	SaveNetwork(ctx context.Context, record model.NetworkRecord) error
	GetNetwork(ctx context.Context, id string) (model.NetworkRecord, bool, error)
	// ListNetworks returns every stored network ordered by id.
	ListNetworks(ctx context.Context) ([]model.NetworkRecord, error)
	// DeleteNetwork removes a network together with its trajectories.
	// Deleting an unknown id is not an error.
	DeleteNetwork(ctx context.Context, id string) error
	SaveTrajectory(ctx context.Context, record model.TrajectoryRecord) error
	GetTrajectory(ctx context.Context, id string) (model.TrajectoryRecord, bool, error)
	// ListTrajectories returns the trajectories of one network ordered by
	// creation time.
	ListTrajectories(ctx context.Context, networkID string) ([]model.TrajectoryRecord, error)
}
